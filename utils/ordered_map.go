package utils

import (
	"cmp"
	"iter"
	"slices"
)

// OrderMap iterates over m in ascending key order.
func OrderMap[K cmp.Ordered, T any](m map[K]T) iter.Seq2[K, T] {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return func(yield func(K, T) bool) {
		for _, k := range keys {
			if !yield(k, m[k]) {
				return
			}
		}
	}
}
