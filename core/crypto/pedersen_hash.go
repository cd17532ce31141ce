package crypto

import (
	"github.com/NethermindEth/juno/core/felt"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	pedersenhash "github.com/consensys/gnark-crypto/ecc/stark-curve/pedersen-hash"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PedersenArray implements [Pedersen array hashing].
//
// [Pedersen array hashing]: https://docs.starknet.io/architecture-and-concepts/cryptography/hash-functions/#array_hashing
func PedersenArray(elems ...*felt.Felt) *felt.Felt {
	var digest PedersenDigest
	return digest.Update(elems...).Finish()
}

const pedersenCacheSize = 1 << 16

type pairKey struct {
	x, y felt.Felt
}

var pedersenCache, _ = lru.New[pairKey, felt.Felt](pedersenCacheSize)

var pedersenCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "snip12",
	Name:      "pedersen_cache",
	Help:      "Pedersen pair hash cache lookups",
}, []string{"hit"})

// Pedersen implements the [Pedersen hash].
//
// [Pedersen hash]: https://docs.starknet.io/architecture-and-concepts/cryptography/hash-functions/#pedersen_hash
func Pedersen(a, b *felt.Felt) *felt.Felt {
	key := pairKey{x: *a, y: *b}
	if res, ok := pedersenCache.Get(key); ok {
		pedersenCacheHits.WithLabelValues("true").Inc()
		return &res
	}

	hash := pedersenhash.Pedersen(a.Impl(), b.Impl())
	result := felt.NewFelt(&hash)
	pedersenCache.Add(key, *result)
	pedersenCacheHits.WithLabelValues("false").Inc()
	return result
}

var _ Digest = (*PedersenDigest)(nil)

// PedersenDigest chains Pedersen over its inputs starting from zero and
// finishes by hashing in the number of elements.
type PedersenDigest struct {
	digest fp.Element
	count  uint64
}

func (d *PedersenDigest) Update(elems ...*felt.Felt) Digest {
	for idx := range elems {
		d.digest = pedersenhash.Pedersen(&d.digest, elems[idx].Impl())
	}
	d.count += uint64(len(elems))
	return d
}

func (d *PedersenDigest) Finish() *felt.Felt {
	d.digest = pedersenhash.Pedersen(&d.digest, new(fp.Element).SetUint64(d.count))
	return felt.NewFelt(&d.digest)
}
