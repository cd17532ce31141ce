package typeddata

import (
	"errors"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/snip12/core/crypto"
)

// MerkleRoot computes the root of a tree whose nodes hash their children
// in ascending order. A node without a sibling is hashed with zero, so a
// single leaf still goes through one round of hashing.
func MerkleRoot(family crypto.HashFamily, leaves []*felt.Felt) (*felt.Felt, error) {
	if len(leaves) == 0 {
		return nil, &Error{Code: EmptyMerkleTree}
	}

	layer := leaves
	for {
		layer = nextMerkleLayer(family, layer)
		if len(layer) == 1 {
			return layer[0], nil
		}
	}
}

func nextMerkleLayer(family crypto.HashFamily, layer []*felt.Felt) []*felt.Felt {
	next := make([]*felt.Felt, 0, (len(layer)+1)/2)
	for i := 0; i < len(layer); i += 2 {
		if i+1 == len(layer) {
			next = append(next, family.Hash(new(felt.Felt), layer[i]))
			continue
		}
		next = append(next, hashSortedPair(family, layer[i], layer[i+1]))
	}
	return next
}

func hashSortedPair(family crypto.HashFamily, a, b *felt.Felt) *felt.Felt {
	if a.Cmp(b) > 0 {
		a, b = b, a
	}
	return family.Hash(a, b)
}

var ErrLeafIndexOutOfRange = errors.New("merkle leaf index out of range")

// MerkleProof returns the siblings on the path from leaves[index] to the
// root, bottom-up. The missing sibling of an unpaired node is zero.
func MerkleProof(family crypto.HashFamily, leaves []*felt.Felt, index int) ([]*felt.Felt, error) {
	if len(leaves) == 0 {
		return nil, &Error{Code: EmptyMerkleTree}
	}
	if index < 0 || index >= len(leaves) {
		return nil, ErrLeafIndexOutOfRange
	}

	var proof []*felt.Felt
	layer := leaves
	for {
		sibling := index ^ 1
		if sibling < len(layer) {
			proof = append(proof, layer[sibling])
		} else {
			proof = append(proof, new(felt.Felt))
		}

		layer = nextMerkleLayer(family, layer)
		index /= 2
		if len(layer) == 1 {
			return proof, nil
		}
	}
}

// VerifyMerkleProof reports whether proof links leaf to root.
func VerifyMerkleProof(family crypto.HashFamily, root, leaf *felt.Felt, proof []*felt.Felt) bool {
	node := leaf
	for _, sibling := range proof {
		node = hashSortedPair(family, node, sibling)
	}
	return node.Equal(root)
}
