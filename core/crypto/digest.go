package crypto

import "github.com/NethermindEth/juno/core/felt"

type Digest interface {
	Update(...*felt.Felt) Digest
	Finish() *felt.Felt
}

// HashFamily bundles the two shapes of a Starknet hash function: a pairwise
// hash and a running digest over a sequence of elements.
type HashFamily interface {
	NewDigest() Digest
	Hash(a, b *felt.Felt) *felt.Felt
	String() string
}

var (
	PedersenFamily HashFamily = pedersenFamily{}
	PoseidonFamily HashFamily = poseidonFamily{}
)

type pedersenFamily struct{}

func (pedersenFamily) NewDigest() Digest               { return new(PedersenDigest) }
func (pedersenFamily) Hash(a, b *felt.Felt) *felt.Felt { return Pedersen(a, b) }
func (pedersenFamily) String() string                  { return "pedersen" }

type poseidonFamily struct{}

func (poseidonFamily) NewDigest() Digest               { return new(PoseidonDigest) }
func (poseidonFamily) Hash(a, b *felt.Felt) *felt.Felt { return Poseidon(a, b) }
func (poseidonFamily) String() string                  { return "poseidon" }
