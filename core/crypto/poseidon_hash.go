package crypto

import (
	junocrypto "github.com/NethermindEth/juno/core/crypto"
	"github.com/NethermindEth/juno/core/felt"
)

// Poseidon implements the [Poseidon hash] of two elements.
//
// [Poseidon hash]: https://docs.starknet.io/architecture-and-concepts/cryptography/hash-functions/#poseidon_hash
func Poseidon(a, b *felt.Felt) *felt.Felt {
	return junocrypto.Poseidon(a, b)
}

func PoseidonArray(elems ...*felt.Felt) *felt.Felt {
	return junocrypto.PoseidonArray(elems...)
}

var _ Digest = (*PoseidonDigest)(nil)

// PoseidonDigest absorbs elements into a Poseidon sponge; the zero value is
// ready to use.
type PoseidonDigest struct {
	sponge junocrypto.PoseidonDigest
}

func (d *PoseidonDigest) Update(elems ...*felt.Felt) Digest {
	d.sponge.Update(elems...)
	return d
}

func (d *PoseidonDigest) Finish() *felt.Felt {
	return d.sponge.Finish()
}
