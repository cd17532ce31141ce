package crypto

import (
	"github.com/NethermindEth/juno/core/felt"
	"golang.org/x/crypto/sha3"
)

// StarknetKeccak implements [Starknet keccak]: the first 250 bits of the
// Keccak-256 digest of b.
//
// [Starknet keccak]: https://docs.starknet.io/architecture-and-concepts/cryptography/hash-functions/#starknet_keccak
func StarknetKeccak(b []byte) *felt.Felt {
	h := sha3.NewLegacyKeccak256()
	// hash.Hash never returns an error on Write
	_, _ = h.Write(b)
	d := h.Sum(nil)
	// Remove the first 6 bits from the first byte
	d[0] &= 3
	return new(felt.Felt).SetBytes(d)
}
