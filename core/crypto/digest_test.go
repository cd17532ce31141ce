package crypto_test

import (
	"testing"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/snip12/core/crypto"
	"github.com/stretchr/testify/assert"
)

func TestHashFamily(t *testing.T) {
	a := new(felt.Felt).SetUint64(1)
	b := new(felt.Felt).SetUint64(2)

	tests := map[string]struct {
		family crypto.HashFamily
		pair   func(a, b *felt.Felt) *felt.Felt
		array  func(elems ...*felt.Felt) *felt.Felt
	}{
		"pedersen": {crypto.PedersenFamily, crypto.Pedersen, crypto.PedersenArray},
		"poseidon": {crypto.PoseidonFamily, crypto.Poseidon, crypto.PoseidonArray},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, name, test.family.String())
			assert.Equal(t, test.pair(a, b), test.family.Hash(a, b))
			assert.Equal(t, test.array(a, b), test.family.NewDigest().Update(a, b).Finish())
			// every digest starts from a clean state
			assert.Equal(t, test.array(), test.family.NewDigest().Finish())
		})
	}
}
