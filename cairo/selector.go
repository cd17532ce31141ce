package cairo

import (
	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/snip12/core/crypto"
)

const (
	DefaultEntryPoint   = "__default__"
	L1DefaultEntryPoint = "__l1_default__"
)

// SelectorFromName returns the entry point selector of a function name. The
// default entry points have selector zero.
func SelectorFromName(name string) (*felt.Felt, error) {
	if name == DefaultEntryPoint || name == L1DefaultEntryPoint {
		return new(felt.Felt), nil
	}
	if !isASCII(name) {
		return nil, ErrNonASCII
	}
	return crypto.StarknetKeccak([]byte(name)), nil
}
