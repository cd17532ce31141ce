package cairo

import (
	"errors"
	"math/big"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
)

var ErrInvalidFelt = errors.New("invalid field element")

// ParseFelt parses a 0x-prefixed hexadecimal or a decimal string. Values
// not below the field prime are rejected rather than reduced.
func ParseFelt(s string) (*felt.Felt, error) {
	digits, base := s, 10
	if rest, ok := strings.CutPrefix(s, "0x"); ok {
		digits, base = rest, 16
	}
	if digits == "" || strings.HasPrefix(digits, "+") || strings.HasPrefix(digits, "-") {
		return nil, ErrInvalidFelt
	}

	v, ok := new(big.Int).SetString(digits, base)
	if !ok || v.Cmp(fp.Modulus()) >= 0 {
		return nil, ErrInvalidFelt
	}
	return new(felt.Felt).SetBytes(v.Bytes()), nil
}

// IsDecimal reports whether s is non-empty and made only of decimal digits.
func IsDecimal(s string) bool {
	return s != "" && strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) == -1
}

// IsHex reports whether s is non-empty and made only of hexadecimal digits.
func IsHex(s string) bool {
	return s != "" && strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && (r < 'a' || r > 'f') && (r < 'A' || r > 'F')
	}) == -1
}

// ParseShortStringOrNumber reads s as a number when it looks like one and
// as a short string otherwise. Wallets built on starknet.js encode felt and
// shortstring values this way, so "123" is the number 123 rather than the
// string "123". Numbers not below the field prime fall back to the short
// string encoding.
func ParseShortStringOrNumber(s string) (*felt.Felt, error) {
	if hex, ok := strings.CutPrefix(s, "0x"); ok {
		if IsHex(hex) {
			if f, err := ParseFelt(s); err == nil {
				return f, nil
			}
		}
	} else if IsDecimal(s) {
		if f, err := ParseFelt(s); err == nil {
			return f, nil
		}
	}
	return ShortStringToFelt(s)
}
