// Package cairo implements the felt encodings of Cairo values that typed
// data relies on: short strings, byte arrays, selectors and numbers.
package cairo

import (
	"errors"
	"fmt"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/snip12/utils"
)

// MaxShortStringLen is the number of bytes that fit in a felt without
// reaching the field prime.
const MaxShortStringLen = 31

var (
	ErrNonASCII           = errors.New("non-ASCII character")
	ErrShortStringTooLong = fmt.Errorf("longer than %d characters", MaxShortStringLen)
)

// ShortStringToFelt packs an ASCII string of at most 31 bytes into a felt,
// big-endian. The empty string encodes to zero.
func ShortStringToFelt(s string) (*felt.Felt, error) {
	if !isASCII(s) {
		return nil, ErrNonASCII
	}
	if len(s) > MaxShortStringLen {
		return nil, ErrShortStringTooLong
	}
	return new(felt.Felt).SetBytes([]byte(s)), nil
}

// FeltToShortString unpacks a felt produced by ShortStringToFelt.
func FeltToShortString(f *felt.Felt) (string, error) {
	b := f.Bytes()
	if b[0] != 0 {
		return "", ErrShortStringTooLong
	}

	start := 1
	for start < len(b) && b[start] == 0 {
		start++
	}
	s := string(b[start:])
	if !isASCII(s) {
		return "", ErrNonASCII
	}
	return s, nil
}

func isASCII(s string) bool {
	return utils.All([]byte(s), func(c byte) bool { return c <= 0x7f })
}
