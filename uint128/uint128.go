// Package uint128 implements the 128-bit integers carried by typed data
// messages (u128, timestamp and i128 values).
package uint128

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	"github.com/holiman/uint256"
)

var (
	ErrSyntax   = errors.New("invalid integer syntax")
	ErrOverflow = errors.New("integer does not fit in 128 bits")
)

// Int is an unsigned 128-bit integer stored as little-endian 64-bit limbs.
type Int [2]uint64

func New(hi, lo uint64) *Int {
	return &Int{lo, hi}
}

func FromUint64(v uint64) *Int {
	return &Int{v, 0}
}

// SetString parses a decimal or a 0x-prefixed hexadecimal string. Leading
// zeros and a single leading '+' after the prefix are accepted.
func (z *Int) SetString(s string) (*Int, error) {
	base := 10
	digits := s
	if rest, ok := strings.CutPrefix(s, "0x"); ok {
		base = 16
		digits = rest
	}
	digits = strings.TrimPrefix(digits, "+")

	v, err := parseUint256(digits, base)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", s, err)
	}
	if v.BitLen() > 128 {
		return nil, fmt.Errorf("%q: %w", s, ErrOverflow)
	}
	z[0], z[1] = v[0], v[1]
	return z, nil
}

func parseUint256(digits string, base int) (*uint256.Int, error) {
	if digits == "" {
		return nil, ErrSyntax
	}
	for _, c := range digits {
		if !isDigit(c, base) {
			return nil, ErrSyntax
		}
	}

	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return new(uint256.Int), nil
	}

	var (
		v   *uint256.Int
		err error
	)
	if base == 16 {
		v, err = uint256.FromHex("0x" + digits)
	} else {
		v, err = uint256.FromDecimal(digits)
	}
	if err != nil {
		return nil, ErrOverflow
	}
	return v, nil
}

func isDigit(c rune, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case base == 16 && c >= 'a' && c <= 'f', base == 16 && c >= 'A' && c <= 'F':
		return true
	default:
		return false
	}
}

func (z *Int) uint256() *uint256.Int {
	return &uint256.Int{z[0], z[1], 0, 0}
}

// Bytes returns the 16-byte big-endian representation.
func (z *Int) Bytes() []byte {
	b := make([]byte, 16)
	binary.BigEndian.PutUint64(b[:8], z[1])
	binary.BigEndian.PutUint64(b[8:], z[0])
	return b
}

func (z *Int) Felt() *felt.Felt {
	return new(felt.Felt).SetBytes(z.Bytes())
}

func (z *Int) IsZero() bool {
	return z[0] == 0 && z[1] == 0
}

func (z *Int) Equal(x *Int) bool {
	return *z == *x
}

func (z *Int) Cmp(x *Int) int {
	return z.uint256().Cmp(x.uint256())
}

// String returns the 0x-prefixed hexadecimal representation.
func (z *Int) String() string {
	return z.uint256().Hex()
}

// Dec returns the decimal representation.
func (z *Int) Dec() string {
	return z.uint256().Dec()
}

func (z *Int) MarshalJSON() ([]byte, error) {
	return []byte(z.Dec()), nil
}

// UnmarshalJSON accepts a JSON number or a string in any form SetString accepts.
func (z *Int) UnmarshalJSON(data []byte) error {
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}
	_, err := z.SetString(s)
	return err
}

// SignedInt is a signed 128-bit integer in sign and magnitude form.
type SignedInt struct {
	neg bool
	abs Int
}

// minAbs is the magnitude of the smallest i128, 2^127.
var minAbs = Int{0, 1 << 63}

func NewSigned(v int64) *SignedInt {
	if v < 0 {
		return &SignedInt{neg: true, abs: Int{uint64(-(v + 1)) + 1, 0}}
	}
	return &SignedInt{abs: Int{uint64(v), 0}}
}

// SetString parses an optionally signed decimal or 0x-prefixed hexadecimal
// string and checks it fits in an i128.
func (z *SignedInt) SetString(s string) (*SignedInt, error) {
	neg := false
	magnitude := s
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		if strings.HasPrefix(rest, "+") {
			return nil, fmt.Errorf("%q: %w", s, ErrSyntax)
		}
		neg = true
		magnitude = rest
	}

	var abs Int
	if _, err := abs.SetString(magnitude); err != nil {
		return nil, err
	}
	switch cmp := abs.Cmp(&minAbs); {
	case cmp > 0, cmp == 0 && !neg:
		return nil, fmt.Errorf("%q: %w", s, ErrOverflow)
	}

	z.neg = neg && !abs.IsZero()
	z.abs = abs
	return z, nil
}

func (z *SignedInt) IsNegative() bool {
	return z.neg
}

// Abs returns the magnitude.
func (z *SignedInt) Abs() *Int {
	abs := z.abs
	return &abs
}

// Felt maps the integer into the field; negative values become p - |z|.
func (z *SignedInt) Felt() *felt.Felt {
	f := z.abs.Felt()
	if !z.neg {
		return f
	}
	neg := new(fp.Element).Neg(f.Impl())
	return felt.NewFelt(neg)
}

func (z *SignedInt) Equal(x *SignedInt) bool {
	return *z == *x
}

// String returns the signed decimal representation.
func (z *SignedInt) String() string {
	if z.neg {
		return "-" + z.abs.Dec()
	}
	return z.abs.Dec()
}

func (z *SignedInt) MarshalJSON() ([]byte, error) {
	return []byte(z.String()), nil
}

func (z *SignedInt) UnmarshalJSON(data []byte) error {
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}
	_, err := z.SetString(s)
	return err
}
