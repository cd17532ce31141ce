package typeddata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/NethermindEth/snip12/uint128"
	"github.com/holiman/uint256"
)

type ValueKind uint8

const (
	StringKind ValueKind = iota
	UnsignedIntegerKind
	SignedIntegerKind
	BooleanKind
	ObjectKind
	ArrayKind
)

func (k ValueKind) String() string {
	switch k {
	case StringKind:
		return "string"
	case UnsignedIntegerKind:
		return "unsigned_integer"
	case SignedIntegerKind:
		return "signed_integer"
	case BooleanKind:
		return "boolean"
	case ObjectKind:
		return "object"
	case ArrayKind:
		return "array"
	default:
		return fmt.Sprintf("ValueKind(%d)", uint8(k))
	}
}

// Value is a node of a typed data message. It is one of String,
// UnsignedInteger, SignedInteger, Boolean, *Object or Array.
type Value interface {
	Kind() ValueKind
	json.Marshaler
}

var (
	_ Value = String("")
	_ Value = UnsignedInteger{}
	_ Value = SignedInteger{}
	_ Value = Boolean(false)
	_ Value = (*Object)(nil)
	_ Value = Array(nil)
)

type String string

func (String) Kind() ValueKind { return StringKind }

func (s String) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnsignedInteger holds every non-negative JSON number.
type UnsignedInteger uint128.Int

func NewUnsigned(v uint64) UnsignedInteger {
	return UnsignedInteger(*uint128.FromUint64(v))
}

func (UnsignedInteger) Kind() ValueKind { return UnsignedIntegerKind }

func (u UnsignedInteger) Int() *uint128.Int {
	i := uint128.Int(u)
	return &i
}

func (u UnsignedInteger) MarshalJSON() ([]byte, error) {
	return u.Int().MarshalJSON()
}

// SignedInteger holds every negative JSON number.
type SignedInteger uint128.SignedInt

func NewSigned(v int64) SignedInteger {
	return SignedInteger(*uint128.NewSigned(v))
}

func (SignedInteger) Kind() ValueKind { return SignedIntegerKind }

func (s SignedInteger) Int() *uint128.SignedInt {
	i := uint128.SignedInt(s)
	return &i
}

func (s SignedInteger) MarshalJSON() ([]byte, error) {
	return s.Int().MarshalJSON()
}

type Boolean bool

func (Boolean) Kind() ValueKind { return BooleanKind }

func (b Boolean) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}

type Array []Value

func (Array) Kind() ValueKind { return ArrayKind }

func (a Array) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, elem := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := elem.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Object is a JSON object that remembers the order its keys were first seen.
type Object struct {
	keys   []string
	fields map[string]Value
}

func NewObject() *Object {
	return &Object{fields: make(map[string]Value)}
}

func (*Object) Kind() ValueKind { return ObjectKind }

// Set adds or replaces a field. A replaced field keeps its position.
func (o *Object) Set(key string, value Value) *Object {
	if o.fields == nil {
		o.fields = make(map[string]Value)
	}
	if _, ok := o.fields[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = value
	return o
}

func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.fields[key]
	return v, ok
}

func (o *Object) Len() int {
	return len(o.keys)
}

func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

// All iterates over the fields in insertion order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range o.keys {
			if !yield(k, o.fields[k]) {
				return
			}
		}
	}
}

func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		b, err := o.fields[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *Object) UnmarshalJSON(data []byte) error {
	v, err := ParseValue(data)
	if err != nil {
		return err
	}
	obj, ok := v.(*Object)
	if !ok {
		return fmt.Errorf("expected a JSON object, got %s", v.Kind())
	}
	*o = *obj
	return nil
}

// U256Value builds the object form of a u256 preset value.
func U256Value(v *uint256.Int) *Object {
	return NewObject().
		Set("low", UnsignedInteger(*uint128.New(v[1], v[0]))).
		Set("high", UnsignedInteger(*uint128.New(v[3], v[2])))
}

var errNullValue = errors.New("null is not a valid typed data value")

// ParseValue decodes a JSON document into a Value, keeping object key order.
// Non-negative integers must fit in 128 bits and negative ones in an i128;
// fractional numbers and null are rejected.
func ParseValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				v, err := decodeValue(dec)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", key, err)
				}
				obj.Set(key, v)
			}
			_, err = dec.Token()
			return obj, err
		case '[':
			arr := Array{}
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return nil, fmt.Errorf("[%d]: %w", len(arr), err)
				}
				arr = append(arr, v)
			}
			_, err = dec.Token()
			return arr, err
		default:
			return nil, fmt.Errorf("unexpected delimiter %s", t)
		}
	case string:
		return String(t), nil
	case json.Number:
		return parseNumber(t.String())
	case bool:
		return Boolean(t), nil
	case nil:
		return nil, errNullValue
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func parseNumber(s string) (Value, error) {
	if strings.ContainsAny(s, ".eE") {
		return nil, fmt.Errorf("number %s: only integers are supported", s)
	}
	if strings.HasPrefix(s, "-") {
		i, err := new(uint128.SignedInt).SetString(s)
		if err != nil {
			return nil, err
		}
		return SignedInteger(*i), nil
	}
	u, err := new(uint128.Int).SetString(s)
	if err != nil {
		return nil, err
	}
	return UnsignedInteger(*u), nil
}
