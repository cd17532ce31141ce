package typeddata

import (
	"errors"
	"fmt"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/snip12/cairo"
	"github.com/NethermindEth/snip12/core/crypto"
	"github.com/NethermindEth/snip12/uint128"
)

// Returned for hand-built references and definitions this package does not
// know how to encode.
var (
	ErrUnknownTypeKind       = errors.New("unknown type kind")
	ErrUnknownTypeDefinition = errors.New("unknown type definition")
)

// Encoder turns values into field elements following the schema of a type
// table. The hash family is fixed by the revision when the encoder is built.
type Encoder struct {
	types  *Types
	domain Domain
	family crypto.HashFamily
}

func NewEncoder(types *Types, domain Domain) (*Encoder, error) {
	if types.Revision() != domain.Revision {
		return nil, &Error{
			Code:           InconsistentRevision,
			TypesRevision:  types.Revision(),
			DomainRevision: domain.Revision,
		}
	}
	return &Encoder{
		types:  types,
		domain: domain,
		family: domain.Revision.HashFamily(),
	}, nil
}

func (e *Encoder) Revision() Revision {
	return e.domain.Revision
}

func (e *Encoder) Types() *Types {
	return e.types
}

func (e *Encoder) Domain() Domain {
	return e.domain
}

// EncodeValue encodes value as an instance of ref.
func (e *Encoder) EncodeValue(ref TypeReference, value Value) (*felt.Felt, error) {
	switch ref.Kind {
	case CustomType:
		return e.encodeCustom(ref, value)
	case ArrayType:
		arr, ok := value.(Array)
		if !ok {
			return nil, errUnexpectedValueType(value, ArrayKind)
		}
		digest := e.family.NewDigest()
		for _, elem := range arr {
			encoded, err := e.EncodeValue(*ref.Elem, elem)
			if err != nil {
				return nil, err
			}
			digest.Update(encoded)
		}
		return digest.Finish(), nil
	case MerkleTreeType:
		arr, ok := value.(Array)
		if !ok {
			return nil, errUnexpectedValueType(value, ArrayKind)
		}
		return e.EncodeMerkleTree(*ref.Elem, arr)
	case FeltType, ShortStringType:
		return encodeFelt(value)
	case BoolType:
		b, ok := value.(Boolean)
		if !ok {
			return nil, errUnexpectedValueType(value, BooleanKind)
		}
		if b {
			return new(felt.Felt).SetUint64(1), nil
		}
		return new(felt.Felt), nil
	case StringType:
		s, ok := value.(String)
		if !ok {
			return nil, errUnexpectedValueType(value, StringKind)
		}
		return e.encodeString(string(s))
	case SelectorType:
		s, ok := value.(String)
		if !ok {
			return nil, errUnexpectedValueType(value, StringKind)
		}
		selector, err := cairo.SelectorFromName(string(s))
		if err != nil {
			return nil, errNamed(InvalidSelector, string(s))
		}
		return selector, nil
	case U128Type, TimestampType:
		return encodeU128(value)
	case I128Type:
		i, ok := value.(SignedInteger)
		if !ok {
			return nil, errUnexpectedValueType(value, SignedIntegerKind)
		}
		return i.Int().Felt(), nil
	case ContractAddressType, ClassHashType:
		s, ok := value.(String)
		if !ok {
			return nil, errUnexpectedValueType(value, StringKind)
		}
		f, err := cairo.ParseFelt(string(s))
		if err != nil {
			return nil, errNamed(InvalidNumber, string(s))
		}
		return f, nil
	case U256Type, TokenAmountType, NftIDType:
		obj, ok := value.(*Object)
		if !ok {
			return nil, errUnexpectedValueType(value, ObjectKind)
		}
		preset, _ := presetFor(ref.Kind)
		return e.EncodeStruct(preset.typeHash(e.Revision()), preset.definition, obj)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownTypeKind, ref.Kind)
	}
}

func (e *Encoder) encodeCustom(ref TypeReference, value Value) (*felt.Felt, error) {
	def, found := e.types.Get(ref.Name)
	if !found {
		return nil, errNamed(CustomTypeNotFound, ref.Name)
	}
	typeHash, err := e.types.TypeHash(ref.Name)
	if err != nil {
		return nil, err
	}
	obj, ok := value.(*Object)
	if !ok {
		return nil, errUnexpectedValueType(value, ObjectKind)
	}

	switch def := def.(type) {
	case *StructDefinition:
		if ref.Constraint == MustBeEnum {
			return nil, errNamed(UnexpectedStruct, ref.Name)
		}
		return e.EncodeStruct(typeHash, def, obj)
	case *EnumDefinition:
		if ref.Constraint == MustBeStruct {
			return nil, errNamed(UnexpectedEnum, ref.Name)
		}
		return e.EncodeEnum(def, obj)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownTypeDefinition, def)
	}
}

// felt and shortstring are encoded alike to match starknet.js: strings that
// parse as numbers are numbers, the rest are short strings.
func encodeFelt(value Value) (*felt.Felt, error) {
	switch v := value.(type) {
	case String:
		f, err := cairo.ParseShortStringOrNumber(string(v))
		if err != nil {
			return nil, errNamed(InvalidShortString, string(v))
		}
		return f, nil
	case UnsignedInteger:
		return v.Int().Felt(), nil
	default:
		return nil, errUnexpectedValueType(value, StringKind, UnsignedIntegerKind)
	}
}

// Revision 0 strings are short strings. Revision 1 strings are byte arrays
// hashed with their serialization.
func (e *Encoder) encodeString(s string) (*felt.Felt, error) {
	if e.Revision() == V0 {
		f, err := cairo.ShortStringToFelt(s)
		if err != nil {
			return nil, errNamed(InvalidShortString, s)
		}
		return f, nil
	}
	return e.family.NewDigest().Update(cairo.NewByteArray(s).Serialize()...).Finish(), nil
}

// Strings are accepted for u128 and timestamp, and timestamps are not
// limited to 64 bits, both as in starknet.js.
func encodeU128(value Value) (*felt.Felt, error) {
	switch v := value.(type) {
	case UnsignedInteger:
		return v.Int().Felt(), nil
	case String:
		i, err := new(uint128.Int).SetString(string(v))
		if err != nil {
			return nil, errNamed(InvalidNumber, string(v))
		}
		return i.Felt(), nil
	default:
		return nil, errUnexpectedValueType(value, UnsignedIntegerKind, StringKind)
	}
}

// EncodeStruct hashes typeHash followed by the encoding of every field of
// def, in declaration order.
func (e *Encoder) EncodeStruct(typeHash *felt.Felt, def *StructDefinition, obj *Object) (*felt.Felt, error) {
	fields, err := e.EncodeStructFields(def, obj)
	if err != nil {
		return nil, err
	}
	return e.family.NewDigest().Update(typeHash).Update(fields...).Finish(), nil
}

// EncodeStructFields encodes the fields of a struct value without hashing
// them together.
func (e *Encoder) EncodeStructFields(def *StructDefinition, obj *Object) ([]*felt.Felt, error) {
	if obj.Len() != len(def.Fields) {
		return nil, &Error{Code: StructFieldCountMismatch, Expected: len(def.Fields), Actual: obj.Len()}
	}

	encoded := make([]*felt.Felt, 0, len(def.Fields))
	for _, field := range def.Fields {
		value, found := obj.Get(field.Name)
		if !found {
			return nil, errNamed(FieldNotFound, field.Name)
		}
		f, err := e.EncodeValue(field.Type, value)
		if err != nil {
			return nil, err
		}
		encoded = append(encoded, f)
	}
	return encoded, nil
}

// EncodeEnum hashes the index of the selected variant followed by its tuple
// values. The enum type hash is left out, as starknet.js does.
func (e *Encoder) EncodeEnum(def *EnumDefinition, obj *Object) (*felt.Felt, error) {
	if obj.Len() != 1 {
		return nil, &Error{Code: InvalidEnumFieldCount}
	}

	variantName := obj.Keys()[0]
	variantValue, _ := obj.Get(variantName)
	tuple, ok := variantValue.(Array)
	if !ok {
		return nil, errUnexpectedValueType(variantValue, ArrayKind)
	}

	index, variant, found := def.Variant(variantName)
	if !found {
		return nil, errNamed(EnumVariantNotFound, variantName)
	}
	if len(tuple) != len(variant.TupleTypes) {
		return nil, &Error{Code: EnumElementCountMismatch, Expected: len(variant.TupleTypes), Actual: len(tuple)}
	}

	digest := e.family.NewDigest().Update(new(felt.Felt).SetUint64(uint64(index)))
	for i, slotType := range variant.TupleTypes {
		f, err := e.EncodeValue(slotType, tuple[i])
		if err != nil {
			return nil, err
		}
		digest.Update(f)
	}
	return digest.Finish(), nil
}

// EncodeMerkleTree encodes every leaf and returns the root of the tree they
// form.
func (e *Encoder) EncodeMerkleTree(leaf TypeReference, leaves Array) (*felt.Felt, error) {
	if len(leaves) == 0 {
		return nil, &Error{Code: EmptyMerkleTree}
	}

	hashes := make([]*felt.Felt, len(leaves))
	for i, v := range leaves {
		h, err := e.EncodeValue(leaf, v)
		if err != nil {
			return nil, err
		}
		hashes[i] = h
	}
	return MerkleRoot(e.family, hashes)
}
