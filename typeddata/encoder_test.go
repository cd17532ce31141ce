package typeddata_test

import (
	"testing"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/snip12/core/crypto"
	"github.com/NethermindEth/snip12/typeddata"
	"github.com/NethermindEth/snip12/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEncoder(t *testing.T, revision typeddata.Revision) *typeddata.Encoder {
	t.Helper()

	types := typeddata.NewTypes(revision,
		typeddata.NamedType{Name: "Pair", Definition: &typeddata.StructDefinition{Fields: []typeddata.FieldDefinition{
			{Name: "a", Type: typeddata.Primitive(typeddata.FeltType)},
			{Name: "b", Type: typeddata.Primitive(typeddata.U128Type)},
		}}},
		typeddata.NamedType{Name: "Choice", Definition: &typeddata.EnumDefinition{Variants: []typeddata.VariantDefinition{
			{Name: "None", TupleTypes: []typeddata.TypeReference{}},
			{Name: "One", TupleTypes: []typeddata.TypeReference{typeddata.Primitive(typeddata.FeltType)}},
			{Name: "Two", TupleTypes: []typeddata.TypeReference{
				typeddata.Primitive(typeddata.FeltType),
				typeddata.Primitive(typeddata.FeltType),
			}},
		}}},
	)
	domain := typeddata.Domain{
		Name:     "test",
		Version:  new(felt.Felt).SetUint64(1),
		ChainID:  "SN_SEPOLIA",
		Revision: revision,
	}
	encoder, err := typeddata.NewEncoder(types, domain)
	require.NoError(t, err)
	return encoder
}

func pair(a, b typeddata.Value) *typeddata.Object {
	return typeddata.NewObject().Set("a", a).Set("b", b)
}

func TestEncodeErrors(t *testing.T) {
	mustBeEnum := typeddata.ParseFieldTypeReference("enum", "Pair")
	mustBeStruct := typeddata.ParseFieldTypeReference("struct", "Choice")
	longString := typeddata.String("this string is definitely longer than a felt")

	tests := map[string]struct {
		ref     typeddata.TypeReference
		value   typeddata.Value
		target  error
		message string
	}{
		"custom type not found": {
			ref:     typeddata.Custom("Missing"),
			value:   typeddata.NewObject(),
			target:  typeddata.ErrCustomTypeNotFound,
			message: "type `Missing` not defined",
		},
		"struct from string": {
			ref:     typeddata.Custom("Pair"),
			value:   typeddata.String("x"),
			target:  typeddata.ErrUnexpectedValueType,
			message: "unexpected value type string, expecting object",
		},
		"struct where enum expected": {
			ref:     mustBeEnum,
			value:   pair(typeddata.String("1"), typeddata.NewUnsigned(2)),
			target:  typeddata.ErrUnexpectedStruct,
			message: "expected type `Pair` to be enum but is struct",
		},
		"enum where struct expected": {
			ref:     mustBeStruct,
			value:   typeddata.NewObject().Set("None", typeddata.Array{}),
			target:  typeddata.ErrUnexpectedEnum,
			message: "expected type `Choice` to be struct but is enum",
		},
		"struct field count": {
			ref:     typeddata.Custom("Pair"),
			value:   typeddata.NewObject().Set("a", typeddata.String("1")),
			target:  typeddata.ErrStructFieldCountMismatch,
			message: "expected 2 fields in struct but found 1",
		},
		"struct field missing": {
			ref:     typeddata.Custom("Pair"),
			value:   typeddata.NewObject().Set("a", typeddata.String("1")).Set("c", typeddata.String("2")),
			target:  typeddata.ErrFieldNotFound,
			message: "field `b` not found in value",
		},
		"enum without variant": {
			ref:     typeddata.Custom("Choice"),
			value:   typeddata.NewObject(),
			target:  typeddata.ErrInvalidEnumFieldCount,
			message: "enum values must have 1 and only 1 field",
		},
		"enum with two variants": {
			ref:     typeddata.Custom("Choice"),
			value:   typeddata.NewObject().Set("None", typeddata.Array{}).Set("One", typeddata.Array{typeddata.String("1")}),
			target:  typeddata.ErrInvalidEnumFieldCount,
			message: "enum values must have 1 and only 1 field",
		},
		"enum variant not an array": {
			ref:     typeddata.Custom("Choice"),
			value:   typeddata.NewObject().Set("One", typeddata.String("1")),
			target:  typeddata.ErrUnexpectedValueType,
			message: "unexpected value type string, expecting array",
		},
		"enum variant not found": {
			ref:     typeddata.Custom("Choice"),
			value:   typeddata.NewObject().Set("Three", typeddata.Array{}),
			target:  typeddata.ErrEnumVariantNotFound,
			message: "enum variant `Three` not defined",
		},
		"enum tuple arity": {
			ref:     typeddata.Custom("Choice"),
			value:   typeddata.NewObject().Set("Two", typeddata.Array{typeddata.String("1")}),
			target:  typeddata.ErrEnumElementCountMismatch,
			message: "expected 2 elements in enum variant but found 1",
		},
		"empty merkle tree": {
			ref:     typeddata.MerkleTreeOf(typeddata.Primitive(typeddata.FeltType)),
			value:   typeddata.Array{},
			target:  typeddata.ErrEmptyMerkleTree,
			message: "`merkletree` values must not be empty",
		},
		"merkle tree from object": {
			ref:     typeddata.MerkleTreeOf(typeddata.Primitive(typeddata.FeltType)),
			value:   typeddata.NewObject(),
			target:  typeddata.ErrUnexpectedValueType,
			message: "unexpected value type object, expecting array",
		},
		"array from string": {
			ref:     typeddata.ArrayOf(typeddata.Primitive(typeddata.FeltType)),
			value:   typeddata.String("1"),
			target:  typeddata.ErrUnexpectedValueType,
			message: "unexpected value type string, expecting array",
		},
		"felt too long": {
			ref:     typeddata.Primitive(typeddata.FeltType),
			value:   longString,
			target:  typeddata.ErrInvalidShortString,
			message: `"this string is definitely longer than a felt" is not a valid Cairo short string`,
		},
		"felt from bool": {
			ref:     typeddata.Primitive(typeddata.ShortStringType),
			value:   typeddata.Boolean(true),
			target:  typeddata.ErrUnexpectedValueType,
			message: "unexpected value type boolean, expecting string, unsigned_integer",
		},
		"bool from string": {
			ref:     typeddata.Primitive(typeddata.BoolType),
			value:   typeddata.String("true"),
			target:  typeddata.ErrUnexpectedValueType,
			message: "unexpected value type string, expecting boolean",
		},
		"string from number": {
			ref:     typeddata.Primitive(typeddata.StringType),
			value:   typeddata.NewUnsigned(1),
			target:  typeddata.ErrUnexpectedValueType,
			message: "unexpected value type unsigned_integer, expecting string",
		},
		"invalid selector": {
			ref:     typeddata.Primitive(typeddata.SelectorType),
			value:   typeddata.String("tränsfer"),
			target:  typeddata.ErrInvalidSelector,
			message: `"tränsfer" is not a valid function selector`,
		},
		"u128 from text": {
			ref:     typeddata.Primitive(typeddata.U128Type),
			value:   typeddata.String("ten"),
			target:  typeddata.ErrInvalidNumber,
			message: `"ten" is not a valid number`,
		},
		"u128 overflow": {
			ref:     typeddata.Primitive(typeddata.TimestampType),
			value:   typeddata.String("0x100000000000000000000000000000000"),
			target:  typeddata.ErrInvalidNumber,
			message: `"0x100000000000000000000000000000000" is not a valid number`,
		},
		"u128 from signed": {
			ref:     typeddata.Primitive(typeddata.U128Type),
			value:   typeddata.NewSigned(-1),
			target:  typeddata.ErrUnexpectedValueType,
			message: "unexpected value type signed_integer, expecting unsigned_integer, string",
		},
		"i128 from unsigned": {
			ref:     typeddata.Primitive(typeddata.I128Type),
			value:   typeddata.NewUnsigned(1),
			target:  typeddata.ErrUnexpectedValueType,
			message: "unexpected value type unsigned_integer, expecting signed_integer",
		},
		"contract address from text": {
			ref:     typeddata.Primitive(typeddata.ContractAddressType),
			value:   typeddata.String("0xzz"),
			target:  typeddata.ErrInvalidNumber,
			message: `"0xzz" is not a valid number`,
		},
		"class hash from number": {
			ref:     typeddata.Primitive(typeddata.ClassHashType),
			value:   typeddata.NewUnsigned(1),
			target:  typeddata.ErrUnexpectedValueType,
			message: "unexpected value type unsigned_integer, expecting string",
		},
		"u256 from string": {
			ref:     typeddata.Primitive(typeddata.U256Type),
			value:   typeddata.String("1"),
			target:  typeddata.ErrUnexpectedValueType,
			message: "unexpected value type string, expecting object",
		},
		"token amount missing field": {
			ref: typeddata.Primitive(typeddata.TokenAmountType),
			value: typeddata.NewObject().
				Set("token_address", typeddata.String("0x1")).
				Set("value", typeddata.NewObject()),
			target:  typeddata.ErrFieldNotFound,
			message: "field `amount` not found in value",
		},
		"nested error": {
			ref:     typeddata.ArrayOf(typeddata.Custom("Pair")),
			value:   typeddata.Array{pair(typeddata.String("1"), typeddata.String("x"))},
			target:  typeddata.ErrInvalidNumber,
			message: `"x" is not a valid number`,
		},
	}

	encoder := newTestEncoder(t, typeddata.V1)
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := encoder.EncodeValue(test.ref, test.value)
			require.ErrorIs(t, err, test.target)
			assert.EqualError(t, err, test.message)
		})
	}
}

func TestEncodePrimitives(t *testing.T) {
	v0 := newTestEncoder(t, typeddata.V0)
	v1 := newTestEncoder(t, typeddata.V1)

	tests := map[string]struct {
		encoder *typeddata.Encoder
		ref     typeddata.TypeReference
		value   typeddata.Value
		want    string
	}{
		"felt from decimal string": {v1, typeddata.Primitive(typeddata.FeltType), typeddata.String("123"), "0x7b"},
		"felt from hex string":     {v1, typeddata.Primitive(typeddata.FeltType), typeddata.String("0x7b"), "0x7b"},
		"felt from text":           {v1, typeddata.Primitive(typeddata.FeltType), typeddata.String("abc"), "0x616263"},
		"felt from number":         {v1, typeddata.Primitive(typeddata.FeltType), typeddata.NewUnsigned(123), "0x7b"},
		"shortstring from text":    {v1, typeddata.Primitive(typeddata.ShortStringType), typeddata.String("hello"), "0x68656c6c6f"},
		"bool true":                {v1, typeddata.Primitive(typeddata.BoolType), typeddata.Boolean(true), "0x1"},
		"bool false":               {v1, typeddata.Primitive(typeddata.BoolType), typeddata.Boolean(false), "0x0"},
		"u128 hex":                 {v1, typeddata.Primitive(typeddata.U128Type), typeddata.String("0xff"), "0xff"},
		"u128 decimal":             {v1, typeddata.Primitive(typeddata.U128Type), typeddata.String("255"), "0xff"},
		"timestamp":                {v1, typeddata.Primitive(typeddata.TimestampType), typeddata.NewUnsigned(1234), "0x4d2"},
		"i128 negative":            {v1, typeddata.Primitive(typeddata.I128Type), typeddata.NewSigned(-1), "0x800000000000011000000000000000000000000000000000000000000000000"},
		"contract address":         {v1, typeddata.Primitive(typeddata.ContractAddressType), typeddata.String("0x0123"), "0x123"},
		"class hash decimal":       {v1, typeddata.Primitive(typeddata.ClassHashType), typeddata.String("291"), "0x123"},
		"selector":                 {v1, typeddata.Primitive(typeddata.SelectorType), typeddata.String("transfer"), "0x83afd3f4caedc6eebf44246fe54e38c95e3179a5ec9ea81740eca5b482d12e"},
		"revision 0 string":        {v0, typeddata.Primitive(typeddata.StringType), typeddata.String("hello"), "0x68656c6c6f"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := test.encoder.EncodeValue(test.ref, test.value)
			require.NoError(t, err)
			assert.Equal(t, utils.HexToFelt(t, test.want), got)
		})
	}
}

func TestEncodeRevision1String(t *testing.T) {
	encoder := newTestEncoder(t, typeddata.V1)

	got, err := encoder.EncodeValue(typeddata.Primitive(typeddata.StringType), typeddata.String("hello"))
	require.NoError(t, err)

	// []: no full words, "hello" pending with 5 bytes
	want := crypto.PoseidonArray(
		new(felt.Felt),
		utils.HexToFelt(t, "0x68656c6c6f"),
		new(felt.Felt).SetUint64(5),
	)
	assert.Equal(t, want, got)

	long := "this string is definitely longer than a felt"
	_, err = encoder.EncodeValue(typeddata.Primitive(typeddata.StringType), typeddata.String(long))
	require.NoError(t, err)

	v0 := newTestEncoder(t, typeddata.V0)
	_, err = v0.EncodeValue(typeddata.Primitive(typeddata.StringType), typeddata.String(long))
	require.ErrorIs(t, err, typeddata.ErrInvalidShortString)
}

func TestEncodeStruct(t *testing.T) {
	for _, revision := range []typeddata.Revision{typeddata.V0, typeddata.V1} {
		t.Run(revision.String(), func(t *testing.T) {
			encoder := newTestEncoder(t, revision)
			family := revision.HashFamily()

			typeHash, err := encoder.Types().TypeHash("Pair")
			require.NoError(t, err)

			got, err := encoder.EncodeValue(typeddata.Custom("Pair"), pair(typeddata.String("0x5"), typeddata.NewUnsigned(6)))
			require.NoError(t, err)

			want := family.NewDigest().Update(typeHash, new(felt.Felt).SetUint64(5), new(felt.Felt).SetUint64(6)).Finish()
			assert.Equal(t, want, got)

			// value key order does not matter, schema order does
			reordered := typeddata.NewObject().Set("b", typeddata.NewUnsigned(6)).Set("a", typeddata.String("0x5"))
			got, err = encoder.EncodeValue(typeddata.ParseFieldTypeReference("struct", "Pair"), reordered)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestEncodeEnum(t *testing.T) {
	encoder := newTestEncoder(t, typeddata.V1)
	ref := typeddata.ParseFieldTypeReference("enum", "Choice")

	none, err := encoder.EncodeValue(ref, typeddata.NewObject().Set("None", typeddata.Array{}))
	require.NoError(t, err)
	assert.Equal(t, crypto.PoseidonArray(new(felt.Felt)), none)

	one, err := encoder.EncodeValue(ref, typeddata.NewObject().Set("One", typeddata.Array{typeddata.String("0x7")}))
	require.NoError(t, err)
	assert.Equal(t, crypto.PoseidonArray(new(felt.Felt).SetUint64(1), new(felt.Felt).SetUint64(7)), one)

	two, err := encoder.EncodeValue(ref, typeddata.NewObject().Set("Two", typeddata.Array{typeddata.String("0x7"), typeddata.String("0x8")}))
	require.NoError(t, err)
	swapped, err := encoder.EncodeValue(ref, typeddata.NewObject().Set("Two", typeddata.Array{typeddata.String("0x8"), typeddata.String("0x7")}))
	require.NoError(t, err)

	assert.NotEqual(t, none, one)
	assert.NotEqual(t, one, two)
	assert.NotEqual(t, two, swapped)
}

func TestEncodeEnumVariantIndex(t *testing.T) {
	shortstring := typeddata.Primitive(typeddata.ShortStringType)
	felt := typeddata.Primitive(typeddata.FeltType)
	enum := func(first, second, third []typeddata.TypeReference) *typeddata.EnumDefinition {
		return &typeddata.EnumDefinition{Variants: []typeddata.VariantDefinition{
			{Name: "First", TupleTypes: first},
			{Name: "Second", TupleTypes: second},
			{Name: "Third", TupleTypes: third},
		}}
	}

	types := typeddata.NewTypes(typeddata.V1,
		typeddata.NamedType{Name: "Narrow", Definition: enum(
			[]typeddata.TypeReference{},
			[]typeddata.TypeReference{shortstring},
			[]typeddata.TypeReference{},
		)},
		typeddata.NamedType{Name: "Wide", Definition: enum(
			[]typeddata.TypeReference{felt, felt, felt},
			[]typeddata.TypeReference{shortstring},
			[]typeddata.TypeReference{felt, felt, felt},
		)},
		typeddata.NamedType{Name: "Uniform", Definition: enum(
			[]typeddata.TypeReference{shortstring},
			[]typeddata.TypeReference{shortstring},
			[]typeddata.TypeReference{shortstring},
		)},
	)
	encoder, err := typeddata.NewEncoder(types, typeddata.Domain{Name: "test", ChainID: "SN_SEPOLIA", Revision: typeddata.V1})
	require.NoError(t, err)

	encode := func(enumName, variant string) *felt.Felt {
		t.Helper()
		got, err := encoder.EncodeValue(typeddata.ParseFieldTypeReference("enum", enumName),
			typeddata.NewObject().Set(variant, typeddata.Array{typeddata.String("x")}))
		require.NoError(t, err)
		return got
	}

	second := encode("Narrow", "Second")
	assert.Equal(t, second, encode("Wide", "Second"), "sibling arity does not change the hash")
	assert.Equal(t, second, encode("Uniform", "Second"))
	assert.Equal(t, crypto.PoseidonArray(new(felt.Felt).SetUint64(1), utils.HexToFelt(t, "0x78")), second)

	assert.NotEqual(t, second, encode("Uniform", "First"))
	assert.NotEqual(t, second, encode("Uniform", "Third"))
	assert.NotEqual(t, encode("Uniform", "First"), encode("Uniform", "Third"))
}

type wrappedDefinition struct {
	*typeddata.StructDefinition
}

func TestEncodeUnknownKinds(t *testing.T) {
	encoder := newTestEncoder(t, typeddata.V1)

	_, err := encoder.EncodeValue(typeddata.TypeReference{Kind: typeddata.TypeKind(200)}, typeddata.String("x"))
	require.ErrorIs(t, err, typeddata.ErrUnknownTypeKind)

	types := typeddata.NewTypes(typeddata.V1,
		typeddata.NamedType{Name: "Wrapped", Definition: wrappedDefinition{&typeddata.StructDefinition{}}},
		typeddata.NamedType{Name: "Undefined"},
	)
	wrapped, err := typeddata.NewEncoder(types, typeddata.Domain{Name: "test", ChainID: "SN_SEPOLIA", Revision: typeddata.V1})
	require.NoError(t, err)

	_, err = wrapped.EncodeValue(typeddata.Custom("Wrapped"), typeddata.NewObject())
	require.ErrorIs(t, err, typeddata.ErrUnknownTypeDefinition)

	_, found := types.Get("Undefined")
	assert.False(t, found)
	_, err = wrapped.EncodeValue(typeddata.Custom("Undefined"), typeddata.NewObject())
	require.ErrorIs(t, err, typeddata.ErrCustomTypeNotFound)
}

func TestEncodeArray(t *testing.T) {
	encoder := newTestEncoder(t, typeddata.V0)
	ref := typeddata.ArrayOf(typeddata.Primitive(typeddata.U128Type))

	got, err := encoder.EncodeValue(ref, typeddata.Array{typeddata.NewUnsigned(1), typeddata.NewUnsigned(2)})
	require.NoError(t, err)
	assert.Equal(t, crypto.PedersenArray(new(felt.Felt).SetUint64(1), new(felt.Felt).SetUint64(2)), got)

	empty, err := encoder.EncodeValue(ref, typeddata.Array{})
	require.NoError(t, err)
	assert.Equal(t, crypto.PedersenArray(), empty)
}

func TestEncodeU256(t *testing.T) {
	encoder := newTestEncoder(t, typeddata.V1)

	fromStrings, err := encoder.EncodeValue(typeddata.Primitive(typeddata.U256Type),
		typeddata.NewObject().Set("low", typeddata.String("0x2a")).Set("high", typeddata.String("1")))
	require.NoError(t, err)

	fromNumbers, err := encoder.EncodeValue(typeddata.Primitive(typeddata.U256Type),
		typeddata.NewObject().Set("low", typeddata.NewUnsigned(42)).Set("high", typeddata.NewUnsigned(1)))
	require.NoError(t, err)
	assert.Equal(t, fromStrings, fromNumbers)

	// "u256"("low":"u128","high":"u128")
	typeHash := utils.HexToFelt(t, "0x3b143be38b811560b45593fb2a071ec4ddd0a020e10782be62ffe6f39e0e82c")
	want := crypto.PoseidonArray(typeHash, new(felt.Felt).SetUint64(42), new(felt.Felt).SetUint64(1))
	assert.Equal(t, want, fromNumbers)
}

func TestMerkleTreeLeafTypes(t *testing.T) {
	encoder := newTestEncoder(t, typeddata.V1)
	family := crypto.PoseidonFamily

	leaves := typeddata.Array{
		pair(typeddata.String("1"), typeddata.NewUnsigned(1)),
		pair(typeddata.String("2"), typeddata.NewUnsigned(2)),
		pair(typeddata.String("3"), typeddata.NewUnsigned(3)),
	}
	got, err := encoder.EncodeValue(typeddata.MerkleTreeOf(typeddata.Custom("Pair")), leaves)
	require.NoError(t, err)

	hashes := make([]*felt.Felt, len(leaves))
	for i, leaf := range leaves {
		hashes[i], err = encoder.EncodeValue(typeddata.Custom("Pair"), leaf)
		require.NoError(t, err)
	}
	want, err := typeddata.MerkleRoot(family, hashes)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
