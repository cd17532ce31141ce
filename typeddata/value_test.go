package typeddata_test

import (
	"encoding/json"
	"testing"

	"github.com/NethermindEth/snip12/typeddata"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	t.Run("kinds", func(t *testing.T) {
		tests := map[string]struct {
			input string
			kind  typeddata.ValueKind
		}{
			"string":   {`"hello"`, typeddata.StringKind},
			"unsigned": {`123`, typeddata.UnsignedIntegerKind},
			"zero":     {`0`, typeddata.UnsignedIntegerKind},
			"u128 max": {`340282366920938463463374607431768211455`, typeddata.UnsignedIntegerKind},
			"signed":   {`-5`, typeddata.SignedIntegerKind},
			"minus 0":  {`-0`, typeddata.SignedIntegerKind},
			"bool":     {`false`, typeddata.BooleanKind},
			"object":   {`{"a":1}`, typeddata.ObjectKind},
			"array":    {`[1,"a",true]`, typeddata.ArrayKind},
			"empty":    {`[]`, typeddata.ArrayKind},
		}

		for name, test := range tests {
			t.Run(name, func(t *testing.T) {
				v, err := typeddata.ParseValue([]byte(test.input))
				require.NoError(t, err)
				assert.Equal(t, test.kind, v.Kind())
			})
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for name, input := range map[string]string{
			"null":          `null`,
			"nested null":   `{"a":[null]}`,
			"fraction":      `1.5`,
			"exponent":      `1e3`,
			"u128 overflow": `340282366920938463463374607431768211456`,
			"i128 overflow": `-170141183460469231731687303715884105729`,
			"trailing":      `1 2`,
			"truncated":     `{"a":`,
		} {
			t.Run(name, func(t *testing.T) {
				_, err := typeddata.ParseValue([]byte(input))
				assert.Error(t, err)
			})
		}
	})

	t.Run("i128 min", func(t *testing.T) {
		v, err := typeddata.ParseValue([]byte(`-170141183460469231731687303715884105728`))
		require.NoError(t, err)
		assert.Equal(t, typeddata.SignedIntegerKind, v.Kind())
	})
}

func TestObjectKeepsKeyOrder(t *testing.T) {
	v, err := typeddata.ParseValue([]byte(`{"z":1,"a":2,"m":{"y":true,"b":false},"a":3}`))
	require.NoError(t, err)

	obj, ok := v.(*typeddata.Object)
	require.True(t, ok)
	assert.Equal(t, []string{"z", "a", "m"}, obj.Keys())
	assert.Equal(t, 3, obj.Len())

	a, ok := obj.Get("a")
	require.True(t, ok)
	assert.Equal(t, typeddata.NewUnsigned(3), a)

	encoded, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.JSONEq(t, `{"z":1,"a":3,"m":{"y":true,"b":false}}`, string(encoded))
	assert.Equal(t, `{"z":1,"a":3,"m":{"y":true,"b":false}}`, string(encoded))
}

func TestValueMarshal(t *testing.T) {
	input := `{"s":"text","u":340282366920938463463374607431768211455,"i":-42,"b":true,"a":[1,[],{}]}`
	v, err := typeddata.ParseValue([]byte(input))
	require.NoError(t, err)

	encoded, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, input, string(encoded))

	var obj typeddata.Object
	require.NoError(t, json.Unmarshal([]byte(input), &obj))
	assert.Equal(t, v, &obj)

	assert.Error(t, json.Unmarshal([]byte(`[1]`), &obj))
}

func TestU256Value(t *testing.T) {
	v := typeddata.U256Value(uint256.MustFromHex("0x1234567890abcdef1234567890abcdef0000000000000000000000000000002a"))

	encoded, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"low":42,"high":24197857200151252728969465429440056815}`, string(encoded))
}

func TestValueKindString(t *testing.T) {
	assert.Equal(t, "unsigned_integer", typeddata.UnsignedIntegerKind.String())
	assert.Equal(t, "signed_integer", typeddata.SignedIntegerKind.String())
	assert.Equal(t, "object", typeddata.ObjectKind.String())
}
