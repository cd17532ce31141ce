package validator

import (
	"reflect"
	"sync"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/snip12/cairo"
	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate

	// addressUpperBound is 2^251 - 256, the first value that is not a valid
	// contract address.
	addressUpperBound = func() *felt.Felt {
		bound, err := new(felt.Felt).SetString("0x7ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff00")
		if err != nil {
			panic(err)
		}
		return bound
	}()
)

// Felts reach validations as their hex string.
func validateContractAddress(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	address, err := cairo.ParseFelt(s)
	return err == nil && address.Cmp(addressUpperBound) < 0
}

func validateShortString(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := cairo.ShortStringToFelt(s)
	return err == nil
}

// Validator returns a singleton that can be used to validate various objects
func Validator() *validator.Validate {
	once.Do(func() {
		v = validator.New()

		if err := v.RegisterValidation("contract_address", validateContractAddress); err != nil {
			panic("failed to register validation: " + err.Error())
		}

		if err := v.RegisterValidation("shortstring", validateShortString); err != nil {
			panic("failed to register validation: " + err.Error())
		}

		// Register these types to use their string representation for validation
		// purposes
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			switch f := field.Interface().(type) {
			case felt.Felt:
				return f.String()
			case *felt.Felt:
				if f == nil {
					return ""
				}
				return f.String()
			}
			panic("not a felt")
		}, felt.Felt{}, &felt.Felt{})
	})
	return v
}
