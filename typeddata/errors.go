package typeddata

import (
	"fmt"
	"strings"
)

type ErrorCode uint8

const (
	InconsistentRevision ErrorCode = iota + 1
	CustomTypeNotFound
	EnumVariantNotFound
	FieldNotFound
	UnexpectedValueType
	UnexpectedStruct
	UnexpectedEnum
	StructFieldCountMismatch
	EnumElementCountMismatch
	InvalidEnumFieldCount
	EmptyMerkleTree
	InvalidShortString
	InvalidSelector
	InvalidNumber
)

// Error is returned by every hashing operation. Only the fields relevant to
// Code are set.
type Error struct {
	Code ErrorCode

	// Name is the offending type, field or variant name, or the raw string
	// that failed to parse.
	Name string

	// Expected and Actual carry counts for the mismatch codes.
	Expected int
	Actual   int

	ExpectedKinds []ValueKind
	ActualKind    ValueKind

	TypesRevision  Revision
	DomainRevision Revision
}

// Sentinels for errors.Is; an *Error matches the sentinel with the same code.
var (
	ErrInconsistentRevision     = &Error{Code: InconsistentRevision}
	ErrCustomTypeNotFound       = &Error{Code: CustomTypeNotFound}
	ErrEnumVariantNotFound      = &Error{Code: EnumVariantNotFound}
	ErrFieldNotFound            = &Error{Code: FieldNotFound}
	ErrUnexpectedValueType      = &Error{Code: UnexpectedValueType}
	ErrUnexpectedStruct         = &Error{Code: UnexpectedStruct}
	ErrUnexpectedEnum           = &Error{Code: UnexpectedEnum}
	ErrStructFieldCountMismatch = &Error{Code: StructFieldCountMismatch}
	ErrEnumElementCountMismatch = &Error{Code: EnumElementCountMismatch}
	ErrInvalidEnumFieldCount    = &Error{Code: InvalidEnumFieldCount}
	ErrEmptyMerkleTree          = &Error{Code: EmptyMerkleTree}
	ErrInvalidShortString       = &Error{Code: InvalidShortString}
	ErrInvalidSelector          = &Error{Code: InvalidSelector}
	ErrInvalidNumber            = &Error{Code: InvalidNumber}
)

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func (e *Error) Error() string {
	switch e.Code {
	case InconsistentRevision:
		return fmt.Sprintf("`types` implies revision %s but `domain` uses revision %s", e.TypesRevision, e.DomainRevision)
	case CustomTypeNotFound:
		return fmt.Sprintf("type `%s` not defined", e.Name)
	case EnumVariantNotFound:
		return fmt.Sprintf("enum variant `%s` not defined", e.Name)
	case FieldNotFound:
		return fmt.Sprintf("field `%s` not found in value", e.Name)
	case UnexpectedValueType:
		kinds := make([]string, len(e.ExpectedKinds))
		for i, k := range e.ExpectedKinds {
			kinds[i] = k.String()
		}
		return fmt.Sprintf("unexpected value type %s, expecting %s", e.ActualKind, strings.Join(kinds, ", "))
	case UnexpectedStruct:
		return fmt.Sprintf("expected type `%s` to be enum but is struct", e.Name)
	case UnexpectedEnum:
		return fmt.Sprintf("expected type `%s` to be struct but is enum", e.Name)
	case StructFieldCountMismatch:
		return fmt.Sprintf("expected %d fields in struct but found %d", e.Expected, e.Actual)
	case EnumElementCountMismatch:
		return fmt.Sprintf("expected %d elements in enum variant but found %d", e.Expected, e.Actual)
	case InvalidEnumFieldCount:
		return "enum values must have 1 and only 1 field"
	case EmptyMerkleTree:
		return "`merkletree` values must not be empty"
	case InvalidShortString:
		return fmt.Sprintf("\"%s\" is not a valid Cairo short string", e.Name)
	case InvalidSelector:
		return fmt.Sprintf("\"%s\" is not a valid function selector", e.Name)
	case InvalidNumber:
		return fmt.Sprintf("\"%s\" is not a valid number", e.Name)
	default:
		return fmt.Sprintf("typed data error %d", e.Code)
	}
}

func errUnexpectedValueType(actual Value, expected ...ValueKind) error {
	return &Error{Code: UnexpectedValueType, ActualKind: actual.Kind(), ExpectedKinds: expected}
}

func errNamed(code ErrorCode, name string) error {
	return &Error{Code: code, Name: name}
}
