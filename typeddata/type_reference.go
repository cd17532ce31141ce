package typeddata

import "strings"

// TypeKind classifies a type reference.
type TypeKind uint8

const (
	CustomType TypeKind = iota
	ArrayType
	MerkleTreeType
	FeltType
	BoolType
	StringType
	SelectorType
	U128Type
	I128Type
	ContractAddressType
	ClassHashType
	TimestampType
	U256Type
	TokenAmountType
	NftIDType
	ShortStringType
)

var primitiveKeywords = map[string]TypeKind{
	"felt":            FeltType,
	"bool":            BoolType,
	"string":          StringType,
	"selector":        SelectorType,
	"u128":            U128Type,
	"i128":            I128Type,
	"ContractAddress": ContractAddressType,
	"ClassHash":       ClassHashType,
	"timestamp":       TimestampType,
	"u256":            U256Type,
	"TokenAmount":     TokenAmountType,
	"NftId":           NftIDType,
	"shortstring":     ShortStringType,
}

var primitiveNames = func() map[TypeKind]string {
	names := make(map[TypeKind]string, len(primitiveKeywords))
	for name, kind := range primitiveKeywords {
		names[kind] = name
	}
	return names
}()

const (
	enumKeyword       = "enum"
	structKeyword     = "struct"
	merkleTreeKeyword = "merkletree"
	arraySuffix       = "*"
)

// Constraint restricts which kind of definition a custom reference may
// resolve to.
type Constraint uint8

const (
	Unconstrained Constraint = iota
	MustBeStruct
	MustBeEnum
)

// TypeReference is a parsed type string.
type TypeReference struct {
	Kind TypeKind
	// Name is set for custom references.
	Name string
	// Elem is the array element or the merkle tree leaf.
	Elem       *TypeReference
	Constraint Constraint
}

func Custom(name string) TypeReference {
	return TypeReference{Kind: CustomType, Name: name}
}

func ArrayOf(elem TypeReference) TypeReference {
	return TypeReference{Kind: ArrayType, Elem: &elem}
}

func MerkleTreeOf(leaf TypeReference) TypeReference {
	return TypeReference{Kind: MerkleTreeType, Elem: &leaf}
}

func Primitive(kind TypeKind) TypeReference {
	return TypeReference{Kind: kind}
}

// ParseTypeReference parses an inline type string, as used for primary
// types, enum tuple slots and merkle tree leaves. It never fails: names
// that are not keywords are custom type references and are resolved
// against the type table when encoding.
func ParseTypeReference(s string) TypeReference {
	if kind, ok := primitiveKeywords[s]; ok {
		return Primitive(kind)
	}
	if elem, ok := strings.CutSuffix(s, arraySuffix); ok {
		return ArrayOf(parseElementTypeReference(elem))
	}
	return Custom(s)
}

// Arrays are one-dimensional, so an element is never parsed as an array:
// "u128**" is an array of the custom type "u128*".
func parseElementTypeReference(s string) TypeReference {
	if kind, ok := primitiveKeywords[s]; ok {
		return Primitive(kind)
	}
	return Custom(s)
}

// ParseFieldTypeReference parses the type of a struct field together with
// its "contains" companion, which names the target of the enum, struct and
// merkletree keywords.
func ParseFieldTypeReference(typ, contains string) TypeReference {
	switch typ {
	case enumKeyword:
		ref := Custom(contains)
		ref.Constraint = MustBeEnum
		return ref
	case structKeyword:
		ref := Custom(contains)
		ref.Constraint = MustBeStruct
		return ref
	case merkleTreeKeyword:
		return MerkleTreeOf(ParseTypeReference(contains))
	default:
		return ParseTypeReference(typ)
	}
}

// SignatureRepr is the text written for the reference inside a type
// signature.
func (r TypeReference) SignatureRepr() string {
	switch r.Kind {
	case CustomType:
		return r.Name
	case ArrayType:
		return r.Elem.SignatureRepr() + arraySuffix
	case MerkleTreeType:
		return merkleTreeKeyword
	default:
		return primitiveNames[r.Kind]
	}
}

func (r TypeReference) String() string {
	switch {
	case r.Kind == MerkleTreeType:
		return merkleTreeKeyword + "<" + r.Elem.String() + ">"
	case r.Constraint == MustBeEnum:
		return enumKeyword + "<" + r.Name + ">"
	case r.Constraint == MustBeStruct:
		return structKeyword + "<" + r.Name + ">"
	default:
		return r.SignatureRepr()
	}
}

func (r TypeReference) Equal(o TypeReference) bool {
	if r.Kind != o.Kind || r.Name != o.Name || r.Constraint != o.Constraint {
		return false
	}
	if r.Elem == nil || o.Elem == nil {
		return r.Elem == o.Elem
	}
	return r.Elem.Equal(*o.Elem)
}

// fieldTypeParts is the inverse of ParseFieldTypeReference.
func (r TypeReference) fieldTypeParts() (typ, contains string) {
	switch {
	case r.Kind == MerkleTreeType:
		return merkleTreeKeyword, r.Elem.SignatureRepr()
	case r.Constraint == MustBeEnum:
		return enumKeyword, r.Name
	case r.Constraint == MustBeStruct:
		return structKeyword, r.Name
	default:
		return r.SignatureRepr(), ""
	}
}

func isValidTypeName(name string) bool {
	return name != "" && !strings.ContainsAny(name, ",()")
}

// validate reports the first invalid custom type name in the reference.
func (r TypeReference) validate() (string, bool) {
	switch r.Kind {
	case CustomType:
		return r.Name, isValidTypeName(r.Name)
	case ArrayType, MerkleTreeType:
		return r.Elem.validate()
	default:
		return "", true
	}
}
