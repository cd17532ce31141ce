package typeddata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// TypeDefinition is either a *StructDefinition or an *EnumDefinition.
type TypeDefinition interface {
	signatureWriter
	json.Marshaler
	isTypeDefinition()
}

type signatureWriter interface {
	writeSignature(sb *strings.Builder, name string, revision Revision)
}

type FieldDefinition struct {
	Name string
	Type TypeReference
}

type StructDefinition struct {
	Fields []FieldDefinition
}

type VariantDefinition struct {
	Name       string
	TupleTypes []TypeReference
}

type EnumDefinition struct {
	Variants []VariantDefinition
}

var (
	_ TypeDefinition = (*StructDefinition)(nil)
	_ TypeDefinition = (*EnumDefinition)(nil)
)

func (*StructDefinition) isTypeDefinition() {}
func (*EnumDefinition) isTypeDefinition()   {}

// Variant looks a variant up by name and returns its declaration index.
func (d *EnumDefinition) Variant(name string) (int, *VariantDefinition, bool) {
	for i := range d.Variants {
		if d.Variants[i].Name == name {
			return i, &d.Variants[i], true
		}
	}
	return 0, nil, false
}

func (d *StructDefinition) writeSignature(sb *strings.Builder, name string, revision Revision) {
	writeName(sb, name, revision)
	sb.WriteByte('(')
	for i, field := range d.Fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeName(sb, field.Name, revision)
		sb.WriteByte(':')
		writeName(sb, field.Type.SignatureRepr(), revision)
	}
	sb.WriteByte(')')
}

// Variants are written as name:(types...), matching starknet.js.
func (d *EnumDefinition) writeSignature(sb *strings.Builder, name string, revision Revision) {
	writeName(sb, name, revision)
	sb.WriteByte('(')
	for i, variant := range d.Variants {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeName(sb, variant.Name, revision)
		sb.WriteString(":(")
		for j, tupleType := range variant.TupleTypes {
			if j > 0 {
				sb.WriteByte(',')
			}
			writeName(sb, tupleType.SignatureRepr(), revision)
		}
		sb.WriteByte(')')
	}
	sb.WriteByte(')')
}

func writeName(sb *strings.Builder, name string, revision Revision) {
	if revision == V1 {
		writeQuoted(sb, name)
		return
	}
	sb.WriteString(name)
}

const hexDigits = "0123456789abcdef"

// writeQuoted writes s as a JSON string the way serde_json does: only
// quotes, backslashes and control characters are escaped. encoding/json
// also escapes HTML characters and U+2028/U+2029, which would change the
// type hash.
func writeQuoted(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for i := range len(s) {
		c := s[i]
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if c < 0x20 {
				sb.WriteString(`\u00`)
				sb.WriteByte(hexDigits[c>>4])
				sb.WriteByte(hexDigits[c&0xf])
			} else {
				sb.WriteByte(c)
			}
		}
	}
	sb.WriteByte('"')
}

// rawEntry is one element of a type definition list.
type rawEntry struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Contains *string `json:"contains,omitempty"`
}

var errEmptyDefinition = errors.New("type definitions need at least 1 field or variant")

// parseTypeDefinition decodes a JSON list of fields or enum variants. An
// entry whose type is wrapped in parentheses is a variant.
func parseTypeDefinition(data []byte) (TypeDefinition, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var entries []rawEntry
	if err := dec.Decode(&entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errEmptyDefinition
	}

	if isVariantType(entries[0].Type) {
		def := &EnumDefinition{Variants: make([]VariantDefinition, 0, len(entries))}
		for _, entry := range entries {
			if !isVariantType(entry.Type) {
				return nil, fmt.Errorf("struct field %q in enum definition", entry.Name)
			}
			variant, err := parseVariant(entry)
			if err != nil {
				return nil, err
			}
			def.Variants = append(def.Variants, variant)
		}
		return def, nil
	}

	def := &StructDefinition{Fields: make([]FieldDefinition, 0, len(entries))}
	for _, entry := range entries {
		if isVariantType(entry.Type) {
			return nil, fmt.Errorf("enum variant %q in struct definition", entry.Name)
		}
		field, err := parseField(entry)
		if err != nil {
			return nil, err
		}
		def.Fields = append(def.Fields, field)
	}
	return def, nil
}

func isVariantType(typ string) bool {
	return strings.HasPrefix(typ, "(")
}

func parseVariant(entry rawEntry) (VariantDefinition, error) {
	if entry.Name == "" {
		return VariantDefinition{}, errors.New("empty variant name")
	}
	inner, ok := strings.CutSuffix(entry.Type[1:], ")")
	if !ok {
		return VariantDefinition{}, fmt.Errorf("variant %q: type %q lacks a closing parenthesis", entry.Name, entry.Type)
	}
	if entry.Contains != nil {
		return VariantDefinition{}, fmt.Errorf("variant %q: unexpected presence of the `contains` field", entry.Name)
	}

	variant := VariantDefinition{Name: entry.Name, TupleTypes: []TypeReference{}}
	if inner == "" {
		return variant, nil
	}
	for _, raw := range strings.Split(inner, ",") {
		ref := ParseTypeReference(strings.TrimSpace(raw))
		if name, ok := ref.validate(); !ok {
			return VariantDefinition{}, fmt.Errorf("variant %q: invalid type name: %s", entry.Name, name)
		}
		variant.TupleTypes = append(variant.TupleTypes, ref)
	}
	return variant, nil
}

func parseField(entry rawEntry) (FieldDefinition, error) {
	if entry.Name == "" {
		return FieldDefinition{}, errors.New("empty field name")
	}

	var contains string
	switch {
	case entry.Type == enumKeyword || entry.Type == structKeyword || entry.Type == merkleTreeKeyword:
		if entry.Contains == nil {
			return FieldDefinition{}, fmt.Errorf("field %q: type %q requires the `contains` field", entry.Name, entry.Type)
		}
		contains = *entry.Contains
	case entry.Contains != nil:
		return FieldDefinition{}, fmt.Errorf("field %q: unexpected presence of the `contains` field", entry.Name)
	}

	ref := ParseFieldTypeReference(entry.Type, contains)
	if name, ok := ref.validate(); !ok {
		return FieldDefinition{}, fmt.Errorf("field %q: invalid type name: %s", entry.Name, name)
	}
	return FieldDefinition{Name: entry.Name, Type: ref}, nil
}

func (d *StructDefinition) MarshalJSON() ([]byte, error) {
	entries := make([]rawEntry, len(d.Fields))
	for i, field := range d.Fields {
		typ, contains := field.Type.fieldTypeParts()
		entries[i] = rawEntry{Name: field.Name, Type: typ}
		if contains != "" {
			entries[i].Contains = &contains
		}
	}
	return json.Marshal(entries)
}

func (d *EnumDefinition) MarshalJSON() ([]byte, error) {
	entries := make([]rawEntry, len(d.Variants))
	for i, variant := range d.Variants {
		types := make([]string, len(variant.TupleTypes))
		for j, t := range variant.TupleTypes {
			types[j] = t.SignatureRepr()
		}
		entries[i] = rawEntry{Name: variant.Name, Type: "(" + strings.Join(types, ",") + ")"}
	}
	return json.Marshal(entries)
}
