package typeddata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/snip12/core/crypto"
	"github.com/NethermindEth/snip12/utils"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	domainTypeNameV0 = "StarkNetDomain"
	domainTypeNameV1 = "StarknetDomain"

	typeHashCacheSize = 256
)

var (
	domainDefinitionV0 = &StructDefinition{Fields: []FieldDefinition{
		{Name: "name", Type: Primitive(FeltType)},
		{Name: "version", Type: Primitive(FeltType)},
		{Name: "chainId", Type: Primitive(FeltType)},
	}}
	domainDefinitionV1 = &StructDefinition{Fields: []FieldDefinition{
		{Name: "name", Type: Primitive(ShortStringType)},
		{Name: "version", Type: Primitive(ShortStringType)},
		{Name: "chainId", Type: Primitive(ShortStringType)},
		{Name: "revision", Type: Primitive(ShortStringType)},
	}}
)

func domainType(revision Revision) (string, *StructDefinition) {
	if revision == V1 {
		return domainTypeNameV1, domainDefinitionV1
	}
	return domainTypeNameV0, domainDefinitionV0
}

func (d *StructDefinition) equal(o *StructDefinition) bool {
	if len(d.Fields) != len(o.Fields) {
		return false
	}
	for i := range d.Fields {
		if d.Fields[i].Name != o.Fields[i].Name || !d.Fields[i].Type.Equal(o.Fields[i].Type) {
			return false
		}
	}
	return true
}

func isDomainDefinition(def TypeDefinition, revision Revision) bool {
	structDef, ok := def.(*StructDefinition)
	if !ok {
		return false
	}
	_, canonical := domainType(revision)
	return structDef.equal(canonical)
}

type NamedType struct {
	Name       string
	Definition TypeDefinition
}

// Types is the user defined part of a typed data schema. The domain type is
// implied by the revision and is not stored. Types is safe for concurrent
// use.
type Types struct {
	revision Revision
	names    []string
	defs     map[string]TypeDefinition
	hashes   *lru.Cache[string, *felt.Felt]
}

// NewTypes builds a type table. A repeated name replaces the earlier
// definition but keeps its position. Entries without a definition are
// skipped.
func NewTypes(revision Revision, types ...NamedType) *Types {
	t := &Types{
		revision: revision,
		names:    make([]string, 0, len(types)),
		defs:     make(map[string]TypeDefinition, len(types)),
	}
	for _, nt := range types {
		if nt.Definition == nil {
			continue
		}
		if _, found := t.defs[nt.Name]; !found {
			t.names = append(t.names, nt.Name)
		}
		t.defs[nt.Name] = nt.Definition
	}

	var err error
	if t.hashes, err = lru.New[string, *felt.Felt](typeHashCacheSize); err != nil {
		panic(err)
	}
	return t
}

func (t *Types) Revision() Revision {
	return t.revision
}

func (t *Types) Get(name string) (TypeDefinition, bool) {
	def, found := t.defs[name]
	return def, found
}

// Names returns the defined type names in declaration order.
func (t *Types) Names() []string {
	return append([]string(nil), t.names...)
}

func (t *Types) All() iter.Seq2[string, TypeDefinition] {
	return func(yield func(string, TypeDefinition) bool) {
		for _, name := range t.names {
			if !yield(name, t.defs[name]) {
				return
			}
		}
	}
}

// TypeHash returns the Starknet keccak of the full signature of a user
// defined type. Results are memoized.
func (t *Types) TypeHash(name string) (*felt.Felt, error) {
	if h, ok := t.hashes.Get(name); ok {
		c := *h
		return &c, nil
	}

	signature, err := t.Signature(name)
	if err != nil {
		return nil, err
	}
	h := crypto.StarknetKeccak([]byte(signature))
	t.hashes.Add(name, h)

	c := *h
	return &c, nil
}

// Signature returns the encoded type of a user defined type: its own
// signature followed by the signatures of every type it references,
// directly or not, sorted by name.
func (t *Types) Signature(name string) (string, error) {
	def, found := t.defs[name]
	if !found {
		return "", errNamed(CustomTypeNotFound, name)
	}

	deps := make(map[string]signatureWriter)
	if err := t.collectDefinitionDeps(deps, def); err != nil {
		return "", err
	}

	var sb strings.Builder
	def.writeSignature(&sb, name, t.revision)
	for depName, dep := range utils.OrderMap(deps) {
		dep.writeSignature(&sb, depName, t.revision)
	}
	return sb.String(), nil
}

func (t *Types) collectDefinitionDeps(deps map[string]signatureWriter, def TypeDefinition) error {
	switch def := def.(type) {
	case *StructDefinition:
		for _, field := range def.Fields {
			if err := t.collectReferenceDeps(deps, field.Type); err != nil {
				return err
			}
		}
	case *EnumDefinition:
		for _, variant := range def.Variants {
			for _, tupleType := range variant.TupleTypes {
				if err := t.collectReferenceDeps(deps, tupleType); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (t *Types) collectReferenceDeps(deps map[string]signatureWriter, ref TypeReference) error {
	switch ref.Kind {
	case CustomType:
		def, found := t.defs[ref.Name]
		if !found {
			return errNamed(CustomTypeNotFound, ref.Name)
		}
		if _, seen := deps[ref.Name]; !seen {
			deps[ref.Name] = def
			return t.collectDefinitionDeps(deps, def)
		}
	case ArrayType:
		return t.collectReferenceDeps(deps, *ref.Elem)
	case MerkleTreeType:
		// starknet.js leaves the leaf type out of the encoded type.
	case U256Type, TokenAmountType, NftIDType:
		preset, _ := presetFor(ref.Kind)
		deps[preset.name] = preset
		if preset.dependsOnU256 {
			deps[u256Preset.name] = u256Preset
		}
	}
	return nil
}

func (p *presetType) writeSignature(sb *strings.Builder, _ string, revision Revision) {
	sb.WriteString(p.signature(revision))
}

var (
	errConflictingDomainTypes = errors.New("conflicting domain type definitions")
	errMissingDomainType      = errors.New("missing domain type definition")
)

// UnmarshalJSON decodes a types object. The revision is inferred from the
// domain type, which must match its canonical definition.
func (t *Types) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	var named []NamedType
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)

		var raw json.RawMessage
		if err = dec.Decode(&raw); err != nil {
			return err
		}
		def, err := parseTypeDefinition(raw)
		if err != nil {
			return fmt.Errorf("type %q: %w", name, err)
		}
		named = append(named, NamedType{Name: name, Definition: def})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}

	parsed := NewTypes(V0, named...)
	domainV0, hasV0 := parsed.defs[domainTypeNameV0]
	domainV1, hasV1 := parsed.defs[domainTypeNameV1]
	switch {
	case hasV1 && hasV0:
		return errConflictingDomainTypes
	case hasV1:
		if !isDomainDefinition(domainV1, V1) {
			return fmt.Errorf("invalid domain type definition for revision %s", V1)
		}
		parsed.revision = V1
		parsed.remove(domainTypeNameV1)
	case hasV0:
		if !isDomainDefinition(domainV0, V0) {
			return fmt.Errorf("invalid domain type definition for revision %s", V0)
		}
		parsed.remove(domainTypeNameV0)
	default:
		return errMissingDomainType
	}

	*t = *parsed
	return nil
}

// remove is only used while a table is being built.
func (t *Types) remove(name string) {
	delete(t.defs, name)
	for i, n := range t.names {
		if n == name {
			t.names = append(t.names[:i], t.names[i+1:]...)
			return
		}
	}
}

// MarshalJSON writes the canonical domain type first, followed by the user
// types in declaration order.
func (t *Types) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	domainName, domainDef := domainType(t.revision)
	if err := writeMember(&buf, domainName, domainDef); err != nil {
		return nil, err
	}
	for name, def := range t.All() {
		buf.WriteByte(',')
		if err := writeMember(&buf, name, def); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, value json.Marshaler) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := value.MarshalJSON()
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if got, ok := tok.(json.Delim); !ok || got != want {
		return fmt.Errorf("expected %q, found %v", want, tok)
	}
	return nil
}
