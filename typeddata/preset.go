package typeddata

import (
	"strings"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/snip12/core/crypto"
)

// presetType is a struct type every revision 1 document may use without
// defining it.
type presetType struct {
	name       string
	definition *StructDefinition
	// dependsOnU256 is set for presets with a u256 member.
	dependsOnU256 bool

	signatures [2]string
	typeHashes [2]*felt.Felt
}

var (
	u256Preset = newPresetType("u256", false,
		FieldDefinition{Name: "low", Type: Primitive(U128Type)},
		FieldDefinition{Name: "high", Type: Primitive(U128Type)},
	)
	tokenAmountPreset = newPresetType("TokenAmount", true,
		FieldDefinition{Name: "token_address", Type: Primitive(ContractAddressType)},
		FieldDefinition{Name: "amount", Type: Primitive(U256Type)},
	)
	nftIDPreset = newPresetType("NftId", true,
		FieldDefinition{Name: "collection_address", Type: Primitive(ContractAddressType)},
		FieldDefinition{Name: "token_id", Type: Primitive(U256Type)},
	)
)

func newPresetType(name string, dependsOnU256 bool, fields ...FieldDefinition) *presetType {
	p := &presetType{
		name:          name,
		definition:    &StructDefinition{Fields: fields},
		dependsOnU256: dependsOnU256,
	}
	for _, revision := range []Revision{V0, V1} {
		var sb strings.Builder
		p.definition.writeSignature(&sb, name, revision)
		p.signatures[revision] = sb.String()
	}
	return p
}

func (p *presetType) signature(revision Revision) string {
	return p.signatures[revision]
}

func (p *presetType) typeHash(revision Revision) *felt.Felt {
	h := *p.typeHashes[revision]
	return &h
}

func init() {
	for _, p := range []*presetType{u256Preset, tokenAmountPreset, nftIDPreset} {
		for _, revision := range []Revision{V0, V1} {
			full := p.signature(revision)
			if p.dependsOnU256 {
				full += u256Preset.signature(revision)
			}
			p.typeHashes[revision] = crypto.StarknetKeccak([]byte(full))
		}
	}
}

func presetFor(kind TypeKind) (*presetType, bool) {
	switch kind {
	case U256Type:
		return u256Preset, true
	case TokenAmountType:
		return tokenAmountPreset, true
	case NftIDType:
		return nftIDPreset, true
	default:
		return nil, false
	}
}
