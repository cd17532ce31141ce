// Package typeddata implements SNIP-12, the Starknet standard for hashing
// and signing structured off-chain messages.
//
// A message is described by a TypedData document: a table of user types, a
// domain separating applications and networks, the name of the primary type
// and the message value. Revision 0 documents hash with Pedersen and
// revision 1 documents hash with Poseidon.
package typeddata

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/snip12/cairo"
)

// messagePrefix is the short string "StarkNet Message".
var messagePrefix = func() *felt.Felt {
	f, err := cairo.ShortStringToFelt("StarkNet Message")
	if err != nil {
		panic(err)
	}
	return f
}()

type TypedData struct {
	encoder     *Encoder
	primaryType TypeReference
	message     Value
}

// New fails with InconsistentRevision when the revision implied by types
// differs from the domain's.
func New(types *Types, domain Domain, primaryType TypeReference, message Value) (*TypedData, error) {
	encoder, err := NewEncoder(types, domain)
	if err != nil {
		return nil, err
	}
	return &TypedData{
		encoder:     encoder,
		primaryType: primaryType,
		message:     message,
	}, nil
}

func (td *TypedData) Revision() Revision {
	return td.encoder.Revision()
}

func (td *TypedData) Encoder() *Encoder {
	return td.encoder
}

func (td *TypedData) Types() *Types {
	return td.encoder.Types()
}

func (td *TypedData) Domain() Domain {
	return td.encoder.Domain()
}

func (td *TypedData) PrimaryType() TypeReference {
	return td.primaryType
}

func (td *TypedData) Message() Value {
	return td.message
}

// MessageHash computes the hash an account signs for the message:
// H(prefix, domain hash, address, H(message)).
func (td *TypedData) MessageHash(address *felt.Felt) (*felt.Felt, error) {
	hashes, err := td.hashes(address, false)
	if err != nil {
		return nil, err
	}
	return hashes.Hash, nil
}

// Hashes breaks the message hash down into its components.
type Hashes struct {
	Hash       *felt.Felt `json:"hash"`
	DomainHash *felt.Felt `json:"domain_hash"`
	// TypeHash is zero when the primary type is neither a user defined type
	// nor a preset.
	TypeHash    *felt.Felt `json:"type_hash"`
	MessageHash *felt.Felt `json:"message_hash"`
	// FieldHashes is only filled when the primary type is a struct or a
	// preset.
	FieldHashes []*felt.Felt `json:"field_hashes"`
}

func (td *TypedData) Hashes(address *felt.Felt) (*Hashes, error) {
	return td.hashes(address, true)
}

func (td *TypedData) hashes(address *felt.Felt, breakdown bool) (*Hashes, error) {
	domainHash, err := td.encoder.domain.Hash()
	if err != nil {
		return nil, err
	}

	hashes := &Hashes{
		DomainHash:  domainHash,
		TypeHash:    new(felt.Felt),
		FieldHashes: []*felt.Felt{},
	}
	if hashes.MessageHash, err = td.encoder.EncodeValue(td.primaryType, td.message); err != nil {
		return nil, err
	}
	if breakdown {
		if err = td.breakdown(hashes); err != nil {
			return nil, err
		}
	}

	hashes.Hash = td.encoder.family.NewDigest().
		Update(messagePrefix, domainHash, address, hashes.MessageHash).
		Finish()
	return hashes, nil
}

// breakdown fills the type hash and field hashes of a message that has
// already been encoded successfully.
func (td *TypedData) breakdown(hashes *Hashes) error {
	var def *StructDefinition
	switch kind := td.primaryType.Kind; kind {
	case CustomType:
		typeHash, err := td.Types().TypeHash(td.primaryType.Name)
		if err != nil {
			return err
		}
		hashes.TypeHash = typeHash

		userDef, _ := td.Types().Get(td.primaryType.Name)
		def, _ = userDef.(*StructDefinition)
	default:
		preset, ok := presetFor(kind)
		if !ok {
			return nil
		}
		hashes.TypeHash = preset.typeHash(td.Revision())
		def = preset.definition
	}

	obj, ok := td.message.(*Object)
	if def == nil || !ok {
		return nil
	}
	fields, err := td.encoder.EncodeStructFields(def, obj)
	if err != nil {
		return err
	}
	hashes.FieldHashes = fields
	return nil
}

type typedDataJSON struct {
	Types       *Types          `json:"types"`
	PrimaryType string          `json:"primaryType"`
	Domain      *Domain         `json:"domain"`
	Message     json.RawMessage `json:"message"`
}

var errMissingMember = errors.New("missing member")

func (td *TypedData) UnmarshalJSON(data []byte) error {
	var raw typedDataJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Types == nil:
		return fmt.Errorf("%w `types`", errMissingMember)
	case raw.Domain == nil:
		return fmt.Errorf("%w `domain`", errMissingMember)
	case raw.Message == nil:
		return fmt.Errorf("%w `message`", errMissingMember)
	}

	primaryType := ParseTypeReference(raw.PrimaryType)
	if name, ok := primaryType.validate(); !ok {
		return fmt.Errorf("primaryType: invalid type name %q", name)
	}
	message, err := ParseValue(raw.Message)
	if err != nil {
		return fmt.Errorf("message: %w", err)
	}

	parsed, err := New(raw.Types, *raw.Domain, primaryType, message)
	if err != nil {
		return err
	}
	*td = *parsed
	return nil
}

func (td *TypedData) MarshalJSON() ([]byte, error) {
	message, err := td.message.MarshalJSON()
	if err != nil {
		return nil, err
	}
	domain := td.Domain()
	return json.Marshal(typedDataJSON{
		Types:       td.Types(),
		PrimaryType: td.primaryType.SignatureRepr(),
		Domain:      &domain,
		Message:     message,
	})
}
