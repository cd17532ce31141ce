package typeddata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/snip12/cairo"
	"github.com/NethermindEth/snip12/core/crypto"
)

// Domain separates signatures of one application and network from those
// of every other.
type Domain struct {
	Name     string
	Version  *felt.Felt
	ChainID  string
	Revision Revision
}

var domainTypeHashes = func() [2]*felt.Felt {
	var hashes [2]*felt.Felt
	for _, revision := range []Revision{V0, V1} {
		name, def := domainType(revision)
		var sb strings.Builder
		def.writeSignature(&sb, name, revision)
		hashes[revision] = crypto.StarknetKeccak([]byte(sb.String()))
	}
	return hashes
}()

// DomainTypeHash returns the type hash of the domain type of a revision.
func DomainTypeHash(revision Revision) *felt.Felt {
	h := *domainTypeHashes[revision]
	return &h
}

// Hash encodes the domain as a struct of the revision's domain type.
func (d *Domain) Hash() (*felt.Felt, error) {
	name, err := cairo.ShortStringToFelt(d.Name)
	if err != nil {
		return nil, errNamed(InvalidShortString, d.Name)
	}
	chainID, err := cairo.ShortStringToFelt(d.ChainID)
	if err != nil {
		return nil, errNamed(InvalidShortString, d.ChainID)
	}
	version := d.Version
	if version == nil {
		version = new(felt.Felt)
	}

	digest := d.Revision.HashFamily().NewDigest().
		Update(domainTypeHashes[d.Revision], name, version, chainID)
	if d.Revision == V1 {
		digest.Update(new(felt.Felt).SetUint64(1))
	}
	return digest.Finish(), nil
}

type domainJSON struct {
	Name     *string         `json:"name"`
	Version  json.RawMessage `json:"version"`
	ChainID  *string         `json:"chainId"`
	Revision *Revision       `json:"revision,omitempty"`
}

// UnmarshalJSON decodes a domain object. The version may be a number or a
// string; strings that look like numbers are read as numbers. Unknown
// members are ignored.
func (d *Domain) UnmarshalJSON(data []byte) error {
	var raw domainJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Name == nil:
		return errors.New("domain: missing field `name`")
	case raw.Version == nil:
		return errors.New("domain: missing field `version`")
	case raw.ChainID == nil:
		return errors.New("domain: missing field `chainId`")
	}

	if _, err := cairo.ShortStringToFelt(*raw.Name); err != nil {
		return fmt.Errorf("domain name: %w", err)
	}
	if _, err := cairo.ShortStringToFelt(*raw.ChainID); err != nil {
		return fmt.Errorf("domain chainId: %w", err)
	}
	version, err := parseDomainVersion(raw.Version)
	if err != nil {
		return err
	}

	*d = Domain{Name: *raw.Name, Version: version, ChainID: *raw.ChainID}
	if raw.Revision != nil {
		d.Revision = *raw.Revision
	}
	return nil
}

func parseDomainVersion(data json.RawMessage) (*felt.Felt, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	switch v := v.(type) {
	case string:
		f, err := cairo.ParseShortStringOrNumber(v)
		if err != nil {
			return nil, fmt.Errorf("domain version %q: %w", v, err)
		}
		return f, nil
	case json.Number:
		f, err := cairo.ParseFelt(v.String())
		if err != nil {
			return nil, fmt.Errorf("domain version %s: %w", v, err)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("domain version: expected a string or an integer, found %s", data)
	}
}

// MarshalJSON writes the version as a decimal string and the revision only
// for revision 1.
func (d *Domain) MarshalJSON() ([]byte, error) {
	version := "0"
	if d.Version != nil {
		version = d.Version.Text(10)
	}
	out := struct {
		Name     string    `json:"name"`
		Version  string    `json:"version"`
		ChainID  string    `json:"chainId"`
		Revision *Revision `json:"revision,omitempty"`
	}{Name: d.Name, Version: version, ChainID: d.ChainID}
	if d.Revision == V1 {
		out.Revision = &d.Revision
	}
	return json.Marshal(out)
}
