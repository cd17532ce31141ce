package typeddata

import (
	"encoding/json"
	"fmt"

	"github.com/NethermindEth/snip12/core/crypto"
)

// Revision is the SNIP-12 protocol revision. It selects the hash family and
// the encoding rules for names and strings.
type Revision uint8

const (
	// V0 hashes with Pedersen and writes type signatures with raw names.
	V0 Revision = iota
	// V1 hashes with Poseidon, quotes names in type signatures and hashes
	// strings as Cairo byte arrays.
	V1
)

func (r Revision) String() string {
	switch r {
	case V0:
		return "0"
	case V1:
		return "1"
	default:
		return fmt.Sprintf("Revision(%d)", uint8(r))
	}
}

// HashFamily returns the hash functions used by the revision.
func (r Revision) HashFamily() crypto.HashFamily {
	if r == V1 {
		return crypto.PoseidonFamily
	}
	return crypto.PedersenFamily
}

func (r Revision) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts "0", "1", 0 and 1.
func (r *Revision) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"0"`, "0":
		*r = V0
	case `"1"`, "1":
		*r = V1
	default:
		return fmt.Errorf("invalid revision %s: expected \"0\" or \"1\"", data)
	}
	return nil
}
