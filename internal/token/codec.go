// Package token implements the tracking-token codec.
//
// A token is the opaque string carried in simulation links. It is an
// obfuscation encoding, not a cryptographic commitment: base64 over a
// small JSON payload with exactly the keys "a" (tenant), "c" (campaign)
// and "e" (email record). The link itself is the capability: whoever
// follows it is the training signal we want, so the token is
// deliberately unsigned. Decode is the single validation gate in front of
// every tracking write and must stay strict.
package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// ErrInvalid is returned for any token that does not decode to the exact
// expected shape. Callers must not distinguish the failure modes; a bad
// token is a bad token.
var ErrInvalid = errors.New("invalid tracking token")

// Identity is the triple a token encodes. All three fields are required
// and non-empty in every valid token.
type Identity struct {
	TenantID      string
	CampaignID    string
	EmailRecordID string
}

// payload is the wire shape. Short keys keep the encoded token compact
// enough for a query parameter.
type payload struct {
	A string `json:"a"`
	C string `json:"c"`
	E string `json:"e"`
}

// Encode packs the identity triple into a token suitable for a URL query
// parameter. Deterministic and reversible; Encode never fails.
func Encode(id Identity) string {
	data, _ := json.Marshal(payload{A: id.TenantID, C: id.CampaignID, E: id.EmailRecordID})
	return base64.StdEncoding.EncodeToString(data)
}

// Decode reverses Encode. It rejects anything that is not valid base64,
// anything whose payload is not the expected JSON object, and any payload
// with a missing or empty field.
func Decode(tok string) (Identity, error) {
	if tok == "" {
		return Identity{}, ErrInvalid
	}

	raw, err := base64.StdEncoding.DecodeString(tok)
	if err != nil {
		return Identity{}, ErrInvalid
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Identity{}, ErrInvalid
	}
	if p.A == "" || p.C == "" || p.E == "" {
		return Identity{}, ErrInvalid
	}

	return Identity{TenantID: p.A, CampaignID: p.C, EmailRecordID: p.E}, nil
}
