package token

import (
	"encoding/base64"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	ids := []Identity{
		{TenantID: "admin1", CampaignID: "camp1", EmailRecordID: "rec1"},
		{TenantID: "a", CampaignID: "c", EmailRecordID: "e"},
		{TenantID: "f3b1e0aa-1c9d-4e5f-9a40-000000000001", CampaignID: "f3b1e0aa-1c9d-4e5f-9a40-000000000002", EmailRecordID: "f3b1e0aa-1c9d-4e5f-9a40-000000000003"},
	}
	for _, id := range ids {
		got, err := Decode(Encode(id))
		if err != nil {
			t.Fatalf("decode(encode(%v)): %v", id, err)
		}
		if got != id {
			t.Fatalf("round trip mismatch: got %v want %v", got, id)
		}
	}
}

func TestWireFormat(t *testing.T) {
	// The wire format is base64 of {"a":...,"c":...,"e":...} and must stay
	// compatible with links already in recipients' inboxes.
	tok := base64.StdEncoding.EncodeToString([]byte(`{"a":"admin1","c":"camp1","e":"rec1"}`))

	id, err := Decode(tok)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if id.TenantID != "admin1" || id.CampaignID != "camp1" || id.EmailRecordID != "rec1" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestDecodeRejects(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"not base64":     "not-base64!!",
		"not json":       base64.StdEncoding.EncodeToString([]byte("hello world")),
		"json array":     base64.StdEncoding.EncodeToString([]byte(`["a","c","e"]`)),
		"missing tenant": base64.StdEncoding.EncodeToString([]byte(`{"c":"camp1","e":"rec1"}`)),
		"missing camp":   base64.StdEncoding.EncodeToString([]byte(`{"a":"admin1","e":"rec1"}`)),
		"missing email":  base64.StdEncoding.EncodeToString([]byte(`{"a":"admin1","c":"camp1"}`)),
		"empty tenant":   base64.StdEncoding.EncodeToString([]byte(`{"a":"","c":"camp1","e":"rec1"}`)),
		"empty campaign": base64.StdEncoding.EncodeToString([]byte(`{"a":"admin1","c":"","e":"rec1"}`)),
		"empty email":    base64.StdEncoding.EncodeToString([]byte(`{"a":"admin1","c":"camp1","e":""}`)),
	}
	for name, tok := range cases {
		if _, err := Decode(tok); err != ErrInvalid {
			t.Errorf("%s: expected ErrInvalid, got %v", name, err)
		}
	}
}
