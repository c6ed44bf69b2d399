package types

import (
	"encoding/json"
	"testing"
)

func TestNewID(t *testing.T) {
	id := NewID()
	if id.IsZero() {
		t.Fatal("NewID() returned zero ID")
	}
	if err := id.Validate(); err != nil {
		t.Errorf("NewID() produced invalid ID: %v", err)
	}

	other := NewID()
	if id == other {
		t.Error("two generated IDs collided")
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid uuid", "550e8400-e29b-41d4-a716-446655440000", false},
		{"empty string", "", true},
		{"not a uuid", "fire-response-1", true},
		{"truncated uuid", "550e8400-e29b-41d4", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && id.String() != tt.input {
				t.Errorf("ParseID(%q) = %q", tt.input, id)
			}
		})
	}
}

func TestID_JSONRoundTrip(t *testing.T) {
	id := NewID()

	data, err := json.Marshal(id)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded ID
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded != id {
		t.Errorf("round trip changed ID: %q != %q", decoded, id)
	}
}

func TestID_MarshalZero(t *testing.T) {
	var id ID
	data, err := json.Marshal(id)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "null" {
		t.Errorf("zero ID marshaled to %s, want null", data)
	}
}
