package httputil

import (
	"encoding/json"
	"testing"
)

func TestOptionalString_UnmarshalJSON(t *testing.T) {
	type payload struct {
		ParentID OptionalString `json:"parent_id"`
	}

	tests := []struct {
		name        string
		body        string
		wantPresent bool
		wantValue   *string
	}{
		{
			name:        "field absent",
			body:        `{}`,
			wantPresent: false,
		},
		{
			name:        "explicit null",
			body:        `{"parent_id": null}`,
			wantPresent: true,
			wantValue:   nil,
		},
		{
			name:        "string value",
			body:        `{"parent_id": "node-1"}`,
			wantPresent: true,
			wantValue:   strPtr("node-1"),
		},
		{
			name:        "empty string is a value, not null",
			body:        `{"parent_id": ""}`,
			wantPresent: true,
			wantValue:   strPtr(""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			if err := json.Unmarshal([]byte(tt.body), &p); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}

			if p.ParentID.Present != tt.wantPresent {
				t.Errorf("Present = %v, want %v", p.ParentID.Present, tt.wantPresent)
			}
			switch {
			case tt.wantValue == nil && p.ParentID.Value != nil:
				t.Errorf("Value = %q, want nil", *p.ParentID.Value)
			case tt.wantValue != nil && p.ParentID.Value == nil:
				t.Errorf("Value = nil, want %q", *tt.wantValue)
			case tt.wantValue != nil && *p.ParentID.Value != *tt.wantValue:
				t.Errorf("Value = %q, want %q", *p.ParentID.Value, *tt.wantValue)
			}
		})
	}
}

func TestOptionalString_RejectsNonString(t *testing.T) {
	var o OptionalString
	if err := json.Unmarshal([]byte(`42`), &o); err == nil {
		t.Error("expected error for non-string value")
	}
}

func TestOptionalString_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   OptionalString
		want string
	}{
		{name: "absent", in: OptionalString{}, want: "null"},
		{name: "null value", in: OptionalString{Present: true}, want: "null"},
		{name: "string value", in: OptionalString{Present: true, Value: strPtr("node-1")}, want: `"node-1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.in)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal = %s, want %s", got, tt.want)
			}
		})
	}
}

func strPtr(s string) *string { return &s }
