package disciplines

import (
	"testing"
)

func TestNewRegistry(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	list := registry.List()
	if len(list) == 0 {
		t.Fatal("expected embedded disciplines, got none")
	}

	// The core architectural disciplines must always be present
	for _, code := range []string{"A", "S", "C", "M", "E", "P"} {
		if !registry.Valid(code) {
			t.Errorf("expected discipline %q to be registered", code)
		}
	}

	if registry.Valid("ZZ") {
		t.Error("unknown code must not validate")
	}
}

func TestRegistry_Get(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	arch, ok := registry.Get("A")
	if !ok {
		t.Fatal("expected discipline A")
	}
	if arch.Label == "" {
		t.Error("expected non-empty label")
	}
	if arch.SheetPrefix != "A" {
		t.Errorf("expected sheet prefix A, got %q", arch.SheetPrefix)
	}
}

func TestSuggestNumber(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	tests := []struct {
		name     string
		fileName string
		want     string
	}{
		{
			name:     "hyphenated architectural sheet",
			fileName: "A-101 Floor Plan.pdf",
			want:     "A-101",
		},
		{
			name:     "no hyphen",
			fileName: "S201 Framing Plan.pdf",
			want:     "S-201",
		},
		{
			name:     "two-letter discipline",
			fileName: "FP-102 Sprinkler Layout.pdf",
			want:     "FP-102",
		},
		{
			name:     "lowercase prefix normalized",
			fileName: "m-301 mech plan.pdf",
			want:     "M-301",
		},
		{
			name:     "leading whitespace trimmed",
			fileName: "  A-101.pdf",
			want:     "A-101",
		},
		{
			name:     "unknown discipline prefix",
			fileName: "Q-101 Mystery.pdf",
			want:     "",
		},
		{
			name:     "no leading sheet code",
			fileName: "Floor Plan A-101.pdf",
			want:     "",
		},
		{
			name:     "too few digits",
			fileName: "A-1.pdf",
			want:     "",
		},
		{
			name:     "empty file name",
			fileName: "",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := registry.SuggestNumber(tt.fileName)
			if got != tt.want {
				t.Errorf("SuggestNumber(%q) = %q, want %q", tt.fileName, got, tt.want)
			}
		})
	}
}
