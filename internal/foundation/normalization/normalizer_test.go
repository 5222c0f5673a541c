package normalization

import (
	"strings"
	"testing"
)

type policy string

func newPolicies() *Normalizer[policy] {
	return NewNormalizer(map[string]policy{
		"pinned":   "pinned",
		"tag":      "pinned",
		"floating": "floating",
		"Branch":   "floating",
	})
}

func TestNormalize(t *testing.T) {
	n := newPolicies()
	tests := []struct {
		raw  string
		want policy
	}{
		{"pinned", "pinned"},
		{"  PINNED ", "pinned"},
		{"tag", "pinned"},
		{"branch", "floating"},
		{"sometimes", "none"},
		{"", "none"},
	}
	for _, tt := range tests {
		if got := n.Normalize(tt.raw, "none"); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	n := newPolicies()
	if v, err := n.Parse("Floating"); err != nil || v != "floating" {
		t.Fatalf("Parse(Floating) = %q, %v", v, err)
	}
	_, err := n.Parse("sometimes")
	if err == nil {
		t.Fatal("expected error for unknown value")
	}
	if !strings.Contains(err.Error(), "branch|floating|pinned|tag") {
		t.Errorf("error should list sorted options, got %q", err)
	}
}

func TestKeysIsACopy(t *testing.T) {
	n := newPolicies()
	keys := n.Keys()
	keys[0] = "changed"
	if n.Keys()[0] != "branch" {
		t.Fatalf("Keys() exposed internal slice: %v", n.Keys())
	}
}
