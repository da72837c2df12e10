package utils

import (
	"net/url"
	"testing"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("Failed to parse %q: %v", raw, err)
	}
	return parsed
}

func TestResolveAssetRefAbsolute(t *testing.T) {
	base := mustParse(t, "https://api.example.edu/v1/")

	got, err := ResolveAssetRef(base, "https://cdn.example.edu/img/a.png")
	if err != nil {
		t.Fatalf("ResolveAssetRef failed: %v", err)
	}
	if got != "https://cdn.example.edu/img/a.png" {
		t.Errorf("Absolute ref should pass through, got %q", got)
	}
}

func TestResolveAssetRefRelative(t *testing.T) {
	base := mustParse(t, "https://api.example.edu/v1/")

	cases := map[string]string{
		"uploads/img.png":  "https://api.example.edu/v1/uploads/img.png",
		"/uploads/img.png": "https://api.example.edu/v1/uploads/img.png",
	}

	for ref, want := range cases {
		got, err := ResolveAssetRef(base, ref)
		if err != nil {
			t.Fatalf("ResolveAssetRef(%q) failed: %v", ref, err)
		}
		if got != want {
			t.Errorf("ResolveAssetRef(%q) = %q, want %q", ref, got, want)
		}
	}
}

func TestResolveAssetRefRejectsEmpty(t *testing.T) {
	base := mustParse(t, "https://api.example.edu/v1/")

	if _, err := ResolveAssetRef(base, ""); err == nil {
		t.Error("Expected error for empty ref")
	}
	if _, err := ResolveAssetRef(base, "   "); err == nil {
		t.Error("Expected error for blank ref")
	}
}

func TestResolveAssetRefRejectsUnsupportedScheme(t *testing.T) {
	base := mustParse(t, "https://api.example.edu/v1/")

	if _, err := ResolveAssetRef(base, "ftp://files.example.edu/a.bin"); err == nil {
		t.Error("Expected error for ftp scheme")
	}
}

func TestResolveAssetRefNoBase(t *testing.T) {
	if _, err := ResolveAssetRef(nil, "uploads/img.png"); err == nil {
		t.Error("Expected error for relative ref without a base")
	}
}
