package util

import "testing"

func TestFingerprintDeterministic(t *testing.T) {
	content := []byte("hello world")
	first := Fingerprint(content)
	second := Fingerprint(content)
	if first != second {
		t.Fatalf("expected identical fingerprints, got %s and %s", first, second)
	}
	if len(first) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(first))
	}
}

func TestFingerprintDiffersForDifferentContent(t *testing.T) {
	a := Fingerprint([]byte("content a"))
	b := Fingerprint([]byte("content b"))
	if a == b {
		t.Fatalf("expected different fingerprints for different content")
	}
}

func TestFingerprintIgnoresNothing(t *testing.T) {
	// Empty input is still a valid, stable digest.
	empty := Fingerprint(nil)
	if empty != Fingerprint([]byte{}) {
		t.Fatalf("expected nil and empty slices to fingerprint identically")
	}
}
