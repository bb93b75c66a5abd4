package ir

import (
	"strings"
	"testing"
)

func TestFingerprint_StableAcrossCalls(t *testing.T) {
	d := draftWithHoles()

	fp1, err := d.Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint() failed: %v", err)
	}
	fp2, err := d.Fingerprint()
	if err != nil {
		t.Fatalf("second Fingerprint() failed: %v", err)
	}
	if fp1 != fp2 {
		t.Errorf("fingerprint not stable: %s != %s", fp1, fp2)
	}
	if len(fp1) != 64 {
		t.Errorf("fingerprint length = %d, want 64 hex chars", len(fp1))
	}
}

func TestFingerprint_ChangesWithContent(t *testing.T) {
	d := draftWithHoles()
	fp1, err := d.Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint() failed: %v", err)
	}

	d.Effects[0].Describe = Concrete("check the input is empty")
	fp2, err := d.Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint() after edit failed: %v", err)
	}
	if fp1 == fp2 {
		t.Error("fingerprint unchanged after draft edit")
	}
}

func TestFingerprint_CloneMatches(t *testing.T) {
	d := draftWithHoles()
	fp1, _ := d.Fingerprint()
	fp2, _ := d.Clone().Fingerprint()
	if fp1 != fp2 {
		t.Errorf("clone fingerprint differs: %s != %s", fp1, fp2)
	}
}

func TestFinalizedFingerprint_DomainSeparation(t *testing.T) {
	d := draftWithHoles()
	draft, err := d.Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint() failed: %v", err)
	}
	finalized, err := d.FinalizedFingerprint()
	if err != nil {
		t.Fatalf("FinalizedFingerprint() failed: %v", err)
	}
	if draft == finalized {
		t.Error("draft and finalized fingerprints collide for identical content")
	}
	if len(finalized) != 64 {
		t.Errorf("finalized fingerprint length = %d, want 64 hex chars", len(finalized))
	}
}

func TestMarshalCanonical_NoHTMLEscaping(t *testing.T) {
	out, err := MarshalCanonical(map[string]string{"predicate": "count > 0 && count < 10"})
	if err != nil {
		t.Fatalf("MarshalCanonical() failed: %v", err)
	}
	if strings.Contains(string(out), `>`) || strings.Contains(string(out), `&`) {
		t.Errorf("canonical JSON HTML-escaped: %s", out)
	}
}

func TestMarshalCanonical_SortedKeys(t *testing.T) {
	out, err := MarshalCanonical(map[string]int{"b": 2, "a": 1, "c": 3})
	if err != nil {
		t.Fatalf("MarshalCanonical() failed: %v", err)
	}
	want := `{"a":1,"b":2,"c":3}`
	if string(out) != want {
		t.Errorf("canonical = %s, want %s", out, want)
	}
}

func TestMarshalCanonical_RejectsFloats(t *testing.T) {
	_, err := MarshalCanonical(map[string]any{"ratio": 0.5})
	if err == nil {
		t.Fatal("expected error for float value")
	}
}
