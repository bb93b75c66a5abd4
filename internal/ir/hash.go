package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainDraft     = "tenon/draft/v1"
	DomainFinalized = "tenon/finalized/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint computes a content-addressed hash of the draft. Two drafts
// with identical content have identical fingerprints, which is how failed
// mutations prove they were side-effect-free.
func (d *IR) Fingerprint() (string, error) {
	canonical, err := MarshalCanonical(d)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(DomainDraft, canonical), nil
}

// FinalizedFingerprint hashes the same content under the finalized domain.
// A finalized specification and a draft with identical bytes never share a
// fingerprint, so the two id spaces cannot be confused.
func (d *IR) FinalizedFingerprint() (string, error) {
	canonical, err := MarshalCanonical(d)
	if err != nil {
		return "", fmt.Errorf("finalized fingerprint: %w", err)
	}
	return hashWithDomain(DomainFinalized, canonical), nil
}
