package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix
// enables future algorithm migration without ID collisions.
const (
	// DomainAuditEvent prefixes audit event identifiers.
	DomainAuditEvent = "harmony/audit-event/v1"
)

// HashWithDomain computes SHA-256 with domain separation:
// SHA256(domain || 0x00 || data). The null separator prevents domain/data
// boundary ambiguity.
func HashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// EventID computes the content-addressed identifier of an audit event from
// its canonical map form. The same event always produces the same ID, which
// makes journal writes idempotent.
func EventID(event map[string]any) (string, error) {
	canonical, err := Marshal(event)
	if err != nil {
		return "", fmt.Errorf("EventID: failed to marshal: %w", err)
	}
	return HashWithDomain(DomainAuditEvent, canonical), nil
}
