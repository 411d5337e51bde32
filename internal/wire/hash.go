package wire

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content digests.
// Version suffix enables future algorithm migration.
const (
	DomainEntity = "dscodec/entity/v1"
	DomainQuery  = "dscodec/query/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// EntityDigest computes a content digest of an entity's canonical JSON.
// Two entities with the same key and properties in the same order share a digest.
func EntityDigest(e Entity) (string, error) {
	canonical, err := MarshalCanonical(e)
	if err != nil {
		return "", fmt.Errorf("EntityDigest: %w", err)
	}
	return hashWithDomain(DomainEntity, canonical), nil
}

// QueryDigest computes a content digest of a compiled query.
func QueryDigest(q Query) (string, error) {
	canonical, err := MarshalCanonical(q)
	if err != nil {
		return "", fmt.Errorf("QueryDigest: %w", err)
	}
	return hashWithDomain(DomainQuery, canonical), nil
}
