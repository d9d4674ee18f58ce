// Package idhash computes deterministic content-addressed identifiers.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ComputeSchemaID computes a deterministic schema identifier using SHA256.
// Formula: SHA256(column_1|column_2|...|column_n)
// Returns hex-encoded hash (64 characters).
//
// Column order is significant: two feature schemas with the same columns in
// a different order are different schemas.
func ComputeSchemaID(columns []string) string {
	data := strings.Join(columns, "|")
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
