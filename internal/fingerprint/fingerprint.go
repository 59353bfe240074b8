// Package fingerprint computes deterministic content digests for records.
//
// The fingerprint is a SHA-256 hash over a category-specific canonical
// serialization of the record and serves two purposes:
//   - cache key for potion deduplication (internal/dedup)
//   - correlation id on the wire for every record category
//
// Canonical form is order-sensitive: fields are concatenated exactly as
// extracted, never sorted, so two records differing only in list order
// produce different digests.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/alembic-io/alembic/internal/record"
)

// HexLength is the length of every fingerprint: 32 digest bytes as
// fixed-width lowercase hex. The encoding is zero-padded:
// variable-width renderings that drop leading zero bytes make fingerprints
// incomparable across records.
const HexLength = 64

// ErrUnknownRecord is returned for a record variant the canonical
// serialization does not cover.
var ErrUnknownRecord = errors.New("unknown record variant")

// Compute returns the fingerprint of a record as fixed-width lowercase hex.
// Repeated calls on the same record return the same digest.
func Compute(rec record.Record) (string, error) {
	canonical, err := Canonical(rec)
	if err != nil {
		return "", err
	}

	digest := sha256.Sum256([]byte(canonical))

	return hex.EncodeToString(digest[:]), nil
}

// Canonical returns the category-specific canonical serialization hashed by
// Compute. Exposed for tests; the wire never carries this form.
//
// Layout per category, each field terminated by ";":
//   - ingredient: tag, name
//   - processed_ingredient: tag, name, each composition entry in order
//   - potion: tag, each buff name ("buff:" prefix), each heal name
//     ("heal:" prefix), each wound name ("wound:" prefix), each composition
//     entry, all in extracted order
func Canonical(rec record.Record) (string, error) {
	var sb strings.Builder

	switch r := rec.(type) {
	case *record.Ingredient:
		sb.WriteString("ingredient;")
		sb.WriteString(r.Name)
	case *record.ProcessedIngredient:
		sb.WriteString("processed;")
		sb.WriteString(r.Name)
		sb.WriteString(";")

		for _, entry := range r.ComposedOf {
			sb.WriteString(entry)
			sb.WriteString(";")
		}
	case *record.Potion:
		sb.WriteString("potion;")

		for _, name := range r.BuffNames {
			sb.WriteString("buff:")
			sb.WriteString(name)
			sb.WriteString(";")
		}

		for _, name := range r.HealNames {
			sb.WriteString("heal:")
			sb.WriteString(name)
			sb.WriteString(";")
		}

		for _, name := range r.WoundNames {
			sb.WriteString("wound:")
			sb.WriteString(name)
			sb.WriteString(";")
		}

		for _, entry := range r.ComposedOf {
			sb.WriteString(entry)
			sb.WriteString(";")
		}
	default:
		return "", fmt.Errorf("%w: %T", ErrUnknownRecord, rec)
	}

	return sb.String(), nil
}
