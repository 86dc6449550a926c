// Package schema coerces loosely-shaped generation output into the
// canonical typed records, and keeps that normalisation idempotent.
package schema

import (
	"encoding/json"

	"tripweaver/internal/models"
)

// Decode round-trips a normalised payload into the typed target record.
// Strict decoding only ever runs on normalised payloads, never on raw
// upstream output.
func Decode[T any](payload map[string]interface{}) (T, error) {
	var target T
	raw, err := json.Marshal(payload)
	if err != nil {
		return target, err
	}
	if err := json.Unmarshal(raw, &target); err != nil {
		return target, err
	}
	return target, nil
}

// DecodePlace upgrades raw untyped place data into a canonical Place.
func DecodePlace(payload map[string]interface{}) (models.Place, error) {
	normalised := normalizePlace(payload)
	return Decode[models.Place](normalised)
}
