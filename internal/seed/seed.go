// Package seed carries the catalog shipped with the service: states, cities,
// hotels, travel packages and offers. Rows reference their parents by name.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"hotel_booking/internal/domain"
)

//go:embed catalog.json
var catalogJSON []byte

// Default decodes the embedded catalog. Every call returns a fresh copy.
func Default() (domain.CatalogSnapshot, error) {
	return Parse(catalogJSON)
}

// Parse decodes a snapshot document of the same shape as the embedded one.
func Parse(b []byte) (domain.CatalogSnapshot, error) {
	var snap domain.CatalogSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return domain.CatalogSnapshot{}, fmt.Errorf("decode catalog snapshot: %w", err)
	}
	return snap, nil
}
