package domain

import (
	"context"
	"time"
)

// OwnerResult is the owner/address payload returned by a property lookup.
type OwnerResult struct {
	Name string `json:"name"`
}

// SolarResult is the solar-potential payload returned by a provider.
// Score is a pointer because a provider may report panel status without
// scoring the roof; PotentialScore on the output record is then estimated.
type SolarResult struct {
	HasPanels        bool    `json:"has_panels"`
	PanelCount       int     `json:"panel_count"`
	SystemSizeKW     float64 `json:"system_size_kw"`
	InstallationYear int     `json:"installation_year"` // 0 when unknown
	Score            *int    `json:"score,omitempty"`   // 0-100, nil when not reported
}

// LookupResult bundles the two payloads a provider may return for an address.
// Either field may be nil when the provider has no data for that aspect.
type LookupResult struct {
	Owner *OwnerResult
	Solar *SolarResult
}

// Empty reports whether the provider returned no data at all (no coverage).
func (r LookupResult) Empty() bool {
	return r.Owner == nil && r.Solar == nil
}

// PropertyProvider looks up owner and solar data for an address.
type PropertyProvider interface {
	// Lookup returns the payloads for an address. A zero LookupResult with a
	// nil error means the provider has no coverage for the location.
	Lookup(ctx context.Context, address string, geo Geo) (LookupResult, error)
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat,omitempty"`
	Lon float64 `json:"lon,omitempty"`
}

// Lookup is the raw per-address input assembled by the collector: the address
// itself plus whatever the upstream lookups produced. Owner and Solar are nil
// when the corresponding lookup failed or the location had no coverage.
// ImagePath is empty when no aerial image was retrieved.
type Lookup struct {
	Address   string
	Geo       Geo
	Owner     *OwnerResult
	Solar     *SolarResult
	ImagePath string
}

// PropertyRecord is the fully-populated output record, one per surveyed
// address. The first ten fields are the CSV schema, in column order.
type PropertyRecord struct {
	PropertyID          int     `json:"property_id"`
	OwnerName           string  `json:"owner_name"`
	Address             string  `json:"address"`
	HouseImagePath      string  `json:"house_image_path,omitempty"`
	HasSolarPanels      bool    `json:"has_solar_panels"`
	EstimatedPanelCount int     `json:"estimated_panel_count"`
	SystemSizeKW        float64 `json:"system_size_kw"`
	InstallationYear    *int    `json:"installation_year,omitempty"`
	SolarPotentialScore int     `json:"solar_potential_score"`
	ROIPercentage       float64 `json:"roi_percentage"`

	// Carried for the map and report sinks, not part of the CSV schema.
	Geo         Geo       `json:"geo,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Score bucket labels used by the map and report sinks.
const (
	CategoryExistingSolar = "existing_solar"
	CategoryHighPotential = "high_potential"
	CategoryLowPotential  = "low_potential"
)

// highPotentialThreshold is the score above which a property without panels
// is considered a strong retrofit candidate.
const highPotentialThreshold = 70

// Category buckets a record by solar status and potential score.
func (r PropertyRecord) Category() string {
	switch {
	case r.HasSolarPanels:
		return CategoryExistingSolar
	case r.SolarPotentialScore > highPotentialThreshold:
		return CategoryHighPotential
	default:
		return CategoryLowPotential
	}
}
