package region

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/rooftopdata/solar-survey/internal/domain"
)

// SyntheticProvider implements domain.PropertyProvider without any network
// calls. It stands in for the real solar-data API when no key is configured,
// producing address-deterministic payloads: seed addresses keep their
// verified solar status, fill addresses get hash-derived data, and a fixed
// share of addresses report no coverage at all so the downstream fallback
// path stays exercised.
type SyntheticProvider struct {
	region Region
}

// NewSyntheticProvider creates a provider for one region.
func NewSyntheticProvider(region Region) *SyntheticProvider {
	return &SyntheticProvider{region: region}
}

// Share of non-seed addresses with no provider coverage, in percent.
const noCoveragePct = 10

// Share of covered non-seed addresses with existing panels, in percent.
const solarSharePct = 30

func (p *SyntheticProvider) Lookup(_ context.Context, address string, _ domain.Geo) (domain.LookupResult, error) {
	hash := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(address))))

	hasSolar := false
	if seed, ok := p.region.SeedFor(address); ok {
		hasSolar = seed.HasSolar
	} else {
		if int(hash[0])%100 < noCoveragePct {
			return domain.LookupResult{}, nil
		}
		hasSolar = int(hash[1])%100 < solarSharePct
	}

	result := domain.LookupResult{
		Owner: &domain.OwnerResult{
			Name: fmt.Sprintf("Property Owner %d", 1+binary.BigEndian.Uint16(hash[2:4])%9999),
		},
		Solar: &domain.SolarResult{HasPanels: hasSolar},
	}

	if hasSolar {
		result.Solar.PanelCount = 15 + int(hash[4])%31 // 15-45 panels
		kw := 5.0 + float64(hash[5])/255.0*10.0        // 5.0-15.0 kW
		result.Solar.SystemSizeKW = math.Round(kw*10) / 10
		result.Solar.InstallationYear = 2018 + int(hash[6])%6 // 2018-2023
	} else {
		score := 45 + int(hash[7])%51 // 45-95
		result.Solar.Score = &score
	}

	return result, nil
}
