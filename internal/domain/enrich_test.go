package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestBuildRecord(t *testing.T) {
	fixedTime := time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	defer SetClock(nil)

	t.Run("full payload with existing panels", func(t *testing.T) {
		lk := Lookup{
			Address:   "1 Main St",
			Geo:       Geo{Lat: 30.47, Lon: -90.10},
			Owner:     &OwnerResult{Name: "Alice"},
			Solar:     &SolarResult{HasPanels: true, PanelCount: 20, SystemSizeKW: 6.5, InstallationYear: 2019, Score: intPtr(85)},
			ImagePath: "house_images/house_30.47_-90.10.png",
		}

		rec := BuildRecord(1, lk)

		assert.Equal(t, 1, rec.PropertyID)
		assert.Equal(t, "Alice", rec.OwnerName)
		assert.Equal(t, "1 Main St", rec.Address)
		assert.Equal(t, "house_images/house_30.47_-90.10.png", rec.HouseImagePath)
		assert.True(t, rec.HasSolarPanels)
		assert.Equal(t, 20, rec.EstimatedPanelCount)
		assert.Equal(t, 6.5, rec.SystemSizeKW)
		require.NotNil(t, rec.InstallationYear)
		assert.Equal(t, 2019, *rec.InstallationYear)
		assert.Equal(t, 85, rec.SolarPotentialScore)
		assert.Greater(t, rec.ROIPercentage, 0.0)
		assert.Equal(t, fixedTime, rec.ProcessedAt)
	})

	t.Run("no coverage at all", func(t *testing.T) {
		lk := Lookup{Address: "2 Oak St"}

		rec := BuildRecord(2, lk)

		assert.Equal(t, 2, rec.PropertyID)
		assert.Equal(t, "Unknown", rec.OwnerName)
		assert.Empty(t, rec.HouseImagePath)
		assert.False(t, rec.HasSolarPanels)
		assert.Zero(t, rec.EstimatedPanelCount)
		assert.Zero(t, rec.SystemSizeKW)
		assert.Nil(t, rec.InstallationYear)
		assert.GreaterOrEqual(t, rec.SolarPotentialScore, 0)
		assert.LessOrEqual(t, rec.SolarPotentialScore, 100)
		assert.Zero(t, rec.ROIPercentage)
	})

	t.Run("synthetic score is reproducible", func(t *testing.T) {
		lk := Lookup{Address: "2 Oak St"}

		first := BuildRecord(1, lk)
		second := BuildRecord(1, lk)

		assert.Equal(t, first.SolarPotentialScore, second.SolarPotentialScore)
	})

	t.Run("synthetic scores vary by address", func(t *testing.T) {
		scores := map[int]bool{}
		for _, addr := range []string{"1 Main St", "2 Oak St", "3 Pine St", "4 Cedar Ave", "5 Maple Dr"} {
			scores[BuildRecord(1, Lookup{Address: addr}).SolarPotentialScore] = true
		}
		assert.Greater(t, len(scores), 1, "synthetic scores should not collapse to one value")
	})

	t.Run("no panels but provider score is kept", func(t *testing.T) {
		lk := Lookup{
			Address: "3 Pine St",
			Solar:   &SolarResult{HasPanels: false, Score: intPtr(62)},
		}

		rec := BuildRecord(3, lk)

		assert.False(t, rec.HasSolarPanels)
		assert.Zero(t, rec.EstimatedPanelCount)
		assert.Zero(t, rec.SystemSizeKW)
		assert.Nil(t, rec.InstallationYear)
		assert.Equal(t, 62, rec.SolarPotentialScore)
		assert.Zero(t, rec.ROIPercentage)
	})

	t.Run("panels without score default to 100", func(t *testing.T) {
		lk := Lookup{
			Address: "4 Cedar Ave",
			Solar:   &SolarResult{HasPanels: true, PanelCount: 12, SystemSizeKW: 4.2, InstallationYear: 2021},
		}

		rec := BuildRecord(4, lk)

		assert.Equal(t, 100, rec.SolarPotentialScore)
	})

	t.Run("negative payload values are clamped", func(t *testing.T) {
		lk := Lookup{
			Address: "5 Maple Dr",
			Solar:   &SolarResult{HasPanels: true, PanelCount: -3, SystemSizeKW: -1.5, InstallationYear: 2020},
		}

		rec := BuildRecord(5, lk)

		assert.True(t, rec.HasSolarPanels)
		assert.Zero(t, rec.EstimatedPanelCount)
		assert.Zero(t, rec.SystemSizeKW)
		// Clamping the size to zero also zeroes the ROI.
		assert.Zero(t, rec.ROIPercentage)
	})

	t.Run("blank owner name falls back to Unknown", func(t *testing.T) {
		lk := Lookup{
			Address: "6 Elm St",
			Owner:   &OwnerResult{Name: "   "},
		}

		rec := BuildRecord(6, lk)

		assert.Equal(t, "Unknown", rec.OwnerName)
	})
}

func TestPlausibleYear(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)))
	defer SetClock(nil)

	tests := []struct {
		name     string
		year     int
		expected *int
	}{
		{"recent year", 2019, intPtr(2019)},
		{"lower bound", 2000, intPtr(2000)},
		{"current year", 2025, intPtr(2025)},
		{"before 2000", 1997, nil},
		{"in the future", 2026, nil},
		{"zero means unknown", 0, nil},
		{"negative", -5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := plausibleYear(tt.year)
			if tt.expected == nil {
				assert.Nil(t, result)
				return
			}
			require.NotNil(t, result)
			assert.Equal(t, *tt.expected, *result)
		})
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		name     string
		score    int
		expected int
	}{
		{"in range", 85, 85},
		{"zero", 0, 0},
		{"hundred", 100, 100},
		{"negative", -10, 0},
		{"over range", 130, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, clampScore(tt.score))
		})
	}
}

func TestSyntheticScore(t *testing.T) {
	t.Run("always in range", func(t *testing.T) {
		addrs := []string{"", "1 Main St", "2 Oak St, Covington, LA 70433", "somewhere", "1234 Tyler St"}
		for _, addr := range addrs {
			score := syntheticScore(addr)
			assert.GreaterOrEqual(t, score, 0, addr)
			assert.LessOrEqual(t, score, 100, addr)
		}
	})

	t.Run("normalizes whitespace and case", func(t *testing.T) {
		assert.Equal(t, syntheticScore("1 Main St"), syntheticScore("  1  MAIN   st "))
	})
}

func TestDeriveROI(t *testing.T) {
	t.Run("zero size yields zero", func(t *testing.T) {
		assert.Zero(t, deriveROI(0))
		assert.Zero(t, deriveROI(-2))
	})

	t.Run("positive size yields positive percentage", func(t *testing.T) {
		roi := deriveROI(6.5)
		assert.Greater(t, roi, 0.0)
		// 1400 kWh/kW * $0.14 * 20yr / $3000 per kW.
		assert.InDelta(t, 130.7, roi, 0.05)
	})
}

func TestResolveOwner(t *testing.T) {
	tests := []struct {
		name     string
		owner    *OwnerResult
		expected string
	}{
		{"present", &OwnerResult{Name: "Alice"}, "Alice"},
		{"trimmed", &OwnerResult{Name: "  Bob  "}, "Bob"},
		{"empty", &OwnerResult{Name: ""}, "Unknown"},
		{"whitespace", &OwnerResult{Name: " \t"}, "Unknown"},
		{"absent", nil, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolveOwner(tt.owner))
		})
	}
}

func TestCategory(t *testing.T) {
	tests := []struct {
		name     string
		record   PropertyRecord
		expected string
	}{
		{"existing solar", PropertyRecord{HasSolarPanels: true, SolarPotentialScore: 100}, CategoryExistingSolar},
		{"high potential", PropertyRecord{SolarPotentialScore: 85}, CategoryHighPotential},
		{"threshold is low", PropertyRecord{SolarPotentialScore: 70}, CategoryLowPotential},
		{"low potential", PropertyRecord{SolarPotentialScore: 40}, CategoryLowPotential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.record.Category())
		})
	}
}
