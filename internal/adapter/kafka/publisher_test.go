package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rooftopdata/solar-survey/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	record := domain.PropertyRecord{
		PropertyID:          7,
		OwnerName:           "Alice Fontenot",
		Address:             "1234 Tyler St, Covington, LA 70433",
		HasSolarPanels:      true,
		SolarPotentialScore: 100,
		ROIPercentage:       130.7,
		Geo:                 domain.Geo{Lat: 30.4755, Lon: -90.1009},
		ProcessedAt:         now,
	}

	msg, err := serializeToMessage(record)
	require.NoError(t, err)

	assert.Equal(t, []byte("7"), msg.Key)
	assert.Contains(t, string(msg.Value), `"address":"1234 Tyler St, Covington, LA 70433"`)
	assert.Contains(t, string(msg.Value), `"has_solar_panels":true`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "category", msg.Headers[0].Key)
	assert.Equal(t, []byte(domain.CategoryExistingSolar), msg.Headers[0].Value)
	assert.Equal(t, "processed_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestSerializeToMessage_CategoryHeader(t *testing.T) {
	tests := []struct {
		name     string
		record   domain.PropertyRecord
		category string
	}{
		{
			name:     "high potential",
			record:   domain.PropertyRecord{PropertyID: 1, SolarPotentialScore: 85},
			category: domain.CategoryHighPotential,
		},
		{
			name:     "low potential",
			record:   domain.PropertyRecord{PropertyID: 2, SolarPotentialScore: 40},
			category: domain.CategoryLowPotential,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := serializeToMessage(tt.record)
			require.NoError(t, err)
			assert.Equal(t, []byte(tt.category), msg.Headers[0].Value)
		})
	}
}
