// Package htmlmap renders the surveyed properties as an interactive Leaflet
// map in a self-contained HTML file.
package htmlmap

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"

	"github.com/rooftopdata/solar-survey/internal/domain"
)

// markerColors maps a record category to its marker color on the map.
var markerColors = map[string]string{
	domain.CategoryExistingSolar: "green",
	domain.CategoryHighPotential: "orange",
	domain.CategoryLowPotential:  "blue",
}

// Renderer buffers records and writes the map file when the survey finishes.
// It implements pipeline.BatchSink.
type Renderer struct {
	path    string
	region  string
	records []domain.PropertyRecord
	logger  *slog.Logger
	closed  bool
}

// NewRenderer creates a map sink that will write to path on Close.
func NewRenderer(path, region string, logger *slog.Logger) *Renderer {
	return &Renderer{
		path:   path,
		region: region,
		logger: logger,
	}
}

// WriteBatch buffers records for rendering.
func (r *Renderer) WriteBatch(_ context.Context, records []domain.PropertyRecord) error {
	r.records = append(r.records, records...)
	return nil
}

// Close renders the buffered records to the HTML file. Safe to call more
// than once; only the first call writes.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("create map file: %w", err)
	}
	defer f.Close()

	if err := mapTemplate.Execute(f, r.templateData()); err != nil {
		return fmt.Errorf("render map: %w", err)
	}
	r.logger.Info("map written", "path", r.path, "markers", len(r.records))
	return nil
}

type marker struct {
	Lat    float64
	Lon    float64
	Color  string
	Popup  popup
	Radius int
}

type popup struct {
	Address   string
	Owner     string
	HasPanels bool
	Score     int
	ROI       float64
}

type templateData struct {
	Region    string
	CenterLat float64
	CenterLon float64
	Markers   []marker
}

func (r *Renderer) templateData() templateData {
	data := templateData{
		Region: r.region,
		// Louisiana fallback center when the survey produced no records.
		CenterLat: 30.2,
		CenterLon: -90.1,
	}

	var sumLat, sumLon float64
	for _, rec := range r.records {
		sumLat += rec.Geo.Lat
		sumLon += rec.Geo.Lon
		data.Markers = append(data.Markers, marker{
			Lat:    rec.Geo.Lat,
			Lon:    rec.Geo.Lon,
			Color:  markerColors[rec.Category()],
			Radius: 8,
			Popup: popup{
				Address:   rec.Address,
				Owner:     rec.OwnerName,
				HasPanels: rec.HasSolarPanels,
				Score:     rec.SolarPotentialScore,
				ROI:       rec.ROIPercentage,
			},
		})
	}
	if n := len(r.records); n > 0 {
		data.CenterLat = sumLat / float64(n)
		data.CenterLon = sumLon / float64(n)
	}
	return data
}

var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Solar Survey Map - {{.Region}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
  #map { height: 100vh; }
  .legend {
    background: white; padding: 10px; border-radius: 5px;
    box-shadow: 0 0 15px rgba(0,0,0,0.2); line-height: 1.8;
  }
  .legend i {
    width: 12px; height: 12px; display: inline-block;
    border-radius: 50%; margin-right: 6px;
  }
</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], 11);
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);

{{range .Markers}}
L.circleMarker([{{.Lat}}, {{.Lon}}], {
  radius: {{.Radius}},
  color: {{.Color}},
  fillColor: {{.Color}},
  fillOpacity: 0.8
}).addTo(map).bindPopup(
  '<b>{{.Popup.Address}}</b><br>' +
  'Owner: {{.Popup.Owner}}<br>' +
  'Solar panels: {{if .Popup.HasPanels}}yes{{else}}no{{end}}<br>' +
  'Potential score: {{.Popup.Score}}<br>' +
  'ROI: {{.Popup.ROI}}%'
);
{{end}}

var legend = L.control({position: 'bottomright'});
legend.onAdd = function() {
  var div = L.DomUtil.create('div', 'legend');
  div.innerHTML =
    '<b>{{.Region}}</b><br>' +
    '<i style="background: green"></i>Existing solar<br>' +
    '<i style="background: orange"></i>High potential<br>' +
    '<i style="background: blue"></i>Low potential';
  return div;
};
legend.addTo(map);
</script>
</body>
</html>
`))
