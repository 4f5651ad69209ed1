// Package report writes a markdown summary of the survey results.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/rooftopdata/solar-survey/internal/domain"
)

// Writer buffers records and writes the summary report when the survey
// finishes. It implements pipeline.BatchSink.
type Writer struct {
	path    string
	region  string
	records []domain.PropertyRecord
	logger  *slog.Logger
	closed  bool
}

// NewWriter creates a report sink that will write to path on Close.
func NewWriter(path, region string, logger *slog.Logger) *Writer {
	return &Writer{
		path:   path,
		region: region,
		logger: logger,
	}
}

// WriteBatch buffers records for the summary.
func (w *Writer) WriteBatch(_ context.Context, records []domain.PropertyRecord) error {
	w.records = append(w.records, records...)
	return nil
}

// Close renders the report. Safe to call more than once.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := os.WriteFile(w.path, []byte(w.render()), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	w.logger.Info("report written", "path", w.path, "properties", len(w.records))
	return nil
}

func (w *Writer) render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Solar Property Survey Report\n\n")
	fmt.Fprintf(&b, "**Region:** %s\n\n", w.region)
	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "- Properties surveyed: %d\n", len(w.records))

	var withSolar, scoreSum int
	for _, r := range w.records {
		if r.HasSolarPanels {
			withSolar++
		}
		scoreSum += r.SolarPotentialScore
	}
	if n := len(w.records); n > 0 {
		fmt.Fprintf(&b, "- Properties with solar panels: %d (%.1f%%)\n", withSolar, float64(withSolar)/float64(n)*100)
		fmt.Fprintf(&b, "- Average solar potential score: %.1f\n", float64(scoreSum)/float64(n))
	}
	b.WriteString("\n")

	w.renderSolarTable(&b)
	w.renderHighPotentialTable(&b)
	return b.String()
}

func (w *Writer) renderSolarTable(b *strings.Builder) {
	fmt.Fprintf(b, "## Existing Solar Installations\n\n")

	var any bool
	for _, r := range w.records {
		if !r.HasSolarPanels {
			continue
		}
		if !any {
			b.WriteString("| Address | Owner | Panels | System Size (kW) | Installed |\n")
			b.WriteString("|---|---|---|---|---|\n")
			any = true
		}
		year := "unknown"
		if r.InstallationYear != nil {
			year = fmt.Sprintf("%d", *r.InstallationYear)
		}
		fmt.Fprintf(b, "| %s | %s | %d | %s | %s |\n",
			r.Address, r.OwnerName, r.EstimatedPanelCount, formatKW(r.SystemSizeKW), year)
	}
	if !any {
		b.WriteString("No existing installations found.\n")
	}
	b.WriteString("\n")
}

func (w *Writer) renderHighPotentialTable(b *strings.Builder) {
	fmt.Fprintf(b, "## High Potential Candidates\n\n")

	var any bool
	for _, r := range w.records {
		if r.Category() != domain.CategoryHighPotential {
			continue
		}
		if !any {
			b.WriteString("| Address | Owner | Score | Projected ROI |\n")
			b.WriteString("|---|---|---|---|\n")
			any = true
		}
		fmt.Fprintf(b, "| %s | %s | %d | %.1f%% |\n",
			r.Address, r.OwnerName, r.SolarPotentialScore, r.ROIPercentage)
	}
	if !any {
		b.WriteString("No high potential candidates found.\n")
	}
	b.WriteString("\n")
}

func formatKW(kw float64) string {
	if kw <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%.1f", kw)
}
