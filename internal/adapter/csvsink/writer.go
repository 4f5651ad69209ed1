// Package csvsink writes property records to the survey's CSV output file.
package csvsink

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/rooftopdata/solar-survey/internal/domain"
)

// header is the CSV schema, in column order.
var header = []string{
	"property_id",
	"owner_name",
	"address",
	"house_image_path",
	"has_solar_panels",
	"estimated_panel_count",
	"system_size_kw",
	"installation_year",
	"solar_potential_score",
	"roi_percentage",
}

// Writer streams property records to a CSV file. It implements
// pipeline.BatchSink and writes the header row on creation.
type Writer struct {
	file   *os.File
	csv    *csv.Writer
	logger *slog.Logger
	closed bool
	rows   int
}

// NewWriter creates the output file at path and writes the header row.
func NewWriter(path string, logger *slog.Logger) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	w := &Writer{
		file:   f,
		csv:    csv.NewWriter(f),
		logger: logger,
	}
	if err := w.csv.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	return w, nil
}

// WriteBatch appends one row per record.
func (w *Writer) WriteBatch(_ context.Context, records []domain.PropertyRecord) error {
	for _, r := range records {
		if err := w.csv.Write(row(r)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
		w.rows++
	}
	return nil
}

// Close flushes buffered rows and closes the file. Safe to call more than once.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.file.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("close csv file: %w", err)
	}
	w.logger.Info("csv output written", "path", w.file.Name(), "rows", w.rows)
	return nil
}

func row(r domain.PropertyRecord) []string {
	year := ""
	if r.InstallationYear != nil {
		year = strconv.Itoa(*r.InstallationYear)
	}
	return []string{
		strconv.Itoa(r.PropertyID),
		r.OwnerName,
		r.Address,
		r.HouseImagePath,
		strconv.FormatBool(r.HasSolarPanels),
		strconv.Itoa(r.EstimatedPanelCount),
		strconv.FormatFloat(r.SystemSizeKW, 'f', -1, 64),
		year,
		strconv.Itoa(r.SolarPotentialScore),
		strconv.FormatFloat(r.ROIPercentage, 'f', -1, 64),
	}
}
