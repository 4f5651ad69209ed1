// Command genfixture generates reproducible survey fixtures from the
// synthetic provider: a CSV and a JSON records file for a region, produced
// with a fixed clock so repeated runs are byte-identical. It uses the actual
// domain package so fixtures match real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genfixture \
//	  -region "New Orleans" \
//	  -count 20 \
//	  -csv-out testdata/survey_nola.csv \
//	  -json-out testdata/survey_nola.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rooftopdata/solar-survey/internal/adapter/csvsink"
	"github.com/rooftopdata/solar-survey/internal/domain"
	"github.com/rooftopdata/solar-survey/internal/region"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	regionName := flag.String("region", "St. Tammany Parish, LA", "region to generate fixtures for")
	count := flag.Int("count", 20, "number of properties")
	csvOut := flag.String("csv-out", "", "output path for the CSV fixture")
	jsonOut := flag.String("json-out", "", "output path for the JSON records fixture")
	flag.Parse()

	if *csvOut == "" || *jsonOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -csv-out, -json-out")
	}

	// Fix the clock for reproducible ProcessedAt timestamps and a stable
	// installation-year window.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	catalog, err := region.DefaultCatalog()
	if err != nil {
		return err
	}
	reg := catalog.Resolve(*regionName)
	provider := region.NewSyntheticProvider(reg)

	records := make([]domain.PropertyRecord, 0, *count)
	for i, cand := range reg.Candidates(*count) {
		result, err := provider.Lookup(context.Background(), cand.Address, cand.Geo)
		if err != nil {
			return fmt.Errorf("lookup %s: %w", cand.Address, err)
		}
		records = append(records, domain.BuildRecord(i+1, domain.Lookup{
			Address: cand.Address,
			Geo:     cand.Geo,
			Owner:   result.Owner,
			Solar:   result.Solar,
		}))
	}
	log.Printf("%s: %d records", reg.Name, len(records))

	if err := writeCSV(*csvOut, records); err != nil {
		return err
	}
	if err := writeJSON(*jsonOut, records); err != nil {
		return err
	}

	log.Printf("wrote %s and %s", *csvOut, *jsonOut)
	return nil
}

func writeCSV(path string, records []domain.PropertyRecord) error {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	w, err := csvsink.NewWriter(path, quiet)
	if err != nil {
		return err
	}
	if err := w.WriteBatch(context.Background(), records); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func writeJSON(path string, records []domain.PropertyRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
