// Command validate checks a survey CSV for schema and data integrity: exact
// header, contiguous property IDs, field ranges, and the consistency rules
// between solar status, score, and ROI.
//
// Usage:
//
//	go run ./cmd/validate -csv solar_survey_output/solar_properties.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

var expectedHeader = []string{
	"property_id", "owner_name", "address", "house_image_path",
	"has_solar_panels", "estimated_panel_count", "system_size_kw",
	"installation_year", "solar_potential_score", "roi_percentage",
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "path to the survey CSV to validate")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*csvPath); code != 0 {
		os.Exit(code)
	}
}

func run(csvPath string) int {
	fmt.Println("=== Solar Survey Data Validation ===")
	fmt.Println()

	header, rows, err := loadCSV(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load CSV: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateSchema(header, rows),
		validateIdentity(rows),
		validateSolarConsistency(rows),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d\n", len(rows))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// row is a parsed CSV data row.
type row struct {
	lineNum int
	fields  []string
}

func loadCSV(path string) ([]string, []row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // field counts are checked in the schema phase
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("empty file: %s", path)
	}

	rows := make([]row, 0, len(all)-1)
	for i, fields := range all[1:] {
		rows = append(rows, row{lineNum: i + 2, fields: fields})
	}
	return all[0], rows, nil
}

// ── Phase 1: Schema ──
// Validates the header and that every row parses with the expected types.

func validateSchema(header []string, rows []row) *phase {
	p := &phase{name: "Phase 1: Schema (header and types)"}

	if len(header) != len(expectedHeader) {
		p.errorf("header has %d columns, expected %d", len(header), len(expectedHeader))
	} else {
		for i, want := range expectedHeader {
			if header[i] != want {
				p.errorf("header column %d: got %q, expected %q", i, header[i], want)
			}
		}
	}

	for _, r := range rows {
		if len(r.fields) != len(expectedHeader) {
			p.errorf("line %d: %d fields, expected %d", r.lineNum, len(r.fields), len(expectedHeader))
			continue
		}
		if _, err := strconv.Atoi(r.fields[0]); err != nil {
			p.errorf("line %d: property_id %q is not an integer", r.lineNum, r.fields[0])
		}
		if v := r.fields[4]; v != "true" && v != "false" {
			p.errorf("line %d: has_solar_panels %q is not a boolean", r.lineNum, v)
		}
		if _, err := strconv.Atoi(r.fields[5]); err != nil {
			p.errorf("line %d: estimated_panel_count %q is not an integer", r.lineNum, r.fields[5])
		}
		if _, err := strconv.ParseFloat(r.fields[6], 64); err != nil {
			p.errorf("line %d: system_size_kw %q is not a number", r.lineNum, r.fields[6])
		}
		if v := r.fields[7]; v != "" {
			if _, err := strconv.Atoi(v); err != nil {
				p.errorf("line %d: installation_year %q is not an integer", r.lineNum, v)
			}
		}
		if _, err := strconv.Atoi(r.fields[8]); err != nil {
			p.errorf("line %d: solar_potential_score %q is not an integer", r.lineNum, r.fields[8])
		}
		if _, err := strconv.ParseFloat(r.fields[9], 64); err != nil {
			p.errorf("line %d: roi_percentage %q is not a number", r.lineNum, r.fields[9])
		}
	}
	return p
}

// ── Phase 2: Identity ──
// Validates IDs and the always-populated fields.

func validateIdentity(rows []row) *phase {
	p := &phase{name: "Phase 2: Identity (IDs, owner, address)"}

	for i, r := range rows {
		if len(r.fields) != len(expectedHeader) {
			continue // reported in the schema phase
		}
		id, err := strconv.Atoi(r.fields[0])
		if err != nil {
			continue
		}
		if id != i+1 {
			p.errorf("line %d: property_id %d out of sequence, expected %d", r.lineNum, id, i+1)
		}
		if r.fields[1] == "" {
			p.errorf("line %d: owner_name is empty", r.lineNum)
		}
		if r.fields[2] == "" {
			p.errorf("line %d: address is empty", r.lineNum)
		}
	}
	return p
}

// ── Phase 3: Solar Consistency ──
// Validates the rules tying solar status, score, year, and ROI together.

func validateSolarConsistency(rows []row) *phase {
	p := &phase{name: "Phase 3: Solar Consistency (ranges, ROI)"}

	currentYear := time.Now().Year()
	for _, r := range rows {
		if len(r.fields) != len(expectedHeader) {
			continue
		}

		hasSolar := r.fields[4] == "true"
		panelCount, _ := strconv.Atoi(r.fields[5])
		sizeKW, _ := strconv.ParseFloat(r.fields[6], 64)
		score, _ := strconv.Atoi(r.fields[8])
		roi, _ := strconv.ParseFloat(r.fields[9], 64)

		if score < 0 || score > 100 {
			p.errorf("line %d: solar_potential_score %d outside [0, 100]", r.lineNum, score)
		}
		if panelCount < 0 {
			p.errorf("line %d: estimated_panel_count %d is negative", r.lineNum, panelCount)
		}
		if sizeKW < 0 {
			p.errorf("line %d: system_size_kw %g is negative", r.lineNum, sizeKW)
		}

		if !hasSolar {
			if panelCount != 0 {
				p.errorf("line %d: no panels but estimated_panel_count is %d", r.lineNum, panelCount)
			}
			if sizeKW != 0 {
				p.errorf("line %d: no panels but system_size_kw is %g", r.lineNum, sizeKW)
			}
			if r.fields[7] != "" {
				p.errorf("line %d: no panels but installation_year is %q", r.lineNum, r.fields[7])
			}
		}

		if y := r.fields[7]; y != "" {
			year, err := strconv.Atoi(y)
			if err == nil && (year < 2000 || year > currentYear) {
				p.errorf("line %d: installation_year %d outside [2000, %d]", r.lineNum, year, currentYear)
			}
		}

		if sizeKW <= 0 && roi != 0 {
			p.errorf("line %d: no system sized but roi_percentage is %g", r.lineNum, roi)
		}
		if sizeKW > 0 && roi <= 0 {
			p.errorf("line %d: system of %g kW but roi_percentage is %g", r.lineNum, sizeKW, roi)
		}
	}
	return p
}
