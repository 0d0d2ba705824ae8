package accidents

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// Column headers expected in the dataset export.
const (
	colLatitude      = "Latitude"
	colLongitude     = "Longitude"
	colRiskScore     = "Risk_Score"
	colCity          = "City"
	colRoadCondition = "Road_Condition"
	colWeather       = "Weather"
	colSeverity      = "Severity"
	colCasualties    = "Total_Casualties"
	colFatalities    = "Fatalities"
	colSerious       = "Serious_Injuries"
	colMinor         = "Minor_Injuries"
)

// CSVRepository loads the accident dataset from a CSV export once at
// construction and serves it from memory. Rows with unparseable coordinates
// are dropped rather than failing the load; their count is exposed for the
// startup log.
type CSVRepository struct {
	records []Record
	dropped int
}

// NewCSVRepository reads and parses the dataset at path. Missing required
// columns or an empty dataset are startup errors.
func NewCSVRepository(path string) (*CSVRepository, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("opening accident dataset: %w", err)
	}
	defer f.Close()

	repo, err := parseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parsing accident dataset %s: %w", path, err)
	}
	return repo, nil
}

func parseCSV(r io.Reader) (*CSVRepository, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range []string{colLatitude, colLongitude, colRiskScore, colCity, colRoadCondition} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	repo := &CSVRepository{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		rec, ok := parseRow(row, cols)
		if !ok {
			repo.dropped++
			continue
		}
		repo.records = append(repo.records, rec)
	}

	if len(repo.records) == 0 {
		return nil, ErrNoRecords
	}
	return repo, nil
}

func parseRow(row []string, cols map[string]int) (Record, bool) {
	lat, ok1 := parseFloat(row, cols, colLatitude)
	lon, ok2 := parseFloat(row, cols, colLongitude)
	if !ok1 || !ok2 {
		return Record{}, false
	}

	// Risk score defaults to 0 when absent; coordinates are the only
	// fields a record is useless without.
	score, _ := parseFloat(row, cols, colRiskScore)

	return Record{
		Latitude:        lat,
		Longitude:       lon,
		RiskScore:       score,
		City:            field(row, cols, colCity),
		RoadCondition:   field(row, cols, colRoadCondition),
		Weather:         field(row, cols, colWeather),
		Severity:        field(row, cols, colSeverity),
		TotalCasualties: parseInt(row, cols, colCasualties),
		Fatalities:      parseInt(row, cols, colFatalities),
		SeriousInjuries: parseInt(row, cols, colSerious),
		MinorInjuries:   parseInt(row, cols, colMinor),
	}, true
}

func field(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseFloat(row []string, cols map[string]int, name string) (float64, bool) {
	v, err := strconv.ParseFloat(field(row, cols, name), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseInt(row []string, cols map[string]int, name string) int {
	v, err := strconv.Atoi(field(row, cols, name))
	if err != nil {
		return 0
	}
	return v
}

// All returns every record in the dataset.
func (r *CSVRepository) All(_ context.Context) ([]Record, error) {
	return r.records, nil
}

// ByCity returns the records labeled with the given city.
func (r *CSVRepository) ByCity(_ context.Context, city string) ([]Record, error) {
	var out []Record
	for _, rec := range r.records {
		if rec.City == city {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Count returns the dataset size.
func (r *CSVRepository) Count(_ context.Context) (int, error) {
	return len(r.records), nil
}

// Dropped returns how many rows were discarded during parsing.
func (r *CSVRepository) Dropped() int {
	return r.dropped
}

// Ensure CSVRepository implements Repository interface.
var _ Repository = (*CSVRepository)(nil)
