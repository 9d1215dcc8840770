package geo

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"datastats/internal/errors"
)

// Entry is one row of the geography reference table: a city and the
// administrative layers above it, plus an optional manual_city override
// spelling curated by the reviewer.
type Entry struct {
	City              string
	Region            string
	RegionCapital     string
	Department        string
	DepartmentCapital string
	ManualCity        string
}

// Table is the geography reference loaded once per pipeline run. All
// lookups are case-insensitive; keys are folded to lower case on build.
type Table struct {
	byCity             map[string]Entry
	regionByDepartment map[string]string
	capitalByRegion    map[string]string
	regionByName       map[string]string
	byManualCity       map[string]Entry
}

// NewTable builds the lookup indexes from reference entries. Duplicate
// manual_city values are dropped keep-first, otherwise a single override
// spelling would match several rows and multiply listings on join.
func NewTable(entries []Entry) *Table {
	t := &Table{
		byCity:             make(map[string]Entry, len(entries)),
		regionByDepartment: make(map[string]string),
		capitalByRegion:    make(map[string]string),
		regionByName:       make(map[string]string),
		byManualCity:       make(map[string]Entry),
	}

	for _, e := range entries {
		if city := fold(e.City); city != "" {
			if _, ok := t.byCity[city]; !ok {
				t.byCity[city] = e
			}
		}
		if dep := fold(e.Department); dep != "" {
			if _, ok := t.regionByDepartment[dep]; !ok {
				t.regionByDepartment[dep] = e.Region
			}
		}
		if region := fold(e.Region); region != "" {
			if _, ok := t.regionByName[region]; !ok {
				t.regionByName[region] = e.Region
			}
			if _, ok := t.capitalByRegion[region]; !ok && e.RegionCapital != "" {
				t.capitalByRegion[region] = e.RegionCapital
			}
		}
		if manual := fold(e.ManualCity); manual != "" {
			if _, ok := t.byManualCity[manual]; !ok {
				t.byManualCity[manual] = e
			}
		}
	}

	return t
}

// LoadTable reads the geography reference CSV. Expected header:
// city,region,region_capital,department,department_capital,manual_city.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open geography file", err).
			WithContext("path", path)
	}
	defer f.Close()

	entries, err := readEntries(f)
	if err != nil {
		return nil, err
	}
	return NewTable(entries), nil
}

func readEntries(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewParsingError("failed to read geography header", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"city", "region"} {
		if _, ok := col[required]; !ok {
			return nil, errors.NewParsingError("geography file missing column", nil).
				WithContext("column", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var entries []Entry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError("failed to read geography row", err)
		}
		entries = append(entries, Entry{
			City:              field(record, "city"),
			Region:            field(record, "region"),
			RegionCapital:     field(record, "region_capital"),
			Department:        field(record, "department"),
			DepartmentCapital: field(record, "department_capital"),
			ManualCity:        field(record, "manual_city"),
		})
	}
	return entries, nil
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
