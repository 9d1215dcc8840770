package pipeline

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"datastats/internal/errors"
	"datastats/pkg/contracts/domain"
)

// LoadBatch reads one scraped batch CSV into raw listings. The header row
// names the columns; unknown columns are ignored so the scraper can grow
// its output without breaking older readers.
func LoadBatch(path string) ([]domain.RawListing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewParsingError("failed to open batch file", err).
			WithContext("path", path)
	}
	defer f.Close()

	listings, err := readBatch(f)
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func readBatch(r io.Reader) ([]domain.RawListing, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewParsingError("failed to read batch header", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"date_of_search", "scrap_number", "job_search"} {
		if _, ok := col[required]; !ok {
			return nil, errors.NewParsingError("batch header misses required column", nil).
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

	var listings []domain.RawListing
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError("failed to read batch record", err)
		}

		date, err := time.Parse("2006-01-02", field(record, "date_of_search"))
		if err != nil {
			return nil, errors.NewParsingError("failed to parse search date", err).
				WithContext("value", field(record, "date_of_search"))
		}
		scrap, err := strconv.Atoi(field(record, "scrap_number"))
		if err != nil {
			return nil, errors.NewParsingError("failed to parse scrap number", err).
				WithContext("value", field(record, "scrap_number"))
		}

		listings = append(listings, domain.RawListing{
			DateOfSearch: date,
			ScrapNumber:  scrap,
			DayOfWeek:    field(record, "day_of_week"),
			JobSearch:    field(record, "job_search"),
			JobName:      field(record, "job_name"),
			CompanyName:  field(record, "company_name"),
			CityName:     field(record, "city_name"),
			Description:  field(record, "description"),
			LowerSalary:  parseSalary(field(record, "lower_salary")),
			UpperSalary:  parseSalary(field(record, "upper_salary")),
			JobType:      field(record, "job_type"),
			Sector:       field(record, "sector"),
		})
	}
	return listings, nil
}

func parseSalary(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
