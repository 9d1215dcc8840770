package geo

import (
	"log/slog"
	"strings"
)

// Resolution is a settled (city, region) pair for a listing.
type Resolution struct {
	City   string
	Region string
}

// boilerplate fragments stripped from scraped location strings before any
// lookup. Order matters: "île-de-france" has to rewrite before the bare
// "france" rule fires.
var cityReplacements = []struct{ old, new string }{
	{"greater", ""},
	{"metropolitan", ""},
	{"area", ""},
	{"region", ""},
	{", france", ""},
	{" et périphérie", ""},
	{"ville de", ""},
	{"île-de-france", "paris"},
	{"france", "paris"},
	{"la défense", "puteaux"},
}

// CleanCityText normalizes a raw scraped location string down to a bare
// candidate city name: first comma segment, lower case, boilerplate removed.
func CleanCityText(raw string) string {
	s := strings.ToLower(raw)
	if i := strings.Index(s, ","); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	for _, r := range cityReplacements {
		s = strings.ReplaceAll(s, r.old, r.new)
	}
	return strings.TrimSpace(s)
}

// Resolver maps noisy free-text locations to a canonical (city, region)
// through a fixed fallback chain. Each tier is a pure lookup tried in
// order; later tiers only run because the earlier ones failed.
type Resolver struct {
	table  *Table
	logger *slog.Logger
	tiers  []tier
}

type tier struct {
	name    string
	resolve func(raw, cleaned string) (Resolution, bool)
}

// NewResolver creates a resolver over a loaded geography table.
func NewResolver(table *Table, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Resolver{table: table, logger: logger}
	r.tiers = []tier{
		{"direct", r.directMatch},
		{"department", r.departmentMatch},
		{"region", r.regionMatch},
		{"manual", r.manualMatch},
	}
	return r
}

// Resolve runs the fallback chain for one raw location string. The second
// return value is false when every tier failed; the caller records the raw
// value for manual review and keeps the listing with null geography.
func (r *Resolver) Resolve(rawCity string) (Resolution, bool) {
	cleaned := CleanCityText(rawCity)

	for _, t := range r.tiers {
		if res, ok := t.resolve(rawCity, cleaned); ok {
			r.logger.Debug("city resolved",
				slog.String("raw_city", rawCity),
				slog.String("tier", t.name),
				slog.String("city", res.City),
				slog.String("region", res.Region))
			return res, true
		}
	}

	r.logger.Debug("city unresolved", slog.String("raw_city", rawCity))
	return Resolution{}, false
}

// directMatch looks the cleaned text up as a city name.
func (r *Resolver) directMatch(_, cleaned string) (Resolution, bool) {
	e, ok := r.table.byCity[cleaned]
	if !ok {
		return Resolution{}, false
	}
	return Resolution{City: e.City, Region: e.Region}, true
}

// departmentMatch treats the input as a department name. The scraped text
// is discarded in favor of the region capital: it named an administrative
// area, not a city.
func (r *Resolver) departmentMatch(_, cleaned string) (Resolution, bool) {
	region, ok := r.table.regionByDepartment[cleaned]
	if !ok {
		return Resolution{}, false
	}
	return r.regionWithCapital(region)
}

// regionMatch treats the input as a region name directly.
func (r *Resolver) regionMatch(_, cleaned string) (Resolution, bool) {
	region, ok := r.table.regionByName[cleaned]
	if !ok {
		return Resolution{}, false
	}
	return r.regionWithCapital(region)
}

// manualMatch joins the ORIGINAL raw text against the curated manual_city
// overrides. Irregular spellings like "La Défense" live there with the
// full scraped form, so the cleaned candidate is not used.
func (r *Resolver) manualMatch(raw, _ string) (Resolution, bool) {
	e, ok := r.table.byManualCity[fold(raw)]
	if !ok {
		return Resolution{}, false
	}
	return Resolution{City: e.City, Region: e.Region}, true
}

func (r *Resolver) regionWithCapital(region string) (Resolution, bool) {
	capital, ok := r.table.capitalByRegion[fold(region)]
	if !ok {
		return Resolution{}, false
	}
	return Resolution{City: capital, Region: region}, true
}
