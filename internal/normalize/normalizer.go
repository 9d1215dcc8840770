package normalize

import (
	"log/slog"

	"datastats/internal/geo"
	"datastats/pkg/contracts/domain"
)

// Normalizer turns a raw scraped listing plus its resolved geography and
// extracted technologies into the canonical persisted record. All of its
// transformations are idempotent: cleaning an already-clean record is a
// no-op.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a record normalizer.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Clean builds the canonical Listing. res is nil when the city resolver
// exhausted every tier; the listing keeps null geography and is flagged
// for manual review elsewhere.
func (n *Normalizer) Clean(raw domain.RawListing, res *geo.Resolution, technos string) domain.Listing {
	l := domain.Listing{
		DateOfSearch: raw.DateOfSearch,
		ScrapNumber:  raw.ScrapNumber,
		DayOfWeek:    Capitalize(raw.DayOfWeek),
		JobSearch:    FixAcronyms(TitleCase(CanonicalCategory(raw.JobSearch))),
		JobName:      Capitalize(raw.JobName),
		CompanyName:  Capitalize(raw.CompanyName),
		CityName:     Capitalize(raw.CityName),
		Technos:      technos,
		Description:  StripNewlines(raw.Description),
		LowerSalary:  RepairSalary(raw.LowerSalary),
		UpperSalary:  RepairSalary(raw.UpperSalary),
		JobType:      NormalizeJobType(raw.JobType),
		Sector:       Capitalize(raw.Sector),
	}

	if res != nil {
		city := TitleCase(res.City)
		region := TitleCase(res.Region)
		l.City = &city
		l.Region = &region
	}

	return l
}

// DeduplicateMonthly keeps, per (month, job_name, company_name, city_name)
// group, only the listing with the lowest id: one active posting per
// employer, role and city per month, reposts inside the month are noise.
// Input order is preserved for the survivors.
func DeduplicateMonthly(listings []domain.Listing) []domain.Listing {
	type groupKey struct {
		year    int
		month   int
		job     string
		company string
		city    string
	}

	minID := make(map[groupKey]int64, len(listings))
	for _, l := range listings {
		k := groupKey{
			year:    l.DateOfSearch.Year(),
			month:   int(l.DateOfSearch.Month()),
			job:     l.JobName,
			company: l.CompanyName,
			city:    l.CityName,
		}
		if id, ok := minID[k]; !ok || l.ID < id {
			minID[k] = l.ID
		}
	}

	out := make([]domain.Listing, 0, len(minID))
	for _, l := range listings {
		k := groupKey{
			year:    l.DateOfSearch.Year(),
			month:   int(l.DateOfSearch.Month()),
			job:     l.JobName,
			company: l.CompanyName,
			city:    l.CityName,
		}
		if minID[k] == l.ID {
			out = append(out, l)
		}
	}
	return out
}
