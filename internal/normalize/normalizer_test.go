package normalize

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datastats/internal/geo"
	"datastats/pkg/contracts/domain"
)

func float(v float64) *float64 { return &v }

func TestRepairSalary(t *testing.T) {
	tests := []struct {
		name string
		raw  *float64
		want *int64
	}{
		{"two digit shorthand scaled", float(60.0), int64Ptr(60000)},
		{"four digit unchanged", float(4500.0), int64Ptr(4500)},
		{"missing stays nil", nil, nil},
		{"NaN stays nil", float(math.NaN()), nil},
		{"zero never leaks", float(0), nil},
		{"single digit unchanged", float(9), int64Ptr(9)},
		{"three digit unchanged", float(120), int64Ptr(120)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RepairSalary(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func int64Ptr(v int64) *int64 { return &v }

func TestTextHelpers(t *testing.T) {
	assert.Equal(t, "Auvergne-Rhône-Alpes", TitleCase("auvergne-rhône-alpes"))
	assert.Equal(t, "Data Analyst", TitleCase("data analyst"))
	assert.Equal(t, "Data engineer role", Capitalize("data Engineer ROLE"))
	assert.Equal(t, "", Capitalize("   "))
	assert.Equal(t, "ML Engineer", FixAcronyms(TitleCase("ml engineer")))
	assert.Equal(t, "one line", StripNewlines("one\n line"))
}

func TestCanonicalCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"analyste de données", "data analyst"},
		{"consultant bi", "data analyst"},
		{"ingénieur de données", "data engineer"},
		{"machine learning engineer", "ml engineer"},
		{"analysis engineer", "analytics engineer"},
		{"data scientist", "data scientist"}, // unknown passes through
		{"  Data Analyst  ", "data analyst"}, // idempotent on canonical
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalCategory(tt.in), tt.in)
	}
}

func TestNormalizeJobType(t *testing.T) {
	assert.Equal(t, "Temps plein", NormalizeJobType("  Contrat "))
	assert.Equal(t, "CDI", NormalizeJobType("CDI"))
}

func TestNormalizer_Clean(t *testing.T) {
	n := NewNormalizer(nil)

	raw := domain.RawListing{
		DateOfSearch: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		ScrapNumber:  2,
		DayOfWeek:    "monday",
		JobSearch:    "ingénieur machine learning",
		JobName:      "ml engineer senior",
		CompanyName:  "ACME CORP",
		CityName:     "greater lyon",
		Description:  "Python\nand AWS stack",
		LowerSalary:  float(45),
		UpperSalary:  float(60000),
		JobType:      "Contrat",
		Sector:       "tech",
	}
	res := &geo.Resolution{City: "lyon", Region: "auvergne-rhône-alpes"}

	l := n.Clean(raw, res, "AWS, Python")

	assert.Equal(t, "Monday", l.DayOfWeek)
	assert.Equal(t, "ML Engineer", l.JobSearch)
	assert.Equal(t, "Ml engineer senior", l.JobName)
	assert.Equal(t, "Acme corp", l.CompanyName)
	assert.Equal(t, "Greater lyon", l.CityName)
	require.NotNil(t, l.City)
	require.NotNil(t, l.Region)
	assert.Equal(t, "Lyon", *l.City)
	assert.Equal(t, "Auvergne-Rhône-Alpes", *l.Region)
	assert.Equal(t, "AWS, Python", l.Technos)
	assert.Equal(t, "Pythonand AWS stack", l.Description)
	require.NotNil(t, l.LowerSalary)
	require.NotNil(t, l.UpperSalary)
	assert.Equal(t, int64(45000), *l.LowerSalary)
	assert.Equal(t, int64(60000), *l.UpperSalary)
	assert.Equal(t, "Temps plein", l.JobType)
	assert.Equal(t, "Tech", l.Sector)
}

func TestNormalizer_CleanUnresolvedCityKeepsNullGeography(t *testing.T) {
	n := NewNormalizer(nil)

	l := n.Clean(domain.RawListing{CityName: "atlantis"}, nil, "Python")

	assert.Nil(t, l.City)
	assert.Nil(t, l.Region)
}

func TestNormalizer_CleanIsIdempotent(t *testing.T) {
	n := NewNormalizer(nil)

	raw := domain.RawListing{
		DateOfSearch: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		ScrapNumber:  1,
		DayOfWeek:    "monday",
		JobSearch:    "analyste de données",
		JobName:      "data analyst",
		CompanyName:  "acme",
		CityName:     "lyon",
		Description:  "Python",
		JobType:      "CDI",
		Sector:       "tech",
	}
	res := &geo.Resolution{City: "lyon", Region: "auvergne-rhône-alpes"}

	once := n.Clean(raw, res, "Python")

	// Re-clean the cleaned record: every transformation must be a no-op.
	again := n.Clean(domain.RawListing{
		DateOfSearch: once.DateOfSearch,
		ScrapNumber:  once.ScrapNumber,
		DayOfWeek:    once.DayOfWeek,
		JobSearch:    once.JobSearch,
		JobName:      once.JobName,
		CompanyName:  once.CompanyName,
		CityName:     once.CityName,
		Description:  once.Description,
		JobType:      once.JobType,
		Sector:       once.Sector,
	}, &geo.Resolution{City: *once.City, Region: *once.Region}, once.Technos)

	assert.Equal(t, once.DayOfWeek, again.DayOfWeek)
	assert.Equal(t, once.JobSearch, again.JobSearch)
	assert.Equal(t, once.JobName, again.JobName)
	assert.Equal(t, once.CompanyName, again.CompanyName)
	assert.Equal(t, once.CityName, again.CityName)
	assert.Equal(t, *once.City, *again.City)
	assert.Equal(t, *once.Region, *again.Region)
	assert.Equal(t, once.Technos, again.Technos)
}

func TestDeduplicateMonthly(t *testing.T) {
	march := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	marchLater := time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)

	mk := func(id int64, date time.Time, job, company, city string) domain.Listing {
		return domain.Listing{ID: id, DateOfSearch: date, JobName: job, CompanyName: company, CityName: city}
	}

	listings := []domain.Listing{
		mk(5, march, "Data analyst", "Acme", "Lyon"),
		mk(9, marchLater, "Data analyst", "Acme", "Lyon"),
		mk(2, march, "Data analyst", "Acme", "Lyon"),
		mk(3, march, "Data analyst", "Acme", "Paris"),   // different city survives
		mk(4, april, "Data analyst", "Acme", "Lyon"),    // different month survives
		mk(6, march, "Data engineer", "Acme", "Lyon"),   // different title survives
	}

	got := DeduplicateMonthly(listings)

	ids := make([]int64, 0, len(got))
	for _, l := range got {
		ids = append(ids, l.ID)
	}
	assert.ElementsMatch(t, []int64{2, 3, 4, 6}, ids)
}
