package occurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datastats/pkg/contracts/domain"
)

var day = time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

func listing(region, jobSearch, technos string) domain.Listing {
	l := domain.Listing{
		DateOfSearch: day,
		DayOfWeek:    "Monday",
		JobSearch:    jobSearch,
		Technos:      technos,
	}
	if region != "" {
		l.Region = &region
	}
	return l
}

func TestAggregate(t *testing.T) {
	listings := []domain.Listing{
		listing("Île-De-France", "Data Analyst", "AWS, Python"),
		listing("Île-De-France", "Data Analyst", "AWS"),
		listing("Île-De-France", "Data Engineer", "AWS"),
		listing("Auvergne-Rhône-Alpes", "Data Analyst", "Python"),
	}

	rows := Aggregate(listings)

	require.Len(t, rows, 4)
	assert.Equal(t, domain.Occurrence{
		DateOfSearch: day, DayOfWeek: "Monday", Region: "Auvergne-Rhône-Alpes",
		JobSearch: "Data Analyst", Technology: "Python", Occurrences: 1,
	}, rows[0])
	assert.Equal(t, domain.Occurrence{
		DateOfSearch: day, DayOfWeek: "Monday", Region: "Île-De-France",
		JobSearch: "Data Analyst", Technology: "AWS", Occurrences: 2,
	}, rows[1])
	assert.Equal(t, "Python", rows[2].Technology)
	assert.Equal(t, 1, rows[2].Occurrences)
	assert.Equal(t, "Data Engineer", rows[3].JobSearch)
}

func TestAggregate_SkipsUnresolvedRegion(t *testing.T) {
	rows := Aggregate([]domain.Listing{
		listing("", "Data Analyst", "AWS"),
		listing("Bretagne", "Data Analyst", "AWS"),
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "Bretagne", rows[0].Region)
}

func TestMergeSameDay(t *testing.T) {
	existing := []domain.Occurrence{
		{DateOfSearch: day, DayOfWeek: "Monday", Region: "Bretagne", JobSearch: "Data Analyst", Technology: "AWS", Occurrences: 3},
	}
	fresh := []domain.Occurrence{
		{DateOfSearch: day, DayOfWeek: "Monday", Region: "Bretagne", JobSearch: "Data Analyst", Technology: "AWS", Occurrences: 2},
		{DateOfSearch: day, DayOfWeek: "Monday", Region: "Bretagne", JobSearch: "Data Analyst", Technology: "Python", Occurrences: 1},
	}

	merged := MergeSameDay(existing, fresh)

	require.Len(t, merged, 2)
	assert.Equal(t, "AWS", merged[0].Technology)
	assert.Equal(t, 5, merged[0].Occurrences) // 3 + 2, one row, not two
	assert.Equal(t, "Python", merged[1].Technology)
	assert.Equal(t, 1, merged[1].Occurrences)

	assert.Equal(t, 6, Total(merged))
}

func TestMergeSameDay_EmptyExisting(t *testing.T) {
	fresh := []domain.Occurrence{
		{DateOfSearch: day, Region: "Bretagne", JobSearch: "Data Analyst", Technology: "AWS", Occurrences: 2},
	}

	merged := MergeSameDay(nil, fresh)
	require.Len(t, merged, 1)
	assert.Equal(t, 2, merged[0].Occurrences)
}
