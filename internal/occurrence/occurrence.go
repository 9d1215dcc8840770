// Package occurrence builds the per-technology aggregate rows backing the
// jobsoccurrences table: the technos column of each listing is exploded
// into one row per technology, then grouped and summed per
// (date, weekday, region, job_search, technology).
package occurrence

import (
	"sort"
	"time"

	"datastats/pkg/contracts/domain"
)

type key struct {
	date       time.Time
	dayOfWeek  string
	region     string
	jobSearch  string
	technology string
}

// Aggregate explodes the listings' technology lists and counts mentions
// per (date, weekday, region, job_search, technology). Listings with
// unresolved geography carry no region and are left out, mirroring how a
// grouped aggregate drops null keys.
func Aggregate(listings []domain.Listing) []domain.Occurrence {
	counts := make(map[key]int)

	for _, l := range listings {
		if l.Region == nil {
			continue
		}
		for _, tech := range l.Technologies() {
			counts[key{
				date:       dateOnly(l.DateOfSearch),
				dayOfWeek:  l.DayOfWeek,
				region:     *l.Region,
				jobSearch:  l.JobSearch,
				technology: tech,
			}]++
		}
	}

	return toRows(counts)
}

// MergeSameDay re-sums an existing same-day aggregate with a fresh batch.
// Re-running any intraday scrap always converges on one consistent row
// set per tuple, never two partial rows.
func MergeSameDay(existing, fresh []domain.Occurrence) []domain.Occurrence {
	counts := make(map[key]int, len(existing)+len(fresh))

	for _, rows := range [][]domain.Occurrence{existing, fresh} {
		for _, o := range rows {
			counts[key{
				date:       dateOnly(o.DateOfSearch),
				dayOfWeek:  o.DayOfWeek,
				region:     o.Region,
				jobSearch:  o.JobSearch,
				technology: o.Technology,
			}] += o.Occurrences
		}
	}

	return toRows(counts)
}

// Total sums the occurrence counts of a row set, used for run reporting.
func Total(rows []domain.Occurrence) int {
	total := 0
	for _, o := range rows {
		total += o.Occurrences
	}
	return total
}

func toRows(counts map[key]int) []domain.Occurrence {
	rows := make([]domain.Occurrence, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, domain.Occurrence{
			DateOfSearch: k.date,
			DayOfWeek:    k.dayOfWeek,
			Region:       k.region,
			JobSearch:    k.jobSearch,
			Technology:   k.technology,
			Occurrences:  n,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.DateOfSearch.Equal(b.DateOfSearch) {
			return a.DateOfSearch.Before(b.DateOfSearch)
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.JobSearch != b.JobSearch {
			return a.JobSearch < b.JobSearch
		}
		return a.Technology < b.Technology
	})
	return rows
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
