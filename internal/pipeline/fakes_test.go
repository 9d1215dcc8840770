package pipeline

import (
	"context"
	"strings"
	"time"

	"datastats/internal/store"
	"datastats/pkg/contracts/domain"
)

// In-memory stand-ins for the store repositories. They keep the same
// observable behavior the SQL implementations have, just without a
// database underneath.

type fakeJobs struct {
	live   []domain.Listing
	staged []domain.Listing
	nextID int64

	stageErr error
	swapped  bool
}

func (f *fakeJobs) InsertBatch(_ context.Context, listings []domain.Listing) error {
	for _, l := range listings {
		f.nextID++
		l.ID = f.nextID
		f.live = append(f.live, l)
	}
	return nil
}

func (f *fakeJobs) DeleteMonthlyDuplicates(_ context.Context, date time.Time) (int64, error) {
	type key struct {
		year    int
		month   time.Month
		job     string
		company string
		city    string
	}
	min := make(map[key]int64)
	for _, l := range f.live {
		if l.DateOfSearch.Year() != date.Year() || l.DateOfSearch.Month() != date.Month() {
			continue
		}
		k := key{l.DateOfSearch.Year(), l.DateOfSearch.Month(), l.JobName, l.CompanyName, l.CityName}
		if id, ok := min[k]; !ok || l.ID < id {
			min[k] = l.ID
		}
	}

	var kept []domain.Listing
	var removed int64
	for _, l := range f.live {
		k := key{l.DateOfSearch.Year(), l.DateOfSearch.Month(), l.JobName, l.CompanyName, l.CityName}
		if id, ok := min[k]; ok && l.ID != id {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	f.live = kept
	return removed, nil
}

func (f *fakeJobs) FetchDay(_ context.Context, date time.Time, scrapNumber int) ([]domain.Listing, error) {
	var out []domain.Listing
	for _, l := range f.live {
		if l.DateOfSearch.Equal(date) && l.ScrapNumber == scrapNumber {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeJobs) FetchAll(_ context.Context) ([]domain.Listing, error) {
	return append([]domain.Listing(nil), f.live...), nil
}

func (f *fakeJobs) UpdateGeography(_ context.Context, rawCity, city, region string) (int64, error) {
	var rows int64
	for i := range f.live {
		if f.live[i].City != nil {
			continue
		}
		if !strings.EqualFold(f.live[i].CityName, rawCity) {
			continue
		}
		c, r := city, region
		f.live[i].City = &c
		f.live[i].Region = &r
		rows++
	}
	return rows, nil
}

func (f *fakeJobs) StageReplacement(_ context.Context, listings []domain.Listing) error {
	if f.stageErr != nil {
		return f.stageErr
	}
	f.staged = append([]domain.Listing(nil), listings...)
	return nil
}

func (f *fakeJobs) DeleteStagedWithoutTechnos(_ context.Context) (int64, error) {
	var kept []domain.Listing
	var removed int64
	for _, l := range f.staged {
		if l.Technos == "" {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	f.staged = kept
	return removed, nil
}

func (f *fakeJobs) SwapStaging(_ context.Context) error {
	f.live = f.staged
	f.staged = nil
	f.swapped = true
	return nil
}

type fakeOccurrences struct {
	live     []domain.Occurrence
	staged   []domain.Occurrence
	stageErr error
	swapped  bool
}

func (f *fakeOccurrences) FetchDay(_ context.Context, date time.Time) ([]domain.Occurrence, error) {
	var out []domain.Occurrence
	for _, o := range f.live {
		if o.DateOfSearch.Equal(date) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOccurrences) DeleteDay(_ context.Context, date time.Time) error {
	var kept []domain.Occurrence
	for _, o := range f.live {
		if !o.DateOfSearch.Equal(date) {
			kept = append(kept, o)
		}
	}
	f.live = kept
	return nil
}

func (f *fakeOccurrences) InsertBatch(_ context.Context, occurrences []domain.Occurrence) error {
	f.live = append(f.live, occurrences...)
	return nil
}

func (f *fakeOccurrences) StageReplacement(_ context.Context, occurrences []domain.Occurrence) error {
	if f.stageErr != nil {
		return f.stageErr
	}
	f.staged = append([]domain.Occurrence(nil), occurrences...)
	return nil
}

func (f *fakeOccurrences) SwapStaging(_ context.Context) error {
	f.live = f.staged
	f.staged = nil
	f.swapped = true
	return nil
}

type fakeCityErrors struct {
	entries []domain.UnresolvedCity
}

func (f *fakeCityErrors) InsertToProcess(_ context.Context, values []string) (int64, error) {
	seen := make(map[string]struct{}, len(f.entries))
	for _, e := range f.entries {
		seen[e.Value] = struct{}{}
	}
	var added int64
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		f.entries = append(f.entries, domain.UnresolvedCity{Value: v, Status: domain.CityStatusToProcess})
		added++
	}
	return added, nil
}

func (f *fakeCityErrors) FetchValues(_ context.Context, status domain.UnresolvedCityStatus) ([]string, error) {
	var out []string
	for _, e := range f.entries {
		if e.Status == status {
			out = append(out, e.Value)
		}
	}
	return out, nil
}

func (f *fakeCityErrors) MarkProcessed(_ context.Context, values []string) error {
	for _, v := range values {
		for i := range f.entries {
			if f.entries[i].Value == v {
				f.entries[i].Status = domain.CityStatusProcessed
			}
		}
	}
	return nil
}

func (f *fakeCityErrors) RebuildDeduplicated(_ context.Context) error {
	byValue := make(map[string]domain.UnresolvedCityStatus)
	var order []string
	for _, e := range f.entries {
		if _, ok := byValue[e.Value]; !ok {
			order = append(order, e.Value)
			byValue[e.Value] = e.Status
			continue
		}
		if e.Status == domain.CityStatusProcessed {
			byValue[e.Value] = e.Status
		}
	}
	f.entries = f.entries[:0]
	for _, v := range order {
		f.entries = append(f.entries, domain.UnresolvedCity{Value: v, Status: byValue[v]})
	}
	return nil
}

type fakeLists struct {
	values map[string]string
}

func (f *fakeLists) Get(_ context.Context, name string) (string, error) {
	return f.values[name], nil
}

type fakeGate struct {
	status  domain.MaintenanceStatus
	history []domain.MaintenanceStatus
	waitErr error
}

func (f *fakeGate) Set(_ context.Context, status domain.MaintenanceStatus) error {
	f.status = status
	f.history = append(f.history, status)
	return nil
}

func (f *fakeGate) WaitUntilAvailable(_ context.Context, _ store.WaitConfig) error {
	return f.waitErr
}

type reportingUpdate struct {
	scrapNumber   int
	jobCount      int
	occurrences   int
	dailyJobScrap int
}

type fakeReporting struct {
	seeded      map[string]int
	updates     []reportingUpdate
	failures    []int
	citiesToAdd *bool
}

func (f *fakeReporting) SeedDay(_ context.Context, date time.Time, scrapsPerDay int) error {
	if f.seeded == nil {
		f.seeded = make(map[string]int)
	}
	key := date.Format("2006-01-02")
	if _, ok := f.seeded[key]; !ok {
		f.seeded[key] = scrapsPerDay
	}
	return nil
}

func (f *fakeReporting) UpdateIngestOutcome(_ context.Context, _ time.Time, scrapNumber, jobCount, occurrences, dailyJobScrap int) error {
	f.updates = append(f.updates, reportingUpdate{scrapNumber, jobCount, occurrences, dailyJobScrap})
	return nil
}

func (f *fakeReporting) MarkFailure(_ context.Context, _ time.Time, scrapNumber int) error {
	f.failures = append(f.failures, scrapNumber)
	return nil
}

func (f *fakeReporting) UpdateCitiesToAdd(_ context.Context, _ time.Time, citiesQueued bool) error {
	f.citiesToAdd = &citiesQueued
	return nil
}
