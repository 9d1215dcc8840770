package domain

import (
	"time"
)

// RawListing is one scraped job posting as delivered by the scraper CSV,
// before any cleaning. It only exists for the duration of a pipeline run.
type RawListing struct {
	DateOfSearch time.Time `json:"date_of_search" csv:"date_of_search"`
	ScrapNumber  int       `json:"scrap_number" csv:"scrap_number" validate:"min=1"`
	DayOfWeek    string    `json:"day_of_week" csv:"day_of_week"`
	JobSearch    string    `json:"job_search" csv:"job_search" validate:"required"`
	JobName      string    `json:"job_name" csv:"job_name"`
	CompanyName  string    `json:"company_name" csv:"company_name"`
	CityName     string    `json:"city_name" csv:"city_name"`
	Description  string    `json:"description" csv:"description"`
	LowerSalary  *float64  `json:"lower_salary,omitempty" csv:"lower_salary"`
	UpperSalary  *float64  `json:"upper_salary,omitempty" csv:"upper_salary"`
	JobType      string    `json:"job_type" csv:"job_type"`
	Sector       string    `json:"sector" csv:"sector"`
}

// Listing is the canonical persisted record in the jobs table.
// City and Region stay nil until the resolver (or a manual reviewer)
// settles them; salaries stay nil when the posting carried none.
type Listing struct {
	ID           int64     `json:"id" db:"id"`
	DateOfSearch time.Time `json:"date_of_search" db:"date_of_search"`
	ScrapNumber  int       `json:"scrap_number" db:"scrap_number"`
	DayOfWeek    string    `json:"day_of_week" db:"day_of_week"`
	JobSearch    string    `json:"job_search" db:"job_search"`
	JobName      string    `json:"job_name" db:"job_name"`
	CompanyName  string    `json:"company_name" db:"company_name"`
	CityName     string    `json:"city_name" db:"city_name"`
	City         *string   `json:"city,omitempty" db:"city"`
	Region       *string   `json:"region,omitempty" db:"region"`
	Technos      string    `json:"technos" db:"technos"`
	Description  string    `json:"description" db:"description"`
	LowerSalary  *int64    `json:"lower_salary,omitempty" db:"lower_salary"`
	UpperSalary  *int64    `json:"upper_salary,omitempty" db:"upper_salary"`
	JobType      string    `json:"job_type" db:"job_type"`
	Sector       string    `json:"sector" db:"sector"`
}

// Technologies splits the comma-joined technos column back into a slice.
func (l *Listing) Technologies() []string {
	return SplitTechnos(l.Technos)
}

// Occurrence is one aggregate row of the jobsoccurrences table: how many
// listings mentioned a technology on a given day, per region and search term.
type Occurrence struct {
	DateOfSearch time.Time `json:"date_of_search" db:"date_of_search"`
	DayOfWeek    string    `json:"day_of_week" db:"day_of_week"`
	Region       string    `json:"region" db:"region"`
	JobSearch    string    `json:"job_search" db:"job_search"`
	Technology   string    `json:"technologie" db:"technologie"`
	Occurrences  int       `json:"occurrences" db:"occurrences"`
}

// UnresolvedCityStatus tracks the lifecycle of a manual-review entry.
type UnresolvedCityStatus string

const (
	CityStatusToProcess UnresolvedCityStatus = "to process"
	CityStatusProcessed UnresolvedCityStatus = "processed"
)

// UnresolvedCity is a city_error queue entry: a raw location string the
// resolver could not place, waiting for a human to extend the geography table.
type UnresolvedCity struct {
	Value  string               `json:"value" db:"value"`
	Status UnresolvedCityStatus `json:"status" db:"status"`
}

// MaintenanceStatus is the value of the single-row maintenance gate.
type MaintenanceStatus string

const (
	MaintenanceAvailable MaintenanceStatus = "available"
	MaintenanceActive    MaintenanceStatus = "maintenance"
)

// Reporting run-outcome markers shared by the scraper, the pipeline and the
// city reviewer. "waiting" is the seeded value before any run touches the row.
const (
	RunStatusWaiting = "waiting"
	RunStatusSuccess = "success"
	RunStatusFailed  = "failed"
)

// ReportingRow is one row of the reporting table, keyed by
// (reporting_date, scrap_number).
type ReportingRow struct {
	ReportingDate time.Time `json:"reporting_date" db:"reporting_date"`
	ScrapNumber   int       `json:"scrap_number" db:"scrap_number"`
	JobCount      int       `json:"job_count" db:"job_count"`
	SuccessScrap  int       `json:"success_scrap" db:"success_scrap"`
	Duration      string    `json:"duration" db:"duration"`
	ScrapStatus   string    `json:"scrap_status" db:"scrap_status"`
	Occurrences   int       `json:"occurrences" db:"occurrences"`
	DailyJobScrap int       `json:"daily_job_scrap" db:"daily_job_scrap"`
	LambdaStatus  string    `json:"lambda_status" db:"lambda_status"`
	CitiesToAdd   string    `json:"cities_to_add" db:"cities_to_add"`
}

// Names of the text-encoded collections stored in the lists table.
const (
	ListTechnoList = "techno_list"
	ListMiniList   = "mini_list"
	ListCleanList  = "clean_list"
)
