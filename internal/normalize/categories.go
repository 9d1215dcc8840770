package normalize

import "strings"

// categoryAliases folds the near-duplicate search terms the scraper runs
// into the canonical small set of job categories. This has to happen
// before any grouping keyed on job_search.
var categoryAliases = map[string]string{
	"analyste de données":         "data analyst",
	"consultant data":             "data analyst",
	"consultant bi":               "data analyst",
	"analyste bi":                 "data analyst",
	"ingénieur data":              "data engineer",
	"ingénieur de données":        "data engineer",
	"data ingénieur":              "data engineer",
	"machine learning engineer":   "ml engineer",
	"ingénieur machine learning":  "ml engineer",
	"architecte data":             "data architect",
	"manager data":                "data manager",
	"analysis engineer":           "analytics engineer",
}

// CanonicalCategory maps a raw search term to its canonical category
// label. Unknown terms pass through unchanged.
func CanonicalCategory(jobSearch string) string {
	key := strings.ToLower(strings.TrimSpace(jobSearch))
	if canonical, ok := categoryAliases[key]; ok {
		return canonical
	}
	return key
}

// NormalizeJobType trims the contract-type column and rewrites the
// scraper's generic "Contrat" marker to "Temps plein".
func NormalizeJobType(jobType string) string {
	return strings.ReplaceAll(strings.TrimSpace(jobType), "Contrat", "Temps plein")
}
