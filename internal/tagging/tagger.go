package tagging

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"datastats/pkg/contracts/domain"
)

// Tagger extracts technology mentions from listing descriptions and folds
// alias spellings into one canonical name per technology.
//
// Long names (techno_list, 5+ characters) are matched as substrings of the
// description with its whitespace removed, so "Apache  Spark" split by
// layout noise still matches "ApacheSpark". Short names (mini_list, 4
// characters or fewer, like "Go" or "R") would drown in false positives
// that way; they only match as standalone whitespace-bounded tokens.
type Tagger struct {
	fullNames []string
	shortTags []shortTag
	canonical map[string]string
	logger    *slog.Logger
}

type shortTag struct {
	name    string
	pattern *regexp.Regexp
}

// NewTagger builds a tagger from the three stored lists. cleanList maps
// canonical name to its known alias spellings.
func NewTagger(fullNames, shortNames []string, cleanList map[string][]string, logger *slog.Logger) *Tagger {
	if logger == nil {
		logger = slog.Default()
	}

	t := &Tagger{
		fullNames: fullNames,
		shortTags: make([]shortTag, 0, len(shortNames)),
		canonical: make(map[string]string),
		logger:    logger,
	}

	for _, name := range shortNames {
		// QuoteMeta keeps names like "C++" from breaking the pattern.
		pattern := regexp.MustCompile(`(?:^|\s)` + regexp.QuoteMeta(name) + `(?:\s|$)`)
		t.shortTags = append(t.shortTags, shortTag{name: name, pattern: pattern})
	}

	for canonicalName, aliases := range cleanList {
		for _, alias := range aliases {
			t.canonical[alias] = canonicalName
		}
	}

	return t
}

// Extract returns the deduplicated canonical technology names mentioned in
// the description, sorted for stable output. An empty result means the
// listing is unusable for the dataset and gets dropped by the caller.
func (t *Tagger) Extract(description string) []string {
	compact := stripWhitespace(description)

	found := make(map[string]struct{})
	for _, name := range t.fullNames {
		// The name is compacted the same way as the description, so a
		// multi-word entry like "Amazon Web Services" still matches.
		if strings.Contains(compact, stripWhitespace(name)) {
			found[t.Canonical(name)] = struct{}{}
		}
	}
	for _, tag := range t.shortTags {
		if tag.pattern.MatchString(description) {
			found[t.Canonical(tag.name)] = struct{}{}
		}
	}

	if len(found) == 0 {
		return nil
	}

	out := make([]string, 0, len(found))
	for name := range found {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ExtractJoined is Extract in the comma-joined storage form of the
// jobs.technos column.
func (t *Tagger) ExtractJoined(description string) string {
	return domain.JoinTechnos(t.Extract(description))
}

// Canonical rewrites a single extracted name to its canonical spelling,
// or returns it unchanged when no alias list mentions it.
func (t *Tagger) Canonical(name string) string {
	if canonicalName, ok := t.canonical[name]; ok {
		return canonicalName
	}
	return name
}

// CanonicalizeJoined re-runs alias folding and deduplication over an
// already-joined technos value, used when re-tagging persisted rows.
func (t *Tagger) CanonicalizeJoined(technos string) string {
	names := domain.SplitTechnos(technos)
	if len(names) == 0 {
		return ""
	}

	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		c := t.Canonical(name)
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return domain.JoinTechnos(out)
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
