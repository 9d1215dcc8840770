package tagging

import (
	"encoding/json"
	"strings"

	"datastats/internal/errors"
)

// The lists table stores the tagger's inputs as JSON text, keyed by list
// name: techno_list and mini_list are arrays of names, clean_list is a
// map of canonical name to known alias spellings. Values are edited by
// hand, so stray newlines are tolerated.

// DecodeNameList decodes a stored technology name list.
func DecodeNameList(raw string) ([]string, error) {
	var names []string
	if err := json.Unmarshal([]byte(sanitize(raw)), &names); err != nil {
		return nil, errors.NewParsingError("failed to decode technology name list", err)
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// DecodeAliasMap decodes the stored canonical-name to aliases dictionary.
func DecodeAliasMap(raw string) (map[string][]string, error) {
	var aliases map[string][]string
	if err := json.Unmarshal([]byte(sanitize(raw)), &aliases); err != nil {
		return nil, errors.NewParsingError("failed to decode technology alias map", err)
	}
	return aliases, nil
}

func sanitize(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, "\n", ""))
}
