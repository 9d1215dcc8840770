package domain

import "strings"

// SplitTechnos splits a comma-joined technology column into trimmed names.
// Empty segments are dropped so a stray trailing comma never yields a
// phantom technology.
func SplitTechnos(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// JoinTechnos is the inverse of SplitTechnos, producing the canonical
// comma-joined storage form.
func JoinTechnos(names []string) string {
	return strings.Join(names, ", ")
}
