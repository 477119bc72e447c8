package version

import (
	"github.com/samber/lo"
)

// BuildQueue returns the ordered list of versions to try when downloading.
// The requested version comes first, followed by every known version strictly older
// than it, in the order of known. An empty requested version returns known unchanged.
// A requested version equal to a known entry never repeats, since filtering is strict.
func BuildQueue(requested string, known []string) []string {
	if requested == "" {
		return append([]string(nil), known...)
	}

	older := lo.Filter(known, func(v string, _ int) bool {
		return Less(v, requested)
	})
	return append([]string{requested}, older...)
}

// Latest returns the head of the known version list
func Latest(known []string) string {
	if len(known) == 0 {
		return ""
	}
	return known[0]
}
