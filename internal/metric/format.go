package metric

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Format turns a raw field name into a display label:
// "percent_high_cholesterol" becomes "% high cholesterol". Unrecognized input
// goes through the same transform.
func Format(raw string) string {
	words := strings.Fields(strings.ReplaceAll(raw, "_", " "))
	if len(words) == 0 {
		return ""
	}
	if strings.EqualFold(words[0], "percent") {
		words[0] = "%"
	}
	// Casers carry state; one per call keeps Format safe for concurrent use.
	return cases.Lower(language.English).String(strings.Join(words, " "))
}
