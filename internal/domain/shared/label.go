package shared

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayLabel turns a stored enum code such as "partially_paid" or
// "fast-track" into the text shown to users ("Partially Paid", "Fast Track").
func DisplayLabel(code string) string {
	if code == "" {
		return ""
	}
	words := strings.NewReplacer("_", " ", "-", " ").Replace(strings.ToLower(code))
	return cases.Title(language.English).String(words)
}
