package classify

import (
	"regexp"
	"strings"
	"time"

	"github.com/formpulse/behavior-tracker/pkg/behavior"
)

// Field name/id tokens that mark an element as a likely browser-autofill
// target.
var autocompleteFieldTokens = []string{
	"email", "name", "address", "city", "state", "zipcode", "postal",
	"country", "phone", "company", "organization",
}

// Appended-suffix patterns that only appear when a complete unit of data
// lands at once: an email address, a US ZIP, a US phone number, or a
// multi-word letters-and-spaces name.
var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	zipPattern   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	phonePattern = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
	namePattern  = regexp.MustCompile(`^[A-Za-z]+( [A-Za-z]+)+$`)
)

const (
	rapidGrowthChars   = 3
	rapidGrowthWindow  = 100 * time.Millisecond
	autofillFieldChars = 2
	completeUnitChars  = 5
)

// looksAutocompleted applies the autocomplete heuristic to a grown value.
// The caller has already ruled out shrinking values and first observations.
func looksAutocompleted(el *behavior.Element, previous, current string, elapsed time.Duration) bool {
	growth := len(current) - len(previous)
	if growth <= 0 {
		return false
	}

	var suffix string
	if len(current) > len(previous) {
		suffix = current[len(previous):]
	}

	// (a) rapid large growth that lands a complete unit
	if growth > rapidGrowthChars && elapsed < rapidGrowthWindow && isCompleteUnit(suffix) {
		return true
	}

	// (b) known autofill field with non-trivial growth
	if isAutofillField(el) && growth > autofillFieldChars {
		return true
	}

	// (c) the appended suffix is a recognizable data unit on its own
	return matchesDataPattern(suffix)
}

func isCompleteUnit(s string) bool {
	if strings.ContainsAny(s, " \t\n") || strings.Contains(s, "@") {
		return true
	}
	return len(s) > completeUnitChars
}

func isAutofillField(el *behavior.Element) bool {
	if el.Type == "email" {
		return true
	}
	id := strings.ToLower(el.ID)
	name := strings.ToLower(el.Name)
	for _, token := range autocompleteFieldTokens {
		if strings.Contains(id, token) || strings.Contains(name, token) {
			return true
		}
	}
	return false
}

func matchesDataPattern(s string) bool {
	if s == "" {
		return false
	}
	return emailPattern.MatchString(s) ||
		zipPattern.MatchString(s) ||
		phonePattern.MatchString(s) ||
		namePattern.MatchString(s)
}
