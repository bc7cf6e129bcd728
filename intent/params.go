package intent

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"
)

// ============================================================================
// PARAMETER EXTRACTION — Names, dates, months from captured text
// ============================================================================

var errUnparsable = eris.New("unparsable phrase")

// dateLayouts are tried once ordinal suffixes are removed and the year appended.
var dateLayouts = []string{
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"1/2 2006",
}

// parseDate resolves a date phrase. Phrases without a year use now's year.
func parseDate(text string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(strings.Trim(text, " ?.!,"))
	if s == "" {
		return time.Time{}, eris.Wrap(errUnparsable, "empty date")
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("1/2/2006", s); err == nil {
		return t, nil
	}

	s = strings.ReplaceAll(s, ",", " ")
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = capitalize(stripOrdinal(w))
	}
	s = strings.Join(words, " ") + " " + strconv.Itoa(now.Year())

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, eris.Wrapf(errUnparsable, "date %q", text)
}

// stripOrdinal turns "5th" into "5"; other words pass through.
func stripOrdinal(w string) string {
	for _, suf := range []string{"st", "nd", "rd", "th"} {
		if num, ok := strings.CutSuffix(w, suf); ok && num != "" {
			if _, err := strconv.Atoi(num); err == nil {
				return num
			}
		}
	}
	return w
}

// parseMonth accepts a full month name or its three-letter abbreviation.
func parseMonth(text string) (time.Month, error) {
	s := strings.ToLower(strings.TrimSpace(strings.Trim(text, " ?.!,")))
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if s == name || (len(s) == 3 && s == name[:3]) {
			return m, nil
		}
	}
	return 0, eris.Wrapf(errUnparsable, "month %q", text)
}

// cleanName trims whitespace and trailing punctuation from a captured name.
func cleanName(s string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), "?.!,;:"))
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(s[:size]) + strings.ToLower(s[size:])
}

// titleCase capitalizes every whitespace-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// dayOf parses a zero-padded day-of-month key.
func dayOf(key string) int {
	d, _ := strconv.Atoi(key)
	return d
}
