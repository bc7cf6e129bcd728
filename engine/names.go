package engine

import "strings"

// BestMatch resolves a free-text name to one of values, as seen in view.
// A case-insensitive exact match wins. Otherwise every value containing the
// text is a candidate and the one whose rows (selected by key) have the
// lowest mean rate is returned; equal means go to the smaller value, and
// candidates without rated rows rank last.
func BestMatch(view RecordView, values []string, text string, key KeyFunc) (string, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return "", false
	}
	for _, v := range values {
		if strings.ToLower(v) == text {
			return v, true
		}
	}

	var (
		best      string
		bestMean  float64
		bestRated bool
		found     bool
	)
	for _, c := range MatchAll(values, text) {
		mean, n := MeanRate(Filter(view, KeyIs(key, c)))
		rated := n > 0
		var better bool
		switch {
		case !found:
			better = true
		case rated != bestRated:
			better = rated
		case rated && mean != bestMean:
			better = mean < bestMean
		default:
			better = c < best
		}
		if better {
			best, bestMean, bestRated, found = c, mean, rated, true
		}
	}
	return best, found
}

// MatchAll returns every value containing text, case-insensitively,
// preserving the given order.
func MatchAll(values []string, text string) []string {
	text = strings.ToLower(strings.TrimSpace(text))
	var out []string
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), text) {
			out = append(out, v)
		}
	}
	return out
}
