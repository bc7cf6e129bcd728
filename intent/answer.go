package intent

import "github.com/spektr-org/ratelens/engine"

// Kind tells a caller what to do with an Answer.
type Kind string

const (
	// KindAnswered carries a complete text answer ("sorry" messages included).
	KindAnswered Kind = "answered"
	// KindChart carries text plus a chart directive for a renderer.
	KindChart Kind = "chart"
	// KindUnhandled means no intent matched; the caller may delegate.
	KindUnhandled Kind = "unhandled"
)

// Answer is the result of routing one question.
type Answer struct {
	Kind   Kind                   `json:"kind"`
	Intent Intent                 `json:"-"`
	Text   string                 `json:"text,omitempty"`
	Chart  *engine.ChartDirective `json:"visualization,omitempty"`
}

// Answered wraps a text answer.
func Answered(in Intent, text string) Answer {
	return Answer{Kind: KindAnswered, Intent: in, Text: text}
}

// Chart wraps a chart directive with its accompanying text.
func Chart(text string, d engine.ChartDirective) Answer {
	return Answer{Kind: KindChart, Intent: Visualize, Text: text, Chart: &d}
}

// Unhandled is the no-match outcome.
func Unhandled() Answer {
	return Answer{Kind: KindUnhandled, Intent: None}
}

// Handled reports whether the engine produced text or a chart.
func (a Answer) Handled() bool { return a.Kind != KindUnhandled }
