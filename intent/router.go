package intent

import (
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spektr-org/ratelens/engine"
)

// ============================================================================
// INTENT ROUTER — Ordered pattern rules over a lower-cased question
// ============================================================================
// Chart vocabulary goes to the visualization sub-router first. Otherwise the
// rules are tried in declaration order and the first structural match owns
// the question, even when its handler can only answer "sorry". Overlapping
// phrasings are disambiguated purely by that order.
// ============================================================================

// Intent names one recognized question category.
type Intent int

const (
	None Intent = iota
	Visualize
	CheapestCarForDate
	BestRatesForCategory
	CompareWebsites
	BestTimeInMonth
	DealsBelowAverage
	CompareSuppliersForCategory
	CategoryPriceDifference
	LowestWeekday
	MostAffordableCategories
	TierCarsUnderPrice
	AveragePriceForCategory
	LowestPriceSuppliers
	CompareSuppliersOverall
	BestValueSize
	HowMuchCheaper
	WebsitePriceDifferences
	BestTierSupplier
	WeekendVsWeekday
	MonthTrend
	LowestAverageDate
	FirstVsLastWeek
)

var intentNames = map[Intent]string{
	None:                        "none",
	Visualize:                   "visualize",
	CheapestCarForDate:          "cheapest-car-for-date",
	BestRatesForCategory:        "best-rates-for-category",
	CompareWebsites:             "compare-websites",
	BestTimeInMonth:             "best-time-in-month",
	DealsBelowAverage:           "deals-below-average",
	CompareSuppliersForCategory: "compare-suppliers-for-category",
	CategoryPriceDifference:     "category-price-difference",
	LowestWeekday:               "lowest-weekday",
	MostAffordableCategories:    "most-affordable-categories",
	TierCarsUnderPrice:          "tier-cars-under-price",
	AveragePriceForCategory:     "average-price-for-category",
	LowestPriceSuppliers:        "lowest-price-suppliers",
	CompareSuppliersOverall:     "compare-suppliers-overall",
	BestValueSize:               "best-value-size",
	HowMuchCheaper:              "how-much-cheaper",
	WebsitePriceDifferences:     "website-price-differences",
	BestTierSupplier:            "best-tier-supplier",
	WeekendVsWeekday:            "weekend-vs-weekday",
	MonthTrend:                  "month-trend",
	LowestAverageDate:           "lowest-average-date",
	FirstVsLastWeek:             "first-vs-last-week",
}

func (i Intent) String() string {
	if s, ok := intentNames[i]; ok {
		return s
	}
	return "unknown"
}

// MarshalText renders the intent by name.
func (i Intent) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

// Matcher inspects a lower-cased question and returns its captures.
type Matcher func(question string) (groups []string, ok bool)

// Handler computes the answer text for a matched question.
type Handler func(q *query, groups []string) string

// Rule binds one intent to its matcher and handler.
type Rule struct {
	Intent Intent
	Match  Matcher
	Handle Handler
}

// query carries one question's dataset snapshot and clock.
type query struct {
	ds  *engine.Dataset
	idx *engine.Index
	now time.Time
}

// Router answers questions against a dataset.
type Router struct {
	rules []Rule
	log   *zap.Logger
	now   func() time.Time
}

// NewRouter creates a router with the built-in rule order.
func NewRouter(opts ...Option) *Router {
	cfg := applyOptions(opts)
	return &Router{
		rules: defaultRules(),
		log:   cfg.Logger,
		now:   cfg.Now,
	}
}

// Intents returns the rule order, earliest first.
func (r *Router) Intents() []Intent {
	out := make([]Intent, len(r.rules))
	for i, rule := range r.rules {
		out[i] = rule.Intent
	}
	return out
}

// Answer routes one question. A nil dataset behaves as an empty one.
func (r *Router) Answer(ds *engine.Dataset, question string) Answer {
	q := strings.ToLower(strings.TrimSpace(question))

	if wantsChart(q) {
		a := visualize(q)
		r.log.Debug("📈 chart directive", zap.String("chart", string(a.Chart.Type)))
		return a
	}

	call := &query{ds: ds, idx: ds.Index(), now: r.now()}
	for _, rule := range r.rules {
		groups, ok := rule.Match(q)
		if !ok {
			continue
		}
		text := rule.Handle(call, groups)
		r.log.Debug("✅ intent matched",
			zap.Stringer("intent", rule.Intent),
			zap.Int("records", ds.Len()),
		)
		return Answered(rule.Intent, text)
	}

	r.log.Debug("🤷 no intent matched", zap.String("question", engine.Truncate(q, 80)))
	return Unhandled()
}

// defaultRules is the declared priority order. The category-scoped supplier
// comparison must stay ahead of the generic one.
func defaultRules() []Rule {
	return []Rule{
		{CheapestCarForDate, matchRegexp(`cheapest\s+(\w+)\s+car.*?for\s+(.*?)(\?|$)`), cheapestCarForDate},
		{BestRatesForCategory, matchRegexp(`(which|what) supplier has the best rates for (.*?)(\?|$)`), bestRatesForCategory},
		{CompareWebsites, matchRegexp(`is (.*?) or (.*?) offering better deals`), compareWebsites},
		{BestTimeInMonth, matchRegexp(`best time to rent.*?in (.*?) in (.*?)(\?|$)`), bestTimeInMonth},
		{DealsBelowAverage, matchRegexp(`deals more than (\d+)% below average`), dealsBelowAverage},
		{CompareSuppliersForCategory, matchRegexp(`compare (?:(?:rates|prices) )?(?:between )?(.+?) and (.+?) (?:prices )?for (?:the )?(.+?) cars`), compareSuppliersForCategory},
		{CategoryPriceDifference, matchRegexp(`price difference between (.*?) and (.*?) cars`), categoryPriceDifference},
		{LowestWeekday, matchPhrase("day of the week has the lowest rates"), lowestWeekday},
		{MostAffordableCategories, matchPhrase("most affordable car category", "cheapest car category"), mostAffordableCategories},
		{TierCarsUnderPrice, matchRegexp(`(find|show|get) (luxury|premium) cars under \$(\d+)`), tierCarsUnderPrice},
		{AveragePriceForCategory, matchRegexp(`average price for a (.*?) car`), averagePriceForCategory},
		{LowestPriceSuppliers, matchPhrase("which supplier has the lowest prices"), lowestPriceSuppliers},
		{CompareSuppliersOverall, matchRegexp(`compare (.*?) and (.*?) prices`), compareSuppliersOverall},
		{BestValueSize, matchPhrase("which car category has the best value"), bestValueSize},
		{HowMuchCheaper, matchRegexp(`how much cheaper is (.*?) than (.*)`), howMuchCheaper},
		{WebsitePriceDifferences, matchPhrase("price differences between websites"), websitePriceDifferences},
		{BestTierSupplier, matchRegexp(`which supplier (has|offers) the best (luxury|premium) cars`), bestTierSupplier},
		{WeekendVsWeekday, matchPhrase("weekends more expensive than weekdays"), weekendVsWeekday},
		{MonthTrend, matchRegexp(`how do prices change throughout (.*?)\?`), monthTrend},
		{LowestAverageDate, matchPhrase("which date has the lowest average price"), lowestAverageDate},
		{FirstVsLastWeek, matchRegexp(`compare first week vs last week of (.*?) prices`), firstVsLastWeek},
	}
}

// ============================================================================
// MATCHERS
// ============================================================================

// matchRegexp returns the capture groups (without the full match).
func matchRegexp(pattern string) Matcher {
	re := regexp.MustCompile(pattern)
	return func(q string) ([]string, bool) {
		m := re.FindStringSubmatch(q)
		if m == nil {
			return nil, false
		}
		return m[1:], true
	}
}

// matchPhrase matches when any phrase occurs in the question.
func matchPhrase(phrases ...string) Matcher {
	return func(q string) ([]string, bool) {
		for _, p := range phrases {
			if strings.Contains(q, p) {
				return []string{}, true
			}
		}
		return nil, false
	}
}

func containsAny(q string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(q, t) {
			return true
		}
	}
	return false
}
