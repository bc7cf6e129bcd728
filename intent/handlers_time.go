package intent

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spektr-org/ratelens/engine"
)

// ============================================================================
// CALENDAR HANDLERS — Weekdays, dates, months, weeks
// ============================================================================
// Month handlers bucket by day-of-month: week 1 is days 1-7, week 2 is 8-14,
// week 3 is 15-21 and everything from the 22nd on is week 4. "Last week"
// means days 22 and later regardless of month length.
// ============================================================================

const (
	firstWeekEnd  = 7
	lastWeekStart = 22
)

var weekBuckets = []struct {
	Name     string
	From, To int
}{
	{"Week 1", 1, 7},
	{"Week 2", 8, 14},
	{"Week 3", 15, 21},
	{"Week 4", 22, 31},
}

func lowestWeekday(q *query, _ []string) string {
	day, ok := q.idx.AvgByDayOfWeek.Lowest()
	if !ok {
		return "Sorry, I couldn't analyze rates by day of the week from the available data."
	}
	return fmt.Sprintf("Based on the data, %s has the lowest average rates at %s.", day.Key, engine.FormatMoney(day.Value))
}

func lowestAverageDate(q *query, _ []string) string {
	day, ok := q.idx.AvgByDate.Lowest()
	if !ok {
		return "Sorry, I couldn't analyze prices by date from the available data."
	}
	weekday := ""
	if t, err := time.Parse(engine.DateLayout, day.Key); err == nil {
		weekday = t.Weekday().String()
	}
	return fmt.Sprintf("The date with the lowest average price is %s (%s) at %s per day.", day.Key, weekday, engine.FormatMoney(day.Value))
}

// monthRows returns the rows picked up in month.
func monthRows(q *query, month time.Month) engine.RecordView {
	return engine.Filter(q.ds.View(), engine.PickupInMonth(month))
}

func bestTimeInMonth(q *query, g []string) string {
	location, monthText := cleanName(g[0]), cleanName(g[1])
	month, err := parseMonth(monthText)
	if err != nil {
		return fmt.Sprintf("I couldn't determine the best time to rent in %s. Please specify a valid month name.", monthText)
	}

	best, ok := engine.Lowest(engine.GroupMeans(monthRows(q, month), engine.ByPickupDay))
	if !ok {
		return fmt.Sprintf("Sorry, I don't have enough data for rentals in %s during %s.", location, monthText)
	}
	return fmt.Sprintf("Based on the data, the best time to rent a car in %s during %s is around the %s, with an average rate of %s.",
		location, monthText, engine.Ordinal(dayOf(best.Key)), engine.FormatMoney(best.Value))
}

// monthTrend compares the mean of the lowest day-of-month present with the
// highest one present, not the true first and last calendar days.
func monthTrend(q *query, g []string) string {
	monthText := cleanName(g[0])
	month, err := parseMonth(monthText)
	if err != nil {
		return fmt.Sprintf("I couldn't analyze price changes for %s. Please specify a valid month name.", monthText)
	}

	rows := monthRows(q, month)
	daily := engine.GroupMeans(rows, engine.ByPickupDay) // ordered by day
	if len(daily) == 0 {
		return fmt.Sprintf("Sorry, I don't have data for %s in the dataset.", monthText)
	}

	start, end := daily[0].Value, daily[len(daily)-1].Value
	diff := end - start
	pct := engine.PercentOf(diff, start)

	var b strings.Builder
	fmt.Fprintf(&b, "Price trends throughout %s:\n\n", monthText)
	if diff > 0 {
		fmt.Fprintf(&b, "Overall: Prices increase by %s (%s%%) from beginning to end of month\n",
			engine.FormatMoney(diff), engine.FormatPercent(pct))
	} else {
		fmt.Fprintf(&b, "Overall: Prices decrease by %s (%s%%) from beginning to end of month\n",
			engine.FormatMoney(-diff), engine.FormatPercent(-pct))
	}

	lo, _ := engine.Lowest(daily)
	hi, _ := engine.Highest(daily)
	fmt.Fprintf(&b, "Lowest price: %s on the %s\n", engine.FormatMoney(lo.Value), engine.Ordinal(dayOf(lo.Key)))
	fmt.Fprintf(&b, "Highest price: %s on the %s\n", engine.FormatMoney(hi.Value), engine.Ordinal(dayOf(hi.Key)))

	var weeks []engine.Group
	for _, wk := range weekBuckets {
		if avg, n := engine.MeanRate(engine.Filter(rows, engine.PickupDayBetween(wk.From, wk.To))); n > 0 {
			weeks = append(weeks, engine.Group{Key: wk.Name, Value: avg})
		}
	}
	engine.SortGroups(weeks, engine.SortValueAsc)
	cheapest, priciest := weeks[0], weeks[len(weeks)-1]
	fmt.Fprintf(&b, "\nWeekly pattern: %s is cheapest (%s), %s is most expensive (%s)",
		cheapest.Key, engine.FormatMoney(cheapest.Value), priciest.Key, engine.FormatMoney(priciest.Value))
	return b.String()
}

func firstVsLastWeek(q *query, g []string) string {
	monthText := cleanName(g[0])
	month, err := parseMonth(monthText)
	if err != nil {
		return fmt.Sprintf("I couldn't compare weeks for %s. Please specify a valid month name.", monthText)
	}

	rows := monthRows(q, month)
	if _, n := engine.MeanRate(rows); n == 0 {
		return fmt.Sprintf("Sorry, I don't have data for %s in the dataset.", monthText)
	}
	first, nFirst := engine.MeanRate(engine.Filter(rows, engine.PickupDayBetween(1, firstWeekEnd)))
	last, nLast := engine.MeanRate(engine.Filter(rows, engine.PickupDayBetween(lastWeekStart, 31)))
	if nFirst == 0 || nLast == 0 {
		return fmt.Sprintf("Sorry, I don't have enough data for both the first and last weeks of %s.", monthText)
	}

	diff := math.Abs(first - last)
	pct := engine.FormatPercent(engine.PercentOf(diff, math.Min(first, last)))
	if first < last {
		return fmt.Sprintf("First week of %s (%s) is %s cheaper than the last week (%s), a %s%% difference.",
			monthText, engine.FormatMoney(first), engine.FormatMoney(diff), engine.FormatMoney(last), pct)
	}
	return fmt.Sprintf("Last week of %s (%s) is %s cheaper than the first week (%s), a %s%% difference.",
		monthText, engine.FormatMoney(last), engine.FormatMoney(diff), engine.FormatMoney(first), pct)
}
