package ingest

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/ratelens/engine"
)

// ============================================================================
// TABLE — Header + string rows, the common shape of every source format
// ============================================================================
// Readers only produce strings. Normalization into engine.Record (header
// matching, date and rate parsing) happens here, once, for all formats.
// ============================================================================

// Table is a raw tabular source.
type Table struct {
	Header []string
	Rows   [][]string
}

// missingValues are cell texts treated as empty.
var missingValues = map[string]bool{
	"": true, "nan": true, "na": true, "n/a": true, "null": true, "none": true, "nat": true,
}

func isMissing(s string) bool {
	return missingValues[strings.ToLower(strings.TrimSpace(s))]
}

// Records converts rows into engine records and reports which known
// columns were found. Unknown columns are ignored.
func (t *Table) Records() ([]engine.Record, engine.Columns) {
	cols := engine.Columns{}
	index := make(map[string]int)
	for i, h := range t.Header {
		if name, ok := knownColumn(h); ok {
			if _, dup := index[name]; !dup {
				index[name] = i
				cols[name] = true
			}
		}
	}

	cell := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) || isMissing(row[i]) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]engine.Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := engine.Record{
			PickupDate:         parseDate(cell(row, engine.ColPickupDate)),
			DropoffDate:        parseDate(cell(row, engine.ColDropoffDate)),
			ShopDate:           parseDate(cell(row, engine.ColShopDate)),
			Website:            cell(row, engine.ColWebsite),
			WebsiteSupplier:    cell(row, engine.ColSupplier),
			WebsiteCarCategory: cell(row, engine.ColCategory),
			VehicleName:        cell(row, engine.ColVehicle),
		}
		rec.InclusiveRate, rec.HasRate = parseRate(cell(row, engine.ColInclusiveRate))
		records = append(records, rec)
	}
	return records, cols
}

// knownColumn matches a header to a known column, ignoring case, spaces,
// underscores and dashes ("pickup_date" → "PickUpDate").
func knownColumn(header string) (string, bool) {
	key := squash(header)
	for _, name := range engine.KnownColumns {
		if squash(name) == key {
			return name, true
		}
	}
	return "", false
}

func squash(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// ============================================================================
// VALUE PARSING
// ============================================================================

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05Z07:00",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04:05",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"01-02-06",
	"1/2/06",
	"02-Jan-2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// parseDate returns the calendar date (UTC midnight) or the zero time.
// Bare numbers are read as Excel serial dates.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t)
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return dateOnly(t)
		}
	}
	return time.Time{}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// parseRate reads "$1,234.50"-style amounts.
func parseRate(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
