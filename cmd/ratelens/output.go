package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spektr-org/ratelens/engine"
	"github.com/spektr-org/ratelens/intent"
)

// ============================================================================
// OUTPUT TYPES
// ============================================================================

type cliOutput struct {
	Question   string              `json:"question"`
	Answer     intent.Answer       `json:"answer"`
	ChartData  *engine.ChartConfig `json:"chartData,omitempty"`
	ChartError string              `json:"chartError,omitempty"`
}

type summaryOutput struct {
	engine.Summary
	Source  string   `json:"source"`
	Missing []string `json:"missingColumns,omitempty"`
}

// ============================================================================
// RENDERING
// ============================================================================

func writeAnswer(w io.Writer, out cliOutput, format string) {
	switch format {
	case "csv":
		cw := csv.NewWriter(w)
		defer cw.Flush()
		if out.ChartData != nil && writeChartCSV(cw, out.ChartData) {
			return
		}
		cw.Write([]string{"Answer"})
		cw.Write([]string{strings.TrimSpace(out.Answer.Text)})
	case "json", "pretty":
		writeJSON(w, out, format)
	default:
		text := strings.TrimSpace(out.Answer.Text)
		if text == "" {
			text = "No answer."
		}
		fmt.Fprintln(w, text)
		if out.ChartError != "" {
			fmt.Fprintf(w, "(chart unavailable: %s)\n", out.ChartError)
		}
	}
}

func writeSummary(w io.Writer, ds *engine.Dataset, format string) {
	s := summaryOutput{Summary: ds.Summary(), Source: ds.Source, Missing: ds.Columns().Missing()}
	if format == "json" || format == "pretty" {
		writeJSON(w, s, format)
		return
	}

	fmt.Fprintf(w, "Source:      %s\n", s.Source)
	fmt.Fprintf(w, "Records:     %d\n", s.TotalRecords)
	fmt.Fprintf(w, "Suppliers:   %d\n", s.UniqueSuppliers)
	fmt.Fprintf(w, "Categories:  %d\n", s.UniqueCategories)
	if s.DateRange.Min != "" {
		fmt.Fprintf(w, "Pickups:     %s to %s\n", s.DateRange.Min, s.DateRange.Max)
	}
	if len(s.Websites) > 0 {
		fmt.Fprintf(w, "Websites:    %s\n", strings.Join(s.Websites, ", "))
	}
	if len(s.Missing) > 0 {
		fmt.Fprintf(w, "Missing:     %s\n", strings.Join(s.Missing, ", "))
	}
}

// writeChartCSV writes one row per label. A single series gives two
// columns; more series give one column each, matched by label, with a
// blank cell where a series has no point for that label.
func writeChartCSV(cw *csv.Writer, chart *engine.ChartConfig) bool {
	if len(chart.Series) == 0 {
		return false
	}

	xLabel, yLabel := chart.XAxis, chart.YAxis
	if xLabel == "" {
		xLabel = "Label"
	}
	if yLabel == "" {
		yLabel = "Value"
	}

	if len(chart.Series) == 1 {
		cw.Write([]string{xLabel, yLabel})
		for _, d := range chart.Series[0].Data {
			cw.Write([]string{d.Label, fmtNum(d.Value)})
		}
		return true
	}

	headers := []string{xLabel}
	for _, s := range chart.Series {
		headers = append(headers, s.Name)
	}
	cw.Write(headers)

	for _, label := range chart.Labels() {
		row := []string{label}
		for _, s := range chart.Series {
			if v, ok := s.Value(label); ok {
				row = append(row, fmtNum(v))
			} else {
				row = append(row, "")
			}
		}
		cw.Write(row)
	}
	return true
}

func writeJSON(w io.Writer, v interface{}, format string) {
	var (
		out []byte
		err error
	)
	if format == "pretty" {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		fatalf("Failed to marshal output: %v", err)
	}
	fmt.Fprintln(w, string(out))
}

func fmtNum(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
