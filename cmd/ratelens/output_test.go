package main

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/spektr-org/ratelens/engine"
	"github.com/spektr-org/ratelens/intent"
)

func TestWriteChartCSV(t *testing.T) {
	tests := []struct {
		name  string
		chart *engine.ChartConfig
		want  string
	}{
		{
			name: "single series",
			chart: &engine.ChartConfig{
				XAxis: "Category", YAxis: "Average Price ($)",
				Series: []engine.ChartSeries{{Name: "Average Price", Data: []engine.ChartPoint{
					{Label: "Economy", Value: 40}, {Label: "Luxury", Value: 110.5},
				}}},
			},
			want: "Category,Average Price ($)\nEconomy,40\nLuxury,110.50\n",
		},
		{
			name: "multi series",
			chart: &engine.ChartConfig{
				Series: []engine.ChartSeries{
					{Name: "Acme", Data: []engine.ChartPoint{{Label: "Economy", Value: 30}, {Label: "SUV", Value: 60}}},
					{Name: "Zeta", Data: []engine.ChartPoint{{Label: "Economy", Value: 50}}},
				},
			},
			want: "Label,Acme,Zeta\nEconomy,30,50\nSUV,60,\n",
		},
		{
			name: "series with disjoint labels",
			chart: &engine.ChartConfig{
				XAxis: "Car Category",
				Series: []engine.ChartSeries{
					{Name: "Acme", Data: []engine.ChartPoint{{Label: "Compact", Value: 20}, {Label: "Economy", Value: 30}}},
					{Name: "Zeta", Data: []engine.ChartPoint{{Label: "Economy", Value: 50}, {Label: "Luxury", Value: 150}}},
				},
			},
			want: "Car Category,Acme,Zeta\nCompact,20,\nEconomy,30,50\nLuxury,,150\n",
		},
		{
			name: "difference rows after averages",
			chart: &engine.ChartConfig{
				Series: []engine.ChartSeries{
					{Name: "Average Price", Data: []engine.ChartPoint{{Label: "Economy", Value: 40}, {Label: "Luxury", Value: 110}}},
					{Name: "Price Difference", Data: []engine.ChartPoint{{Label: "Economy vs Luxury", Value: 70}}},
				},
			},
			want: "Label,Average Price,Price Difference\nEconomy,40,\nLuxury,110,\nEconomy vs Luxury,,70\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			cw := csv.NewWriter(&buf)
			if !writeChartCSV(cw, tt.chart) {
				t.Fatal("writeChartCSV returned false")
			}
			cw.Flush()
			if buf.String() != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", buf.String(), tt.want)
			}
		})
	}

	if writeChartCSV(csv.NewWriter(&bytes.Buffer{}), &engine.ChartConfig{}) {
		t.Error("empty chart should not be written")
	}
}

func TestWriteAnswer(t *testing.T) {
	out := cliOutput{
		Question: "q",
		Answer:   intent.Answered(intent.LowestPriceSuppliers, "Acme is cheapest.\n"),
	}

	var text bytes.Buffer
	writeAnswer(&text, out, "text")
	if text.String() != "Acme is cheapest.\n" {
		t.Errorf("text = %q", text.String())
	}

	var asCSV bytes.Buffer
	writeAnswer(&asCSV, out, "csv")
	if asCSV.String() != "Answer\nAcme is cheapest.\n" {
		t.Errorf("csv = %q", asCSV.String())
	}

	var asJSON bytes.Buffer
	writeAnswer(&asJSON, out, "json")
	if !strings.Contains(asJSON.String(), `"kind":"answered"`) {
		t.Errorf("json = %s", asJSON.String())
	}
}

func TestWriteSummary(t *testing.T) {
	ds := engine.NewDataset([]engine.Record{
		{WebsiteSupplier: "Acme", WebsiteCarCategory: "Economy", Website: "Expedia", InclusiveRate: 30, HasRate: true},
	}, engine.WithSource("rates.csv"))

	var buf bytes.Buffer
	writeSummary(&buf, ds, "text")
	for _, want := range []string{"Source:      rates.csv", "Records:     1", "Websites:    Expedia"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("summary missing %q:\n%s", want, buf.String())
		}
	}
}
