package ingest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/ratelens/engine"
)

const sampleCSV = `PickUpDate,DropOffDate,ShopDate,Website,WebsiteSupplier,WebsiteCarCategory,VehicleName,InclusiveRate,Notes
2024-04-01,2024-04-03,2024-03-20,Expedia,Acme,Economy,Toyota Yaris,30.00,x
04/06/2024,04/08/2024,2024-03-20,Kayak,Zeta,Luxury SUV,BMW X5,"$1,120.50",
2024-04-07,,,Kayak,Zeta,Economy,Kia Rio,,
not a date,,,Expedia,Acme,Economy,Kia Rio,abc,
`

func TestReadCSV(t *testing.T) {
	ds, err := NewLoader(nil).Load("rates.csv", strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ds.Len() != 4 {
		t.Fatalf("rows = %d, want 4", ds.Len())
	}
	if ds.Source != "rates.csv" {
		t.Errorf("source = %q", ds.Source)
	}
	if missing := ds.Columns().Missing(); len(missing) != 0 {
		t.Errorf("missing = %v", missing)
	}

	v := ds.View()
	first := v.At(0)
	if first.PickupKey() != "2024-04-01" || first.VehicleName != "Toyota Yaris" || !first.HasRate || first.InclusiveRate != 30 {
		t.Errorf("first row = %+v", first)
	}
	second := v.At(1)
	if second.PickupKey() != "2024-04-06" || second.InclusiveRate != 1120.5 {
		t.Errorf("second row = %+v", second)
	}
	if third := v.At(2); third.HasRate || !third.DropoffDate.IsZero() {
		t.Errorf("blank rate and dropoff should be missing: %+v", third)
	}
	if fourth := v.At(3); fourth.HasPickup() || fourth.HasRate {
		t.Errorf("unparsable values should be missing: %+v", fourth)
	}
}

func TestHeaderNormalization(t *testing.T) {
	csv := "pickup_date,website supplier,Website-Car-Category,inclusive rate\n2024-04-01,Acme,Economy,42\n"
	ds, err := NewLoader(nil).Load("x.CSV", strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	cols := ds.Columns()
	if !cols.Has(engine.ColPickupDate, engine.ColSupplier, engine.ColCategory, engine.ColInclusiveRate) {
		t.Errorf("columns = %v", cols)
	}
	if cols.Has(engine.ColWebsite) || cols.Has(engine.ColVehicle) {
		t.Errorf("absent columns reported present: %v", cols)
	}
	if r := ds.View().At(0); r.WebsiteSupplier != "Acme" || r.InclusiveRate != 42 {
		t.Errorf("row = %+v", r)
	}
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"PickUpDate", "Website", "WebsiteSupplier", "WebsiteCarCategory", "VehicleName", "InclusiveRate"},
		{"2024-04-01", "Expedia", "Acme", "Economy", "Toyota Yaris", 30},
		{"2024-04-02", "Kayak", "Zeta", "Compact"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	ds, err := NewLoader(nil).Load("rates.xlsx", bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("rows = %d, want 2", ds.Len())
	}
	if r := ds.View().At(0); r.InclusiveRate != 30 || r.WebsiteCarCategory != "Economy" {
		t.Errorf("first row = %+v", r)
	}
	if r := ds.View().At(1); r.HasRate || r.VehicleName != "" {
		t.Errorf("short row should pad with missing cells: %+v", r)
	}
	if ds.Columns().Has(engine.ColDropoffDate) {
		t.Error("DropOffDate was not in the sheet")
	}
}

func TestLoadErrors(t *testing.T) {
	l := NewLoader(nil)

	if _, err := l.Load("rates.json", strings.NewReader("{}")); !eris.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := l.Load("empty.csv", strings.NewReader("  \n")); !eris.Is(err, ErrNoRows) {
		t.Errorf("expected ErrNoRows, got %v", err)
	}
	if _, err := l.Load("header.csv", strings.NewReader("PickUpDate,InclusiveRate\n")); err == nil {
		t.Error("expected an error for a header-only file")
	}
	if _, err := l.Load("broken.xlsx", strings.NewReader("not a zip")); err == nil {
		t.Error("expected an error for a corrupt workbook")
	}
	if _, err := l.LoadFile(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	ds, err := NewLoader(nil).LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Source != "rates.csv" || ds.Len() != 4 {
		t.Errorf("source = %q, rows = %d", ds.Source, ds.Len())
	}
}

func TestSupported(t *testing.T) {
	for name, want := range map[string]bool{
		"a.csv": true, "a.XLSX": true, "a.xls": false, "a": false, "a.csv.txt": false,
	} {
		if got := Supported(name); got != want {
			t.Errorf("Supported(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 4, 6, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   string
	}{
		{"iso date", "2024-04-06"},
		{"iso seconds", "2024-04-06 13:45:00"},
		{"iso minutes", "2024-04-06 13:45"},
		{"iso T seconds", "2024-04-06T13:45:00"},
		{"iso T minutes", "2024-04-06T13:45"},
		{"us padded", "04/06/2024"},
		{"us short", "4/6/2024"},
		{"us minutes", "4/6/2024 13:45"},
		{"us seconds", "4/6/2024 13:45:00"},
		{"us padded seconds", "04/06/2024 13:45:00"},
		{"us two-digit year", "4/6/24"},
		{"day month name", "06-Apr-2024"},
		{"month name", "Apr 6, 2024"},
		{"excel serial", "45388"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseDate(tt.in); !got.Equal(want) {
				t.Errorf("parseDate(%q) = %v, want %v", tt.in, got, want)
			}
		})
	}
	for _, in := range []string{"", "soon", "2024-13-01"} {
		if got := parseDate(in); !got.IsZero() {
			t.Errorf("parseDate(%q) = %v, want zero", in, got)
		}
	}
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{" $1,234.50 ", 1234.5, true},
		{"-3.5", -3.5, true},
		{"", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"twelve", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseRate(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseRate(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
