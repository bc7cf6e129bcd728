package ingest

import (
	"bytes"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
)

// ReadCSV loads a delimited file. Every column is read as text so that
// dates and rates are normalized in one place.
func ReadCSV(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read csv")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, eris.Wrap(ErrNoRows, "ingest: empty csv")
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{"NA", "NaN", "<nil>"}),
	)
	if df.Err != nil {
		return nil, eris.Wrap(df.Err, "ingest: parse csv")
	}
	if df.Nrow() == 0 {
		return nil, eris.Wrap(ErrNoRows, "ingest: csv has a header only")
	}

	names := df.Names()
	columns := make([][]string, len(names))
	for i, name := range names {
		columns[i] = df.Col(name).Records()
	}

	t := &Table{Header: names, Rows: make([][]string, df.Nrow())}
	for row := range t.Rows {
		cells := make([]string, len(names))
		for c := range names {
			cells[c] = columns[c][row]
		}
		t.Rows[row] = cells
	}
	return t, nil
}

// ReadXLSX loads the first sheet of a workbook.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open xlsx")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, eris.Wrap(ErrNoRows, "ingest: workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read sheet %q", sheets[0])
	}
	if len(rows) <= 1 {
		return nil, eris.Wrapf(ErrNoRows, "ingest: sheet %q", sheets[0])
	}

	header := rows[0]
	t := &Table{Header: header, Rows: make([][]string, 0, len(rows)-1)}
	for _, row := range rows[1:] {
		// GetRows trims trailing empty cells.
		cells := make([]string, len(header))
		copy(cells, row)
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}
