// Package parser turns spreadsheet bytes into a header and normalized rows.
// Only the first worksheet is read.
package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"analytics_backend/internal/feature/upload/domain/entity"
	"analytics_backend/internal/shared/apperror"
)

// Table is the parsed content of a sheet.
type Table struct {
	Columns []string
	Rows    []entity.Row
}

// Default read limits, used when a Limits field is zero.
const (
	DefaultMaxRows        = 100_000
	DefaultMaxCells       = 2_000_000
	DefaultMaxUnzipBytes  = 256 << 20
	defaultMaxUnzipXMLMem = excelize.StreamChunkSize
)

// Limits caps how much of a sheet is materialized. MaxRows counts data rows,
// the header excluded. MaxUnzipBytes bounds the decompressed size of an xlsx
// package.
type Limits struct {
	MaxRows       int
	MaxCells      int
	MaxUnzipBytes int64
}

func (l Limits) withDefaults() Limits {
	if l.MaxRows <= 0 {
		l.MaxRows = DefaultMaxRows
	}
	if l.MaxCells <= 0 {
		l.MaxCells = DefaultMaxCells
	}
	if l.MaxUnzipBytes <= 0 {
		l.MaxUnzipBytes = DefaultMaxUnzipBytes
	}
	return l
}

// Parse decodes data according to format with the default limits.
func Parse(format Format, data []byte) (*Table, error) {
	return ParseWithLimits(format, data, Limits{})
}

// ParseWithLimits decodes data according to format and builds the table.
// A sheet over the row or cell cap fails with PayloadTooLarge.
func ParseWithLimits(format Format, data []byte, lim Limits) (*Table, error) {
	lim = lim.withDefaults()
	var (
		records [][]string
		err     error
	)
	switch format {
	case FormatXLSX:
		records, err = readXLSX(data, lim)
	case FormatXLS:
		records, err = readXLS(data, lim)
	case FormatCSV:
		records, err = readCSV(data, lim)
	default:
		return nil, apperror.Newf(apperror.KindUnsupportedFormat, "unsupported format %q", format)
	}
	if err != nil {
		var ae *apperror.Error
		if errors.As(err, &ae) {
			return nil, err
		}
		return nil, apperror.Wrap(apperror.KindParseError, "could not read spreadsheet", err)
	}
	return BuildTable(records)
}

// collector accumulates records under a Limits budget. Blank records after
// the first are dropped since BuildTable skips them anyway.
type collector struct {
	lim     Limits
	cells   int
	records [][]string
}

func (c *collector) add(rec []string) error {
	if len(rec) == 0 {
		if len(c.records) == 0 {
			c.records = append(c.records, nil)
		}
		return nil
	}
	if len(c.records) > c.lim.MaxRows {
		return apperror.Newf(apperror.KindPayloadTooLarge, "sheet has more than %d rows", c.lim.MaxRows)
	}
	c.cells += len(rec)
	if c.cells > c.lim.MaxCells {
		return apperror.Newf(apperror.KindPayloadTooLarge, "sheet has more than %d cells", c.lim.MaxCells)
	}
	c.records = append(c.records, rec)
	return nil
}

func readXLSX(data []byte, lim Limits) ([][]string, error) {
	xmlMem := int64(defaultMaxUnzipXMLMem)
	if xmlMem > lim.MaxUnzipBytes {
		xmlMem = lim.MaxUnzipBytes
	}
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{
		UnzipSizeLimit:    lim.MaxUnzipBytes,
		UnzipXMLSizeLimit: xmlMem,
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperror.New(apperror.KindParseError, "workbook has no sheets")
	}
	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	c := collector{lim: lim}
	for rows.Next() {
		// Raw values keep number formats such as "1,234" or "12%" out of coercion.
		rec, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}
		if err := c.add(rec); err != nil {
			return nil, err
		}
	}
	if err := rows.Error(); err != nil {
		return nil, err
	}
	return c.records, nil
}

func readXLS(data []byte, lim Limits) (records [][]string, err error) {
	if err := checkXLS(data); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			records, err = nil, fmt.Errorf("xls decoder failed: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if wb == nil || wb.NumSheets() == 0 {
		return nil, apperror.New(apperror.KindParseError, "workbook has no sheets")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, apperror.New(apperror.KindParseError, "workbook has no sheets")
	}

	c := collector{lim: lim}
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheetRow(sheet, i)
		if row == nil {
			if err := c.add(nil); err != nil {
				return nil, err
			}
			continue
		}
		rec := make([]string, 0, row.LastCol())
		for col := 0; col < row.LastCol(); col++ {
			rec = append(rec, row.Col(col))
		}
		if err := c.add(rec); err != nil {
			return nil, err
		}
	}
	return c.records, nil
}

// sheetRow returns nil for rows the sheet never defined; xls.WorkSheet.Row
// dereferences the missing entry.
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

func readCSV(data []byte, lim Limits) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	c := collector{lim: lim}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := c.add(rec); err != nil {
			return nil, err
		}
	}
	return c.records, nil
}

// BuildTable validates the header (first record) and normalizes the data
// records into rows. Blank rows are skipped and cells past the header are dropped.
func BuildTable(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, apperror.New(apperror.KindParseError, "sheet is empty")
	}

	header := trimTrailingBlank(records[0])
	if len(header) == 0 {
		return nil, apperror.New(apperror.KindParseError, "header row is missing")
	}

	columns := make([]string, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, cell := range header {
		name := strings.TrimSpace(cell)
		if name == "" {
			return nil, apperror.Newf(apperror.KindParseError, "header cell %d is empty", i+1)
		}
		if _, dup := seen[name]; dup {
			return nil, apperror.Newf(apperror.KindParseError, "duplicate column %q", name)
		}
		seen[name] = struct{}{}
		columns[i] = name
	}

	var rows []entity.Row
	for _, rec := range records[1:] {
		row := make(entity.Row, len(columns))
		blank := true
		for i, col := range columns {
			var v any
			if i < len(rec) {
				v = NormalizeCell(rec[i])
			}
			if v != nil {
				blank = false
			}
			row[col] = v
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, apperror.New(apperror.KindParseError, "sheet has no data rows")
	}

	return &Table{Columns: columns, Rows: rows}, nil
}

func trimTrailingBlank(cells []string) []string {
	end := len(cells)
	for end > 0 && strings.TrimSpace(cells[end-1]) == "" {
		end--
	}
	return cells[:end]
}
