// Package spreadsheet reads the first sheet of a time clock export into header-keyed rows.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/punch"
	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format, expected .xls, .xlsx or .csv")
	ErrNoSheets          = errors.New("workbook contains no sheets")
)

// SupportedExtensions lists the file extensions ReadRows accepts.
var SupportedExtensions = []string{".xls", ".xlsx", ".csv"}

// IsSupported reports whether the file name has an accepted extension.
func IsSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// ReadRows picks the reader by file extension and returns the data rows of the first sheet.
func ReadRows(filename string, r io.Reader) ([]punch.RawRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	var grid [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		grid, err = readXLSX(data)
	case ".xls":
		grid, err = readXLS(data)
	case ".csv":
		grid, err = readCSV(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	return ToRows(grid), nil
}

// ToRows uses the first non-empty line as header. Each later non-empty line becomes a row
// carrying every header column, empty cells included. A repeated header keeps its first column.
func ToRows(grid [][]string) []punch.RawRow {
	var (
		header []string
		rows   []punch.RawRow
	)

	for _, line := range grid {
		if isBlank(line) {
			continue
		}
		if header == nil {
			header = make([]string, len(line))
			for i, h := range line {
				header[i] = NormalizeHeader(h)
			}
			continue
		}

		row := make(punch.RawRow, len(header))
		for i, h := range header {
			if h == "" || row.Has(h) {
				continue
			}
			var cell string
			if i < len(line) {
				cell = strings.TrimSpace(line[i])
			}
			row[h] = cell
		}
		rows = append(rows, row)
	}

	return rows
}

// NormalizeHeader trims and composes header text so "Nº" and "Día" match whichever
// Unicode form the exporting tool wrote.
func NormalizeHeader(h string) string {
	return norm.NFC.String(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	return f.GetRows(sheets[0])
}

func readXLS(data []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		// Exports saved as xlsx with an .xls name are common.
		if _, errX := excelize.OpenReader(bytes.NewReader(data)); errX == nil {
			return readXLSX(data)
		}
		return nil, err
	}

	if len(workbook.GetSheets()) == 0 {
		return nil, ErrNoSheets
	}
	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, err
	}

	var grid [][]string
	for _, row := range sheet.GetRows() {
		var line []string
		for _, cell := range row.GetCols() {
			line = append(line, cell.GetString())
		}
		grid = append(grid, line)
	}
	return grid, nil
}

func readCSV(data []byte) ([][]string, error) {
	var src io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		src = transform.NewReader(src, charmap.Windows1252.NewDecoder())
	}

	reader := csv.NewReader(src)
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.ReadAll()
}

// detectDelimiter chooses between ';' and ',' from the first line.
func detectDelimiter(data []byte) rune {
	first, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}

func isBlank(line []string) bool {
	for _, c := range line {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
