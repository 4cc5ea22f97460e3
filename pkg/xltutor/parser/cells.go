package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/xltutor-go/pkg/xltutor/address"
)

// ErrAreaTooLarge indicates an area with more cells than the caller allows.
var ErrAreaTooLarge = errors.New("area too large")

// ReadRows returns the raw cell values of a sheet without number formatting.
func ReadRows(f *excelize.File, sheetName string) ([][]string, error) {
	return f.GetRows(sheetName, excelize.Options{RawCellValue: true})
}

// ExtractCells collects the non-empty cells of area as address to raw value.
// Formula cells are returned as their formula text with a leading "=".
// maxCells bounds the number of cells scanned; zero means no limit.
func ExtractCells(f *excelize.File, sheetName string, rows [][]string, area address.Range, maxCells int) (map[string]string, error) {
	if maxCells > 0 && area.Count() > maxCells {
		return nil, fmt.Errorf("%w: %s has %d cells (limit %d)", ErrAreaTooLarge, area, area.Count(), maxCells)
	}

	cells := make(map[string]string)
	for r := area.StartRow; r <= area.EndRow; r++ {
		for c := area.StartCol; c <= area.EndCol; c++ {
			cellName := address.CellAddress(r, c)

			// Formulas without a cached value read back as "" from GetRows
			formula, err := f.GetCellFormula(sheetName, cellName)
			if err != nil {
				return nil, err
			}
			if formula != "" {
				cells[cellName] = "=" + strings.TrimPrefix(formula, "=")
				continue
			}

			if r < len(rows) && c < len(rows[r]) && rows[r][c] != "" {
				cells[cellName] = rows[r][c]
			}
		}
	}

	return cells, nil
}

// ExtractTable reads area as lookup table rows. Every row has the width of
// area; numeric cells become int64 or float64. maxCells bounds the area as
// in ExtractCells.
func ExtractTable(rows [][]string, area address.Range, maxCells int) ([][]interface{}, error) {
	if maxCells > 0 && area.Count() > maxCells {
		return nil, fmt.Errorf("%w: %s has %d cells (limit %d)", ErrAreaTooLarge, area, area.Count(), maxCells)
	}

	result := make([][]interface{}, 0, area.EndRow-area.StartRow+1)
	for r := area.StartRow; r <= area.EndRow; r++ {
		row := make([]interface{}, 0, area.EndCol-area.StartCol+1)
		for c := area.StartCol; c <= area.EndCol; c++ {
			var v string
			if r < len(rows) && c < len(rows[r]) {
				v = rows[r][c]
			}
			row = append(row, parseValue(v))
		}
		result = append(result, row)
	}
	return result, nil
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) interface{} {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return s
}
