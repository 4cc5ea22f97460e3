package parser

import (
	"github.com/ukaji3/xltutor-go/pkg/xltutor/address"
)

// TableDetectionParams holds parameters for table detection.
type TableDetectionParams struct {
	DensityMin       float64
	CoverageMin      float64
	MinNonemptyCells int
}

// DefaultTableParams returns default table detection parameters.
func DefaultTableParams() TableDetectionParams {
	return TableDetectionParams{
		DensityMin:       0.04,
		CoverageMin:      0.2,
		MinNonemptyCells: 3,
	}
}

// DetectTables detects table-like regions in a sheet's rows.
// Returns a list of cell ranges (e.g., "A1:D10") that likely represent tables.
func DetectTables(rows [][]string, params TableDetectionParams) []string {
	bounds, ok := DataBounds(rows)
	if !ok {
		return nil
	}

	nonEmptyCells, coveredRows := countNonEmptyCells(rows, bounds)
	if nonEmptyCells < params.MinNonemptyCells {
		return nil
	}

	density := float64(nonEmptyCells) / float64(bounds.Count())
	if density < params.DensityMin {
		return nil
	}

	// share of rows in the box holding more than one value
	coverage := float64(coveredRows) / float64(bounds.EndRow-bounds.StartRow+1)
	if coverage < params.CoverageMin {
		return nil
	}

	return []string{bounds.String()}
}

// DataBounds finds the bounding box of non-empty cells.
func DataBounds(rows [][]string) (address.Range, bool) {
	minRow, maxRow := -1, -1
	minCol, maxCol := -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell == "" {
				continue
			}
			if minRow < 0 || rowIdx < minRow {
				minRow = rowIdx
			}
			if maxRow < 0 || rowIdx > maxRow {
				maxRow = rowIdx
			}
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if maxCol < 0 || colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	if minRow < 0 {
		return address.Range{}, false
	}
	return address.NewRange(minRow, minCol, maxRow, maxCol), true
}

// countNonEmptyCells counts non-empty cells within bounds, and the rows
// holding at least two of them.
func countNonEmptyCells(rows [][]string, bounds address.Range) (cells, coveredRows int) {
	for rowIdx := bounds.StartRow; rowIdx <= bounds.EndRow && rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		n := 0
		for colIdx := bounds.StartCol; colIdx <= bounds.EndCol && colIdx < len(row); colIdx++ {
			if row[colIdx] != "" {
				n++
			}
		}
		cells += n
		if n > 1 {
			coveredRows++
		}
	}
	return cells, coveredRows
}
