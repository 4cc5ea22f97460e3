package parser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/xltutor-go/pkg/xltutor/address"
)

const printAreaName = "_xlnm.Print_Area"

// ExtractPrintAreas extracts print areas from a workbook.
// Returns a map of sheet name to list of print areas.
func ExtractPrintAreas(f *excelize.File) map[string][]address.Range {
	result := make(map[string][]address.Range)

	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, printAreaName) {
			continue
		}
		sheetName, areas := parsePrintAreaReference(dn.RefersTo)
		if sheetName == "" {
			sheetName = dn.Scope
		}
		if sheetName != "" && len(areas) > 0 {
			result[sheetName] = append(result[sheetName], areas...)
		}
	}

	return result
}

// SetPrintArea defines area as the print area of sheetName.
func SetPrintArea(f *excelize.File, sheetName string, area address.Range) error {
	start := absolute(address.CellAddress(area.StartRow, area.StartCol))
	end := absolute(address.CellAddress(area.EndRow, area.EndCol))
	return f.SetDefinedName(&excelize.DefinedName{
		Name:     printAreaName,
		RefersTo: fmt.Sprintf("'%s'!%s:%s", strings.ReplaceAll(sheetName, "'", "''"), start, end),
		Scope:    sheetName,
	})
}

// parsePrintAreaReference parses a print area reference string.
// Format: 'SheetName'!$A$1:$D$10 or SheetName!$A$1:$D$10
func parsePrintAreaReference(ref string) (string, []address.Range) {
	var areas []address.Range
	var sheetName string

	// multiple areas are comma separated
	for _, part := range strings.Split(ref, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		rangeStr := part
		if idx := strings.LastIndex(part, "!"); idx >= 0 {
			sheet := strings.Trim(part[:idx], "'")
			sheet = strings.ReplaceAll(sheet, "''", "'")
			if sheetName == "" {
				sheetName = sheet
			}
			rangeStr = part[idx+1:]
		}

		area, err := address.ParseRange(strings.ReplaceAll(rangeStr, "$", ""))
		if err != nil {
			continue
		}
		areas = append(areas, area)
	}

	return sheetName, areas
}

// absolute turns "B3" into "$B$3".
func absolute(cell string) string {
	i := strings.IndexAny(cell, "0123456789")
	if i <= 0 {
		return cell
	}
	return "$" + cell[:i] + "$" + cell[i:]
}
