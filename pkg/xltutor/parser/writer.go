package parser

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// WriteCells stores raw sandbox values into sheetName. Formulas are written
// as formulas, canonical numbers as numbers, and everything else as text so
// the raw value survives a round trip. Empty values are skipped.
func WriteCells(f *excelize.File, sheetName string, cells map[string]string) error {
	for cellName, raw := range cells {
		if raw == "" {
			continue
		}
		var err error
		switch {
		case strings.HasPrefix(raw, "="):
			err = f.SetCellFormula(sheetName, cellName, strings.TrimPrefix(raw, "="))
		case isCanonicalNumber(raw):
			n, _ := strconv.ParseFloat(raw, 64)
			err = f.SetCellValue(sheetName, cellName, n)
		default:
			err = f.SetCellStr(sheetName, cellName, raw)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func isCanonicalNumber(s string) bool {
	n, err := strconv.ParseFloat(s, 64)
	return err == nil && strconv.FormatFloat(n, 'f', -1, 64) == s
}
