package xltutor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/xltutor-go/pkg/xltutor/address"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/models"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/parser"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/sheet"
)

// Import reads every worksheet of an xlsx file as sandbox sheet data.
// Empty worksheets are reported with zero rows and columns.
func Import(path string, opts Options) (*models.WorkbookData, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	printAreas := parser.ExtractPrintAreas(f)
	sheets := make(map[string]models.SheetData)
	for _, sheetName := range f.GetSheetList() {
		data, err := importSheet(f, sheetName, printAreas[sheetName], opts)
		if errors.Is(err, ErrEmptySheet) {
			sheets[sheetName] = models.SheetData{}
			continue
		}
		if err != nil {
			return nil, err
		}
		sheets[sheetName] = data
	}

	return &models.WorkbookData{
		BookName: filepath.Base(path),
		Sheets:   sheets,
	}, nil
}

// LoadSheet imports one worksheet and builds an editable sandbox from it.
// An empty sheetName selects the first worksheet.
func LoadSheet(path, sheetName string, opts Options) (*sheet.Sheet, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName, err = resolveSheet(f, sheetName)
	if err != nil {
		return nil, err
	}

	data, err := importSheet(f, sheetName, parser.ExtractPrintAreas(f)[sheetName], opts)
	if err != nil {
		return nil, err
	}

	s, err := sheet.New(data.Config(), opts.SheetOptions()...)
	if err != nil {
		return nil, NewWorkbookError(sheetName, "sheet", err)
	}
	return s, nil
}

// LoadLookupTable reads rangeStr of a worksheet as lookup table rows.
// An empty sheetName selects the first worksheet and an empty rangeStr the
// data bounds. Areas over DefaultMaxCells fail with parser.ErrAreaTooLarge.
func LoadLookupTable(path, sheetName, rangeStr string) ([][]interface{}, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName, err = resolveSheet(f, sheetName)
	if err != nil {
		return nil, err
	}

	rows, err := parser.ReadRows(f, sheetName)
	if err != nil {
		return nil, NewWorkbookError(sheetName, "cells", err)
	}

	var area address.Range
	if rangeStr == "" {
		var ok bool
		if area, ok = parser.DataBounds(rows); !ok {
			return nil, NewWorkbookError(sheetName, "cells", ErrEmptySheet)
		}
	} else if area, err = address.ParseRange(rangeStr); err != nil {
		return nil, NewWorkbookError(sheetName, "cells", err)
	}

	table, err := parser.ExtractTable(rows, area, DefaultMaxCells)
	if err != nil {
		return nil, NewWorkbookError(sheetName, "cells", err)
	}
	return table, nil
}

// Export writes the raw contents of s to a new workbook at path. The whole
// grid becomes the print area so a later import restores the same size.
func Export(path, sheetName string, s *sheet.Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheetName == "" {
		sheetName = "Sheet1"
	}
	if sheetName != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheetName); err != nil {
			return err
		}
	}

	if err := parser.WriteCells(f, sheetName, s.Snapshot()); err != nil {
		return NewWorkbookError(sheetName, "cells", err)
	}
	if err := parser.SetPrintArea(f, sheetName, address.NewRange(0, 0, s.Rows()-1, s.Cols()-1)); err != nil {
		return NewWorkbookError(sheetName, "print_areas", err)
	}

	return f.SaveAs(path)
}

func open(path string) (*excelize.File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return f, nil
}

func resolveSheet(f *excelize.File, sheetName string) (string, error) {
	list := f.GetSheetList()
	if sheetName == "" && len(list) > 0 {
		return list[0], nil
	}
	for _, name := range list {
		if name == sheetName {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrSheetNotFound, sheetName)
}

// importSheet sizes one worksheet per opts.Area and collects its cells.
// Data bounds come from cell values, so a formula without a cached value
// past the last value is only seen when a print area covers it.
func importSheet(f *excelize.File, sheetName string, printAreas []address.Range, opts Options) (models.SheetData, error) {
	rows, err := parser.ReadRows(f, sheetName)
	if err != nil {
		return models.SheetData{}, NewWorkbookError(sheetName, "cells", err)
	}

	bounds, hasData := parser.DataBounds(rows)

	var extent address.Range
	switch {
	case opts.Area == AreaPrint && len(printAreas) == 0:
		return models.SheetData{}, NewWorkbookError(sheetName, "print_areas", ErrNoPrintArea)
	case opts.Area != AreaData && len(printAreas) > 0:
		extent = printAreas[0]
	case hasData:
		extent = bounds
	default:
		return models.SheetData{}, NewWorkbookError(sheetName, "cells", ErrEmptySheet)
	}

	// always anchored at A1 so formula references keep their meaning
	area := address.NewRange(0, 0, extent.EndRow, extent.EndCol)
	cells, err := parser.ExtractCells(f, sheetName, rows, area, opts.MaxCells)
	if err != nil {
		return models.SheetData{}, NewWorkbookError(sheetName, "cells", err)
	}

	data := models.SheetData{
		Rows:  area.EndRow + 1,
		Cols:  area.EndCol + 1,
		Area:  area.String(),
		Cells: cells,
	}
	if opts.ShouldIncludeTables() {
		data.TableCandidates = parser.DetectTables(rows, parser.DefaultTableParams())
	}
	if opts.ShouldIncludePrintAreas() {
		for _, pa := range printAreas {
			data.PrintAreas = append(data.PrintAreas, pa.String())
		}
	}
	return data, nil
}
