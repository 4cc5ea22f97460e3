package xltutor

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a valid xlsx format.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ErrSheetNotFound indicates the requested worksheet is absent from the workbook.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrNoPrintArea indicates AreaPrint was requested for a sheet without one.
var ErrNoPrintArea = errors.New("sheet has no print area")

// ErrEmptySheet indicates a worksheet without any non-empty cell.
var ErrEmptySheet = errors.New("sheet is empty")

// WorkbookError represents an error while reading or writing one worksheet.
type WorkbookError struct {
	SheetName string
	Component string // "cells", "tables", "print_areas", "sheet"
	Err       error
}

func (e *WorkbookError) Error() string {
	return fmt.Sprintf("workbook error in sheet %q (%s): %v", e.SheetName, e.Component, e.Err)
}

func (e *WorkbookError) Unwrap() error {
	return e.Err
}

// NewWorkbookError creates a new WorkbookError.
func NewWorkbookError(sheetName, component string, err error) *WorkbookError {
	return &WorkbookError{
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}
