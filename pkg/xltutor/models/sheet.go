package models

// SheetConfig is the static configuration of one sandbox grid.
type SheetConfig struct {
	// Rows is the number of rows (positive).
	Rows int `json:"rows" yaml:"rows"`
	// Cols is the number of columns (positive).
	Cols int `json:"cols" yaml:"cols"`
	// InitialData maps address to raw value for seeded cells.
	InitialData map[string]string `json:"initialData,omitempty" yaml:"initialData,omitempty"`
	// EditableCells lists the editable addresses. Nil means every cell is editable.
	EditableCells []string `json:"editableCells" yaml:"editableCells,omitempty"`
	// HighlightCells lists addresses rendered with emphasis (display only).
	HighlightCells []string `json:"highlightCells,omitempty" yaml:"highlightCells,omitempty"`
	// TargetValues maps address to the expected display value.
	TargetValues map[string]string `json:"targetValues,omitempty" yaml:"targetValues,omitempty"`
	// Instructions is the task text shown above the grid.
	Instructions string `json:"instructions,omitempty" yaml:"instructions,omitempty"`
}

// SheetData represents a worksheet read from a workbook file.
type SheetData struct {
	// Rows is the number of rows covered by the sheet's area.
	Rows int `json:"rows"`
	// Cols is the number of columns covered by the sheet's area.
	Cols int `json:"cols"`
	// Area is the range the sheet was sized from, e.g. "A1:D10".
	// Imported sheets always start at A1 so formula references keep their meaning.
	Area string `json:"area,omitempty"`
	// Cells maps address to raw value. Formulas carry their leading "=".
	Cells map[string]string `json:"cells,omitempty"`
	// TableCandidates contains cell ranges likely representing tables.
	TableCandidates []string `json:"table_candidates,omitempty"`
	// PrintAreas contains user-defined print areas.
	PrintAreas []string `json:"print_areas,omitempty"`
}

// Config converts imported sheet data into a fully editable sandbox configuration.
func (s SheetData) Config() SheetConfig {
	return SheetConfig{
		Rows:        s.Rows,
		Cols:        s.Cols,
		InitialData: s.Cells,
	}
}

// Progress reports how many target cells currently hold their expected value.
type Progress struct {
	// Correct is the number of matching targets.
	Correct int `json:"correct"`
	// Total is the number of targets.
	Total int `json:"total"`
	// Complete is true when every target matches.
	Complete bool `json:"complete"`
	// Cells maps each target address to whether it matches.
	Cells map[string]bool `json:"cells,omitempty"`
}
