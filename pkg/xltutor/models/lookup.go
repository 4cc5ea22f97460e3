package models

// LookupRequest is the input of one lookup simulation.
type LookupRequest struct {
	// LookupValue is searched for in the first column.
	LookupValue string `json:"lookupValue"`
	// TableData holds the search rows (header excluded).
	TableData [][]interface{} `json:"tableData"`
	// ColumnIndex is the 1-based column to return from the matched row.
	ColumnIndex int `json:"columnIndex"`
	// RangeLookup selects approximate mode; false means exact match.
	RangeLookup bool `json:"rangeLookup"`
}

// LookupResult is the outcome of one lookup simulation.
type LookupResult struct {
	// Result is the value from the matched row, nil when nothing was found.
	Result interface{} `json:"result"`
	// MatchedRow is the zero-based index of the matched row.
	MatchedRow *int `json:"matchedRow"`
	// Steps is the narrated trace of the search.
	Steps []string `json:"steps"`
	// Success is true when a value was returned.
	Success bool `json:"success"`
	// Error names the failure kind when Success is false.
	Error ErrorKind `json:"error,omitempty"`
}
