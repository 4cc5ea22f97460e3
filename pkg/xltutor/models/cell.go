// Package models defines data structures shared by the spreadsheet sandbox,
// the lookup trainer, and the HTTP and CLI surfaces.
package models

// Cell represents a single addressable cell and its raw value.
type Cell struct {
	// Address is the A1-style address (e.g., "B3").
	Address string `json:"address"`
	// Raw is the raw text: empty, a literal, or a formula starting with "=".
	Raw string `json:"raw"`
}

// CellRow represents a single row of evaluated cells.
type CellRow struct {
	// R is the row index (1-based).
	R int `json:"r"`
	// C maps column label (e.g., "A") to display text.
	C map[string]string `json:"c"`
	// Raw maps column label to the raw text for formula cells only (optional).
	Raw map[string]string `json:"raw,omitempty"`
}
