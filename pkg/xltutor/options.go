// Package xltutor loads practice sheets from workbooks, writes sandboxes back
// out, and builds sheets with library-wide settings.
package xltutor

import "github.com/ukaji3/xltutor-go/pkg/xltutor/sheet"

// DefaultMaxCells bounds the cells scanned per imported worksheet.
const DefaultMaxCells = 100000

// AreaMode selects how an imported worksheet is sized.
type AreaMode string

const (
	// AreaAuto uses the first print area when one is defined, otherwise the data bounds.
	AreaAuto AreaMode = "auto"
	// AreaData always uses the bounding box of non-empty cells.
	AreaData AreaMode = "data"
	// AreaPrint requires a print area and fails without one.
	AreaPrint AreaMode = "print"
)

// Options configures import and sheet construction.
type Options struct {
	// Area specifies how imported sheets are sized.
	Area AreaMode
	// MaxDepth bounds formula reference chains. Zero uses sheet.DefaultMaxDepth.
	MaxDepth int
	// MaxCells bounds the cells scanned per worksheet. Zero means no limit.
	MaxCells int
	// IncludeTables specifies whether to detect table candidates.
	// If nil, defaults to true.
	IncludeTables *bool
	// IncludePrintAreas specifies whether to report print areas.
	// If nil, defaults to true unless Area is AreaData.
	IncludePrintAreas *bool
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		Area:     AreaAuto,
		MaxDepth: sheet.DefaultMaxDepth,
		MaxCells: DefaultMaxCells,
	}
}

// ShouldIncludeTables returns whether to detect table candidates.
func (o Options) ShouldIncludeTables() bool {
	if o.IncludeTables != nil {
		return *o.IncludeTables
	}
	return true
}

// ShouldIncludePrintAreas returns whether to read print areas.
func (o Options) ShouldIncludePrintAreas() bool {
	if o.IncludePrintAreas != nil {
		return *o.IncludePrintAreas
	}
	return o.Area != AreaData
}

// SheetOptions converts o into sheet construction options.
func (o Options) SheetOptions() []sheet.Option {
	return []sheet.Option{sheet.WithMaxDepth(o.MaxDepth)}
}
