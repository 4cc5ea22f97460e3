// Package sheet holds the sparse cell store behind one sandbox grid and
// materializes display values through the formula evaluator.
package sheet

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/xltutor-go/pkg/xltutor/address"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/formula"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/models"
)

// DefaultMaxDepth is the longest formula reference chain followed before a
// cell is reported as a cycle.
const DefaultMaxDepth = 64

// ErrInvalidDimensions indicates non-positive or oversized sheet dimensions.
var ErrInvalidDimensions = errors.New("invalid sheet dimensions")

// ErrOutOfBounds indicates an address outside the sheet's rows and columns.
var ErrOutOfBounds = errors.New("address outside the sheet")

// ErrNotEditable indicates an edit to a locked cell.
var ErrNotEditable = errors.New("cell is not editable")

// Option configures a Sheet.
type Option func(*Sheet)

// WithMaxDepth sets the reference chain limit. Values below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(s *Sheet) {
		if n > 0 {
			s.maxDepth = n
		}
	}
}

// WithRules extends the evaluator with additional formula rules.
func WithRules(rules ...formula.Rule) Option {
	return func(s *Sheet) {
		s.rules = append(s.rules, rules...)
	}
}

// Sheet is a fixed-size grid of raw cell values. It is not safe for
// concurrent mutation; each widget or request owns its own Sheet.
type Sheet struct {
	rows, cols  int
	cells       map[string]string
	editable    map[string]bool // nil means every cell is editable
	highlighted map[string]bool
	maxDepth    int
	rules       []formula.Rule
	eval        *formula.Evaluator
}

// New builds a sheet from its static configuration and seeds the initial data.
func New(cfg models.SheetConfig, opts ...Option) (*Sheet, error) {
	if cfg.Rows <= 0 || cfg.Cols <= 0 || cfg.Rows > excelize.TotalRows || cfg.Cols > excelize.MaxColumns {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, cfg.Rows, cfg.Cols)
	}

	s := &Sheet{
		rows:        cfg.Rows,
		cols:        cfg.Cols,
		cells:       make(map[string]string, len(cfg.InitialData)),
		highlighted: make(map[string]bool, len(cfg.HighlightCells)),
		maxDepth:    DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.eval = formula.New(formula.WithBounds(s.rows, s.cols), formula.WithRules(s.rules...))

	for addr, raw := range cfg.InitialData {
		if err := s.Set(addr, raw); err != nil {
			return nil, fmt.Errorf("initial data: %w", err)
		}
	}
	if cfg.EditableCells != nil {
		s.editable = make(map[string]bool, len(cfg.EditableCells))
		for _, addr := range cfg.EditableCells {
			key, err := s.key(addr)
			if err != nil {
				return nil, fmt.Errorf("editable cells: %w", err)
			}
			s.editable[key] = true
		}
	}
	for _, addr := range cfg.HighlightCells {
		key, err := s.key(addr)
		if err != nil {
			return nil, fmt.Errorf("highlight cells: %w", err)
		}
		s.highlighted[key] = true
	}
	return s, nil
}

// Rows returns the number of rows.
func (s *Sheet) Rows() int { return s.rows }

// Cols returns the number of columns.
func (s *Sheet) Cols() int { return s.cols }

// key normalizes addr and checks it against the sheet bounds.
func (s *Sheet) key(addr string) (string, error) {
	row, col, err := address.ParseCell(addr)
	if err != nil {
		return "", err
	}
	if row >= s.rows || col >= s.cols {
		return "", fmt.Errorf("%w: %s in %dx%d", ErrOutOfBounds, addr, s.rows, s.cols)
	}
	return address.CellAddress(row, col), nil
}

// Get returns the raw value at addr, or "" when absent or invalid.
func (s *Sheet) Get(addr string) string {
	key, err := s.key(addr)
	if err != nil {
		return ""
	}
	return s.cells[key]
}

// Set stores a raw value. The empty string removes the cell.
func (s *Sheet) Set(addr, value string) error {
	key, err := s.key(addr)
	if err != nil {
		return err
	}
	if value == "" {
		delete(s.cells, key)
		return nil
	}
	s.cells[key] = value
	return nil
}

// Edit stores a raw value on behalf of the learner, honouring the editable set.
func (s *Sheet) Edit(addr, value string) error {
	if !s.Editable(addr) {
		return fmt.Errorf("%w: %s", ErrNotEditable, addr)
	}
	return s.Set(addr, value)
}

// Editable reports whether the learner may change addr.
func (s *Sheet) Editable(addr string) bool {
	key, err := s.key(addr)
	if err != nil {
		return false
	}
	return s.editable == nil || s.editable[key]
}

// Highlighted reports whether addr is rendered with emphasis.
func (s *Sheet) Highlighted(addr string) bool {
	key, err := s.key(addr)
	if err != nil {
		return false
	}
	return s.highlighted[key]
}

// evalState memoizes display values for one or more cells evaluated together.
// A cached result depends only on the cell, not on the path that reached it:
// a cell is #CYCLE exactly when it reaches a reference loop or its longest
// formula chain is longer than maxDepth.
type evalState struct {
	visiting map[string]bool
	done     map[string]result
}

type result struct {
	value models.Value
	// height counts the formula cells on the longest chain below and including this one.
	height int
}

func newEvalState() *evalState {
	return &evalState{
		visiting: make(map[string]bool),
		done:     make(map[string]result),
	}
}

// Display returns the evaluated value at addr.
func (s *Sheet) Display(addr string) models.Value {
	return s.displayWith(addr, newEvalState())
}

// DisplayText returns the text shown in the cell at addr.
func (s *Sheet) DisplayText(addr string) string {
	return s.Display(addr).String()
}

func (s *Sheet) displayWith(addr string, st *evalState) models.Value {
	key, err := s.key(addr)
	if err != nil {
		return models.EmptyValue()
	}
	return s.display(key, st).value
}

func (s *Sheet) display(key string, st *evalState) result {
	raw := s.cells[key]
	if !strings.HasPrefix(raw, "=") {
		return result{value: models.TextValue(raw)}
	}
	if r, ok := st.done[key]; ok {
		return r
	}
	if st.visiting[key] {
		// the cell being evaluated further up caches its own result
		return result{value: models.ErrorValue(models.ErrorCycleDetected, raw)}
	}

	st.visiting[key] = true
	tainted := false
	height := 0
	v := s.eval.Evaluate(raw, func(ref string) (string, bool) {
		refKey, err := s.key(ref)
		if err != nil {
			return "", false
		}
		rv := s.display(refKey, st)
		if rv.value.IsError(models.ErrorCycleDetected) {
			tainted = true
			return "", false
		}
		if rv.height > height {
			height = rv.height
		}
		text := rv.value.String()
		return text, text != ""
	})
	delete(st.visiting, key)

	r := result{value: v, height: height + 1}
	if tainted || r.height > s.maxDepth {
		r.value = models.ErrorValue(models.ErrorCycleDetected, raw)
	}
	st.done[key] = r
	return r
}

// Grid returns the display text of every cell, indexed [row][col].
func (s *Sheet) Grid() [][]string {
	out := make([][]string, s.rows)
	for r := range out {
		out[r] = make([]string, s.cols)
	}
	st := newEvalState()
	for _, key := range s.Addresses() {
		row, col, _ := address.ParseCell(key)
		out[row][col] = s.display(key, st).value.String()
	}
	return out
}

// CellRows returns the non-empty rows with display text, and raw text for
// formula cells.
func (s *Sheet) CellRows() []models.CellRow {
	var rows []models.CellRow
	st := newEvalState()
	for _, key := range s.Addresses() {
		row, col, _ := address.ParseCell(key)
		if len(rows) == 0 || rows[len(rows)-1].R != row+1 {
			rows = append(rows, models.CellRow{R: row + 1, C: make(map[string]string)})
		}
		cur := &rows[len(rows)-1]
		label := address.ColumnLabel(col)
		cur.C[label] = s.display(key, st).value.String()
		if raw := s.cells[key]; strings.HasPrefix(raw, "=") {
			if cur.Raw == nil {
				cur.Raw = make(map[string]string)
			}
			cur.Raw[label] = raw
		}
	}
	return rows
}

// Addresses lists the occupied addresses in row-major order.
func (s *Sheet) Addresses() []string {
	type coord struct {
		key      string
		row, col int
	}
	coords := make([]coord, 0, len(s.cells))
	for key := range s.cells {
		row, col, _ := address.ParseCell(key)
		coords = append(coords, coord{key, row, col})
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].row != coords[j].row {
			return coords[i].row < coords[j].row
		}
		return coords[i].col < coords[j].col
	})
	out := make([]string, len(coords))
	for i, c := range coords {
		out[i] = c.key
	}
	return out
}

// Snapshot returns a copy of the raw cell map.
func (s *Sheet) Snapshot() map[string]string {
	out := make(map[string]string, len(s.cells))
	for k, v := range s.cells {
		out[k] = v
	}
	return out
}

// Progress compares targets against the sheet. A target matches when either
// the display text or the raw value equals the expected text, ignoring case
// and surrounding whitespace.
func (s *Sheet) Progress(targets map[string]string) models.Progress {
	p := models.Progress{
		Total: len(targets),
		Cells: make(map[string]bool, len(targets)),
	}
	st := newEvalState()
	for addr, expected := range targets {
		want := fold(expected)
		ok := fold(s.displayWith(addr, st).String()) == want || fold(s.Get(addr)) == want
		p.Cells[strings.ToUpper(addr)] = ok
		if ok {
			p.Correct++
		}
	}
	p.Complete = p.Total > 0 && p.Correct == p.Total
	return p
}

func fold(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
