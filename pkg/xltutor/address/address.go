// Package address converts between A1-style cell addresses and zero-based
// (row, col) coordinates, and decodes range tokens such as "A1:B3".
package address

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrInvalidAddress indicates a token that is not a <ColLetters><Row> address.
var ErrInvalidAddress = errors.New("invalid cell address")

// ErrUnparseableRange indicates a token that is not a <Col><Row>:<Col><Row> range.
var ErrUnparseableRange = errors.New("unparseable range")

var cellPattern = regexp.MustCompile(`^([A-Za-z]{1,3})([0-9]+)$`)

// ColumnLabel returns the column letters for a zero-based column index:
// 0 -> A, 25 -> Z, 26 -> AA, 701 -> ZZ. It returns "" outside the worksheet
// column limit.
func ColumnLabel(col int) string {
	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return ""
	}
	return name
}

// CellAddress returns the A1-style address of a zero-based (row, col) pair.
func CellAddress(row, col int) string {
	label := ColumnLabel(col)
	if label == "" || row < 0 {
		return ""
	}
	return label + strconv.Itoa(row+1)
}

// ParseCell decodes an address into zero-based (row, col). Column letters are
// case-insensitive.
func ParseCell(addr string) (row, col int, err error) {
	m := cellPattern.FindStringSubmatch(strings.TrimSpace(addr))
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	c, r, err := excelize.CellNameToCoordinates(strings.ToUpper(m[1]) + m[2])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %v", ErrInvalidAddress, addr, err)
	}
	return r - 1, c - 1, nil
}

// Normalize returns the canonical upper-case form of an address.
func Normalize(addr string) (string, error) {
	row, col, err := ParseCell(addr)
	if err != nil {
		return "", err
	}
	return CellAddress(row, col), nil
}

// Range is a rectangular block of cells with inclusive zero-based bounds.
// StartRow <= EndRow and StartCol <= EndCol always hold.
type Range struct {
	StartRow int `json:"start_row"`
	StartCol int `json:"start_col"`
	EndRow   int `json:"end_row"`
	EndCol   int `json:"end_col"`
}

// ParseRange decodes "A1:B3". Corners given in reverse order ("B3:A1") are
// swapped into ascending order.
func ParseRange(token string) (Range, error) {
	parts := strings.Split(strings.TrimSpace(token), ":")
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("%w: %q", ErrUnparseableRange, token)
	}
	r1, c1, err := ParseCell(parts[0])
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q: %v", ErrUnparseableRange, token, err)
	}
	r2, c2, err := ParseCell(parts[1])
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q: %v", ErrUnparseableRange, token, err)
	}
	return NewRange(r1, c1, r2, c2), nil
}

// NewRange builds a range from two corners in any order.
func NewRange(row1, col1, row2, col2 int) Range {
	return Range{
		StartRow: min(row1, row2),
		StartCol: min(col1, col2),
		EndRow:   max(row1, row2),
		EndCol:   max(col1, col2),
	}
}

// Contains reports whether (row, col) lies inside the range.
func (r Range) Contains(row, col int) bool {
	return row >= r.StartRow && row <= r.EndRow && col >= r.StartCol && col <= r.EndCol
}

// Size returns the number of rows and columns covered.
func (r Range) Size() (rows, cols int) {
	return r.EndRow - r.StartRow + 1, r.EndCol - r.StartCol + 1
}

// Count returns the number of cells covered.
func (r Range) Count() int {
	rows, cols := r.Size()
	return rows * cols
}

// Addresses lists every address of the range in row-major order.
func (r Range) Addresses() []string {
	rows, cols := r.Size()
	out := make([]string, 0, rows*cols)
	for row := r.StartRow; row <= r.EndRow; row++ {
		for col := r.StartCol; col <= r.EndCol; col++ {
			out = append(out, CellAddress(row, col))
		}
	}
	return out
}

// String renders the range as "A1:B3".
func (r Range) String() string {
	return CellAddress(r.StartRow, r.StartCol) + ":" + CellAddress(r.EndRow, r.EndCol)
}
