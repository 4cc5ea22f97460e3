package sheet

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/xltutor-go/pkg/xltutor/address"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/models"
)

func newSheet(t *testing.T, rows, cols int, data map[string]string, opts ...Option) *Sheet {
	t.Helper()
	s, err := New(models.SheetConfig{Rows: rows, Cols: cols, InitialData: data}, opts...)
	require.NoError(t, err)
	return s
}

func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  models.SheetConfig
		err  error
	}{
		{"zero rows", models.SheetConfig{Rows: 0, Cols: 3}, ErrInvalidDimensions},
		{"negative cols", models.SheetConfig{Rows: 3, Cols: -1}, ErrInvalidDimensions},
		{"too many cols", models.SheetConfig{Rows: 3, Cols: 16385}, ErrInvalidDimensions},
		{"seed outside grid", models.SheetConfig{Rows: 2, Cols: 2, InitialData: map[string]string{"C1": "x"}}, ErrOutOfBounds},
		{"editable outside grid", models.SheetConfig{Rows: 2, Cols: 2, EditableCells: []string{"A9"}}, ErrOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestGetSet(t *testing.T) {
	s := newSheet(t, 4, 3, nil)

	require.NoError(t, s.Set("b3", "hello"))
	assert.Equal(t, "hello", s.Get("B3"))
	assert.Equal(t, "hello", s.Get("b3"))
	assert.Equal(t, "", s.Get("A1"))
	assert.Equal(t, "", s.Get("not-an-address"))

	require.NoError(t, s.Set("B3", ""))
	assert.Empty(t, s.Snapshot())

	assert.ErrorIs(t, s.Set("D1", "x"), ErrOutOfBounds)
	assert.ErrorIs(t, s.Set("A5", "x"), ErrOutOfBounds)
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		name     string
		data     map[string]string
		addr     string
		expected string
	}{
		{"literal", map[string]string{"A1": "Name"}, "A1", "Name"},
		{"empty", nil, "A1", ""},
		{"sum skips text", map[string]string{"A1": "1", "A2": "x", "A3": "3", "B1": "=SUM(A1:A3)"}, "B1", "4"},
		{"min excludes empty", map[string]string{"A2": "5", "A3": "2", "B1": "=MIN(A1:A3)"}, "B1", "2"},
		{"min all empty", map[string]string{"B1": "=MIN(A1:A3)"}, "B1", "0"},
		{"add", map[string]string{"A1": "15", "B1": "25", "C1": "=A1+B1"}, "C1", "40"},
		{"add reversed", map[string]string{"A1": "15", "B1": "25", "C1": "=B1+A1"}, "C1", "40"},
		{"unsupported", map[string]string{"B1": "=AVERAGE(A1:A3)"}, "B1", "=AVERAGE(A1:A3)"},
		{"chained formulas", map[string]string{"C1": "1", "C2": "2", "B1": "=SUM(C1:C2)", "D1": "4", "A1": "=B1+D1"}, "A1", "7"},
		{"reference outside grid", map[string]string{"A1": "5", "B2": "=A1+A4"}, "B2", "5"},
		{"sum over formulas", map[string]string{"A1": "=B1+B2", "B1": "2", "B2": "3", "C1": "=SUM(A1:B2)"}, "C1", "10"},
		{"lower case address", map[string]string{"a1": "2", "b1": "=a1+a1"}, "B1", "4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSheet(t, 3, 4, tt.data)
			assert.Equal(t, tt.expected, s.DisplayText(tt.addr))
		})
	}
}

func TestDisplayCycles(t *testing.T) {
	tests := []struct {
		name string
		data map[string]string
		addr string
	}{
		{"self add", map[string]string{"A1": "=A1+B1"}, "A1"},
		{"self range", map[string]string{"A1": "1", "A3": "=SUM(A1:A3)"}, "A3"},
		{"two cell loop", map[string]string{"A1": "=B1+C1", "B1": "=A1+C1"}, "B1"},
		{"depends on loop", map[string]string{"A1": "=B1+C1", "B1": "=C1+C1", "C1": "=MAX(A1:B1)"}, "A1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSheet(t, 3, 3, tt.data)
			v := s.Display(tt.addr)
			assert.True(t, v.IsError(models.ErrorCycleDetected), "got %+v", v)
			assert.Equal(t, "#CYCLE", v.String())
		})
	}
}

func TestDisplayDepthGuard(t *testing.T) {
	data := map[string]string{
		"A1": "1",
		"A2": "=A1+A1",
		"A3": "=A2+A2",
		"A4": "=A3+A3",
		"A5": "=A4+A4",
	}

	s := newSheet(t, 5, 1, data)
	assert.Equal(t, "16", s.DisplayText("A5"))

	shallow := newSheet(t, 5, 1, data, WithMaxDepth(3))
	assert.Equal(t, "4", shallow.DisplayText("A3"))
	assert.Equal(t, "#CYCLE", shallow.DisplayText("A5"))
}

func finishesWithin(t *testing.T, d time.Duration, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		fn()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("evaluation did not finish within %s", d)
	}
}

func TestCycleDoesNotDisableCaching(t *testing.T) {
	// A1 loops on itself; every later column sums everything before it
	const n = 40
	data := map[string]string{"A1": "=A1+A1"}
	for c := 1; c < n; c++ {
		data[address.CellAddress(0, c)] = fmt.Sprintf("=SUM(A1:%s)", address.CellAddress(0, c-1))
	}
	s := newSheet(t, 1, n, data)

	last := address.CellAddress(0, n-1)
	finishesWithin(t, 2*time.Second, func() {
		assert.Equal(t, "#CYCLE", s.DisplayText(last))
	})
}

func TestCycleStaysLocal(t *testing.T) {
	s := newSheet(t, 1, 4, map[string]string{
		"A1": "=A1+A1",
		"B1": "5",
		"C1": "=B1+B1",
		"D1": "=SUM(A1:C1)",
	})

	// D1 reads the loop; C1 is evaluated after it in the same pass but does not
	assert.Equal(t, [][]string{{"#CYCLE", "5", "10", "#CYCLE"}}, s.Grid())
	assert.Equal(t, "10", s.DisplayText("C1"))
}

func TestGridLongChain(t *testing.T) {
	const n = 500
	data := map[string]string{"A1": "1"}
	for r := 1; r < n; r++ {
		data[address.CellAddress(r, 0)] = fmt.Sprintf("=MAX(A1:A%d)", r)
	}
	s := newSheet(t, n, 1, data, WithMaxDepth(n))

	var grid [][]string
	finishesWithin(t, 5*time.Second, func() {
		grid = s.Grid()
	})
	require.Len(t, grid, n)
	assert.Equal(t, "1", grid[n-1][0])
	assert.Len(t, s.CellRows(), n)
}

func TestDepthGuardIgnoresEvaluationOrder(t *testing.T) {
	// A1 depends on A2, which depends on A3, and so on
	data := map[string]string{"A6": "1"}
	for r := 0; r < 5; r++ {
		data[address.CellAddress(r, 0)] = fmt.Sprintf("=A%d+A%d", r+2, r+2)
	}
	s := newSheet(t, 6, 1, data, WithMaxDepth(3))

	grid := s.Grid()
	for r := 0; r < 6; r++ {
		addr := address.CellAddress(r, 0)
		assert.Equal(t, s.DisplayText(addr), grid[r][0], addr)
	}
	assert.Equal(t, "#CYCLE", grid[0][0])
	assert.Equal(t, "8", grid[2][0])
}

func TestEditable(t *testing.T) {
	s, err := New(models.SheetConfig{
		Rows:           5,
		Cols:           4,
		InitialData:    map[string]string{"B3": "⭐"},
		EditableCells:  []string{"a1"},
		HighlightCells: []string{"B3"},
	})
	require.NoError(t, err)

	assert.True(t, s.Editable("A1"))
	assert.False(t, s.Editable("B3"))
	assert.True(t, s.Highlighted("b3"))
	assert.False(t, s.Highlighted("A1"))

	require.NoError(t, s.Edit("A1", "B3"))
	assert.ErrorIs(t, s.Edit("B3", "x"), ErrNotEditable)
	assert.Equal(t, "⭐", s.Get("B3"))

	all := newSheet(t, 2, 2, nil)
	assert.True(t, all.Editable("B2"))
	assert.False(t, all.Editable("C1"))

	none, err := New(models.SheetConfig{Rows: 2, Cols: 2, EditableCells: []string{}})
	require.NoError(t, err)
	assert.False(t, none.Editable("A1"))
}

func TestProgress(t *testing.T) {
	s := newSheet(t, 6, 4, nil)
	targets := map[string]string{"A1": "Name", "B1": "Age", "C1": "City", "D1": "Phone"}

	p := s.Progress(targets)
	assert.Equal(t, 0, p.Correct)
	assert.Equal(t, 4, p.Total)
	assert.False(t, p.Complete)

	require.NoError(t, s.Set("A1", "  name "))
	require.NoError(t, s.Set("B1", "AGE"))
	require.NoError(t, s.Set("C1", "City"))
	p = s.Progress(targets)
	assert.Equal(t, 3, p.Correct)
	assert.False(t, p.Cells["D1"])

	require.NoError(t, s.Set("D1", "phone"))
	assert.True(t, s.Progress(targets).Complete)

	assert.False(t, s.Progress(nil).Complete)
}

func TestProgressFormulaTargets(t *testing.T) {
	s := newSheet(t, 7, 2, map[string]string{
		"B1": "3.50", "B2": "2.00", "B3": "4.50", "B4": "3.00", "B5": "5.00",
		"B6": "=sum(b1:b5)",
	})

	assert.True(t, s.Progress(map[string]string{"B6": "18"}).Complete)
	// the raw formula text is accepted as well
	assert.True(t, s.Progress(map[string]string{"B6": "=SUM(B1:B5)"}).Complete)
	assert.False(t, s.Progress(map[string]string{"B6": "17"}).Complete)
}

func TestGridAndRows(t *testing.T) {
	s := newSheet(t, 2, 3, map[string]string{"A1": "1", "C1": "2", "B2": "=A1+C1"})

	assert.Equal(t, [][]string{{"1", "", "2"}, {"", "3", ""}}, s.Grid())
	assert.Equal(t, []string{"A1", "C1", "B2"}, s.Addresses())

	rows := s.CellRows()
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].R)
	assert.Equal(t, map[string]string{"A": "1", "C": "2"}, rows[0].C)
	assert.Nil(t, rows[0].Raw)
	assert.Equal(t, map[string]string{"B": "3"}, rows[1].C)
	assert.Equal(t, map[string]string{"B": "=A1+C1"}, rows[1].Raw)
}
