// Package tui is a terminal sandbox for a single sheet.
package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/ukaji3/xltutor-go/pkg/xltutor/address"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/models"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/sheet"
)

const (
	ModeNormal = "normal"
	ModeInsert = "insert"
)

type App struct {
	// layout
	LeftGutter  int
	StatusLines int
	ColWidth    int
	CellPadding int

	Sheet        *sheet.Sheet
	Targets      map[string]string
	Instructions string

	// cursor / view
	CurRow  int
	CurCol  int
	ViewRow int
	ViewCol int

	// UI state
	Mode              string // normal | insert
	InputBuf          []rune
	ReplaceOnNextRune bool
	Message           string
	Quit              bool

	// OnComplete runs once, the first time every target matches.
	OnComplete func(models.Progress)
	completed  bool
}

// NewApp wraps sh. targets and instructions usually come from the same
// SheetConfig sh was built from; both may be empty.
func NewApp(sh *sheet.Sheet, targets map[string]string, instructions string) *App {
	return &App{
		LeftGutter:   4,
		StatusLines:  3,
		ColWidth:     12,
		CellPadding:  1,
		Sheet:        sh,
		Targets:      targets,
		Instructions: instructions,
		Mode:         ModeNormal,
	}
}

// Run drives s until the user quits. s must not be initialized yet.
func Run(s tcell.Screen, a *App) error {
	if err := s.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer s.Fini()
	s.Clear()

	for !a.Quit {
		a.EnsureCursorVisible(s)
		a.Draw(s)
		switch ev := s.PollEvent().(type) {
		case *tcell.EventKey:
			a.HandleKeyEvent(ev)
		case *tcell.EventResize:
			s.Sync()
		case nil:
			return nil
		}
	}
	return nil
}

// Cursor returns the address under the cursor.
func (a *App) Cursor() string {
	return address.CellAddress(a.CurRow, a.CurCol)
}

// Progress compares the sheet with the app's targets.
func (a *App) Progress() models.Progress {
	return a.Sheet.Progress(a.Targets)
}

// ----------------------------- Events / Input -----------------------------

func (a *App) HandleKeyEvent(ev *tcell.EventKey) {
	if a.Mode == ModeInsert {
		a.handleInsert(ev)
		return
	}

	switch ev.Key() {
	case tcell.KeyCtrlC:
		a.Quit = true
	case tcell.KeyUp:
		if a.CurRow > 0 {
			a.CurRow--
		}
	case tcell.KeyDown:
		if a.CurRow < a.Sheet.Rows()-1 {
			a.CurRow++
		}
	case tcell.KeyLeft:
		if a.CurCol > 0 {
			a.CurCol--
		}
	case tcell.KeyRight, tcell.KeyTab:
		if a.CurCol < a.Sheet.Cols()-1 {
			a.CurCol++
		}
	case tcell.KeyHome:
		a.CurRow, a.CurCol = 0, 0
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		a.commit("")
	case tcell.KeyEnter:
		a.startEdit(a.Sheet.Get(a.Cursor()), true)
	case tcell.KeyRune:
		switch r := ev.Rune(); r {
		case 'q':
			a.Quit = true
		case 'i':
			a.startEdit(a.Sheet.Get(a.Cursor()), false)
		case '=':
			a.startEdit("=", false)
		}
	}
}

func (a *App) handleInsert(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEsc:
		a.Mode = ModeNormal
		a.InputBuf = nil
		a.ReplaceOnNextRune = false
	case tcell.KeyEnter:
		if a.commit(string(a.InputBuf)) && a.CurRow < a.Sheet.Rows()-1 {
			a.CurRow++
		}
		a.Mode = ModeNormal
		a.InputBuf = nil
		a.ReplaceOnNextRune = false
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if a.ReplaceOnNextRune {
			a.InputBuf = nil
		} else if len(a.InputBuf) > 0 {
			a.InputBuf = a.InputBuf[:len(a.InputBuf)-1]
		}
		a.ReplaceOnNextRune = false
	case tcell.KeyRune:
		if a.ReplaceOnNextRune {
			a.InputBuf = nil
			a.ReplaceOnNextRune = false
		}
		a.InputBuf = append(a.InputBuf, ev.Rune())
	}
}

func (a *App) startEdit(initial string, selectAll bool) {
	if !a.Sheet.Editable(a.Cursor()) {
		a.Message = a.Cursor() + " is locked"
		return
	}
	a.Mode = ModeInsert
	a.InputBuf = []rune(initial)
	a.ReplaceOnNextRune = selectAll && initial != ""
	a.Message = ""
}

// commit writes value at the cursor and reports whether it was stored.
func (a *App) commit(value string) bool {
	if err := a.Sheet.Edit(a.Cursor(), value); err != nil {
		a.Message = err.Error()
		return false
	}
	a.Message = ""

	if len(a.Targets) == 0 || a.completed {
		return true
	}
	if p := a.Progress(); p.Complete {
		a.completed = true
		a.Message = "All targets reached!"
		if a.OnComplete != nil {
			a.OnComplete(p)
		}
	}
	return true
}

// ----------------------------- Drawing -----------------------------

func (a *App) Draw(s tcell.Screen) {
	s.Clear()
	w, h := s.Size()
	_, visibleCols := a.ComputeVisible(s)

	// header row: column labels
	x := a.LeftGutter
	for c := a.ViewCol; c < a.Sheet.Cols() && c < a.ViewCol+visibleCols; c++ {
		style := tcell.StyleDefault.Foreground(tcell.ColorYellow)
		if c == a.CurCol {
			style = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
		}
		printFixed(s, x, 0, pad(address.ColumnLabel(c), a.CellPadding), style, a.ColWidth)
		x += a.ColWidth
	}

	grid := a.Sheet.Grid()
	y := 1
	for r := a.ViewRow; r < a.Sheet.Rows() && y < h-a.StatusLines; r++ {
		gutter := tcell.StyleDefault.Foreground(tcell.ColorYellow)
		if r == a.CurRow {
			gutter = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
		}
		printFixed(s, 0, y, fmt.Sprintf("%d", r+1), gutter, a.LeftGutter-1)

		x = a.LeftGutter
		for c := a.ViewCol; c < a.Sheet.Cols() && c < a.ViewCol+visibleCols; c++ {
			addr := address.CellAddress(r, c)
			text := grid[r][c]
			if a.Mode == ModeInsert && r == a.CurRow && c == a.CurCol {
				text = string(a.InputBuf)
			}
			printFixed(s, x, y, pad(text, a.CellPadding), a.cellStyle(addr, r, c), a.ColWidth)
			x += a.ColWidth
		}
		y++
	}

	a.drawStatus(s, w, h)
	s.Show()
}

func (a *App) cellStyle(addr string, r, c int) tcell.Style {
	style := tcell.StyleDefault
	switch {
	case r == a.CurRow && c == a.CurCol:
		return style.Foreground(tcell.ColorBlack).Background(tcell.ColorLightGray)
	case a.Sheet.Highlighted(addr):
		style = style.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	case !a.Sheet.Editable(addr):
		style = style.Foreground(tcell.ColorGray)
	}
	return style
}

func (a *App) drawStatus(s tcell.Screen, w, h int) {
	statusY := h - a.StatusLines
	if statusY < 0 {
		statusY = 0
	}
	statusStyle := tcell.StyleDefault.Background(tcell.ColorGray).Foreground(tcell.ColorWhite)

	cur := a.Cursor()
	line := fmt.Sprintf("%s  %s", cur, a.Sheet.Get(cur))
	if len(a.Targets) > 0 {
		p := a.Progress()
		line += fmt.Sprintf("    Progress %d/%d", p.Correct, p.Total)
	}
	printFixed(s, 0, statusY, line, statusStyle, w)

	switch {
	case a.Mode == ModeInsert:
		printFixed(s, 0, statusY+1, "EDIT: "+string(a.InputBuf), statusStyle, w)
	case a.Message != "":
		printFixed(s, 0, statusY+1, a.Message, statusStyle, w)
	default:
		printFixed(s, 0, statusY+1, "Enter/i edit  = formula  Del clear  q quit", statusStyle, w)
	}
	printFixed(s, 0, statusY+2, a.Instructions, tcell.StyleDefault, w)
}

// ----------------------------- Viewport / Geometry -----------------------------

func (a *App) ComputeVisible(s tcell.Screen) (visibleRows, visibleCols int) {
	w, h := s.Size()
	visibleCols = maxInt(1, (w-a.LeftGutter)/maxInt(1, a.ColWidth))
	visibleRows = maxInt(1, h-a.StatusLines-1)
	return visibleRows, visibleCols
}

func (a *App) EnsureCursorVisible(s tcell.Screen) {
	rows, cols := a.ComputeVisible(s)
	if a.CurCol < a.ViewCol {
		a.ViewCol = a.CurCol
	} else if a.CurCol >= a.ViewCol+cols {
		a.ViewCol = a.CurCol - cols + 1
	}
	if a.CurRow < a.ViewRow {
		a.ViewRow = a.CurRow
	} else if a.CurRow >= a.ViewRow+rows {
		a.ViewRow = a.CurRow - rows + 1
	}
}

// ----------------------------- Helpers -----------------------------

func printFixed(s tcell.Screen, x, y int, str string, style tcell.Style, width int) {
	runes := []rune(str)
	for i := 0; i < width; i++ {
		ch := ' '
		if i < len(runes) {
			ch = runes[i]
		}
		s.SetContent(x+i, y, ch, nil, style)
	}
}

func pad(s string, n int) string {
	return strings.Repeat(" ", n) + s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
