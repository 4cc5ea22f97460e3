// Package challenge checks typed formula answers. Answers are compared on
// their formula token streams, and evaluated against the task data with the
// excelize calculation engine so feedback can show the value a formula
// produces.
package challenge

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/efp"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/xltutor-go/pkg/xltutor/address"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/models"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/parser"
)

const scratchSheet = "Sheet1"

// MaxEvalCells bounds the cells a checked formula may reference.
const MaxEvalCells = 10000

// ErrUnsupportedReference indicates a reference Evaluate does not resolve,
// such as another sheet or a defined name.
var ErrUnsupportedReference = errors.New("unsupported reference")

// ErrRangeTooLarge indicates a formula referencing more than MaxEvalCells cells.
var ErrRangeTooLarge = errors.New("range too large")

// Result is the outcome of checking one formula answer.
type Result struct {
	// Correct is true when the input matches the answer or an alternative.
	Correct bool `json:"correct"`
	// Value is the expected answer evaluated against the task data.
	Value string `json:"value"`
	// Got is the learner's input evaluated against the task data, when it
	// could be calculated.
	Got string `json:"got,omitempty"`
	// Hint is returned with incorrect answers.
	Hint string `json:"hint,omitempty"`
	// Explanation is returned with correct answers.
	Explanation string `json:"explanation,omitempty"`
}

// Check compares input against task's answer and alternative answers.
func Check(task models.FormulaTask, input string) Result {
	res := Result{}
	for _, accepted := range append([]string{task.Answer}, task.AltAnswers...) {
		if Equivalent(input, accepted) {
			res.Correct = true
			break
		}
	}

	if v, err := Evaluate(task.Data, task.Answer); err == nil {
		res.Value = v
	}
	// answers may be typed without the leading "="
	in := strings.TrimSpace(input)
	if strings.HasPrefix(strings.TrimSpace(task.Answer), "=") && !strings.HasPrefix(in, "=") {
		in = "=" + in
	}
	if v, err := Evaluate(task.Data, in); err == nil {
		res.Got = v
	}

	if res.Correct {
		res.Explanation = task.Explanation
	} else {
		res.Hint = task.Hint
	}
	return res
}

// Equivalent reports whether two answers spell the same formula. Whitespace,
// a leading "=", letter case outside string literals and the spelling of
// numbers are not significant.
func Equivalent(a, b string) bool {
	ta, tb := Normalize(a), Normalize(b)
	if len(ta) == 0 || len(ta) != len(tb) {
		return false
	}
	for i := range ta {
		if ta[i] != tb[i] {
			return false
		}
	}
	return true
}

// Normalize tokenizes an answer into comparable token strings.
func Normalize(input string) []string {
	expr := strings.TrimPrefix(strings.TrimSpace(input), "=")
	if strings.TrimSpace(expr) == "" {
		return nil
	}

	ps := efp.ExcelParser()
	var out []string
	for _, token := range ps.Parse("=" + expr) {
		if token.TType == efp.TokenTypeWhitespace {
			continue
		}
		value := token.TValue
		switch token.TSubType {
		case efp.TokenSubTypeText:
			// literal text keeps its case
		case efp.TokenSubTypeNumber:
			if n, err := strconv.ParseFloat(value, 64); err == nil {
				value = strconv.FormatFloat(n, 'g', -1, 64)
			}
		default:
			value = strings.ToUpper(strings.ReplaceAll(value, " ", ""))
		}
		out = append(out, token.TType+"/"+token.TSubType+"/"+value)
	}
	return out
}

// Evaluate computes expr over data. Inputs that are not formulas evaluate
// to themselves.
func Evaluate(data map[string]string, expr string) (string, error) {
	expr = strings.TrimSpace(expr)
	if !strings.HasPrefix(expr, "=") {
		return expr, nil
	}

	refs, err := references(expr)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := parser.WriteCells(f, scratchSheet, data); err != nil {
		return "", err
	}

	target := scratchCell(data, refs)
	if err := f.SetCellFormula(scratchSheet, target, strings.TrimPrefix(expr, "=")); err != nil {
		return "", err
	}
	v, err := f.CalcCellValue(scratchSheet, target, excelize.Options{RawCellValue: true})
	if err != nil {
		return "", fmt.Errorf("evaluate %s: %w", expr, err)
	}
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		return models.FormatNumber(n), nil
	}
	return v, nil
}

// references lists the cell ranges expr reads.
func references(expr string) ([]address.Range, error) {
	ps := efp.ExcelParser()
	var refs []address.Range
	total := 0
	for _, token := range ps.Parse(expr) {
		if token.TType != efp.TokenTypeOperand || token.TSubType != efp.TokenSubTypeRange {
			continue
		}
		ref := strings.ReplaceAll(token.TValue, "$", "")
		if strings.Contains(ref, "!") {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedReference, token.TValue)
		}

		var rng address.Range
		if strings.Contains(ref, ":") {
			r, err := address.ParseRange(ref)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", ErrUnsupportedReference, token.TValue)
			}
			rng = r
		} else {
			row, col, err := address.ParseCell(ref)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", ErrUnsupportedReference, token.TValue)
			}
			rng = address.NewRange(row, col, row, col)
		}

		total += rng.Count()
		if total > MaxEvalCells {
			return nil, fmt.Errorf("%w: %d cells", ErrRangeTooLarge, total)
		}
		refs = append(refs, rng)
	}
	return refs, nil
}

// scratchCell picks a cell in row 1 to the right of every data cell and
// every referenced cell.
func scratchCell(data map[string]string, refs []address.Range) string {
	col := 0
	for addr := range data {
		if _, c, err := address.ParseCell(addr); err == nil && c >= col {
			col = c + 1
		}
	}
	for _, r := range refs {
		if r.EndCol >= col {
			col = r.EndCol + 1
		}
	}
	return address.CellAddress(0, col)
}
