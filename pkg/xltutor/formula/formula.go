// Package formula evaluates the small set of formula shapes the sandbox
// understands. Dispatch is an ordered list of (pattern, handler) rules over the
// upper-cased expression; the first matching rule wins and there is no general
// expression parser behind it.
package formula

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ukaji3/xltutor-go/pkg/xltutor/address"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/models"
)

// Resolver returns the value shown at an address, and false when the address
// holds no value (absent, empty, or outside the sheet).
type Resolver func(address string) (string, bool)

// Handler computes the value of a formula whose expression matched a rule.
type Handler func(c *Call) models.Value

// Rule pairs an anchored pattern over the upper-cased expression with its handler.
type Rule struct {
	// Name identifies the rule in listings and tests.
	Name string
	// Pattern is matched against the expression (text after "=", upper-cased).
	Pattern *regexp.Regexp
	// Handler computes the result from the submatches.
	Handler Handler
}

const cellRef = `[A-Z]+[0-9]+`

// DefaultRules returns the built-in rules in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "SUM", Pattern: regexp.MustCompile(`^SUM\((` + cellRef + `:` + cellRef + `)\)$`), Handler: sum},
		{Name: "MIN/MAX", Pattern: regexp.MustCompile(`^(MIN|MAX)\((` + cellRef + `:` + cellRef + `)\)$`), Handler: minMax},
		{Name: "ADD", Pattern: regexp.MustCompile(`^(` + cellRef + `)\+(` + cellRef + `)$`), Handler: add},
	}
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithRules appends rules after the built-in ones.
func WithRules(rules ...Rule) Option {
	return func(e *Evaluator) {
		e.rules = append(e.rules, rules...)
	}
}

// WithBounds clips range iteration to a rows x cols grid.
func WithBounds(rows, cols int) Option {
	return func(e *Evaluator) {
		e.bounds = &address.Range{EndRow: rows - 1, EndCol: cols - 1}
	}
}

// Evaluator turns raw cell text into display values.
type Evaluator struct {
	rules  []Rule
	bounds *address.Range
}

// New returns an Evaluator with the default rules.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{rules: DefaultRules()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns the rules in match order.
func (e *Evaluator) Rules() []Rule {
	return append([]Rule(nil), e.rules...)
}

// Evaluate returns the display value of raw. Literals come back unchanged;
// formulas matching no rule come back as an UnsupportedExpression error value
// whose display text is the formula itself.
func (e *Evaluator) Evaluate(raw string, resolve Resolver) models.Value {
	if !strings.HasPrefix(raw, "=") {
		return models.TextValue(raw)
	}
	if resolve == nil {
		resolve = func(string) (string, bool) { return "", false }
	}

	expr := strings.ToUpper(raw[1:])
	for _, rule := range e.rules {
		m := rule.Pattern.FindStringSubmatch(expr)
		if m == nil {
			continue
		}
		return rule.Handler(&Call{Raw: raw, Match: m, Resolve: resolve, bounds: e.bounds})
	}
	return models.ErrorValue(models.ErrorUnsupportedExpression, raw)
}

// Call carries one rule invocation.
type Call struct {
	// Raw is the original cell text, including "=".
	Raw string
	// Match holds the rule's submatches; Match[0] is the whole expression.
	Match []string
	// Resolve reads other cells.
	Resolve Resolver

	bounds *address.Range
}

// Cells decodes a range token and lists its addresses in row-major order,
// clipped to the evaluator's bounds.
func (c *Call) Cells(token string) ([]string, error) {
	r, err := address.ParseRange(token)
	if err != nil {
		return nil, err
	}
	if c.bounds != nil {
		if r.StartRow > c.bounds.EndRow || r.StartCol > c.bounds.EndCol {
			return nil, nil
		}
		r.EndRow = min(r.EndRow, c.bounds.EndRow)
		r.EndCol = min(r.EndCol, c.bounds.EndCol)
	}
	return r.Addresses(), nil
}

// Number resolves an address and coerces it. ok is false for empty or
// non-numeric cells.
func (c *Call) Number(addr string) (f float64, ok bool) {
	s, found := c.Resolve(addr)
	if !found {
		return 0, false
	}
	return ToNumber(s)
}

// ToNumber parses cell text as a float. NaN and infinities count as
// non-numeric.
func ToNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func sum(c *Call) models.Value {
	cells, err := c.Cells(c.Match[1])
	if err != nil {
		return models.ErrorValue(models.ErrorUnparseableRange, c.Raw)
	}
	total := 0.0
	for _, addr := range cells {
		v, _ := c.Number(addr)
		total += v
	}
	return models.NumberValue(total)
}

func minMax(c *Call) models.Value {
	cells, err := c.Cells(c.Match[2])
	if err != nil {
		return models.ErrorValue(models.ErrorUnparseableRange, c.Raw)
	}
	var (
		result float64
		seen   bool
	)
	for _, addr := range cells {
		v, ok := c.Number(addr)
		if !ok {
			continue
		}
		switch {
		case !seen:
			result, seen = v, true
		case c.Match[1] == "MIN" && v < result:
			result = v
		case c.Match[1] == "MAX" && v > result:
			result = v
		}
	}
	return models.NumberValue(result)
}

func add(c *Call) models.Value {
	for _, ref := range c.Match[1:3] {
		if _, _, err := address.ParseCell(ref); err != nil {
			return models.ErrorValue(models.ErrorUnparseableRange, c.Raw)
		}
	}
	a, _ := c.Number(c.Match[1])
	b, _ := c.Number(c.Match[2])
	return models.NumberValue(a + b)
}
