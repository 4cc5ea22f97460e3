package challenge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/xltutor-go/pkg/xltutor/models"
)

func TestEquivalent(t *testing.T) {
	tests := []struct {
		a, b     string
		expected bool
	}{
		{"=MIN(A1:A5)", "=MIN(A1:A5)", true},
		{"=MIN(A1:A5)", "min(a1:a5)", true},
		{"=MIN(A1:A5)", "  = MIN( A1:A5 ) ", true},
		{"=B2*1.08", "=b2*1.080", true},
		{"14", "=14", true},
		{"=MIN(A1:A5)", "=MIN(A1:A6)", false},
		{"=A1+B1", "=B1+A1", false},
		{`="Hi"`, `="hi"`, false},
		{"", "", false},
		{"=", "=", false},
	}

	for _, tt := range tests {
		if got := Equivalent(tt.a, tt.b); got != tt.expected {
			t.Errorf("Equivalent(%q, %q) = %v, expected %v", tt.a, tt.b, got, tt.expected)
		}
	}
}

func TestCheck(t *testing.T) {
	task := models.FormulaTask{
		Data:        map[string]string{"A1": "15", "B1": "25"},
		Answer:      "=A1+B1",
		AltAnswers:  []string{"=B1+A1"},
		Hint:        "Use the + operator between cell references",
		Explanation: "=A1+B1 returns 40.",
	}

	res := Check(task, "b1 + a1")
	assert.True(t, res.Correct)
	assert.Equal(t, "40", res.Value)
	assert.Equal(t, "40", res.Got)
	assert.Equal(t, task.Explanation, res.Explanation)
	assert.Empty(t, res.Hint)

	res = Check(task, "=A1-B1")
	assert.False(t, res.Correct)
	assert.Equal(t, "40", res.Value)
	assert.Equal(t, "-10", res.Got)
	assert.Equal(t, task.Hint, res.Hint)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		data     map[string]string
		expr     string
		expected string
	}{
		{"min", map[string]string{"A1": "10", "A2": "5", "A3": "25", "A4": "3", "A5": "15"}, "=MIN(A1:A5)", "3"},
		{"count skips text and empty", map[string]string{"A1": "10", "A2": "Text", "A3": "25", "A4": "3", "A5": "", "A6": "15"}, "=COUNT(A1:A6)", "4"},
		{"two ranges", map[string]string{"B1": "10", "B2": "20", "B3": "30", "D1": "40", "D2": "50", "D3": "60"}, "=SUM(B1:B3,D1:D3)", "210"},
		{"percentage change", map[string]string{"A1": "50", "B1": "75"}, "=(B1-A1)/A1", "0.5"},
		{"reference past the data", map[string]string{"A1": "2"}, "=A1+C1", "2"},
		{"plain number", nil, "14", "14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.data, tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestEvaluateRejectsReferences(t *testing.T) {
	_, err := Evaluate(nil, "=SUM(A1:Z1000)")
	assert.ErrorIs(t, err, ErrRangeTooLarge)

	_, err = Evaluate(nil, "=Sheet2!A1")
	assert.ErrorIs(t, err, ErrUnsupportedReference)
}

func TestScratchCell(t *testing.T) {
	assert.Equal(t, "A1", scratchCell(nil, nil))
	assert.Equal(t, "C1", scratchCell(map[string]string{"B7": "x", "A1": "y"}, nil))
}
