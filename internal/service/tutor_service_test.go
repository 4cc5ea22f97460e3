package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/xltutor-go/internal/content"
	"github.com/ukaji3/xltutor-go/internal/repository"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/models"
)

func newService(t *testing.T) (TutorService, repository.ProgressStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	return NewTutorService(content.MustLoad(), store, 64), store
}

func TestEvaluateSheet(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	res, err := svc.EvaluateSheet(ctx, models.SheetConfig{
		Rows:         2,
		Cols:         3,
		InitialData:  map[string]string{"A1": "15", "B1": "25"},
		TargetValues: map[string]string{"C1": "40"},
	}, map[string]string{"c1": "=A1+B1"})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, res.Labels)
	assert.Equal(t, [][]string{{"15", "25", "40"}, {"", "", ""}}, res.Cells)
	require.NotNil(t, res.Progress)
	assert.True(t, res.Progress.Complete)
}

func TestEvaluateSheetRejects(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		cfg   models.SheetConfig
		edits map[string]string
	}{
		{"bad dimensions", models.SheetConfig{Rows: 0, Cols: 1}, nil},
		{"too large", models.SheetConfig{Rows: 1000, Cols: 1000}, nil},
		{"locked cell", models.SheetConfig{Rows: 2, Cols: 2, EditableCells: []string{"A1"}}, map[string]string{"B1": "x"}},
		{"outside grid", models.SheetConfig{Rows: 2, Cols: 2}, map[string]string{"C9": "x"}},
		{"bad address", models.SheetConfig{Rows: 2, Cols: 2}, map[string]string{"1A": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.EvaluateSheet(ctx, tt.cfg, tt.edits)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestCheckChallengeRecordsCompletion(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	res, err := svc.CheckChallenge(ctx, "cell-address", map[string]string{"A1": "b3"})
	require.NoError(t, err)
	require.NotNil(t, res.Progress)
	assert.True(t, res.Progress.Complete)

	v, err := store.Get(ctx, "challenge:cell-address")
	require.NoError(t, err)
	assert.Equal(t, ProgressComplete, v)

	_, err = svc.CheckChallenge(ctx, "cell-address", map[string]string{"B3": "x"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.CheckChallenge(ctx, "nope", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CheckChallenge(ctx, "write-the-formula", nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestCheckChallengeIncomplete(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	res, err := svc.CheckChallenge(ctx, "contact-list", map[string]string{"A1": "Name"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Progress.Correct)
	assert.False(t, res.Progress.Complete)

	_, err = store.Get(ctx, "challenge:contact-list")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCheckFormula(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	answers := []string{"=MIN(A1:A5)", "max(b1:b4)", "=COUNT(A1:A6)", "=B1+A1"}
	for i, input := range answers {
		res, err := svc.CheckFormula(ctx, "write-the-formula", i, input)
		require.NoError(t, err)
		assert.True(t, res.Correct, "task %d", i)

		_, err = store.Get(ctx, "challenge:write-the-formula")
		if i < len(answers)-1 {
			assert.ErrorIs(t, err, repository.ErrNotFound)
		} else {
			assert.NoError(t, err)
		}
	}

	res, err := svc.CheckFormula(ctx, "write-the-formula", 0, "=MAX(A1:A5)")
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Equal(t, "3", res.Value)
	assert.NotEmpty(t, res.Hint)

	_, err = svc.CheckFormula(ctx, "write-the-formula", 4, "x")
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = svc.CheckFormula(ctx, "contact-list", 0, "x")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestProgress(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.GetProgress(ctx, "xp")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.SetProgress(ctx, "xp", "25"))
	v, err := svc.GetProgress(ctx, "xp")
	require.NoError(t, err)
	assert.Equal(t, "25", v)

	assert.ErrorIs(t, svc.SetProgress(ctx, "", "x"), ErrInvalidRequest)
}

func TestExecuteLookup(t *testing.T) {
	svc, _ := newService(t)
	table := content.EmployeeTable(svc.SampleData().Employees)

	res := svc.ExecuteLookup(context.Background(), models.LookupRequest{LookupValue: "E003", TableData: table, ColumnIndex: 2})
	require.True(t, res.Success)
	assert.Equal(t, "Carol White", res.Result)
}
