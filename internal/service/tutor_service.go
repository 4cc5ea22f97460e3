// Package service holds the tutor's use cases behind the HTTP handlers.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.alis.build/alog"

	"github.com/ukaji3/xltutor-go/internal/challenge"
	"github.com/ukaji3/xltutor-go/internal/content"
	"github.com/ukaji3/xltutor-go/internal/repository"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/address"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/lookup"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/models"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/sheet"
)

// MaxGridCells bounds rows*cols of a posted sheet.
const MaxGridCells = 10000

// ProgressComplete is the value stored for finished challenges.
const ProgressComplete = "complete"

var (
	// ErrInvalidRequest indicates input the caller must fix.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound indicates an unknown challenge or progress key.
	ErrNotFound = errors.New("not found")
)

// TutorService defines the spreadsheet and lookup practice use cases.
type TutorService interface {
	SampleData() models.SampleData
	ExecuteLookup(ctx context.Context, req models.LookupRequest) models.LookupResult
	EvaluateSheet(ctx context.Context, cfg models.SheetConfig, edits map[string]string) (*SheetResult, error)

	Challenges() []models.Challenge
	Challenge(id string) (models.Challenge, error)
	// CheckChallenge applies edits to a sandbox challenge and records completion.
	CheckChallenge(ctx context.Context, id string, edits map[string]string) (*SheetResult, error)
	// CheckFormula checks one formula task and records completion.
	CheckFormula(ctx context.Context, id string, index int, input string) (*challenge.Result, error)

	GetProgress(ctx context.Context, key string) (string, error)
	SetProgress(ctx context.Context, key, value string) error
}

// SheetResult is an evaluated sandbox.
type SheetResult struct {
	// Cells holds display text indexed [row][col].
	Cells [][]string `json:"cells"`
	// Labels holds the column headers.
	Labels []string `json:"labels"`
	// Progress is set when the sheet has target values.
	Progress *models.Progress `json:"progress,omitempty"`
}

type tutorServiceImpl struct {
	lib      *content.Library
	store    repository.ProgressStore
	maxDepth int
}

// NewTutorService wires the content library and progress store.
func NewTutorService(lib *content.Library, store repository.ProgressStore, maxDepth int) TutorService {
	return &tutorServiceImpl{lib: lib, store: store, maxDepth: maxDepth}
}

func (s *tutorServiceImpl) SampleData() models.SampleData {
	return s.lib.Samples()
}

func (s *tutorServiceImpl) ExecuteLookup(ctx context.Context, req models.LookupRequest) models.LookupResult {
	res := lookup.Simulate(req)
	alog.Debugf(ctx, "lookup %q column %d over %d rows: success=%v", req.LookupValue, req.ColumnIndex, len(req.TableData), res.Success)
	return res
}

func (s *tutorServiceImpl) EvaluateSheet(ctx context.Context, cfg models.SheetConfig, edits map[string]string) (*SheetResult, error) {
	if cfg.Rows > 0 && cfg.Cols > 0 && cfg.Rows*cfg.Cols > MaxGridCells {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d cells", ErrInvalidRequest, cfg.Rows, cfg.Cols, MaxGridCells)
	}
	sh, err := sheet.New(cfg, sheet.WithMaxDepth(s.maxDepth))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	// sorted so the first reported error does not depend on map order
	addrs := make([]string, 0, len(edits))
	for addr := range edits {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)
	for _, addr := range addrs {
		if err := sh.Edit(addr, edits[addr]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}

	res := &SheetResult{
		Cells:  sh.Grid(),
		Labels: make([]string, sh.Cols()),
	}
	for c := range res.Labels {
		res.Labels[c] = address.ColumnLabel(c)
	}
	if len(cfg.TargetValues) > 0 {
		p := sh.Progress(cfg.TargetValues)
		res.Progress = &p
	}
	return res, nil
}

func (s *tutorServiceImpl) Challenges() []models.Challenge {
	return s.lib.Challenges()
}

func (s *tutorServiceImpl) Challenge(id string) (models.Challenge, error) {
	c, ok := s.lib.Challenge(id)
	if !ok {
		return models.Challenge{}, fmt.Errorf("%w: challenge %q", ErrNotFound, id)
	}
	return c, nil
}

func (s *tutorServiceImpl) CheckChallenge(ctx context.Context, id string, edits map[string]string) (*SheetResult, error) {
	c, err := s.Challenge(id)
	if err != nil {
		return nil, err
	}
	if c.Kind != models.ChallengeSandbox {
		return nil, fmt.Errorf("%w: %s is a %s challenge", ErrInvalidRequest, id, c.Kind)
	}

	res, err := s.EvaluateSheet(ctx, *c.Sheet, edits)
	if err != nil {
		return nil, err
	}
	if res.Progress != nil && res.Progress.Complete {
		if err := s.store.Set(ctx, progressKey(id), ProgressComplete); err != nil {
			return nil, err
		}
		alog.Infof(ctx, "challenge %s complete", id)
	}
	return res, nil
}

func (s *tutorServiceImpl) CheckFormula(ctx context.Context, id string, index int, input string) (*challenge.Result, error) {
	c, err := s.Challenge(id)
	if err != nil {
		return nil, err
	}
	if c.Kind != models.ChallengeFormula {
		return nil, fmt.Errorf("%w: %s is a %s challenge", ErrInvalidRequest, id, c.Kind)
	}
	if index < 0 || index >= len(c.Formulas) {
		return nil, fmt.Errorf("%w: %s has no task %d", ErrInvalidRequest, id, index)
	}

	res := challenge.Check(c.Formulas[index], input)
	if !res.Correct {
		return &res, nil
	}

	if err := s.store.Set(ctx, taskKey(id, index), ProgressComplete); err != nil {
		return nil, err
	}
	done, err := s.store.List(ctx, progressKey(id)+":")
	if err != nil {
		return nil, err
	}
	if len(done) == len(c.Formulas) {
		if err := s.store.Set(ctx, progressKey(id), ProgressComplete); err != nil {
			return nil, err
		}
		alog.Infof(ctx, "challenge %s complete", id)
	}
	return &res, nil
}

func (s *tutorServiceImpl) GetProgress(ctx context.Context, key string) (string, error) {
	v, err := s.store.Get(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("%w: progress %q", ErrNotFound, key)
	}
	return v, err
}

func (s *tutorServiceImpl) SetProgress(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("%w: empty progress key", ErrInvalidRequest)
	}
	return s.store.Set(ctx, key, value)
}

func progressKey(id string) string {
	return "challenge:" + id
}

func taskKey(id string, index int) string {
	return fmt.Sprintf("challenge:%s:%d", id, index)
}
