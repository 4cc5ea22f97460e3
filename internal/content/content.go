// Package content holds the embedded practice material: the lookup sample
// tables and the lesson challenges.
package content

import (
	"embed"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ukaji3/xltutor-go/pkg/xltutor/models"
	"github.com/ukaji3/xltutor-go/pkg/xltutor/sheet"
)

//go:embed data/samples.yaml data/challenges.yaml
var files embed.FS

// ErrInvalidChallenge indicates challenge content that cannot be served.
var ErrInvalidChallenge = errors.New("invalid challenge")

// Library is the parsed, validated content set. It is read-only after Load.
type Library struct {
	samples    models.SampleData
	challenges []models.Challenge
	byID       map[string]int
}

// Load parses the embedded content.
func Load() (*Library, error) {
	samples, err := files.ReadFile("data/samples.yaml")
	if err != nil {
		return nil, err
	}
	challenges, err := files.ReadFile("data/challenges.yaml")
	if err != nil {
		return nil, err
	}
	return Parse(samples, challenges)
}

// MustLoad is Load for callers that treat broken embedded content as fatal.
func MustLoad() *Library {
	lib, err := Load()
	if err != nil {
		panic(err)
	}
	return lib
}

// Parse builds a Library from YAML documents and validates every challenge.
func Parse(samplesYAML, challengesYAML []byte) (*Library, error) {
	lib := &Library{byID: make(map[string]int)}
	if err := yaml.Unmarshal(samplesYAML, &lib.samples); err != nil {
		return nil, fmt.Errorf("samples: %w", err)
	}

	var doc struct {
		Challenges []models.Challenge `yaml:"challenges"`
	}
	if err := yaml.Unmarshal(challengesYAML, &doc); err != nil {
		return nil, fmt.Errorf("challenges: %w", err)
	}

	for i, c := range doc.Challenges {
		if err := validate(c); err != nil {
			return nil, err
		}
		if _, dup := lib.byID[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidChallenge, c.ID)
		}
		lib.byID[c.ID] = i
	}
	lib.challenges = doc.Challenges
	return lib, nil
}

func validate(c models.Challenge) error {
	if c.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidChallenge)
	}
	switch c.Kind {
	case models.ChallengeSandbox:
		if c.Sheet == nil {
			return fmt.Errorf("%w: %s has no sheet", ErrInvalidChallenge, c.ID)
		}
		if _, err := sheet.New(*c.Sheet); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidChallenge, c.ID, err)
		}
	case models.ChallengeFormula:
		if len(c.Formulas) == 0 {
			return fmt.Errorf("%w: %s has no formulas", ErrInvalidChallenge, c.ID)
		}
		for i, task := range c.Formulas {
			if task.Answer == "" {
				return fmt.Errorf("%w: %s task %d has no answer", ErrInvalidChallenge, c.ID, i)
			}
		}
	default:
		return fmt.Errorf("%w: %s has unknown kind %q", ErrInvalidChallenge, c.ID, c.Kind)
	}
	return nil
}

// Samples returns the lookup trainer tables.
func (l *Library) Samples() models.SampleData {
	return l.samples
}

// Challenges returns every challenge ordered by lesson, keeping file order
// within a lesson.
func (l *Library) Challenges() []models.Challenge {
	out := make([]models.Challenge, len(l.challenges))
	copy(out, l.challenges)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Lesson < out[j].Lesson })
	return out
}

// Challenge returns the challenge with the given id.
func (l *Library) Challenge(id string) (models.Challenge, bool) {
	i, ok := l.byID[id]
	if !ok {
		return models.Challenge{}, false
	}
	return l.challenges[i], true
}

// ForLesson returns the challenges attached to one lesson.
func (l *Library) ForLesson(lesson int) []models.Challenge {
	var out []models.Challenge
	for _, c := range l.challenges {
		if c.Lesson == lesson {
			out = append(out, c)
		}
	}
	return out
}

// EmployeeTable renders the employee sample as lookup table rows
// (id, name, department, salary).
func EmployeeTable(employees []models.Employee) [][]interface{} {
	rows := make([][]interface{}, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, []interface{}{e.ID, e.Name, e.Department, e.Salary})
	}
	return rows
}

// ProductTable renders the product sample as lookup table rows
// (code, name, price, category).
func ProductTable(products []models.Product) [][]interface{} {
	rows := make([][]interface{}, 0, len(products))
	for _, p := range products {
		rows = append(rows, []interface{}{p.Code, p.Name, p.Price, p.Category})
	}
	return rows
}
