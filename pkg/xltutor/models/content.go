package models

// Employee is a row of the employee sample table.
type Employee struct {
	ID         string  `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	Department string  `json:"department" yaml:"department"`
	Salary     float64 `json:"salary" yaml:"salary"`
}

// Product is a row of the product sample table.
type Product struct {
	Code     string  `json:"code" yaml:"code"`
	Name     string  `json:"name" yaml:"name"`
	Price    float64 `json:"price" yaml:"price"`
	Category string  `json:"category" yaml:"category"`
}

// SampleData holds the tables offered by the lookup trainer.
type SampleData struct {
	Employees []Employee `json:"employees" yaml:"employees"`
	Products  []Product  `json:"products" yaml:"products"`
}

// ChallengeKind distinguishes grid exercises from formula-writing exercises.
type ChallengeKind string

const (
	ChallengeSandbox ChallengeKind = "sandbox"
	ChallengeFormula ChallengeKind = "formula"
)

// Challenge is one practice exercise attached to a lesson.
type Challenge struct {
	// ID is the stable identifier used in URLs and progress keys.
	ID string `json:"id" yaml:"id"`
	// Lesson is the order index of the owning lesson.
	Lesson int `json:"lesson" yaml:"lesson"`
	// Title is the heading shown above the exercise.
	Title string `json:"title" yaml:"title"`
	// Kind selects between Sheet and Formulas.
	Kind ChallengeKind `json:"kind" yaml:"kind"`
	// Sheet is the grid configuration for sandbox challenges.
	Sheet *SheetConfig `json:"sheet,omitempty" yaml:"sheet,omitempty"`
	// Formulas lists the tasks of a formula challenge.
	Formulas []FormulaTask `json:"formulas,omitempty" yaml:"formulas,omitempty"`
}

// FormulaTask asks the learner to type a formula (or a number).
type FormulaTask struct {
	Prompt      string            `json:"prompt" yaml:"prompt"`
	Data        map[string]string `json:"data,omitempty" yaml:"data,omitempty"`
	Answer      string            `json:"answer" yaml:"answer"`
	AltAnswers  []string          `json:"altAnswers,omitempty" yaml:"altAnswers,omitempty"`
	Hint        string            `json:"hint,omitempty" yaml:"hint,omitempty"`
	Explanation string            `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}
