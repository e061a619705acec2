package domain

import "fmt"

// Grade is the discrete answer-quality signal fed to the scheduling strategy.
// The numbering matches FSRS ratings.
type Grade int

const (
	GradeAgain Grade = iota + 1 // incorrect on the final attempt
	GradeHard                   // correct, but not on the first try
	GradeGood                   // correct on the first try
	GradeEasy                   // unused by the game flow, kept for strategy completeness
)

var gradeNames = [...]string{GradeAgain: "Again", GradeHard: "Hard", GradeGood: "Good", GradeEasy: "Easy"}

// String returns the name of the grade. Invalid values render as "Grade(n)".
func (g Grade) String() string {
	if g.IsValid() {
		return gradeNames[g]
	}
	return fmt.Sprintf("Grade(%d)", int(g))
}

// IsValid reports whether g is a defined grade.
func (g Grade) IsValid() bool {
	return g >= GradeAgain && g <= GradeEasy
}

// MarshalText implements encoding.TextMarshaler.
func (g Grade) MarshalText() ([]byte, error) {
	if !g.IsValid() {
		return nil, fmt.Errorf("invalid grade: %d", int(g))
	}
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Grade) UnmarshalText(text []byte) error {
	for i := int(GradeAgain); i < len(gradeNames); i++ {
		if gradeNames[i] == string(text) {
			*g = Grade(i)
			return nil
		}
	}
	return fmt.Errorf("unknown grade %q", text)
}

// GradeForAttempts maps the number of attempts a learner needed to the grade:
// first-try correct is Good, second-try correct is Hard, anything else Again.
func GradeForAttempts(attempts int) Grade {
	switch attempts {
	case 1:
		return GradeGood
	case 2:
		return GradeHard
	default:
		return GradeAgain
	}
}
