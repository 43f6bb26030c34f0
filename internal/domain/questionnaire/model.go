package questionnaire

import (
	"time"

	"github.com/google/uuid"
)

// Answer is a yes/no response to a screening question.
type Answer string

const (
	AnswerYes Answer = "yes"
	AnswerNo  Answer = "no"
)

// Valid reports whether the answer is one of the accepted values.
func (a Answer) Valid() bool { return a == AnswerYes || a == AnswerNo }

// Category classifies a screening question's contraindication severity.
type Category string

const (
	CategoryAbsolute Category = "absolute"
	CategoryRelative Category = "relative"
)

// Question is one entry of the immutable screening catalog. The catalog is
// reference data loaded from a JSON file, not a database table.
type Question struct {
	ID          string   `json:"id"`
	Category    Category `json:"category"`
	Question    string   `json:"question"`
	Description string   `json:"description,omitempty"`
}

// Submission maps to the questionnaire_submission table. Submissions are
// append-only: re-answering produces a new row and the pathway engine derives
// the current answer set from the full history.
type Submission struct {
	ID          uuid.UUID         `db:"id" json:"id"`
	PatientID   uuid.UUID         `db:"patient_id" json:"patient_id"`
	Answers     map[string]Answer `db:"answers" json:"answers"`
	SubmittedAt *time.Time        `db:"submitted_at" json:"submitted_at,omitempty"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
}
