package finance

import (
	"time"

	"github.com/google/uuid"
)

// Profile maps to the financial_profile table, one row per patient. Answers
// are free-form assessment responses, merged on every save so autosaves of
// partial pages never drop earlier answers.
type Profile struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	PatientID   uuid.UUID      `db:"patient_id" json:"patient_id"`
	Answers     map[string]any `db:"answers" json:"answers"`
	SubmittedAt *time.Time     `db:"submitted_at" json:"submitted_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}
