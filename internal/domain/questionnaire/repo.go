package questionnaire

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a patient has no submissions.
var ErrNotFound = errors.New("questionnaire not found")

type Repository interface {
	Create(ctx context.Context, s *Submission) error
	// ListByPatient returns the patient's full submission history, newest
	// first (rows without submitted_at last). The pathway engine needs the
	// entire history, so this is deliberately unpaginated.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Submission, error)
	// Latest returns the most recent submission, or ErrNotFound.
	Latest(ctx context.Context, patientID uuid.UUID) (*Submission, error)
}
