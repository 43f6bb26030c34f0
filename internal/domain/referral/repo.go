package referral

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no referral state exists for a patient.
var ErrNotFound = errors.New("referral state not found")

type Repository interface {
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*State, error)
	// Save upserts the patient's referral state wholesale.
	Save(ctx context.Context, st *State) error
}
