package finance

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a patient has no financial profile.
var ErrNotFound = errors.New("financial profile not found")

type Repository interface {
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*Profile, error)
	// Save upserts the patient's profile wholesale.
	Save(ctx context.Context, p *Profile) error
}
