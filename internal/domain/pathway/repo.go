package pathway

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrStatusNotFound is returned when no status row exists for a patient.
var ErrStatusNotFound = errors.New("patient status not found")

type Repository interface {
	// Upsert replaces the patient's status row; statuses are always
	// recomputed wholesale, never patched.
	Upsert(ctx context.Context, st *PatientStatus) error
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*PatientStatus, error)
}
