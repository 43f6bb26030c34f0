package checklist

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("checklist not found")
	ErrItemNotFound = errors.New("checklist item not found")
)

type Repository interface {
	// GetByPatient returns the patient's checklist, normalized, or ErrNotFound.
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*Checklist, error)
	Create(ctx context.Context, cl *Checklist) error
	// Save replaces the items of an existing checklist and bumps updated_at.
	Save(ctx context.Context, cl *Checklist) error
}
