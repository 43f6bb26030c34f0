package questionnaire

import "errors"

var (
	// ErrPatientNotFound is returned when submitting for an unknown patient.
	ErrPatientNotFound = errors.New("patient not found")
	// ErrInvalid wraps request validation failures.
	ErrInvalid = errors.New("invalid questionnaire submission")
)
