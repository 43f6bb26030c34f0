package pathway

import (
	"time"

	"github.com/google/uuid"
)

// TriState models the three-valued patient flags (has_ckd_esrd,
// has_referral): explicitly yes, explicitly no, or never answered. The
// classifier treats No and Unknown differently, so a nullable bool is not
// enough.
type TriState uint8

const (
	Unknown TriState = iota
	No
	Yes
)

// TriFromPtr maps an optional bool from the patient record onto a TriState.
func TriFromPtr(b *bool) TriState {
	switch {
	case b == nil:
		return Unknown
	case *b:
		return Yes
	default:
		return No
	}
}

func (t TriState) String() string {
	switch t {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "unknown"
	}
}

// Stage is a discrete phase of the transplant care journey.
type Stage string

const (
	StageIdentification Stage = "identification"
	StageReferral       Stage = "referral"
	StageEvaluation     Stage = "evaluation"
	StageSelection      Stage = "selection"

	// Reserved for future journey phases, never produced by the current
	// classifier.
	StageTransplantation Stage = "transplantation"
	StagePostTransplant  Stage = "post-transplant"
)

// Contraindication is one catalog question the patient answered yes to.
type Contraindication struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}

// ContraindicationResult is the rolled-up outcome of the patient's full
// questionnaire history against the screening catalog.
type ContraindicationResult struct {
	HasAbsolute bool               `json:"has_absolute"`
	HasRelative bool               `json:"has_relative"`
	Absolute    []Contraindication `json:"absolute_contraindications"`
	Relative    []Contraindication `json:"relative_contraindications"`
}

// PatientSnapshot carries the patient-record flags the classifier needs.
type PatientSnapshot struct {
	HasCKDESRD  TriState
	HasReferral TriState
}

// PatientStatus maps to the patient_status table, one row per patient,
// fully recomputed whenever any upstream input changes.
type PatientStatus struct {
	ID           uuid.UUID          `db:"id" json:"id"`
	PatientID    uuid.UUID          `db:"patient_id" json:"patient_id"`
	HasAbsolute  bool               `db:"has_absolute" json:"has_absolute"`
	HasRelative  bool               `db:"has_relative" json:"has_relative"`
	Absolute     []Contraindication `db:"absolute_contraindications" json:"absolute_contraindications"`
	Relative     []Contraindication `db:"relative_contraindications" json:"relative_contraindications"`
	PathwayStage Stage              `db:"pathway_stage" json:"pathway_stage"`
	UpdatedAt    time.Time          `db:"updated_at" json:"updated_at"`
}
