package referral

import (
	"time"

	"github.com/google/uuid"
)

// Status tracks how far along the referral process a patient is.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Location is the patient's self-reported location. Coordinates are optional;
// without them center search still works by state, just without distances.
type Location struct {
	Zip   *string  `json:"zip"`
	State *string  `json:"state"`
	Lat   *float64 `json:"lat,omitempty"`
	Lng   *float64 `json:"lng,omitempty"`
}

// Provider identifies a care provider who could initiate a referral. Used for
// both the nephrologist and the dialysis center, which carry different
// optional fields.
type Provider struct {
	Name                *string `json:"name,omitempty"`
	Clinic              *string `json:"clinic,omitempty"`
	SocialWorkerContact *string `json:"social_worker_contact,omitempty"`
}

// Known reports whether the provider is actually on file, not just an empty
// object.
func (p *Provider) Known() bool {
	return p != nil && p.Name != nil && *p.Name != ""
}

// State maps to the referral_state table, one row per patient.
type State struct {
	PatientID        uuid.UUID `db:"patient_id" json:"patient_id"`
	Location         Location  `db:"location" json:"location"`
	HasReferral      bool      `db:"has_referral" json:"has_referral"`
	ReferralSource   *string   `db:"referral_source" json:"referral_source"`
	Nephrologist     *Provider `db:"last_nephrologist" json:"last_nephrologist"`
	DialysisCenter   *Provider `db:"dialysis_center" json:"dialysis_center"`
	PreferredCenters []string  `db:"preferred_centers" json:"preferred_centers"`
	ReferralStatus   Status    `db:"referral_status" json:"referral_status"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Normalize coerces null collections so consumers never see nil.
func (s *State) Normalize() {
	if s.PreferredCenters == nil {
		s.PreferredCenters = []string{}
	}
	if s.ReferralStatus == "" {
		s.ReferralStatus = StatusNotStarted
	}
}
