package patient

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const lbsPerKg = 2.20462

// Patient maps to the patient table. Intake form fields plus the kidney
// flags the pathway engine reads. HasCKDESRD and HasReferral are tri-state:
// nil means the patient has not answered yet, which the stage classifier
// treats differently from an explicit false.
type Patient struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	DateOfBirth string    `db:"date_of_birth" json:"date_of_birth"`
	Sex         *string   `db:"sex" json:"sex,omitempty"`
	HeightCM    *float64  `db:"height_cm" json:"height_cm,omitempty"`
	WeightKG    *float64  `db:"weight_kg" json:"weight_kg,omitempty"`
	Email       *string   `db:"email" json:"email,omitempty"`
	Phone       *string   `db:"phone" json:"phone,omitempty"`
	HasCKDESRD  *bool     `db:"has_ckd_esrd" json:"has_ckd_esrd,omitempty"`
	LastGFR     *float64  `db:"last_gfr" json:"last_gfr,omitempty"`
	HasReferral *bool     `db:"has_referral" json:"has_referral,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// IntakeRequest is the wire form of a patient intake. Clients send a handful
// of legacy aliases (dob, weight_lbs, plain height/weight) which are folded
// into canonical fields here rather than in every handler.
type IntakeRequest struct {
	Name        string   `json:"name"`
	DateOfBirth string   `json:"date_of_birth"`
	DOB         string   `json:"dob"`
	Sex         *string  `json:"sex"`
	SexAtBirth  *string  `json:"sex_assigned_at_birth"`
	HeightCM    *float64 `json:"height_cm"`
	Height      *float64 `json:"height"`
	WeightKG    *float64 `json:"weight_kg"`
	Weight      *float64 `json:"weight"`
	WeightLbs   *float64 `json:"weight_lbs"`
	Email       *string  `json:"email"`
	Phone       *string  `json:"phone"`
	HasCKDESRD  *bool    `json:"has_ckd_esrd"`
	LastGFR     *float64 `json:"last_gfr"`
	HasReferral *bool    `json:"has_referral"`
}

// ToPatient canonicalizes the intake request. Alias fields lose to their
// canonical counterparts when both are present; pounds are converted to
// kilograms.
func (r *IntakeRequest) ToPatient() (*Patient, error) {
	p := &Patient{
		Name:        r.Name,
		DateOfBirth: r.DateOfBirth,
		Sex:         r.Sex,
		HeightCM:    r.HeightCM,
		WeightKG:    r.WeightKG,
		Email:       r.Email,
		Phone:       r.Phone,
		HasCKDESRD:  r.HasCKDESRD,
		LastGFR:     r.LastGFR,
		HasReferral: r.HasReferral,
	}
	if p.DateOfBirth == "" {
		p.DateOfBirth = r.DOB
	}
	if p.Sex == nil {
		p.Sex = r.SexAtBirth
	}
	if p.HeightCM == nil {
		p.HeightCM = r.Height
	}
	if p.WeightKG == nil {
		p.WeightKG = r.Weight
	}
	if p.WeightKG == nil && r.WeightLbs != nil {
		kg := round2(*r.WeightLbs / lbsPerKg)
		p.WeightKG = &kg
	}

	if p.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if p.DateOfBirth == "" {
		return nil, fmt.Errorf("date_of_birth is required")
	}
	if _, err := time.Parse("2006-01-02", p.DateOfBirth); err != nil {
		return nil, fmt.Errorf("date_of_birth must be YYYY-MM-DD: %w", err)
	}
	return p, nil
}

// WeightLbs returns the patient's weight in pounds, if known.
func (p *Patient) WeightLbs() *float64 {
	if p.WeightKG == nil {
		return nil
	}
	lbs := round2(*p.WeightKG * lbsPerKg)
	return &lbs
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
