package checklist

import (
	"time"

	"github.com/google/uuid"
)

// Item is one step of the pre-transplant evaluation workup. Items live as a
// JSONB array on the checklist row; their ids are stable slugs, not UUIDs.
type Item struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	IsComplete  bool       `json:"is_complete"`
	Notes       *string    `json:"notes,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Order       int        `json:"order"`
	Documents   []string   `json:"documents"`
}

// Checklist maps to the checklist table, one row per patient.
type Checklist struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	Items     []Item    `db:"items" json:"items"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Normalize coerces a null items column to an empty slice. Old snapshots can
// legitimately carry items: null; consumers must never see nil.
func (c *Checklist) Normalize() {
	if c == nil {
		return
	}
	if c.Items == nil {
		c.Items = []Item{}
	}
	for i := range c.Items {
		if c.Items[i].Documents == nil {
			c.Items[i].Documents = []string{}
		}
	}
}

// Completion returns completed and total item counts.
func (c *Checklist) Completion() (completed, total int) {
	if c == nil {
		return 0, 0
	}
	for _, it := range c.Items {
		total++
		if it.IsComplete {
			completed++
		}
	}
	return completed, total
}

// DefaultItems returns the standard six-step pre-transplant evaluation
// checklist seeded for every new patient.
func DefaultItems() []Item {
	return []Item{
		{
			ID:          "physical_exam",
			Title:       "Complete Physical Examination",
			Description: "Comprehensive medical evaluation by transplant team",
			Order:       1,
			Documents:   []string{},
		},
		{
			ID:          "lab_work",
			Title:       "Laboratory Work & Viral Serology",
			Description: "Hepatitis profile, HIV, CMV, tissue typing, viral panel (repeated annually while waitlisted)",
			Order:       2,
			Documents:   []string{},
		},
		{
			ID:          "cardiac_eval",
			Title:       "Cardiac Evaluation",
			Description: "12-lead ECG for all candidates, stress testing especially for diabetics and those over 50",
			Order:       3,
			Documents:   []string{},
		},
		{
			ID:          "cancer_screening",
			Title:       "Cancer Screening",
			Description: "Colonoscopy for age over 50, PSA for men over 45, age-appropriate screenings",
			Order:       4,
			Documents:   []string{},
		},
		{
			ID:          "pulmonary_tests",
			Title:       "Pulmonary Function Tests",
			Description: "Lung capacity and respiratory evaluation",
			Order:       5,
			Documents:   []string{},
		},
		{
			ID:          "psychosocial_eval",
			Title:       "Psychosocial Evaluation",
			Description: "Assessment by social worker and transplant coordinator covering adherence potential, social support, financial clearance",
			Order:       6,
			Documents:   []string{},
		},
	}
}
