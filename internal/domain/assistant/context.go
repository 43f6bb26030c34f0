package assistant

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tnav/tnav/internal/domain/checklist"
	"github.com/tnav/tnav/internal/domain/pathway"
	"github.com/tnav/tnav/internal/domain/patient"
	"github.com/tnav/tnav/internal/domain/questionnaire"
	"github.com/tnav/tnav/internal/domain/referral"
)

// ErrPatientNotFound is returned when building context for an unknown patient.
var ErrPatientNotFound = errors.New("patient not found")

type PatientSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

type StatusSource interface {
	Status(ctx context.Context, patientID uuid.UUID) (*pathway.PatientStatus, error)
}

type ChecklistSource interface {
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*checklist.Checklist, error)
}

type SubmissionSource interface {
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*questionnaire.Submission, error)
}

type ReferralSource interface {
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*referral.State, error)
}

// PatientSummary is the patient-record slice exposed to the model.
type PatientSummary struct {
	HasCKDESRD  *bool    `json:"has_ckd_esrd"`
	LastGFR     *float64 `json:"last_gfr"`
	HasReferral *bool    `json:"has_referral"`
}

type StatusSummary struct {
	HasAbsolute     bool     `json:"has_absolute_contraindications"`
	HasRelative     bool     `json:"has_relative_contraindications"`
	Absolute        []string `json:"absolute_contraindications"`
	Relative        []string `json:"relative_contraindications"`
	StatusUpdatedAt string   `json:"status_updated_at,omitempty"`
}

type ChecklistItemRef struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Order       int        `json:"order,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type ChecklistProgress struct {
	TotalItems           int                `json:"total_items"`
	CompletedCount       int                `json:"completed_count"`
	IncompleteCount      int                `json:"incomplete_count"`
	CompletionPercentage float64            `json:"completion_percentage"`
	CompletedItems       []ChecklistItemRef `json:"completed_items"`
	IncompleteItems      []ChecklistItemRef `json:"incomplete_items"`
}

type RecentActivity struct {
	LastItem              string     `json:"last_item,omitempty"`
	LastActivityDate      *time.Time `json:"last_activity_date,omitempty"`
	LastQuestionnaireDate *time.Time `json:"last_questionnaire_date,omitempty"`
}

type ReferralInfo struct {
	HasReferral           bool              `json:"has_referral"`
	ReferralStatus        referral.Status   `json:"referral_status"`
	HasNephrologist       bool              `json:"has_nephrologist"`
	HasDialysisCenter     bool              `json:"has_dialysis_center"`
	PreferredCentersCount int               `json:"preferred_centers_count"`
	Location              referral.Location `json:"location"`
}

// Context is the aggregated patient picture handed to the prompt formatter
// and exposed on the debug endpoint.
type Context struct {
	PatientSummary    PatientSummary     `json:"patient_summary"`
	PathwayStage      pathway.Stage      `json:"pathway_stage,omitempty"`
	StatusSummary     *StatusSummary     `json:"status_summary,omitempty"`
	ChecklistProgress *ChecklistProgress `json:"checklist_progress,omitempty"`
	RecentActivity    RecentActivity     `json:"recent_activity"`
	ReferralInfo      *ReferralInfo      `json:"referral_information,omitempty"`
}

// ContextBuilder aggregates every data source for one patient. Only the
// patient record itself is mandatory; every other source degrades to an
// absent section so the assistant keeps answering with partial data.
type ContextBuilder struct {
	patients   PatientSource
	statuses   StatusSource
	checklists ChecklistSource
	subs       SubmissionSource
	referrals  ReferralSource
}

func NewContextBuilder(patients PatientSource, statuses StatusSource, checklists ChecklistSource, subs SubmissionSource, referrals ReferralSource) *ContextBuilder {
	return &ContextBuilder{
		patients:   patients,
		statuses:   statuses,
		checklists: checklists,
		subs:       subs,
		referrals:  referrals,
	}
}

const activityItemLimit = 5

func (b *ContextBuilder) Build(ctx context.Context, patientID uuid.UUID) (*Context, error) {
	p, err := b.patients.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("load patient: %w", err)
	}

	out := &Context{
		PatientSummary: PatientSummary{
			HasCKDESRD:  p.HasCKDESRD,
			LastGFR:     p.LastGFR,
			HasReferral: p.HasReferral,
		},
	}

	if st, err := b.statuses.Status(ctx, patientID); err == nil {
		out.PathwayStage = st.PathwayStage
		summary := &StatusSummary{
			HasAbsolute: st.HasAbsolute,
			HasRelative: st.HasRelative,
			Absolute:    []string{},
			Relative:    []string{},
		}
		for _, c := range st.Absolute {
			summary.Absolute = append(summary.Absolute, c.Question)
		}
		for _, c := range st.Relative {
			summary.Relative = append(summary.Relative, c.Question)
		}
		if !st.UpdatedAt.IsZero() {
			summary.StatusUpdatedAt = st.UpdatedAt.Format(time.RFC3339)
		}
		out.StatusSummary = summary
	}

	if cl, err := b.checklists.GetByPatient(ctx, patientID); err == nil {
		out.ChecklistProgress = checklistProgress(cl)
		if last, when := lastCompleted(cl); last != "" {
			out.RecentActivity.LastItem = last
			out.RecentActivity.LastActivityDate = when
		}
	}

	if subs, err := b.subs.ListByPatient(ctx, patientID); err == nil && len(subs) > 0 {
		// Submissions come back newest first.
		out.RecentActivity.LastQuestionnaireDate = subs[0].SubmittedAt
	}

	if st, err := b.referrals.GetByPatient(ctx, patientID); err == nil {
		out.ReferralInfo = &ReferralInfo{
			HasReferral:           st.HasReferral,
			ReferralStatus:        st.ReferralStatus,
			HasNephrologist:       st.Nephrologist.Known(),
			HasDialysisCenter:     st.DialysisCenter.Known(),
			PreferredCentersCount: len(st.PreferredCenters),
			Location:              st.Location,
		}
	}

	return out, nil
}

func checklistProgress(cl *checklist.Checklist) *ChecklistProgress {
	cl.Normalize()
	progress := &ChecklistProgress{
		CompletedItems:  []ChecklistItemRef{},
		IncompleteItems: []ChecklistItemRef{},
	}

	var incomplete []checklist.Item
	for _, it := range cl.Items {
		progress.TotalItems++
		if it.IsComplete {
			progress.CompletedCount++
			if len(progress.CompletedItems) < activityItemLimit {
				progress.CompletedItems = append(progress.CompletedItems, ChecklistItemRef{
					Title:       it.Title,
					CompletedAt: it.CompletedAt,
				})
			}
		} else {
			incomplete = append(incomplete, it)
		}
	}
	progress.IncompleteCount = len(incomplete)

	sort.SliceStable(incomplete, func(i, j int) bool { return incomplete[i].Order < incomplete[j].Order })
	for _, it := range incomplete {
		if len(progress.IncompleteItems) == activityItemLimit {
			break
		}
		progress.IncompleteItems = append(progress.IncompleteItems, ChecklistItemRef{
			Title:       it.Title,
			Description: it.Description,
			Order:       it.Order,
		})
	}

	if progress.TotalItems > 0 {
		pct := float64(progress.CompletedCount) / float64(progress.TotalItems) * 100
		progress.CompletionPercentage = math.Round(pct*10) / 10
	}
	return progress
}

func lastCompleted(cl *checklist.Checklist) (string, *time.Time) {
	var title string
	var when *time.Time
	for _, it := range cl.Items {
		if it.CompletedAt == nil {
			continue
		}
		if when == nil || it.CompletedAt.After(*when) {
			title = it.Title
			when = it.CompletedAt
		}
	}
	return title, when
}
