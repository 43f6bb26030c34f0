package pathway

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tnav/tnav/internal/domain/checklist"
	"github.com/tnav/tnav/internal/domain/questionnaire"
)

// ErrNoQuestionnaire signals that a status cannot be computed because the
// patient has never submitted a questionnaire. Callers surface it as a
// not-found condition, not a server fault.
var ErrNoQuestionnaire = errors.New("no questionnaire submitted")

// selectionThreshold is the checklist completion ratio at which a patient
// advances from evaluation to selection. The boundary is inclusive.
const selectionThreshold = 0.8

// ResolveContraindications rolls an append-only submission history up into
// one canonical answer per question and classifies the yes answers against
// the screening catalog.
//
// Submissions are ordered newest first; a missing submitted_at sorts last
// (treated as older than any timestamped submission). The sort is stable, so
// submissions sharing a timestamp keep their input order and the earlier
// input element wins. The scan writes each question's answer only on first
// sight, which makes the latest submission win per question. Question ids
// absent from the catalog are ignored.
func ResolveContraindications(subs []*questionnaire.Submission, catalog []questionnaire.Question) ContraindicationResult {
	ordered := make([]*questionnaire.Submission, len(subs))
	copy(ordered, subs)
	sort.SliceStable(ordered, func(i, j int) bool {
		ti, tj := ordered[i].SubmittedAt, ordered[j].SubmittedAt
		if ti == nil {
			return false
		}
		if tj == nil {
			return true
		}
		return ti.After(*tj)
	})

	latest := make(map[string]questionnaire.Answer)
	for _, sub := range ordered {
		for qid, ans := range sub.Answers {
			if _, seen := latest[qid]; !seen {
				latest[qid] = ans
			}
		}
	}

	result := ContraindicationResult{
		Absolute: []Contraindication{},
		Relative: []Contraindication{},
	}
	// Walk the catalog rather than the answer map so output order is
	// deterministic. Each question id appears in the catalog once, which
	// gives the sets their at-most-once semantics.
	for _, q := range catalog {
		if latest[q.ID] != questionnaire.AnswerYes {
			continue
		}
		ci := Contraindication{ID: q.ID, Question: q.Question}
		switch q.Category {
		case questionnaire.CategoryAbsolute:
			result.Absolute = append(result.Absolute, ci)
		case questionnaire.CategoryRelative:
			result.Relative = append(result.Relative, ci)
		}
	}
	result.HasAbsolute = len(result.Absolute) > 0
	result.HasRelative = len(result.Relative) > 0
	return result
}

// ClassifyStage derives the patient's journey stage. The rules are an
// ordered decision list, first match wins; rules 2 and 4 overlap on purpose
// and the ordering resolves the conflict, so do not reorder.
func ClassifyStage(hasCKDESRD, hasReferral TriState, hasQuestionnaire bool, cl *checklist.Checklist) Stage {
	// Explicitly no kidney disease keeps the patient in identification no
	// matter what else is on file.
	if hasCKDESRD == No {
		return StageIdentification
	}
	// An existing referral without a questionnaire means the patient is
	// already past intake.
	if hasReferral == Yes && !hasQuestionnaire {
		return StageEvaluation
	}
	if !hasQuestionnaire {
		return StageIdentification
	}
	// Only an explicit yes advances past referral; false and unknown both
	// stay here.
	if hasReferral != Yes {
		return StageReferral
	}
	if cl == nil {
		return StageReferral
	}
	cl.Normalize()
	completed, total := cl.Completion()
	if total == 0 {
		return StageReferral
	}
	if float64(completed)/float64(total) >= selectionThreshold {
		return StageSelection
	}
	return StageEvaluation
}

// ComputeStatus is the composed status computation: contraindication rollup
// plus stage classification over consistent snapshots. It fails fast with
// ErrNoQuestionnaire when the submission history is empty; every other
// malformed input (missing catalog, null checklist items, unknown question
// ids) is absorbed by coercion, never an error.
func ComputeStatus(patientID uuid.UUID, subs []*questionnaire.Submission, catalog []questionnaire.Question, cl *checklist.Checklist, pat PatientSnapshot) (*PatientStatus, error) {
	if len(subs) == 0 {
		return nil, ErrNoQuestionnaire
	}
	result := ResolveContraindications(subs, catalog)
	stage := ClassifyStage(pat.HasCKDESRD, pat.HasReferral, true, cl)
	return &PatientStatus{
		PatientID:    patientID,
		HasAbsolute:  result.HasAbsolute,
		HasRelative:  result.HasRelative,
		Absolute:     result.Absolute,
		Relative:     result.Relative,
		PathwayStage: stage,
		UpdatedAt:    time.Now().UTC(),
	}, nil
}

// InitialStatus builds the stage-only status used right after intake,
// before the first questionnaire. No contraindications can exist yet.
func InitialStatus(patientID uuid.UUID, cl *checklist.Checklist, pat PatientSnapshot) *PatientStatus {
	return &PatientStatus{
		PatientID:    patientID,
		Absolute:     []Contraindication{},
		Relative:     []Contraindication{},
		PathwayStage: ClassifyStage(pat.HasCKDESRD, pat.HasReferral, false, cl),
		UpdatedAt:    time.Now().UTC(),
	}
}
