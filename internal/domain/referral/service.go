package referral

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tnav/tnav/internal/domain/patient"
)

// ErrPatientNotFound is returned when operating on an unknown patient.
var ErrPatientNotFound = errors.New("patient not found")

// ErrLocationRequired is returned by center search without a usable state.
var ErrLocationRequired = errors.New("state or location required")

type PatientSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

// PatientFlagSetter mirrors the referral flag back onto the patient record.
// Optional collaborator, wired to the patient service.
type PatientFlagSetter interface {
	SetReferralFlag(ctx context.Context, id uuid.UUID, hasReferral bool) error
}

// UpdateRequest carries the client-settable referral state fields.
type UpdateRequest struct {
	Location         Location  `json:"location"`
	HasReferral      *bool     `json:"has_referral"`
	ReferralSource   *string   `json:"referral_source"`
	Nephrologist     *Provider `json:"last_nephrologist"`
	DialysisCenter   *Provider `json:"dialysis_center"`
	PreferredCenters []string  `json:"preferred_centers"`
	ReferralStatus   Status    `json:"referral_status"`
}

type Service struct {
	repo      Repository
	patients  PatientSource
	directory *Directory
	flags     PatientFlagSetter
	log       zerolog.Logger
}

func NewService(repo Repository, patients PatientSource, directory *Directory, log zerolog.Logger) *Service {
	return &Service{repo: repo, patients: patients, directory: directory, log: log}
}

func (s *Service) SetPatientFlagSetter(f PatientFlagSetter) { s.flags = f }

func (s *Service) loadPatient(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("load patient: %w", err)
	}
	return p, nil
}

// GetOrCreate returns the patient's referral state, initializing a default
// one from the patient record's referral flag on first access.
func (s *Service) GetOrCreate(ctx context.Context, patientID uuid.UUID) (*State, error) {
	st, err := s.repo.GetByPatient(ctx, patientID)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	p, err := s.loadPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	st = &State{
		PatientID:        patientID,
		PreferredCenters: []string{},
		ReferralStatus:   StatusNotStarted,
	}
	if p.HasReferral != nil {
		st.HasReferral = *p.HasReferral
	}
	if err := s.repo.Save(ctx, st); err != nil {
		return nil, fmt.Errorf("save referral state: %w", err)
	}
	return st, nil
}

// Update replaces the patient's referral state and mirrors has_referral onto
// the patient record so the pathway classifier sees it.
func (s *Service) Update(ctx context.Context, patientID uuid.UUID, req UpdateRequest) (*State, error) {
	if _, err := s.loadPatient(ctx, patientID); err != nil {
		return nil, err
	}
	if req.ReferralStatus != "" && !req.ReferralStatus.Valid() {
		return nil, fmt.Errorf("invalid referral_status %q", req.ReferralStatus)
	}

	st := &State{
		PatientID:        patientID,
		Location:         req.Location,
		ReferralSource:   req.ReferralSource,
		Nephrologist:     req.Nephrologist,
		DialysisCenter:   req.DialysisCenter,
		PreferredCenters: req.PreferredCenters,
		ReferralStatus:   req.ReferralStatus,
	}
	if req.HasReferral != nil {
		st.HasReferral = *req.HasReferral
	}
	st.Normalize()
	if err := s.repo.Save(ctx, st); err != nil {
		return nil, fmt.Errorf("save referral state: %w", err)
	}

	if req.HasReferral != nil && s.flags != nil {
		if err := s.flags.SetReferralFlag(ctx, patientID, *req.HasReferral); err != nil {
			s.log.Warn().Err(err).Str("patient_id", patientID.String()).
				Msg("patient referral flag sync failed")
		}
	}
	return st, nil
}

// Nearby searches the center directory. When the query has no state it falls
// back to the stored referral-state location of the given patient, if any.
func (s *Service) Nearby(ctx context.Context, patientID *uuid.UUID, q NearbyQuery) ([]NearbyCenter, error) {
	if q.State == "" && patientID != nil {
		if st, err := s.repo.GetByPatient(ctx, *patientID); err == nil {
			if st.Location.State != nil {
				q.State = *st.Location.State
			}
			if q.Lat == nil {
				q.Lat = st.Location.Lat
			}
			if q.Lng == nil {
				q.Lng = st.Location.Lng
			}
		}
	}
	if q.State == "" {
		return nil, ErrLocationRequired
	}
	return FindNearby(s.directory.Load(), q), nil
}

// Pathway derives which referral route the patient should pursue from the
// providers on file.
func (s *Service) Pathway(ctx context.Context, patientID uuid.UUID) (*PathwayResponse, error) {
	if _, err := s.loadPatient(ctx, patientID); err != nil {
		return nil, err
	}
	st, err := s.repo.GetByPatient(ctx, patientID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		st = &State{}
	}

	switch {
	case st.Nephrologist.Known():
		return nephrologistPathway(), nil
	case st.DialysisCenter.Known():
		return dialysisCenterPathway(), nil
	default:
		return noProviderPathway(), nil
	}
}
