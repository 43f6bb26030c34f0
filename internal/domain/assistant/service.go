package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tnav/tnav/internal/platform/llm"
)

// ErrNotConfigured is returned when no LLM API key is set.
var ErrNotConfigured = errors.New("ai assistant is not configured")

// ErrEmptyQuery is returned for a blank question.
var ErrEmptyQuery = errors.New("query is required")

// Completer is the slice of the LLM client the assistant needs.
type Completer interface {
	Enabled() bool
	Model() string
	Complete(ctx context.Context, model string, messages []llm.Message) (string, error)
}

// ContextSummary is the condensed context echoed back with each answer.
type ContextSummary struct {
	PathwayStage        string   `json:"pathway_stage,omitempty"`
	ChecklistCompletion *float64 `json:"checklist_completion,omitempty"`
	HasReferral         *bool    `json:"has_referral,omitempty"`
}

type QueryResult struct {
	Response       string         `json:"response"`
	ContextSummary ContextSummary `json:"context_summary"`
}

type StatusInfo struct {
	Enabled bool   `json:"enabled"`
	Model   string `json:"model,omitempty"`
	Message string `json:"message"`
}

type Service struct {
	builder *ContextBuilder
	llm     Completer
	log     zerolog.Logger
}

func NewService(builder *ContextBuilder, completer Completer, log zerolog.Logger) *Service {
	return &Service{builder: builder, llm: completer, log: log}
}

// Query answers a patient question with their aggregated data as context.
func (s *Service) Query(ctx context.Context, patientID uuid.UUID, query, model string) (*QueryResult, error) {
	if !s.llm.Enabled() {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	pctx, err := s.builder.Build(ctx, patientID)
	if err != nil {
		return nil, err
	}

	if model == "" {
		model = s.llm.Model()
	}
	answer, err := s.llm.Complete(ctx, model, []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: buildUserPrompt(query, pctx)},
	})
	if err != nil {
		return nil, fmt.Errorf("llm completion: %w", err)
	}
	s.log.Debug().Str("patient_id", patientID.String()).Str("model", model).Msg("assistant query answered")

	return &QueryResult{Response: answer, ContextSummary: summarize(pctx)}, nil
}

// Context exposes the aggregated patient context for debugging.
func (s *Service) Context(ctx context.Context, patientID uuid.UUID) (*Context, error) {
	return s.builder.Build(ctx, patientID)
}

// Status reports whether the assistant can take queries.
func (s *Service) Status() StatusInfo {
	if !s.llm.Enabled() {
		return StatusInfo{
			Enabled: false,
			Message: "AI assistant is not configured. Set OPENAI_API_KEY to enable.",
		}
	}
	return StatusInfo{
		Enabled: true,
		Model:   s.llm.Model(),
		Message: "AI assistant is configured and ready",
	}
}

func summarize(c *Context) ContextSummary {
	summary := ContextSummary{
		PathwayStage: string(c.PathwayStage),
		HasReferral:  c.PatientSummary.HasReferral,
	}
	if c.ChecklistProgress != nil {
		pct := c.ChecklistProgress.CompletionPercentage
		summary.ChecklistCompletion = &pct
	}
	if c.ReferralInfo != nil {
		summary.HasReferral = &c.ReferralInfo.HasReferral
	}
	return summary
}
