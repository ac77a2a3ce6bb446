package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/samasastudio/sq-gendash/internal/dto"
	"github.com/samasastudio/sq-gendash/internal/errs"
	"github.com/samasastudio/sq-gendash/internal/models"
	"github.com/samasastudio/sq-gendash/internal/plan"
	"github.com/samasastudio/sq-gendash/pkg/helpers"
	"github.com/samasastudio/sq-gendash/pkg/logger"
)

const (
	providerSample     = "sample"
	defaultHistorySize = 20
	maxHistorySize     = 100
	maxPromptLength    = 2000
)

type vertexClient interface {
	Configured() bool
	Model() string
	GenerateContent(ctx context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error)
}

type generationStore interface {
	Save(ctx context.Context, uid string, g models.Generation) error
	List(ctx context.Context, uid string, limit int) ([]models.Generation, error)
}

type planService struct {
	vertex      vertexClient
	workspace   workspaceStore
	generations generationStore
	ttl         time.Duration
	clockNow    func() time.Time
}

func NewPlanService(vertex vertexClient, workspace workspaceStore, generations generationStore, ttl time.Duration) *planService {
	return &planService{
		vertex:      vertex,
		workspace:   workspace,
		generations: generations,
		ttl:         ttl,
		clockNow:    time.Now,
	}
}

// generated is the outcome of asking the model for a plan.
type generated struct {
	plan     models.Plan
	provider string
	fallback bool
	note     string
	dropped  []plan.Drop
}

// Generate turns a prompt into a plan and starts a new generation. The
// workspace is reset to the new plan, so any load still running for an
// older generation becomes stale.
func (s *planService) Generate(ctx context.Context, uid, prompt string) (dto.GeneratePlanResponse, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return dto.GeneratePlanResponse{}, errs.NewValidationError("prompt is required")
	}
	if len(prompt) > maxPromptLength {
		return dto.GeneratePlanResponse{}, errs.NewValidationError(fmt.Sprintf("prompt must be at most %d characters", maxPromptLength))
	}

	gen, err := s.generate(ctx, prompt)
	if err != nil {
		return dto.GeneratePlanResponse{}, err
	}

	now := s.clockNow()
	generationID := uuid.NewString()
	log, ctx := logger.With(ctx, "generation_id", generationID)

	notes := []string{}
	if gen.note != "" {
		notes = append(notes, gen.note)
	}
	ws := &models.Workspace{
		GenerationID: generationID,
		Prompt:       prompt,
		Provider:     gen.provider,
		Plan:         gen.plan,
		Datasets:     map[string]models.DatasetResult{},
		Notes:        notes,
	}
	if err := s.workspace.Save(ctx, uid, ws); err != nil {
		return dto.GeneratePlanResponse{}, err
	}

	record := models.Generation{
		GenerationID: generationID,
		Prompt:       prompt,
		Provider:     gen.provider,
		Title:        gen.plan.Title,
		Fallback:     gen.fallback,
		Note:         gen.note,
		Dropped:      len(gen.dropped),
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.ttl),
	}
	if err := s.generations.Save(ctx, uid, record); err != nil {
		// History is best effort; the workspace already holds the plan.
		log.Warn("failed to record generation", "error", err)
	}

	presets, err := plan.Presets()
	if err != nil {
		return dto.GeneratePlanResponse{}, err
	}

	log.Info("plan generated",
		"provider", gen.provider,
		"fallback", gen.fallback,
		"datasets", len(gen.plan.Datasets),
		"widgets", len(gen.plan.Widgets),
		"dropped", len(gen.dropped))

	return dto.GeneratePlanResponse{
		GenerationID: generationID,
		Plan:         gen.plan,
		Provider:     gen.provider,
		Fallback:     gen.fallback,
		Note:         gen.note,
		Dropped:      gen.dropped,
		Presets:      presets,
	}, nil
}

func (s *planService) generate(ctx context.Context, prompt string) (generated, error) {
	log := logger.FromContext(ctx)

	if !s.vertex.Configured() {
		return sampleFallback("model not configured, returning sample plan")
	}

	provider := "vertex:" + s.vertex.Model()
	resp, err := s.vertex.GenerateContent(ctx, dto.VertexGenerateRequest{
		System:           planSystemPrompt,
		UserMessage:      planUserPrompt(prompt),
		Temperature:      helpers.Ptr(float32(0.2)),
		MaxOutputTokens:  helpers.Ptr(int32(4096)),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return generated{}, errs.NewExternalServiceError("vertex", "failed to generate dashboard plan", true, err)
	}

	res, err := plan.Run(resp.Text)
	if err != nil {
		var extractErr *errs.ExtractionError
		var invalidErr *errs.InvalidPlanError
		if errors.As(err, &extractErr) || errors.As(err, &invalidErr) {
			log.Warn("model output unusable, using sample plan",
				"stage", res.FailedAt.String(),
				"finish_reason", resp.FinishReason,
				"error", err)
			gen, sampleErr := sampleFallback(fmt.Sprintf("model output was unusable (%s), returning sample plan", err.Error()))
			gen.provider = provider
			return gen, sampleErr
		}
		return generated{}, err
	}

	for _, d := range res.Report.Dropped {
		log.Warn("dropped invalid plan entity", "path", d.Path, "reason", d.Reason)
	}
	return generated{
		plan:     res.Plan,
		provider: provider,
		dropped:  res.Report.Dropped,
	}, nil
}

func sampleFallback(note string) (generated, error) {
	p, err := plan.SamplePlan()
	if err != nil {
		return generated{}, err
	}
	return generated{plan: p, provider: providerSample, fallback: true, note: note}, nil
}

func (s *planService) Presets() ([]plan.Preset, error) {
	return plan.Presets()
}

// History lists recent generations, newest first.
func (s *planService) History(ctx context.Context, uid string, limit int) ([]dto.GenerationSummary, error) {
	if limit <= 0 {
		limit = defaultHistorySize
	}
	limit = min(limit, maxHistorySize)

	gens, err := s.generations.List(ctx, uid, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GenerationSummary, 0, len(gens))
	for _, g := range gens {
		out = append(out, dto.GenerationSummary{
			GenerationID: g.GenerationID,
			Prompt:       g.Prompt,
			Title:        g.Title,
			Provider:     g.Provider,
			Fallback:     g.Fallback,
			CreatedAt:    g.CreatedAt,
		})
	}
	return out, nil
}
