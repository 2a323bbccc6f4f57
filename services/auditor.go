package services

import (
	"context"

	"gbp-auditor/gemini"
	"gbp-auditor/models"
	"gbp-auditor/utils"
)

// Generator is the external generation service as seen by the builders.
// *gemini.Client satisfies it.
type Generator interface {
	GenerateJSON(ctx context.Context, req gemini.StructuredRequest) (string, error)
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// AuditorOptions tune the audit request.
type AuditorOptions struct {
	Temperature float32
	Minimums    models.Minimums
}

// Auditor builds audit requests, sends them, and validates the response.
// It performs no retry; the caller decides whether to resubmit.
type Auditor struct {
	gen    Generator
	logger *utils.Logger
	opts   AuditorOptions
}

// NewAuditor creates an Auditor over the given generator.
func NewAuditor(gen Generator, logger *utils.Logger, opts AuditorOptions) *Auditor {
	if opts.Temperature <= 0 {
		opts.Temperature = 0.7
	}
	opts.Minimums.Breakdown = atLeastOne(opts.Minimums.Breakdown)
	opts.Minimums.Recommendations = atLeastOne(opts.Minimums.Recommendations)
	return &Auditor{gen: gen, logger: logger, opts: opts}
}

// RequestAudit validates the input locally, issues one structured generation
// call and returns a fully validated result. Empty input fails with a
// *models.ValidationError before any network I/O; every other failure is a
// *models.GenerationError.
func (a *Auditor) RequestAudit(ctx context.Context, form models.DraftForm) (*models.AuditResult, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	prompt, err := BuildAuditPrompt(form, a.opts.Minimums)
	if err != nil {
		return nil, models.NewGenerationError("audit", err)
	}

	a.logger.Info("[auditor] Requesting audit for %q in %q", form.BusinessName, form.Location)

	raw, err := a.gen.GenerateJSON(ctx, gemini.StructuredRequest{
		Prompt:      prompt,
		Schema:      AuditResponseSchema(a.opts.Minimums),
		Temperature: a.opts.Temperature,
	})
	if err != nil {
		a.logger.Error("[auditor] Generation call failed: %v", err)
		return nil, models.NewGenerationError("audit", err)
	}

	result, err := ParseAuditResult(raw, a.opts.Minimums)
	if err != nil {
		a.logger.Error("[auditor] Discarding response that violates the result contract: %v", err)
		return nil, models.NewGenerationError("audit", err)
	}

	a.logger.Info("[auditor] Audit complete: overall %d/100, %d categories, %d recommendations",
		result.OverallScore, len(result.AuditBreakdown), len(result.Recommendations))
	return result, nil
}
