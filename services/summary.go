package services

import (
	"context"
	"fmt"
	"strings"

	"gbp-auditor/models"
	"gbp-auditor/utils"
)

// EmailSummary is a generated plain-text summary with its subject line.
type EmailSummary struct {
	Subject string
	Body    string
}

// Summarizer turns a completed audit into an email body. The generator's text
// is returned unmodified; no structural validation is applied to it.
type Summarizer struct {
	gen    Generator
	logger *utils.Logger
}

// NewSummarizer creates a Summarizer over the given generator.
func NewSummarizer(gen Generator, logger *utils.Logger) *Summarizer {
	return &Summarizer{gen: gen, logger: logger}
}

// Summarize asks the generator for a plain-text email summary of result.
func (s *Summarizer) Summarize(ctx context.Context, result *models.AuditResult, businessName string) (EmailSummary, error) {
	if result == nil {
		return EmailSummary{}, models.NewGenerationError("summary", fmt.Errorf("no audit result to summarize"))
	}
	if strings.TrimSpace(businessName) == "" {
		return EmailSummary{}, &models.ValidationError{Field: "businessName"}
	}

	prompt, err := BuildSummaryPrompt(result, businessName)
	if err != nil {
		return EmailSummary{}, models.NewGenerationError("summary", err)
	}

	body, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		s.logger.Error("[summary] Could not generate email summary: %v", err)
		return EmailSummary{}, models.NewGenerationError("summary", err)
	}

	s.logger.Debug("[summary] Generated %d byte summary for %q", len(body), businessName)
	return EmailSummary{Subject: EmailSubject(businessName), Body: body}, nil
}
