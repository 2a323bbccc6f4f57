package models

import (
	"fmt"
	"strings"
	"time"
)

// Score bounds shared by the overall score and every breakdown item.
const (
	MinScore = 0
	MaxScore = 100
)

// AuditBreakdownItem is one scored sub-category of the audit.
type AuditBreakdownItem struct {
	Category string `json:"category"`
	Score    int    `json:"score"`
	Comment  string `json:"comment"`
}

// Recommendation is one actionable suggestion.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AuditResult is the full response contract returned by the generation service.
// Values are only ever produced by a successful parse-and-validate step and are
// not mutated afterwards.
type AuditResult struct {
	OverallScore    int                  `json:"overallScore"`
	AuditBreakdown  []AuditBreakdownItem `json:"auditBreakdown"`
	Recommendations []Recommendation     `json:"recommendations"`
}

// Minimums are the lower bounds on the two result sequences.
type Minimums struct {
	Breakdown       int
	Recommendations int
}

// Validate checks every structural invariant of the result: score bounds,
// non-empty labels and at least one element in each sequence.
func (r *AuditResult) Validate() error {
	return r.ValidateWith(Minimums{Breakdown: 1, Recommendations: 1})
}

// ValidateWith is Validate with caller supplied sequence minimums. Minimums
// below one are raised to one.
func (r *AuditResult) ValidateWith(want Minimums) error {
	if r == nil {
		return fmt.Errorf("audit result is nil")
	}
	if err := ValidateScore("overallScore", r.OverallScore); err != nil {
		return err
	}

	if want.Breakdown < 1 {
		want.Breakdown = 1
	}
	if want.Recommendations < 1 {
		want.Recommendations = 1
	}

	if len(r.AuditBreakdown) < want.Breakdown {
		return fmt.Errorf("auditBreakdown has %d items, want at least %d", len(r.AuditBreakdown), want.Breakdown)
	}
	for i, item := range r.AuditBreakdown {
		if strings.TrimSpace(item.Category) == "" {
			return fmt.Errorf("auditBreakdown[%d].category is empty", i)
		}
		if strings.TrimSpace(item.Comment) == "" {
			return fmt.Errorf("auditBreakdown[%d].comment is empty", i)
		}
		if err := ValidateScore(fmt.Sprintf("auditBreakdown[%d].score", i), item.Score); err != nil {
			return err
		}
	}

	if len(r.Recommendations) < want.Recommendations {
		return fmt.Errorf("recommendations has %d items, want at least %d", len(r.Recommendations), want.Recommendations)
	}
	for i, rec := range r.Recommendations {
		if strings.TrimSpace(rec.Title) == "" {
			return fmt.Errorf("recommendations[%d].title is empty", i)
		}
		if strings.TrimSpace(rec.Description) == "" {
			return fmt.Errorf("recommendations[%d].description is empty", i)
		}
	}
	return nil
}

// ValidateScore rejects scores outside [MinScore, MaxScore].
func ValidateScore(field string, score int) error {
	if score < MinScore || score > MaxScore {
		return fmt.Errorf("%s = %d is outside [%d, %d]", field, score, MinScore, MaxScore)
	}
	return nil
}

// AuditEntry is one row of submission history. It carries no audit content.
type AuditEntry struct {
	Email        string    `json:"email"`
	BusinessName string    `json:"businessName"`
	Location     string    `json:"location"`
	PhoneNumber  string    `json:"phoneNumber,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewAuditEntry builds a history entry for a completed submission.
func NewAuditEntry(form DraftForm, at time.Time) AuditEntry {
	return AuditEntry{
		Email:        form.Email,
		BusinessName: form.BusinessName,
		Location:     form.Location,
		PhoneNumber:  form.PhoneNumber,
		Timestamp:    at.UTC(),
	}
}

// DraftForm is the user's in-progress input before a successful submission.
type DraftForm struct {
	BusinessName string
	Location     string
	Email        string
	PhoneNumber  string
}

// Validate returns a *ValidationError naming the first empty required field.
func (f DraftForm) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"businessName", f.BusinessName},
		{"location", f.Location},
		{"email", f.Email},
		{"phoneNumber", f.PhoneNumber},
	}
	for _, fld := range fields {
		if strings.TrimSpace(fld.value) == "" {
			return &ValidationError{Field: fld.name}
		}
	}
	return nil
}

// IsEmpty reports whether no field has been filled in.
func (f DraftForm) IsEmpty() bool {
	return f.BusinessName == "" && f.Location == "" && f.Email == "" && f.PhoneNumber == ""
}
