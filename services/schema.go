package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"gbp-auditor/models"
)

// AuditResponseSchema is the response-shape contract attached to every audit
// request. minItems mirrors the configured minimums so the generator is
// constrained the same way the parser validates.
func AuditResponseSchema(want models.Minimums) *genai.Schema {
	scoreSchema := func(desc string) *genai.Schema {
		return &genai.Schema{
			Type:        genai.TypeInteger,
			Description: desc,
			Minimum:     genai.Ptr[float64](models.MinScore),
			Maximum:     genai.Ptr[float64](models.MaxScore),
		}
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"overallScore": scoreSchema("A score from 0 to 100 representing the overall health of the Google Business Profile."),
			"auditBreakdown": {
				Type:     genai.TypeArray,
				MinItems: genai.Ptr(int64(atLeastOne(want.Breakdown))),
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"category": {Type: genai.TypeString, Description: "The category being audited (e.g., 'Profile Completeness', 'Review Management')."},
						"score":    scoreSchema("Score for this category (0-100)."),
						"comment":  {Type: genai.TypeString, Description: "A brief comment on this category's performance."},
					},
					Required:         []string{"category", "score", "comment"},
					PropertyOrdering: []string{"category", "score", "comment"},
				},
			},
			"recommendations": {
				Type:     genai.TypeArray,
				MinItems: genai.Ptr(int64(atLeastOne(want.Recommendations))),
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title":       {Type: genai.TypeString, Description: "A short, catchy title for the recommendation."},
						"description": {Type: genai.TypeString, Description: "A detailed explanation of the suggested improvement."},
					},
					Required:         []string{"title", "description"},
					PropertyOrdering: []string{"title", "description"},
				},
			},
		},
		Required:         []string{"overallScore", "auditBreakdown", "recommendations"},
		PropertyOrdering: []string{"overallScore", "auditBreakdown", "recommendations"},
	}
}

// wire types use pointers so that a missing field is distinguishable from a zero value.
type wireResult struct {
	OverallScore    *int                 `json:"overallScore"`
	AuditBreakdown  []wireBreakdownItem  `json:"auditBreakdown"`
	Recommendations []wireRecommendation `json:"recommendations"`
}

type wireBreakdownItem struct {
	Category *string `json:"category"`
	Score    *int    `json:"score"`
	Comment  *string `json:"comment"`
}

type wireRecommendation struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

var errMissingField = errors.New("missing required field")

// ParseAuditResult decodes raw generator output and validates it. It returns
// either a fully valid result or an error; never a partial result.
func ParseAuditResult(raw string, want models.Minimums) (*models.AuditResult, error) {
	text := stripCodeFence(raw)
	if text == "" {
		return nil, fmt.Errorf("parse: empty payload")
	}

	var w wireResult
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("parse: decode: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("parse: trailing data after JSON object")
	}

	if w.OverallScore == nil {
		return nil, fmt.Errorf("parse: overallScore: %w", errMissingField)
	}
	if w.AuditBreakdown == nil {
		return nil, fmt.Errorf("parse: auditBreakdown: %w", errMissingField)
	}
	if w.Recommendations == nil {
		return nil, fmt.Errorf("parse: recommendations: %w", errMissingField)
	}

	result := &models.AuditResult{
		OverallScore:    *w.OverallScore,
		AuditBreakdown:  make([]models.AuditBreakdownItem, 0, len(w.AuditBreakdown)),
		Recommendations: make([]models.Recommendation, 0, len(w.Recommendations)),
	}
	for i, item := range w.AuditBreakdown {
		if item.Category == nil || item.Score == nil || item.Comment == nil {
			return nil, fmt.Errorf("parse: auditBreakdown[%d]: %w", i, errMissingField)
		}
		result.AuditBreakdown = append(result.AuditBreakdown, models.AuditBreakdownItem{
			Category: strings.TrimSpace(*item.Category),
			Score:    *item.Score,
			Comment:  strings.TrimSpace(*item.Comment),
		})
	}
	for i, rec := range w.Recommendations {
		if rec.Title == nil || rec.Description == nil {
			return nil, fmt.Errorf("parse: recommendations[%d]: %w", i, errMissingField)
		}
		result.Recommendations = append(result.Recommendations, models.Recommendation{
			Title:       strings.TrimSpace(*rec.Title),
			Description: strings.TrimSpace(*rec.Description),
		})
	}

	if err := result.ValidateWith(want); err != nil {
		return nil, fmt.Errorf("parse: validate: %w", err)
	}
	return result, nil
}

// stripCodeFence trims whitespace and a surrounding ``` or ```json fence.
func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = ""
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
