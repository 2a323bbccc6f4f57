package services

import (
	"context"
	"sync"

	"gbp-auditor/gemini"
	"gbp-auditor/models"
)

// fakeGenerator records every call and answers with canned output.
type fakeGenerator struct {
	mu sync.Mutex

	jsonOut string
	jsonErr error
	textOut string
	textErr error

	// block, when set, is received from before GenerateJSON returns.
	block chan struct{}

	jsonCalls []gemini.StructuredRequest
	textCalls []string
}

func (f *fakeGenerator) GenerateJSON(ctx context.Context, req gemini.StructuredRequest) (string, error) {
	f.mu.Lock()
	f.jsonCalls = append(f.jsonCalls, req)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.jsonOut, f.jsonErr
}

func (f *fakeGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.textCalls = append(f.textCalls, prompt)
	return f.textOut, f.textErr
}

func (f *fakeGenerator) jsonCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.jsonCalls)
}

const validAuditJSON = `{
  "overallScore": 72,
  "auditBreakdown": [
    {"category": "Profile Completeness & Accuracy", "score": 80, "comment": "NAP is consistent."},
    {"category": "Review Strategy & Responsiveness", "score": 65, "comment": "Replies are slow."},
    {"category": "Photo & Video Strategy", "score": 70, "comment": "Needs more food photos."},
    {"category": "Post Frequency & Engagement", "score": 55, "comment": "Posts are irregular."},
    {"category": "Q&A Engagement", "score": 60, "comment": "Few seeded questions."},
    {"category": "Local SEO Signals", "score": 75, "comment": "Decent local citations."}
  ],
  "recommendations": [
    {"title": "Reply within 24 hours", "description": "Respond to every review promptly."},
    {"title": "Post weekly specials", "description": "Use offer posts with a clear call to action."},
    {"title": "Seed the Q&A", "description": "Add the five most common questions."},
    {"title": "Refresh photos", "description": "Upload well-lit photos of signature dishes."}
  ]
}`

func joesPizza() models.DraftForm {
	return models.DraftForm{
		BusinessName: "Joe's Pizza",
		Location:     "New York, NY",
		Email:        "joe@example.com",
		PhoneNumber:  "(212) 555-0100",
	}
}
