package models

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validResult() *AuditResult {
	return &AuditResult{
		OverallScore: 72,
		AuditBreakdown: []AuditBreakdownItem{
			{Category: "Profile Completeness", Score: 85, Comment: "NAP is consistent."},
		},
		Recommendations: []Recommendation{
			{Title: "Reply to reviews", Description: "Respond within 24 hours."},
		},
	}
}

func TestAuditResultScoreBoundaries(t *testing.T) {
	tests := []struct {
		score int
		ok    bool
	}{
		{-1, false},
		{0, true},
		{50, true},
		{100, true},
		{101, false},
	}

	for _, tt := range tests {
		r := validResult()
		r.OverallScore = tt.score
		err := r.Validate()
		if tt.ok {
			assert.NoError(t, err, "overallScore %d", tt.score)
		} else {
			assert.Error(t, err, "overallScore %d", tt.score)
		}

		r = validResult()
		r.AuditBreakdown[0].Score = tt.score
		err = r.Validate()
		if tt.ok {
			assert.NoError(t, err, "breakdown score %d", tt.score)
		} else {
			assert.Error(t, err, "breakdown score %d", tt.score)
		}
	}
}

func TestAuditResultRejectsEmptySequences(t *testing.T) {
	r := validResult()
	r.AuditBreakdown = nil
	assert.Error(t, r.Validate())

	r = validResult()
	r.Recommendations = []Recommendation{}
	assert.Error(t, r.Validate())
}

func TestAuditResultRejectsBlankLabels(t *testing.T) {
	r := validResult()
	r.AuditBreakdown[0].Category = "  "
	assert.Error(t, r.Validate())

	r = validResult()
	r.AuditBreakdown[0].Comment = ""
	assert.Error(t, r.Validate())

	r = validResult()
	r.Recommendations[0].Title = ""
	assert.Error(t, r.Validate())

	r = validResult()
	r.Recommendations[0].Description = ""
	assert.Error(t, r.Validate())
}

func TestAuditResultValidateWithMinimums(t *testing.T) {
	r := validResult()
	require.NoError(t, r.ValidateWith(Minimums{}))
	assert.Error(t, r.ValidateWith(Minimums{Breakdown: 6, Recommendations: 1}))
	assert.Error(t, r.ValidateWith(Minimums{Breakdown: 1, Recommendations: 4}))

	var nilResult *AuditResult
	assert.Error(t, nilResult.Validate())
}

func TestDraftFormValidate(t *testing.T) {
	full := DraftForm{BusinessName: "Joe's Pizza", Location: "Brooklyn, NY", Email: "joe@example.com", PhoneNumber: "555-0100"}
	require.NoError(t, full.Validate())

	missing := full
	missing.BusinessName = ""
	err := missing.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "businessName", ve.Field)

	missing = full
	missing.PhoneNumber = " "
	require.True(t, errors.As(missing.Validate(), &ve))
	assert.Equal(t, "phoneNumber", ve.Field)
}

func TestNewAuditEntry(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("EST", -5*3600))
	form := DraftForm{BusinessName: "Joe's Pizza", Location: "Brooklyn, NY", Email: "joe@example.com", PhoneNumber: "555-0100"}

	got := NewAuditEntry(form, at)
	want := AuditEntry{
		Email:        "joe@example.com",
		BusinessName: "Joe's Pizza",
		Location:     "Brooklyn, NY",
		PhoneNumber:  "555-0100",
		Timestamp:    time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NewAuditEntry mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerationErrorWrapping(t *testing.T) {
	cause := errors.New("deadline exceeded")
	err := error(NewGenerationError("audit", cause))

	assert.True(t, errors.Is(err, ErrGeneration))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrValidation))

	var ge *GenerationError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, GenerationUserMessage, ge.UserMessage())
	assert.Contains(t, err.Error(), "deadline exceeded")
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		score int
		want  ScoreBand
	}{
		{0, BandPoor},
		{39, BandPoor},
		{40, BandFair},
		{74, BandFair},
		{75, BandGood},
		{100, BandGood},
	}
	for _, tt := range tests {
		if got := BandFor(tt.score); got != tt.want {
			t.Errorf("BandFor(%d) = %s; want %s", tt.score, got, tt.want)
		}
	}
}
