package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gbp-auditor/config"
	"gbp-auditor/gemini"
	"gbp-auditor/models"
	"gbp-auditor/services"
	"gbp-auditor/utils"
)

const cannedAudit = `{"overallScore": 64,
  "auditBreakdown": [{"category": "Photo & Video Strategy", "score": 30, "comment": "Too few photos."}],
  "recommendations": [{"title": "Upload photos", "description": "Add ten well-lit photos."}]}`

type cannedGenerator struct {
	calls int
	err   error
}

func (g *cannedGenerator) GenerateJSON(context.Context, gemini.StructuredRequest) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return cannedAudit, nil
}

func (g *cannedGenerator) GenerateText(context.Context, string) (string, error) {
	return "Here is the summary of your Google Business Profile audit for Joe's Pizza:", nil
}

// setupCLI points the commands at a fresh SQLite file and a canned generator.
func setupCLI(t *testing.T) *cannedGenerator {
	t.Helper()
	dir := t.TempDir()
	cfg = &config.Config{
		GeminiModel:        gemini.DefaultModel,
		MaxRetries:         1,
		MinBreakdown:       1,
		MinRecommendations: 1,
		StoreBackend:       config.BackendSQLite,
		SQLitePath:         filepath.Join(dir, "cli.db"),
		CSVExportPath:      filepath.Join(dir, "history.csv"),
	}
	logger = utils.NewNopLogger()

	gen := &cannedGenerator{}
	prev := newGenerator
	newGenerator = func(context.Context, *config.Config, *utils.Logger) (services.Generator, error) {
		return gen, nil
	}

	t.Cleanup(func() {
		newGenerator = prev
		formFlags = models.DraftForm{}
		auditRetries, auditEmail, auditJSON = 0, false, false
		historyJSON, historyYes, historyCSV = false, false, ""
	})
	return gen
}

func run(t *testing.T, fn func(*cobra.Command, []string) error) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	err := fn(cmd, nil)
	return buf.String(), err
}

func TestDraftSetShowClear(t *testing.T) {
	setupCLI(t)

	formFlags = models.DraftForm{BusinessName: "Joe's Pizza"}
	_, err := run(t, runDraftSet)
	require.NoError(t, err)

	formFlags = models.DraftForm{Location: "New York, NY"}
	_, err = run(t, runDraftSet)
	require.NoError(t, err)

	out, err := run(t, runDraftShow)
	require.NoError(t, err)
	assert.Contains(t, out, "Joe's Pizza")
	assert.Contains(t, out, "New York, NY")

	_, err = run(t, runDraftClear)
	require.NoError(t, err)
	out, err = run(t, runDraftShow)
	require.NoError(t, err)
	assert.Contains(t, out, "No draft stored.")
}

func TestAuditUsesDraftAndRecordsHistory(t *testing.T) {
	gen := setupCLI(t)

	formFlags = models.DraftForm{BusinessName: "Joe's Pizza", Location: "New York, NY"}
	_, err := run(t, runDraftSet)
	require.NoError(t, err)

	formFlags = models.DraftForm{Email: "joe@example.com", PhoneNumber: "(212) 555-0100"}
	auditJSON, auditEmail = true, true
	out, err := run(t, runAudit)
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, out, `"overallScore": 64`)
	assert.Contains(t, out, "Subject: Your Google Business Profile Audit for Joe's Pizza")

	formFlags = models.DraftForm{}
	out, err = run(t, runDraftShow)
	require.NoError(t, err)
	assert.Contains(t, out, "No draft stored.")

	historyJSON = true
	out, err = run(t, runHistoryList)
	require.NoError(t, err)
	var entries []models.AuditEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Joe's Pizza", entries[0].BusinessName)
	assert.Equal(t, "(212) 555-0100", entries[0].PhoneNumber)
}

func TestAuditValidationFailsWithoutCall(t *testing.T) {
	gen := setupCLI(t)

	formFlags = models.DraftForm{BusinessName: "Joe's Pizza"}
	_, err := run(t, runAudit)
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Zero(t, gen.calls)
}

func TestAuditGenerationFailureShowsGenericMessage(t *testing.T) {
	gen := setupCLI(t)
	gen.err = errors.New("503 overloaded")

	formFlags = models.DraftForm{BusinessName: "Joe's Pizza", Location: "New York, NY", Email: "joe@example.com", PhoneNumber: "1"}
	_, err := run(t, runAudit)
	require.Error(t, err)
	assert.Equal(t, models.GenerationUserMessage, userMessage(err))

	out, err := run(t, runDraftShow)
	require.NoError(t, err)
	assert.Contains(t, out, "Joe's Pizza", "draft survives a failed submission")
}

func TestHistoryClearNeedsConfirmation(t *testing.T) {
	setupCLI(t)
	formFlags = models.DraftForm{BusinessName: "A", Location: "B", Email: "c@d.e", PhoneNumber: "1"}
	_, err := run(t, runAudit)
	require.NoError(t, err)

	_, err = run(t, runHistoryClear)
	assert.ErrorIs(t, err, errNotConfirmed)

	out, err := run(t, runHistoryList)
	require.NoError(t, err)
	assert.Contains(t, out, "Audit history (1)")

	historyYes = true
	_, err = run(t, runHistoryClear)
	require.NoError(t, err)

	out, err = run(t, runHistoryList)
	require.NoError(t, err)
	assert.Contains(t, out, "No audits recorded yet")
}

func TestHistoryExportCSV(t *testing.T) {
	setupCLI(t)
	for _, name := range []string{"First Biz", "Second Biz"} {
		formFlags = models.DraftForm{BusinessName: name, Location: "Austin, TX", Email: "a@b.co", PhoneNumber: "1"}
		_, err := run(t, runAudit)
		require.NoError(t, err)
	}

	out, err := run(t, runHistoryExport)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 entries")

	f, err := os.Open(cfg.CSVExportPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "business_name", rows[0][2])
	assert.True(t, strings.HasSuffix(rows[1][2], "Biz"))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "plain", userMessage(errors.New("plain")))
	wrapped := models.NewGenerationError("audit", errors.New("boom"))
	assert.Equal(t, models.GenerationUserMessage, userMessage(wrapped))
}

func TestMergeForm(t *testing.T) {
	base := models.DraftForm{BusinessName: "Old", Location: "Here", Email: "x@y.z"}
	got := mergeForm(base, models.DraftForm{BusinessName: "New", PhoneNumber: "123"})
	assert.Equal(t, models.DraftForm{BusinessName: "New", Location: "Here", Email: "x@y.z", PhoneNumber: "123"}, got)
}
