package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"gbp-auditor/models"
	"gbp-auditor/utils"
)

var (
	// ErrBusy is returned by Submit while another submission is outstanding.
	ErrBusy = errors.New("session: an audit is already in progress")
	// ErrNoResult is returned when an operation needs an active audit result.
	ErrNoResult = errors.New("session: no active audit result")
)

// Session is the controller behind the audit form: it owns the in-memory
// form fields and the active result, and decides when the draft is persisted.
type Session struct {
	auditor    *Auditor
	summarizer *Summarizer
	drafts     *DraftStore
	history    *HistoryLog
	logger     *utils.Logger
	now        func() time.Time

	loading utils.LoadingFlag

	mu     sync.Mutex
	form   models.DraftForm
	result *models.AuditResult
}

// NewSession wires a Session. now defaults to time.Now.
func NewSession(auditor *Auditor, summarizer *Summarizer, drafts *DraftStore, history *HistoryLog, logger *utils.Logger, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{
		auditor:    auditor,
		summarizer: summarizer,
		drafts:     drafts,
		history:    history,
		logger:     logger,
		now:        now,
	}
}

// Restore populates the in-memory form from the persisted draft.
func (s *Session) Restore() error {
	form, err := s.drafts.Load()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.form = form
	s.mu.Unlock()
	return nil
}

// Form returns the current in-memory form fields.
func (s *Session) Form() models.DraftForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Result returns the active audit result, or nil.
func (s *Session) Result() *models.AuditResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Loading reports whether a submission is outstanding.
func (s *Session) Loading() bool { return s.loading.Loading() }

// UpdateDraft replaces the in-memory form. The draft is persisted only while
// no result is active.
func (s *Session) UpdateDraft(form models.DraftForm) error {
	s.mu.Lock()
	s.form = form
	active := s.result != nil
	s.mu.Unlock()
	if active {
		return nil
	}
	return s.drafts.Save(form)
}

// Submit normalizes and validates the current form, then runs one audit. On
// success the history entry is appended first and the persisted draft is
// cleared after it; the in-memory form is kept until NewAudit. If recording
// history fails, the result is still returned together with the error and the
// draft is left in place.
func (s *Session) Submit(ctx context.Context) (*models.AuditResult, error) {
	if !s.loading.TryStart() {
		return nil, ErrBusy
	}
	defer s.loading.Done()

	s.mu.Lock()
	form := NormalizeForm(s.form)
	s.form = form
	s.result = nil
	s.mu.Unlock()

	if err := form.Validate(); err != nil {
		return nil, err
	}

	log := s.logger.With("request_id", uuid.NewString())

	result, err := s.auditor.RequestAudit(ctx, form)
	if err != nil {
		log.Warn("[session] Audit for %q failed: %v", form.BusinessName, err)
		return nil, err
	}

	s.mu.Lock()
	s.result = result
	s.mu.Unlock()

	entry := models.NewAuditEntry(form, s.now())
	if err := s.history.Append(entry); err != nil {
		log.Error("[session] Audit succeeded but history was not recorded: %v", err)
		return result, fmt.Errorf("session: record history: %w", err)
	}
	if err := s.drafts.Clear(); err != nil {
		log.Warn("[session] Could not clear stored draft: %v", err)
	}

	log.Info("[session] Audit for %q recorded at %s", entry.BusinessName, entry.Timestamp.Format(time.RFC3339))
	return result, nil
}

// NewAudit discards the active result and empties the in-memory form.
// Nothing is written to the store.
func (s *Session) NewAudit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = nil
	s.form = models.DraftForm{}
}

// EmailSummary generates a shareable summary of the active result.
func (s *Session) EmailSummary(ctx context.Context) (EmailSummary, error) {
	s.mu.Lock()
	result, name := s.result, s.form.BusinessName
	s.mu.Unlock()
	if result == nil {
		return EmailSummary{}, ErrNoResult
	}
	return s.summarizer.Summarize(ctx, result, name)
}
