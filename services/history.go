package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"gbp-auditor/models"
	"gbp-auditor/storage"
	"gbp-auditor/utils"
)

// HistoryKey is the store key holding the JSON-encoded submission history.
const HistoryKey = "gbp-audit-history"

// HistoryLog is the append-only record of past submissions. It reads and
// rewrites the whole sequence on every append; concurrent writers from other
// processes can lose updates.
type HistoryLog struct {
	store  storage.Store
	logger *utils.Logger
}

// NewHistoryLog creates a HistoryLog over store.
func NewHistoryLog(store storage.Store, logger *utils.Logger) *HistoryLog {
	return &HistoryLog{store: store, logger: logger}
}

// Append adds entry to the stored sequence. A missing or corrupt stored
// sequence is replaced by one holding just this entry.
func (h *HistoryLog) Append(entry models.AuditEntry) error {
	entries, err := h.load()
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("history: encode: %w", err)
	}
	if err := h.store.Set(HistoryKey, string(data)); err != nil {
		return fmt.Errorf("history: write: %w", err)
	}

	h.logger.Debug("[history] Appended entry for %q (%d total)", entry.BusinessName, len(entries))
	return nil
}

// List returns every entry, newest first. Malformed stored data yields an
// empty list, never an error; only a store failure is returned.
func (h *HistoryLog) List() ([]models.AuditEntry, error) {
	entries, err := h.load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}

// Clear removes the whole history. It is irreversible; callers must have
// obtained explicit confirmation first.
func (h *HistoryLog) Clear() error {
	if err := h.store.Remove(HistoryKey); err != nil {
		return fmt.Errorf("history: clear: %w", err)
	}
	h.logger.Info("[history] History cleared")
	return nil
}

func (h *HistoryLog) load() ([]models.AuditEntry, error) {
	raw, ok, err := h.store.Get(HistoryKey)
	if err != nil {
		return nil, fmt.Errorf("history: read: %w", err)
	}
	if !ok || raw == "" {
		return []models.AuditEntry{}, nil
	}

	var stored []storedEntry
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		h.logger.Warn("[history] %v: %v; treating history as empty", models.ErrPersistenceCorruption, err)
		return []models.AuditEntry{}, nil
	}

	entries := make([]models.AuditEntry, 0, len(stored))
	for i, s := range stored {
		e, err := s.toEntry()
		if err != nil {
			h.logger.Warn("[history] %v: entry %d: %v; treating history as empty", models.ErrPersistenceCorruption, i, err)
			return []models.AuditEntry{}, nil
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// storedEntry accepts the timestamp as a string so that any ISO-8601 variant
// written by older clients still decodes.
type storedEntry struct {
	Email        string `json:"email"`
	BusinessName string `json:"businessName"`
	Location     string `json:"location"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	Timestamp    string `json:"timestamp"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
}

func (s storedEntry) toEntry() (models.AuditEntry, error) {
	var ts time.Time
	var err error
	for _, layout := range timestampLayouts {
		ts, err = time.Parse(layout, s.Timestamp)
		if err == nil {
			break
		}
	}
	if err != nil {
		return models.AuditEntry{}, fmt.Errorf("timestamp %q: %w", s.Timestamp, err)
	}
	return models.AuditEntry{
		Email:        s.Email,
		BusinessName: s.BusinessName,
		Location:     s.Location,
		PhoneNumber:  s.PhoneNumber,
		Timestamp:    ts.UTC(),
	}, nil
}
