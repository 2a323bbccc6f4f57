package storage

import (
	"errors"

	"gbp-auditor/models"
)

// ErrClosed is returned by operations on a store that has been closed.
var ErrClosed = errors.New("storage: store is closed")

// Store is the string key/value persistence contract every backend satisfies.
// Values are UTF-8 text; structured values are encoded by the caller.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
	Close() error
}

// HistoryExporter is the interface for writing submission history to an external sink.
type HistoryExporter interface {
	WriteHistory(entries []models.AuditEntry) error
	Close() error
}
