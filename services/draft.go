package services

import (
	"fmt"

	"gbp-auditor/models"
	"gbp-auditor/storage"
	"gbp-auditor/utils"
)

// Store keys for the draft form fields.
const (
	DraftEmailKey        = "gbp-auditor-email"
	DraftBusinessNameKey = "gbp-auditor-businessName"
	DraftLocationKey     = "gbp-auditor-location"
	DraftPhoneNumberKey  = "gbp-auditor-phoneNumber"
)

// DraftStore persists the in-progress form, one key per field.
type DraftStore struct {
	store  storage.Store
	logger *utils.Logger
}

// NewDraftStore creates a DraftStore over store.
func NewDraftStore(store storage.Store, logger *utils.Logger) *DraftStore {
	return &DraftStore{store: store, logger: logger}
}

type draftField struct {
	key string
	val *string
}

// draftFields pairs each store key with the form field it backs.
func draftFields(f *models.DraftForm) []draftField {
	return []draftField{
		{DraftEmailKey, &f.Email},
		{DraftBusinessNameKey, &f.BusinessName},
		{DraftLocationKey, &f.Location},
		{DraftPhoneNumberKey, &f.PhoneNumber},
	}
}

// Save writes every field, including empty ones.
func (d *DraftStore) Save(form models.DraftForm) error {
	for _, fld := range draftFields(&form) {
		if err := d.store.Set(fld.key, *fld.val); err != nil {
			return fmt.Errorf("draft: save %s: %w", fld.key, err)
		}
	}
	return nil
}

// Load returns the stored draft; absent fields come back empty.
func (d *DraftStore) Load() (models.DraftForm, error) {
	var form models.DraftForm
	for _, fld := range draftFields(&form) {
		v, ok, err := d.store.Get(fld.key)
		if err != nil {
			return models.DraftForm{}, fmt.Errorf("draft: load %s: %w", fld.key, err)
		}
		if ok {
			*fld.val = v
		}
	}
	return form, nil
}

// Clear removes every draft key from the store.
func (d *DraftStore) Clear() error {
	var form models.DraftForm
	for _, fld := range draftFields(&form) {
		if err := d.store.Remove(fld.key); err != nil {
			return fmt.Errorf("draft: clear %s: %w", fld.key, err)
		}
	}
	d.logger.Debug("[draft] Stored draft cleared")
	return nil
}
