package services

import (
	"strings"
	"unicode"

	"gbp-auditor/models"
)

// NormalizeForm tidies user-typed input before it is validated and sent:
// whitespace is trimmed and collapsed, and the email is lower-cased.
func NormalizeForm(f models.DraftForm) models.DraftForm {
	return models.DraftForm{
		BusinessName: normaliseText(f.BusinessName),
		Location:     normaliseText(f.Location),
		Email:        strings.ToLower(strings.TrimSpace(f.Email)),
		PhoneNumber:  normaliseText(f.PhoneNumber),
	}
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
