package services

import (
	"testing"

	"gbp-auditor/models"
)

func TestNormalizeForm(t *testing.T) {
	got := NormalizeForm(models.DraftForm{
		BusinessName: "\t Joe's \n Pizza  ",
		Location:     " New  York, NY",
		Email:        "  JOE@Example.COM ",
		PhoneNumber:  " 212  555 0100",
	})
	want := models.DraftForm{
		BusinessName: "Joe's Pizza",
		Location:     "New York, NY",
		Email:        "joe@example.com",
		PhoneNumber:  "212 555 0100",
	}
	if got != want {
		t.Errorf("NormalizeForm = %+v, want %+v", got, want)
	}
}

func TestNormalizeFormBlankStaysBlank(t *testing.T) {
	got := NormalizeForm(models.DraftForm{BusinessName: "   ", Location: "\n"})
	if !got.IsEmpty() {
		t.Errorf("whitespace-only fields should normalize to empty, got %+v", got)
	}
}
