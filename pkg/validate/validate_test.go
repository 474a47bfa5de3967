package validate

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestIsVNPhone(t *testing.T) {
	valid := []string{"0912345678", "912345678", "0323456789", "0868123456", "0701234567"}
	invalid := []string{"", "0112345678", "09123456", "091234567890", "+84912345678", "abc"}

	for _, p := range valid {
		if !IsVNPhone(p) {
			t.Errorf("expected %q to be valid", p)
		}
	}
	for _, p := range invalid {
		if IsVNPhone(p) {
			t.Errorf("expected %q to be invalid", p)
		}
	}
}

func TestIsDate(t *testing.T) {
	if !IsDate("1990-05-17") {
		t.Error("plain date should be valid")
	}
	if !IsDate("1990-05-17T00:00:00Z") {
		t.Error("RFC3339 timestamp should be valid")
	}
	if IsDate("17/05/1990") {
		t.Error("dd/mm/yyyy should be invalid")
	}
}

func TestRegister(t *testing.T) {
	v := validator.New()
	if err := Register(v); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	type req struct {
		Phone string `validate:"omitempty,vnphone"`
		Born  string `validate:"omitempty,date"`
	}

	if err := v.Struct(req{Phone: "0912345678", Born: "1990-01-01"}); err != nil {
		t.Errorf("expected valid struct, got %v", err)
	}
	if err := v.Struct(req{Phone: "123"}); err == nil {
		t.Error("expected vnphone failure")
	}
	if err := v.Struct(req{Born: "yesterday"}); err == nil {
		t.Error("expected date failure")
	}
}
