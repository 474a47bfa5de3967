package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("create profile: %w", &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "uq_officer_profiles_employee_id",
	})

	name, ok := IsUniqueViolation(err)
	if !ok {
		t.Fatal("expected wrapped PgError 23505 to be a unique violation")
	}
	if name != "uq_officer_profiles_employee_id" {
		t.Errorf("unexpected constraint name %q", name)
	}

	if _, ok := IsUniqueViolation(errors.New("boom")); ok {
		t.Error("plain error must not be a unique violation")
	}
	if _, ok := IsUniqueViolation(&pgconn.PgError{Code: "23503"}); ok {
		t.Error("foreign key violation must not be a unique violation")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	if !IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("expected 23503 to be a foreign key violation")
	}
	if IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("23505 is not a foreign key violation")
	}
}
