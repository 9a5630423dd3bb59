package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapDBError_NilError(t *testing.T) {
	if err := MapDBError(nil); err != nil {
		t.Errorf("MapDBError(nil) = %v, want nil", err)
	}
}

func TestMapDBError_ContextErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
	}{
		{name: "deadline exceeded", err: context.DeadlineExceeded, wantCode: ErrCodeTimeout},
		{name: "canceled", err: context.Canceled, wantCode: ErrCodeCanceled},
		{name: "wrapped deadline", err: fmt.Errorf("query: %w", context.DeadlineExceeded), wantCode: ErrCodeTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.err)
			if got := GetCode(err); got != tt.wantCode {
				t.Errorf("MapDBError() code = %v, want %v", got, tt.wantCode)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("MapDBError() should preserve cause %v", tt.err)
			}
		})
	}
}

func TestMapDBError_NoRows(t *testing.T) {
	err := MapDBError(pgx.ErrNoRows)
	if !IsNotFound(err) {
		t.Errorf("MapDBError(pgx.ErrNoRows) should be NotFound, got %v", GetCode(err))
	}
}

func TestMapDBError_UniqueViolation(t *testing.T) {
	tests := []struct {
		name      string
		pgErr     *pgconn.PgError
		wantField string
		wantMsg   string
	}{
		{
			name: "column metadata",
			pgErr: &pgconn.PgError{
				Code:       pgerrcode.UniqueViolation,
				TableName:  "alert_receivers",
				ColumnName: "name",
			},
			wantField: "name",
			wantMsg:   "Alert receiver name already exists. Please choose a different one.",
		},
		{
			name: "detail message",
			pgErr: &pgconn.PgError{
				Code:      pgerrcode.UniqueViolation,
				TableName: "alert_receivers",
				Detail:    "Key (name)=(ops) already exists.",
			},
			wantField: "name",
			wantMsg:   "Alert receiver name already exists. Please choose a different one.",
		},
		{
			name: "constraint name",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				TableName:      "alert_receivers",
				ConstraintName: "alert_receivers_name_key",
			},
			wantField: "name",
			wantMsg:   "Alert receiver name already exists. Please choose a different one.",
		},
		{
			name: "multi-column constraint",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				TableName:      "alert_receivers",
				ConstraintName: "alert_receivers_type_name_key",
			},
			wantField: "",
			wantMsg:   "This value already exists. Please choose a different one.",
		},
		{
			name: "expression index",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: "receivers_lower_key",
				TableName:      "receivers",
			},
			wantField: "",
			wantMsg:   "This value already exists. Please choose a different one.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.pgErr)
			if !IsConflict(err) {
				t.Fatalf("expected Conflict, got %v", GetCode(err))
			}
			if got := GetField(err); got != tt.wantField {
				t.Errorf("field = %q, want %q", got, tt.wantField)
			}
			var appErr *AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("expected *AppError, got %T", err)
			}
			if appErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", appErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestMapDBError_ValidationViolations(t *testing.T) {
	tests := []struct {
		name      string
		pgErr     *pgconn.PgError
		wantField string
	}{
		{
			name:      "check with column",
			pgErr:     &pgconn.PgError{Code: pgerrcode.CheckViolation, ColumnName: "ok_status"},
			wantField: "ok_status",
		},
		{
			name:  "check without column",
			pgErr: &pgconn.PgError{Code: pgerrcode.CheckViolation, ConstraintName: "alert_receivers_type_check"},
		},
		{
			name:      "not null with column",
			pgErr:     &pgconn.PgError{Code: pgerrcode.NotNullViolation, ColumnName: "name"},
			wantField: "name",
		},
		{
			name:  "not null without column",
			pgErr: &pgconn.PgError{Code: pgerrcode.NotNullViolation},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.pgErr)
			if !IsValidation(err) {
				t.Fatalf("expected Validation, got %v", GetCode(err))
			}
			if got := GetField(err); got != tt.wantField {
				t.Errorf("field = %q, want %q", got, tt.wantField)
			}
		})
	}
}

func TestMapDBError_OtherPgError(t *testing.T) {
	err := MapDBError(&pgconn.PgError{Code: pgerrcode.DeadlockDetected})
	if !IsInternal(err) {
		t.Errorf("expected Internal, got %v", GetCode(err))
	}
}

func TestMapDBError_Passthrough(t *testing.T) {
	orig := errors.New("some error")
	if err := MapDBError(orig); err != orig {
		t.Errorf("MapDBError() = %v, want original error", err)
	}
}

func TestMapTableToDomain(t *testing.T) {
	tests := map[string]string{
		"alert_receivers":   "Alert receiver",
		"schema_migrations": "Schema migrations",
		"":                  "Record",
	}
	for in, want := range tests {
		if got := mapTableToDomain(in); got != want {
			t.Errorf("mapTableToDomain(%q) = %q, want %q", in, got, want)
		}
	}
}
