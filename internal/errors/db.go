package errors

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// reKeyField extracts the field name from a unique violation detail: "Key (field)=(value) already exists.".
var reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)

// MapDBError maps database errors to AppError instances:
//   - context deadline/cancel -> Timeout/Canceled
//   - pgx.ErrNoRows -> NotFound
//   - unique violation -> Conflict (with Field when it can be determined)
//   - check and NOT NULL violations -> Validation
//
// Unrecognized errors are returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{Code: ErrCodeTimeout, Message: "Request timed out. Please try again.", Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{Code: ErrCodeCanceled, Message: "Request was canceled.", Cause: err}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &AppError{Code: ErrCodeNotFound, Message: "Resource not found", Cause: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}
	return err
}

func mapPgError(pgErr *pgconn.PgError) error {
	domain := mapTableToDomain(pgErr.TableName)
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		field := uniqueViolationField(pgErr)
		msg := "This value already exists. Please choose a different one."
		if field != "" {
			msg = domain + " " + field + " already exists. Please choose a different one."
		}
		return &AppError{Code: ErrCodeConflict, Message: msg, Field: field, Cause: pgErr}
	case pgerrcode.CheckViolation:
		if pgErr.ColumnName != "" {
			return &AppError{
				Code:    ErrCodeValidation,
				Message: "This field has an invalid value.",
				Field:   pgErr.ColumnName,
				Cause:   pgErr,
			}
		}
		return &AppError{Code: ErrCodeValidation, Message: "Invalid data. Please check your input.", Cause: pgErr}
	case pgerrcode.NotNullViolation:
		if pgErr.ColumnName != "" {
			return &AppError{
				Code:    ErrCodeValidation,
				Message: "This field is required.",
				Field:   pgErr.ColumnName,
				Cause:   pgErr,
			}
		}
		return &AppError{Code: ErrCodeValidation, Message: "Required field is missing. Please check your input.", Cause: pgErr}
	default:
		return &AppError{Code: ErrCodeInternal, Message: "A database error occurred. Please try again.", Cause: pgErr}
	}
}

// uniqueViolationField prefers column metadata, then the detail message, then the constraint name.
func uniqueViolationField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return m[1]
	}
	return inferFieldFromConstraint(pgErr.TableName, pgErr.ConstraintName)
}

// inferFieldFromConstraint strips the table prefix and the _key/_unique/_idx suffix
// from a constraint name ("alert_receivers_name_key" -> "name"). Multi-column or
// expression constraints yield "".
func inferFieldFromConstraint(table, constraint string) string {
	name := strings.ToLower(constraint)
	if name == "" {
		return ""
	}
	if table != "" {
		name = strings.TrimPrefix(name, strings.ToLower(table)+"_")
	}
	for _, suffix := range []string{"_key", "_unique", "_idx"} {
		if trimmed, ok := strings.CutSuffix(name, suffix); ok {
			name = trimmed
			break
		}
	}
	if name == "" || strings.Contains(name, "_") || isFunctionName(name) {
		return ""
	}
	return name
}

// mapTableToDomain maps internal table names to user-friendly domain names.
func mapTableToDomain(tableName string) string {
	tableName = strings.ToLower(strings.TrimSpace(tableName))
	switch tableName {
	case "alert_receivers":
		return "Alert receiver"
	case "":
		return "Record"
	default:
		return capitalizeFirst(strings.ReplaceAll(tableName, "_", " "))
	}
}

func capitalizeFirst(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-32) + s[1:]
}

// isFunctionName reports SQL functions common in expression indexes (lower, upper, ...).
func isFunctionName(s string) bool {
	switch s {
	case "lower", "upper", "trim", "ltrim", "rtrim", "md5":
		return true
	default:
		return false
	}
}
