// Package database builds parameterized list queries with sanitized identifiers.
package database

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ConditionType is the comparison a Condition applies.
type ConditionType string

const (
	Equal ConditionType = "="
	// ILike expects the caller to supply wildcards and escape user input.
	ILike ConditionType = "ILIKE"
	// Any matches the field against every element of a slice value.
	Any ConditionType = "ANY"

	unset = -1
)

// Condition is one predicate of a WHERE clause; conditions are joined with AND.
type Condition struct {
	Field string
	Type  ConditionType
	Value any
}

// WhereCond builds a Condition.
func WhereCond(field string, condType ConditionType, value any) Condition {
	return Condition{Field: field, Type: condType, Value: value}
}

// ListQueryOptions describes one paged SELECT.
type ListQueryOptions struct {
	Table      string
	Columns    []string
	Conditions []Condition
	OrderBy    string
	OrderDir   string
	Limit      int
	Offset     int
}

// ListQueryOption mutates ListQueryOptions.
type ListQueryOption func(*ListQueryOptions)

// NewListQueryOptions applies opts over an unpaged query of table.
func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	options := &ListQueryOptions{
		Table:  table,
		Limit:  unset,
		Offset: unset,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithColumns sets the columns to select.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Columns = cols
	}
}

// WithCondition adds a single condition.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Conditions = append(o.Conditions, cond)
	}
}

// WithOrderBy sets the ordering column and direction. The primary key "id" is
// always appended as a tie-breaker in the same direction.
func WithOrderBy(column, direction string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.OrderBy = column
		o.OrderDir = direction
	}
}

// WithLimit sets the limit. Accepts 0.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if limit >= 0 {
			o.Limit = limit
		}
	}
}

// WithOffset sets the offset. Accepts 0.
func WithOffset(offset int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if offset >= 0 {
			o.Offset = offset
		}
	}
}

func sanitizeIdentifier(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}

func buildSelectClause(options *ListQueryOptions) string {
	if len(options.Columns) == 0 {
		return "SELECT * "
	}
	cols := make([]string, len(options.Columns))
	for i, col := range options.Columns {
		cols[i] = sanitizeIdentifier(col)
	}
	return "SELECT " + strings.Join(cols, ", ") + " "
}

func buildWhereClause(conds []Condition, startParam int) (string, []any, int) {
	parts := make([]string, 0, len(conds))
	var args []any
	param := startParam

	for _, cond := range conds {
		if cond.Field == "" {
			continue
		}
		field := sanitizeIdentifier(cond.Field)

		switch cond.Type {
		case Any:
			rv := reflect.ValueOf(cond.Value)
			if rv.Kind() != reflect.Slice || rv.Len() == 0 {
				continue
			}
			placeholders := make([]string, rv.Len())
			for i := range rv.Len() {
				placeholders[i] = fmt.Sprintf("$%d", param)
				args = append(args, rv.Index(i).Interface())
				param++
			}
			parts = append(parts, fmt.Sprintf("%s = ANY (ARRAY[%s])", field, strings.Join(placeholders, ", ")))
		case Equal, ILike:
			parts = append(parts, fmt.Sprintf("%s %s $%d", field, cond.Type, param))
			args = append(args, cond.Value)
			param++
		}
	}

	if len(parts) == 0 {
		return "", args, param
	}
	return "WHERE " + strings.Join(parts, " AND "), args, param
}

func buildOrderAndPagination(options *ListQueryOptions, startParam int, args []any) (string, []any) {
	var clause strings.Builder
	param := startParam

	if options.OrderBy != "" {
		dir := strings.ToUpper(options.OrderDir)
		if dir != "ASC" && dir != "DESC" {
			dir = ""
		}
		clause.WriteString(" ORDER BY ")
		clause.WriteString(sanitizeIdentifier(options.OrderBy))
		if dir != "" {
			clause.WriteString(" " + dir)
		}
		if options.OrderBy != "id" {
			clause.WriteString(", \"id\"")
			if dir != "" {
				clause.WriteString(" " + dir)
			}
		}
	}
	if options.Limit != unset {
		fmt.Fprintf(&clause, " LIMIT $%d", param)
		args = append(args, options.Limit)
		param++
	}
	if options.Offset != unset {
		fmt.Fprintf(&clause, " OFFSET $%d", param)
		args = append(args, options.Offset)
	}
	return clause.String(), args
}

// BuildListQuery constructs a SQL query string and arguments from options, sanitizing identifiers.
//
//	query, args := BuildListQuery(NewListQueryOptions("alert_receivers",
//		WithColumns("id", "name"),
//		WithCondition(WhereCond("type", Equal, 4)),
//		WithOrderBy("created_at", "DESC"),
//		WithLimit(10),
//	))
func BuildListQuery(options *ListQueryOptions) (string, []any) {
	if options == nil {
		return "", nil
	}

	var query strings.Builder
	query.WriteString(buildSelectClause(options))
	query.WriteString("FROM ")
	query.WriteString(sanitizeIdentifier(options.Table))

	where, args, next := buildWhereClause(options.Conditions, 1)
	if where != "" {
		query.WriteString(" ")
		query.WriteString(where)
	}
	tail, args := buildOrderAndPagination(options, next, args)
	query.WriteString(tail)
	return query.String(), args
}
