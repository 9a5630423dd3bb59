package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildListQuery(t *testing.T) {
	tests := []struct {
		name      string
		opts      *ListQueryOptions
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "select all",
			opts:      NewListQueryOptions("alert_receivers"),
			wantQuery: `SELECT * FROM "alert_receivers"`,
		},
		{
			name: "columns conditions order and paging",
			opts: NewListQueryOptions("alert_receivers",
				WithColumns("id", "name"),
				WithCondition(WhereCond("type", Equal, 4)),
				WithCondition(WhereCond("enabled", Equal, true)),
				WithOrderBy("created_at", "desc"),
				WithLimit(10),
				WithOffset(20),
			),
			wantQuery: `SELECT "id", "name" FROM "alert_receivers" WHERE "type" = $1 AND "enabled" = $2` +
				` ORDER BY "created_at" DESC, "id" DESC LIMIT $3 OFFSET $4`,
			wantArgs: []any{4, true, 10, 20},
		},
		{
			name: "any expands the slice",
			opts: NewListQueryOptions("alert_receivers",
				WithCondition(WhereCond("id", Any, []string{"a", "b"})),
				WithCondition(WhereCond("type", Equal, 4)),
			),
			wantQuery: `SELECT * FROM "alert_receivers" WHERE "id" = ANY (ARRAY[$1, $2]) AND "type" = $3`,
			wantArgs:  []any{"a", "b", 4},
		},
		{
			name: "empty slices and blank fields are skipped",
			opts: NewListQueryOptions("alert_receivers",
				WithCondition(WhereCond("id", Any, []string{})),
				WithCondition(WhereCond("", Equal, 1)),
			),
			wantQuery: `SELECT * FROM "alert_receivers"`,
		},
		{
			name: "ilike with unknown condition type ignored",
			opts: NewListQueryOptions("alert_receivers",
				WithCondition(WhereCond("name", ILike, "%ops%")),
				WithCondition(WhereCond("type", ConditionType(">"), 1)),
				WithLimit(5),
			),
			wantQuery: `SELECT * FROM "alert_receivers" WHERE "name" ILIKE $1 LIMIT $2`,
			wantArgs:  []any{"%ops%", 5},
		},
		{
			name: "identifiers are quoted and invalid direction dropped",
			opts: NewListQueryOptions(`alert_receivers"; DROP TABLE x; --`,
				WithOrderBy("id", "sideways"),
			),
			wantQuery: `SELECT * FROM "alert_receivers""; DROP TABLE x; --" ORDER BY "id"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := BuildListQuery(tt.opts)
			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildListQueryNil(t *testing.T) {
	query, args := BuildListQuery(nil)
	assert.Empty(t, query)
	assert.Nil(t, args)
}
