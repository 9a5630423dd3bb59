package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/target/mmk-alert-notify/internal/data/database"
	"github.com/target/mmk-alert-notify/internal/data/pgxutil"
	"github.com/target/mmk-alert-notify/internal/domain/model"
)

const (
	receiversTable      = "alert_receivers"
	defaultReceiverPage = 50
	maxReceiverPage     = 500
	defaultOkStatus     = 200
)

var receiverColumns = []string{
	"id", "name", "type", "access_token", "url", "method", "body_expr",
	"headers", "ok_status", "enabled", "created_at", "updated_at",
}

// ReceiverRepo provides database operations for alert receivers.
type ReceiverRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewReceiverRepo creates a new ReceiverRepo.
func NewReceiverRepo(db *sql.DB) *ReceiverRepo {
	return &ReceiverRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewReceiverRepoWithTimeProvider creates a ReceiverRepo with a custom time provider.
func NewReceiverRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ReceiverRepo {
	return &ReceiverRepo{DB: db, timeProvider: tp}
}

// Create inserts a new receiver.
func (r *ReceiverRepo) Create(ctx context.Context, req *model.CreateAlertReceiverRequest) (*model.AlertReceiver, error) {
	if req == nil {
		return nil, errors.New("create alert receiver request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now().UTC()
	okStatus := defaultOkStatus
	if req.OkStatus != nil {
		okStatus = *req.OkStatus
	}
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	query := `
		INSERT INTO alert_receivers
			(id, name, type, access_token, url, method, body_expr, headers, ok_status, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		RETURNING ` + strings.Join(receiverColumns, ", ")

	var out *model.AlertReceiver
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query,
			uuid.NewString(), req.Name, int16(req.Type), req.AccessToken, req.URL, req.Method,
			req.BodyExpr, req.Headers, okStatus, enabled, now,
		)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.AlertReceiver])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create alert receiver: %w", mapReceiverWriteErr(err))
	}
	return out, nil
}

// GetByID retrieves a receiver by its ID.
func (r *ReceiverRepo) GetByID(ctx context.Context, id string) (*model.AlertReceiver, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrReceiverNotFound
	}

	query := `SELECT ` + strings.Join(receiverColumns, ", ") + ` FROM alert_receivers WHERE id = $1`

	var out *model.AlertReceiver
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, id)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.AlertReceiver])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReceiverNotFound
		}
		return nil, fmt.Errorf("failed to get alert receiver by ID: %w", err)
	}
	return out, nil
}

// GetByIDs retrieves every receiver whose ID is in ids. Unknown IDs are silently absent.
func (r *ReceiverRepo) GetByIDs(ctx context.Context, ids []string) ([]*model.AlertReceiver, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil, nil
	}

	query, args := database.BuildListQuery(database.NewListQueryOptions(receiversTable,
		database.WithColumns(receiverColumns...),
		database.WithCondition(database.WhereCond("id", database.Any, valid)),
	))
	receivers, err := r.collect(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("failed to get alert receivers by IDs: %w", err)
	}
	return receivers, nil
}

// List retrieves receivers ordered by newest first.
func (r *ReceiverRepo) List(ctx context.Context, opts model.ReceiverListOptions) ([]*model.AlertReceiver, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultReceiverPage
	}
	limit = min(limit, maxReceiverPage)
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(receiverColumns...),
		database.WithOrderBy("created_at", "DESC"),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}
	if opts.Type != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("type", database.Equal, int16(*opts.Type)),
		))
	}
	if opts.Enabled != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("enabled", database.Equal, *opts.Enabled),
		))
	}

	if name := strings.TrimSpace(opts.NameContains); name != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("name", database.ILike, "%"+escapeLike(name)+"%"),
		))
	}

	query, args := database.BuildListQuery(database.NewListQueryOptions(receiversTable, queryOpts...))
	receivers, err := r.collect(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("failed to list alert receivers: %w", err)
	}
	return receivers, nil
}

func (r *ReceiverRepo) collect(ctx context.Context, query string, args []any) ([]*model.AlertReceiver, error) {
	var out []*model.AlertReceiver
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.AlertReceiver])
		return err
	})
	return out, err
}

// Update applies the non-nil fields of req to the receiver.
func (r *ReceiverRepo) Update(
	ctx context.Context,
	id string,
	req *model.UpdateAlertReceiverRequest,
) (*model.AlertReceiver, error) {
	if req == nil {
		return nil, errors.New("update alert receiver request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrReceiverNotFound
	}

	setParts, args := buildReceiverUpdateParts(req)
	args = append(args, r.timeProvider.Now().UTC())
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, id)

	query := "UPDATE alert_receivers SET " + strings.Join(setParts, ", ") +
		fmt.Sprintf(" WHERE id = $%d RETURNING ", len(args)) + strings.Join(receiverColumns, ", ")

	var out *model.AlertReceiver
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.AlertReceiver])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReceiverNotFound
		}
		return nil, fmt.Errorf("failed to update alert receiver: %w", mapReceiverWriteErr(err))
	}
	return out, nil
}

func buildReceiverUpdateParts(req *model.UpdateAlertReceiverRequest) ([]string, []any) {
	var (
		setParts []string
		args     []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.AccessToken != nil {
		add("access_token", *req.AccessToken)
	}
	if req.URL != nil {
		add("url", *req.URL)
	}
	if req.Method != nil {
		add("method", *req.Method)
	}
	if req.BodyExpr != nil {
		add("body_expr", nullIfBlank(*req.BodyExpr))
	}
	if req.Headers != nil {
		add("headers", nullIfBlank(*req.Headers))
	}
	if req.OkStatus != nil {
		add("ok_status", *req.OkStatus)
	}
	if req.Enabled != nil {
		add("enabled", *req.Enabled)
	}
	return setParts, args
}

// nullIfBlank lets callers clear optional text columns by sending "".
func nullIfBlank(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// Delete removes a receiver. It reports whether a row was deleted.
func (r *ReceiverRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}

	var rowsAffected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM alert_receivers WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rowsAffected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete alert receiver: %w", err)
	}
	return rowsAffected > 0, nil
}

// mapReceiverWriteErr maps unique violations on the receivers table to ErrReceiverNameExists.
func mapReceiverWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return err
	}
	if pgErr.TableName == receiversTable || pgErr.ConstraintName == "alert_receivers_name_key" {
		return ErrReceiverNameExists
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
