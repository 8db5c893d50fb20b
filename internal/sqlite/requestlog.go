package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/vesselscope/internal/domain/requestlog"
)

// RequestLogRepository implements requestlog.Repository for SQLite
type RequestLogRepository struct {
	db *DB
}

// NewRequestLogRepository creates a new RequestLogRepository
func NewRequestLogRepository(db *DB) *RequestLogRepository {
	return &RequestLogRepository{db: db}
}

// Log inserts a new request log entry
func (r *RequestLogRepository) Log(ctx context.Context, entry *requestlog.Entry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO request_log (
			request_id, endpoint, payload, token,
			outcome, error, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		entry.RequestID,
		entry.Endpoint,
		entry.Payload,
		int64(entry.Token),
		entry.Outcome,
		entry.Error,
		entry.DurationMS,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log request: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}
	entry.CreatedAt = createdAt

	return nil
}

// List returns request log entries matching the given filters, newest first
func (r *RequestLogRepository) List(ctx context.Context, opts requestlog.ListOptions) ([]requestlog.Entry, error) {
	query := `
		SELECT
			id, request_id, endpoint, payload, token,
			outcome, error, duration_ms, created_at
		FROM request_log
	`

	args := []any{}
	conditions := []string{}

	if opts.Endpoint != "" {
		conditions = append(conditions, "endpoint = ?")
		args = append(args, opts.Endpoint)
	}
	if opts.Outcome != nil {
		conditions = append(conditions, "outcome = ?")
		args = append(args, *opts.Outcome)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC, id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		if opts.Limit <= 0 {
			query += " LIMIT -1"
		}
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var entries []requestlog.Entry
	for rows.Next() {
		var entry requestlog.Entry
		var payload, errText sql.NullString
		var token int64
		if err := rows.Scan(
			&entry.ID,
			&entry.RequestID,
			&entry.Endpoint,
			&payload,
			&token,
			&entry.Outcome,
			&errText,
			&entry.DurationMS,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan request entry: %w", err)
		}
		entry.Payload = payload.String
		entry.Error = errText.String
		entry.Token = uint64(token)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating request rows: %w", err)
	}

	return entries, nil
}
