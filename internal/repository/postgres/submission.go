package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hoteldesk-panel/internal/domain"
	"hoteldesk-panel/internal/logger"
	"hoteldesk-panel/internal/repository"

	"github.com/Masterminds/squirrel"
)

const submissionsTable = "booking_submissions"

var submissionColumns = []string{
	"id",
	"idempotency_key",
	"panel_id",
	"booking_id",
	"payload",
	"status",
	"attempts",
	"last_error",
	"created_on",
	"updated_on",
	"delivered_on",
}

type submissionRepository struct {
	db *sql.DB
}

func NewSubmissionRepository(db *sql.DB) repository.SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, s *domain.Submission) error {
	now := time.Now().UTC()
	if s.Status == "" {
		s.Status = domain.SubmissionStatusPending
	}

	// The no-op update makes RETURNING yield the existing row on a key conflict.
	query, args, err := psql.Insert(submissionsTable).
		Columns("idempotency_key", "panel_id", "booking_id", "payload", "status", "attempts", "created_on", "updated_on").
		Values(s.IdempotencyKey, s.PanelID, s.BookingID, []byte(s.Payload), string(s.Status), 0, now, now).
		Suffix("ON CONFLICT (idempotency_key) DO UPDATE SET idempotency_key = EXCLUDED.idempotency_key " +
			"RETURNING id, booking_id, status, attempts, created_on, updated_on").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert submission: %w", err)
	}

	logger.DatabaseCall("INSERT", submissionsTable, "panelID", s.PanelID, "idempotencyKey", s.IdempotencyKey)

	var bookingID sql.NullString
	var status string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&s.ID, &bookingID, &status, &s.Attempts, &s.CreatedOn, &s.UpdatedOn)
	logger.DatabaseResult("INSERT", 1, err, "submissionID", s.ID)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}

	s.Status = domain.SubmissionStatus(status)
	if bookingID.Valid {
		s.BookingID = &bookingID.String
	}
	return nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id int32) (*domain.Submission, error) {
	query, args, err := psql.Select(submissionColumns...).
		From(submissionsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select submission: %w", err)
	}

	s, err := scanSubmission(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select submission %d: %w", id, err)
	}
	return s, nil
}

func (r *submissionRepository) ListPending(ctx context.Context, limit, maxAttempts int) ([]domain.Submission, error) {
	query, args, err := psql.Select(submissionColumns...).
		From(submissionsTable).
		Where(squirrel.Eq{"status": []string{
			string(domain.SubmissionStatusPending),
			string(domain.SubmissionStatusFailed),
		}}).
		Where(squirrel.Lt{"attempts": maxAttempts}).
		OrderBy("created_on ASC", "id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list pending submissions: %w", err)
	}

	logger.DatabaseCall("SELECT", submissionsTable, "limit", limit, "maxAttempts", maxAttempts)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, fmt.Errorf("list pending submissions: %w", err)
	}
	defer rows.Close()

	var out []domain.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("SELECT", int64(len(out)), nil)
	return out, nil
}

func (r *submissionRepository) MarkDelivered(ctx context.Context, id int32, bookingID string) error {
	now := time.Now().UTC()
	b := psql.Update(submissionsTable).
		Set("status", string(domain.SubmissionStatusDelivered)).
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("last_error", "").
		Set("delivered_on", now).
		Set("updated_on", now)
	if bookingID != "" {
		b = b.Set("booking_id", bookingID)
	}
	return r.update(ctx, "MarkDelivered", id, b.Where(squirrel.Eq{"id": id}))
}

func (r *submissionRepository) MarkFailed(ctx context.Context, id int32, reason string) error {
	b := psql.Update(submissionsTable).
		Set("status", string(domain.SubmissionStatusFailed)).
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("last_error", reason).
		Set("updated_on", time.Now().UTC()).
		Where(squirrel.Eq{"id": id})
	return r.update(ctx, "MarkFailed", id, b)
}

func (r *submissionRepository) update(ctx context.Context, op string, id int32, b squirrel.UpdateBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build %s: %w", op, err)
	}

	logger.DatabaseCall("UPDATE", submissionsTable, "operation", op, "submissionID", id)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "submissionID", id)
		return fmt.Errorf("%s submission %d: %w", op, id, err)
	}
	rows, err := result.RowsAffected()
	logger.DatabaseResult("UPDATE", rows, err, "submissionID", id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrSubmissionNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*domain.Submission, error) {
	var s domain.Submission
	var bookingID, lastError sql.NullString
	var status string
	var payload []byte
	var deliveredOn sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.IdempotencyKey,
		&s.PanelID,
		&bookingID,
		&payload,
		&status,
		&s.Attempts,
		&lastError,
		&s.CreatedOn,
		&s.UpdatedOn,
		&deliveredOn,
	)
	if err != nil {
		return nil, err
	}

	s.Payload = payload
	s.Status = domain.SubmissionStatus(status)
	s.LastError = lastError.String
	if bookingID.Valid {
		s.BookingID = &bookingID.String
	}
	if deliveredOn.Valid {
		t := deliveredOn.Time
		s.DeliveredOn = &t
	}
	return &s, nil
}
