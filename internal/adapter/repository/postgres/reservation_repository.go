package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/srgjo27/villa_booking/internal/core/domain"
	"github.com/srgjo27/villa_booking/internal/core/ports"
)

const (
	exclusionViolation = "23P01"
	uniqueViolation    = "23505"
)

const reservationColumns = `id, room_id, user_id, start_date, end_date, guests, with_meal,
	contact_name, contact_email, contact_phone, currency, price_per_night, nights, amount,
	status, hold_expires_at, payment_order_id, payment_reference, payment_signature,
	captured_amount, needs_refund, created_at, updated_at, confirmed_at`

// blockingFilter selects reservations that count against availability.
// $2 is the blocking status set and $3 the current time.
const blockingFilter = `status = ANY($2) AND (status <> 'HELD' OR hold_expires_at > $3)`

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type ReservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// WithRoomLock runs fn in a transaction holding a transaction-scoped
// advisory lock keyed by the room id. The reservations table also carries
// an exclusion constraint, so an overlapping active insert fails even if a
// writer bypasses the lock.
func (r *ReservationRepository) WithRoomLock(ctx context.Context, roomID uuid.UUID, fn func(ctx context.Context, tx ports.ReservationTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, roomID.String()); err != nil {
		return fmt.Errorf("failed to lock room %s: %w", roomID, err)
	}

	if err := fn(ctx, &reservationTx{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	return scanReservation(r.db.QueryRowContext(ctx, query, id))
}

func (r *ReservationRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE payment_order_id = $1`
	return scanReservation(r.db.QueryRowContext(ctx, query, orderID))
}

func (r *ReservationRepository) ListBlocking(ctx context.Context, roomID uuid.UUID, now time.Time) ([]domain.Reservation, error) {
	return listBlocking(ctx, r.db, roomID, now)
}

func (r *ReservationRepository) ListAllBlocking(ctx context.Context, now time.Time) ([]domain.Reservation, error) {
	query := `
	SELECT ` + reservationColumns + `
	FROM reservations
	WHERE status = ANY($1) AND (status <> 'HELD' OR hold_expires_at > $2)
	ORDER BY start_date
	`

	return queryReservations(ctx, r.db, query, pq.Array(blockingStatuses()), now)
}

func (r *ReservationRepository) ListLapsedHolds(ctx context.Context, now time.Time, limit int) ([]domain.Reservation, error) {
	query := `
	SELECT ` + reservationColumns + `
	FROM reservations
	WHERE status = 'HELD' AND hold_expires_at <= $1
	ORDER BY hold_expires_at
	LIMIT $2
	`

	return queryReservations(ctx, r.db, query, now, limit)
}

func (r *ReservationRepository) ListUnconfirmedPaid(ctx context.Context, paidBefore time.Time, limit int) ([]domain.Reservation, error) {
	query := `
	SELECT ` + reservationColumns + `
	FROM reservations
	WHERE status = 'PAID' AND updated_at <= $1
	ORDER BY updated_at
	LIMIT $2
	`

	return queryReservations(ctx, r.db, query, paidBefore, limit)
}

type reservationTx struct {
	q querier
}

func (tx *reservationTx) Get(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	return scanReservation(tx.q.QueryRowContext(ctx, query, id))
}

func (tx *reservationTx) ListBlocking(ctx context.Context, roomID uuid.UUID, now time.Time) ([]domain.Reservation, error) {
	return listBlocking(ctx, tx.q, roomID, now)
}

func (tx *reservationTx) ExpireLapsedHolds(ctx context.Context, roomID uuid.UUID, now time.Time) (int, error) {
	query := `
	UPDATE reservations
	SET status = 'EXPIRED', hold_expires_at = NULL, updated_at = $2
	WHERE room_id = $1 AND status = 'HELD' AND hold_expires_at <= $2
	`

	result, err := tx.q.ExecContext(ctx, query, roomID, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire holds for room %s: %w", roomID, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(n), nil
}

func (tx *reservationTx) Insert(ctx context.Context, res *domain.Reservation) error {
	query := `
	INSERT INTO reservations (` + reservationColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`

	_, err := tx.q.ExecContext(ctx, query,
		res.ID, res.RoomID, res.UserID, res.Range.Start.String(), res.Range.End.String(), res.Guests, res.WithMeal,
		res.Contact.Name, res.Contact.Email, res.Contact.Phone, res.Currency, res.PricePerNight, res.Nights, res.Amount,
		string(res.Status), res.HoldExpiresAt, nullString(res.PaymentOrderID), nullString(res.PaymentReference), nullString(res.PaymentSignature),
		res.CapturedAmount, res.NeedsRefund, res.CreatedAt, res.UpdatedAt, res.ConfirmedAt,
	)
	if err != nil {
		return translate(fmt.Errorf("failed to insert reservation %s: %w", res.ID, err))
	}

	return nil
}

func (tx *reservationTx) Update(ctx context.Context, res *domain.Reservation) error {
	query := `
	UPDATE reservations
	SET status = $2,
		hold_expires_at = $3,
		payment_order_id = $4,
		payment_reference = $5,
		payment_signature = $6,
		captured_amount = $7,
		needs_refund = $8,
		updated_at = $9,
		confirmed_at = $10
	WHERE id = $1
	`

	result, err := tx.q.ExecContext(ctx, query,
		res.ID, string(res.Status), res.HoldExpiresAt,
		nullString(res.PaymentOrderID), nullString(res.PaymentReference), nullString(res.PaymentSignature),
		res.CapturedAmount, res.NeedsRefund, res.UpdatedAt, res.ConfirmedAt,
	)
	if err != nil {
		return translate(fmt.Errorf("failed to update reservation %s: %w", res.ID, err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrReservationNotFound
	}

	return nil
}

func listBlocking(ctx context.Context, q querier, roomID uuid.UUID, now time.Time) ([]domain.Reservation, error) {
	query := `
	SELECT ` + reservationColumns + `
	FROM reservations
	WHERE room_id = $1 AND ` + blockingFilter + `
	ORDER BY start_date
	`

	return queryReservations(ctx, q, query, roomID, pq.Array(blockingStatuses()), now)
}

func queryReservations(ctx context.Context, q querier, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	reservations := make([]domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}

		reservations = append(reservations, *res)
	}

	return reservations, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReservation(row scanner) (*domain.Reservation, error) {
	var (
		res                         domain.Reservation
		start, end                  time.Time
		status                      string
		holdExpiresAt, confirmedAt  sql.NullTime
		orderID, paymentRef, paySig sql.NullString
	)

	err := row.Scan(
		&res.ID, &res.RoomID, &res.UserID, &start, &end, &res.Guests, &res.WithMeal,
		&res.Contact.Name, &res.Contact.Email, &res.Contact.Phone, &res.Currency, &res.PricePerNight, &res.Nights, &res.Amount,
		&status, &holdExpiresAt, &orderID, &paymentRef, &paySig,
		&res.CapturedAmount, &res.NeedsRefund, &res.CreatedAt, &res.UpdatedAt, &confirmedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}

		return nil, err
	}

	res.Range = domain.DateRange{Start: civil.DateOf(start), End: civil.DateOf(end)}
	res.Status = domain.ReservationStatus(status)
	res.PaymentOrderID = orderID.String
	res.PaymentReference = paymentRef.String
	res.PaymentSignature = paySig.String

	if holdExpiresAt.Valid {
		res.HoldExpiresAt = &holdExpiresAt.Time
	}

	if confirmedAt.Valid {
		res.ConfirmedAt = &confirmedAt.Time
	}

	return &res, nil
}

func blockingStatuses() []string {
	out := make([]string, len(domain.BlockingStatuses))
	for i, s := range domain.BlockingStatuses {
		out[i] = string(s)
	}
	return out
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// translate maps constraint violations onto domain errors.
func translate(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case exclusionViolation:
		return fmt.Errorf("%w: %v", domain.ErrSlotUnavailable, err)
	case uniqueViolation:
		return fmt.Errorf("%w: %v", domain.ErrInvalidTransition, err)
	}

	return err
}
