// internal/bookings/repository.go
package bookings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Repository is the storage abstraction over booking rows.
type Repository interface {
	Insert(ctx context.Context, itemID, bookerID int64, start, end time.Time, status Status) (int64, error)
	Get(ctx context.Context, id int64) (*Booking, error)

	// SetStatusFromWaiting transitions the booking out of WAITING.
	// Returns false when the booking was already decided, so two
	// concurrent approvals cannot both win.
	SetStatusFromWaiting(ctx context.Context, id int64, status Status) (bool, error)

	ListByBooker(ctx context.Context, bookerID int64, state State, now time.Time, from, size int) ([]Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, state State, now time.Time) ([]Booking, error)
	LastForItem(ctx context.Context, itemID int64, before time.Time) (*Booking, error)
	NextForItem(ctx context.Context, itemID int64, after time.Time) (*Booking, error)
	FinishedByItemAndBooker(ctx context.Context, itemID, bookerID int64, before time.Time) ([]Booking, error)

	ResolveItem(ctx context.Context, itemID int64) (*ItemInfo, error)
}

const selectBooking = `
	SELECT b.id, b.start_at, b.end_at, b.status,
	       b.booker_id, u.name AS booker_name,
	       b.item_id, i.name AS item_name, i.owner_id
	FROM bookings b
	JOIN items i ON i.id = b.item_id
	JOIN users u ON u.id = b.booker_id
`

type postgresRepository struct {
	db     *sqlx.DB
	tracer trace.Tracer
}

// NewRepository creates a Postgres-backed booking repository.
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{
		db:     db,
		tracer: otel.Tracer("shareit/bookings"),
	}
}

func (r *postgresRepository) Insert(ctx context.Context, itemID, bookerID int64, start, end time.Time, status Status) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "bookings.insert",
		trace.WithAttributes(
			attribute.Int64("item.id", itemID),
			attribute.Int64("booker.id", bookerID),
		),
	)
	defer span.End()

	var id int64
	query := `
		INSERT INTO bookings (item_id, booker_id, start_at, end_at, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, itemID, bookerID, start, end, status).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert booking: %w", err)
	}

	span.SetAttributes(attribute.Int64("booking.id", id))
	return id, nil
}

// Get returns (nil, nil) when no booking exists with the given id.
func (r *postgresRepository) Get(ctx context.Context, id int64) (*Booking, error) {
	booking := &Booking{}
	query := selectBooking + ` WHERE b.id = $1`
	err := r.db.GetContext(ctx, booking, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return booking, nil
}

func (r *postgresRepository) SetStatusFromWaiting(ctx context.Context, id int64, status Status) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "bookings.set_status",
		trace.WithAttributes(
			attribute.Int64("booking.id", id),
			attribute.String("status", string(status)),
		),
	)
	defer span.End()

	res, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET status = $1
		WHERE id = $2 AND status = $3
	`, status, id, StatusWaiting)
	if err != nil {
		return false, fmt.Errorf("update booking status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update booking status: %w", err)
	}

	span.SetAttributes(attribute.Bool("transitioned", affected == 1))
	return affected == 1, nil
}

// stateFilter returns the WHERE fragment and arguments for a state
// bucket, evaluated against now. Fragments use ? placeholders and are
// rebound by the caller.
func stateFilter(state State, now time.Time) (string, []interface{}) {
	switch state {
	case StateWaiting:
		return "AND b.status = ?", []interface{}{StatusWaiting}
	case StateRejected:
		return "AND b.status = ?", []interface{}{StatusRejected}
	case StateCurrent:
		return "AND b.status = ? AND b.start_at < ? AND b.end_at > ?", []interface{}{StatusApproved, now, now}
	case StatePast:
		return "AND b.status = ? AND b.end_at < ?", []interface{}{StatusApproved, now}
	case StateFuture:
		return "AND b.status = ? AND b.start_at > ?", []interface{}{StatusApproved, now}
	default:
		return "", nil
	}
}

func (r *postgresRepository) ListByBooker(ctx context.Context, bookerID int64, state State, now time.Time, from, size int) ([]Booking, error) {
	ctx, span := r.tracer.Start(ctx, "bookings.list_by_booker",
		trace.WithAttributes(
			attribute.Int64("booker.id", bookerID),
			attribute.String("state", string(state)),
		),
	)
	defer span.End()

	cond, args := stateFilter(state, now)
	query := selectBooking + " WHERE b.booker_id = ? " + cond + " ORDER BY b.start_at DESC"
	args = append([]interface{}{bookerID}, args...)

	if size > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, size, from)
	}

	var result []Booking
	if err := r.db.SelectContext(ctx, &result, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list bookings by booker: %w", err)
	}

	span.SetAttributes(attribute.Int("bookings.count", len(result)))
	return result, nil
}

func (r *postgresRepository) ListByOwner(ctx context.Context, ownerID int64, state State, now time.Time) ([]Booking, error) {
	ctx, span := r.tracer.Start(ctx, "bookings.list_by_owner",
		trace.WithAttributes(
			attribute.Int64("owner.id", ownerID),
			attribute.String("state", string(state)),
		),
	)
	defer span.End()

	cond, args := stateFilter(state, now)
	query := selectBooking + " WHERE i.owner_id = ? " + cond + " ORDER BY b.start_at DESC"
	args = append([]interface{}{ownerID}, args...)

	var result []Booking
	if err := r.db.SelectContext(ctx, &result, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list bookings by owner: %w", err)
	}

	span.SetAttributes(attribute.Int("bookings.count", len(result)))
	return result, nil
}

// LastForItem returns the most recent approved booking that ended
// before the cutoff, ties broken by descending end.
func (r *postgresRepository) LastForItem(ctx context.Context, itemID int64, before time.Time) (*Booking, error) {
	booking := &Booking{}
	query := selectBooking + `
		WHERE b.item_id = $1 AND b.status = $2 AND b.end_at < $3
		ORDER BY b.end_at DESC
		LIMIT 1
	`
	err := r.db.GetContext(ctx, booking, query, itemID, StatusApproved, before)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last booking for item: %w", err)
	}
	return booking, nil
}

// NextForItem returns the earliest approved booking starting after the
// given instant.
func (r *postgresRepository) NextForItem(ctx context.Context, itemID int64, after time.Time) (*Booking, error) {
	booking := &Booking{}
	query := selectBooking + `
		WHERE b.item_id = $1 AND b.status = $2 AND b.start_at > $3
		ORDER BY b.start_at ASC
		LIMIT 1
	`
	err := r.db.GetContext(ctx, booking, query, itemID, StatusApproved, after)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("next booking for item: %w", err)
	}
	return booking, nil
}

func (r *postgresRepository) FinishedByItemAndBooker(ctx context.Context, itemID, bookerID int64, before time.Time) ([]Booking, error) {
	var result []Booking
	query := selectBooking + `
		WHERE b.item_id = $1 AND b.booker_id = $2 AND b.status = $3 AND b.end_at < $4
		ORDER BY b.end_at DESC
	`
	err := r.db.SelectContext(ctx, &result, query, itemID, bookerID, StatusApproved, before)
	if err != nil {
		return nil, fmt.Errorf("finished bookings for item and booker: %w", err)
	}
	return result, nil
}

// ResolveItem returns (nil, nil) when no item exists with the given id.
func (r *postgresRepository) ResolveItem(ctx context.Context, itemID int64) (*ItemInfo, error) {
	info := &ItemInfo{}
	query := `
		SELECT id, name, owner_id, available
		FROM items
		WHERE id = $1
	`
	err := r.db.GetContext(ctx, info, query, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve item: %w", err)
	}
	return info, nil
}
