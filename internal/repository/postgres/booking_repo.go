// internal/repository/postgres/booking_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fleetops-service/internal/domain/booking"
	xerrors "fleetops-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `
	id, customer_name, customer_phone, source, vehicle_type, pickup_at,
	duration_hours, pickup_location, dropoff_location, notes, status,
	vehicle_id, driver_id, created_at, updated_at,
	confirmed_at, started_at, completed_at, cancelled_at
`

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	query := `
		INSERT INTO bookings (
			id, customer_name, customer_phone, source, vehicle_type, pickup_at,
			duration_hours, pickup_location, dropoff_location, notes, status,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		b.ID, b.CustomerName, b.CustomerPhone, b.Source, b.VehicleType, b.PickupAt,
		b.DurationHours, b.PickupLocation, b.DropoffLocation, b.Notes, b.Status,
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.Wrap(xerrors.ErrNotFound, "booking "+id)
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return b, nil
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	query := `
		UPDATE bookings
		SET customer_name = $2, customer_phone = $3, vehicle_type = $4,
			pickup_at = $5, duration_hours = $6, pickup_location = $7,
			dropoff_location = $8, notes = $9, status = $10,
			vehicle_id = $11, driver_id = $12, updated_at = $13,
			confirmed_at = $14, started_at = $15, completed_at = $16, cancelled_at = $17
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		b.ID, b.CustomerName, b.CustomerPhone, b.VehicleType,
		b.PickupAt, b.DurationHours, b.PickupLocation,
		b.DropoffLocation, b.Notes, b.Status,
		b.VehicleID, b.DriverID, b.UpdatedAt,
		b.ConfirmedAt, b.StartedAt, b.CompletedAt, b.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.Wrap(xerrors.ErrNotFound, "booking "+b.ID)
	}
	return nil
}

func (r *BookingRepository) List(ctx context.Context, filters *booking.ListFilters) ([]booking.Booking, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM bookings WHERE %s", whereClause)
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	offset := (filters.Page - 1) * filters.PageSize
	query := fmt.Sprintf(`
		SELECT %s FROM bookings
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, bookingColumns, whereClause, argPos, argPos+1)
	args = append(args, filters.PageSize, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []booking.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}

	return bookings, total, nil
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.Wrap(xerrors.ErrNotFound, "booking "+id)
	}
	return nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var b booking.Booking
	err := row.Scan(
		&b.ID, &b.CustomerName, &b.CustomerPhone, &b.Source, &b.VehicleType, &b.PickupAt,
		&b.DurationHours, &b.PickupLocation, &b.DropoffLocation, &b.Notes, &b.Status,
		&b.VehicleID, &b.DriverID, &b.CreatedAt, &b.UpdatedAt,
		&b.ConfirmedAt, &b.StartedAt, &b.CompletedAt, &b.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
