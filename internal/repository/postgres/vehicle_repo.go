// internal/repository/postgres/vehicle_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fleetops-service/internal/domain/fleet"
	xerrors "fleetops-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type VehicleRepository struct {
	db *pgxpool.Pool
}

func NewVehicleRepository(db *pgxpool.Pool) *VehicleRepository {
	return &VehicleRepository{db: db}
}

const vehicleColumns = `
	id, type, brand, model, plate_number, capacity, status, status_reason,
	gps_device_id, odometer, images,
	last_latitude, last_longitude, last_speed, last_recorded_at,
	created_at, updated_at
`

func (r *VehicleRepository) Create(ctx context.Context, v *fleet.Vehicle) error {
	query := `
		INSERT INTO vehicles (
			id, type, brand, model, plate_number, capacity, status,
			gps_device_id, odometer, images, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		v.ID, v.Type, v.Brand, v.Model, v.PlateNumber, v.Capacity, v.Status,
		v.GpsDeviceID, v.Odometer, pq.Array(v.Images), v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert vehicle: %w", err)
	}
	return nil
}

func (r *VehicleRepository) FindByID(ctx context.Context, id string) (*fleet.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	return r.findOne(ctx, query, id, "vehicle "+id)
}

func (r *VehicleRepository) FindByDeviceID(ctx context.Context, deviceID string) (*fleet.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE gps_device_id = $1`
	return r.findOne(ctx, query, deviceID, "vehicle with device "+deviceID)
}

func (r *VehicleRepository) findOne(ctx context.Context, query, arg, what string) (*fleet.Vehicle, error) {
	v, err := scanVehicle(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.Wrap(xerrors.ErrNotFound, what)
		}
		return nil, fmt.Errorf("failed to find vehicle: %w", err)
	}
	return v, nil
}

func (r *VehicleRepository) List(ctx context.Context, filters *fleet.VehicleListFilters) ([]fleet.Vehicle, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filters != nil && filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filters.Status)
		argPos++
	}
	if filters != nil && filters.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argPos))
		args = append(args, *filters.Type)
		argPos++
	}

	query := fmt.Sprintf(`
		SELECT %s FROM vehicles
		WHERE %s
		ORDER BY created_at DESC
	`, vehicleColumns, strings.Join(conditions, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := []fleet.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, nil
}

func (r *VehicleRepository) LinkDevice(ctx context.Context, id, deviceID string) error {
	query := `UPDATE vehicles SET gps_device_id = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, deviceID)
	if err != nil {
		return fmt.Errorf("failed to link device: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.Wrap(xerrors.ErrNotFound, "vehicle "+id)
	}
	return nil
}

func (r *VehicleRepository) UpdatePosition(ctx context.Context, id string, p *fleet.Position) error {
	query := `
		UPDATE vehicles
		SET last_latitude = $2, last_longitude = $3, last_speed = $4,
			last_recorded_at = $5, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, p.Latitude, p.Longitude, p.Speed, p.RecordedAt)
	if err != nil {
		return fmt.Errorf("failed to update position: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.Wrap(xerrors.ErrNotFound, "vehicle "+id)
	}
	return nil
}

func (r *VehicleRepository) ExistsByPlateNumber(ctx context.Context, plate string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM vehicles WHERE plate_number = $1)`, plate).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check plate number: %w", err)
	}
	return exists, nil
}

// UpdateStatusIf is the registry's compare-and-set: the WHERE clause on the
// current status makes the transition atomic under postgres row locking.
func (r *VehicleRepository) UpdateStatusIf(ctx context.Context, id string, from, to fleet.VehicleStatus, reason string) error {
	query := `
		UPDATE vehicles
		SET status = $3, status_reason = NULLIF($4, ''), updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.Exec(ctx, query, id, from, to, reason)
	if err != nil {
		return fmt.Errorf("failed to update vehicle status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return r.statusMiss(ctx, id)
	}
	return nil
}

func (r *VehicleRepository) ForceStatus(ctx context.Context, id string, to fleet.VehicleStatus, reason string) error {
	query := `
		UPDATE vehicles
		SET status = $2, status_reason = NULLIF($3, ''), updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, to, reason)
	if err != nil {
		return fmt.Errorf("failed to force vehicle status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.Wrap(xerrors.ErrNotFound, "vehicle "+id)
	}
	return nil
}

func (r *VehicleRepository) Status(ctx context.Context, id string) (fleet.VehicleStatus, error) {
	var status fleet.VehicleStatus
	err := r.db.QueryRow(ctx, `SELECT status FROM vehicles WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", xerrors.Wrap(xerrors.ErrNotFound, "vehicle "+id)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get vehicle status: %w", err)
	}
	return status, nil
}

func (r *VehicleRepository) LastPositionAt(ctx context.Context, id string) (*time.Time, error) {
	var at *time.Time
	err := r.db.QueryRow(ctx, `SELECT last_recorded_at FROM vehicles WHERE id = $1`, id).Scan(&at)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.Wrap(xerrors.ErrNotFound, "vehicle "+id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last position time: %w", err)
	}
	return at, nil
}

// statusMiss distinguishes "row missing" from "precondition failed" after
// a zero-row conditional update.
func (r *VehicleRepository) statusMiss(ctx context.Context, id string) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM vehicles WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check vehicle existence: %w", err)
	}
	if !exists {
		return xerrors.Wrap(xerrors.ErrNotFound, "vehicle "+id)
	}
	return xerrors.Wrap(xerrors.ErrConflict, "vehicle "+id+" not in expected status")
}

func scanVehicle(row pgx.Row) (*fleet.Vehicle, error) {
	var v fleet.Vehicle
	var images []string
	var lat, lon, speed *float64
	var recordedAt *time.Time

	err := row.Scan(
		&v.ID, &v.Type, &v.Brand, &v.Model, &v.PlateNumber, &v.Capacity, &v.Status, &v.StatusReason,
		&v.GpsDeviceID, &v.Odometer, pq.Array(&images),
		&lat, &lon, &speed, &recordedAt,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	v.Images = images
	if recordedAt != nil && lat != nil && lon != nil {
		v.LastPosition = &fleet.Position{
			Latitude:   *lat,
			Longitude:  *lon,
			Speed:      speed,
			RecordedAt: *recordedAt,
		}
	}
	return &v, nil
}
