// internal/repository/postgres/driver_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"fleetops-service/internal/domain/fleet"
	xerrors "fleetops-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DriverRepository struct {
	db *pgxpool.Pool
}

func NewDriverRepository(db *pgxpool.Pool) *DriverRepository {
	return &DriverRepository{db: db}
}

const driverColumns = `id, name, phone, role, status, notes, created_at, updated_at`

func (r *DriverRepository) Create(ctx context.Context, d *fleet.Driver) error {
	query := `
		INSERT INTO drivers (id, name, phone, role, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		d.ID, d.Name, d.Phone, d.Role, d.Status, d.Notes, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert driver: %w", err)
	}
	return nil
}

func (r *DriverRepository) FindByID(ctx context.Context, id string) (*fleet.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1`

	var d fleet.Driver
	err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Name, &d.Phone, &d.Role, &d.Status, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.Wrap(xerrors.ErrNotFound, "driver "+id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find driver: %w", err)
	}
	return &d, nil
}

func (r *DriverRepository) List(ctx context.Context) ([]fleet.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}
	defer rows.Close()

	drivers := []fleet.Driver{}
	for rows.Next() {
		var d fleet.Driver
		if err := rows.Scan(&d.ID, &d.Name, &d.Phone, &d.Role, &d.Status, &d.Notes, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan driver: %w", err)
		}
		drivers = append(drivers, d)
	}
	return drivers, nil
}

func (r *DriverRepository) UpdateStatusIf(ctx context.Context, id string, from, to fleet.DriverStatus) error {
	query := `UPDATE drivers SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`

	result, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		return fmt.Errorf("failed to update driver status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return r.statusMiss(ctx, id)
	}
	return nil
}

func (r *DriverRepository) ForceStatus(ctx context.Context, id string, to fleet.DriverStatus) error {
	query := `UPDATE drivers SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, to)
	if err != nil {
		return fmt.Errorf("failed to force driver status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.Wrap(xerrors.ErrNotFound, "driver "+id)
	}
	return nil
}

func (r *DriverRepository) Status(ctx context.Context, id string) (fleet.DriverStatus, error) {
	var status fleet.DriverStatus
	err := r.db.QueryRow(ctx, `SELECT status FROM drivers WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", xerrors.Wrap(xerrors.ErrNotFound, "driver "+id)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get driver status: %w", err)
	}
	return status, nil
}

func (r *DriverRepository) statusMiss(ctx context.Context, id string) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM drivers WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check driver existence: %w", err)
	}
	if !exists {
		return xerrors.Wrap(xerrors.ErrNotFound, "driver "+id)
	}
	return xerrors.Wrap(xerrors.ErrConflict, "driver "+id+" not in expected status")
}
