package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugis90/playlistplayer/internal/domain/model"
)

var ErrVehicleNotFound = errors.New("vehicle not found")

type VehicleRepo struct {
	pool *pgxpool.Pool
}

func NewVehicleRepo(pool *pgxpool.Pool) *VehicleRepo {
	return &VehicleRepo{pool: pool}
}

func (r *VehicleRepo) Create(ctx context.Context, ownerID int64, vehicle model.Vehicle) (model.Vehicle, error) {
	if r.pool == nil {
		return model.Vehicle{}, fmt.Errorf("postgres pool is nil")
	}

	var created model.Vehicle
	err := r.pool.QueryRow(ctx, `
INSERT INTO vehicles (owner_id, name, plate, make, model, year, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
RETURNING id, owner_id, name, plate, make, model, year, created_at, updated_at
`, ownerID, strings.TrimSpace(vehicle.Name), strings.TrimSpace(vehicle.Plate),
		strings.TrimSpace(vehicle.Make), strings.TrimSpace(vehicle.Model), vehicle.Year).
		Scan(&created.ID, &created.OwnerID, &created.Name, &created.Plate, &created.Make,
			&created.Model, &created.Year, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return model.Vehicle{}, fmt.Errorf("insert vehicle: %w", err)
	}

	return created, nil
}

func (r *VehicleRepo) Get(ctx context.Context, id int64) (model.Vehicle, error) {
	if r.pool == nil {
		return model.Vehicle{}, fmt.Errorf("postgres pool is nil")
	}

	var vehicle model.Vehicle
	err := r.pool.QueryRow(ctx, `
SELECT id, owner_id, name, plate, make, model, year, created_at, updated_at
FROM vehicles
WHERE id = $1
`, id).Scan(&vehicle.ID, &vehicle.OwnerID, &vehicle.Name, &vehicle.Plate, &vehicle.Make,
		&vehicle.Model, &vehicle.Year, &vehicle.CreatedAt, &vehicle.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Vehicle{}, ErrVehicleNotFound
		}
		return model.Vehicle{}, fmt.Errorf("get vehicle: %w", err)
	}

	return vehicle, nil
}

func (r *VehicleRepo) ListByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]model.Vehicle, int64, error) {
	if r.pool == nil {
		return nil, 0, fmt.Errorf("postgres pool is nil")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*) FROM vehicles WHERE owner_id = $1
`, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count vehicles: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, owner_id, name, plate, make, model, year, created_at, updated_at
FROM vehicles
WHERE owner_id = $1
ORDER BY name
OFFSET $2 LIMIT $3
`, ownerID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []model.Vehicle
	for rows.Next() {
		var vehicle model.Vehicle
		if err := rows.Scan(&vehicle.ID, &vehicle.OwnerID, &vehicle.Name, &vehicle.Plate, &vehicle.Make,
			&vehicle.Model, &vehicle.Year, &vehicle.CreatedAt, &vehicle.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, vehicle)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate vehicles: %w", err)
	}

	return vehicles, total, nil
}

func (r *VehicleRepo) Update(ctx context.Context, id int64, vehicle model.Vehicle) (model.Vehicle, error) {
	if r.pool == nil {
		return model.Vehicle{}, fmt.Errorf("postgres pool is nil")
	}

	var updated model.Vehicle
	err := r.pool.QueryRow(ctx, `
UPDATE vehicles
SET name = $2, plate = $3, make = $4, model = $5, year = $6, updated_at = NOW()
WHERE id = $1
RETURNING id, owner_id, name, plate, make, model, year, created_at, updated_at
`, id, strings.TrimSpace(vehicle.Name), strings.TrimSpace(vehicle.Plate),
		strings.TrimSpace(vehicle.Make), strings.TrimSpace(vehicle.Model), vehicle.Year).
		Scan(&updated.ID, &updated.OwnerID, &updated.Name, &updated.Plate, &updated.Make,
			&updated.Model, &updated.Year, &updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Vehicle{}, ErrVehicleNotFound
		}
		return model.Vehicle{}, fmt.Errorf("update vehicle: %w", err)
	}

	return updated, nil
}

func (r *VehicleRepo) Delete(ctx context.Context, id int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	res, err := r.pool.Exec(ctx, `
DELETE FROM vehicles
WHERE id = $1
`, id)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	if res.RowsAffected() == 0 {
		return ErrVehicleNotFound
	}

	return nil
}
