package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugis90/playlistplayer/internal/domain/model"
)

var ErrFuelRecordNotFound = errors.New("fuel record not found")

type FuelRepo struct {
	pool *pgxpool.Pool
}

func NewFuelRepo(pool *pgxpool.Pool) *FuelRepo {
	return &FuelRepo{pool: pool}
}

func (r *FuelRepo) Create(ctx context.Context, record model.FuelRecord) (model.FuelRecord, error) {
	if r.pool == nil {
		return model.FuelRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var created model.FuelRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO fuel_records (vehicle_id, filled_at, liters, total_cost, odometer_km)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, vehicle_id, filled_at, liters, total_cost, odometer_km
`, record.VehicleID, record.FilledAt.UTC(), record.Liters, record.TotalCost, record.OdometerKM).
		Scan(&created.ID, &created.VehicleID, &created.FilledAt, &created.Liters, &created.TotalCost, &created.OdometerKM)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return model.FuelRecord{}, ErrVehicleNotFound
		}
		return model.FuelRecord{}, fmt.Errorf("insert fuel record: %w", err)
	}

	return created, nil
}

func (r *FuelRepo) ListByVehicle(ctx context.Context, vehicleID int64, offset, limit int) ([]model.FuelRecord, int64, error) {
	if r.pool == nil {
		return nil, 0, fmt.Errorf("postgres pool is nil")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*) FROM fuel_records WHERE vehicle_id = $1
`, vehicleID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count fuel records: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, vehicle_id, filled_at, liters, total_cost, odometer_km
FROM fuel_records
WHERE vehicle_id = $1
ORDER BY filled_at DESC
OFFSET $2 LIMIT $3
`, vehicleID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list fuel records: %w", err)
	}
	defer rows.Close()

	var records []model.FuelRecord
	for rows.Next() {
		var record model.FuelRecord
		if err := rows.Scan(&record.ID, &record.VehicleID, &record.FilledAt, &record.Liters,
			&record.TotalCost, &record.OdometerKM); err != nil {
			return nil, 0, fmt.Errorf("scan fuel record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate fuel records: %w", err)
	}

	return records, total, nil
}

func (r *FuelRepo) Delete(ctx context.Context, id, vehicleID int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	res, err := r.pool.Exec(ctx, `
DELETE FROM fuel_records
WHERE id = $1 AND vehicle_id = $2
`, id, vehicleID)
	if err != nil {
		return fmt.Errorf("delete fuel record: %w", err)
	}
	if res.RowsAffected() == 0 {
		return ErrFuelRecordNotFound
	}

	return nil
}
