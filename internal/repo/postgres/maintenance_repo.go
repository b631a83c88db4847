package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugis90/playlistplayer/internal/domain/model"
)

var ErrMaintenanceNotFound = errors.New("maintenance record not found")

type MaintenanceRepo struct {
	pool *pgxpool.Pool
}

func NewMaintenanceRepo(pool *pgxpool.Pool) *MaintenanceRepo {
	return &MaintenanceRepo{pool: pool}
}

func (r *MaintenanceRepo) Create(ctx context.Context, record model.MaintenanceRecord) (model.MaintenanceRecord, error) {
	if r.pool == nil {
		return model.MaintenanceRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var created model.MaintenanceRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO maintenance_records (vehicle_id, performed_at, description, cost)
VALUES ($1, $2, $3, $4)
RETURNING id, vehicle_id, performed_at, description, cost
`, record.VehicleID, record.PerformedAt.UTC(), strings.TrimSpace(record.Description), record.Cost).
		Scan(&created.ID, &created.VehicleID, &created.PerformedAt, &created.Description, &created.Cost)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return model.MaintenanceRecord{}, ErrVehicleNotFound
		}
		return model.MaintenanceRecord{}, fmt.Errorf("insert maintenance record: %w", err)
	}

	return created, nil
}

func (r *MaintenanceRepo) ListByVehicle(ctx context.Context, vehicleID int64, offset, limit int) ([]model.MaintenanceRecord, int64, error) {
	if r.pool == nil {
		return nil, 0, fmt.Errorf("postgres pool is nil")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*) FROM maintenance_records WHERE vehicle_id = $1
`, vehicleID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count maintenance records: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, vehicle_id, performed_at, description, cost
FROM maintenance_records
WHERE vehicle_id = $1
ORDER BY performed_at DESC
OFFSET $2 LIMIT $3
`, vehicleID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list maintenance records: %w", err)
	}
	defer rows.Close()

	var records []model.MaintenanceRecord
	for rows.Next() {
		var record model.MaintenanceRecord
		if err := rows.Scan(&record.ID, &record.VehicleID, &record.PerformedAt,
			&record.Description, &record.Cost); err != nil {
			return nil, 0, fmt.Errorf("scan maintenance record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate maintenance records: %w", err)
	}

	return records, total, nil
}

func (r *MaintenanceRepo) Delete(ctx context.Context, id, vehicleID int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	res, err := r.pool.Exec(ctx, `
DELETE FROM maintenance_records
WHERE id = $1 AND vehicle_id = $2
`, id, vehicleID)
	if err != nil {
		return fmt.Errorf("delete maintenance record: %w", err)
	}
	if res.RowsAffected() == 0 {
		return ErrMaintenanceNotFound
	}

	return nil
}
