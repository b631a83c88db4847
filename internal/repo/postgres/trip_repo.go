package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugis90/playlistplayer/internal/domain/model"
)

var (
	ErrTripNotFound    = errors.New("trip not found")
	ErrTripAlreadyOpen = errors.New("vehicle already has an open trip")
)

type TripRepo struct {
	pool *pgxpool.Pool
}

func NewTripRepo(pool *pgxpool.Pool) *TripRepo {
	return &TripRepo{pool: pool}
}

// CreateOpen starts a trip. The partial unique index on open trips makes
// a second concurrent start fail with a unique violation.
func (r *TripRepo) CreateOpen(ctx context.Context, tripID string, vehicleID int64, startedAt time.Time) (model.Trip, error) {
	if r.pool == nil {
		return model.Trip{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(tripID) == "" || vehicleID <= 0 {
		return model.Trip{}, fmt.Errorf("invalid trip payload")
	}

	var trip model.Trip
	err := r.pool.QueryRow(ctx, `
INSERT INTO trips (id, vehicle_id, started_at)
VALUES ($1, $2, $3)
RETURNING id, vehicle_id, started_at, finished_at, distance_km
`, tripID, vehicleID, startedAt.UTC()).
		Scan(&trip.ID, &trip.VehicleID, &trip.StartedAt, &trip.FinishedAt, &trip.DistanceKM)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case uniqueViolation:
				return model.Trip{}, ErrTripAlreadyOpen
			case foreignKeyViolation:
				return model.Trip{}, ErrVehicleNotFound
			}
		}
		return model.Trip{}, fmt.Errorf("insert trip: %w", err)
	}

	return trip, nil
}

func (r *TripRepo) Get(ctx context.Context, tripID string) (model.Trip, error) {
	if r.pool == nil {
		return model.Trip{}, fmt.Errorf("postgres pool is nil")
	}

	var trip model.Trip
	err := r.pool.QueryRow(ctx, `
SELECT id, vehicle_id, started_at, finished_at, distance_km
FROM trips
WHERE id = $1
`, tripID).Scan(&trip.ID, &trip.VehicleID, &trip.StartedAt, &trip.FinishedAt, &trip.DistanceKM)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Trip{}, ErrTripNotFound
		}
		return model.Trip{}, fmt.Errorf("get trip: %w", err)
	}

	return trip, nil
}

func (r *TripRepo) LastWaypoint(ctx context.Context, tripID string) (model.Waypoint, bool, error) {
	if r.pool == nil {
		return model.Waypoint{}, false, fmt.Errorf("postgres pool is nil")
	}

	var wp model.Waypoint
	err := r.pool.QueryRow(ctx, `
SELECT trip_id, lat, lon, recorded_at
FROM trip_waypoints
WHERE trip_id = $1
ORDER BY seq DESC
LIMIT 1
`, tripID).Scan(&wp.TripID, &wp.Lat, &wp.Lon, &wp.RecordedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Waypoint{}, false, nil
		}
		return model.Waypoint{}, false, fmt.Errorf("get last waypoint: %w", err)
	}

	return wp, true, nil
}

// AppendWaypoints stores the batch and bumps the trip distance in one
// transaction so a failed insert never leaves distance out of sync.
func (r *TripRepo) AppendWaypoints(ctx context.Context, tripID string, points []model.Waypoint, addedKM float64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if len(points) == 0 {
		return nil
	}

	return WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		for _, point := range points {
			if _, err := tx.Exec(ctx, `
INSERT INTO trip_waypoints (trip_id, lat, lon, recorded_at)
VALUES ($1, $2, $3, $4)
`, tripID, point.Lat, point.Lon, point.RecordedAt.UTC()); err != nil {
				return fmt.Errorf("insert waypoint: %w", err)
			}
		}

		res, err := tx.Exec(ctx, `
UPDATE trips
SET distance_km = distance_km + $2
WHERE id = $1
  AND finished_at IS NULL
`, tripID, addedKM)
		if err != nil {
			return fmt.Errorf("bump trip distance: %w", err)
		}
		if res.RowsAffected() == 0 {
			return ErrTripNotFound
		}

		return nil
	})
}

func (r *TripRepo) Finish(ctx context.Context, tripID string, finishedAt time.Time) (model.Trip, error) {
	if r.pool == nil {
		return model.Trip{}, fmt.Errorf("postgres pool is nil")
	}

	var trip model.Trip
	err := r.pool.QueryRow(ctx, `
UPDATE trips
SET finished_at = $2
WHERE id = $1
  AND finished_at IS NULL
RETURNING id, vehicle_id, started_at, finished_at, distance_km
`, tripID, finishedAt.UTC()).
		Scan(&trip.ID, &trip.VehicleID, &trip.StartedAt, &trip.FinishedAt, &trip.DistanceKM)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Trip{}, ErrTripNotFound
		}
		return model.Trip{}, fmt.Errorf("finish trip: %w", err)
	}

	return trip, nil
}

func (r *TripRepo) ListByVehicle(ctx context.Context, vehicleID int64, offset, limit int) ([]model.Trip, int64, error) {
	if r.pool == nil {
		return nil, 0, fmt.Errorf("postgres pool is nil")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*) FROM trips WHERE vehicle_id = $1
`, vehicleID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count trips: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, vehicle_id, started_at, finished_at, distance_km
FROM trips
WHERE vehicle_id = $1
ORDER BY started_at DESC
OFFSET $2 LIMIT $3
`, vehicleID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	var trips []model.Trip
	for rows.Next() {
		var trip model.Trip
		if err := rows.Scan(&trip.ID, &trip.VehicleID, &trip.StartedAt, &trip.FinishedAt, &trip.DistanceKM); err != nil {
			return nil, 0, fmt.Errorf("scan trip: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate trips: %w", err)
	}

	return trips, total, nil
}

// DeleteStaleOpen drops open trips whose last activity predates the
// cutoff. Used by the cleanup job for clients that never called finish.
func (r *TripRepo) DeleteStaleOpen(ctx context.Context, cutoff time.Time) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	res, err := r.pool.Exec(ctx, `
DELETE FROM trips t
WHERE t.finished_at IS NULL
  AND t.started_at <= $1
  AND NOT EXISTS (
      SELECT 1 FROM trip_waypoints w
      WHERE w.trip_id = t.id AND w.recorded_at > $1
  )
`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete stale open trips: %w", err)
	}

	return res.RowsAffected(), nil
}
