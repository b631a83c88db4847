package model

import "time"

type Vehicle struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Name      string    `json:"name"`
	Plate     string    `json:"plate"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Trip struct {
	ID         string     `json:"id"`
	VehicleID  int64      `json:"vehicle_id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	DistanceKM float64    `json:"distance_km"`
}

type Waypoint struct {
	TripID     string    `json:"trip_id"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	RecordedAt time.Time `json:"recorded_at"`
}

type FuelRecord struct {
	ID         int64     `json:"id"`
	VehicleID  int64     `json:"vehicle_id"`
	FilledAt   time.Time `json:"filled_at"`
	Liters     float64   `json:"liters"`
	TotalCost  float64   `json:"total_cost"`
	OdometerKM int64     `json:"odometer_km"`
}

type MaintenanceRecord struct {
	ID          int64     `json:"id"`
	VehicleID   int64     `json:"vehicle_id"`
	PerformedAt time.Time `json:"performed_at"`
	Description string    `json:"description"`
	Cost        float64   `json:"cost"`
}
