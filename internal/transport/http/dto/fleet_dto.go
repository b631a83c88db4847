package dto

import (
	"time"

	"github.com/ugis90/playlistplayer/internal/domain/model"
)

type VehicleRequest struct {
	Name  string `json:"name"`
	Plate string `json:"plate"`
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  int    `json:"year"`
}

type VehicleResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Plate     string    `json:"plate"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewVehicleResponse(v model.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:        v.ID,
		Name:      v.Name,
		Plate:     v.Plate,
		Make:      v.Make,
		Model:     v.Model,
		Year:      v.Year,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

type VehicleListResponse struct {
	Items    []VehicleResponse `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

type TripResponse struct {
	ID         string     `json:"id"`
	VehicleID  int64      `json:"vehicleId"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	DistanceKM float64    `json:"distanceKm"`
}

func NewTripResponse(t model.Trip) TripResponse {
	return TripResponse{
		ID:         t.ID,
		VehicleID:  t.VehicleID,
		StartedAt:  t.StartedAt,
		FinishedAt: t.FinishedAt,
		DistanceKM: t.DistanceKM,
	}
}

type TripListResponse struct {
	Items    []TripResponse `json:"items"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

type WaypointRequest struct {
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	RecordedAt time.Time `json:"recordedAt"`
}

type AppendWaypointsRequest struct {
	Points []WaypointRequest `json:"points"`
}

type AppendWaypointsResponse struct {
	AddedKM float64 `json:"addedKm"`
}

type FuelRecordRequest struct {
	FilledAt   time.Time `json:"filledAt"`
	Liters     float64   `json:"liters"`
	TotalCost  float64   `json:"totalCost"`
	OdometerKM int64     `json:"odometerKm"`
}

type FuelRecordResponse struct {
	ID         int64     `json:"id"`
	VehicleID  int64     `json:"vehicleId"`
	FilledAt   time.Time `json:"filledAt"`
	Liters     float64   `json:"liters"`
	TotalCost  float64   `json:"totalCost"`
	OdometerKM int64     `json:"odometerKm"`
}

func NewFuelRecordResponse(r model.FuelRecord) FuelRecordResponse {
	return FuelRecordResponse{
		ID:         r.ID,
		VehicleID:  r.VehicleID,
		FilledAt:   r.FilledAt,
		Liters:     r.Liters,
		TotalCost:  r.TotalCost,
		OdometerKM: r.OdometerKM,
	}
}

type FuelRecordListResponse struct {
	Items    []FuelRecordResponse `json:"items"`
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"pageSize"`
}

type MaintenanceRecordRequest struct {
	PerformedAt time.Time `json:"performedAt"`
	Description string    `json:"description"`
	Cost        float64   `json:"cost"`
}

type MaintenanceRecordResponse struct {
	ID          int64     `json:"id"`
	VehicleID   int64     `json:"vehicleId"`
	PerformedAt time.Time `json:"performedAt"`
	Description string    `json:"description"`
	Cost        float64   `json:"cost"`
}

func NewMaintenanceRecordResponse(r model.MaintenanceRecord) MaintenanceRecordResponse {
	return MaintenanceRecordResponse{
		ID:          r.ID,
		VehicleID:   r.VehicleID,
		PerformedAt: r.PerformedAt,
		Description: r.Description,
		Cost:        r.Cost,
	}
}

type MaintenanceRecordListResponse struct {
	Items    []MaintenanceRecordResponse `json:"items"`
	Total    int64                       `json:"total"`
	Page     int                         `json:"page"`
	PageSize int                         `json:"pageSize"`
}
