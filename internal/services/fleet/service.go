package fleet

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ugis90/playlistplayer/internal/domain/model"
	pgrepo "github.com/ugis90/playlistplayer/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrTripOpen   = errors.New("vehicle already has an open trip")
	ErrTripClosed = errors.New("trip is already finished")
	ErrOutOfOrder = errors.New("waypoint is older than the last recorded one")
)

type VehicleStore interface {
	Create(ctx context.Context, ownerID int64, vehicle model.Vehicle) (model.Vehicle, error)
	Get(ctx context.Context, id int64) (model.Vehicle, error)
	ListByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]model.Vehicle, int64, error)
	Update(ctx context.Context, id int64, vehicle model.Vehicle) (model.Vehicle, error)
	Delete(ctx context.Context, id int64) error
}

type TripStore interface {
	CreateOpen(ctx context.Context, tripID string, vehicleID int64, startedAt time.Time) (model.Trip, error)
	Get(ctx context.Context, tripID string) (model.Trip, error)
	LastWaypoint(ctx context.Context, tripID string) (model.Waypoint, bool, error)
	AppendWaypoints(ctx context.Context, tripID string, points []model.Waypoint, addedKM float64) error
	Finish(ctx context.Context, tripID string, finishedAt time.Time) (model.Trip, error)
	ListByVehicle(ctx context.Context, vehicleID int64, offset, limit int) ([]model.Trip, int64, error)
}

type FuelStore interface {
	Create(ctx context.Context, record model.FuelRecord) (model.FuelRecord, error)
	ListByVehicle(ctx context.Context, vehicleID int64, offset, limit int) ([]model.FuelRecord, int64, error)
	Delete(ctx context.Context, id, vehicleID int64) error
}

type MaintenanceStore interface {
	Create(ctx context.Context, record model.MaintenanceRecord) (model.MaintenanceRecord, error)
	ListByVehicle(ctx context.Context, vehicleID int64, offset, limit int) ([]model.MaintenanceRecord, int64, error)
	Delete(ctx context.Context, id, vehicleID int64) error
}

type Config struct {
	DefaultPageSize int
	MaxPageSize     int
}

type Page struct {
	Number int
	Size   int
}

type VehiclesPage struct {
	Items    []model.Vehicle
	Total    int64
	Page     int
	PageSize int
}

type TripsPage struct {
	Items    []model.Trip
	Total    int64
	Page     int
	PageSize int
}

type FuelPage struct {
	Items    []model.FuelRecord
	Total    int64
	Page     int
	PageSize int
}

type MaintenancePage struct {
	Items    []model.MaintenanceRecord
	Total    int64
	Page     int
	PageSize int
}

type Service struct {
	vehicles    VehicleStore
	trips       TripStore
	fuel        FuelStore
	maintenance MaintenanceStore
	cfg         Config
	now         func() time.Time
}

func NewService(vehicles VehicleStore, trips TripStore, fuel FuelStore, maintenance MaintenanceStore, cfg Config) *Service {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 20
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 100
	}

	return &Service{
		vehicles:    vehicles,
		trips:       trips,
		fuel:        fuel,
		maintenance: maintenance,
		cfg:         cfg,
		now:         time.Now,
	}
}

func (s *Service) normalizePage(page Page) Page {
	if page.Number <= 0 {
		page.Number = 1
	}
	if page.Size <= 0 {
		page.Size = s.cfg.DefaultPageSize
	}
	if page.Size > s.cfg.MaxPageSize {
		page.Size = s.cfg.MaxPageSize
	}
	return page
}

// ownedVehicle loads the vehicle and checks it belongs to ownerID.
// Vehicles of other users read as not found, not forbidden, so the API
// does not leak which IDs exist.
func (s *Service) ownedVehicle(ctx context.Context, ownerID, vehicleID int64) (model.Vehicle, error) {
	vehicle, err := s.vehicles.Get(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrVehicleNotFound) {
			return model.Vehicle{}, ErrNotFound
		}
		return model.Vehicle{}, fmt.Errorf("get vehicle: %w", err)
	}
	if vehicle.OwnerID != ownerID {
		return model.Vehicle{}, ErrNotFound
	}
	return vehicle, nil
}

func (s *Service) CreateVehicle(ctx context.Context, ownerID int64, vehicle model.Vehicle) (model.Vehicle, error) {
	if strings.TrimSpace(vehicle.Name) == "" {
		return model.Vehicle{}, fmt.Errorf("vehicle name is required: %w", ErrValidation)
	}
	if vehicle.Year != 0 && (vehicle.Year < 1900 || vehicle.Year > s.now().Year()+1) {
		return model.Vehicle{}, fmt.Errorf("vehicle year out of range: %w", ErrValidation)
	}

	created, err := s.vehicles.Create(ctx, ownerID, vehicle)
	if err != nil {
		return model.Vehicle{}, fmt.Errorf("create vehicle: %w", err)
	}

	return created, nil
}

func (s *Service) GetVehicle(ctx context.Context, ownerID, vehicleID int64) (model.Vehicle, error) {
	return s.ownedVehicle(ctx, ownerID, vehicleID)
}

func (s *Service) ListVehicles(ctx context.Context, ownerID int64, page Page) (VehiclesPage, error) {
	page = s.normalizePage(page)

	items, total, err := s.vehicles.ListByOwner(ctx, ownerID, (page.Number-1)*page.Size, page.Size)
	if err != nil {
		return VehiclesPage{}, fmt.Errorf("list vehicles: %w", err)
	}

	return VehiclesPage{Items: items, Total: total, Page: page.Number, PageSize: page.Size}, nil
}

func (s *Service) UpdateVehicle(ctx context.Context, ownerID, vehicleID int64, vehicle model.Vehicle) (model.Vehicle, error) {
	if strings.TrimSpace(vehicle.Name) == "" {
		return model.Vehicle{}, fmt.Errorf("vehicle name is required: %w", ErrValidation)
	}

	if _, err := s.ownedVehicle(ctx, ownerID, vehicleID); err != nil {
		return model.Vehicle{}, err
	}

	updated, err := s.vehicles.Update(ctx, vehicleID, vehicle)
	if err != nil {
		if errors.Is(err, pgrepo.ErrVehicleNotFound) {
			return model.Vehicle{}, ErrNotFound
		}
		return model.Vehicle{}, fmt.Errorf("update vehicle: %w", err)
	}

	return updated, nil
}

func (s *Service) DeleteVehicle(ctx context.Context, ownerID, vehicleID int64) error {
	if _, err := s.ownedVehicle(ctx, ownerID, vehicleID); err != nil {
		return err
	}

	if err := s.vehicles.Delete(ctx, vehicleID); err != nil {
		if errors.Is(err, pgrepo.ErrVehicleNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete vehicle: %w", err)
	}

	return nil
}

// StartTrip opens a trip for the vehicle. At most one trip per vehicle
// may be open; concurrent starts race on a partial unique index and the
// loser gets ErrTripOpen.
func (s *Service) StartTrip(ctx context.Context, ownerID, vehicleID int64) (model.Trip, error) {
	if _, err := s.ownedVehicle(ctx, ownerID, vehicleID); err != nil {
		return model.Trip{}, err
	}

	trip, err := s.trips.CreateOpen(ctx, uuid.NewString(), vehicleID, s.now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, pgrepo.ErrTripAlreadyOpen):
			return model.Trip{}, ErrTripOpen
		case errors.Is(err, pgrepo.ErrVehicleNotFound):
			return model.Trip{}, ErrNotFound
		}
		return model.Trip{}, fmt.Errorf("start trip: %w", err)
	}

	return trip, nil
}

type WaypointInput struct {
	Lat        float64
	Lon        float64
	RecordedAt time.Time
}

// AppendWaypoints records track points on an open trip and advances its
// distance by the haversine length of the new segment chain.
func (s *Service) AppendWaypoints(ctx context.Context, ownerID int64, tripID string, points []WaypointInput) (float64, error) {
	if len(points) == 0 {
		return 0, fmt.Errorf("at least one waypoint is required: %w", ErrValidation)
	}
	for _, p := range points {
		if p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
			return 0, fmt.Errorf("coordinates out of range: %w", ErrValidation)
		}
	}

	trip, err := s.trips.Get(ctx, tripID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrTripNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("get trip: %w", err)
	}
	if _, err := s.ownedVehicle(ctx, ownerID, trip.VehicleID); err != nil {
		return 0, err
	}
	if trip.FinishedAt != nil {
		return 0, ErrTripClosed
	}

	last, haveLast, err := s.trips.LastWaypoint(ctx, tripID)
	if err != nil {
		return 0, fmt.Errorf("last waypoint: %w", err)
	}

	prevAt := trip.StartedAt
	if haveLast {
		prevAt = last.RecordedAt
	}

	var addedKM float64
	waypoints := make([]model.Waypoint, 0, len(points))
	for _, p := range points {
		if p.RecordedAt.Before(prevAt) {
			return 0, ErrOutOfOrder
		}
		if haveLast {
			addedKM += haversineKM(last.Lat, last.Lon, p.Lat, p.Lon)
		}
		last = model.Waypoint{TripID: tripID, Lat: p.Lat, Lon: p.Lon, RecordedAt: p.RecordedAt.UTC()}
		haveLast = true
		prevAt = p.RecordedAt
		waypoints = append(waypoints, last)
	}

	if err := s.trips.AppendWaypoints(ctx, tripID, waypoints, addedKM); err != nil {
		if errors.Is(err, pgrepo.ErrTripNotFound) {
			return 0, ErrTripClosed
		}
		return 0, fmt.Errorf("append waypoints: %w", err)
	}

	return addedKM, nil
}

func (s *Service) FinishTrip(ctx context.Context, ownerID int64, tripID string) (model.Trip, error) {
	trip, err := s.trips.Get(ctx, tripID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrTripNotFound) {
			return model.Trip{}, ErrNotFound
		}
		return model.Trip{}, fmt.Errorf("get trip: %w", err)
	}
	if _, err := s.ownedVehicle(ctx, ownerID, trip.VehicleID); err != nil {
		return model.Trip{}, err
	}
	if trip.FinishedAt != nil {
		return model.Trip{}, ErrTripClosed
	}

	finished, err := s.trips.Finish(ctx, tripID, s.now().UTC())
	if err != nil {
		if errors.Is(err, pgrepo.ErrTripNotFound) {
			return model.Trip{}, ErrTripClosed
		}
		return model.Trip{}, fmt.Errorf("finish trip: %w", err)
	}

	return finished, nil
}

func (s *Service) ListTrips(ctx context.Context, ownerID, vehicleID int64, page Page) (TripsPage, error) {
	if _, err := s.ownedVehicle(ctx, ownerID, vehicleID); err != nil {
		return TripsPage{}, err
	}

	page = s.normalizePage(page)
	items, total, err := s.trips.ListByVehicle(ctx, vehicleID, (page.Number-1)*page.Size, page.Size)
	if err != nil {
		return TripsPage{}, fmt.Errorf("list trips: %w", err)
	}

	return TripsPage{Items: items, Total: total, Page: page.Number, PageSize: page.Size}, nil
}

func (s *Service) AddFuelRecord(ctx context.Context, ownerID int64, record model.FuelRecord) (model.FuelRecord, error) {
	if record.Liters <= 0 || record.TotalCost < 0 || record.OdometerKM < 0 {
		return model.FuelRecord{}, fmt.Errorf("invalid fuel record: %w", ErrValidation)
	}
	if record.FilledAt.IsZero() {
		record.FilledAt = s.now().UTC()
	}

	if _, err := s.ownedVehicle(ctx, ownerID, record.VehicleID); err != nil {
		return model.FuelRecord{}, err
	}

	created, err := s.fuel.Create(ctx, record)
	if err != nil {
		if errors.Is(err, pgrepo.ErrVehicleNotFound) {
			return model.FuelRecord{}, ErrNotFound
		}
		return model.FuelRecord{}, fmt.Errorf("create fuel record: %w", err)
	}

	return created, nil
}

func (s *Service) ListFuelRecords(ctx context.Context, ownerID, vehicleID int64, page Page) (FuelPage, error) {
	if _, err := s.ownedVehicle(ctx, ownerID, vehicleID); err != nil {
		return FuelPage{}, err
	}

	page = s.normalizePage(page)
	items, total, err := s.fuel.ListByVehicle(ctx, vehicleID, (page.Number-1)*page.Size, page.Size)
	if err != nil {
		return FuelPage{}, fmt.Errorf("list fuel records: %w", err)
	}

	return FuelPage{Items: items, Total: total, Page: page.Number, PageSize: page.Size}, nil
}

func (s *Service) DeleteFuelRecord(ctx context.Context, ownerID, vehicleID, recordID int64) error {
	if _, err := s.ownedVehicle(ctx, ownerID, vehicleID); err != nil {
		return err
	}

	if err := s.fuel.Delete(ctx, recordID, vehicleID); err != nil {
		if errors.Is(err, pgrepo.ErrFuelRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete fuel record: %w", err)
	}

	return nil
}

func (s *Service) AddMaintenanceRecord(ctx context.Context, ownerID int64, record model.MaintenanceRecord) (model.MaintenanceRecord, error) {
	if strings.TrimSpace(record.Description) == "" || record.Cost < 0 {
		return model.MaintenanceRecord{}, fmt.Errorf("invalid maintenance record: %w", ErrValidation)
	}
	if record.PerformedAt.IsZero() {
		record.PerformedAt = s.now().UTC()
	}

	if _, err := s.ownedVehicle(ctx, ownerID, record.VehicleID); err != nil {
		return model.MaintenanceRecord{}, err
	}

	created, err := s.maintenance.Create(ctx, record)
	if err != nil {
		if errors.Is(err, pgrepo.ErrVehicleNotFound) {
			return model.MaintenanceRecord{}, ErrNotFound
		}
		return model.MaintenanceRecord{}, fmt.Errorf("create maintenance record: %w", err)
	}

	return created, nil
}

func (s *Service) ListMaintenanceRecords(ctx context.Context, ownerID, vehicleID int64, page Page) (MaintenancePage, error) {
	if _, err := s.ownedVehicle(ctx, ownerID, vehicleID); err != nil {
		return MaintenancePage{}, err
	}

	page = s.normalizePage(page)
	items, total, err := s.maintenance.ListByVehicle(ctx, vehicleID, (page.Number-1)*page.Size, page.Size)
	if err != nil {
		return MaintenancePage{}, fmt.Errorf("list maintenance records: %w", err)
	}

	return MaintenancePage{Items: items, Total: total, Page: page.Number, PageSize: page.Size}, nil
}

func (s *Service) DeleteMaintenanceRecord(ctx context.Context, ownerID, vehicleID, recordID int64) error {
	if _, err := s.ownedVehicle(ctx, ownerID, vehicleID); err != nil {
		return err
	}

	if err := s.maintenance.Delete(ctx, recordID, vehicleID); err != nil {
		if errors.Is(err, pgrepo.ErrMaintenanceNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete maintenance record: %w", err)
	}

	return nil
}

func haversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKM = 6371.0

	toRad := func(v float64) float64 { return v * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKM * c
}
