package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	fleetsvc "github.com/ugis90/playlistplayer/internal/services/fleet"
	"github.com/ugis90/playlistplayer/internal/transport/http/dto"
	httperrors "github.com/ugis90/playlistplayer/internal/transport/http/errors"
)

type TripHandler struct {
	service *fleetsvc.Service
}

func NewTripHandler(service *fleetsvc.Service) *TripHandler {
	return &TripHandler{service: service}
}

func (h *TripHandler) Start(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	vehicleID, ok := int64Param(r, "vehicleID")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "vehicle not found")
		return
	}

	trip, err := h.service.StartTrip(r.Context(), identity.UserID, vehicleID)
	if err != nil {
		handleFleetError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.NewTripResponse(trip))
}

func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	vehicleID, ok := int64Param(r, "vehicleID")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "vehicle not found")
		return
	}

	page, pageSize := pageParams(r)
	result, err := h.service.ListTrips(r.Context(), identity.UserID, vehicleID, fleetsvc.Page{Number: page, Size: pageSize})
	if err != nil {
		handleFleetError(w, err)
		return
	}

	items := make([]dto.TripResponse, 0, len(result.Items))
	for _, trip := range result.Items {
		items = append(items, dto.NewTripResponse(trip))
	}

	httperrors.Write(w, http.StatusOK, dto.TripListResponse{
		Items:    items,
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	})
}

func (h *TripHandler) AppendWaypoints(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	tripID := chi.URLParam(r, "tripID")
	if tripID == "" {
		writeNotFound(w, "NOT_FOUND", "trip not found")
		return
	}

	var req dto.AppendWaypointsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	points := make([]fleetsvc.WaypointInput, 0, len(req.Points))
	for _, p := range req.Points {
		points = append(points, fleetsvc.WaypointInput{Lat: p.Lat, Lon: p.Lon, RecordedAt: p.RecordedAt})
	}

	added, err := h.service.AppendWaypoints(r.Context(), identity.UserID, tripID, points)
	if err != nil {
		handleFleetError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AppendWaypointsResponse{AddedKM: added})
}

func (h *TripHandler) Finish(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	tripID := chi.URLParam(r, "tripID")
	if tripID == "" {
		writeNotFound(w, "NOT_FOUND", "trip not found")
		return
	}

	trip, err := h.service.FinishTrip(r.Context(), identity.UserID, tripID)
	if err != nil {
		handleFleetError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewTripResponse(trip))
}
