package handlers

import (
	"errors"
	"net/http"

	"github.com/ugis90/playlistplayer/internal/domain/model"
	authsvc "github.com/ugis90/playlistplayer/internal/services/auth"
	fleetsvc "github.com/ugis90/playlistplayer/internal/services/fleet"
	"github.com/ugis90/playlistplayer/internal/transport/http/dto"
	httperrors "github.com/ugis90/playlistplayer/internal/transport/http/errors"
)

type VehicleHandler struct {
	service *fleetsvc.Service
}

func NewVehicleHandler(service *fleetsvc.Service) *VehicleHandler {
	return &VehicleHandler{service: service}
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req dto.VehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	vehicle, err := h.service.CreateVehicle(r.Context(), identity.UserID, model.Vehicle{
		Name:  req.Name,
		Plate: req.Plate,
		Make:  req.Make,
		Model: req.Model,
		Year:  req.Year,
	})
	if err != nil {
		handleFleetError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.NewVehicleResponse(vehicle))
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := int64Param(r, "vehicleID")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "vehicle not found")
		return
	}

	vehicle, err := h.service.GetVehicle(r.Context(), identity.UserID, id)
	if err != nil {
		handleFleetError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewVehicleResponse(vehicle))
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	page, pageSize := pageParams(r)
	result, err := h.service.ListVehicles(r.Context(), identity.UserID, fleetsvc.Page{Number: page, Size: pageSize})
	if err != nil {
		handleFleetError(w, err)
		return
	}

	items := make([]dto.VehicleResponse, 0, len(result.Items))
	for _, vehicle := range result.Items {
		items = append(items, dto.NewVehicleResponse(vehicle))
	}

	httperrors.Write(w, http.StatusOK, dto.VehicleListResponse{
		Items:    items,
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	})
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := int64Param(r, "vehicleID")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "vehicle not found")
		return
	}

	var req dto.VehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	vehicle, err := h.service.UpdateVehicle(r.Context(), identity.UserID, id, model.Vehicle{
		Name:  req.Name,
		Plate: req.Plate,
		Make:  req.Make,
		Model: req.Model,
		Year:  req.Year,
	})
	if err != nil {
		handleFleetError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewVehicleResponse(vehicle))
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := int64Param(r, "vehicleID")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "vehicle not found")
		return
	}

	if err := h.service.DeleteVehicle(r.Context(), identity.UserID, id); err != nil {
		handleFleetError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func requireIdentity(w http.ResponseWriter, r *http.Request) (authsvc.Identity, bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return authsvc.Identity{}, false
	}
	return identity, true
}

func handleFleetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fleetsvc.ErrValidation):
		writeUnprocessable(w, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, fleetsvc.ErrTripOpen):
		writeUnprocessable(w, "TRIP_ALREADY_OPEN", "vehicle already has an open trip")
	case errors.Is(err, fleetsvc.ErrTripClosed):
		writeUnprocessable(w, "TRIP_FINISHED", "trip is already finished")
	case errors.Is(err, fleetsvc.ErrOutOfOrder):
		writeUnprocessable(w, "WAYPOINT_OUT_OF_ORDER", "waypoints must be recorded in order")
	case errors.Is(err, fleetsvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "resource not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
