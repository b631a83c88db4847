package handlers

import (
	"net/http"

	"github.com/ugis90/playlistplayer/internal/domain/model"
	fleetsvc "github.com/ugis90/playlistplayer/internal/services/fleet"
	"github.com/ugis90/playlistplayer/internal/transport/http/dto"
	httperrors "github.com/ugis90/playlistplayer/internal/transport/http/errors"
)

type FuelHandler struct {
	service *fleetsvc.Service
}

func NewFuelHandler(service *fleetsvc.Service) *FuelHandler {
	return &FuelHandler{service: service}
}

func (h *FuelHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	vehicleID, ok := int64Param(r, "vehicleID")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "vehicle not found")
		return
	}

	var req dto.FuelRecordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	record, err := h.service.AddFuelRecord(r.Context(), identity.UserID, model.FuelRecord{
		VehicleID:  vehicleID,
		FilledAt:   req.FilledAt,
		Liters:     req.Liters,
		TotalCost:  req.TotalCost,
		OdometerKM: req.OdometerKM,
	})
	if err != nil {
		handleFleetError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.NewFuelRecordResponse(record))
}

func (h *FuelHandler) List(w http.ResponseWriter, r *http.Request) {
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
	result, err := h.service.ListFuelRecords(r.Context(), identity.UserID, vehicleID, fleetsvc.Page{Number: page, Size: pageSize})
	if err != nil {
		handleFleetError(w, err)
		return
	}

	items := make([]dto.FuelRecordResponse, 0, len(result.Items))
	for _, record := range result.Items {
		items = append(items, dto.NewFuelRecordResponse(record))
	}

	httperrors.Write(w, http.StatusOK, dto.FuelRecordListResponse{
		Items:    items,
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	})
}

func (h *FuelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	vehicleID, ok := int64Param(r, "vehicleID")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "vehicle not found")
		return
	}
	recordID, ok := int64Param(r, "recordID")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "fuel record not found")
		return
	}

	if err := h.service.DeleteFuelRecord(r.Context(), identity.UserID, vehicleID, recordID); err != nil {
		handleFleetError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
