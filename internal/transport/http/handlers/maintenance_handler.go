package handlers

import (
	"net/http"

	"github.com/ugis90/playlistplayer/internal/domain/model"
	fleetsvc "github.com/ugis90/playlistplayer/internal/services/fleet"
	"github.com/ugis90/playlistplayer/internal/transport/http/dto"
	httperrors "github.com/ugis90/playlistplayer/internal/transport/http/errors"
)

type MaintenanceHandler struct {
	service *fleetsvc.Service
}

func NewMaintenanceHandler(service *fleetsvc.Service) *MaintenanceHandler {
	return &MaintenanceHandler{service: service}
}

func (h *MaintenanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	vehicleID, ok := int64Param(r, "vehicleID")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "vehicle not found")
		return
	}

	var req dto.MaintenanceRecordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	record, err := h.service.AddMaintenanceRecord(r.Context(), identity.UserID, model.MaintenanceRecord{
		VehicleID:   vehicleID,
		PerformedAt: req.PerformedAt,
		Description: req.Description,
		Cost:        req.Cost,
	})
	if err != nil {
		handleFleetError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.NewMaintenanceRecordResponse(record))
}

func (h *MaintenanceHandler) List(w http.ResponseWriter, r *http.Request) {
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
	result, err := h.service.ListMaintenanceRecords(r.Context(), identity.UserID, vehicleID, fleetsvc.Page{Number: page, Size: pageSize})
	if err != nil {
		handleFleetError(w, err)
		return
	}

	items := make([]dto.MaintenanceRecordResponse, 0, len(result.Items))
	for _, record := range result.Items {
		items = append(items, dto.NewMaintenanceRecordResponse(record))
	}

	httperrors.Write(w, http.StatusOK, dto.MaintenanceRecordListResponse{
		Items:    items,
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	})
}

func (h *MaintenanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
		writeNotFound(w, "NOT_FOUND", "maintenance record not found")
		return
	}

	if err := h.service.DeleteMaintenanceRecord(r.Context(), identity.UserID, vehicleID, recordID); err != nil {
		handleFleetError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
