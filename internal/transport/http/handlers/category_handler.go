package handlers

import (
	"errors"
	"net/http"

	catalogsvc "github.com/ugis90/playlistplayer/internal/services/catalog"
	"github.com/ugis90/playlistplayer/internal/transport/http/dto"
	httperrors "github.com/ugis90/playlistplayer/internal/transport/http/errors"
)

type CategoryHandler struct {
	service *catalogsvc.Service
}

func NewCategoryHandler(service *catalogsvc.Service) *CategoryHandler {
	return &CategoryHandler{service: service}
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	category, err := h.service.CreateCategory(r.Context(), req.Name, req.Description)
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.NewCategoryResponse(category))
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "categoryID")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "category not found")
		return
	}

	category, err := h.service.GetCategory(r.Context(), id)
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewCategoryResponse(category))
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)

	result, err := h.service.ListCategories(r.Context(), catalogsvc.Page{Number: page, Size: pageSize})
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	items := make([]dto.CategoryResponse, 0, len(result.Items))
	for _, category := range result.Items {
		items = append(items, dto.NewCategoryResponse(category))
	}

	httperrors.Write(w, http.StatusOK, dto.CategoryListResponse{
		Items:    items,
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	})
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "categoryID")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "category not found")
		return
	}

	var req dto.CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), id, req.Name, req.Description)
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewCategoryResponse(category))
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "categoryID")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "category not found")
		return
	}

	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		handleCatalogError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func handleCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalogsvc.ErrValidation):
		writeUnprocessable(w, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, catalogsvc.ErrConflict):
		writeUnprocessable(w, "CONFLICT", err.Error())
	case errors.Is(err, catalogsvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "resource not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
