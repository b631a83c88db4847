package handlers

import (
	"net/http"

	catalogsvc "github.com/ugis90/playlistplayer/internal/services/catalog"
	"github.com/ugis90/playlistplayer/internal/transport/http/dto"
	httperrors "github.com/ugis90/playlistplayer/internal/transport/http/errors"
)

type PlaylistHandler struct {
	service *catalogsvc.Service
}

func NewPlaylistHandler(service *catalogsvc.Service) *PlaylistHandler {
	return &PlaylistHandler{service: service}
}

func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := int64Param(r, "categoryID")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "category not found")
		return
	}

	var req dto.PlaylistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	playlist, err := h.service.CreatePlaylist(r.Context(), categoryID, req.Name, req.Description)
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.NewPlaylistResponse(playlist))
}

func (h *PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "playlistID")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "playlist not found")
		return
	}

	playlist, err := h.service.GetPlaylist(r.Context(), id)
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewPlaylistResponse(playlist))
}

func (h *PlaylistHandler) List(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := int64Param(r, "categoryID")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "category not found")
		return
	}

	page, pageSize := pageParams(r)
	result, err := h.service.ListPlaylists(r.Context(), categoryID, catalogsvc.Page{Number: page, Size: pageSize})
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	items := make([]dto.PlaylistResponse, 0, len(result.Items))
	for _, playlist := range result.Items {
		items = append(items, dto.NewPlaylistResponse(playlist))
	}

	httperrors.Write(w, http.StatusOK, dto.PlaylistListResponse{
		Items:    items,
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	})
}

func (h *PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "playlistID")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "playlist not found")
		return
	}

	var req dto.PlaylistRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	playlist, err := h.service.UpdatePlaylist(r.Context(), id, req.Name, req.Description)
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewPlaylistResponse(playlist))
}

func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "playlistID")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "playlist not found")
		return
	}

	if err := h.service.DeletePlaylist(r.Context(), id); err != nil {
		handleCatalogError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadCover accepts a multipart form with a single "cover" file part.
func (h *PlaylistHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "playlistID")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "playlist not found")
		return
	}

	file, header, err := r.FormFile("cover")
	if err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "cover file part is required")
		return
	}
	defer file.Close()

	key, err := h.service.UploadCover(r.Context(), id, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.CoverResponse{URL: key})
}

func (h *PlaylistHandler) GetCover(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "playlistID")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "playlist not found")
		return
	}

	url, err := h.service.CoverURL(r.Context(), id)
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.CoverResponse{URL: url})
}
