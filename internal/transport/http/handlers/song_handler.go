package handlers

import (
	"net/http"

	catalogsvc "github.com/ugis90/playlistplayer/internal/services/catalog"
	"github.com/ugis90/playlistplayer/internal/transport/http/dto"
	httperrors "github.com/ugis90/playlistplayer/internal/transport/http/errors"
)

type SongHandler struct {
	service *catalogsvc.Service
}

func NewSongHandler(service *catalogsvc.Service) *SongHandler {
	return &SongHandler{service: service}
}

func (h *SongHandler) Create(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := int64Param(r, "playlistID")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "playlist not found")
		return
	}

	var req dto.SongRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	song, err := h.service.CreateSong(r.Context(), playlistID, req.Title, req.Artist, req.DurationSec, req.TrackURL)
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.NewSongResponse(song))
}

func (h *SongHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "songID")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "song not found")
		return
	}

	song, err := h.service.GetSong(r.Context(), id)
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewSongResponse(song))
}

func (h *SongHandler) List(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := int64Param(r, "playlistID")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "playlist not found")
		return
	}

	page, pageSize := pageParams(r)
	result, err := h.service.ListSongs(r.Context(), playlistID, catalogsvc.Page{Number: page, Size: pageSize})
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	items := make([]dto.SongResponse, 0, len(result.Items))
	for _, song := range result.Items {
		items = append(items, dto.NewSongResponse(song))
	}

	httperrors.Write(w, http.StatusOK, dto.SongListResponse{
		Items:    items,
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	})
}

func (h *SongHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "songID")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "song not found")
		return
	}

	var req dto.SongRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	song, err := h.service.UpdateSong(r.Context(), id, req.Title, req.Artist, req.DurationSec, req.TrackURL)
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewSongResponse(song))
}

func (h *SongHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "songID")
	if !ok {
		writeNotFound(w, "NOT_FOUND", "song not found")
		return
	}

	if err := h.service.DeleteSong(r.Context(), id); err != nil {
		handleCatalogError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
