package dto

import (
	"time"

	"github.com/ugis90/playlistplayer/internal/domain/model"
)

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewCategoryResponse(c model.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type CategoryListResponse struct {
	Items    []CategoryResponse `json:"items"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
}

type PlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type PlaylistResponse struct {
	ID          int64     `json:"id"`
	CategoryID  int64     `json:"categoryId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	HasCover    bool      `json:"hasCover"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewPlaylistResponse(p model.Playlist) PlaylistResponse {
	return PlaylistResponse{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		HasCover:    p.CoverKey != "",
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type PlaylistListResponse struct {
	Items    []PlaylistResponse `json:"items"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
}

type CoverResponse struct {
	URL string `json:"url"`
}

type SongRequest struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	DurationSec int    `json:"durationSec"`
	TrackURL    string `json:"trackUrl"`
}

type SongResponse struct {
	ID          int64     `json:"id"`
	PlaylistID  int64     `json:"playlistId"`
	Title       string    `json:"title"`
	Artist      string    `json:"artist"`
	DurationSec int       `json:"durationSec"`
	TrackURL    string    `json:"trackUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewSongResponse(s model.Song) SongResponse {
	return SongResponse{
		ID:          s.ID,
		PlaylistID:  s.PlaylistID,
		Title:       s.Title,
		Artist:      s.Artist,
		DurationSec: s.DurationSec,
		TrackURL:    s.TrackURL,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

type SongListResponse struct {
	Items    []SongResponse `json:"items"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}
