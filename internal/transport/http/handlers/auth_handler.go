package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	authsvc "github.com/ugis90/playlistplayer/internal/services/auth"
	"github.com/ugis90/playlistplayer/internal/transport/http/dto"
	httperrors "github.com/ugis90/playlistplayer/internal/transport/http/errors"
)

// CookieConfig controls the refresh-token cookie. Name defaults to
// RefreshToken; Secure is off only for local development.
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

type AuthHandler struct {
	service *authsvc.Service
	cookie  CookieConfig
}

func NewAuthHandler(service *authsvc.Service, cookie CookieConfig) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "RefreshToken"
	}
	return &AuthHandler{service: service, cookie: cookie}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAuthFailed(w)
		return
	}

	res, err := h.service.Login(r.Context(), req.UserName, req.Password)
	if err != nil {
		writeAuthFailed(w)
		return
	}

	h.setRefreshCookie(w, res.RefreshToken, res.SessionExpires)
	httperrors.Write(w, http.StatusOK, dto.AccessTokenResponse{AccessToken: res.AccessToken})
}

// Refresh rotates the session against the RefreshToken cookie. Every
// failure branch answers the same way so a caller cannot distinguish a
// missing cookie from a stolen-then-rotated token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	cookie, err := r.Cookie(h.cookie.Name)
	if err != nil || cookie.Value == "" {
		writeAuthFailed(w)
		return
	}

	res, err := h.service.Refresh(r.Context(), cookie.Value)
	if err != nil {
		writeAuthFailed(w)
		return
	}

	h.setRefreshCookie(w, res.RefreshToken, res.SessionExpires)
	httperrors.Write(w, http.StatusOK, dto.AccessTokenResponse{AccessToken: res.AccessToken})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	cookie, err := r.Cookie(h.cookie.Name)
	if err != nil || cookie.Value == "" {
		writeAuthFailed(w)
		return
	}

	if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
		writeAuthFailed(w)
		return
	}

	h.clearRefreshCookie(w)
	httperrors.Write(w, http.StatusOK, dto.LogoutResponse{OK: true})
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/api",
		Domain:   h.cookie.Domain,
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/api",
		Domain:   h.cookie.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// writeAuthFailed is the uniform answer for every auth failure: bad
// credentials, absent cookie, expired or rotated-out refresh token.
func writeAuthFailed(w http.ResponseWriter) {
	writeUnprocessable(w, "AUTHENTICATION_FAILED", "authentication failed")
}

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeUnprocessable(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusUnprocessableEntity, httperrors.APIError{Code: code, Message: message})
}

func writeNotFound(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: code, Message: message})
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{Code: code, Message: message})
}

func writeForbidden(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusForbidden, httperrors.APIError{Code: code, Message: message})
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: code, Message: message})
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: code, Message: message})
}
