package handlers

import (
	"errors"
	"net/http"

	accountsvc "github.com/ugis90/playlistplayer/internal/services/accounts"
	"github.com/ugis90/playlistplayer/internal/transport/http/dto"
	httperrors "github.com/ugis90/playlistplayer/internal/transport/http/errors"
)

type AccountHandler struct {
	service *accountsvc.Service
}

func NewAccountHandler(service *accountsvc.Service) *AccountHandler {
	return &AccountHandler{service: service}
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ACCOUNT_SERVICE_UNAVAILABLE", "account service is unavailable")
		return
	}

	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	created, err := h.service.Register(r.Context(), accountsvc.RegisterInput{
		Username: req.UserName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		var validation *accountsvc.ValidationError
		if errors.As(err, &validation) {
			httperrors.Write(w, http.StatusUnprocessableEntity, httperrors.ValidationError{
				Code:    "VALIDATION_ERROR",
				Message: "registration failed",
				Fields:  validation.Fields,
			})
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.RegisterResponse{
		ID:        created.ID,
		UserName:  created.Username,
		Email:     created.Email,
		Roles:     created.Roles,
		CreatedAt: created.CreatedAt,
	})
}
