package api

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"greenpark/internal/entities"
	apperrors "greenpark/internal/errors"
	"greenpark/internal/repository"
)

// AdminAuth is the admin account service. *service.AdminAuthService
// implements it.
type AdminAuth interface {
	Login(ctx context.Context, email, password string) (string, error)
	CreateAdmin(ctx context.Context, email, password string) error
}

type AdminHandler struct {
	reservations ReservationBackend
	auth         AdminAuth
	logger       *zap.Logger
}

func NewAdminHandler(reservations ReservationBackend, auth AdminAuth, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{reservations: reservations, auth: auth, logger: logger}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.Write(w, apperrors.ErrBadRequest("Invalid request body"))
		return
	}
	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

func (h *AdminHandler) CreateUserAdmin(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.Write(w, apperrors.ErrBadRequest("Invalid request body"))
		return
	}
	if err := h.auth.CreateAdmin(r.Context(), req.Email, req.Password); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Admin registered successfully"})
}

func (h *AdminHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ReservationFilter{
		Date:        q.Get("date"),
		VehicleType: q.Get("vehicle_type"),
		Status:      q.Get("status"),
	}
	reservations, err := h.reservations.ListReservations(r.Context(), filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if reservations == nil {
		reservations = []entities.ReservationResponse{}
	}
	writeJSON(w, http.StatusOK, entities.ReservationsList{Total: len(reservations), Reservations: reservations})
}
