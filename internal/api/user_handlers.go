package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"greenpark/internal/db"
	"greenpark/internal/entities"
	apperrors "greenpark/internal/errors"
	"greenpark/internal/repository"
)

// ReservationBackend is the reservation service as used by the HTTP
// handlers. *service.ReservationService implements it.
type ReservationBackend interface {
	GetPrices(ctx context.Context) ([]entities.PriceResponse, error)
	GetVehicleTypes(ctx context.Context) ([]db.VehicleType, error)
	ListReservations(ctx context.Context, f repository.ReservationFilter) ([]entities.ReservationResponse, error)
	CheckAvailability(ctx context.Context, req entities.AvailabilityRequest) (*entities.AvailabilityResponse, error)
	CreateReservation(ctx context.Context, req *entities.ReservationRequest) (*entities.CheckoutResponse, error)
	GetReservationByCode(ctx context.Context, code, email string) (*entities.ReservationResponse, error)
	GetReservationBySessionID(ctx context.Context, sessionID string) (*entities.ReservationResponse, error)
	CancelReservation(ctx context.Context, code, email string) error
}

type UserReservationHandler struct {
	Service ReservationBackend
	logger  *zap.Logger
}

func NewUserReservationHandler(svc ReservationBackend, logger *zap.Logger) *UserReservationHandler {
	return &UserReservationHandler{Service: svc, logger: logger}
}

type emailRequest struct {
	Email string `json:"email"`
}

func (h *UserReservationHandler) GetVehicleTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Service.GetVehicleTypes(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (h *UserReservationHandler) GetPrices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.Service.GetPrices(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, prices)
}

func (h *UserReservationHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req entities.AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.Write(w, apperrors.ErrBadRequest("Invalid request"))
		return
	}
	resp, err := h.Service.CheckAvailability(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *UserReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req entities.ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.Write(w, apperrors.ErrBadRequest("Invalid request"))
		return
	}
	resp, err := h.Service.CreateReservation(r.Context(), &req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *UserReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		apperrors.Write(w, apperrors.ErrBadRequest("email required"))
		return
	}
	res, err := h.Service.GetReservationByCode(r.Context(), code, req.Email)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *UserReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		apperrors.Write(w, apperrors.ErrBadRequest("email required"))
		return
	}
	if err := h.Service.CancelReservation(r.Context(), code, req.Email); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Reservation canceled"})
}

func (h *UserReservationHandler) GetReservationBySessionID(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		apperrors.Write(w, apperrors.ErrBadRequest("session_id required"))
		return
	}
	res, err := h.Service.GetReservationBySessionID(r.Context(), sessionID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
