package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"greenpark/internal/db"
	"greenpark/internal/entities"
	"greenpark/internal/repository"
	"greenpark/internal/utils"
)

// cancellationNotice is how long before the start time a reservation can
// still be canceled.
const cancellationNotice = 12 * time.Hour

type ReservationRepo interface {
	GetPrices(ctx context.Context) ([]entities.PriceResponse, error)
	GetVehicleTypes(ctx context.Context) ([]db.VehicleType, error)
	GetHourlyAvailabilityDetails(ctx context.Context, startTime, endTime time.Time, spacesTypeID int, memberIDs []int) ([]repository.SlotOccupationInfo, error)
	GetPriceForUnit(ctx context.Context, vehicleTypeID, reservationTimeID int) (int, error)
	CreateReservation(ctx context.Context, res *db.Reservation) error
	GetReservationByCode(ctx context.Context, code, email string) (*entities.ReservationResponse, error)
	GetReservationByCodeOnly(ctx context.Context, code string) (*db.Reservation, error)
	GetReservationByStripeSessionID(ctx context.Context, sessionID string) (*db.Reservation, error)
	UpdateReservationAndPaymentStatus(ctx context.Context, id int, status, paymentStatus, paymentIntentID string) error
	ListReservations(ctx context.Context, f repository.ReservationFilter) ([]entities.ReservationResponse, error)
}

// PaymentGateway is the payment provider side of a reservation.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	RefundPaymentBySessionID(ctx context.Context, sessionID string) error
	SessionIDByPaymentIntent(ctx context.Context, paymentIntentID string) (string, error)
}

// ReservationNotifier tells the customer about a reservation status change.
type ReservationNotifier interface {
	NotifyReservation(ctx context.Context, reservation entities.ReservationResponse, status string)
}

type ReservationService struct {
	repo     ReservationRepo
	payments PaymentGateway
	notifier ReservationNotifier
	logger   *zap.Logger
	now      func() time.Time
	newCode  func() string
}

func NewReservationService(repo ReservationRepo, payments PaymentGateway, notifier ReservationNotifier, logger *zap.Logger) *ReservationService {
	return &ReservationService{
		repo:     repo,
		payments: payments,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		newCode:  newReservationCode,
	}
}

func newReservationCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *ReservationService) GetPrices(ctx context.Context) ([]entities.PriceResponse, error) {
	return s.repo.GetPrices(ctx)
}

func (s *ReservationService) GetVehicleTypes(ctx context.Context) ([]db.VehicleType, error) {
	return s.repo.GetVehicleTypes(ctx)
}

func (s *ReservationService) ListReservations(ctx context.Context, f repository.ReservationFilter) ([]entities.ReservationResponse, error) {
	return s.repo.ListReservations(ctx, f)
}

func (s *ReservationService) CheckAvailability(ctx context.Context, req entities.AvailabilityRequest) (*entities.AvailabilityResponse, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	types, err := s.repo.GetVehicleTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("internal error checking availability: %w", err)
	}
	if !knownVehicleType(types, req.VehicleTypeID) {
		return nil, ErrUnknownVehicleType
	}
	owner, members := utils.SpacePool(types, req.VehicleTypeID)

	hourlyDetails, err := s.repo.GetHourlyAvailabilityDetails(ctx, req.StartTime, req.EndTime, owner, members)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownVehicleType
		}
		return nil, fmt.Errorf("internal error checking availability: %w", err)
	}

	response := &entities.AvailabilityResponse{
		RequestedStartTime: req.StartTime,
		RequestedEndTime:   req.EndTime,
		IsOverallAvailable: len(hourlyDetails) > 0,
	}

	for _, detail := range hourlyDetails {
		availableInSlot := detail.TotalSpaces - detail.BookedSpaces
		if availableInSlot < 0 {
			availableInSlot = 0
		}
		isSlotAvailable := availableInSlot > 0

		response.SlotDetails = append(response.SlotDetails, entities.TimeSlotAvailability{
			StartTime:       detail.SlotStart,
			EndTime:         detail.SlotEnd,
			IsAvailable:     isSlotAvailable,
			AvailableSpaces: availableInSlot,
		})

		if !isSlotAvailable {
			response.IsOverallAvailable = false
			if response.FirstUnavailableSlotStart == nil {
				first := detail.SlotStart
				response.FirstUnavailableSlotStart = &first
			}
		}
	}

	if response.IsOverallAvailable {
		response.Message = "Spaces available for the requested period."
	} else {
		response.Message = "No spaces available for the requested period."
	}
	return response, nil
}

// Quote returns the total price in euros of a stay.
func (s *ReservationService) Quote(ctx context.Context, vehicleTypeID int, startTime, endTime time.Time) (int, error) {
	if !endTime.After(startTime) {
		return 0, ErrInvalidTimeRange
	}
	unit, count, reservationTimeID := getBestUnitAndCount(startTime, endTime)
	pricePerUnit, err := s.repo.GetPriceForUnit(ctx, vehicleTypeID, reservationTimeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrUnknownVehicleType
		}
		return 0, fmt.Errorf("could not get price per %s: %w", unit, err)
	}
	return pricePerUnit * count, nil
}

func (s *ReservationService) CreateReservation(ctx context.Context, req *entities.ReservationRequest) (*entities.CheckoutResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	availability, err := s.CheckAvailability(ctx, entities.AvailabilityRequest{
		VehicleTypeID: req.VehicleTypeID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
	})
	if err != nil {
		return nil, err
	}
	if !availability.IsOverallAvailable {
		return nil, ErrNotAvailable
	}

	total, err := s.Quote(ctx, req.VehicleTypeID, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	amount, err := chargeAmount(total, req.PaymentMethodID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	reservation := &db.Reservation{
		Code:            s.newCode(),
		UserName:        strings.TrimSpace(req.UserName),
		UserEmail:       strings.TrimSpace(req.UserEmail),
		UserPhone:       strings.TrimSpace(req.UserPhone),
		VehicleTypeID:   req.VehicleTypeID,
		VehiclePlate:    strings.ToUpper(strings.TrimSpace(req.VehiclePlate)),
		VehicleModel:    strings.TrimSpace(req.VehicleModel),
		PaymentMethodID: req.PaymentMethodID,
		Status:          statusPending,
		PaymentStatus:   paymentPending,
		StartTime:       req.StartTime.UTC(),
		EndTime:         req.EndTime.UTC(),
		Language:        req.Language,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	checkout, err := s.payments.CreateCheckoutSession(ctx, CheckoutRequest{
		Amount:        amount,
		Currency:      "eur",
		Description:   "GreenParking " + reservation.Code,
		CustomerEmail: reservation.UserEmail,
		Language:      reservation.Language,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create checkout session: %w", err)
	}
	reservation.StripeSessionID = checkout.ID

	if err := s.repo.CreateReservation(ctx, reservation); err != nil {
		s.logger.Error("Error creating reservation in repository",
			zap.String("code", reservation.Code), zap.String("session_id", checkout.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Reservation created",
		zap.String("code", reservation.Code), zap.Int64("amount", amount), zap.Int("payment_method_id", req.PaymentMethodID))
	return &entities.CheckoutResponse{
		Code:      reservation.Code,
		URL:       checkout.URL,
		SessionID: checkout.ID,
		Amount:    amount,
	}, nil
}

func (s *ReservationService) validate(req *entities.ReservationRequest) error {
	if !req.EndTime.After(req.StartTime) {
		return ErrInvalidTimeRange
	}
	if !req.StartTime.After(s.now()) {
		return ErrStartInPast
	}
	if req.VehicleTypeID <= 0 {
		return ErrUnknownVehicleType
	}
	if req.PaymentMethodID != PaymentMethodOnline && req.PaymentMethodID != PaymentMethodOnSite {
		return ErrUnsupportedPaymentMethod
	}
	if strings.TrimSpace(req.UserName) == "" || strings.TrimSpace(req.UserPhone) == "" {
		return ErrMissingContact
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.UserEmail)); err != nil {
		return ErrMissingContact
	}
	return nil
}

func (s *ReservationService) GetReservationByCode(ctx context.Context, code, email string) (*entities.ReservationResponse, error) {
	res, err := s.repo.GetReservationByCode(ctx, code, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return res, err
}

func (s *ReservationService) GetReservationBySessionID(ctx context.Context, sessionID string) (*entities.ReservationResponse, error) {
	reservation, err := s.repo.GetReservationByStripeSessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := toResponse(reservation)
	return &resp, nil
}

// ConfirmPayment activates the reservation paid through sessionID.
// Repeated deliveries of the same payment are ignored.
func (s *ReservationService) ConfirmPayment(ctx context.Context, sessionID, paymentIntentID string) error {
	reservation, err := s.repo.GetReservationByStripeSessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if reservation.Status == statusActive && reservation.PaymentStatus == paymentSucceeded {
		return nil
	}

	if err := s.repo.UpdateReservationAndPaymentStatus(ctx, reservation.ID, statusActive, paymentSucceeded, paymentIntentID); err != nil {
		return err
	}
	reservation.Status = statusActive
	reservation.PaymentStatus = paymentSucceeded

	s.notifier.NotifyReservation(ctx, toResponse(reservation), StatusTranslation(statusConfirmed, reservation.Language))
	return nil
}

// MarkRefunded cancels the reservation whose payment was refunded.
func (s *ReservationService) MarkRefunded(ctx context.Context, paymentIntentID string) error {
	sessionID, err := s.payments.SessionIDByPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return err
	}
	reservation, err := s.repo.GetReservationByStripeSessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if reservation.Status == statusCanceled && reservation.PaymentStatus == paymentRefunded {
		return nil
	}
	return s.repo.UpdateReservationAndPaymentStatus(ctx, reservation.ID, statusCanceled, paymentRefunded, "")
}

// CancelReservation refunds and cancels an active reservation. The email
// must match the one the reservation was made with.
func (s *ReservationService) CancelReservation(ctx context.Context, code, email string) error {
	if _, err := s.GetReservationByCode(ctx, code, email); err != nil {
		return err
	}
	reservation, err := s.repo.GetReservationByCodeOnly(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if reservation.Status != statusActive || reservation.StripeSessionID == "" {
		return ErrNotCancelable
	}
	if reservation.StartTime.Sub(s.now().UTC()) < cancellationNotice {
		return ErrCancellationWindow
	}

	if err := s.payments.RefundPaymentBySessionID(ctx, reservation.StripeSessionID); err != nil {
		return fmt.Errorf("refund for reservation %s: %w", code, err)
	}
	if err := s.repo.UpdateReservationAndPaymentStatus(ctx, reservation.ID, statusCanceled, paymentRefunded, ""); err != nil {
		return err
	}
	reservation.Status = statusCanceled
	reservation.PaymentStatus = paymentRefunded

	s.logger.Info("Reservation canceled", zap.String("code", code))
	s.notifier.NotifyReservation(ctx, toResponse(reservation), StatusTranslation(statusCanceled, reservation.Language))
	return nil
}

// PaymentPending reports whether a reservation still waits for its payment.
func PaymentPending(res *entities.ReservationResponse) bool {
	return res.Status == statusPending && res.PaymentStatus == paymentPending
}

// PaymentSucceeded reports whether a reservation was paid.
func PaymentSucceeded(res *entities.ReservationResponse) bool {
	return res.PaymentStatus == paymentSucceeded
}

func knownVehicleType(types []db.VehicleType, id int) bool {
	for _, vt := range types {
		if vt.ID == id {
			return true
		}
	}
	return false
}

func toResponse(r *db.Reservation) entities.ReservationResponse {
	return entities.ReservationResponse{
		Code:            r.Code,
		UserName:        r.UserName,
		UserEmail:       r.UserEmail,
		UserPhone:       r.UserPhone,
		VehicleTypeID:   r.VehicleTypeID,
		VehiclePlate:    r.VehiclePlate,
		VehicleModel:    r.VehicleModel,
		PaymentMethodID: r.PaymentMethodID,
		Status:          r.Status,
		PaymentStatus:   r.PaymentStatus,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		Language:        r.Language,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
