package api

import (
	"context"
	"errors"

	"greenpark/internal/db"
	"greenpark/internal/entities"
	"greenpark/internal/repository"
	"greenpark/internal/service"
)

type fakeBackend struct {
	types      []db.VehicleType
	typesErr   error
	available  bool
	availErr   error
	createErr  error
	createdReq *entities.ReservationRequest
	bySession  map[string]*entities.ReservationResponse
	byCode     map[string]*entities.ReservationResponse
	cancelErr  error
	listed     repository.ReservationFilter
	confirmed  []string
	refunded   []string
	paymentErr error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		types:     []db.VehicleType{{ID: 1, Name: "car"}, {ID: 2, Name: "motorcycle"}},
		available: true,
		bySession: map[string]*entities.ReservationResponse{},
		byCode:    map[string]*entities.ReservationResponse{},
	}
}

func (f *fakeBackend) GetPrices(ctx context.Context) ([]entities.PriceResponse, error) {
	return []entities.PriceResponse{{VehicleType: "car", ReservationTime: "hour", Price: 3}}, nil
}

func (f *fakeBackend) GetVehicleTypes(ctx context.Context) ([]db.VehicleType, error) {
	return f.types, f.typesErr
}

func (f *fakeBackend) ListReservations(ctx context.Context, filter repository.ReservationFilter) ([]entities.ReservationResponse, error) {
	f.listed = filter
	var out []entities.ReservationResponse
	for _, r := range f.byCode {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeBackend) CheckAvailability(ctx context.Context, req entities.AvailabilityRequest) (*entities.AvailabilityResponse, error) {
	if f.availErr != nil {
		return nil, f.availErr
	}
	return &entities.AvailabilityResponse{IsOverallAvailable: f.available, RequestedStartTime: req.StartTime, RequestedEndTime: req.EndTime}, nil
}

func (f *fakeBackend) CreateReservation(ctx context.Context, req *entities.ReservationRequest) (*entities.CheckoutResponse, error) {
	f.createdReq = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &entities.CheckoutResponse{Code: "ABCD1234", URL: "https://checkout.stripe.com/c/pay/cs_1", SessionID: "cs_1", Amount: 900}, nil
}

func (f *fakeBackend) GetReservationByCode(ctx context.Context, code, email string) (*entities.ReservationResponse, error) {
	r, ok := f.byCode[code]
	if !ok || r.UserEmail != email {
		return nil, service.ErrNotFound
	}
	return r, nil
}

func (f *fakeBackend) GetReservationBySessionID(ctx context.Context, sessionID string) (*entities.ReservationResponse, error) {
	r, ok := f.bySession[sessionID]
	if !ok {
		return nil, service.ErrNotFound
	}
	return r, nil
}

func (f *fakeBackend) CancelReservation(ctx context.Context, code, email string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	if _, err := f.GetReservationByCode(ctx, code, email); err != nil {
		return err
	}
	return nil
}

func (f *fakeBackend) ConfirmPayment(ctx context.Context, sessionID, paymentIntentID string) error {
	f.confirmed = append(f.confirmed, sessionID+"/"+paymentIntentID)
	return f.paymentErr
}

func (f *fakeBackend) MarkRefunded(ctx context.Context, paymentIntentID string) error {
	f.refunded = append(f.refunded, paymentIntentID)
	return f.paymentErr
}

type fakeAdminAuth struct {
	created []string
}

func (f *fakeAdminAuth) Login(ctx context.Context, email, password string) (string, error) {
	if email == "admin@greenpark.it" && password == "s3cret-pass" {
		return "signed.jwt.token", nil
	}
	return "", service.ErrInvalidCredentials
}

func (f *fakeAdminAuth) CreateAdmin(ctx context.Context, email, password string) error {
	if password == "" {
		return service.ErrInvalidAdmin
	}
	f.created = append(f.created, email)
	return nil
}

var errBoom = errors.New("boom")
