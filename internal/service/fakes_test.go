package service

import (
	"context"
	"sync"
	"time"

	"greenpark/internal/db"
	"greenpark/internal/entities"
	"greenpark/internal/repository"
)

type fakeRepo struct {
	types        []db.VehicleType
	slots        []repository.SlotOccupationInfo
	slotsErr     error
	prices       map[[2]int]int
	reservations map[string]*db.Reservation
	created      []*db.Reservation
	updates      []statusUpdate
	poolOwner    int
	poolMembers  []int
}

type statusUpdate struct {
	ID              int
	Status          string
	PaymentStatus   string
	PaymentIntentID string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		types: []db.VehicleType{{ID: 1, Name: "car"}, {ID: 2, Name: "motorcycle"}, {ID: 3, Name: "suv"}},
		prices: map[[2]int]int{
			{1, unitHour}: 3,
			{1, unitDay}:  20,
			{3, unitHour}: 5,
		},
		reservations: make(map[string]*db.Reservation),
	}
}

func (f *fakeRepo) GetPrices(ctx context.Context) ([]entities.PriceResponse, error) {
	return []entities.PriceResponse{{VehicleType: "car", ReservationTime: "hour", Price: 3}}, nil
}

func (f *fakeRepo) GetVehicleTypes(ctx context.Context) ([]db.VehicleType, error) {
	return f.types, nil
}

func (f *fakeRepo) GetHourlyAvailabilityDetails(ctx context.Context, startTime, endTime time.Time, spacesTypeID int, memberIDs []int) ([]repository.SlotOccupationInfo, error) {
	f.poolOwner = spacesTypeID
	f.poolMembers = memberIDs
	if f.slotsErr != nil {
		return nil, f.slotsErr
	}
	if f.slots != nil {
		return f.slots, nil
	}
	var out []repository.SlotOccupationInfo
	for t := startTime; t.Before(endTime); t = t.Add(time.Hour) {
		out = append(out, repository.SlotOccupationInfo{SlotStart: t, SlotEnd: t.Add(time.Hour), TotalSpaces: 10, BookedSpaces: 2})
	}
	return out, nil
}

func (f *fakeRepo) GetPriceForUnit(ctx context.Context, vehicleTypeID, reservationTimeID int) (int, error) {
	p, ok := f.prices[[2]int{vehicleTypeID, reservationTimeID}]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) CreateReservation(ctx context.Context, res *db.Reservation) error {
	res.ID = len(f.created) + 1
	f.created = append(f.created, res)
	f.reservations[res.Code] = res
	return nil
}

func (f *fakeRepo) GetReservationByCode(ctx context.Context, code, email string) (*entities.ReservationResponse, error) {
	res, ok := f.reservations[code]
	if !ok || res.UserEmail != email {
		return nil, repository.ErrNotFound
	}
	resp := toResponse(res)
	return &resp, nil
}

func (f *fakeRepo) GetReservationByCodeOnly(ctx context.Context, code string) (*db.Reservation, error) {
	res, ok := f.reservations[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return res, nil
}

func (f *fakeRepo) GetReservationByStripeSessionID(ctx context.Context, sessionID string) (*db.Reservation, error) {
	for _, res := range f.reservations {
		if res.StripeSessionID == sessionID {
			return res, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRepo) UpdateReservationAndPaymentStatus(ctx context.Context, id int, status, paymentStatus, paymentIntentID string) error {
	f.updates = append(f.updates, statusUpdate{id, status, paymentStatus, paymentIntentID})
	for _, res := range f.reservations {
		if res.ID == id {
			res.Status = status
			res.PaymentStatus = paymentStatus
			if paymentIntentID != "" {
				res.StripePaymentIntentID = paymentIntentID
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeRepo) ListReservations(ctx context.Context, filter repository.ReservationFilter) ([]entities.ReservationResponse, error) {
	var out []entities.ReservationResponse
	for _, res := range f.reservations {
		if filter.Status == "" || filter.Status == res.Status {
			out = append(out, toResponse(res))
		}
	}
	return out, nil
}

type fakeGateway struct {
	checkouts       []CheckoutRequest
	refunds         []string
	sessionByIntent map[string]string
	err             error
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.checkouts = append(g.checkouts, req)
	return &CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil
}

func (g *fakeGateway) RefundPaymentBySessionID(ctx context.Context, sessionID string) error {
	if g.err != nil {
		return g.err
	}
	g.refunds = append(g.refunds, sessionID)
	return nil
}

func (g *fakeGateway) SessionIDByPaymentIntent(ctx context.Context, paymentIntentID string) (string, error) {
	id, ok := g.sessionByIntent[paymentIntentID]
	if !ok {
		return "", ErrNotFound
	}
	return id, nil
}

type notification struct {
	Code   string
	Status string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *fakeNotifier) NotifyReservation(ctx context.Context, reservation entities.ReservationResponse, status string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{reservation.Code, status})
}
