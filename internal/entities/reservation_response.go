package entities

import "time"

type ReservationResponse struct {
	Code              string    `json:"code"`
	UserName          string    `json:"user_name"`
	UserEmail         string    `json:"user_email"`
	UserPhone         string    `json:"user_phone"`
	VehicleTypeID     int       `json:"vehicle_type_id"`
	VehicleTypeName   string    `json:"vehicle_type_name,omitempty"`
	VehiclePlate      string    `json:"vehicle_plate"`
	VehicleModel      string    `json:"vehicle_model"`
	PaymentMethodID   int       `json:"payment_method_id"`
	PaymentMethodName string    `json:"payment_method_name,omitempty"`
	Status            string    `json:"status"`
	PaymentStatus     string    `json:"payment_status"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	Language          string    `json:"language"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CheckoutResponse points the client at the Stripe Checkout page of a new
// reservation.
type CheckoutResponse struct {
	Code      string `json:"code"`
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
	Amount    int64  `json:"amount"`
}

type ReservationsList struct {
	Total        int                   `json:"total"`
	Reservations []ReservationResponse `json:"reservations"`
}
