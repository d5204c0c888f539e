package entities

import "time"

type ReservationRequest struct {
	VehicleTypeID   int       `json:"vehicle_type_id"`
	UserName        string    `json:"user_name"`
	UserEmail       string    `json:"user_email"`
	UserPhone       string    `json:"user_phone"`
	VehiclePlate    string    `json:"vehicle_plate"`
	VehicleModel    string    `json:"vehicle_model"`
	PaymentMethodID int       `json:"payment_method_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Language        string    `json:"language"`
}

type AvailabilityRequest struct {
	VehicleTypeID int       `json:"vehicle_type_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}
