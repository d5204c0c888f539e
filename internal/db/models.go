package db

import "time"

type VehicleType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Reservation struct {
	ID                    int
	Code                  string
	UserName              string
	UserEmail             string
	UserPhone             string
	VehicleTypeID         int
	VehiclePlate          string
	VehicleModel          string
	PaymentMethodID       int
	Status                string
	PaymentStatus         string
	StripeSessionID       string
	StripePaymentIntentID string
	StartTime             time.Time
	EndTime               time.Time
	Language              string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type Admin struct {
	ID           int
	Email        string
	PasswordHash string
}
