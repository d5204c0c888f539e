package service

import (
	"math"
	"time"
)

// Reservation time units, matching the reservation_times table.
const (
	unitHour  = 1
	unitDay   = 2
	unitWeek  = 3
	unitMonth = 4
)

// Payment methods, matching the payment_method table.
const (
	PaymentMethodOnSite = 1
	PaymentMethodOnline = 2
)

// onSiteDepositRate is the share charged online when the rest is paid at
// the parking.
const onSiteDepositRate = 0.3

// getBestUnitAndCount picks the pricing unit for a stay and the number of
// units, rounding partial units up.
func getBestUnitAndCount(startTime, endTime time.Time) (unit string, count int, reservationTimeID int) {
	d := endTime.Sub(startTime)
	switch {
	case d < 24*time.Hour:
		return "hour", unitsCeil(d, time.Hour), unitHour
	case d < 7*24*time.Hour:
		return "day", unitsCeil(d, 24*time.Hour), unitDay
	case d < 30*24*time.Hour:
		return "week", unitsCeil(d, 7*24*time.Hour), unitWeek
	default:
		return "month", unitsCeil(d, 30*24*time.Hour), unitMonth
	}
}

func unitsCeil(d, unit time.Duration) int {
	n := int(d / unit)
	if d%unit != 0 {
		n++
	}
	if n == 0 {
		n = 1
	}
	return n
}

// chargeAmount returns the amount in cents charged through Stripe for a
// total price in euros.
func chargeAmount(totalPrice int, paymentMethodID int) (int64, error) {
	switch paymentMethodID {
	case PaymentMethodOnline:
		return int64(totalPrice) * 100, nil
	case PaymentMethodOnSite:
		return int64(math.Round(float64(totalPrice) * onSiteDepositRate * 100)), nil
	}
	return 0, ErrUnsupportedPaymentMethod
}
