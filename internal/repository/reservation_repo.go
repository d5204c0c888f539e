package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lib/pq"

	"greenpark/internal/db"
	"greenpark/internal/entities"
)

// ErrNotFound is returned when no row matches.
var ErrNotFound = errors.New("repository: not found")

type SlotOccupationInfo struct {
	SlotStart    time.Time
	SlotEnd      time.Time
	TotalSpaces  int
	BookedSpaces int
}

// ReservationFilter narrows ListReservations. Empty fields match all.
type ReservationFilter struct {
	Date        string
	VehicleType string
	Status      string
}

type ReservationRepository struct {
	DB *sql.DB
}

func NewReservationRepository(db *sql.DB) *ReservationRepository {
	return &ReservationRepository{DB: db}
}

const reservationColumns = `id, code, user_name, user_email, user_phone, vehicle_type_id, vehicle_plate, vehicle_model,
	payment_method_id, status, payment_status, COALESCE(stripe_session_id, ''), COALESCE(stripe_payment_intent_id, ''),
	start_time, end_time, language, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }, res *db.Reservation) error {
	return row.Scan(
		&res.ID, &res.Code, &res.UserName, &res.UserEmail, &res.UserPhone, &res.VehicleTypeID, &res.VehiclePlate, &res.VehicleModel,
		&res.PaymentMethodID, &res.Status, &res.PaymentStatus, &res.StripeSessionID, &res.StripePaymentIntentID,
		&res.StartTime, &res.EndTime, &res.Language, &res.CreatedAt, &res.UpdatedAt,
	)
}

func (r *ReservationRepository) GetPrices(ctx context.Context) ([]entities.PriceResponse, error) {
	query := `
	SELECT vt.name as vehicle_type, rt.name as reservation_time, vp.price
	FROM vehicle_prices vp
	JOIN vehicle_types vt ON vp.vehicle_type_id = vt.id
	JOIN reservation_times rt ON vp.reservation_time_id = rt.id
	ORDER BY vt.name, rt.id`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying prices: %w", err)
	}
	defer rows.Close()

	var prices []entities.PriceResponse
	for rows.Next() {
		var p entities.PriceResponse
		if err := rows.Scan(&p.VehicleType, &p.ReservationTime, &p.Price); err != nil {
			return nil, fmt.Errorf("error scanning price: %w", err)
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

func (r *ReservationRepository) GetVehicleTypes(ctx context.Context) ([]db.VehicleType, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name FROM vehicle_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error querying vehicle types: %w", err)
	}
	defer rows.Close()

	var types []db.VehicleType
	for rows.Next() {
		var vt db.VehicleType
		if err := rows.Scan(&vt.ID, &vt.Name); err != nil {
			return nil, fmt.Errorf("error scanning vehicle type: %w", err)
		}
		types = append(types, vt)
	}
	return types, rows.Err()
}

// GetHourlyAvailabilityDetails returns, for every hour between startTime and
// endTime, the size of the space pool owned by spacesTypeID and the number
// of active reservations of the pool members overlapping that hour.
func (r *ReservationRepository) GetHourlyAvailabilityDetails(ctx context.Context, startTime, endTime time.Time, spacesTypeID int, memberIDs []int) ([]SlotOccupationInfo, error) {
	if !endTime.After(startTime) {
		return nil, fmt.Errorf("end time must be after start time")
	}

	var configured sql.NullInt64
	err := r.DB.QueryRowContext(ctx, `SELECT spaces FROM vehicle_spaces WHERE vehicle_type_id = $1`, spacesTypeID).Scan(&configured)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("vehicle type %d not configured in vehicle_spaces: %w", spacesTypeID, ErrNotFound)
		}
		return nil, fmt.Errorf("error checking vehicle space configuration: %w", err)
	}

	query := `
		WITH requested_slots AS (
			SELECT
				gs.slot_hour_start,
				gs.slot_hour_start + interval '1 hour' AS slot_hour_end
			FROM generate_series(
				$1::timestamptz,
				$2::timestamptz - interval '1 hour',
				interval '1 hour'
			) AS gs(slot_hour_start)
		)
		SELECT
			rs.slot_hour_start,
			rs.slot_hour_end,
			$3::int AS total_spaces,
			COUNT(r.id) AS booked_spaces
		FROM requested_slots rs
		LEFT JOIN reservations r
			ON r.vehicle_type_id = ANY($4)
			AND r.status = 'active'
			AND r.start_time < rs.slot_hour_end
			AND r.end_time > rs.slot_hour_start
		GROUP BY rs.slot_hour_start, rs.slot_hour_end
		ORDER BY rs.slot_hour_start`

	rows, err := r.DB.QueryContext(ctx, query, startTime, endTime, configured.Int64, pq.Array(memberIDs))
	if err != nil {
		return nil, fmt.Errorf("error querying hourly availability: %w", err)
	}
	defer rows.Close()

	var results []SlotOccupationInfo
	for rows.Next() {
		var soi SlotOccupationInfo
		if err := rows.Scan(&soi.SlotStart, &soi.SlotEnd, &soi.TotalSpaces, &soi.BookedSpaces); err != nil {
			return nil, fmt.Errorf("error scanning hourly availability slot: %w", err)
		}
		results = append(results, soi)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating hourly availability rows: %w", err)
	}
	return results, nil
}

func (r *ReservationRepository) GetPriceForUnit(ctx context.Context, vehicleTypeID, reservationTimeID int) (int, error) {
	var price int
	err := r.DB.QueryRowContext(ctx,
		`SELECT price FROM vehicle_prices WHERE vehicle_type_id = $1 AND reservation_time_id = $2`,
		vehicleTypeID, reservationTimeID,
	).Scan(&price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("no price configured for vehicle_type_id %d and reservation_time_id %d: %w", vehicleTypeID, reservationTimeID, ErrNotFound)
		}
		return 0, fmt.Errorf("error querying price: %w", err)
	}
	return price, nil
}

func (r *ReservationRepository) CreateReservation(ctx context.Context, res *db.Reservation) error {
	query := `
		INSERT INTO reservations
		(code, user_name, user_email, user_phone, vehicle_type_id, vehicle_plate, vehicle_model, payment_method_id,
		 status, payment_status, stripe_session_id, start_time, end_time, language, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id`
	err := r.DB.QueryRowContext(ctx, query,
		res.Code,
		res.UserName,
		res.UserEmail,
		res.UserPhone,
		res.VehicleTypeID,
		res.VehiclePlate,
		res.VehicleModel,
		res.PaymentMethodID,
		res.Status,
		res.PaymentStatus,
		res.StripeSessionID,
		res.StartTime,
		res.EndTime,
		res.Language,
		res.CreatedAt,
		res.UpdatedAt,
	).Scan(&res.ID)
	if err != nil {
		return fmt.Errorf("error inserting reservation %s: %w", res.Code, err)
	}
	return nil
}

func (r *ReservationRepository) GetReservationByCode(ctx context.Context, code, email string) (*entities.ReservationResponse, error) {
	var res entities.ReservationResponse
	query := `
        SELECT
            r.code, r.user_name, r.user_email, r.user_phone,
            r.vehicle_type_id, vt.name AS vehicle_type_name,
            r.vehicle_plate, r.vehicle_model,
            r.payment_method_id, pm.name AS payment_method_name,
            r.status, r.payment_status, r.start_time, r.end_time, r.language, r.created_at, r.updated_at
        FROM reservations r
        JOIN vehicle_types vt ON r.vehicle_type_id = vt.id
        JOIN payment_method pm ON r.payment_method_id = pm.id
        WHERE r.code = $1 AND r.user_email = $2`

	err := r.DB.QueryRowContext(ctx, query, code, email).Scan(
		&res.Code, &res.UserName, &res.UserEmail, &res.UserPhone,
		&res.VehicleTypeID, &res.VehicleTypeName,
		&res.VehiclePlate, &res.VehicleModel,
		&res.PaymentMethodID, &res.PaymentMethodName,
		&res.Status, &res.PaymentStatus, &res.StartTime, &res.EndTime, &res.Language, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reservation with code '%s': %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("error querying or scanning reservation: %w", err)
	}
	return &res, nil
}

func (r *ReservationRepository) GetReservationByCodeOnly(ctx context.Context, code string) (*db.Reservation, error) {
	var res db.Reservation
	row := r.DB.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE code = $1`, code)
	if err := scanReservation(row, &res); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reservation with code '%s': %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("error querying reservation: %w", err)
	}
	return &res, nil
}

func (r *ReservationRepository) GetReservationByStripeSessionID(ctx context.Context, sessionID string) (*db.Reservation, error) {
	var res db.Reservation
	row := r.DB.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE stripe_session_id = $1`, sessionID)
	if err := scanReservation(row, &res); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reservation for session '%s': %w", sessionID, ErrNotFound)
		}
		return nil, fmt.Errorf("error querying reservation by session: %w", err)
	}
	return &res, nil
}

// UpdateReservationAndPaymentStatus sets both statuses. An empty
// paymentIntentID keeps the stored one.
func (r *ReservationRepository) UpdateReservationAndPaymentStatus(ctx context.Context, id int, status, paymentStatus, paymentIntentID string) error {
	query := `
		UPDATE reservations
		SET status = $2,
			payment_status = $3,
			stripe_payment_intent_id = COALESCE(NULLIF($4, ''), stripe_payment_intent_id),
			updated_at = NOW()
		WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id, status, paymentStatus, paymentIntentID)
	if err != nil {
		return fmt.Errorf("error updating reservation %d: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("reservation %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *ReservationRepository) ListReservations(ctx context.Context, f ReservationFilter) ([]entities.ReservationResponse, error) {
	query := `
	SELECT
		r.code, r.user_name, r.user_email, r.user_phone, r.vehicle_type_id, vt.name, r.vehicle_plate, r.vehicle_model,
		r.payment_method_id, r.status, r.payment_status, r.start_time, r.end_time, r.language, r.created_at, r.updated_at
	FROM reservations r
	JOIN vehicle_types vt ON vt.id = r.vehicle_type_id
	WHERE 1=1`
	args := []any{}

	if f.Date != "" {
		args = append(args, f.Date)
		query += " AND DATE(r.start_time) = $" + strconv.Itoa(len(args))
	}
	if f.VehicleType != "" {
		args = append(args, f.VehicleType)
		query += " AND vt.name = $" + strconv.Itoa(len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += " AND r.status = $" + strconv.Itoa(len(args))
	}
	query += " ORDER BY r.start_time DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing reservations: %w", err)
	}
	defer rows.Close()

	reservations := []entities.ReservationResponse{}
	for rows.Next() {
		var res entities.ReservationResponse
		err := rows.Scan(
			&res.Code, &res.UserName, &res.UserEmail, &res.UserPhone, &res.VehicleTypeID, &res.VehicleTypeName, &res.VehiclePlate, &res.VehicleModel,
			&res.PaymentMethodID, &res.Status, &res.PaymentStatus, &res.StartTime, &res.EndTime, &res.Language, &res.CreatedAt, &res.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}
