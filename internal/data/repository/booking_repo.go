package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/SawLinThant/hotel-management-backend-api/internal/data/entity"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByConfirmationCode(ctx context.Context, code string) (*entity.Booking, error)
	FindAll(ctx context.Context, filter BookingFilter, page Page) ([]*entity.Booking, error)
	Count(ctx context.Context, filter BookingFilter) (int64, error)
	Update(ctx context.Context, booking *entity.Booking) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Business queries
	FindOverlapping(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, excludeID *uuid.UUID) ([]*entity.Booking, error)
	CountActiveByRoomID(ctx context.Context, roomID uuid.UUID) (int64, error)
	Stats(ctx context.Context, filter BookingFilter) (*BookingStats, error)
}

var bookingSortColumns = map[string]string{
	"check_in_date":  "check_in_date",
	"check_out_date": "check_out_date",
	"total_amount":   "total_amount",
	"created_at":     "created_at",
}

const bookingColumns = `id, room_id, guest_id, check_in_date, check_out_date, guests, status,
		total_amount, paid_amount, special_requests, confirmation_code, created_at, updated_at`

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.RoomID,
		&booking.GuestID,
		&booking.CheckInDate,
		&booking.CheckOutDate,
		&booking.Guests,
		&booking.Status,
		&booking.TotalAmount,
		&booking.PaidAmount,
		&booking.SpecialRequests,
		&booking.ConfirmationCode,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, room_id, guest_id, check_in_date, check_out_date, guests, status,
		                      total_amount, paid_amount, special_requests, confirmation_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.RoomID,
		booking.GuestID,
		booking.CheckInDate,
		booking.CheckOutDate,
		booking.Guests,
		string(booking.Status),
		booking.TotalAmount,
		booking.PaidAmount,
		booking.SpecialRequests,
		booking.ConfirmationCode,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("confirmation_code", booking.ConfirmationCode),
			zap.String("room_id", booking.RoomID.String()),
		)
		return mapPgError(fmt.Errorf("create booking %s: %w", booking.ConfirmationCode, err))
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByConfirmationCode(ctx context.Context, code string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE confirmation_code = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, code))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by confirmation code",
			zap.Error(err),
			zap.String("confirmation_code", code),
		)
		return nil, fmt.Errorf("find booking by confirmation code %s: %w", code, err)
	}

	return booking, nil
}

func buildBookingWhere(filter BookingFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.GuestID != nil {
		w.add("guest_id = ?", *filter.GuestID)
	}
	if filter.RoomID != nil {
		w.add("room_id = ?", *filter.RoomID)
	}
	if len(filter.Statuses) > 0 {
		w.add("status = ANY(?)", statusStrings(filter.Statuses))
	}
	if filter.CheckInFrom != nil {
		w.add("check_in_date >= ?", *filter.CheckInFrom)
	}
	if filter.CheckInTo != nil {
		w.add("check_in_date < ?", *filter.CheckInTo)
	}
	if filter.CheckOutFrom != nil {
		w.add("check_out_date >= ?", *filter.CheckOutFrom)
	}
	if filter.CheckOutTo != nil {
		w.add("check_out_date < ?", *filter.CheckOutTo)
	}
	if filter.Guests != nil {
		w.add("guests = ?", *filter.Guests)
	}
	if filter.CreatedFrom != nil {
		w.add("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		w.add("created_at <= ?", *filter.CreatedTo)
	}
	return w
}

func (r *bookingRepository) FindAll(ctx context.Context, filter BookingFilter, page Page) ([]*entity.Booking, error) {
	w := buildBookingWhere(filter)
	page.SortBy = bookingSortColumns[page.SortBy]

	query := `SELECT ` + bookingColumns + ` FROM bookings` + w.String() + page.orderBy("created_at")
	query += fmt.Sprintf(" LIMIT %s OFFSET %s", w.next(page.Limit), w.next(page.Offset))

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		r.log.Error("Failed to find bookings",
			zap.Error(err),
			zap.Int("limit", page.Limit),
			zap.Int("offset", page.Offset),
		)
		return nil, fmt.Errorf("find bookings limit %d offset %d: %w", page.Limit, page.Offset, err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *bookingRepository) collect(rows pgx.Rows) ([]*entity.Booking, error) {
	bookings := []*entity.Booking{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) Count(ctx context.Context, filter BookingFilter) (int64, error) {
	w := buildBookingWhere(filter)

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`+w.String(), w.args...).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return count, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET check_in_date = $2, check_out_date = $3, guests = $4, status = $5,
		    total_amount = $6, paid_amount = $7, special_requests = $8, updated_at = $9
		WHERE id = $1
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.CheckInDate,
		booking.CheckOutDate,
		booking.Guests,
		string(booking.Status),
		booking.TotalAmount,
		booking.PaidAmount,
		booking.SpecialRequests,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return mapPgError(fmt.Errorf("update booking %s: %w", booking.ID.String(), err))
	}

	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id); err != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("delete booking %s: %w", id.String(), err)
	}
	return nil
}

func (r *bookingRepository) FindOverlapping(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, excludeID *uuid.UUID) ([]*entity.Booking, error) {
	w := &whereBuilder{}
	w.add("room_id = ?", roomID)
	w.add("status = ANY(?)", statusStrings(entity.ActiveStatuses))
	w.add("check_in_date < ?", checkOut)
	w.add("? < check_out_date", checkIn)
	if excludeID != nil {
		w.add("id <> ?", *excludeID)
	}

	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings`+w.String(), w.args...)
	if err != nil {
		r.log.Error("Failed to find overlapping bookings",
			zap.Error(err),
			zap.String("room_id", roomID.String()),
			zap.Time("check_in", checkIn),
			zap.Time("check_out", checkOut),
		)
		return nil, fmt.Errorf("find overlapping bookings for room %s: %w", roomID.String(), err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *bookingRepository) CountActiveByRoomID(ctx context.Context, roomID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE room_id = $1 AND status = ANY($2)`

	var count int64
	if err := r.db.QueryRow(ctx, query, roomID, statusStrings(entity.ActiveStatuses)).Scan(&count); err != nil {
		r.log.Error("Failed to count active bookings",
			zap.Error(err),
			zap.String("room_id", roomID.String()),
		)
		return 0, fmt.Errorf("count active bookings for room %s: %w", roomID.String(), err)
	}
	return count, nil
}

func (r *bookingRepository) Stats(ctx context.Context, filter BookingFilter) (*BookingStats, error) {
	w := buildBookingWhere(filter)
	query := `SELECT status, COUNT(*), COALESCE(SUM(total_amount), 0) FROM bookings` + w.String() + ` GROUP BY status`

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		r.log.Error("Failed to aggregate booking stats", zap.Error(err))
		return nil, fmt.Errorf("booking stats: %w", err)
	}
	defer rows.Close()

	stats := &BookingStats{
		ByStatus:     make(map[entity.BookingStatus]int64),
		TotalRevenue: decimal.Zero,
	}
	for rows.Next() {
		var status string
		var n int64
		var sum decimal.Decimal
		if err := rows.Scan(&status, &n, &sum); err != nil {
			return nil, fmt.Errorf("scan booking stats row: %w", err)
		}
		stats.ByStatus[entity.BookingStatus(status)] = n
		stats.Total += n
		stats.TotalRevenue = stats.TotalRevenue.Add(sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking stats: %w", err)
	}
	return stats, nil
}
