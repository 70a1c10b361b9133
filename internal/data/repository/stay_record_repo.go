package repository

import (
	"context"
	"fmt"

	"github.com/SawLinThant/hotel-management-backend-api/internal/data/entity"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type StayRecordRepository interface {
	Create(ctx context.Context, record *entity.StayRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.StayRecord, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.StayRecord, error)
	FindAll(ctx context.Context, filter StayRecordFilter, page Page) ([]*entity.StayRecord, error)
	Count(ctx context.Context, filter StayRecordFilter) (int64, error)
	// Update writes check-out time, notes and charges. booking_id never changes.
	Update(ctx context.Context, record *entity.StayRecord) error
	Stats(ctx context.Context) (*StayRecordStats, error)
}

var staySortColumns = map[string]string{
	"created_at":     "s.created_at",
	"check_in_time":  "s.actual_check_in_time",
	"check_out_time": "s.actual_check_out_time",
}

const stayColumns = `s.id, s.booking_id, s.actual_check_in_time, s.actual_check_out_time, s.notes,
		s.additional_charges, s.created_at, s.updated_at`

type stayRecordRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewStayRecordRepository(db database.Querier, log *zap.Logger) StayRecordRepository {
	return &stayRecordRepository{
		db:  db,
		log: log.With(zap.String("repository", "stay_record")),
	}
}

func scanStayRecord(row pgx.Row) (*entity.StayRecord, error) {
	var record entity.StayRecord
	err := row.Scan(
		&record.ID,
		&record.BookingID,
		&record.ActualCheckInTime,
		&record.ActualCheckOutTime,
		&record.Notes,
		&record.AdditionalCharges,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func chargesOrEmpty(charges []entity.Charge) []entity.Charge {
	if charges == nil {
		return []entity.Charge{}
	}
	return charges
}

func (r *stayRecordRepository) Create(ctx context.Context, record *entity.StayRecord) error {
	query := `
		INSERT INTO stay_records (id, booking_id, actual_check_in_time, actual_check_out_time, notes,
		                          additional_charges, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		record.ID,
		record.BookingID,
		record.ActualCheckInTime,
		record.ActualCheckOutTime,
		record.Notes,
		chargesOrEmpty(record.AdditionalCharges),
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create stay record",
			zap.Error(err),
			zap.String("booking_id", record.BookingID.String()),
		)
		return mapPgError(fmt.Errorf("create stay record for booking %s: %w", record.BookingID, err))
	}
	return nil
}

func (r *stayRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.StayRecord, error) {
	return r.findOne(ctx, `SELECT `+stayColumns+` FROM stay_records s WHERE s.id = $1`, id)
}

func (r *stayRecordRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.StayRecord, error) {
	return r.findOne(ctx, `SELECT `+stayColumns+` FROM stay_records s WHERE s.booking_id = $1`, bookingID)
}

func (r *stayRecordRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.StayRecord, error) {
	record, err := scanStayRecord(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find stay record",
			zap.Error(err),
			zap.String("key", id.String()),
		)
		return nil, fmt.Errorf("find stay record %s: %w", id.String(), err)
	}
	return record, nil
}

func buildStayWhere(filter StayRecordFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.BookingID != nil {
		w.add("s.booking_id = ?", *filter.BookingID)
	}
	if filter.GuestID != nil {
		w.add("b.guest_id = ?", *filter.GuestID)
	}
	if filter.RoomID != nil {
		w.add("b.room_id = ?", *filter.RoomID)
	}
	if filter.CheckInFrom != nil {
		w.add("s.actual_check_in_time >= ?", *filter.CheckInFrom)
	}
	if filter.CheckInTo != nil {
		w.add("s.actual_check_in_time < ?", *filter.CheckInTo)
	}
	if filter.CheckOutFrom != nil {
		w.add("s.actual_check_out_time >= ?", *filter.CheckOutFrom)
	}
	if filter.CheckOutTo != nil {
		w.add("s.actual_check_out_time < ?", *filter.CheckOutTo)
	}
	if filter.ActiveOnly {
		w.raw("s.actual_check_out_time IS NULL")
	}
	return w
}

const stayFrom = ` FROM stay_records s JOIN bookings b ON b.id = s.booking_id`

func (r *stayRecordRepository) FindAll(ctx context.Context, filter StayRecordFilter, page Page) ([]*entity.StayRecord, error) {
	w := buildStayWhere(filter)
	page.SortBy = staySortColumns[page.SortBy]

	query := `SELECT ` + stayColumns + stayFrom + w.String()
	// tie-break column is qualified because both tables carry an id
	col := page.SortBy
	if col == "" {
		col = "s.created_at"
	}
	dir := "DESC"
	if page.SortOrder == "asc" {
		dir = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s, s.id %s", col, dir, dir)
	query += fmt.Sprintf(" LIMIT %s OFFSET %s", w.next(page.Limit), w.next(page.Offset))

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		r.log.Error("Failed to find stay records",
			zap.Error(err),
			zap.Int("limit", page.Limit),
			zap.Int("offset", page.Offset),
		)
		return nil, fmt.Errorf("find stay records: %w", err)
	}
	defer rows.Close()

	records := []*entity.StayRecord{}
	for rows.Next() {
		record, err := scanStayRecord(rows)
		if err != nil {
			r.log.Error("Failed to scan stay record row", zap.Error(err))
			return nil, fmt.Errorf("scan stay record row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stay record rows: %w", err)
	}
	return records, nil
}

func (r *stayRecordRepository) Count(ctx context.Context, filter StayRecordFilter) (int64, error) {
	w := buildStayWhere(filter)

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+stayFrom+w.String(), w.args...).Scan(&count); err != nil {
		r.log.Error("Failed to count stay records", zap.Error(err))
		return 0, fmt.Errorf("count stay records: %w", err)
	}
	return count, nil
}

func (r *stayRecordRepository) Update(ctx context.Context, record *entity.StayRecord) error {
	query := `
		UPDATE stay_records
		SET actual_check_out_time = $2, notes = $3, additional_charges = $4, updated_at = $5
		WHERE id = $1
	`

	_, err := r.db.Exec(ctx, query,
		record.ID,
		record.ActualCheckOutTime,
		record.Notes,
		chargesOrEmpty(record.AdditionalCharges),
		record.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update stay record",
			zap.Error(err),
			zap.String("stay_record_id", record.ID.String()),
		)
		return fmt.Errorf("update stay record %s: %w", record.ID.String(), err)
	}
	return nil
}

func (r *stayRecordRepository) Stats(ctx context.Context) (*StayRecordStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE actual_check_out_time IS NULL),
		       COUNT(*) FILTER (WHERE actual_check_out_time IS NOT NULL)
		FROM stay_records
	`

	var stats StayRecordStats
	if err := r.db.QueryRow(ctx, query).Scan(&stats.Total, &stats.Active, &stats.Completed); err != nil {
		r.log.Error("Failed to aggregate stay record stats", zap.Error(err))
		return nil, fmt.Errorf("stay record stats: %w", err)
	}
	return &stats, nil
}
