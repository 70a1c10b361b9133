package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SawLinThant/hotel-management-backend-api/internal/data/entity"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RoomRepository interface {
	Create(ctx context.Context, room *entity.Room) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Room, error)
	// FindByIDForUpdate locks the room row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Room, error)
	FindByRoomNumber(ctx context.Context, roomNumber string) (*entity.Room, error)
	FindAll(ctx context.Context, filter RoomFilter, page Page) ([]*entity.Room, error)
	Count(ctx context.Context, filter RoomFilter) (int64, error)
	Update(ctx context.Context, room *entity.Room) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.RoomStatus) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Business queries
	FindAvailable(ctx context.Context, checkIn, checkOut time.Time, guests int) ([]*entity.Room, error)
	CountByStatus(ctx context.Context) (map[entity.RoomStatus]int64, error)
	CountByType(ctx context.Context) (map[entity.RoomType]int64, error)
}

var roomSortColumns = map[string]string{
	"price_per_night": "price_per_night",
	"capacity":        "capacity",
	"floor":           "floor",
	"created_at":      "created_at",
	"room_number":     "room_number",
}

const roomColumns = `id, room_number, type, status, capacity, price_per_night, description,
		amenities, images, floor, size_sqm, created_at, updated_at`

type roomRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewRoomRepository(db database.Querier, log *zap.Logger) RoomRepository {
	return &roomRepository{
		db:  db,
		log: log.With(zap.String("repository", "room")),
	}
}

func scanRoom(row pgx.Row) (*entity.Room, error) {
	var room entity.Room
	err := row.Scan(
		&room.ID,
		&room.RoomNumber,
		&room.Type,
		&room.Status,
		&room.Capacity,
		&room.PricePerNight,
		&room.Description,
		&room.Amenities,
		&room.Images,
		&room.Floor,
		&room.SizeSqm,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) Create(ctx context.Context, room *entity.Room) error {
	query := `
		INSERT INTO rooms (id, room_number, type, status, capacity, price_per_night, description,
		                   amenities, images, floor, size_sqm, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		room.ID,
		room.RoomNumber,
		string(room.Type),
		string(room.Status),
		room.Capacity,
		room.PricePerNight,
		room.Description,
		amenitiesOrEmpty(room.Amenities),
		imagesOrEmpty(room.Images),
		room.Floor,
		room.SizeSqm,
		room.CreatedAt,
		room.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create room",
			zap.Error(err),
			zap.String("room_number", room.RoomNumber),
		)
		return mapPgError(fmt.Errorf("create room %s: %w", room.RoomNumber, err))
	}

	return nil
}

func (r *roomRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`
	return r.findOne(ctx, "find room by ID", query, id)
}

func (r *roomRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1 FOR UPDATE`
	return r.findOne(ctx, "lock room", query, id)
}

func (r *roomRepository) FindByRoomNumber(ctx context.Context, roomNumber string) (*entity.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE room_number = $1`
	return r.findOne(ctx, "find room by number", query, roomNumber)
}

func (r *roomRepository) findOne(ctx context.Context, op, query string, arg any) (*entity.Room, error) {
	room, err := scanRoom(r.db.QueryRow(ctx, query, arg))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to "+op,
			zap.Error(err),
			zap.Any("key", arg),
		)
		return nil, fmt.Errorf("%s %v: %w", op, arg, err)
	}
	return room, nil
}

func (r *roomRepository) buildWhere(filter RoomFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.Status != nil {
		w.add("status = ?", string(*filter.Status))
	}
	if filter.Type != nil {
		w.add("type = ?", string(*filter.Type))
	}
	if filter.MinCapacity != nil {
		w.add("capacity >= ?", *filter.MinCapacity)
	}
	if filter.Floor != nil {
		w.add("floor = ?", *filter.Floor)
	}
	if filter.MinPrice != nil {
		w.add("price_per_night >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		w.add("price_per_night <= ?", *filter.MaxPrice)
	}
	if filter.Search != "" {
		p := w.next("%" + filter.Search + "%")
		w.raw(fmt.Sprintf("(room_number ILIKE %s OR description ILIKE %s)", p, p))
	}
	return w
}

func (r *roomRepository) FindAll(ctx context.Context, filter RoomFilter, page Page) ([]*entity.Room, error) {
	w := r.buildWhere(filter)
	page.SortBy = roomSortColumns[page.SortBy]

	query := `SELECT ` + roomColumns + ` FROM rooms` + w.String() + page.orderBy("created_at")
	query += fmt.Sprintf(" LIMIT %s OFFSET %s", w.next(page.Limit), w.next(page.Offset))

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		r.log.Error("Failed to find all rooms",
			zap.Error(err),
			zap.Int("limit", page.Limit),
			zap.Int("offset", page.Offset),
		)
		return nil, fmt.Errorf("find all rooms limit %d offset %d: %w", page.Limit, page.Offset, err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *roomRepository) collect(rows pgx.Rows) ([]*entity.Room, error) {
	rooms := []*entity.Room{}
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			r.log.Error("Failed to scan room row", zap.Error(err))
			return nil, fmt.Errorf("scan room row: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate room rows: %w", err)
	}
	return rooms, nil
}

func (r *roomRepository) Count(ctx context.Context, filter RoomFilter) (int64, error) {
	w := r.buildWhere(filter)

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM rooms`+w.String(), w.args...).Scan(&count); err != nil {
		r.log.Error("Failed to count rooms", zap.Error(err))
		return 0, fmt.Errorf("count rooms: %w", err)
	}
	return count, nil
}

func (r *roomRepository) Update(ctx context.Context, room *entity.Room) error {
	query := `
		UPDATE rooms
		SET room_number = $2, type = $3, status = $4, capacity = $5, price_per_night = $6,
		    description = $7, amenities = $8, images = $9, floor = $10, size_sqm = $11, updated_at = $12
		WHERE id = $1
	`

	_, err := r.db.Exec(ctx, query,
		room.ID,
		room.RoomNumber,
		string(room.Type),
		string(room.Status),
		room.Capacity,
		room.PricePerNight,
		room.Description,
		amenitiesOrEmpty(room.Amenities),
		imagesOrEmpty(room.Images),
		room.Floor,
		room.SizeSqm,
		room.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update room",
			zap.Error(err),
			zap.String("room_id", room.ID.String()),
		)
		return mapPgError(fmt.Errorf("update room %s: %w", room.ID, err))
	}
	return nil
}

func (r *roomRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.RoomStatus) error {
	query := `UPDATE rooms SET status = $2, updated_at = NOW() WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id, string(status)); err != nil {
		r.log.Error("Failed to update room status",
			zap.Error(err),
			zap.String("room_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update room status %s: %w", id, err)
	}
	return nil
}

func (r *roomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id); err != nil {
		err = mapPgError(err)
		if errors.Is(err, ErrReferenced) {
			return fmt.Errorf("delete room %s: %w", id, err)
		}
		r.log.Error("Failed to delete room",
			zap.Error(err),
			zap.String("room_id", id.String()),
		)
		return fmt.Errorf("delete room %s: %w", id, err)
	}
	return nil
}

func (r *roomRepository) FindAvailable(ctx context.Context, checkIn, checkOut time.Time, guests int) ([]*entity.Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM rooms r
		WHERE r.capacity >= $1
		  AND r.status <> 'maintenance'
		  AND NOT EXISTS (
		      SELECT 1 FROM bookings b
		      WHERE b.room_id = r.id
		        AND b.status = ANY($2)
		        AND b.check_in_date < $4
		        AND $3 < b.check_out_date
		  )
		ORDER BY r.price_per_night ASC, r.room_number ASC
	`

	rows, err := r.db.Query(ctx, query, guests, statusStrings(entity.ActiveStatuses), checkIn, checkOut)
	if err != nil {
		r.log.Error("Failed to find available rooms",
			zap.Error(err),
			zap.Time("check_in", checkIn),
			zap.Time("check_out", checkOut),
			zap.Int("guests", guests),
		)
		return nil, fmt.Errorf("find available rooms: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *roomRepository) CountByStatus(ctx context.Context) (map[entity.RoomStatus]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM rooms GROUP BY status`)
	if err != nil {
		r.log.Error("Failed to count rooms by status", zap.Error(err))
		return nil, fmt.Errorf("count rooms by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[entity.RoomStatus]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan room status count: %w", err)
		}
		counts[entity.RoomStatus(status)] = n
	}
	return counts, rows.Err()
}

func (r *roomRepository) CountByType(ctx context.Context) (map[entity.RoomType]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT type, COUNT(*) FROM rooms GROUP BY type`)
	if err != nil {
		r.log.Error("Failed to count rooms by type", zap.Error(err))
		return nil, fmt.Errorf("count rooms by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[entity.RoomType]int64)
	for rows.Next() {
		var roomType string
		var n int64
		if err := rows.Scan(&roomType, &n); err != nil {
			return nil, fmt.Errorf("scan room type count: %w", err)
		}
		counts[entity.RoomType(roomType)] = n
	}
	return counts, rows.Err()
}

func amenitiesOrEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func imagesOrEmpty(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}
