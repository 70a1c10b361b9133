package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/SawLinThant/hotel-management-backend-api/internal/data/entity"
	"github.com/SawLinThant/hotel-management-backend-api/internal/data/repository"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RoomCatalog is the booking engine's view of rooms.
type RoomCatalog struct {
	rooms repository.RoomRepository
}

func NewRoomCatalog(rooms repository.RoomRepository) *RoomCatalog {
	return &RoomCatalog{rooms: rooms}
}

func (c *RoomCatalog) FindByID(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	room, err := c.rooms.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find room %s: %w", id, err)
	}
	if room == nil {
		return nil, apperror.NotFound("room not found")
	}
	return room, nil
}

// Lock loads the room and holds its lock until the transaction ends.
func (c *RoomCatalog) Lock(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	room, err := c.rooms.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lock room %s: %w", id, err)
	}
	if room == nil {
		return nil, apperror.NotFound("room not found")
	}
	return room, nil
}

// CheckCapacityAndPrice rejects parties larger than the room and prices the stay.
func (c *RoomCatalog) CheckCapacityAndPrice(room *entity.Room, checkIn, checkOut time.Time, guests int) (decimal.Decimal, error) {
	if guests > room.Capacity {
		return decimal.Zero, apperror.New(apperror.KindCapacityExceeded,
			"room capacity is %d, but %d guests requested", room.Capacity, guests)
	}
	return entity.TotalFor(room.PricePerNight, checkIn, checkOut), nil
}

func (c *RoomCatalog) SetStatus(ctx context.Context, id uuid.UUID, status entity.RoomStatus) error {
	if err := c.rooms.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("set room %s status %s: %w", id, status, err)
	}
	return nil
}
