package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SawLinThant/hotel-management-backend-api/internal/data/entity"
	"github.com/SawLinThant/hotel-management-backend-api/internal/data/repository"
	"github.com/SawLinThant/hotel-management-backend-api/internal/dto/request"
	"github.com/SawLinThant/hotel-management-backend-api/internal/dto/response"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const conflictRoomNumber = "room number already exists"

type RoomService interface {
	GetRooms(ctx context.Context, req *request.ListRoomsRequest) (*response.PaginatedResponse[response.RoomResponse], error)
	GetRoomByID(ctx context.Context, roomID string) (*response.RoomResponse, error)
	CheckAvailability(ctx context.Context, roomID string, req *request.AvailabilityRequest) (*response.RoomAvailabilityResponse, error)
	FindAvailableRooms(ctx context.Context, req *request.AvailabilityRequest) ([]response.RoomResponse, error)

	// Staff/Admin only
	CreateRoom(ctx context.Context, actor *entity.Actor, req *request.CreateRoomRequest) (*response.RoomResponse, error)
	UpdateRoom(ctx context.Context, actor *entity.Actor, roomID string, req *request.UpdateRoomRequest) (*response.RoomResponse, error)
	UpdateRoomStatus(ctx context.Context, actor *entity.Actor, roomID string, req *request.UpdateRoomStatusRequest) (*response.RoomResponse, error)
	DeleteRoom(ctx context.Context, actor *entity.Actor, roomID string) error
	GetStats(ctx context.Context, actor *entity.Actor) (*response.RoomStatsResponse, error)
}

type roomService struct {
	repo  *repository.Repository
	clock Clock
	log   *zap.Logger
}

func NewRoomService(repo *repository.Repository, log *zap.Logger, clock Clock) RoomService {
	if clock == nil {
		clock = SystemClock
	}
	return &roomService{
		repo:  repo,
		clock: clock,
		log:   log.With(zap.String("service", "room")),
	}
}

func (s *roomService) GetRooms(ctx context.Context, req *request.ListRoomsRequest) (*response.PaginatedResponse[response.RoomResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	filter, err := roomFilter(req)
	if err != nil {
		return nil, err
	}

	page, limit := req.Normalized()
	rooms, err := s.repo.Room.FindAll(ctx, filter, repository.Page{
		Limit:     limit,
		Offset:    req.Offset(),
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		return nil, storeError(s.log, err, "list rooms", "")
	}

	// Get total count
	total, err := s.repo.Room.Count(ctx, filter)
	if err != nil {
		return nil, storeError(s.log, err, "count rooms", "")
	}

	// Convert to response
	data := make([]response.RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		data = append(data, response.RoomToResponse(room))
	}
	return response.NewPaginatedResponse(data, page, limit, total), nil
}

func roomFilter(req *request.ListRoomsRequest) (repository.RoomFilter, error) {
	filter := repository.RoomFilter{
		Floor:  req.Floor,
		Search: strings.TrimSpace(req.Search),
	}
	if req.Status != "" {
		status := entity.RoomStatus(req.Status)
		filter.Status = &status
	}
	if req.Type != "" {
		roomType := entity.RoomType(req.Type)
		filter.Type = &roomType
	}
	if req.MinCapacity > 0 {
		capacity := req.MinCapacity
		filter.MinCapacity = &capacity
	}
	if req.MinPrice != "" {
		price, err := decimal.NewFromString(req.MinPrice)
		if err != nil {
			return filter, apperror.Validation("invalid price_per_night_min", map[string]string{"price_per_night_min": "Must be a number"})
		}
		filter.MinPrice = &price
	}
	if req.MaxPrice != "" {
		price, err := decimal.NewFromString(req.MaxPrice)
		if err != nil {
			return filter, apperror.Validation("invalid price_per_night_max", map[string]string{"price_per_night_max": "Must be a number"})
		}
		filter.MaxPrice = &price
	}
	return filter, nil
}

func (s *roomService) GetRoomByID(ctx context.Context, roomID string) (*response.RoomResponse, error) {
	id, err := parseID("room_id", roomID)
	if err != nil {
		return nil, err
	}

	room, err := NewRoomCatalog(s.repo.Room).FindByID(ctx, id)
	if err != nil {
		return nil, storeError(s.log, err, "get room", "")
	}

	active, err := s.repo.Booking.CountActiveByRoomID(ctx, id)
	if err != nil {
		return nil, storeError(s.log, err, "count room bookings", "")
	}

	resp := response.RoomToResponse(room)
	resp.ActiveBookings = &active
	return &resp, nil
}

func (s *roomService) CheckAvailability(ctx context.Context, roomID string, req *request.AvailabilityRequest) (*response.RoomAvailabilityResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	id, err := parseID("room_id", roomID)
	if err != nil {
		return nil, err
	}
	checkIn, checkOut, err := stayRange(req)
	if err != nil {
		return nil, err
	}

	catalog := NewRoomCatalog(s.repo.Room)
	room, err := catalog.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(s.log, err, "get room", "")
	}

	guests := req.Guests
	if guests == 0 {
		guests = 1
	}
	total, err := catalog.CheckCapacityAndPrice(room, checkIn, checkOut, guests)
	if err != nil {
		return nil, err
	}

	available, err := NewAvailabilityChecker(s.repo.Booking).IsAvailable(ctx, id, checkIn, checkOut, nil)
	if err != nil {
		return nil, storeError(s.log, err, "check availability", "")
	}

	return &response.RoomAvailabilityResponse{
		RoomID:       id.String(),
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		Available:    available,
		Nights:       entity.Nights(checkIn, checkOut),
		TotalAmount:  total,
	}, nil
}

func (s *roomService) FindAvailableRooms(ctx context.Context, req *request.AvailabilityRequest) ([]response.RoomResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	checkIn, checkOut, err := stayRange(req)
	if err != nil {
		return nil, err
	}

	rooms, err := s.repo.Room.FindAvailable(ctx, checkIn, checkOut, req.Guests)
	if err != nil {
		return nil, storeError(s.log, err, "find available rooms", "")
	}

	data := make([]response.RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		data = append(data, response.RoomToResponse(room))
	}
	return data, nil
}

func stayRange(req *request.AvailabilityRequest) (checkIn, checkOut time.Time, err error) {
	if checkIn, err = parseDate("check_in_date", req.CheckInDate); err != nil {
		return
	}
	if checkOut, err = parseDate("check_out_date", req.CheckOutDate); err != nil {
		return
	}
	if !checkIn.Before(checkOut) {
		err = apperror.New(apperror.KindInvalidRange, "check-in date must be before check-out date")
	}
	return
}

func (s *roomService) CreateRoom(ctx context.Context, actor *entity.Actor, req *request.CreateRoomRequest) (*response.RoomResponse, error) {
	if !CanManage(actor) {
		return nil, apperror.Forbidden("only staff can create rooms")
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.PricePerNight.IsNegative() {
		return nil, apperror.Validation("invalid price_per_night", map[string]string{"price_per_night": "Must be greater than or equal to 0"})
	}

	number := strings.TrimSpace(req.RoomNumber)
	if err := ensureRoomNumberFree(ctx, s.repo.Room, number, uuid.Nil); err != nil {
		return nil, storeError(s.log, err, "create room", conflictRoomNumber)
	}

	current := s.clock().UTC()
	room := &entity.Room{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: current,
			UpdatedAt: current,
		},
		RoomNumber:    number,
		Type:          entity.RoomType(req.Type),
		Status:        entity.RoomStatusAvailable,
		Capacity:      req.Capacity,
		PricePerNight: req.PricePerNight.Round(2),
		Description:   req.Description,
		Amenities:     req.Amenities,
		Images:        req.Images,
		Floor:         req.Floor,
		SizeSqm:       req.SizeSqm,
	}

	if err := s.repo.Room.Create(ctx, room); err != nil {
		return nil, storeError(s.log, err, "create room", conflictRoomNumber)
	}

	s.log.Info("Room created",
		zap.String("room_id", room.ID.String()),
		zap.String("room_number", room.RoomNumber),
		zap.String("actor_id", actorID(actor)),
	)
	resp := response.RoomToResponse(room)
	return &resp, nil
}

func (s *roomService) UpdateRoom(ctx context.Context, actor *entity.Actor, roomID string, req *request.UpdateRoomRequest) (*response.RoomResponse, error) {
	if !CanManage(actor) {
		return nil, apperror.Forbidden("only staff can update rooms")
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.PricePerNight != nil && req.PricePerNight.IsNegative() {
		return nil, apperror.Validation("invalid price_per_night", map[string]string{"price_per_night": "Must be greater than or equal to 0"})
	}
	id, err := parseID("room_id", roomID)
	if err != nil {
		return nil, err
	}

	var updated *entity.Room
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		room, err := NewRoomCatalog(tx.Room).Lock(ctx, id)
		if err != nil {
			return err
		}

		if req.RoomNumber != nil {
			room.RoomNumber = strings.TrimSpace(*req.RoomNumber)
			if err := ensureRoomNumberFree(ctx, tx.Room, room.RoomNumber, room.ID); err != nil {
				return err
			}
		}
		if req.Type != nil {
			room.Type = entity.RoomType(*req.Type)
		}
		if req.Status != nil {
			room.Status = entity.RoomStatus(*req.Status)
		}
		if req.Capacity != nil {
			room.Capacity = *req.Capacity
		}
		if req.PricePerNight != nil {
			room.PricePerNight = req.PricePerNight.Round(2)
		}
		if req.Description != nil {
			room.Description = req.Description
		}
		if req.Amenities != nil {
			room.Amenities = req.Amenities
		}
		if req.Images != nil {
			room.Images = req.Images
		}
		if req.Floor != nil {
			room.Floor = req.Floor
		}
		if req.SizeSqm != nil {
			room.SizeSqm = req.SizeSqm
		}
		room.UpdatedAt = s.clock().UTC()

		if err := tx.Room.Update(ctx, room); err != nil {
			return err
		}
		updated = room
		return nil
	})
	if err != nil {
		return nil, storeError(s.log, err, "update room", conflictRoomNumber)
	}

	s.log.Info("Room updated",
		zap.String("room_id", id.String()),
		zap.String("actor_id", actorID(actor)),
	)
	resp := response.RoomToResponse(updated)
	return &resp, nil
}

func (s *roomService) UpdateRoomStatus(ctx context.Context, actor *entity.Actor, roomID string, req *request.UpdateRoomStatusRequest) (*response.RoomResponse, error) {
	if !CanManage(actor) {
		return nil, apperror.Forbidden("only staff can change room status")
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	id, err := parseID("room_id", roomID)
	if err != nil {
		return nil, err
	}

	var room *entity.Room
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		catalog := NewRoomCatalog(tx.Room)
		if _, err := catalog.Lock(ctx, id); err != nil {
			return err
		}
		if err := catalog.SetStatus(ctx, id, entity.RoomStatus(req.Status)); err != nil {
			return err
		}
		found, err := catalog.FindByID(ctx, id)
		if err != nil {
			return err
		}
		room = found
		return nil
	})
	if err != nil {
		return nil, storeError(s.log, err, "update room status", "")
	}

	s.log.Info("Room status changed",
		zap.String("room_id", id.String()),
		zap.String("status", req.Status),
		zap.String("actor_id", actorID(actor)),
	)
	resp := response.RoomToResponse(room)
	return &resp, nil
}

func (s *roomService) DeleteRoom(ctx context.Context, actor *entity.Actor, roomID string) error {
	if !CanDeleteRoom(actor) {
		return apperror.Forbidden("only admins can delete rooms")
	}
	id, err := parseID("room_id", roomID)
	if err != nil {
		return err
	}

	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		if _, err := NewRoomCatalog(tx.Room).Lock(ctx, id); err != nil {
			return err
		}

		active, err := tx.Booking.CountActiveByRoomID(ctx, id)
		if err != nil {
			return err
		}
		if active > 0 {
			return apperror.Conflict("room has %d active bookings", active)
		}
		history, err := tx.Booking.Count(ctx, repository.BookingFilter{RoomID: &id})
		if err != nil {
			return err
		}
		if history > 0 {
			return apperror.Conflict("room has %d past or cancelled bookings", history)
		}

		return tx.Room.Delete(ctx, id)
	})
	if err != nil {
		err = storeError(s.log, err, "delete room", "")
		s.log.Warn("Delete room rejected",
			zap.String("room_id", id.String()),
			zap.String("kind", string(apperror.KindOf(err))),
		)
		return err
	}

	s.log.Info("Room deleted",
		zap.String("room_id", id.String()),
		zap.String("actor_id", actorID(actor)),
	)
	return nil
}

func (s *roomService) GetStats(ctx context.Context, actor *entity.Actor) (*response.RoomStatsResponse, error) {
	if !CanManage(actor) {
		return nil, apperror.Forbidden("only staff can view room statistics")
	}

	byStatus, err := s.repo.Room.CountByStatus(ctx)
	if err != nil {
		return nil, storeError(s.log, err, "count rooms by status", "")
	}
	byType, err := s.repo.Room.CountByType(ctx)
	if err != nil {
		return nil, storeError(s.log, err, "count rooms by type", "")
	}

	var total int64
	for _, n := range byStatus {
		total += n
	}

	types := make(map[string]int64, len(entity.RoomTypes))
	for _, t := range entity.RoomTypes {
		types[string(t)] = byType[t]
	}

	occupied := byStatus[entity.RoomStatusOccupied]
	rate := 0.0
	if total > 0 {
		rate = float64(occupied) / float64(total) * 100
	}

	return &response.RoomStatsResponse{
		Total:         total,
		Available:     byStatus[entity.RoomStatusAvailable],
		Occupied:      occupied,
		Maintenance:   byStatus[entity.RoomStatusMaintenance],
		Cleaning:      byStatus[entity.RoomStatusCleaning],
		ByType:        types,
		OccupancyRate: fmt.Sprintf("%.2f", rate),
	}, nil
}

func actorID(actor *entity.Actor) string {
	if actor == nil {
		return "system"
	}
	return actor.ID.String()
}

// ensureRoomNumberFree fails with Conflict when another room already uses number.
// The unique index still backs this up for concurrent inserts.
func ensureRoomNumberFree(ctx context.Context, rooms repository.RoomRepository, number string, self uuid.UUID) error {
	existing, err := rooms.FindByRoomNumber(ctx, number)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.Conflict("room number %s already exists", number)
	}
	return nil
}
