package response

import (
	"time"

	"github.com/SawLinThant/hotel-management-backend-api/internal/data/entity"

	"github.com/shopspring/decimal"
)

type RoomResponse struct {
	ID             string            `json:"id"`
	RoomNumber     string            `json:"room_number"`
	Type           entity.RoomType   `json:"type"`
	Status         entity.RoomStatus `json:"status"`
	Capacity       int               `json:"capacity"`
	PricePerNight  decimal.Decimal   `json:"price_per_night"`
	Description    *string           `json:"description,omitempty"`
	Amenities      map[string]any    `json:"amenities"`
	Images         []string          `json:"images"`
	Floor          *int              `json:"floor,omitempty"`
	SizeSqm        *float64          `json:"size_sqm,omitempty"`
	ActiveBookings *int64            `json:"active_bookings,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

type RoomAvailabilityResponse struct {
	RoomID       string          `json:"room_id"`
	CheckInDate  time.Time       `json:"check_in_date"`
	CheckOutDate time.Time       `json:"check_out_date"`
	Available    bool            `json:"available"`
	Nights       int             `json:"nights"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

type RoomStatsResponse struct {
	Total         int64            `json:"total"`
	Available     int64            `json:"available"`
	Occupied      int64            `json:"occupied"`
	Maintenance   int64            `json:"maintenance"`
	Cleaning      int64            `json:"cleaning"`
	ByType        map[string]int64 `json:"by_type"`
	OccupancyRate string           `json:"occupancy_rate"`
}

func RoomToResponse(room *entity.Room) RoomResponse {
	amenities := room.Amenities
	if amenities == nil {
		amenities = map[string]any{}
	}
	images := room.Images
	if images == nil {
		images = []string{}
	}
	return RoomResponse{
		ID:            room.ID.String(),
		RoomNumber:    room.RoomNumber,
		Type:          room.Type,
		Status:        room.Status,
		Capacity:      room.Capacity,
		PricePerNight: room.PricePerNight,
		Description:   room.Description,
		Amenities:     amenities,
		Images:        images,
		Floor:         room.Floor,
		SizeSqm:       room.SizeSqm,
		CreatedAt:     room.CreatedAt,
		UpdatedAt:     room.UpdatedAt,
	}
}
