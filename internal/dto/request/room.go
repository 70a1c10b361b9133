package request

import "github.com/shopspring/decimal"

type CreateRoomRequest struct {
	RoomNumber    string          `json:"room_number" validate:"required,max=20"`
	Type          string          `json:"type" validate:"required,oneof=single double suite deluxe"`
	Capacity      int             `json:"capacity" validate:"required,min=1,max=20"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
	Description   *string         `json:"description,omitempty" validate:"omitempty,max=2000"`
	Amenities     map[string]any  `json:"amenities,omitempty"`
	Images        []string        `json:"images,omitempty" validate:"omitempty,dive,required"`
	Floor         *int            `json:"floor,omitempty" validate:"omitempty,min=0"`
	SizeSqm       *float64        `json:"size_sqm,omitempty" validate:"omitempty,gt=0"`
}

type UpdateRoomRequest struct {
	RoomNumber    *string          `json:"room_number,omitempty" validate:"omitempty,min=1,max=20"`
	Type          *string          `json:"type,omitempty" validate:"omitempty,oneof=single double suite deluxe"`
	Status        *string          `json:"status,omitempty" validate:"omitempty,oneof=available occupied maintenance cleaning"`
	Capacity      *int             `json:"capacity,omitempty" validate:"omitempty,min=1,max=20"`
	PricePerNight *decimal.Decimal `json:"price_per_night,omitempty"`
	Description   *string          `json:"description,omitempty" validate:"omitempty,max=2000"`
	Amenities     map[string]any   `json:"amenities,omitempty"`
	Images        []string         `json:"images,omitempty" validate:"omitempty,dive,required"`
	Floor         *int             `json:"floor,omitempty" validate:"omitempty,min=0"`
	SizeSqm       *float64         `json:"size_sqm,omitempty" validate:"omitempty,gt=0"`
}

type UpdateRoomStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available occupied maintenance cleaning"`
}

type ListRoomsRequest struct {
	PaginatedRequest
	Status      string `json:"status" validate:"omitempty,oneof=available occupied maintenance cleaning"`
	Type        string `json:"type" validate:"omitempty,oneof=single double suite deluxe"`
	MinCapacity int    `json:"capacity" validate:"omitempty,min=1"`
	Floor       *int   `json:"floor" validate:"omitempty,min=0"`
	MinPrice    string `json:"price_per_night_min" validate:"omitempty,number"`
	MaxPrice    string `json:"price_per_night_max" validate:"omitempty,number"`
	Search      string `json:"search" validate:"omitempty,max=100"`
	SortBy      string `json:"sort_by" validate:"omitempty,oneof=price_per_night capacity floor created_at room_number"`
}

type AvailabilityRequest struct {
	CheckInDate  string `json:"check_in_date" validate:"required"`
	CheckOutDate string `json:"check_out_date" validate:"required"`
	Guests       int    `json:"guests" validate:"omitempty,min=1"`
}
