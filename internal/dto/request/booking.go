package request

import "github.com/shopspring/decimal"

// Dates accept YYYY-MM-DD or RFC3339.
type CreateBookingRequest struct {
	RoomID          string  `json:"room_id" validate:"required,uuid"`
	GuestID         string  `json:"guest_id,omitempty" validate:"omitempty,uuid"`
	CheckInDate     string  `json:"check_in_date" validate:"required"`
	CheckOutDate    string  `json:"check_out_date" validate:"required"`
	Guests          int     `json:"guests" validate:"required,min=1"`
	SpecialRequests *string `json:"special_requests,omitempty" validate:"omitempty,max=1000"`
}

// UpdateBookingRequest carries only the fields to change.
type UpdateBookingRequest struct {
	CheckInDate     *string          `json:"check_in_date,omitempty"`
	CheckOutDate    *string          `json:"check_out_date,omitempty"`
	Guests          *int             `json:"guests,omitempty" validate:"omitempty,min=1"`
	Status          *string          `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed checked_in checked_out completed cancelled"`
	SpecialRequests *string          `json:"special_requests,omitempty" validate:"omitempty,max=1000"`
	PaidAmount      *decimal.Decimal `json:"paid_amount,omitempty"`
}

type CheckInRequest struct {
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
	At    *string `json:"actual_check_in_time,omitempty"`
}

type ChargeRequest struct {
	Description string          `json:"description" validate:"required,max=255"`
	Amount      decimal.Decimal `json:"amount"`
}

type CheckOutRequest struct {
	Notes             *string         `json:"notes,omitempty" validate:"omitempty,max=2000"`
	At                *string         `json:"actual_check_out_time,omitempty"`
	AdditionalCharges []ChargeRequest `json:"additional_charges,omitempty" validate:"omitempty,dive"`
}

type ListBookingsRequest struct {
	PaginatedRequest
	GuestID      string `json:"guest_id" validate:"omitempty,uuid"`
	RoomID       string `json:"room_id" validate:"omitempty,uuid"`
	Status       string `json:"status" validate:"omitempty,oneof=pending confirmed checked_in checked_out completed cancelled"`
	CheckInFrom  string `json:"check_in_from"`
	CheckInTo    string `json:"check_in_to"`
	CheckOutFrom string `json:"check_out_from"`
	CheckOutTo   string `json:"check_out_to"`
	Guests       int    `json:"guests" validate:"omitempty,min=1"`
	SortBy       string `json:"sort_by" validate:"omitempty,oneof=check_in_date check_out_date total_amount created_at"`
}

type BookingStatsRequest struct {
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
}

// DayRequest selects one calendar day; empty means today.
type DayRequest struct {
	Date string `json:"date"`
}
