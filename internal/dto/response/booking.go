package response

import (
	"time"

	"github.com/SawLinThant/hotel-management-backend-api/internal/data/entity"

	"github.com/shopspring/decimal"
)

type BookingResponse struct {
	ID               string               `json:"id"`
	RoomID           string               `json:"room_id"`
	GuestID          string               `json:"guest_id"`
	CheckInDate      time.Time            `json:"check_in_date"`
	CheckOutDate     time.Time            `json:"check_out_date"`
	Guests           int                  `json:"guests"`
	Status           entity.BookingStatus `json:"status"`
	TotalAmount      decimal.Decimal      `json:"total_amount"`
	PaidAmount       decimal.Decimal      `json:"paid_amount"`
	SpecialRequests  *string              `json:"special_requests"`
	ConfirmationCode string               `json:"confirmation_code"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

type BookingDetailResponse struct {
	BookingResponse
	Nights     int                 `json:"nights"`
	Room       *RoomResponse       `json:"room,omitempty"`
	StayRecord *StayRecordResponse `json:"stay_record,omitempty"`
}

// StayTransitionResponse is returned by check-in and check-out.
type StayTransitionResponse struct {
	Booking    BookingResponse    `json:"booking"`
	StayRecord StayRecordResponse `json:"stay_record"`
}

type BookingStatsResponse struct {
	Total               int64           `json:"total"`
	Pending             int64           `json:"pending"`
	Confirmed           int64           `json:"confirmed"`
	CheckedIn           int64           `json:"checked_in"`
	CheckedOut          int64           `json:"checked_out"`
	Cancelled           int64           `json:"cancelled"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	AverageBookingValue decimal.Decimal `json:"average_booking_value"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:               b.ID.String(),
		RoomID:           b.RoomID.String(),
		GuestID:          b.GuestID.String(),
		CheckInDate:      b.CheckInDate,
		CheckOutDate:     b.CheckOutDate,
		Guests:           b.Guests,
		Status:           b.Status,
		TotalAmount:      b.TotalAmount,
		PaidAmount:       b.PaidAmount,
		SpecialRequests:  b.SpecialRequests,
		ConfirmationCode: b.ConfirmationCode,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}
