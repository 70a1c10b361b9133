package response

import (
	"time"

	"github.com/SawLinThant/hotel-management-backend-api/internal/data/entity"

	"github.com/shopspring/decimal"
)

type ChargeResponse struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type StayRecordResponse struct {
	ID                 string           `json:"id"`
	BookingID          string           `json:"booking_id"`
	ActualCheckInTime  time.Time        `json:"actual_check_in_time"`
	ActualCheckOutTime *time.Time       `json:"actual_check_out_time"`
	Notes              *string          `json:"notes"`
	AdditionalCharges  []ChargeResponse `json:"additional_charges"`
	ChargesTotal       decimal.Decimal  `json:"charges_total"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

type StayRecordDetailResponse struct {
	StayRecordResponse
	Booking *BookingResponse `json:"booking,omitempty"`
}

type StayRecordStatsResponse struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
}

func StayRecordToResponse(s *entity.StayRecord) StayRecordResponse {
	charges := make([]ChargeResponse, 0, len(s.AdditionalCharges))
	for _, c := range s.AdditionalCharges {
		charges = append(charges, ChargeResponse{Description: c.Description, Amount: c.Amount})
	}
	return StayRecordResponse{
		ID:                 s.ID.String(),
		BookingID:          s.BookingID.String(),
		ActualCheckInTime:  s.ActualCheckInTime,
		ActualCheckOutTime: s.ActualCheckOutTime,
		Notes:              s.Notes,
		AdditionalCharges:  charges,
		ChargesTotal:       s.ChargesTotal(),
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}
