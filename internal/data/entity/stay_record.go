package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Charge struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type StayRecord struct {
	BaseNoDelete
	BookingID          uuid.UUID  `db:"booking_id"`
	ActualCheckInTime  time.Time  `db:"actual_check_in_time"`
	ActualCheckOutTime *time.Time `db:"actual_check_out_time"`
	Notes              *string    `db:"notes"`
	AdditionalCharges  []Charge   `db:"additional_charges"`
}

func (s *StayRecord) CheckedOut() bool {
	return s.ActualCheckOutTime != nil
}

// ChargesTotal sums the incidental charges of the stay.
func (s *StayRecord) ChargesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, c := range s.AdditionalCharges {
		total = total.Add(c.Amount)
	}
	return total
}
