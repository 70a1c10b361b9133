package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusCheckedIn  BookingStatus = "checked_in"
	BookingStatusCheckedOut BookingStatus = "checked_out"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// bookingStatusCompleted is the legacy name of checked_out still sent by older clients.
const bookingStatusCompleted = "completed"

var BookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCheckedIn,
	BookingStatusCheckedOut,
	BookingStatusCancelled,
}

// ActiveStatuses hold a room: their date ranges must not overlap.
var ActiveStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCheckedIn,
}

var transitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCheckedIn, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCheckedIn, BookingStatusCancelled},
	BookingStatusCheckedIn: {BookingStatusCheckedOut},
}

// ParseBookingStatus accepts the canonical names plus "completed".
func ParseBookingStatus(s string) (BookingStatus, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == bookingStatusCompleted {
		return BookingStatusCheckedOut, true
	}
	for _, st := range BookingStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

func (s BookingStatus) IsActive() bool {
	for _, st := range ActiveStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// CanTransition reports whether from -> to is an edge of the booking state machine.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Booking struct {
	BaseNoDelete
	RoomID           uuid.UUID       `db:"room_id"`
	GuestID          uuid.UUID       `db:"guest_id"`
	CheckInDate      time.Time       `db:"check_in_date"`
	CheckOutDate     time.Time       `db:"check_out_date"`
	Guests           int             `db:"guests"`
	Status           BookingStatus   `db:"status"`
	TotalAmount      decimal.Decimal `db:"total_amount"`
	PaidAmount       decimal.Decimal `db:"paid_amount"`
	SpecialRequests  *string         `db:"special_requests"`
	ConfirmationCode string          `db:"confirmation_code"`
}

func (b *Booking) Nights() int {
	return Nights(b.CheckInDate, b.CheckOutDate)
}

// Overlaps reports whether b is active and its stay intersects [from, to).
func (b *Booking) Overlaps(from, to time.Time) bool {
	return b.Status.IsActive() && Overlaps(b.CheckInDate, b.CheckOutDate, from, to)
}

// Nights is the number of billable nights between check-in and check-out:
// whole days rounded up, never less than one.
func Nights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 1
	}
	const day = 24 * time.Hour
	n := int(d / day)
	if d%day != 0 {
		n++
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Overlaps tests two half-open intervals [a1, a2) and [b1, b2).
// Touching ends (check-out day == next check-in day) do not overlap.
func Overlaps(a1, a2, b1, b2 time.Time) bool {
	return a1.Before(b2) && b1.Before(a2)
}

// TotalFor prices a stay at the given nightly rate.
func TotalFor(pricePerNight decimal.Decimal, checkIn, checkOut time.Time) decimal.Decimal {
	return pricePerNight.Mul(decimal.NewFromInt(int64(Nights(checkIn, checkOut))))
}
