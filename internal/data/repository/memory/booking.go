package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/SawLinThant/hotel-management-backend-api/internal/data/entity"
	"github.com/SawLinThant/hotel-management-backend-api/internal/data/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type bookingRepo struct {
	*session
}

// checkBookingConstraints mirrors the table constraints. Callers hold store.mu.
func checkBookingConstraints(s *Store, b *entity.Booking) error {
	if !b.CheckInDate.Before(b.CheckOutDate) {
		return fmt.Errorf("check constraint bookings_dates_check violated for booking %s", b.ID)
	}
	if _, ok := s.rooms[b.RoomID]; !ok {
		return fmt.Errorf("foreign key violation: room %s does not exist", b.RoomID)
	}
	for id, existing := range s.bookings {
		if id == b.ID {
			continue
		}
		if existing.ConfirmationCode == b.ConfirmationCode {
			return fmt.Errorf("%w (bookings_confirmation_code_key): %s", repository.ErrDuplicate, b.ConfirmationCode)
		}
		if b.Status.IsActive() && existing.RoomID == b.RoomID && existing.Overlaps(b.CheckInDate, b.CheckOutDate) {
			return fmt.Errorf("%w (bookings_no_overlap): room %s", repository.ErrOverlap, b.RoomID)
		}
	}
	return nil
}

func (r *bookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bookings[booking.ID]; exists {
		return fmt.Errorf("%w (bookings_pkey): %s", repository.ErrDuplicate, booking.ID)
	}
	if err := checkBookingConstraints(s, booking); err != nil {
		return err
	}
	s.bookings[booking.ID] = cloneBooking(booking)
	r.record(func() { delete(s.bookings, booking.ID) })
	return nil
}

func (r *bookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, nil
	}
	return cloneBooking(b), nil
}

func (r *bookingRepo) FindByConfirmationCode(_ context.Context, code string) (*entity.Booking, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.bookings {
		if b.ConfirmationCode == code {
			return cloneBooking(b), nil
		}
	}
	return nil, nil
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}

func matchBooking(b *entity.Booking, f repository.BookingFilter) bool {
	if f.GuestID != nil && b.GuestID != *f.GuestID {
		return false
	}
	if f.RoomID != nil && b.RoomID != *f.RoomID {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, b.Status) {
		return false
	}
	if !inRange(b.CheckInDate, f.CheckInFrom, f.CheckInTo) {
		return false
	}
	if !inRange(b.CheckOutDate, f.CheckOutFrom, f.CheckOutTo) {
		return false
	}
	if f.Guests != nil && b.Guests != *f.Guests {
		return false
	}
	if f.CreatedFrom != nil && b.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && b.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	return true
}

func (r *bookingRepo) filtered(f repository.BookingFilter) []*entity.Booking {
	var out []*entity.Booking
	for _, b := range r.store.bookings {
		if matchBooking(b, f) {
			out = append(out, cloneBooking(b))
		}
	}
	return out
}

func bookingCmp(a, b *entity.Booking, sortBy string) int {
	switch sortBy {
	case "check_in_date":
		return a.CheckInDate.Compare(b.CheckInDate)
	case "check_out_date":
		return a.CheckOutDate.Compare(b.CheckOutDate)
	case "total_amount":
		return a.TotalAmount.Cmp(b.TotalAmount)
	}
	return a.CreatedAt.Compare(b.CreatedAt)
}

func (r *bookingRepo) FindAll(_ context.Context, f repository.BookingFilter, page repository.Page) ([]*entity.Booking, error) {
	s := r.store
	s.mu.RLock()
	bookings := r.filtered(f)
	s.mu.RUnlock()

	desc := descending(page)
	sort.SliceStable(bookings, func(i, j int) bool {
		c := bookingCmp(bookings[i], bookings[j], page.SortBy)
		if c == 0 {
			c = strings.Compare(bookings[i].ID.String(), bookings[j].ID.String())
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
	return paginate(bookings, page), nil
}

func (r *bookingRepo) Count(_ context.Context, f repository.BookingFilter) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(r.filtered(f))), nil
}

func (r *bookingRepo) Update(_ context.Context, booking *entity.Booking) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.bookings[booking.ID]
	if !ok {
		return nil
	}
	updated := cloneBooking(booking)
	// columns the UPDATE statement does not touch
	updated.RoomID = prev.RoomID
	updated.GuestID = prev.GuestID
	updated.ConfirmationCode = prev.ConfirmationCode
	updated.CreatedAt = prev.CreatedAt
	if err := checkBookingConstraints(s, updated); err != nil {
		return err
	}
	s.bookings[booking.ID] = updated
	r.record(func() { s.bookings[booking.ID] = prev })
	return nil
}

func (r *bookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	deleteBookingLocked(r.session, id)
	return nil
}

// deleteBookingLocked removes a booking and its stay record. Callers hold store.mu.
func deleteBookingLocked(sess *session, id uuid.UUID) {
	s := sess.store
	b, ok := s.bookings[id]
	if !ok {
		return
	}
	delete(s.bookings, id)
	sess.record(func() { s.bookings[id] = b })

	for sid, stay := range s.stays {
		if stay.BookingID == id {
			delete(s.stays, sid)
			sess.record(func() { s.stays[sid] = stay })
		}
	}
}

// overlappingLocked lists active bookings of roomID intersecting [checkIn, checkOut). Callers hold store.mu.
func overlappingLocked(s *Store, roomID uuid.UUID, checkIn, checkOut time.Time, excludeID *uuid.UUID) []*entity.Booking {
	var out []*entity.Booking
	for id, b := range s.bookings {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if b.RoomID == roomID && b.Overlaps(checkIn, checkOut) {
			out = append(out, cloneBooking(b))
		}
	}
	return out
}

func (r *bookingRepo) FindOverlapping(_ context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, excludeID *uuid.UUID) ([]*entity.Booking, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return overlappingLocked(s, roomID, checkIn, checkOut, excludeID), nil
}

func (r *bookingRepo) CountActiveByRoomID(_ context.Context, roomID uuid.UUID) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, b := range s.bookings {
		if b.RoomID == roomID && b.Status.IsActive() {
			n++
		}
	}
	return n, nil
}

func (r *bookingRepo) Stats(_ context.Context, f repository.BookingFilter) (*repository.BookingStats, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &repository.BookingStats{
		ByStatus:     make(map[entity.BookingStatus]int64),
		TotalRevenue: decimal.Zero,
	}
	for _, b := range s.bookings {
		if !matchBooking(b, f) {
			continue
		}
		stats.Total++
		stats.ByStatus[b.Status]++
		stats.TotalRevenue = stats.TotalRevenue.Add(b.TotalAmount)
	}
	return stats, nil
}
