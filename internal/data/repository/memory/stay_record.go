package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SawLinThant/hotel-management-backend-api/internal/data/entity"
	"github.com/SawLinThant/hotel-management-backend-api/internal/data/repository"

	"github.com/google/uuid"
)

type stayRecordRepo struct {
	*session
}

func (r *stayRecordRepo) Create(_ context.Context, record *entity.StayRecord) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[record.BookingID]; !ok {
		return fmt.Errorf("foreign key violation: booking %s does not exist", record.BookingID)
	}
	for id, existing := range s.stays {
		if id == record.ID || existing.BookingID == record.BookingID {
			return fmt.Errorf("%w (stay_records_booking_id_key): booking %s", repository.ErrDuplicate, record.BookingID)
		}
	}
	s.stays[record.ID] = cloneStay(record)
	r.record(func() { delete(s.stays, record.ID) })
	return nil
}

func (r *stayRecordRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.StayRecord, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	stay, ok := s.stays[id]
	if !ok {
		return nil, nil
	}
	return cloneStay(stay), nil
}

func (r *stayRecordRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*entity.StayRecord, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, stay := range s.stays {
		if stay.BookingID == bookingID {
			return cloneStay(stay), nil
		}
	}
	return nil, nil
}

func (r *stayRecordRepo) matches(stay *entity.StayRecord, f repository.StayRecordFilter) bool {
	if f.BookingID != nil && stay.BookingID != *f.BookingID {
		return false
	}
	if f.GuestID != nil || f.RoomID != nil {
		b, ok := r.store.bookings[stay.BookingID]
		if !ok {
			return false
		}
		if f.GuestID != nil && b.GuestID != *f.GuestID {
			return false
		}
		if f.RoomID != nil && b.RoomID != *f.RoomID {
			return false
		}
	}
	if !inRange(stay.ActualCheckInTime, f.CheckInFrom, f.CheckInTo) {
		return false
	}
	if f.CheckOutFrom != nil || f.CheckOutTo != nil {
		if stay.ActualCheckOutTime == nil || !inRange(*stay.ActualCheckOutTime, f.CheckOutFrom, f.CheckOutTo) {
			return false
		}
	}
	if f.ActiveOnly && stay.ActualCheckOutTime != nil {
		return false
	}
	return true
}

func (r *stayRecordRepo) filtered(f repository.StayRecordFilter) []*entity.StayRecord {
	var out []*entity.StayRecord
	for _, stay := range r.store.stays {
		if r.matches(stay, f) {
			out = append(out, cloneStay(stay))
		}
	}
	return out
}

func checkOutOrZero(stay *entity.StayRecord) time.Time {
	if stay.ActualCheckOutTime == nil {
		return time.Time{}
	}
	return *stay.ActualCheckOutTime
}

func (r *stayRecordRepo) FindAll(_ context.Context, f repository.StayRecordFilter, page repository.Page) ([]*entity.StayRecord, error) {
	s := r.store
	s.mu.RLock()
	stays := r.filtered(f)
	s.mu.RUnlock()

	desc := descending(page)
	sort.SliceStable(stays, func(i, j int) bool {
		var c int
		switch page.SortBy {
		case "check_in_time":
			c = stays[i].ActualCheckInTime.Compare(stays[j].ActualCheckInTime)
		case "check_out_time":
			c = checkOutOrZero(stays[i]).Compare(checkOutOrZero(stays[j]))
		default:
			c = stays[i].CreatedAt.Compare(stays[j].CreatedAt)
		}
		if c == 0 {
			c = strings.Compare(stays[i].ID.String(), stays[j].ID.String())
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
	return paginate(stays, page), nil
}

func (r *stayRecordRepo) Count(_ context.Context, f repository.StayRecordFilter) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(r.filtered(f))), nil
}

func (r *stayRecordRepo) Update(_ context.Context, record *entity.StayRecord) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.stays[record.ID]
	if !ok {
		return nil
	}
	updated := cloneStay(prev)
	updated.ActualCheckOutTime = cloneStay(record).ActualCheckOutTime
	updated.Notes = cloneString(record.Notes)
	updated.AdditionalCharges = append([]entity.Charge(nil), record.AdditionalCharges...)
	updated.UpdatedAt = record.UpdatedAt
	s.stays[record.ID] = updated
	r.record(func() { s.stays[record.ID] = prev })
	return nil
}

func (r *stayRecordRepo) Stats(_ context.Context) (*repository.StayRecordStats, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &repository.StayRecordStats{}
	for _, stay := range s.stays {
		stats.Total++
		if stay.CheckedOut() {
			stats.Completed++
		} else {
			stats.Active++
		}
	}
	return stats, nil
}
