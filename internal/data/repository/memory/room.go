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

type roomRepo struct {
	*session
}

func (r *roomRepo) Create(ctx context.Context, room *entity.Room) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.rooms {
		if existing.RoomNumber == room.RoomNumber {
			return fmt.Errorf("%w (rooms_room_number_key): room %s", repository.ErrDuplicate, room.RoomNumber)
		}
	}
	s.rooms[room.ID] = cloneRoom(room)
	r.record(func() { delete(s.rooms, room.ID) })
	return nil
}

func (r *roomRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Room, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return nil, nil
	}
	return cloneRoom(room), nil
}

func (r *roomRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	if r.tx != nil {
		if err := r.store.lockRoom(ctx, r.tx, id); err != nil {
			return nil, fmt.Errorf("lock room %s: %w", id, err)
		}
	}
	return r.FindByID(ctx, id)
}

func (r *roomRepo) FindByRoomNumber(_ context.Context, roomNumber string) (*entity.Room, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, room := range s.rooms {
		if room.RoomNumber == roomNumber {
			return cloneRoom(room), nil
		}
	}
	return nil, nil
}

func matchRoom(room *entity.Room, f repository.RoomFilter) bool {
	if f.Status != nil && room.Status != *f.Status {
		return false
	}
	if f.Type != nil && room.Type != *f.Type {
		return false
	}
	if f.MinCapacity != nil && room.Capacity < *f.MinCapacity {
		return false
	}
	if f.Floor != nil && (room.Floor == nil || *room.Floor != *f.Floor) {
		return false
	}
	if f.MinPrice != nil && room.PricePerNight.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && room.PricePerNight.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		desc := ""
		if room.Description != nil {
			desc = strings.ToLower(*room.Description)
		}
		if !strings.Contains(strings.ToLower(room.RoomNumber), q) && !strings.Contains(desc, q) {
			return false
		}
	}
	return true
}

func (r *roomRepo) filtered(f repository.RoomFilter) []*entity.Room {
	var out []*entity.Room
	for _, room := range r.store.rooms {
		if matchRoom(room, f) {
			out = append(out, cloneRoom(room))
		}
	}
	return out
}

func roomLess(a, b *entity.Room, sortBy string) int {
	switch sortBy {
	case "price_per_night":
		return a.PricePerNight.Cmp(b.PricePerNight)
	case "capacity":
		return a.Capacity - b.Capacity
	case "floor":
		af, bf := -1, -1
		if a.Floor != nil {
			af = *a.Floor
		}
		if b.Floor != nil {
			bf = *b.Floor
		}
		return af - bf
	case "room_number":
		return strings.Compare(a.RoomNumber, b.RoomNumber)
	}
	return a.CreatedAt.Compare(b.CreatedAt)
}

func (r *roomRepo) FindAll(_ context.Context, f repository.RoomFilter, page repository.Page) ([]*entity.Room, error) {
	s := r.store
	s.mu.RLock()
	rooms := r.filtered(f)
	s.mu.RUnlock()

	desc := descending(page)
	sort.SliceStable(rooms, func(i, j int) bool {
		c := roomLess(rooms[i], rooms[j], page.SortBy)
		if c == 0 {
			c = strings.Compare(rooms[i].ID.String(), rooms[j].ID.String())
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
	return paginate(rooms, page), nil
}

func (r *roomRepo) Count(_ context.Context, f repository.RoomFilter) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(r.filtered(f))), nil
}

func (r *roomRepo) Update(_ context.Context, room *entity.Room) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.rooms[room.ID]
	if !ok {
		return nil
	}
	for id, existing := range s.rooms {
		if id != room.ID && existing.RoomNumber == room.RoomNumber {
			return fmt.Errorf("%w (rooms_room_number_key): room %s", repository.ErrDuplicate, room.RoomNumber)
		}
	}
	updated := cloneRoom(room)
	updated.CreatedAt = prev.CreatedAt
	s.rooms[room.ID] = updated
	r.record(func() { s.rooms[room.ID] = prev })
	return nil
}

func (r *roomRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.RoomStatus) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.rooms[id]
	if !ok {
		return nil
	}
	updated := cloneRoom(prev)
	updated.Status = status
	updated.UpdatedAt = time.Now().UTC()
	s.rooms[id] = updated
	r.record(func() { s.rooms[id] = prev })
	return nil
}

// Delete refuses while any booking still references the room.
func (r *roomRepo) Delete(_ context.Context, id uuid.UUID) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[id]
	if !ok {
		return nil
	}
	for _, b := range s.bookings {
		if b.RoomID == id {
			return fmt.Errorf("room %s has bookings: %w", id, repository.ErrReferenced)
		}
	}
	delete(s.rooms, id)
	r.record(func() { s.rooms[id] = room })
	return nil
}

func (r *roomRepo) FindAvailable(_ context.Context, checkIn, checkOut time.Time, guests int) ([]*entity.Room, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entity.Room
	for _, room := range s.rooms {
		if room.Capacity < guests || room.Status == entity.RoomStatusMaintenance {
			continue
		}
		if len(overlappingLocked(s, room.ID, checkIn, checkOut, nil)) > 0 {
			continue
		}
		out = append(out, cloneRoom(room))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].PricePerNight.Cmp(out[j].PricePerNight); c != 0 {
			return c < 0
		}
		return out[i].RoomNumber < out[j].RoomNumber
	})
	return out, nil
}

func (r *roomRepo) CountByStatus(_ context.Context) (map[entity.RoomStatus]int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[entity.RoomStatus]int64)
	for _, room := range s.rooms {
		counts[room.Status]++
	}
	return counts, nil
}

func (r *roomRepo) CountByType(_ context.Context) (map[entity.RoomType]int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[entity.RoomType]int64)
	for _, room := range s.rooms {
		counts[room.Type]++
	}
	return counts, nil
}
