// Package memory is a process-local implementation of the repository
// interfaces. It enforces the same uniqueness and no-overlap constraints as
// the Postgres schema and serialises room writers with per-room locks.
package memory

import (
	"context"
	"sync"

	"github.com/SawLinThant/hotel-management-backend-api/internal/data/entity"
	"github.com/SawLinThant/hotel-management-backend-api/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Store struct {
	mu       sync.RWMutex
	rooms    map[uuid.UUID]*entity.Room
	bookings map[uuid.UUID]*entity.Booking
	stays    map[uuid.UUID]*entity.StayRecord
	users    map[uuid.UUID]*entity.User

	locksMu   sync.Mutex
	roomLocks map[uuid.UUID]chan struct{}

	log *zap.Logger
}

func New(log *zap.Logger) *Store {
	return &Store{
		rooms:     make(map[uuid.UUID]*entity.Room),
		bookings:  make(map[uuid.UUID]*entity.Booking),
		stays:     make(map[uuid.UUID]*entity.StayRecord),
		users:     make(map[uuid.UUID]*entity.User),
		roomLocks: make(map[uuid.UUID]chan struct{}),
		log:       log.With(zap.String("repository", "memory")),
	}
}

// Repository returns autocommit repositories over the store.
func (s *Store) Repository() *repository.Repository {
	return s.repositoryFor(nil)
}

// PutUser seeds an account, since users are owned elsewhere.
func (s *Store) PutUser(u *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = cloneUser(u)
}

func (s *Store) repositoryFor(tx *txState) *repository.Repository {
	sess := &session{store: s, tx: tx}
	return &repository.Repository{
		Room:       &roomRepo{sess},
		Booking:    &bookingRepo{sess},
		StayRecord: &stayRecordRepo{sess},
		User:       &userRepo{sess},
		Tx:         &txRunner{sess},
	}
}

// txState is the undo log and the set of room locks held by one transaction.
type txState struct {
	undo  []func()
	locks []uuid.UUID
}

type session struct {
	store *Store
	tx    *txState
}

// record registers an undo step. Callers hold store.mu.
func (s *session) record(undo func()) {
	if s.tx != nil {
		s.tx.undo = append(s.tx.undo, undo)
	}
}

type txRunner struct {
	sess *session
}

func (t *txRunner) WithinTx(ctx context.Context, fn func(repo *repository.Repository) error) error {
	if t.sess.tx != nil {
		return fn(t.sess.store.repositoryFor(t.sess.tx))
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s := t.sess.store
	tx := &txState{}
	committed := false
	defer func() {
		if !committed {
			s.rollback(tx)
		}
		s.releaseLocks(tx)
	}()

	if err := fn(s.repositoryFor(tx)); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) rollback(tx *txState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

func (s *Store) roomLock(id uuid.UUID) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	ch, ok := s.roomLocks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.roomLocks[id] = ch
	}
	return ch
}

// lockRoom blocks until the room is free or ctx is done. Re-entrant per transaction.
func (s *Store) lockRoom(ctx context.Context, tx *txState, id uuid.UUID) error {
	for _, held := range tx.locks {
		if held == id {
			return nil
		}
	}
	select {
	case s.roomLock(id) <- struct{}{}:
		tx.locks = append(tx.locks, id)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) releaseLocks(tx *txState) {
	for _, id := range tx.locks {
		<-s.roomLock(id)
	}
	tx.locks = nil
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneRoom(r *entity.Room) *entity.Room {
	c := *r
	c.Description = cloneString(r.Description)
	if r.Amenities != nil {
		c.Amenities = make(map[string]any, len(r.Amenities))
		for k, v := range r.Amenities {
			c.Amenities[k] = v
		}
	}
	if r.Images != nil {
		c.Images = append([]string(nil), r.Images...)
	}
	if r.Floor != nil {
		f := *r.Floor
		c.Floor = &f
	}
	if r.SizeSqm != nil {
		sz := *r.SizeSqm
		c.SizeSqm = &sz
	}
	return &c
}

func cloneBooking(b *entity.Booking) *entity.Booking {
	c := *b
	c.SpecialRequests = cloneString(b.SpecialRequests)
	return &c
}

func cloneStay(r *entity.StayRecord) *entity.StayRecord {
	c := *r
	c.Notes = cloneString(r.Notes)
	if r.ActualCheckOutTime != nil {
		t := *r.ActualCheckOutTime
		c.ActualCheckOutTime = &t
	}
	if r.AdditionalCharges != nil {
		c.AdditionalCharges = append([]entity.Charge(nil), r.AdditionalCharges...)
	}
	return &c
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

func paginate[T any](items []T, page repository.Page) []T {
	if page.Offset >= len(items) {
		return []T{}
	}
	items = items[page.Offset:]
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	return items
}

func descending(page repository.Page) bool {
	return page.SortOrder != "asc"
}
