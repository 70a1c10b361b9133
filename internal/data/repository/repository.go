package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SawLinThant/hotel-management-backend-api/internal/data/entity"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Constraint violations reported by every store implementation.
var (
	ErrDuplicate  = errors.New("duplicate key")
	ErrOverlap    = errors.New("overlapping active booking")
	ErrReferenced = errors.New("row is still referenced")
)

// TxRunner runs fn against repositories bound to one transaction.
// fn's error rolls the transaction back. Nested calls join the outer transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(repo *Repository) error) error
}

type Repository struct {
	Room       RoomRepository
	Booking    BookingRepository
	StayRecord StayRecordRepository
	User       UserRepository
	Tx         TxRunner
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newRepositories(db, log)
	repo.Tx = &pgTxRunner{db: db, log: log.With(zap.String("repository", "tx"))}
	return repo
}

func newRepositories(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		Room:       NewRoomRepository(q, log),
		Booking:    NewBookingRepository(q, log),
		StayRecord: NewStayRecordRepository(q, log),
		User:       NewUserRepository(q, log),
	}
}

type pgTxRunner struct {
	db  database.PgxIface
	log *zap.Logger
}

func (t *pgTxRunner) WithinTx(ctx context.Context, fn func(repo *Repository) error) error {
	tx, err := t.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		t.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin transaction: %w", err)
	}

	repo := newRepositories(tx, t.log)
	repo.Tx = joinedTx{repo: repo}

	if err := fn(repo); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			t.log.Error("Failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		t.log.Error("Failed to commit transaction", zap.Error(err))
		return mapPgError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// joinedTx runs nested units of work inside the already open transaction.
type joinedTx struct {
	repo *Repository
}

func (j joinedTx) WithinTx(_ context.Context, fn func(repo *Repository) error) error {
	return fn(j.repo)
}

// Page is a resolved pagination window. SortBy must already be whitelisted.
type Page struct {
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

func (p Page) orderBy(fallback string) string {
	col := p.SortBy
	if col == "" {
		col = fallback
	}
	dir := "DESC"
	if strings.EqualFold(p.SortOrder, "asc") {
		dir = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id %s", col, dir, dir)
}

type RoomFilter struct {
	Status      *entity.RoomStatus
	Type        *entity.RoomType
	MinCapacity *int
	Floor       *int
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Search      string
}

type BookingFilter struct {
	GuestID      *uuid.UUID
	RoomID       *uuid.UUID
	Statuses     []entity.BookingStatus
	CheckInFrom  *time.Time
	CheckInTo    *time.Time
	CheckOutFrom *time.Time
	CheckOutTo   *time.Time
	Guests       *int
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
}

type StayRecordFilter struct {
	BookingID    *uuid.UUID
	GuestID      *uuid.UUID
	RoomID       *uuid.UUID
	CheckInFrom  *time.Time
	CheckInTo    *time.Time
	CheckOutFrom *time.Time
	CheckOutTo   *time.Time
	ActiveOnly   bool
}

type BookingStats struct {
	Total        int64
	ByStatus     map[entity.BookingStatus]int64
	TotalRevenue decimal.Decimal
}

type StayRecordStats struct {
	Total     int64
	Active    int64
	Completed int64
}

// whereBuilder accumulates AND-ed conditions with positional arguments.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *whereBuilder) raw(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// next returns the placeholder for the argument that would be appended next.
func (w *whereBuilder) next(arg any) string {
	w.args = append(w.args, arg)
	return fmt.Sprintf("$%d", len(w.args))
}

func statusStrings(statuses []entity.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// mapPgError turns constraint violations into store-neutral sentinels.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505":
		return fmt.Errorf("%w (%s): %w", ErrDuplicate, pgErr.ConstraintName, err)
	case "23P01":
		return fmt.Errorf("%w (%s): %w", ErrOverlap, pgErr.ConstraintName, err)
	case "23503":
		return fmt.Errorf("%w (%s): %w", ErrReferenced, pgErr.ConstraintName, err)
	}
	return err
}
