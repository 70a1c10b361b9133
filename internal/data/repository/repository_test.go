package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWhereBuilderNumbersPlaceholders(t *testing.T) {
	w := &whereBuilder{}
	assert.Equal(t, "", w.String())

	id := uuid.New()
	w.add("room_id = ?", id)
	w.add("status = ANY(?)", []string{"pending"})
	p := w.next("%x%")
	w.raw(fmt.Sprintf("(a ILIKE %s OR b ILIKE %s)", p, p))

	assert.Equal(t, " WHERE room_id = $1 AND status = ANY($2) AND (a ILIKE $3 OR b ILIKE $3)", w.String())
	assert.Len(t, w.args, 3)
}

func TestPageOrderBy(t *testing.T) {
	assert.Equal(t, " ORDER BY created_at DESC, id DESC", Page{}.orderBy("created_at"))
	assert.Equal(t, " ORDER BY total_amount ASC, id ASC", Page{SortBy: "total_amount", SortOrder: "ASC"}.orderBy("created_at"))
}

func TestMapPgError(t *testing.T) {
	unique := fmt.Errorf("create room: %w", &pgconn.PgError{Code: "23505", ConstraintName: "rooms_room_number_key"})
	assert.ErrorIs(t, mapPgError(unique), ErrDuplicate)

	overlap := fmt.Errorf("create booking: %w", &pgconn.PgError{Code: "23P01", ConstraintName: "bookings_no_overlap"})
	mapped := mapPgError(overlap)
	assert.ErrorIs(t, mapped, ErrOverlap)
	var pgErr *pgconn.PgError
	assert.True(t, errors.As(mapped, &pgErr), "original error stays in the chain")

	fk := fmt.Errorf("delete room: %w", &pgconn.PgError{Code: "23503", ConstraintName: "bookings_room_id_fkey"})
	assert.ErrorIs(t, mapPgError(fk), ErrReferenced)

	other := errors.New("connection reset")
	assert.Equal(t, other, mapPgError(other))
}
