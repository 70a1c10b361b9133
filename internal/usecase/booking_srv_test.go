package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SawLinThant/hotel-management-backend-api/internal/data/entity"
	"github.com/SawLinThant/hotel-management-backend-api/internal/data/repository"
	"github.com/SawLinThant/hotel-management-backend-api/internal/data/repository/memory"
	"github.com/SawLinThant/hotel-management-backend-api/internal/dto/request"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/apperror"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testNow is midnight so stays starting on 2024-05-01 are not yet in the past.
var testNow = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

type fixture struct {
	t     *testing.T
	ctx   context.Context
	repo  *repository.Repository
	svc   *Service
	now   time.Time
	staff *entity.Actor
	admin *entity.Actor
	guest *entity.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		t:     t,
		ctx:   context.Background(),
		repo:  memory.New(zap.NewNop()).Repository(),
		now:   testNow,
		staff: &entity.Actor{ID: uuid.New(), Role: entity.RoleStaff},
		admin: &entity.Actor{ID: uuid.New(), Role: entity.RoleAdmin},
		guest: &entity.Actor{ID: uuid.New(), Role: entity.RoleGuest},
	}
	config := &utils.Config{Booking: utils.BookingConfig{CancelWindow: 24 * time.Hour}}
	f.svc = NewService(f.repo, config, zap.NewNop(), WithClock(func() time.Time { return f.now }))
	return f
}

func (f *fixture) room(number string, price int64, capacity int) *entity.Room {
	f.t.Helper()
	room := &entity.Room{
		BaseNoDelete:  entity.BaseNoDelete{ID: uuid.New(), CreatedAt: f.now, UpdatedAt: f.now},
		RoomNumber:    number,
		Type:          entity.RoomTypeDouble,
		Status:        entity.RoomStatusAvailable,
		Capacity:      capacity,
		PricePerNight: decimal.NewFromInt(price),
	}
	require.NoError(f.t, f.repo.Room.Create(f.ctx, room))
	return room
}

func (f *fixture) book(actor *entity.Actor, roomID uuid.UUID, in, out string) (string, error) {
	req := &request.CreateBookingRequest{
		RoomID:       roomID.String(),
		CheckInDate:  in,
		CheckOutDate: out,
		Guests:       1,
	}
	if !actor.IsGuest() {
		req.GuestID = f.guest.ID.String()
	}
	resp, err := f.svc.Booking.CreateBooking(f.ctx, actor, req)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (f *fixture) booking(id string) *entity.Booking {
	f.t.Helper()
	b, err := f.repo.Booking.FindByID(f.ctx, uuid.MustParse(id))
	require.NoError(f.t, err)
	require.NotNil(f.t, b)
	return b
}

func assertKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperror.KindOf(err), err.Error())
}

func TestBookingScenarioOverlapAndTurnover(t *testing.T) {
	f := newFixture(t)
	room := f.room("101", 100, 2)

	a, err := f.svc.Booking.CreateBooking(f.ctx, f.guest, &request.CreateBookingRequest{
		RoomID:       room.ID.String(),
		CheckInDate:  "2024-06-01",
		CheckOutDate: "2024-06-03",
		Guests:       2,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusPending, a.Status)
	assert.True(t, decimal.NewFromInt(200).Equal(a.TotalAmount))
	assert.Equal(t, f.guest.ID.String(), a.GuestID)
	assert.Regexp(t, `^BK240501[A-Z0-9]{6}$`, a.ConfirmationCode)

	other := &entity.Actor{ID: uuid.New(), Role: entity.RoleGuest}
	_, err = f.book(other, room.ID, "2024-06-02", "2024-06-04")
	assertKind(t, err, apperror.KindConflict)

	b, err := f.svc.Booking.CreateBooking(f.ctx, other, &request.CreateBookingRequest{
		RoomID:       room.ID.String(),
		CheckInDate:  "2024-06-03",
		CheckOutDate: "2024-06-05",
		Guests:       1,
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(200).Equal(b.TotalAmount))
}

func TestCreateBookingRejections(t *testing.T) {
	f := newFixture(t)
	room := f.room("101", 100, 2)

	tests := []struct {
		name  string
		actor *entity.Actor
		req   request.CreateBookingRequest
		kind  apperror.Kind
	}{
		{
			name:  "check-out before check-in",
			actor: f.guest,
			req:   request.CreateBookingRequest{RoomID: room.ID.String(), CheckInDate: "2024-06-03", CheckOutDate: "2024-06-01", Guests: 1},
			kind:  apperror.KindInvalidRange,
		},
		{
			name:  "zero night stay",
			actor: f.guest,
			req:   request.CreateBookingRequest{RoomID: room.ID.String(), CheckInDate: "2024-06-03", CheckOutDate: "2024-06-03", Guests: 1},
			kind:  apperror.KindInvalidRange,
		},
		{
			name:  "past check-in",
			actor: f.guest,
			req:   request.CreateBookingRequest{RoomID: room.ID.String(), CheckInDate: "2024-04-30", CheckOutDate: "2024-05-02", Guests: 1},
			kind:  apperror.KindPastDate,
		},
		{
			name:  "unknown room",
			actor: f.guest,
			req:   request.CreateBookingRequest{RoomID: uuid.NewString(), CheckInDate: "2024-06-01", CheckOutDate: "2024-06-02", Guests: 1},
			kind:  apperror.KindNotFound,
		},
		{
			name:  "too many guests",
			actor: f.guest,
			req:   request.CreateBookingRequest{RoomID: room.ID.String(), CheckInDate: "2024-06-01", CheckOutDate: "2024-06-02", Guests: 3},
			kind:  apperror.KindCapacityExceeded,
		},
		{
			name:  "guest booking for someone else",
			actor: f.guest,
			req:   request.CreateBookingRequest{RoomID: room.ID.String(), GuestID: uuid.NewString(), CheckInDate: "2024-06-01", CheckOutDate: "2024-06-02", Guests: 1},
			kind:  apperror.KindForbidden,
		},
		{
			name:  "staff without guest",
			actor: f.staff,
			req:   request.CreateBookingRequest{RoomID: room.ID.String(), CheckInDate: "2024-06-01", CheckOutDate: "2024-06-02", Guests: 1},
			kind:  apperror.KindValidation,
		},
		{
			name:  "missing guests",
			actor: f.guest,
			req:   request.CreateBookingRequest{RoomID: room.ID.String(), CheckInDate: "2024-06-01", CheckOutDate: "2024-06-02"},
			kind:  apperror.KindValidation,
		},
		{
			name:  "malformed date",
			actor: f.guest,
			req:   request.CreateBookingRequest{RoomID: room.ID.String(), CheckInDate: "06/01/2024", CheckOutDate: "2024-06-02", Guests: 1},
			kind:  apperror.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.svc.Booking.CreateBooking(f.ctx, tt.actor, &req)
			assertKind(t, err, tt.kind)
		})
	}

	count, err := f.repo.Booking.Count(f.ctx, repository.BookingFilter{})
	require.NoError(t, err)
	assert.Zero(t, count, "rejected creates must not persist anything")
}

func TestCreateBookingEarlierTodayIsPast(t *testing.T) {
	f := newFixture(t)
	room := f.room("101", 100, 2)
	f.now = testNow.Add(12 * time.Hour)

	_, err := f.book(f.guest, room.ID, "2024-05-01T02:00:00Z", "2024-05-02T02:00:00Z")
	assertKind(t, err, apperror.KindPastDate)

	_, err = f.book(f.guest, room.ID, "2024-05-01", "2024-05-02")
	assertKind(t, err, apperror.KindPastDate)

	_, err = f.book(f.guest, room.ID, "2024-05-01T12:00:00Z", "2024-05-02T12:00:00Z")
	assert.NoError(t, err)
}

func TestConcurrentOverlappingCreatesOneWins(t *testing.T) {
	f := newFixture(t)
	room := f.room("101", 100, 2)

	const n = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			guest := &entity.Actor{ID: uuid.New(), Role: entity.RoleGuest}
			in := fmt.Sprintf("2024-06-%02d", 1+i%2)
			_, err := f.book(guest, room.ID, in, "2024-06-05")

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, apperror.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)

	active, err := f.repo.Booking.CountActiveByRoomID(f.ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), active)
}

func TestConcurrentCreatesOnDifferentRooms(t *testing.T) {
	f := newFixture(t)
	rooms := []*entity.Room{f.room("101", 100, 2), f.room("102", 100, 2), f.room("103", 100, 2)}

	var wg sync.WaitGroup
	errs := make([]error, len(rooms))
	for i, room := range rooms {
		wg.Add(1)
		go func(i int, roomID uuid.UUID) {
			defer wg.Done()
			_, errs[i] = f.book(f.guest, roomID, "2024-06-01", "2024-06-03")
		}(i, room.ID)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestCancelBooking(t *testing.T) {
	t.Run("too late within window", func(t *testing.T) {
		f := newFixture(t)
		room := f.room("101", 100, 2)
		id, err := f.book(f.guest, room.ID, "2024-05-02", "2024-05-04")
		require.NoError(t, err)

		f.now = testNow.Add(time.Hour)
		_, err = f.svc.Booking.CancelBooking(f.ctx, f.guest, id)
		assertKind(t, err, apperror.KindTooLate)
		assert.Equal(t, entity.BookingStatusPending, f.booking(id).Status)
	})

	t.Run("48h ahead leaves room untouched", func(t *testing.T) {
		f := newFixture(t)
		room := f.room("101", 100, 2)
		id, err := f.book(f.guest, room.ID, "2024-05-04", "2024-05-06")
		require.NoError(t, err)

		resp, err := f.svc.Booking.CancelBooking(f.ctx, f.guest, id)
		require.NoError(t, err)
		assert.Equal(t, entity.BookingStatusCancelled, resp.Status)

		after, err := f.repo.Room.FindByID(f.ctx, room.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.RoomStatusAvailable, after.Status)

		_, err = f.svc.Booking.CancelBooking(f.ctx, f.guest, id)
		assertKind(t, err, apperror.KindAlreadyCancelled)
	})

	t.Run("cancelled dates are bookable again", func(t *testing.T) {
		f := newFixture(t)
		room := f.room("101", 100, 2)
		id, err := f.book(f.guest, room.ID, "2024-06-01", "2024-06-03")
		require.NoError(t, err)
		_, err = f.svc.Booking.CancelBooking(f.ctx, f.guest, id)
		require.NoError(t, err)

		_, err = f.book(f.guest, room.ID, "2024-06-01", "2024-06-03")
		assert.NoError(t, err)
	})

	t.Run("other guest is forbidden", func(t *testing.T) {
		f := newFixture(t)
		room := f.room("101", 100, 2)
		id, err := f.book(f.guest, room.ID, "2024-06-01", "2024-06-03")
		require.NoError(t, err)

		stranger := &entity.Actor{ID: uuid.New(), Role: entity.RoleGuest}
		_, err = f.svc.Booking.CancelBooking(f.ctx, stranger, id)
		assertKind(t, err, apperror.KindForbidden)
	})

	t.Run("checked in cannot be cancelled", func(t *testing.T) {
		f := newFixture(t)
		room := f.room("101", 100, 2)
		id, err := f.book(f.guest, room.ID, "2024-06-01", "2024-06-03")
		require.NoError(t, err)
		_, err = f.svc.Booking.CheckIn(f.ctx, f.staff, id, nil)
		require.NoError(t, err)

		_, err = f.svc.Booking.CancelBooking(f.ctx, f.staff, id)
		assertKind(t, err, apperror.KindInvalidTransition)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Booking.CancelBooking(f.ctx, f.guest, uuid.NewString())
		assertKind(t, err, apperror.KindNotFound)
	})
}

func TestCheckInCheckOutLifecycle(t *testing.T) {
	f := newFixture(t)
	room := f.room("101", 100, 2)
	id, err := f.book(f.guest, room.ID, "2024-05-01", "2024-05-03")
	require.NoError(t, err)

	notes := "late arrival"
	in, err := f.svc.Booking.CheckIn(f.ctx, f.staff, id, &request.CheckInRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCheckedIn, in.Booking.Status)
	assert.Equal(t, testNow, in.StayRecord.ActualCheckInTime)

	occupied, err := f.repo.Room.FindByID(f.ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoomStatusOccupied, occupied.Status)

	_, err = f.svc.Booking.CheckIn(f.ctx, f.staff, id, nil)
	assertKind(t, err, apperror.KindInvalidTransition)

	f.now = testNow.Add(47 * time.Hour)
	out, err := f.svc.Booking.CheckOut(f.ctx, f.staff, id, &request.CheckOutRequest{
		AdditionalCharges: []request.ChargeRequest{{Description: "minibar", Amount: decimal.RequireFromString("12.50")}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCheckedOut, out.Booking.Status)
	assert.Equal(t, in.StayRecord.ID, out.StayRecord.ID)
	require.NotNil(t, out.StayRecord.ActualCheckOutTime)
	assert.False(t, out.StayRecord.ActualCheckOutTime.Before(out.StayRecord.ActualCheckInTime))
	assert.True(t, decimal.RequireFromString("12.50").Equal(out.StayRecord.ChargesTotal))
	require.NotNil(t, out.StayRecord.Notes)
	assert.Equal(t, notes, *out.StayRecord.Notes)

	cleaning, err := f.repo.Room.FindByID(f.ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoomStatusCleaning, cleaning.Status)

	_, err = f.svc.Booking.CheckOut(f.ctx, f.staff, id, nil)
	assertKind(t, err, apperror.KindAlreadyCheckedOut)

	stays, err := f.repo.StayRecord.Count(f.ctx, repository.StayRecordFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stays)
}

func TestCheckOutRejections(t *testing.T) {
	f := newFixture(t)
	room := f.room("101", 100, 2)
	id, err := f.book(f.guest, room.ID, "2024-05-01", "2024-05-03")
	require.NoError(t, err)

	_, err = f.svc.Booking.CheckOut(f.ctx, f.guest, id, nil)
	assertKind(t, err, apperror.KindForbidden)

	_, err = f.svc.Booking.CheckOut(f.ctx, f.staff, id, nil)
	assertKind(t, err, apperror.KindInvalidTransition)

	_, err = f.svc.Booking.CheckIn(f.ctx, f.staff, id, nil)
	require.NoError(t, err)

	before := testNow.Add(-time.Hour).Format(time.RFC3339)
	_, err = f.svc.Booking.CheckOut(f.ctx, f.staff, id, &request.CheckOutRequest{At: &before})
	assertKind(t, err, apperror.KindInvalidRange)

	_, err = f.svc.Booking.CheckOut(f.ctx, f.staff, id, &request.CheckOutRequest{
		AdditionalCharges: []request.ChargeRequest{{Description: "refund", Amount: decimal.NewFromInt(-5)}},
	})
	assertKind(t, err, apperror.KindValidation)

	assert.Equal(t, entity.BookingStatusCheckedIn, f.booking(id).Status)
}

func TestGuestCannotCheckIn(t *testing.T) {
	f := newFixture(t)
	room := f.room("101", 100, 2)
	id, err := f.book(f.guest, room.ID, "2024-06-01", "2024-06-03")
	require.NoError(t, err)

	_, err = f.svc.Booking.CheckIn(f.ctx, f.guest, id, nil)
	assertKind(t, err, apperror.KindForbidden)

	assert.Equal(t, entity.BookingStatusPending, f.booking(id).Status)
	stay, err := f.repo.StayRecord.FindByBookingID(f.ctx, uuid.MustParse(id))
	require.NoError(t, err)
	assert.Nil(t, stay)
}

func TestDeleteBooking(t *testing.T) {
	f := newFixture(t)
	room := f.room("101", 100, 2)
	id, err := f.book(f.guest, room.ID, "2024-05-01", "2024-05-03")
	require.NoError(t, err)

	assertKind(t, f.svc.Booking.DeleteBooking(f.ctx, f.guest, id), apperror.KindForbidden)

	_, err = f.svc.Booking.CheckIn(f.ctx, f.staff, id, nil)
	require.NoError(t, err)

	assertKind(t, f.svc.Booking.DeleteBooking(f.ctx, f.staff, id), apperror.KindInvalidTransition)
	assert.Equal(t, entity.BookingStatusCheckedIn, f.booking(id).Status)

	other, err := f.book(f.guest, room.ID, "2024-06-01", "2024-06-03")
	require.NoError(t, err)
	require.NoError(t, f.svc.Booking.DeleteBooking(f.ctx, f.admin, other))

	_, err = f.svc.Booking.GetBookingByID(f.ctx, f.staff, other)
	assertKind(t, err, apperror.KindNotFound)
	assertKind(t, f.svc.Booking.DeleteBooking(f.ctx, f.staff, other), apperror.KindNotFound)
}

func TestUpdateBooking(t *testing.T) {
	t.Run("other guest is forbidden and nothing changes", func(t *testing.T) {
		f := newFixture(t)
		room := f.room("101", 100, 2)
		id, err := f.book(f.guest, room.ID, "2024-06-01", "2024-06-03")
		require.NoError(t, err)

		stranger := &entity.Actor{ID: uuid.New(), Role: entity.RoleGuest}
		guests := 2
		_, err = f.svc.Booking.UpdateBooking(f.ctx, stranger, id, &request.UpdateBookingRequest{Guests: &guests})
		assertKind(t, err, apperror.KindForbidden)
		assert.Equal(t, 1, f.booking(id).Guests)
	})

	t.Run("date change reprices and excludes itself", func(t *testing.T) {
		f := newFixture(t)
		room := f.room("101", 100, 2)
		id, err := f.book(f.guest, room.ID, "2024-06-01", "2024-06-03")
		require.NoError(t, err)

		out := "2024-06-05"
		resp, err := f.svc.Booking.UpdateBooking(f.ctx, f.guest, id, &request.UpdateBookingRequest{CheckOutDate: &out})
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(400).Equal(resp.TotalAmount))

		again, err := f.svc.Booking.UpdateBooking(f.ctx, f.guest, id, &request.UpdateBookingRequest{CheckOutDate: &out})
		require.NoError(t, err)
		assert.True(t, resp.TotalAmount.Equal(again.TotalAmount))
	})

	t.Run("date change into another booking conflicts", func(t *testing.T) {
		f := newFixture(t)
		room := f.room("101", 100, 2)
		id, err := f.book(f.guest, room.ID, "2024-06-01", "2024-06-03")
		require.NoError(t, err)
		_, err = f.book(f.staff, room.ID, "2024-06-05", "2024-06-07")
		require.NoError(t, err)

		out := "2024-06-06"
		_, err = f.svc.Booking.UpdateBooking(f.ctx, f.guest, id, &request.UpdateBookingRequest{CheckOutDate: &out})
		assertKind(t, err, apperror.KindConflict)
		assert.Equal(t, "2024-06-03", f.booking(id).CheckOutDate.Format(utils.DateLayout))
	})

	t.Run("invalid range and past date", func(t *testing.T) {
		f := newFixture(t)
		room := f.room("101", 100, 2)
		id, err := f.book(f.guest, room.ID, "2024-06-01", "2024-06-03")
		require.NoError(t, err)

		out := "2024-05-30"
		_, err = f.svc.Booking.UpdateBooking(f.ctx, f.guest, id, &request.UpdateBookingRequest{CheckOutDate: &out})
		assertKind(t, err, apperror.KindInvalidRange)

		in := "2024-04-01"
		_, err = f.svc.Booking.UpdateBooking(f.ctx, f.guest, id, &request.UpdateBookingRequest{CheckInDate: &in})
		assertKind(t, err, apperror.KindPastDate)

		f.now = testNow.Add(12 * time.Hour)
		earlierToday := "2024-05-01T06:00:00Z"
		_, err = f.svc.Booking.UpdateBooking(f.ctx, f.guest, id, &request.UpdateBookingRequest{CheckInDate: &earlierToday})
		assertKind(t, err, apperror.KindPastDate)
	})

	t.Run("guest count is capacity checked", func(t *testing.T) {
		f := newFixture(t)
		room := f.room("101", 100, 2)
		id, err := f.book(f.guest, room.ID, "2024-06-01", "2024-06-03")
		require.NoError(t, err)

		guests := 3
		_, err = f.svc.Booking.UpdateBooking(f.ctx, f.guest, id, &request.UpdateBookingRequest{Guests: &guests})
		assertKind(t, err, apperror.KindCapacityExceeded)
	})

	t.Run("status goes through the table", func(t *testing.T) {
		f := newFixture(t)
		room := f.room("101", 100, 2)
		id, err := f.book(f.guest, room.ID, "2024-06-01", "2024-06-03")
		require.NoError(t, err)

		confirmed := "confirmed"
		_, err = f.svc.Booking.UpdateBooking(f.ctx, f.guest, id, &request.UpdateBookingRequest{Status: &confirmed})
		assertKind(t, err, apperror.KindForbidden)

		resp, err := f.svc.Booking.UpdateBooking(f.ctx, f.staff, id, &request.UpdateBookingRequest{Status: &confirmed})
		require.NoError(t, err)
		assert.Equal(t, entity.BookingStatusConfirmed, resp.Status)

		checkedOut := "completed"
		_, err = f.svc.Booking.UpdateBooking(f.ctx, f.staff, id, &request.UpdateBookingRequest{Status: &checkedOut})
		assertKind(t, err, apperror.KindInvalidTransition)

		cancelled := "cancelled"
		resp, err = f.svc.Booking.UpdateBooking(f.ctx, f.guest, id, &request.UpdateBookingRequest{Status: &cancelled})
		require.NoError(t, err)
		assert.Equal(t, entity.BookingStatusCancelled, resp.Status)

		_, err = f.svc.Booking.UpdateBooking(f.ctx, f.staff, id, &request.UpdateBookingRequest{Status: &confirmed})
		assertKind(t, err, apperror.KindInvalidTransition)
	})

	t.Run("only staff record payments", func(t *testing.T) {
		f := newFixture(t)
		room := f.room("101", 100, 2)
		id, err := f.book(f.guest, room.ID, "2024-06-01", "2024-06-03")
		require.NoError(t, err)

		paid := decimal.NewFromInt(50)
		_, err = f.svc.Booking.UpdateBooking(f.ctx, f.guest, id, &request.UpdateBookingRequest{PaidAmount: &paid})
		assertKind(t, err, apperror.KindForbidden)

		resp, err := f.svc.Booking.UpdateBooking(f.ctx, f.staff, id, &request.UpdateBookingRequest{PaidAmount: &paid})
		require.NoError(t, err)
		assert.True(t, paid.Equal(resp.PaidAmount))
	})

	t.Run("checked in dates are frozen", func(t *testing.T) {
		f := newFixture(t)
		room := f.room("101", 100, 2)
		id, err := f.book(f.guest, room.ID, "2024-05-01", "2024-05-03")
		require.NoError(t, err)
		_, err = f.svc.Booking.CheckIn(f.ctx, f.staff, id, nil)
		require.NoError(t, err)

		out := "2024-05-04"
		_, err = f.svc.Booking.UpdateBooking(f.ctx, f.staff, id, &request.UpdateBookingRequest{CheckOutDate: &out})
		assertKind(t, err, apperror.KindInvalidTransition)
	})
}

func TestGuestVisibility(t *testing.T) {
	f := newFixture(t)
	room := f.room("101", 100, 2)
	mine, err := f.book(f.guest, room.ID, "2024-06-01", "2024-06-03")
	require.NoError(t, err)

	stranger := &entity.Actor{ID: uuid.New(), Role: entity.RoleGuest}
	_, err = f.book(stranger, room.ID, "2024-06-10", "2024-06-12")
	require.NoError(t, err)

	_, err = f.svc.Booking.GetBookingByID(f.ctx, stranger, mine)
	assertKind(t, err, apperror.KindForbidden)

	detail, err := f.svc.Booking.GetBookingByID(f.ctx, f.guest, mine)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.Nights)
	require.NotNil(t, detail.Room)
	assert.Equal(t, "101", detail.Room.RoomNumber)

	byCode, err := f.svc.Booking.GetBookingByCode(f.ctx, f.guest, detail.ConfirmationCode)
	require.NoError(t, err)
	assert.Equal(t, mine, byCode.ID)

	page, err := f.svc.Booking.ListBookings(f.ctx, f.guest, &request.ListBookingsRequest{GuestID: stranger.ID.String()})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, mine, page.Data[0].ID)

	all, err := f.svc.Booking.ListBookings(f.ctx, f.staff, &request.ListBookingsRequest{
		PaginatedRequest: request.PaginatedRequest{Limit: 1},
		SortBy:           "check_in_date",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Pagination.Total)
	assert.Equal(t, 2, all.Pagination.TotalPages)
	assert.True(t, all.Pagination.HasNext)
	assert.False(t, all.Pagination.HasPrev)
}

func TestBookingStats(t *testing.T) {
	f := newFixture(t)
	room := f.room("101", 100, 2)
	suite := f.room("201", 250, 4)

	_, err := f.book(f.guest, room.ID, "2024-06-01", "2024-06-03")
	require.NoError(t, err)
	cancelled, err := f.book(f.guest, suite.ID, "2024-06-01", "2024-06-02")
	require.NoError(t, err)
	_, err = f.svc.Booking.CancelBooking(f.ctx, f.guest, cancelled)
	require.NoError(t, err)
	_, err = f.book(f.staff, suite.ID, "2024-07-01", "2024-07-02")
	require.NoError(t, err)

	stats, err := f.svc.Booking.GetStats(f.ctx, f.staff, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, int64(1), stats.Cancelled)
	assert.True(t, decimal.NewFromInt(700).Equal(stats.TotalRevenue), stats.TotalRevenue.String())
	assert.True(t, decimal.RequireFromString("233.33").Equal(stats.AverageBookingValue), stats.AverageBookingValue.String())

	empty, err := f.svc.Booking.GetStats(f.ctx, &entity.Actor{ID: uuid.New(), Role: entity.RoleGuest}, nil)
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.True(t, empty.AverageBookingValue.IsZero())
}

func TestArrivalsAndDepartures(t *testing.T) {
	f := newFixture(t)
	room := f.room("101", 100, 2)
	other := f.room("102", 100, 2)

	arriving, err := f.book(f.guest, room.ID, "2024-05-01", "2024-05-03")
	require.NoError(t, err)
	staying, err := f.book(f.guest, other.ID, "2024-05-01", "2024-05-02")
	require.NoError(t, err)
	_, err = f.svc.Booking.CheckIn(f.ctx, f.staff, staying, nil)
	require.NoError(t, err)

	arrivals, err := f.svc.Booking.GetArrivals(f.ctx, f.staff, &request.DayRequest{})
	require.NoError(t, err)
	require.Len(t, arrivals, 1)
	assert.Equal(t, arriving, arrivals[0].ID)

	departures, err := f.svc.Booking.GetDepartures(f.ctx, f.staff, &request.DayRequest{Date: "2024-05-02"})
	require.NoError(t, err)
	require.Len(t, departures, 1)
	assert.Equal(t, staying, departures[0].ID)

	_, err = f.svc.Booking.GetArrivals(f.ctx, f.guest, nil)
	assertKind(t, err, apperror.KindForbidden)
}

func TestListBookingsDateRangeIncludesEndDay(t *testing.T) {
	f := newFixture(t)
	room := f.room("101", 100, 2)
	id, err := f.book(f.guest, room.ID, "2024-06-01", "2024-06-03")
	require.NoError(t, err)
	_, err = f.book(f.guest, room.ID, "2024-06-03", "2024-06-04")
	require.NoError(t, err)

	tests := []struct {
		name string
		req  request.ListBookingsRequest
		want int64
	}{
		{"check in on the named day", request.ListBookingsRequest{CheckInFrom: "2024-06-01", CheckInTo: "2024-06-01"}, 1},
		{"check out on the named day", request.ListBookingsRequest{CheckOutFrom: "2024-06-03", CheckOutTo: "2024-06-03"}, 1},
		{"check in up to a day", request.ListBookingsRequest{CheckInTo: "2024-06-03"}, 2},
		{"instant bound stays exclusive", request.ListBookingsRequest{CheckInTo: "2024-06-01T00:00:00Z"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			page, err := f.svc.Booking.ListBookings(f.ctx, f.staff, &req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.Pagination.Total)
			if tt.want == 1 && req.CheckInTo == "2024-06-01" {
				assert.Equal(t, id, page.Data[0].ID)
			}
		})
	}

	_, err = f.svc.Booking.ListBookings(f.ctx, f.staff, &request.ListBookingsRequest{CheckInFrom: "next week"})
	assertKind(t, err, apperror.KindValidation)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Details, "check_in_from")
}

func TestCheckInRefreshesExistingStayRecord(t *testing.T) {
	f := newFixture(t)
	room := f.room("101", 100, 2)
	id, err := f.book(f.guest, room.ID, "2024-05-01", "2024-05-03")
	require.NoError(t, err)

	oldNotes := "pre-registered"
	stale := &entity.StayRecord{
		BaseNoDelete:      entity.BaseNoDelete{ID: uuid.New(), CreatedAt: testNow, UpdatedAt: testNow},
		BookingID:         uuid.MustParse(id),
		ActualCheckInTime: testNow.Add(-72 * time.Hour),
		Notes:             &oldNotes,
	}
	require.NoError(t, f.repo.StayRecord.Create(f.ctx, stale))

	at := "2024-05-01T14:30:00Z"
	out, err := f.svc.Booking.CheckIn(f.ctx, f.staff, id, &request.CheckInRequest{At: &at})
	require.NoError(t, err)
	assert.Equal(t, stale.ID.String(), out.StayRecord.ID)
	assert.Equal(t, time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC), out.StayRecord.ActualCheckInTime)
	require.NotNil(t, out.StayRecord.Notes)
	assert.Equal(t, oldNotes, *out.StayRecord.Notes)

	stored, err := f.repo.StayRecord.FindByID(f.ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC), stored.ActualCheckInTime)
}
