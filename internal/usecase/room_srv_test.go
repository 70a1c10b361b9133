package usecase

import (
	"testing"
	"time"

	"github.com/SawLinThant/hotel-management-backend-api/internal/data/entity"
	"github.com/SawLinThant/hotel-management-backend-api/internal/dto/request"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRoomRequest(number string) *request.CreateRoomRequest {
	return &request.CreateRoomRequest{
		RoomNumber:    number,
		Type:          "suite",
		Capacity:      3,
		PricePerNight: decimal.RequireFromString("180.00"),
	}
}

func TestCreateRoom(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Room.CreateRoom(f.ctx, f.guest, createRoomRequest("301"))
	assertKind(t, err, apperror.KindForbidden)

	room, err := f.svc.Room.CreateRoom(f.ctx, f.staff, createRoomRequest("301"))
	require.NoError(t, err)
	assert.Equal(t, entity.RoomStatusAvailable, room.Status)
	assert.Equal(t, entity.RoomTypeSuite, room.Type)

	_, err = f.svc.Room.CreateRoom(f.ctx, f.staff, createRoomRequest(" 301 "))
	assertKind(t, err, apperror.KindConflict)
	assert.Contains(t, err.Error(), "room number 301 already exists")

	negative := createRoomRequest("302")
	negative.PricePerNight = decimal.NewFromInt(-1)
	_, err = f.svc.Room.CreateRoom(f.ctx, f.staff, negative)
	assertKind(t, err, apperror.KindValidation)
}

func TestUpdateRoomAndStatus(t *testing.T) {
	f := newFixture(t)
	room := f.room("101", 100, 2)
	f.room("102", 100, 2)

	taken := "102"
	_, err := f.svc.Room.UpdateRoom(f.ctx, f.staff, room.ID.String(), &request.UpdateRoomRequest{RoomNumber: &taken})
	assertKind(t, err, apperror.KindConflict)

	own := "101"
	_, err = f.svc.Room.UpdateRoom(f.ctx, f.staff, room.ID.String(), &request.UpdateRoomRequest{RoomNumber: &own})
	require.NoError(t, err)

	price := decimal.RequireFromString("120.00")
	updated, err := f.svc.Room.UpdateRoom(f.ctx, f.staff, room.ID.String(), &request.UpdateRoomRequest{PricePerNight: &price})
	require.NoError(t, err)
	assert.True(t, price.Equal(updated.PricePerNight))
	assert.Equal(t, "101", updated.RoomNumber)

	status, err := f.svc.Room.UpdateRoomStatus(f.ctx, f.staff, room.ID.String(), &request.UpdateRoomStatusRequest{Status: "maintenance"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoomStatusMaintenance, status.Status)

	_, err = f.svc.Room.UpdateRoomStatus(f.ctx, f.staff, uuid.NewString(), &request.UpdateRoomStatusRequest{Status: "cleaning"})
	assertKind(t, err, apperror.KindNotFound)
}

func TestDeleteRoom(t *testing.T) {
	f := newFixture(t)
	room := f.room("101", 100, 2)
	id, err := f.book(f.guest, room.ID, "2024-06-01", "2024-06-03")
	require.NoError(t, err)

	assertKind(t, f.svc.Room.DeleteRoom(f.ctx, f.staff, room.ID.String()), apperror.KindForbidden)
	assertKind(t, f.svc.Room.DeleteRoom(f.ctx, f.admin, room.ID.String()), apperror.KindConflict)

	_, err = f.svc.Booking.CancelBooking(f.ctx, f.guest, id)
	require.NoError(t, err)
	assertKind(t, f.svc.Room.DeleteRoom(f.ctx, f.admin, room.ID.String()), apperror.KindConflict)

	require.NoError(t, f.svc.Booking.DeleteBooking(f.ctx, f.staff, id))
	require.NoError(t, f.svc.Room.DeleteRoom(f.ctx, f.admin, room.ID.String()))
	_, err = f.svc.Room.GetRoomByID(f.ctx, room.ID.String())
	assertKind(t, err, apperror.KindNotFound)
}

func TestRoomAvailability(t *testing.T) {
	f := newFixture(t)
	room := f.room("101", 100, 2)
	free := f.room("102", 90, 4)
	_, err := f.book(f.guest, room.ID, "2024-06-01", "2024-06-03")
	require.NoError(t, err)

	busy, err := f.svc.Room.CheckAvailability(f.ctx, room.ID.String(), &request.AvailabilityRequest{
		CheckInDate:  "2024-06-02",
		CheckOutDate: "2024-06-04",
	})
	require.NoError(t, err)
	assert.False(t, busy.Available)
	assert.Equal(t, 2, busy.Nights)
	assert.True(t, decimal.NewFromInt(200).Equal(busy.TotalAmount))

	turnover, err := f.svc.Room.CheckAvailability(f.ctx, room.ID.String(), &request.AvailabilityRequest{
		CheckInDate:  "2024-06-03",
		CheckOutDate: "2024-06-04",
	})
	require.NoError(t, err)
	assert.True(t, turnover.Available)

	_, err = f.svc.Room.CheckAvailability(f.ctx, room.ID.String(), &request.AvailabilityRequest{
		CheckInDate:  "2024-06-03",
		CheckOutDate: "2024-06-04",
		Guests:       3,
	})
	assertKind(t, err, apperror.KindCapacityExceeded)

	_, err = f.svc.Room.CheckAvailability(f.ctx, room.ID.String(), &request.AvailabilityRequest{
		CheckInDate:  "2024-06-04",
		CheckOutDate: "2024-06-03",
	})
	assertKind(t, err, apperror.KindInvalidRange)

	rooms, err := f.svc.Room.FindAvailableRooms(f.ctx, &request.AvailabilityRequest{
		CheckInDate:  "2024-06-02",
		CheckOutDate: "2024-06-04",
		Guests:       2,
	})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, free.ID.String(), rooms[0].ID)
}

func TestRoomListAndStats(t *testing.T) {
	f := newFixture(t)
	a := f.room("101", 100, 2)
	f.room("102", 150, 2)
	f.room("201", 300, 4)

	_, err := f.svc.Room.UpdateRoomStatus(f.ctx, f.staff, a.ID.String(), &request.UpdateRoomStatusRequest{Status: "occupied"})
	require.NoError(t, err)

	page, err := f.svc.Room.GetRooms(f.ctx, &request.ListRoomsRequest{
		MinPrice: "120",
		SortBy:   "price_per_night",
		PaginatedRequest: request.PaginatedRequest{
			SortOrder: "asc",
		},
	})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "102", page.Data[0].RoomNumber)
	assert.Equal(t, "201", page.Data[1].RoomNumber)

	stats, err := f.svc.Room.GetStats(f.ctx, f.staff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Occupied)
	assert.Equal(t, int64(2), stats.Available)
	assert.Equal(t, int64(3), stats.ByType["double"])
	assert.Equal(t, int64(0), stats.ByType["suite"])
	assert.Equal(t, "33.33", stats.OccupancyRate)

	_, err = f.svc.Room.GetStats(f.ctx, f.guest)
	assertKind(t, err, apperror.KindForbidden)
}

func TestDeleteRoomKeepsFinishedStays(t *testing.T) {
	f := newFixture(t)
	room := f.room("101", 100, 2)
	id, err := f.book(f.guest, room.ID, "2024-05-01", "2024-05-03")
	require.NoError(t, err)
	_, err = f.svc.Booking.CheckIn(f.ctx, f.staff, id, nil)
	require.NoError(t, err)
	f.now = testNow.Add(48 * time.Hour)
	_, err = f.svc.Booking.CheckOut(f.ctx, f.staff, id, nil)
	require.NoError(t, err)

	assertKind(t, f.svc.Booking.DeleteBooking(f.ctx, f.staff, id), apperror.KindInvalidTransition)
	assertKind(t, f.svc.Room.DeleteRoom(f.ctx, f.admin, room.ID.String()), apperror.KindConflict)

	assert.Equal(t, entity.BookingStatusCheckedOut, f.booking(id).Status)
	stats, err := f.svc.Booking.GetStats(f.ctx, f.staff, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)
	assert.True(t, decimal.NewFromInt(200).Equal(stats.TotalRevenue), stats.TotalRevenue.String())
}
