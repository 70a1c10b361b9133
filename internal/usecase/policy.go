package usecase

import (
	"github.com/SawLinThant/hotel-management-backend-api/internal/data/entity"
)

// A nil actor is a trusted internal caller and passes every check.

// CanAccess reports whether actor may read or act on booking.
func CanAccess(actor *entity.Actor, booking *entity.Booking) bool {
	if actor == nil || actor.IsStaff() {
		return true
	}
	return actor.IsGuest() && booking.GuestID == actor.ID
}

// CanTransition reports whether actor may move a booking from -> to.
// Staff may take any edge of the state machine; guests may only cancel.
func CanTransition(actor *entity.Actor, from, to entity.BookingStatus) bool {
	if !entity.CanTransition(from, to) {
		return false
	}
	if actor == nil || actor.IsStaff() {
		return true
	}
	return actor.IsGuest() && to == entity.BookingStatusCancelled
}

// CanManage gates front-desk operations.
func CanManage(actor *entity.Actor) bool {
	return actor == nil || actor.IsStaff()
}

func CanDeleteRoom(actor *entity.Actor) bool {
	return actor == nil || actor.Role == entity.RoleAdmin
}
