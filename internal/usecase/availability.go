package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/SawLinThant/hotel-management-backend-api/internal/data/repository"

	"github.com/google/uuid"
)

// AvailabilityChecker answers whether a room is free for [checkIn, checkOut).
// Only active bookings count and same-day turnover is not an overlap.
// Run it on transaction-bound repositories holding the room lock when the
// answer guards a write.
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, excludeBookingID *uuid.UUID) (bool, error)
}

type availabilityChecker struct {
	bookings repository.BookingRepository
}

func NewAvailabilityChecker(bookings repository.BookingRepository) AvailabilityChecker {
	return &availabilityChecker{bookings: bookings}
}

func (c *availabilityChecker) IsAvailable(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time, excludeBookingID *uuid.UUID) (bool, error) {
	conflicts, err := c.bookings.FindOverlapping(ctx, roomID, checkIn, checkOut, excludeBookingID)
	if err != nil {
		return false, fmt.Errorf("check availability of room %s: %w", roomID, err)
	}
	return len(conflicts) == 0, nil
}
