package usecase

import (
	"github.com/SawLinThant/hotel-management-backend-api/internal/data/repository"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Room       RoomService
	Booking    BookingService
	StayRecord StayRecordService
}

type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	clock Clock
}

// WithClock replaces the wall clock used for past-date and cancellation rules.
func WithClock(clock Clock) ServiceOption {
	return func(o *serviceOptions) {
		o.clock = clock
	}
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger, opts ...ServiceOption) *Service {
	o := serviceOptions{clock: SystemClock}
	for _, opt := range opts {
		opt(&o)
	}

	bookings := newBookingService(repo, config, log, o.clock)
	return &Service{
		Room:       NewRoomService(repo, log, o.clock),
		Booking:    bookings,
		StayRecord: newStayRecordService(repo, bookings, log),
	}
}
