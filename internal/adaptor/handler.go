package adaptor

import (
	"github.com/SawLinThant/hotel-management-backend-api/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Room       *RoomHandler
	Booking    *BookingHandler
	StayRecord *StayRecordHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Room:       NewRoomHandler(service.Room, log),
		Booking:    NewBookingHandler(service.Booking, log),
		StayRecord: NewStayRecordHandler(service.StayRecord, log),
	}
}
