package wire

import (
	"github.com/SawLinThant/hotel-management-backend-api/internal/adaptor"
	"github.com/SawLinThant/hotel-management-backend-api/internal/data/entity"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireRoom(r chi.Router, roomHandler *adaptor.RoomHandler, log *zap.Logger) {
	r.Route("/rooms", func(r chi.Router) {
		// Catalogue and availability, any authenticated user
		r.Get("/", roomHandler.GetRooms)
		r.Get("/available", roomHandler.FindAvailableRooms)
		r.Get("/{id}", roomHandler.GetRoomByID)
		r.Get("/{id}/availability", roomHandler.CheckAvailability)

		// Room management
		r.Group(func(r chi.Router) {
			r.Use(staffOnly(log))

			r.Get("/stats", roomHandler.GetStats)
			r.Post("/", roomHandler.CreateRoom)
			r.Put("/{id}", roomHandler.UpdateRoom)
			r.Patch("/{id}/status", roomHandler.UpdateRoomStatus)
		})

		r.With(middleware.RequireRoles(log, entity.RoleAdmin)).Delete("/{id}", roomHandler.DeleteRoom)
	})
}
