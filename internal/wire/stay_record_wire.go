package wire

import (
	"github.com/SawLinThant/hotel-management-backend-api/internal/adaptor"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireStayRecord(r chi.Router, stayHandler *adaptor.StayRecordHandler, log *zap.Logger) {
	r.Route("/stay-records", func(r chi.Router) {
		r.Get("/", stayHandler.GetStayRecords)
		r.Get("/{id}", stayHandler.GetStayRecordByID)

		r.Group(func(r chi.Router) {
			r.Use(staffOnly(log))

			r.Post("/", stayHandler.CreateStayRecord)
			r.Get("/stats", stayHandler.GetStats)
			r.Put("/{id}", stayHandler.UpdateStayRecord)
			r.Post("/{id}/checkout", stayHandler.CheckOut)
		})
	})
}
