package adaptor

import (
	"net/http"

	"github.com/SawLinThant/hotel-management-backend-api/internal/dto/request"
	"github.com/SawLinThant/hotel-management-backend-api/internal/usecase"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req request.CreateBookingRequest
	if err := decodeJSON(r, &req, false); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking created", booking)
}

// GetBookings handles GET /api/bookings
func (h *BookingHandler) GetBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	// Parse query parameters
	query := r.URL.Query()
	req := &request.ListBookingsRequest{
		PaginatedRequest: paginationFromQuery(r),
		GuestID:          query.Get("guest_id"),
		RoomID:           query.Get("room_id"),
		Status:           query.Get("status"),
		CheckInFrom:      query.Get("check_in_from"),
		CheckInTo:        query.Get("check_in_to"),
		CheckOutFrom:     query.Get("check_out_from"),
		CheckOutTo:       query.Get("check_out_to"),
		Guests:           utils.ParseInt(query.Get("guests"), 0),
		SortBy:           query.Get("sort_by"),
	}

	bookings, err := h.service.ListBookings(r.Context(), actor, req)
	if err != nil {
		handleServiceError(h.log, w, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBookingByID handles GET /api/bookings/{id}
func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	booking, err := h.service.GetBookingByID(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// GetBookingByCode handles GET /api/bookings/code/{code}
func (h *BookingHandler) GetBookingByCode(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	booking, err := h.service.GetBookingByCode(r.Context(), actor, chi.URLParam(r, "code"))
	if err != nil {
		handleServiceError(h.log, w, err, "get booking by code")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// UpdateBooking handles PUT /api/bookings/{id}
func (h *BookingHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req request.UpdateBookingRequest
	if err := decodeJSON(r, &req, false); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.UpdateBooking(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update booking")
		return
	}

	utils.ResponseSuccess(w, "Booking updated", booking)
}

// CancelBooking handles POST /api/bookings/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	booking, err := h.service.CancelBooking(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "Booking cancelled", booking)
}

// DeleteBooking handles DELETE /api/bookings/{id} (staff)
func (h *BookingHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteBooking(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleServiceError(h.log, w, err, "delete booking")
		return
	}

	utils.ResponseSuccess(w, "Booking deleted", nil)
}

// CheckIn handles POST /api/bookings/{id}/check-in (staff)
func (h *BookingHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req request.CheckInRequest
	if err := decodeJSON(r, &req, true); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.CheckIn(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "check in")
		return
	}

	utils.ResponseSuccess(w, "Guest checked in", result)
}

// CheckOut handles POST /api/bookings/{id}/check-out (staff)
func (h *BookingHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req request.CheckOutRequest
	if err := decodeJSON(r, &req, true); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.CheckOut(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "check out")
		return
	}

	utils.ResponseSuccess(w, "Guest checked out", result)
}

// GetStats handles GET /api/bookings/stats
func (h *BookingHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	stats, err := h.service.GetStats(r.Context(), actor, &request.BookingStatsRequest{
		DateFrom: query.Get("date_from"),
		DateTo:   query.Get("date_to"),
	})
	if err != nil {
		handleServiceError(h.log, w, err, "booking stats")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}

// GetArrivals handles GET /api/bookings/arrivals (staff)
func (h *BookingHandler) GetArrivals(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	bookings, err := h.service.GetArrivals(r.Context(), actor, &request.DayRequest{Date: r.URL.Query().Get("date")})
	if err != nil {
		handleServiceError(h.log, w, err, "get arrivals")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetDepartures handles GET /api/bookings/departures (staff)
func (h *BookingHandler) GetDepartures(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	bookings, err := h.service.GetDepartures(r.Context(), actor, &request.DayRequest{Date: r.URL.Query().Get("date")})
	if err != nil {
		handleServiceError(h.log, w, err, "get departures")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

func paginationFromQuery(r *http.Request) request.PaginatedRequest {
	query := r.URL.Query()
	return request.PaginatedRequest{
		Page:      utils.ParseInt(query.Get("page"), 0),
		Limit:     utils.ParseInt(query.Get("limit"), 0),
		SortOrder: query.Get("sort_order"),
	}
}
