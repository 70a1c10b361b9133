package adaptor

import (
	"net/http"

	"github.com/SawLinThant/hotel-management-backend-api/internal/dto/request"
	"github.com/SawLinThant/hotel-management-backend-api/internal/usecase"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RoomHandler struct {
	service usecase.RoomService
	log     *zap.Logger
}

func NewRoomHandler(service usecase.RoomService, log *zap.Logger) *RoomHandler {
	return &RoomHandler{
		service: service,
		log:     log.With(zap.String("handler", "room")),
	}
}

// GetRooms handles GET /api/rooms
func (h *RoomHandler) GetRooms(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.ListRoomsRequest{
		PaginatedRequest: paginationFromQuery(r),
		Status:           query.Get("status"),
		Type:             query.Get("type"),
		MinCapacity:      utils.ParseInt(query.Get("capacity"), 0),
		MinPrice:         query.Get("price_per_night_min"),
		MaxPrice:         query.Get("price_per_night_max"),
		Search:           query.Get("search"),
		SortBy:           query.Get("sort_by"),
	}
	if floor := query.Get("floor"); floor != "" {
		v := utils.ParseInt(floor, -1)
		req.Floor = &v
	}

	rooms, err := h.service.GetRooms(r.Context(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "list rooms")
		return
	}

	utils.ResponseSuccess(w, "success", rooms)
}

// GetRoomByID handles GET /api/rooms/{id}
func (h *RoomHandler) GetRoomByID(w http.ResponseWriter, r *http.Request) {
	room, err := h.service.GetRoomByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "get room")
		return
	}

	utils.ResponseSuccess(w, "success", room)
}

// CheckAvailability handles GET /api/rooms/{id}/availability
func (h *RoomHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.CheckAvailability(r.Context(), chi.URLParam(r, "id"), availabilityFromQuery(r))
	if err != nil {
		handleServiceError(h.log, w, err, "check availability")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// FindAvailableRooms handles GET /api/rooms/available
func (h *RoomHandler) FindAvailableRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.service.FindAvailableRooms(r.Context(), availabilityFromQuery(r))
	if err != nil {
		handleServiceError(h.log, w, err, "find available rooms")
		return
	}

	utils.ResponseSuccess(w, "success", rooms)
}

func availabilityFromQuery(r *http.Request) *request.AvailabilityRequest {
	query := r.URL.Query()
	return &request.AvailabilityRequest{
		CheckInDate:  query.Get("check_in_date"),
		CheckOutDate: query.Get("check_out_date"),
		Guests:       utils.ParseInt(query.Get("guests"), 0),
	}
}

// CreateRoom handles POST /api/rooms (staff)
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req request.CreateRoomRequest
	if err := decodeJSON(r, &req, false); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	room, err := h.service.CreateRoom(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create room")
		return
	}

	utils.ResponseCreated(w, "Room created", room)
}

// UpdateRoom handles PUT /api/rooms/{id} (staff)
func (h *RoomHandler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req request.UpdateRoomRequest
	if err := decodeJSON(r, &req, false); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	room, err := h.service.UpdateRoom(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update room")
		return
	}

	utils.ResponseSuccess(w, "Room updated", room)
}

// UpdateRoomStatus handles PATCH /api/rooms/{id}/status (staff)
func (h *RoomHandler) UpdateRoomStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req request.UpdateRoomStatusRequest
	if err := decodeJSON(r, &req, false); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	room, err := h.service.UpdateRoomStatus(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update room status")
		return
	}

	utils.ResponseSuccess(w, "Room status updated", room)
}

// DeleteRoom handles DELETE /api/rooms/{id} (admin)
func (h *RoomHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteRoom(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleServiceError(h.log, w, err, "delete room")
		return
	}

	utils.ResponseSuccess(w, "Room deleted", nil)
}

// GetStats handles GET /api/rooms/stats (staff)
func (h *RoomHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	stats, err := h.service.GetStats(r.Context(), actor)
	if err != nil {
		handleServiceError(h.log, w, err, "room stats")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}
