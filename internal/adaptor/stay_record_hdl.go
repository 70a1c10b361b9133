package adaptor

import (
	"net/http"
	"strconv"

	"github.com/SawLinThant/hotel-management-backend-api/internal/dto/request"
	"github.com/SawLinThant/hotel-management-backend-api/internal/usecase"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type StayRecordHandler struct {
	service usecase.StayRecordService
	log     *zap.Logger
}

func NewStayRecordHandler(service usecase.StayRecordService, log *zap.Logger) *StayRecordHandler {
	return &StayRecordHandler{
		service: service,
		log:     log.With(zap.String("handler", "stay_record")),
	}
}

// CreateStayRecord handles POST /api/stay-records (staff)
func (h *StayRecordHandler) CreateStayRecord(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req request.CreateStayRecordRequest
	if err := decodeJSON(r, &req, false); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.CreateStayRecord(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create stay record")
		return
	}

	utils.ResponseCreated(w, "Stay record created", result)
}

// GetStayRecords handles GET /api/stay-records
func (h *StayRecordHandler) GetStayRecords(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	activeOnly, _ := strconv.ParseBool(query.Get("active"))
	req := &request.ListStayRecordsRequest{
		PaginatedRequest: paginationFromQuery(r),
		BookingID:        query.Get("booking_id"),
		GuestID:          query.Get("guest_id"),
		RoomID:           query.Get("room_id"),
		CheckInFrom:      query.Get("check_in_from"),
		CheckInTo:        query.Get("check_in_to"),
		CheckOutFrom:     query.Get("check_out_from"),
		CheckOutTo:       query.Get("check_out_to"),
		ActiveOnly:       activeOnly,
		SortBy:           query.Get("sort_by"),
	}

	records, err := h.service.ListStayRecords(r.Context(), actor, req)
	if err != nil {
		handleServiceError(h.log, w, err, "list stay records")
		return
	}

	utils.ResponseSuccess(w, "success", records)
}

// GetStayRecordByID handles GET /api/stay-records/{id}
func (h *StayRecordHandler) GetStayRecordByID(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	record, err := h.service.GetStayRecordByID(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "get stay record")
		return
	}

	utils.ResponseSuccess(w, "success", record)
}

// UpdateStayRecord handles PUT /api/stay-records/{id} (staff)
func (h *StayRecordHandler) UpdateStayRecord(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req request.UpdateStayRecordRequest
	if err := decodeJSON(r, &req, false); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	record, err := h.service.UpdateStayRecord(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update stay record")
		return
	}

	utils.ResponseSuccess(w, "Stay record updated", record)
}

// CheckOut handles POST /api/stay-records/{id}/checkout (staff)
func (h *StayRecordHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req request.CheckOutStayRequest
	if err := decodeJSON(r, &req, true); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.CheckOutStay(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "check out stay")
		return
	}

	utils.ResponseSuccess(w, "Guest checked out", result)
}

// GetStats handles GET /api/stay-records/stats (staff)
func (h *StayRecordHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	stats, err := h.service.GetStats(r.Context(), actor)
	if err != nil {
		handleServiceError(h.log, w, err, "stay record stats")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}
