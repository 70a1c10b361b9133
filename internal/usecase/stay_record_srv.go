package usecase

import (
	"context"
	"time"

	"github.com/SawLinThant/hotel-management-backend-api/internal/data/entity"
	"github.com/SawLinThant/hotel-management-backend-api/internal/data/repository"
	"github.com/SawLinThant/hotel-management-backend-api/internal/dto/request"
	"github.com/SawLinThant/hotel-management-backend-api/internal/dto/response"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/apperror"

	"go.uber.org/zap"
)

type StayRecordService interface {
	CreateStayRecord(ctx context.Context, actor *entity.Actor, req *request.CreateStayRecordRequest) (*response.StayTransitionResponse, error)
	GetStayRecordByID(ctx context.Context, actor *entity.Actor, stayRecordID string) (*response.StayRecordDetailResponse, error)
	ListStayRecords(ctx context.Context, actor *entity.Actor, req *request.ListStayRecordsRequest) (*response.PaginatedResponse[response.StayRecordResponse], error)
	UpdateStayRecord(ctx context.Context, actor *entity.Actor, stayRecordID string, req *request.UpdateStayRecordRequest) (*response.StayRecordResponse, error)
	CheckOutStay(ctx context.Context, actor *entity.Actor, stayRecordID string, req *request.CheckOutStayRequest) (*response.StayTransitionResponse, error)
	GetStats(ctx context.Context, actor *entity.Actor) (*response.StayRecordStatsResponse, error)
}

type stayRecordService struct {
	repo     *repository.Repository
	bookings *bookingService
	log      *zap.Logger
}

// newStayRecordService shares the booking engine so stay writes follow the same
// locking and transition rules as check-in/check-out on bookings.
func newStayRecordService(repo *repository.Repository, bookings *bookingService, log *zap.Logger) StayRecordService {
	return &stayRecordService{
		repo:     repo,
		bookings: bookings,
		log:      log.With(zap.String("service", "stay_record")),
	}
}

func (s *stayRecordService) CreateStayRecord(ctx context.Context, actor *entity.Actor, req *request.CreateStayRecordRequest) (*response.StayTransitionResponse, error) {
	if !CanManage(actor) {
		return nil, apperror.Forbidden("only staff can create stay records")
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	bookingID, err := parseID("booking_id", req.BookingID)
	if err != nil {
		return nil, err
	}
	var at *time.Time
	if req.ActualCheckInTime != nil {
		if at, err = parseOptionalDate("actual_check_in_time", *req.ActualCheckInTime); err != nil {
			return nil, err
		}
	}

	return s.bookings.checkIn(ctx, bookingID, at, req.Notes, true)
}

func (s *stayRecordService) GetStayRecordByID(ctx context.Context, actor *entity.Actor, stayRecordID string) (*response.StayRecordDetailResponse, error) {
	id, err := parseID("stay_record_id", stayRecordID)
	if err != nil {
		return nil, err
	}

	stay, err := s.repo.StayRecord.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(s.log, err, "get stay record", "")
	}
	if stay == nil {
		return nil, apperror.NotFound("stay record not found")
	}

	booking, err := s.repo.Booking.FindByID(ctx, stay.BookingID)
	if err != nil {
		return nil, storeError(s.log, err, "get stay record booking", "")
	}
	if booking == nil {
		return nil, apperror.NotFound("stay record not found")
	}
	if !CanAccess(actor, booking) {
		return nil, apperror.Forbidden("access denied")
	}

	bookingResp := response.BookingToResponse(booking)
	return &response.StayRecordDetailResponse{
		StayRecordResponse: response.StayRecordToResponse(stay),
		Booking:            &bookingResp,
	}, nil
}

func (s *stayRecordService) ListStayRecords(ctx context.Context, actor *entity.Actor, req *request.ListStayRecordsRequest) (*response.PaginatedResponse[response.StayRecordResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	filter, err := stayRecordFilter(actor, req)
	if err != nil {
		return nil, err
	}

	page, limit := req.Normalized()
	records, err := s.repo.StayRecord.FindAll(ctx, filter, repository.Page{
		Limit:     limit,
		Offset:    req.Offset(),
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		return nil, storeError(s.log, err, "list stay records", "")
	}

	// Get total count
	total, err := s.repo.StayRecord.Count(ctx, filter)
	if err != nil {
		return nil, storeError(s.log, err, "count stay records", "")
	}

	data := make([]response.StayRecordResponse, 0, len(records))
	for _, r := range records {
		data = append(data, response.StayRecordToResponse(r))
	}
	return response.NewPaginatedResponse(data, page, limit, total), nil
}

func stayRecordFilter(actor *entity.Actor, req *request.ListStayRecordsRequest) (repository.StayRecordFilter, error) {
	filter := repository.StayRecordFilter{ActiveOnly: req.ActiveOnly}
	var err error

	if filter.BookingID, err = parseOptionalID("booking_id", req.BookingID); err != nil {
		return filter, err
	}
	if filter.GuestID, err = parseOptionalID("guest_id", req.GuestID); err != nil {
		return filter, err
	}
	if filter.RoomID, err = parseOptionalID("room_id", req.RoomID); err != nil {
		return filter, err
	}
	if filter.CheckInFrom, err = parseOptionalDate("check_in_from", req.CheckInFrom); err != nil {
		return filter, err
	}
	if filter.CheckInTo, err = parseRangeEnd("check_in_to", req.CheckInTo); err != nil {
		return filter, err
	}
	if filter.CheckOutFrom, err = parseOptionalDate("check_out_from", req.CheckOutFrom); err != nil {
		return filter, err
	}
	if filter.CheckOutTo, err = parseRangeEnd("check_out_to", req.CheckOutTo); err != nil {
		return filter, err
	}

	switch {
	case actor.IsGuest():
		self := actor.ID
		filter.GuestID = &self
	case !CanManage(actor):
		return filter, apperror.Forbidden("access denied")
	}
	return filter, nil
}

func (s *stayRecordService) UpdateStayRecord(ctx context.Context, actor *entity.Actor, stayRecordID string, req *request.UpdateStayRecordRequest) (*response.StayRecordResponse, error) {
	if !CanManage(actor) {
		return nil, apperror.Forbidden("only staff can update stay records")
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	id, err := parseID("stay_record_id", stayRecordID)
	if err != nil {
		return nil, err
	}

	var charges []entity.Charge
	if req.AdditionalCharges != nil {
		if charges, err = toCharges(*req.AdditionalCharges); err != nil {
			return nil, err
		}
	}

	var updated *entity.StayRecord
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		stay, err := tx.StayRecord.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if stay == nil {
			return apperror.NotFound("stay record not found")
		}

		// Serialise with check-out on the same booking
		if _, _, err := lockBooking(ctx, tx, stay.BookingID); err != nil {
			return err
		}
		if stay, err = tx.StayRecord.FindByID(ctx, id); err != nil {
			return err
		}
		if stay == nil {
			return apperror.NotFound("stay record not found")
		}

		if req.Notes != nil {
			notes := *req.Notes
			stay.Notes = &notes
		}
		if req.AdditionalCharges != nil {
			stay.AdditionalCharges = charges
		}
		stay.UpdatedAt = s.bookings.now()

		if err := tx.StayRecord.Update(ctx, stay); err != nil {
			return err
		}
		updated = stay
		return nil
	})
	if err != nil {
		err = storeError(s.log, err, "update stay record", "")
		s.log.Warn("Update stay record rejected",
			zap.String("stay_record_id", id.String()),
			zap.String("kind", string(apperror.KindOf(err))),
		)
		return nil, err
	}

	s.log.Info("Stay record updated", zap.String("stay_record_id", id.String()))
	resp := response.StayRecordToResponse(updated)
	return &resp, nil
}

func (s *stayRecordService) CheckOutStay(ctx context.Context, actor *entity.Actor, stayRecordID string, req *request.CheckOutStayRequest) (*response.StayTransitionResponse, error) {
	if !CanManage(actor) {
		return nil, apperror.Forbidden("only staff can check guests out")
	}
	if req == nil {
		req = &request.CheckOutStayRequest{}
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	id, err := parseID("stay_record_id", stayRecordID)
	if err != nil {
		return nil, err
	}
	var at *time.Time
	if req.ActualCheckOutTime != nil {
		if at, err = parseOptionalDate("actual_check_out_time", *req.ActualCheckOutTime); err != nil {
			return nil, err
		}
	}
	charges, err := toCharges(req.AdditionalCharges)
	if err != nil {
		return nil, err
	}

	stay, err := s.repo.StayRecord.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(s.log, err, "get stay record", "")
	}
	if stay == nil {
		return nil, apperror.NotFound("stay record not found")
	}

	return s.bookings.checkOut(ctx, stay.BookingID, at, req.Notes, charges)
}

func (s *stayRecordService) GetStats(ctx context.Context, actor *entity.Actor) (*response.StayRecordStatsResponse, error) {
	if !CanManage(actor) {
		return nil, apperror.Forbidden("only staff can view stay statistics")
	}

	stats, err := s.repo.StayRecord.Stats(ctx)
	if err != nil {
		return nil, storeError(s.log, err, "stay record stats", "")
	}

	return &response.StayRecordStatsResponse{
		Total:     stats.Total,
		Active:    stats.Active,
		Completed: stats.Completed,
	}, nil
}
