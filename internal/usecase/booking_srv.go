package usecase

import (
	"context"
	"time"

	"github.com/SawLinThant/hotel-management-backend-api/internal/data/entity"
	"github.com/SawLinThant/hotel-management-backend-api/internal/data/repository"
	"github.com/SawLinThant/hotel-management-backend-api/internal/dto/request"
	"github.com/SawLinThant/hotel-management-backend-api/internal/dto/response"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/apperror"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultCancelWindow = 24 * time.Hour
	// upper bound for the unpaginated arrival/departure boards
	dayBoardLimit = 1000
)

const conflictUnavailable = "room is not available for the selected dates"

type BookingService interface {
	CreateBooking(ctx context.Context, actor *entity.Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetBookingByID(ctx context.Context, actor *entity.Actor, bookingID string) (*response.BookingDetailResponse, error)
	GetBookingByCode(ctx context.Context, actor *entity.Actor, code string) (*response.BookingDetailResponse, error)
	ListBookings(ctx context.Context, actor *entity.Actor, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	UpdateBooking(ctx context.Context, actor *entity.Actor, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, actor *entity.Actor, bookingID string) (*response.BookingResponse, error)
	DeleteBooking(ctx context.Context, actor *entity.Actor, bookingID string) error

	// Front desk
	CheckIn(ctx context.Context, actor *entity.Actor, bookingID string, req *request.CheckInRequest) (*response.StayTransitionResponse, error)
	CheckOut(ctx context.Context, actor *entity.Actor, bookingID string, req *request.CheckOutRequest) (*response.StayTransitionResponse, error)
	GetArrivals(ctx context.Context, actor *entity.Actor, req *request.DayRequest) ([]response.BookingResponse, error)
	GetDepartures(ctx context.Context, actor *entity.Actor, req *request.DayRequest) ([]response.BookingResponse, error)

	// Reporting
	GetStats(ctx context.Context, actor *entity.Actor, req *request.BookingStatsRequest) (*response.BookingStatsResponse, error)
}

type bookingService struct {
	repo         *repository.Repository
	clock        Clock
	cancelWindow time.Duration
	log          *zap.Logger
}

func NewBookingService(repo *repository.Repository, config *utils.Config, log *zap.Logger, clock Clock) BookingService {
	return newBookingService(repo, config, log, clock)
}

func newBookingService(repo *repository.Repository, config *utils.Config, log *zap.Logger, clock Clock) *bookingService {
	window := defaultCancelWindow
	if config != nil && config.Booking.CancelWindow > 0 {
		window = config.Booking.CancelWindow
	}
	if clock == nil {
		clock = SystemClock
	}
	return &bookingService{
		repo:         repo,
		clock:        clock,
		cancelWindow: window,
		log:          log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) now() time.Time {
	return s.clock().UTC()
}

func (s *bookingService) CreateBooking(ctx context.Context, actor *entity.Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create booking validation failed", zap.Error(err))
		return nil, err
	}

	roomID, err := parseID("room_id", req.RoomID)
	if err != nil {
		return nil, err
	}
	checkIn, err := parseDate("check_in_date", req.CheckInDate)
	if err != nil {
		return nil, err
	}
	checkOut, err := parseDate("check_out_date", req.CheckOutDate)
	if err != nil {
		return nil, err
	}
	guestID, err := s.resolveGuest(actor, req.GuestID)
	if err != nil {
		return nil, err
	}

	if !checkIn.Before(checkOut) {
		return nil, apperror.New(apperror.KindInvalidRange, "check-in date must be before check-out date")
	}
	current := s.now()
	if s.isPast(checkIn, current) {
		return nil, apperror.New(apperror.KindPastDate, "check-in date cannot be in the past")
	}

	booking := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: current,
			UpdatedAt: current,
		},
		RoomID:           roomID,
		GuestID:          guestID,
		CheckInDate:      checkIn,
		CheckOutDate:     checkOut,
		Guests:           req.Guests,
		Status:           entity.BookingStatusPending,
		PaidAmount:       decimal.Zero,
		SpecialRequests:  req.SpecialRequests,
		ConfirmationCode: utils.GenerateConfirmationCode(current),
	}

	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		catalog := NewRoomCatalog(tx.Room)
		room, err := catalog.Lock(ctx, roomID)
		if err != nil {
			return err
		}

		total, err := catalog.CheckCapacityAndPrice(room, checkIn, checkOut, req.Guests)
		if err != nil {
			return err
		}

		available, err := NewAvailabilityChecker(tx.Booking).IsAvailable(ctx, roomID, checkIn, checkOut, nil)
		if err != nil {
			return err
		}
		if !available {
			return apperror.Conflict(conflictUnavailable)
		}

		booking.TotalAmount = total
		return tx.Booking.Create(ctx, booking)
	})
	if err != nil {
		err = storeError(s.log, err, "create booking", conflictUnavailable)
		s.log.Warn("Create booking rejected",
			zap.String("room_id", roomID.String()),
			zap.String("kind", string(apperror.KindOf(err))),
		)
		return nil, err
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("confirmation_code", booking.ConfirmationCode),
		zap.String("room_id", roomID.String()),
		zap.String("guest_id", guestID.String()),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// resolveGuest picks the guest a new booking belongs to.
// Guests always book for themselves; staff must name the guest.
func (s *bookingService) resolveGuest(actor *entity.Actor, requested string) (uuid.UUID, error) {
	switch {
	case actor.IsGuest():
		if requested == "" {
			return actor.ID, nil
		}
		id, err := parseID("guest_id", requested)
		if err != nil {
			return uuid.Nil, err
		}
		if id != actor.ID {
			return uuid.Nil, apperror.Forbidden("guests can only book for themselves")
		}
		return id, nil
	case CanManage(actor):
		if requested == "" {
			return uuid.Nil, apperror.Validation("guest_id is required", map[string]string{"guest_id": "This field is required"})
		}
		return parseID("guest_id", requested)
	}
	return uuid.Nil, apperror.Forbidden("access denied")
}

func (s *bookingService) isPast(checkIn, current time.Time) bool {
	return checkIn.Before(current)
}

// lockBooking loads a booking, locks its room and re-reads the booking under the lock.
func lockBooking(ctx context.Context, tx *repository.Repository, id uuid.UUID) (*entity.Booking, *entity.Room, error) {
	booking, err := tx.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if booking == nil {
		return nil, nil, apperror.NotFound("booking not found")
	}

	room, err := NewRoomCatalog(tx.Room).Lock(ctx, booking.RoomID)
	if err != nil {
		return nil, nil, err
	}

	booking, err = tx.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if booking == nil {
		return nil, nil, apperror.NotFound("booking not found")
	}
	return booking, room, nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, actor *entity.Actor, bookingID string) (*response.BookingDetailResponse, error) {
	id, err := parseID("booking_id", bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(s.log, err, "get booking", "")
	}
	return s.detail(ctx, actor, booking)
}

func (s *bookingService) GetBookingByCode(ctx context.Context, actor *entity.Actor, code string) (*response.BookingDetailResponse, error) {
	if code == "" {
		return nil, apperror.Validation("confirmation code is required", map[string]string{"code": "This field is required"})
	}

	booking, err := s.repo.Booking.FindByConfirmationCode(ctx, code)
	if err != nil {
		return nil, storeError(s.log, err, "get booking by code", "")
	}
	return s.detail(ctx, actor, booking)
}

func (s *bookingService) detail(ctx context.Context, actor *entity.Actor, booking *entity.Booking) (*response.BookingDetailResponse, error) {
	if booking == nil {
		return nil, apperror.NotFound("booking not found")
	}
	if !CanAccess(actor, booking) {
		s.log.Warn("Booking access denied",
			zap.String("booking_id", booking.ID.String()),
			zap.String("actor_id", actor.ID.String()),
		)
		return nil, apperror.Forbidden("access denied")
	}

	resp := &response.BookingDetailResponse{
		BookingResponse: response.BookingToResponse(booking),
		Nights:          booking.Nights(),
	}

	room, err := s.repo.Room.FindByID(ctx, booking.RoomID)
	if err != nil {
		return nil, storeError(s.log, err, "get booking room", "")
	}
	if room != nil {
		roomResp := response.RoomToResponse(room)
		resp.Room = &roomResp
	}

	stay, err := s.repo.StayRecord.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, storeError(s.log, err, "get booking stay record", "")
	}
	if stay != nil {
		stayResp := response.StayRecordToResponse(stay)
		resp.StayRecord = &stayResp
	}

	return resp, nil
}

func (s *bookingService) ListBookings(ctx context.Context, actor *entity.Actor, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	filter, err := s.bookingFilter(actor, req)
	if err != nil {
		return nil, err
	}

	page, limit := req.Normalized()
	bookings, err := s.repo.Booking.FindAll(ctx, filter, repository.Page{
		Limit:     limit,
		Offset:    req.Offset(),
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		return nil, storeError(s.log, err, "list bookings", "")
	}

	total, err := s.repo.Booking.Count(ctx, filter)
	if err != nil {
		return nil, storeError(s.log, err, "count bookings", "")
	}

	data := make([]response.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		data = append(data, response.BookingToResponse(b))
	}
	return response.NewPaginatedResponse(data, page, limit, total), nil
}

// bookingFilter builds the store filter. Guests are always scoped to their own bookings.
func (s *bookingService) bookingFilter(actor *entity.Actor, req *request.ListBookingsRequest) (repository.BookingFilter, error) {
	var filter repository.BookingFilter
	var err error

	if filter.GuestID, err = parseOptionalID("guest_id", req.GuestID); err != nil {
		return filter, err
	}
	if filter.RoomID, err = parseOptionalID("room_id", req.RoomID); err != nil {
		return filter, err
	}
	if req.Status != "" {
		status, ok := entity.ParseBookingStatus(req.Status)
		if !ok {
			return filter, apperror.Validation("invalid status", map[string]string{"status": "Unknown booking status"})
		}
		filter.Statuses = []entity.BookingStatus{status}
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
	if req.Guests > 0 {
		guests := req.Guests
		filter.Guests = &guests
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

func (s *bookingService) UpdateBooking(ctx context.Context, actor *entity.Actor, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	id, err := parseID("booking_id", bookingID)
	if err != nil {
		return nil, err
	}

	var target *entity.BookingStatus
	if req.Status != nil {
		status, ok := entity.ParseBookingStatus(*req.Status)
		if !ok {
			return nil, apperror.Validation("invalid status", map[string]string{"status": "Unknown booking status"})
		}
		target = &status
	}

	var newCheckIn, newCheckOut *time.Time
	if req.CheckInDate != nil {
		t, err := parseDate("check_in_date", *req.CheckInDate)
		if err != nil {
			return nil, err
		}
		newCheckIn = &t
	}
	if req.CheckOutDate != nil {
		t, err := parseDate("check_out_date", *req.CheckOutDate)
		if err != nil {
			return nil, err
		}
		newCheckOut = &t
	}
	if req.PaidAmount != nil && req.PaidAmount.IsNegative() {
		return nil, apperror.Validation("invalid paid_amount", map[string]string{"paid_amount": "Must be greater than or equal to 0"})
	}

	changesStay := newCheckIn != nil || newCheckOut != nil || req.Guests != nil
	if target != nil && *target == entity.BookingStatusCancelled && (changesStay || req.PaidAmount != nil) {
		return nil, apperror.Validation("cancellation cannot be combined with other changes", nil)
	}

	var updated *entity.Booking
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		booking, room, err := lockBooking(ctx, tx, id)
		if err != nil {
			return err
		}
		if !CanAccess(actor, booking) {
			return apperror.Forbidden("access denied")
		}
		if req.PaidAmount != nil && !CanManage(actor) {
			return apperror.Forbidden("only staff can record payments")
		}

		current := s.now()

		if target != nil {
			switch {
			case *target == entity.BookingStatusCancelled:
				if err := s.applyCancel(actor, booking, current); err != nil {
					return err
				}
			case *target == booking.Status:
				// no-op
			case *target != entity.BookingStatusConfirmed:
				return apperror.InvalidTransition("status %s can only be reached through its own operation", *target)
			case !entity.CanTransition(booking.Status, *target):
				return apperror.InvalidTransition("cannot change booking from %s to %s", booking.Status, *target)
			case !CanTransition(actor, booking.Status, *target):
				return apperror.Forbidden("not allowed to change booking to %s", *target)
			default:
				booking.Status = *target
			}
		}

		if changesStay {
			if err := s.applyStayChanges(ctx, tx, booking, room, newCheckIn, newCheckOut, req.Guests, current); err != nil {
				return err
			}
		}

		if req.SpecialRequests != nil {
			booking.SpecialRequests = utils.StringPtr(*req.SpecialRequests)
		}
		if req.PaidAmount != nil {
			booking.PaidAmount = *req.PaidAmount
		}

		booking.UpdatedAt = current
		if err := tx.Booking.Update(ctx, booking); err != nil {
			return err
		}
		updated = booking
		return nil
	})
	if err != nil {
		err = storeError(s.log, err, "update booking", conflictUnavailable)
		s.log.Warn("Update booking rejected",
			zap.String("booking_id", id.String()),
			zap.String("kind", string(apperror.KindOf(err))),
		)
		return nil, err
	}

	s.log.Info("Booking updated",
		zap.String("booking_id", updated.ID.String()),
		zap.String("status", string(updated.Status)),
	)
	resp := response.BookingToResponse(updated)
	return &resp, nil
}

// applyStayChanges re-validates and re-prices a booking whose dates or party size change.
// Runs under the room lock.
func (s *bookingService) applyStayChanges(
	ctx context.Context,
	tx *repository.Repository,
	booking *entity.Booking,
	room *entity.Room,
	newCheckIn, newCheckOut *time.Time,
	newGuests *int,
	current time.Time,
) error {
	if booking.Status != entity.BookingStatusPending && booking.Status != entity.BookingStatusConfirmed {
		return apperror.InvalidTransition("cannot change dates or guests of a %s booking", booking.Status)
	}

	checkIn, checkOut := booking.CheckInDate, booking.CheckOutDate
	if newCheckIn != nil {
		checkIn = *newCheckIn
	}
	if newCheckOut != nil {
		checkOut = *newCheckOut
	}
	guests := booking.Guests
	if newGuests != nil {
		guests = *newGuests
	}

	datesChanged := !checkIn.Equal(booking.CheckInDate) || !checkOut.Equal(booking.CheckOutDate)
	if datesChanged {
		if !checkIn.Before(checkOut) {
			return apperror.New(apperror.KindInvalidRange, "check-in date must be before check-out date")
		}
		if s.isPast(checkIn, current) {
			return apperror.New(apperror.KindPastDate, "check-in date cannot be in the past")
		}
	}

	total, err := NewRoomCatalog(tx.Room).CheckCapacityAndPrice(room, checkIn, checkOut, guests)
	if err != nil {
		return err
	}

	if datesChanged {
		available, err := NewAvailabilityChecker(tx.Booking).IsAvailable(ctx, booking.RoomID, checkIn, checkOut, &booking.ID)
		if err != nil {
			return err
		}
		if !available {
			return apperror.Conflict(conflictUnavailable)
		}
		booking.CheckInDate = checkIn
		booking.CheckOutDate = checkOut
		booking.TotalAmount = total
	}
	booking.Guests = guests
	return nil
}

func (s *bookingService) CancelBooking(ctx context.Context, actor *entity.Actor, bookingID string) (*response.BookingResponse, error) {
	id, err := parseID("booking_id", bookingID)
	if err != nil {
		return nil, err
	}

	var cancelled *entity.Booking
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		booking, _, err := lockBooking(ctx, tx, id)
		if err != nil {
			return err
		}
		if !CanAccess(actor, booking) {
			return apperror.Forbidden("access denied")
		}

		current := s.now()
		if err := s.applyCancel(actor, booking, current); err != nil {
			return err
		}
		booking.UpdatedAt = current
		if err := tx.Booking.Update(ctx, booking); err != nil {
			return err
		}
		cancelled = booking
		return nil
	})
	if err != nil {
		err = storeError(s.log, err, "cancel booking", "")
		s.log.Warn("Cancel booking rejected",
			zap.String("booking_id", id.String()),
			zap.String("kind", string(apperror.KindOf(err))),
		)
		return nil, err
	}

	s.log.Info("Booking cancelled", zap.String("booking_id", id.String()))
	resp := response.BookingToResponse(cancelled)
	return &resp, nil
}

// applyCancel enforces the cancellation rules. Room status is left alone.
func (s *bookingService) applyCancel(actor *entity.Actor, booking *entity.Booking, current time.Time) error {
	switch booking.Status {
	case entity.BookingStatusCheckedIn, entity.BookingStatusCheckedOut:
		return apperror.InvalidTransition("cannot cancel a %s booking", booking.Status)
	case entity.BookingStatusCancelled:
		return apperror.New(apperror.KindAlreadyCancelled, "booking is already cancelled")
	}
	if !CanTransition(actor, booking.Status, entity.BookingStatusCancelled) {
		return apperror.Forbidden("not allowed to cancel this booking")
	}
	if booking.CheckInDate.Sub(current) < s.cancelWindow {
		return apperror.New(apperror.KindTooLate,
			"bookings can only be cancelled more than %d hours before check-in", int(s.cancelWindow.Hours()))
	}
	booking.Status = entity.BookingStatusCancelled
	return nil
}

func (s *bookingService) DeleteBooking(ctx context.Context, actor *entity.Actor, bookingID string) error {
	if !CanManage(actor) {
		return apperror.Forbidden("only staff can delete bookings")
	}
	id, err := parseID("booking_id", bookingID)
	if err != nil {
		return err
	}

	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		booking, _, err := lockBooking(ctx, tx, id)
		if err != nil {
			return err
		}
		if booking.Status == entity.BookingStatusCheckedIn || booking.Status == entity.BookingStatusCheckedOut {
			return apperror.InvalidTransition("cannot delete a %s booking", booking.Status)
		}
		return tx.Booking.Delete(ctx, id)
	})
	if err != nil {
		err = storeError(s.log, err, "delete booking", "")
		s.log.Warn("Delete booking rejected",
			zap.String("booking_id", id.String()),
			zap.String("kind", string(apperror.KindOf(err))),
		)
		return err
	}

	s.log.Info("Booking deleted", zap.String("booking_id", id.String()))
	return nil
}

func (s *bookingService) CheckIn(ctx context.Context, actor *entity.Actor, bookingID string, req *request.CheckInRequest) (*response.StayTransitionResponse, error) {
	if !CanManage(actor) {
		return nil, apperror.Forbidden("only staff can check guests in")
	}
	if req == nil {
		req = &request.CheckInRequest{}
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	id, err := parseID("booking_id", bookingID)
	if err != nil {
		return nil, err
	}
	var at *time.Time
	if req.At != nil {
		if at, err = parseOptionalDate("actual_check_in_time", *req.At); err != nil {
			return nil, err
		}
	}

	return s.checkIn(ctx, id, at, req.Notes, false)
}

// checkIn moves a booking to checked_in, records the stay and occupies the room
// in one transaction. strict is the stay record create path: an existing record
// is a Conflict and a wrong status is InvalidState.
func (s *bookingService) checkIn(ctx context.Context, bookingID uuid.UUID, at *time.Time, notes *string, strict bool) (*response.StayTransitionResponse, error) {
	var (
		booking *entity.Booking
		stay    *entity.StayRecord
	)
	err := s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		var err error
		booking, _, err = lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		stay, err = tx.StayRecord.FindByBookingID(ctx, bookingID)
		if err != nil {
			return err
		}

		movable := entity.CanTransition(booking.Status, entity.BookingStatusCheckedIn)
		if strict {
			if stay != nil {
				return apperror.Conflict("stay record already exists for this booking")
			}
			if !movable {
				return apperror.New(apperror.KindInvalidState, "cannot check in a %s booking", booking.Status)
			}
		} else if !movable {
			return apperror.InvalidTransition("cannot check in a %s booking", booking.Status)
		}

		current := s.now()
		checkInTime := current
		if at != nil {
			checkInTime = *at
		}

		if stay == nil {
			stay = &entity.StayRecord{
				BaseNoDelete: entity.BaseNoDelete{
					ID:        uuid.New(),
					CreatedAt: current,
					UpdatedAt: current,
				},
				BookingID:         bookingID,
				ActualCheckInTime: checkInTime,
				Notes:             notes,
				AdditionalCharges: []entity.Charge{},
			}
			if err := tx.StayRecord.Create(ctx, stay); err != nil {
				return err
			}
		} else {
			stay.ActualCheckInTime = checkInTime
			if notes != nil {
				stay.Notes = notes
			}
			stay.UpdatedAt = current
			if err := tx.StayRecord.Update(ctx, stay); err != nil {
				return err
			}
		}

		booking.Status = entity.BookingStatusCheckedIn
		booking.UpdatedAt = current
		if err := tx.Booking.Update(ctx, booking); err != nil {
			return err
		}

		return NewRoomCatalog(tx.Room).SetStatus(ctx, booking.RoomID, entity.RoomStatusOccupied)
	})
	if err != nil {
		err = storeError(s.log, err, "check in", "stay record already exists for this booking")
		s.log.Warn("Check-in rejected",
			zap.String("booking_id", bookingID.String()),
			zap.String("kind", string(apperror.KindOf(err))),
		)
		return nil, err
	}

	s.log.Info("Guest checked in",
		zap.String("booking_id", bookingID.String()),
		zap.String("stay_record_id", stay.ID.String()),
		zap.String("room_id", booking.RoomID.String()),
	)
	return &response.StayTransitionResponse{
		Booking:    response.BookingToResponse(booking),
		StayRecord: response.StayRecordToResponse(stay),
	}, nil
}

func (s *bookingService) CheckOut(ctx context.Context, actor *entity.Actor, bookingID string, req *request.CheckOutRequest) (*response.StayTransitionResponse, error) {
	if !CanManage(actor) {
		return nil, apperror.Forbidden("only staff can check guests out")
	}
	if req == nil {
		req = &request.CheckOutRequest{}
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	id, err := parseID("booking_id", bookingID)
	if err != nil {
		return nil, err
	}
	var at *time.Time
	if req.At != nil {
		if at, err = parseOptionalDate("actual_check_out_time", *req.At); err != nil {
			return nil, err
		}
	}
	charges, err := toCharges(req.AdditionalCharges)
	if err != nil {
		return nil, err
	}

	return s.checkOut(ctx, id, at, req.Notes, charges)
}

func toCharges(reqs []request.ChargeRequest) ([]entity.Charge, error) {
	charges := make([]entity.Charge, 0, len(reqs))
	for _, c := range reqs {
		if c.Amount.IsNegative() {
			return nil, apperror.Validation("invalid additional charge", map[string]string{"additional_charges": "Amount must be greater than or equal to 0"})
		}
		charges = append(charges, entity.Charge{Description: c.Description, Amount: c.Amount})
	}
	return charges, nil
}

// checkOut closes the stay, completes the booking and sends the room to cleaning
// in one transaction.
func (s *bookingService) checkOut(ctx context.Context, bookingID uuid.UUID, at *time.Time, notes *string, charges []entity.Charge) (*response.StayTransitionResponse, error) {
	var (
		booking *entity.Booking
		stay    *entity.StayRecord
	)
	err := s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		var err error
		booking, _, err = lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		stay, err = tx.StayRecord.FindByBookingID(ctx, bookingID)
		if err != nil {
			return err
		}
		if stay != nil && stay.CheckedOut() {
			return apperror.New(apperror.KindAlreadyCheckedOut, "guest has already checked out")
		}
		if !entity.CanTransition(booking.Status, entity.BookingStatusCheckedOut) {
			return apperror.InvalidTransition("cannot check out a %s booking", booking.Status)
		}
		if stay == nil {
			return apperror.New(apperror.KindInvalidState, "checked-in booking has no stay record")
		}

		current := s.now()
		checkOutTime := current
		if at != nil {
			checkOutTime = *at
		}
		if checkOutTime.Before(stay.ActualCheckInTime) {
			return apperror.New(apperror.KindInvalidRange, "check-out time cannot be before check-in time")
		}

		stay.ActualCheckOutTime = &checkOutTime
		if notes != nil {
			stay.Notes = notes
		}
		stay.AdditionalCharges = append(stay.AdditionalCharges, charges...)
		stay.UpdatedAt = current
		if err := tx.StayRecord.Update(ctx, stay); err != nil {
			return err
		}

		booking.Status = entity.BookingStatusCheckedOut
		booking.UpdatedAt = current
		if err := tx.Booking.Update(ctx, booking); err != nil {
			return err
		}

		return NewRoomCatalog(tx.Room).SetStatus(ctx, booking.RoomID, entity.RoomStatusCleaning)
	})
	if err != nil {
		err = storeError(s.log, err, "check out", "")
		s.log.Warn("Check-out rejected",
			zap.String("booking_id", bookingID.String()),
			zap.String("kind", string(apperror.KindOf(err))),
		)
		return nil, err
	}

	s.log.Info("Guest checked out",
		zap.String("booking_id", bookingID.String()),
		zap.String("stay_record_id", stay.ID.String()),
		zap.String("room_id", booking.RoomID.String()),
	)
	return &response.StayTransitionResponse{
		Booking:    response.BookingToResponse(booking),
		StayRecord: response.StayRecordToResponse(stay),
	}, nil
}

func (s *bookingService) GetArrivals(ctx context.Context, actor *entity.Actor, req *request.DayRequest) ([]response.BookingResponse, error) {
	return s.dayBoard(ctx, actor, req, "arrivals", func(f *repository.BookingFilter, from, to time.Time) {
		f.CheckInFrom, f.CheckInTo = &from, &to
		f.Statuses = []entity.BookingStatus{entity.BookingStatusPending, entity.BookingStatusConfirmed}
	}, "check_in_date")
}

func (s *bookingService) GetDepartures(ctx context.Context, actor *entity.Actor, req *request.DayRequest) ([]response.BookingResponse, error) {
	return s.dayBoard(ctx, actor, req, "departures", func(f *repository.BookingFilter, from, to time.Time) {
		f.CheckOutFrom, f.CheckOutTo = &from, &to
		f.Statuses = []entity.BookingStatus{entity.BookingStatusCheckedIn}
	}, "check_out_date")
}

func (s *bookingService) dayBoard(
	ctx context.Context,
	actor *entity.Actor,
	req *request.DayRequest,
	name string,
	scope func(f *repository.BookingFilter, from, to time.Time),
	sortBy string,
) ([]response.BookingResponse, error) {
	if !CanManage(actor) {
		return nil, apperror.Forbidden("only staff can view %s", name)
	}

	day := s.now()
	if req != nil && req.Date != "" {
		d, err := parseDate("date", req.Date)
		if err != nil {
			return nil, err
		}
		day = d
	}
	from, to := dayBounds(day)

	var filter repository.BookingFilter
	scope(&filter, from, to)

	bookings, err := s.repo.Booking.FindAll(ctx, filter, repository.Page{
		Limit:     dayBoardLimit,
		SortBy:    sortBy,
		SortOrder: "asc",
	})
	if err != nil {
		return nil, storeError(s.log, err, "get "+name, "")
	}

	data := make([]response.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		data = append(data, response.BookingToResponse(b))
	}
	return data, nil
}

func (s *bookingService) GetStats(ctx context.Context, actor *entity.Actor, req *request.BookingStatsRequest) (*response.BookingStatsResponse, error) {
	if req == nil {
		req = &request.BookingStatsRequest{}
	}

	var filter repository.BookingFilter
	var err error
	if filter.CreatedFrom, err = parseOptionalDate("date_from", req.DateFrom); err != nil {
		return nil, err
	}
	if filter.CreatedTo, err = parseRangeEnd("date_to", req.DateTo); err != nil {
		return nil, err
	}

	switch {
	case actor.IsGuest():
		self := actor.ID
		filter.GuestID = &self
	case !CanManage(actor):
		return nil, apperror.Forbidden("access denied")
	}

	stats, err := s.repo.Booking.Stats(ctx, filter)
	if err != nil {
		return nil, storeError(s.log, err, "booking stats", "")
	}

	average := decimal.Zero
	if stats.Total > 0 {
		average = stats.TotalRevenue.Div(decimal.NewFromInt(stats.Total)).Round(2)
	}

	return &response.BookingStatsResponse{
		Total:               stats.Total,
		Pending:             stats.ByStatus[entity.BookingStatusPending],
		Confirmed:           stats.ByStatus[entity.BookingStatusConfirmed],
		CheckedIn:           stats.ByStatus[entity.BookingStatusCheckedIn],
		CheckedOut:          stats.ByStatus[entity.BookingStatusCheckedOut],
		Cancelled:           stats.ByStatus[entity.BookingStatusCancelled],
		TotalRevenue:        stats.TotalRevenue,
		AverageBookingValue: average,
	}, nil
}
