package usecase

import (
	"errors"
	"strings"
	"time"

	"github.com/SawLinThant/hotel-management-backend-api/internal/data/repository"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/apperror"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"go.uber.org/zap"
)

// Clock returns the current instant. Services take one so time rules are testable.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now().UTC()
}

func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return apperror.Validation("validation failed: "+utils.FormatValidationErrors(errs), errs)
	}
	return nil
}

func parseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, apperror.Validation("invalid "+field, map[string]string{field: "Must be a valid UUID"})
	}
	return id, nil
}

func parseOptionalID(field, value string) (*uuid.UUID, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	id, err := parseID(field, value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := utils.ParseDate(value)
	if err != nil {
		return time.Time{}, apperror.Validation("invalid "+field, map[string]string{field: err.Error()})
	}
	return t, nil
}

func parseOptionalDate(field, value string) (*time.Time, error) {
	t, err := utils.ParseOptionalDate(value)
	if err != nil {
		return nil, apperror.Validation("invalid "+field, map[string]string{field: err.Error()})
	}
	return t, nil
}

// parseRangeEnd treats a bare date as inclusive of the whole day.
func parseRangeEnd(field, value string) (*time.Time, error) {
	t, err := parseOptionalDate(field, value)
	if err != nil || t == nil {
		return t, err
	}
	if len(strings.TrimSpace(value)) == len(utils.DateLayout) {
		end := now.With(*t).EndOfDay()
		return &end, nil
	}
	return t, nil
}

// dayBounds returns [start, next start) of the calendar day holding t.
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := now.With(t.UTC()).BeginningOfDay()
	return start, start.AddDate(0, 0, 1)
}

// storeError converts repository failures into typed errors.
// Typed errors pass through; anything else is logged and hidden as Internal.
func storeError(log *zap.Logger, err error, operation, conflictMsg string) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, repository.ErrOverlap) || errors.Is(err, repository.ErrDuplicate) || errors.Is(err, repository.ErrReferenced) {
		log.Warn(operation+" rejected by store constraint", zap.Error(err))
		return &apperror.Error{Kind: apperror.KindConflict, Message: conflictMsg, Err: err}
	}
	log.Error(operation+" failed", zap.Error(err))
	return apperror.Internal(err, operation)
}
