package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/SawLinThant/hotel-management-backend-api/internal/data/entity"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/apperror"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/utils"

	"go.uber.org/zap"
)

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindValidation, apperror.KindInvalidRange, apperror.KindPastDate:
		return http.StatusBadRequest
	case apperror.KindCapacityExceeded, apperror.KindTooLate:
		return http.StatusUnprocessableEntity
	case apperror.KindConflict, apperror.KindInvalidTransition, apperror.KindInvalidState,
		apperror.KindAlreadyCancelled, apperror.KindAlreadyCheckedOut:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError writes the response for a failed service call.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	kind := apperror.KindOf(err)
	status := StatusFor(kind)

	if status == http.StatusInternalServerError {
		log.Error(operation+" failed", zap.Error(err))
		utils.ResponseInternalError(w, apperror.Message(err))
		return
	}

	log.Warn(operation+" failed",
		zap.String("kind", string(kind)),
		zap.String("operation", operation),
		zap.Error(err))
	utils.ResponseJSON(w, status, false, apperror.Message(err), nil, apperror.DetailsOf(err))
}

// decodeJSON reads the request body into dst. An empty body is allowed when optional.
func decodeJSON(r *http.Request, dst any, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) && optional {
		return nil
	}
	return err
}

func actorFrom(w http.ResponseWriter, r *http.Request) (*entity.Actor, bool) {
	actor, ok := utils.GetActorFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return nil, false
	}
	return actor, true
}
