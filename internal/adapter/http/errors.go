package http

import (
	"errors"
	"net/http"

	"loanflow-backend/internal/domain/application"
	"loanflow-backend/internal/domain/user"
	"loanflow-backend/pkg/apperror"

	"github.com/labstack/echo/v4"
)

// writeError translates domain and usecase errors into HTTP responses.
// Handlers funnel every non-nil error through here so status mapping
// stays in one place.
func writeError(c echo.Context, err error) error {
	var verr *apperror.ValidationError
	if errors.As(err, &verr) {
		details := make([]FieldError, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			details = append(details, FieldError{Field: f.Field, Message: f.Message})
		}
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: details})
	}

	var nferr *apperror.NotFoundError
	if errors.As(err, &nferr) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: nferr.Error()})
	}

	var perr *apperror.PreconditionError
	if errors.As(err, &perr) {
		return c.JSON(http.StatusPreconditionFailed, ErrorResponse{Error: perr.Reason, Missing: perr.Missing})
	}

	var cerr *apperror.ConflictError
	if errors.As(err, &cerr) {
		return c.JSON(http.StatusConflict, ErrorResponse{Error: cerr.Error()})
	}

	var uerr *apperror.UpstreamServiceError
	if errors.As(err, &uerr) {
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: uerr.Error()})
	}

	switch {
	case errors.Is(err, user.ErrNotFound), errors.Is(err, user.ErrDocNotFound), errors.Is(err, application.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, user.ErrInvalidTransition), errors.Is(err, application.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, application.ErrVersionConflict):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "application was modified concurrently, retry with fresh data"})
	}

	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
