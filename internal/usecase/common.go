package usecase

import (
	"errors"
	"net/http"

	"event-staffing-backend/internal/domain"
	"event-staffing-backend/pkg/apperror"
	"event-staffing-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// failure hides a repository error behind message. AppErrors pass through
// unchanged; the cause is kept for the error middleware to log.
func failure(message string, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if domain.KindOf(err) == domain.KindBackend {
		return apperror.New(http.StatusBadGateway, message, err)
	}
	return apperror.Wrap(message, err)
}

// lookupFailure is failure with not-found mapped to a 404.
func lookupFailure(notFoundMessage, message string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.New(http.StatusNotFound, notFoundMessage, err)
	}
	return failure(message, err)
}

func validateInput(v *validator.Validate, input interface{}) error {
	if err := v.Struct(input); err != nil {
		return apperror.Validation("Please check the highlighted fields", validation.FormatValidationErrors(err))
	}
	return nil
}

func strPtr(s string) *string {
	return &s
}
