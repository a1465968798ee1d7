package auth

import (
	"net/http"

	"github.com/goliatone/go-errors"
)

// ErrorBody is the JSON shape every error response uses.
type ErrorBody struct {
	Error      bool   `json:"error"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// HTTPStatus maps an error to the response status its category implies.
// Unrecognized errors are internal ones.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var rich *errors.Error
	if !errors.As(err, &rich) {
		return http.StatusInternalServerError
	}

	switch rich.Category {
	case errors.CategoryValidation, errors.CategoryBadInput:
		return http.StatusBadRequest
	case errors.CategoryAuth:
		return http.StatusUnauthorized
	case errors.CategoryAuthz:
		return http.StatusForbidden
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryConflict:
		return http.StatusConflict
	case errors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// HTTPMessage returns the user-facing message for an error. Internal errors
// collapse to a generic message so wrapped driver detail never reaches
// clients.
func HTTPMessage(err error) string {
	if err == nil {
		return ""
	}

	var rich *errors.Error
	if errors.As(err, &rich) && rich.Message != "" {
		if HTTPStatus(err) < http.StatusInternalServerError {
			return rich.Message
		}
	}

	return "Error interno del servidor"
}

// NewErrorBody builds the response body for an error.
func NewErrorBody(err error) ErrorBody {
	return ErrorBody{
		Error:      true,
		Message:    HTTPMessage(err),
		StatusCode: HTTPStatus(err),
	}
}
