package errs

import (
	"errors"
	"net/http"
)

// Sentinel kinds. Concrete failures wrap one of these so handlers can map
// any service error to a status code with errors.Is.
var (
	ErrValidation    = errors.New("validation")
	ErrRange         = errors.New("out of range")
	ErrConflict      = errors.New("conflict")
	ErrNotFound      = errors.New("not found")
	ErrWrongPassword = errors.New("Wrong Password")
)

// HTTPStatus maps a service error onto the wire status. Missing required
// fields surface as 500, matching the service's historical behavior.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrWrongPassword):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict), errors.Is(err, ErrRange):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
