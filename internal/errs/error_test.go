package errs_test

import (
	"net/http"
	"testing"

	"github.com/readshelf/library-service/internal/errs"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", errs.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", errors.Wrap(errs.ErrNotFound, "No such user: thor"), http.StatusNotFound},
		{"wrong password", errs.ErrWrongPassword, http.StatusForbidden},
		{"conflict", errors.Wrap(errs.ErrConflict, "Book is not available!"), http.StatusConflict},
		{"range", errors.Wrap(errs.ErrRange, "Membership level must be greater than 0!"), http.StatusConflict},
		{"validation", errors.Wrap(errs.ErrValidation, "Username must not be blank!"), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, errs.HTTPStatus(tt.err))
		})
	}
}
