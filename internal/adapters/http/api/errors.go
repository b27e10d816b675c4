package api

import (
	"errors"
	"net/http"

	"github.com/okian/fplhelper/internal/adapters/fpl"
	"github.com/okian/fplhelper/internal/adapters/repository"
	service "github.com/okian/fplhelper/internal/app"
	"github.com/okian/fplhelper/internal/domain/transfer"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrUnavailable = errors.New("service unavailable")
)

// classify maps a domain error to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, transfer.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, service.ErrDuplicateSquadPlayer):
		return http.StatusBadRequest, "duplicate_player"
	case errors.Is(err, service.ErrUnknownPlayer):
		return http.StatusBadRequest, "unknown_player"
	case errors.Is(err, service.ErrEmptySquad), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, repository.ErrEmptyCatalog),
		errors.Is(err, service.ErrNotStarted),
		errors.Is(err, service.ErrNoGameweek),
		errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, fpl.ErrUnexpectedStatus),
		errors.Is(err, fpl.ErrRateLimited),
		errors.Is(err, fpl.ErrDecode):
		return http.StatusBadGateway, "upstream_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
