package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/fplhelper/internal/adapters/repository"
	"github.com/okian/fplhelper/internal/domain/model"
)

// PlayersHandler serves catalog reads.
type PlayersHandler struct {
	deps PlayerDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayerDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleList handles GET /players?position=&team=&limit= requests.
func (h *PlayersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.Filter{Position: model.Position(strings.ToUpper(q.Get("position")))}

	team, _, err := intParam(q, "team")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	limit, _, err := intParam(q, "limit")
	if err != nil || limit < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit must be a non-negative integer", ErrBadRequest))
		return
	}
	f.Team, f.Limit = team, limit

	players, err := h.deps.Players(r.Context(), f)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

// HandleGet handles GET /players/{id} requests.
func (h *PlayersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	p, err := h.deps.Player(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
