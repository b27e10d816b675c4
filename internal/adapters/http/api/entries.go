package api

import (
	"fmt"
	"net/http"

	service "github.com/okian/fplhelper/internal/app"
)

// EntriesHandler serves suggestions for public FPL entries.
type EntriesHandler struct {
	deps EntryDependencies
}

// NewEntriesHandler creates a new entries handler.
func NewEntriesHandler(deps EntryDependencies) *EntriesHandler {
	return &EntriesHandler{deps: deps}
}

// HandleGet handles GET /entries/{id}/suggestions requests.
func (h *EntriesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	entryID, err := pathID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	q := r.URL.Query()
	gw, _, err := intParam(q, "gw")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	var p service.EntryParams
	if n, ok, err := intParam(q, "top_n"); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	} else if ok {
		p.TopN = &n
	}
	if p.MaxPerTeam, _, err = intParam(q, "max_per_team"); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if p.MaxPerTeam < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: max_per_team must not be negative", ErrBadRequest))
		return
	}
	if p.MaxSquadValue, err = decimalParam(q, "max_squad_value"); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	resp, err := h.deps.SuggestForEntry(r.Context(), entryID, gw, p)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond(w, r, resp)
}
