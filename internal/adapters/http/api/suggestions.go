package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	service "github.com/okian/fplhelper/internal/app"
)

const maxBodyBytes = 1 << 20

// SuggestionsHandler serves POST /suggestions.
type SuggestionsHandler struct {
	deps SuggestionDependencies
}

// NewSuggestionsHandler creates a new suggestions handler.
func NewSuggestionsHandler(deps SuggestionDependencies) *SuggestionsHandler {
	return &SuggestionsHandler{deps: deps}
}

// HandlePost decodes a SuggestRequest and answers with JSON, or with CSV
// when ?format=csv or Accept: text/csv is given.
func (h *SuggestionsHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	var req service.SuggestRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: invalid JSON body: %w", ErrBadRequest, err))
		return
	}

	resp, err := h.deps.Suggest(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond(w, r, resp)
}

// respond writes resp in the format the client asked for.
func respond(w http.ResponseWriter, r *http.Request, resp *service.SuggestResponse) {
	if wantsCSV(r) {
		writeCSV(w, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func wantsCSV(r *http.Request) bool {
	if strings.EqualFold(r.URL.Query().Get("format"), "csv") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/csv")
}
