// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/fplhelper/internal/adapters/repository"
	service "github.com/okian/fplhelper/internal/app"
	"github.com/okian/fplhelper/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	PlayerDependencies
	SuggestionDependencies
	EntryDependencies
}

// PlayerDependencies exposes catalog reads.
type PlayerDependencies interface {
	Players(ctx context.Context, f repository.Filter) ([]model.CatalogPlayer, error)
	Player(ctx context.Context, id int) (model.CatalogPlayer, error)
}

// SuggestionDependencies ranks transfers for a posted squad.
type SuggestionDependencies interface {
	Suggest(ctx context.Context, req service.SuggestRequest) (*service.SuggestResponse, error)
}

// EntryDependencies ranks transfers for a manager's public squad.
type EntryDependencies interface {
	SuggestForEntry(ctx context.Context, entryID, gw int, p service.EntryParams) (*service.SuggestResponse, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	playersHandler     *PlayersHandler
	suggestionsHandler *SuggestionsHandler
	entriesHandler     *EntriesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		playersHandler:     NewPlayersHandler(deps),
		suggestionsHandler: NewSuggestionsHandler(deps),
		entriesHandler:     NewEntriesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /players", MetricsMiddleware(s.playersHandler.HandleList, "players"))
	mux.HandleFunc("GET /players/{id}", MetricsMiddleware(s.playersHandler.HandleGet, "player"))
	mux.HandleFunc("POST /suggestions", MetricsMiddleware(s.suggestionsHandler.HandlePost, "suggestions"))
	mux.HandleFunc("GET /entries/{id}/suggestions", MetricsMiddleware(s.entriesHandler.HandleGet, "entry_suggestions"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError classifies err and writes the matching envelope.
func writeDomainError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}
