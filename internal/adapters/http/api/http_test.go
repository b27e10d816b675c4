package api_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/fplhelper/internal/adapters/fpl"
	"github.com/okian/fplhelper/internal/adapters/http/api"
	"github.com/okian/fplhelper/internal/adapters/repository"
	service "github.com/okian/fplhelper/internal/app"
	"github.com/okian/fplhelper/internal/domain/model"
	"github.com/okian/fplhelper/internal/domain/transfer"
	"github.com/okian/fplhelper/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithOutput(&strings.Builder{})); err != nil {
		panic(err)
	}
}

type mockDeps struct {
	players    []model.CatalogPlayer
	playersErr error
	lastFilter repository.Filter

	suggestResp *service.SuggestResponse
	suggestErr  error
	lastReq     service.SuggestRequest

	entryErr   error
	lastEntry  int
	lastGW     int
	lastParams service.EntryParams
}

func (m *mockDeps) Players(_ context.Context, f repository.Filter) ([]model.CatalogPlayer, error) {
	m.lastFilter = f
	return m.players, m.playersErr
}

func (m *mockDeps) Player(_ context.Context, id int) (model.CatalogPlayer, error) {
	for _, p := range m.players {
		if p.ID == id {
			return p, nil
		}
	}
	return model.CatalogPlayer{}, fmt.Errorf("%w: %d", repository.ErrNotFound, id)
}

func (m *mockDeps) Suggest(_ context.Context, req service.SuggestRequest) (*service.SuggestResponse, error) {
	m.lastReq = req
	return m.suggestResp, m.suggestErr
}

func (m *mockDeps) SuggestForEntry(_ context.Context, entryID, gw int, p service.EntryParams) (*service.SuggestResponse, error) {
	m.lastEntry, m.lastGW, m.lastParams = entryID, gw, p
	if m.entryErr != nil {
		return nil, m.entryErr
	}
	return m.suggestResp, nil
}

type mockStats struct{}

func (mockStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true, "catalogPlayers": 2}
}

func newMux(deps *mockDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, mockStats{}).Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, target, body string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var out map[string]string
	So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
	return out
}

func sampleResponse() *service.SuggestResponse {
	return &service.SuggestResponse{
		EvaluationID: "eval-1",
		TotalRanked:  1,
		Suggestions: []model.Suggestion{{
			OutPlayerID: 1, OutName: "Old", InPlayerID: 3, InName: "New",
			Position: model.GK, PredictedOut: 2, PredictedIn: 5, DeltaPts: 3,
		}},
	}
}

func TestPlayersRoutes(t *testing.T) {
	Convey("Given a catalog with two players", t, func() {
		deps := &mockDeps{players: []model.CatalogPlayer{
			{Player: model.Player{ID: 1, Name: "A", Position: model.GK}},
			{Player: model.Player{ID: 2, Name: "B", Position: model.MID}},
		}}
		mux := newMux(deps)

		Convey("When listing with filters", func() {
			w := do(mux, http.MethodGet, "/players?position=mid&team=4&limit=10", "", nil)

			Convey("Then the filter is passed through", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastFilter.Position, ShouldEqual, model.MID)
				So(deps.lastFilter.Team, ShouldEqual, 4)
				So(deps.lastFilter.Limit, ShouldEqual, 10)
			})
		})

		Convey("When the limit is malformed", func() {
			w := do(mux, http.MethodGet, "/players?limit=abc", "", nil)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w)["code"], ShouldEqual, "bad_request")
		})

		Convey("When the catalog is not loaded yet", func() {
			deps.playersErr = repository.ErrEmptyCatalog
			w := do(mux, http.MethodGet, "/players", "", nil)
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(decodeError(w)["code"], ShouldEqual, "unavailable")
		})

		Convey("When fetching one player", func() {
			w := do(mux, http.MethodGet, "/players/2", "", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"name":"B"`)
		})

		Convey("When the player is unknown", func() {
			w := do(mux, http.MethodGet, "/players/9", "", nil)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the id is not a number", func() {
			w := do(mux, http.MethodGet, "/players/x", "", nil)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When using the wrong method", func() {
			w := do(mux, http.MethodPost, "/players", "", nil)
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestSuggestionsRoute(t *testing.T) {
	Convey("Given a suggestion backend", t, func() {
		deps := &mockDeps{suggestResp: sampleResponse()}
		mux := newMux(deps)

		Convey("When posting a squad", func() {
			w := do(mux, http.MethodPost, "/suggestions", `{"squad_ids":[1,2],"top_n":3}`, nil)

			Convey("Then the request is decoded and the response is JSON", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastReq.SquadIDs, ShouldResemble, []int{1, 2})
				So(*deps.lastReq.TopN, ShouldEqual, 3)

				var resp service.SuggestResponse
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.EvaluationID, ShouldEqual, "eval-1")
				So(resp.Suggestions[0].DeltaPts, ShouldEqual, 3.0)
			})
		})

		Convey("When asking for CSV", func() {
			w := do(mux, http.MethodPost, "/suggestions?format=csv", `{"squad_ids":[1]}`, nil)

			Convey("Then a CSV file is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "text/csv")
				rows, err := csv.NewReader(w.Body).ReadAll()
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 2)
				So(rows[0][0], ShouldEqual, "out_player_id")
				So(rows[1], ShouldResemble, []string{"1", "Old", "3", "New", "GK", "2", "5", "3.00"})
			})
		})

		Convey("When CSV is requested through Accept", func() {
			w := do(mux, http.MethodPost, "/suggestions", `{"squad_ids":[1]}`, map[string]string{"Accept": "text/csv"})
			So(w.Header().Get("Content-Disposition"), ShouldContainSubstring, "suggestions.csv")
		})

		Convey("When the body is not JSON", func() {
			w := do(mux, http.MethodPost, "/suggestions", `{`, nil)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the body has unknown fields", func() {
			w := do(mux, http.MethodPost, "/suggestions", `{"sqaud":[1]}`, nil)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a player record is malformed", func() {
			deps.suggestErr = &transfer.InvalidInputError{Side: transfer.SideSquad, Index: 0, PlayerID: 4, Field: "position"}
			w := do(mux, http.MethodPost, "/suggestions", `{"squad":[{"id":4}]}`, nil)

			Convey("Then the error envelope says invalid_input", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				body := decodeError(w)
				So(body["code"], ShouldEqual, "invalid_input")
				So(body["message"], ShouldContainSubstring, "position")
			})
		})

		Convey("When the squad repeats a player", func() {
			deps.suggestErr = service.ErrDuplicateSquadPlayer
			w := do(mux, http.MethodPost, "/suggestions", `{"squad_ids":[1,1]}`, nil)
			So(decodeError(w)["code"], ShouldEqual, "duplicate_player")
		})

		Convey("When the candidate list is explicitly empty", func() {
			deps.suggestResp = &service.SuggestResponse{EvaluationID: "e", Suggestions: []model.Suggestion{}, Message: service.EmptyMessage}
			w := do(mux, http.MethodPost, "/suggestions",
				`{"squad":[{"id":1,"position":"GK","predicted_points":2}],"candidates":[],"unconstrained":true}`, nil)

			Convey("Then the empty list reaches the service as given", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastReq.Candidates, ShouldNotBeNil)
				So(deps.lastReq.Candidates, ShouldBeEmpty)
				So(w.Body.String(), ShouldContainSubstring, `"suggestions":[]`)
				So(w.Body.String(), ShouldContainSubstring, service.EmptyMessage)
			})
		})

		Convey("When nothing qualifies", func() {
			deps.suggestResp = &service.SuggestResponse{EvaluationID: "e", Suggestions: []model.Suggestion{}, Message: service.EmptyMessage}
			w := do(mux, http.MethodPost, "/suggestions", `{"squad_ids":[1]}`, nil)

			Convey("Then the response is 200 with an empty list", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"suggestions":[]`)
				So(w.Body.String(), ShouldContainSubstring, service.EmptyMessage)
			})
		})
	})
}

func TestEntriesRoute(t *testing.T) {
	Convey("Given an entry backend", t, func() {
		deps := &mockDeps{suggestResp: sampleResponse()}
		mux := newMux(deps)

		Convey("When all parameters are given", func() {
			w := do(mux, http.MethodGet, "/entries/77/suggestions?gw=5&top_n=2&max_squad_value=99.5&max_per_team=2", "", nil)

			Convey("Then they reach the service", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastEntry, ShouldEqual, 77)
				So(deps.lastGW, ShouldEqual, 5)
				So(*deps.lastParams.TopN, ShouldEqual, 2)
				So(deps.lastParams.MaxPerTeam, ShouldEqual, 2)
				So(deps.lastParams.MaxSquadValue.Decimal.String(), ShouldEqual, "99.5")
			})
		})

		Convey("When no parameters are given", func() {
			w := do(mux, http.MethodGet, "/entries/77/suggestions", "", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastGW, ShouldEqual, 0)
			So(deps.lastParams.TopN, ShouldBeNil)
			So(deps.lastParams.MaxSquadValue.Valid, ShouldBeFalse)
		})

		Convey("When a parameter is malformed", func() {
			w := do(mux, http.MethodGet, "/entries/77/suggestions?max_squad_value=lots", "", nil)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the club cap is negative", func() {
			w := do(mux, http.MethodGet, "/entries/77/suggestions?max_per_team=-1", "", nil)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w)["code"], ShouldEqual, "bad_request")
			So(deps.lastEntry, ShouldEqual, 0)
		})

		Convey("When upstream fails", func() {
			deps.entryErr = fmt.Errorf("fetch picks: %w", fpl.ErrUnexpectedStatus)
			w := do(mux, http.MethodGet, "/entries/77/suggestions", "", nil)
			So(w.Code, ShouldEqual, http.StatusBadGateway)
			So(decodeError(w)["code"], ShouldEqual, "upstream_error")
		})
	})
}

func TestOpsRoutes(t *testing.T) {
	Convey("Given the ops routes", t, func() {
		mux := newMux(&mockDeps{})

		Convey("Then /stats returns the provider's map", func() {
			w := do(mux, http.MethodGet, "/stats", "", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"catalogPlayers":2`)
		})

		Convey("Then /healthz serves metrics", func() {
			do(mux, http.MethodGet, "/stats", "", nil)
			w := do(mux, http.MethodGet, "/healthz", "", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "http_requests_total")
		})
	})
}
