package api

import (
	"encoding/csv"
	"net/http"
	"strconv"

	service "github.com/okian/fplhelper/internal/app"
	"github.com/okian/fplhelper/internal/domain/model"
)

var csvHeader = []string{
	"out_player_id", "out_name", "in_player_id", "in_name",
	"position", "predicted_out", "predicted_in", "delta_pts",
}

// writeCSV renders suggestions as a downloadable CSV file.
func writeCSV(w http.ResponseWriter, resp *service.SuggestResponse) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="suggestions.csv"`)
	w.Header().Set("X-Evaluation-Id", resp.EvaluationID)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write(csvHeader)
	for _, s := range resp.Suggestions {
		_ = cw.Write(csvRow(s))
	}
	cw.Flush()
}

func csvRow(s model.Suggestion) []string {
	return []string{
		strconv.Itoa(s.OutPlayerID),
		s.OutName,
		strconv.Itoa(s.InPlayerID),
		s.InName,
		string(s.Position),
		strconv.FormatFloat(s.PredictedOut, 'f', -1, 64),
		strconv.FormatFloat(s.PredictedIn, 'f', -1, 64),
		strconv.FormatFloat(s.DeltaPts, 'f', 2, 64),
	}
}
