package suggestcli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	service "github.com/okian/fplhelper/internal/app"
)

// Render writes resp to w in the given format.
func Render(w io.Writer, format string, resp *service.SuggestResponse, showExcluded bool) error {
	switch format {
	case FormatCSV:
		return renderCSV(w, resp)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	default:
		return renderTable(w, resp, showExcluded)
	}
}

func renderTable(w io.Writer, resp *service.SuggestResponse, showExcluded bool) error {
	if len(resp.Suggestions) == 0 {
		msg := resp.Message
		if msg == "" {
			msg = service.EmptyMessage
		}
		if _, err := fmt.Fprintln(w, msg); err != nil {
			return err
		}
	} else {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tPOS\tOUT\tIN\tPRED OUT\tPRED IN\tDELTA")
		for i, s := range resp.Suggestions {
			fmt.Fprintf(tw, "%d\t%s\t%s (%d)\t%s (%d)\t%.2f\t%.2f\t%+.2f\n",
				i+1, s.Position, s.OutName, s.OutPlayerID, s.InName, s.InPlayerID,
				s.PredictedOut, s.PredictedIn, s.DeltaPts)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if showExcluded && len(resp.Excluded) > 0 {
		counts := map[string]int{}
		for _, e := range resp.Excluded {
			counts[string(e.Reason)]++
		}
		if _, err := fmt.Fprintf(w, "excluded: %d by budget, %d by team cap\n", counts["budget"], counts["team_cap"]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "evaluation %s, %d ranked\n", resp.EvaluationID, resp.TotalRanked)
	return err
}

func renderCSV(w io.Writer, resp *service.SuggestResponse) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{
		"out_player_id", "out_name", "in_player_id", "in_name",
		"position", "predicted_out", "predicted_in", "delta_pts",
	})
	for _, s := range resp.Suggestions {
		_ = cw.Write([]string{
			strconv.Itoa(s.OutPlayerID), s.OutName,
			strconv.Itoa(s.InPlayerID), s.InName,
			string(s.Position),
			strconv.FormatFloat(s.PredictedOut, 'f', -1, 64),
			strconv.FormatFloat(s.PredictedIn, 'f', -1, 64),
			strconv.FormatFloat(s.DeltaPts, 'f', 2, 64),
		})
	}
	cw.Flush()
	return cw.Error()
}
