package suggestcli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	service "github.com/okian/fplhelper/internal/app"
	"github.com/okian/fplhelper/internal/domain/model"
)

// LoadSquad reads a squad file into a request. Three shapes are accepted:
// an array of player ids, an array of player records, or a full request
// object.
func LoadSquad(path string) (service.SuggestRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return service.SuggestRequest{}, fmt.Errorf("%w: %w", ErrSquadFile, err)
	}
	return parseSquad(data)
}

func parseSquad(data []byte) (service.SuggestRequest, error) {
	var req service.SuggestRequest
	if !gjson.ValidBytes(data) {
		return req, fmt.Errorf("%w: not valid JSON", ErrSquadFile)
	}

	root := gjson.ParseBytes(data)
	switch {
	case root.IsObject():
		if err := json.Unmarshal(data, &req); err != nil {
			return req, fmt.Errorf("%w: %w", ErrSquadFile, err)
		}
	case root.IsArray():
		items := root.Array()
		if len(items) == 0 {
			return req, fmt.Errorf("%w: empty squad", ErrSquadFile)
		}
		if items[0].Type == gjson.Number {
			for i, v := range items {
				if v.Type != gjson.Number {
					return req, fmt.Errorf("%w: element %d is not an id", ErrSquadFile, i)
				}
				req.SquadIDs = append(req.SquadIDs, int(v.Int()))
			}
			return req, nil
		}
		var players []model.Player
		if err := json.Unmarshal(data, &players); err != nil {
			return req, fmt.Errorf("%w: %w", ErrSquadFile, err)
		}
		req.Squad = players
	default:
		return req, fmt.Errorf("%w: expected an array or an object", ErrSquadFile)
	}
	return req, nil
}
