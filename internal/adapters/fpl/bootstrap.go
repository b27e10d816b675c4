package fpl

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/okian/fplhelper/internal/domain/model"
)

// Bootstrap is the normalised content of bootstrap-static.
type Bootstrap struct {
	Players      []model.CatalogPlayer
	Teams        []model.Team
	CurrentEvent int
}

// Bootstrap fetches every player and club plus the current gameweek.
func (c *Client) Bootstrap(ctx context.Context) (*Bootstrap, error) {
	body, err := c.get(ctx, "bootstrap", "/bootstrap-static/")
	if err != nil {
		return nil, err
	}
	return parseBootstrap(body)
}

func parseBootstrap(body []byte) (*Bootstrap, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: bootstrap-static is not valid JSON", ErrDecode)
	}
	doc := gjson.ParseBytes(body)

	elements := doc.Get("elements")
	if !elements.IsArray() {
		return nil, fmt.Errorf("%w: bootstrap-static has no elements", ErrDecode)
	}

	positions := elementTypes(doc.Get("element_types"))

	teams := make([]model.Team, 0, 20)
	teamNames := make(map[int]string)
	doc.Get("teams").ForEach(func(_, t gjson.Result) bool {
		team := model.Team{
			ID:        int(t.Get("id").Int()),
			Name:      t.Get("name").String(),
			ShortName: t.Get("short_name").String(),
		}
		teams = append(teams, team)
		teamNames[team.ID] = team.Name
		return true
	})

	players := make([]model.CatalogPlayer, 0, len(elements.Array()))
	elements.ForEach(func(_, e gjson.Result) bool {
		players = append(players, parseElement(e, positions, teamNames))
		return true
	})

	b := &Bootstrap{Players: players, Teams: teams}
	doc.Get("events").ForEach(func(_, ev gjson.Result) bool {
		if ev.Get("is_current").Bool() {
			b.CurrentEvent = int(ev.Get("id").Int())
			return false
		}
		return true
	})
	return b, nil
}

// elementTypes maps element_type ids to positions. The four standard ids
// always resolve; anything else falls back to the upstream short name.
func elementTypes(types gjson.Result) map[int]model.Position {
	out := make(map[int]model.Position)
	types.ForEach(func(_, t gjson.Result) bool {
		id := int(t.Get("id").Int())
		if pos := model.PositionFromElementType(id); pos != "" {
			out[id] = pos
		} else if short := t.Get("singular_name_short").String(); short != "" {
			out[id] = model.Position(short)
		}
		return true
	})
	return out
}

func parseElement(e gjson.Result, positions map[int]model.Position, teamNames map[int]string) model.CatalogPlayer {
	et := int(e.Get("element_type").Int())
	pos, ok := positions[et]
	if !ok {
		pos = model.PositionFromElementType(et)
	}

	team := int(e.Get("team").Int())
	p := model.CatalogPlayer{
		Player: model.Player{
			ID:       int(e.Get("id").Int()),
			Name:     e.Get("web_name").String(),
			Position: pos,
			Team:     team,
		},
		TeamName: teamNames[team],
		Features: model.Features{
			Form:        e.Get("form").Float(),
			ValueForm:   e.Get("value_form").Float(),
			TotalPoints: int(e.Get("total_points").Int()),
		},
	}
	if nc := e.Get("now_cost"); nc.Exists() {
		p.Cost = decimal.NewNullDecimal(decimal.NewFromInt(nc.Int()).Shift(-1))
	}
	return p
}
