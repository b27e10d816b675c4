package fpl

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// Picks is a manager's squad for one gameweek.
type Picks struct {
	EntryID  int
	Event    int
	Elements []int
	// Value and Bank are in millions; both are zero when upstream omits
	// entry_history.
	Value decimal.Decimal
	Bank  decimal.Decimal
}

// Budget returns squad value plus money in the bank.
func (p *Picks) Budget() decimal.Decimal {
	return p.Value.Add(p.Bank)
}

// EntryPicks fetches the squad a manager picked for gameweek gw.
func (c *Client) EntryPicks(ctx context.Context, entryID, gw int) (*Picks, error) {
	path := fmt.Sprintf("/entry/%d/event/%d/picks/", entryID, gw)
	body, err := c.get(ctx, "entry_picks", path)
	if err != nil {
		return nil, err
	}
	return parsePicks(body, entryID, gw)
}

func parsePicks(body []byte, entryID, gw int) (*Picks, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: picks is not valid JSON", ErrDecode)
	}
	doc := gjson.ParseBytes(body)

	picks := doc.Get("picks")
	if !picks.IsArray() {
		return nil, fmt.Errorf("%w: picks missing for entry %d", ErrDecode, entryID)
	}

	p := &Picks{EntryID: entryID, Event: gw}
	for _, el := range picks.Get("#.element").Array() {
		p.Elements = append(p.Elements, int(el.Int()))
	}

	hist := doc.Get("entry_history")
	p.Value = decimal.NewFromInt(hist.Get("value").Int()).Shift(-1)
	p.Bank = decimal.NewFromInt(hist.Get("bank").Int()).Shift(-1)
	return p, nil
}
