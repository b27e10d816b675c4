package transfer_test

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/okian/fplhelper/internal/domain/model"
	"github.com/okian/fplhelper/internal/domain/transfer"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func player(id int, pos model.Position, pts float64) model.Player {
	return model.Player{ID: id, Name: "p" + decimal.NewFromInt(int64(id)).String(), Position: pos, PredictedPoints: model.Points(pts)}
}

func costed(p model.Player, team int, cost float64) model.Player {
	p.Team = team
	p.Cost = model.Cost(cost)
	return p
}

func constraints(maxValue float64, maxPerTeam int) *model.Constraints {
	return &model.Constraints{MaxSquadValue: model.Cost(maxValue), MaxPerTeam: maxPerTeam}
}

func TestSuggest_Scenarios(t *testing.T) {
	Convey("Given a goalkeeper and a defender in the squad", t, func() {
		squad := []model.Player{player(1, model.GK, 2.0), player(2, model.DEF, 3.0)}
		pool := []model.Player{player(3, model.GK, 5.0), player(4, model.DEF, 1.0)}

		Convey("When suggesting without constraints", func() {
			got, err := transfer.Suggest(squad, pool, nil, 5)

			Convey("Then each position pairs once, best delta first", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].OutPlayerID, ShouldEqual, 1)
				So(got[0].InPlayerID, ShouldEqual, 3)
				So(got[0].DeltaPts, ShouldEqual, 3.0)
				So(got[0].Position, ShouldEqual, model.GK)
				So(got[1].OutPlayerID, ShouldEqual, 2)
				So(got[1].InPlayerID, ShouldEqual, 4)
				So(got[1].DeltaPts, ShouldEqual, -2.0)
			})
		})

		Convey("When top_n is zero", func() {
			got, err := transfer.Suggest(squad, pool, nil, 0)

			Convey("Then the result is empty", func() {
				So(err, ShouldBeNil)
				So(got, ShouldNotBeNil)
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When top_n is negative", func() {
			got, err := transfer.Suggest(squad, pool, nil, -3)
			So(err, ShouldBeNil)
			So(got, ShouldBeEmpty)
		})

		Convey("When the candidate pool is empty", func() {
			got, err := transfer.Suggest(squad, nil, nil, 5)

			Convey("Then the result is empty and no error is raised", func() {
				So(err, ShouldBeNil)
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When top_n is larger than the list", func() {
			got, err := transfer.Suggest(squad, pool, nil, 50)
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 2)
		})

		Convey("When top_n truncates", func() {
			got, err := transfer.Suggest(squad, pool, nil, 1)
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 1)
			So(got[0].InPlayerID, ShouldEqual, 3)
		})
	})

	Convey("Given a squad worth 95 with three players from club 7", t, func() {
		squad := []model.Player{
			costed(player(1, model.MID, 2), 7, 30),
			costed(player(2, model.MID, 3), 7, 30),
			costed(player(3, model.MID, 4), 7, 35),
		}

		Convey("When a club 7 candidate costing 10 is offered", func() {
			pool := []model.Player{costed(player(10, model.MID, 99), 7, 10)}
			res, err := transfer.Evaluate(squad, pool, constraints(100, 3))

			Convey("Then it is excluded regardless of predicted points", func() {
				So(err, ShouldBeNil)
				So(res.Empty(), ShouldBeTrue)
				So(res.Excluded, ShouldResemble, []transfer.Exclusion{{PlayerID: 10, Reason: transfer.ReasonBudget}})
			})
		})

		Convey("When a candidate lands exactly on the budget", func() {
			pool := []model.Player{costed(player(11, model.MID, 6), 8, 5)}
			got, err := transfer.Suggest(squad, pool, constraints(100, 3), 5)

			Convey("Then it stays eligible", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 1)
				So(got[0].InPlayerID, ShouldEqual, 11)
			})
		})

		Convey("When only the club cap is breached", func() {
			pool := []model.Player{costed(player(12, model.MID, 6), 7, 1)}
			res, err := transfer.Evaluate(squad, pool, constraints(200, 3))

			Convey("Then the exclusion is attributed to the club cap", func() {
				So(err, ShouldBeNil)
				So(res.Ranked, ShouldBeEmpty)
				So(res.Excluded[0].Reason, ShouldEqual, transfer.ReasonTeamCap)
			})
		})

		Convey("When the outgoing player's cost would have freed the budget", func() {
			pool := []model.Player{costed(player(13, model.MID, 9), 9, 8)}
			res, err := transfer.Evaluate(squad, pool, constraints(100, 3))

			Convey("Then the pre-swap total is still used", func() {
				So(err, ShouldBeNil)
				So(res.Ranked, ShouldBeEmpty)
				So(res.Excluded, ShouldHaveLength, 1)
			})
		})

		Convey("When only the club cap is set", func() {
			c := &model.Constraints{MaxPerTeam: 3}
			pool := []model.Player{
				costed(player(14, model.MID, 9), 9, 50),
				costed(player(15, model.MID, 8), 7, 4),
			}
			got, err := transfer.Suggest(squad, pool, c, 5)

			Convey("Then the budget is not enforced", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 1)
				So(got[0].InPlayerID, ShouldEqual, 14)
			})
		})
	})
}

func TestSuggest_Pairing(t *testing.T) {
	Convey("Given two weak midfielders and two strong candidates", t, func() {
		squad := []model.Player{player(1, model.MID, 2), player(2, model.MID, 1)}
		pool := []model.Player{player(3, model.MID, 9), player(4, model.MID, 10)}

		Convey("When suggesting", func() {
			got, err := transfer.Suggest(squad, pool, nil, 5)

			Convey("Then pairing is rank against rank, not all pairs", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].OutPlayerID, ShouldEqual, 2)
				So(got[0].InPlayerID, ShouldEqual, 4)
				So(got[0].DeltaPts, ShouldEqual, 9.0)
				So(got[1].OutPlayerID, ShouldEqual, 1)
				So(got[1].InPlayerID, ShouldEqual, 3)
				So(got[1].DeltaPts, ShouldEqual, 7.0)
			})
		})
	})

	Convey("Given more outgoing players than candidates", t, func() {
		squad := []model.Player{player(1, model.FWD, 3), player(2, model.FWD, 1), player(5, model.FWD, 2)}
		pool := []model.Player{player(3, model.FWD, 4)}

		got, err := transfer.Suggest(squad, pool, nil, 5)

		Convey("Then only the shorter side is paired", func() {
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 1)
			So(got[0].OutPlayerID, ShouldEqual, 2)
		})
	})

	Convey("Given deltas that need rounding", t, func() {
		squad := []model.Player{player(1, model.DEF, 1.0)}
		pool := []model.Player{player(2, model.DEF, 2.456)}

		got, err := transfer.Suggest(squad, pool, nil, 5)

		Convey("Then delta_pts is rounded to two places", func() {
			So(err, ShouldBeNil)
			So(got[0].DeltaPts, ShouldEqual, 1.46)
			So(got[0].PredictedIn, ShouldEqual, 2.456)
		})
	})

	Convey("Given deltas that tie once rounded", t, func() {
		squad := []model.Player{player(1, model.GK, 0), player(2, model.DEF, 0)}
		pool := []model.Player{player(3, model.GK, 1.001), player(4, model.DEF, 1.004)}

		got, err := transfer.Suggest(squad, pool, nil, 5)

		Convey("Then the earlier pairing stays first", func() {
			So(err, ShouldBeNil)
			So(got[0].DeltaPts, ShouldEqual, got[1].DeltaPts)
			So(got[0].InPlayerID, ShouldEqual, 3)
			So(got[1].InPlayerID, ShouldEqual, 4)
		})
	})

	Convey("Given candidates with equal predicted points", t, func() {
		squad := []model.Player{player(1, model.MID, 0), player(2, model.MID, 0)}
		pool := []model.Player{player(7, model.MID, 5), player(8, model.MID, 5)}

		got, err := transfer.Suggest(squad, pool, nil, 5)

		Convey("Then input order decides the pairing", func() {
			So(err, ShouldBeNil)
			So(got[0].OutPlayerID, ShouldEqual, 1)
			So(got[0].InPlayerID, ShouldEqual, 7)
			So(got[1].OutPlayerID, ShouldEqual, 2)
			So(got[1].InPlayerID, ShouldEqual, 8)
		})
	})

	Convey("Given a position present on one side only", t, func() {
		squad := []model.Player{player(1, model.GK, 1), player(2, "AM", 1)}
		pool := []model.Player{player(3, model.FWD, 8), player(4, "COACH", 9)}

		got, err := transfer.Suggest(squad, pool, nil, 5)

		Convey("Then no suggestion and no error", func() {
			So(err, ShouldBeNil)
			So(got, ShouldBeEmpty)
		})
	})

	Convey("Given an unrecognised position on both sides", t, func() {
		squad := []model.Player{player(1, "AM", 1)}
		pool := []model.Player{player(2, "AM", 4)}

		got, err := transfer.Suggest(squad, pool, nil, 5)

		Convey("Then it pairs inside its own bucket", func() {
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 1)
			So(got[0].Position, ShouldEqual, model.Position("AM"))
		})
	})
}

func TestSuggest_InvalidInput(t *testing.T) {
	Convey("Given malformed records", t, func() {
		good := player(1, model.GK, 1)

		cases := []struct {
			name  string
			squad []model.Player
			pool  []model.Player
			c     *model.Constraints
			field string
			side  transfer.Side
		}{
			{"missing id", []model.Player{{Position: model.GK, PredictedPoints: model.Points(1)}}, nil, nil, "id", transfer.SideSquad},
			{"missing position", []model.Player{good}, []model.Player{{ID: 2, PredictedPoints: model.Points(1)}}, nil, "position", transfer.SideCandidate},
			{"missing points", []model.Player{good, {ID: 3, Position: model.MID}}, nil, nil, "predicted_points", transfer.SideSquad},
			{"missing cost", []model.Player{costed(good, 1, 5)}, []model.Player{{ID: 2, Position: model.GK, Team: 3, PredictedPoints: model.Points(1)}}, constraints(100, 3), "cost", transfer.SideCandidate},
			{"missing team", []model.Player{{ID: 1, Position: model.GK, Cost: model.Cost(4), PredictedPoints: model.Points(1)}}, nil, constraints(100, 3), "team", transfer.SideSquad},
		}

		for _, tc := range cases {
			_, err := transfer.Suggest(tc.squad, tc.pool, tc.c, 5)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, transfer.ErrInvalidInput), ShouldBeTrue)

			var inv *transfer.InvalidInputError
			So(errors.As(err, &inv), ShouldBeTrue)
			So(inv.Field, ShouldEqual, tc.field)
			So(inv.Side, ShouldEqual, tc.side)
		}
	})

	Convey("Given records lacking cost and team but no constraints", t, func() {
		got, err := transfer.Suggest([]model.Player{player(1, model.GK, 1)}, []model.Player{player(2, model.GK, 3)}, nil, 5)

		Convey("Then they are accepted", func() {
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 1)
		})
	})

	Convey("Given a negative club cap", t, func() {
		_, err := transfer.Suggest(nil, nil, &model.Constraints{MaxPerTeam: -1}, 5)
		So(errors.Is(err, transfer.ErrInvalidInput), ShouldBeTrue)
	})

	Convey("Given a malformed record after valid ones", t, func() {
		squad := []model.Player{player(1, model.GK, 1)}
		pool := []model.Player{player(2, model.GK, 5), {ID: 3, Position: model.GK}}

		_, err := transfer.Suggest(squad, pool, nil, 5)

		Convey("Then the whole call aborts instead of skipping the record", func() {
			So(errors.Is(err, transfer.ErrInvalidInput), ShouldBeTrue)
		})
	})
}

func randomPlayers(rng *rand.Rand, start, n int) []model.Player {
	positions := []model.Position{model.GK, model.DEF, model.MID, model.FWD, "AM"}
	out := make([]model.Player, n)
	for i := range out {
		p := player(start+i, positions[rng.Intn(len(positions))], float64(rng.Intn(1500))/100)
		out[i] = costed(p, 1+rng.Intn(6), 4+float64(rng.Intn(90))/10)
	}
	return out
}

func TestSuggest_Properties(t *testing.T) {
	Convey("Given random squads and pools", t, func() {
		rng := rand.New(rand.NewSource(7)) //nolint:gosec // reproducible fixtures

		for round := 0; round < 50; round++ {
			squad := randomPlayers(rng, 1, 15)
			pool := randomPlayers(rng, 1000, 60)
			c := constraints(80+float64(rng.Intn(40)), 1+rng.Intn(4))
			topN := rng.Intn(12)

			squadCopy := slices.Clone(squad)
			poolCopy := slices.Clone(pool)

			got, err := transfer.Suggest(squad, pool, c, topN)
			So(err, ShouldBeNil)

			again, err := transfer.Suggest(squad, pool, c, topN)
			So(err, ShouldBeNil)
			So(again, ShouldResemble, got)

			So(squad, ShouldResemble, squadCopy)
			So(pool, ShouldResemble, poolCopy)

			So(len(got), ShouldBeLessThanOrEqualTo, topN)

			total := decimal.Zero
			teams := map[int]int{}
			for _, p := range squad {
				total = total.Add(p.Cost.Decimal)
				teams[p.Team]++
			}
			byID := map[int]model.Player{}
			for _, p := range append(slices.Clone(squad), pool...) {
				byID[p.ID] = p
			}

			for i, s := range got {
				in, out := byID[s.InPlayerID], byID[s.OutPlayerID]
				So(total.Add(in.Cost.Decimal).LessThanOrEqual(c.MaxSquadValue.Decimal), ShouldBeTrue)
				So(teams[in.Team], ShouldBeLessThan, c.MaxPerTeam)
				So(in.Position, ShouldEqual, s.Position)
				So(out.Position, ShouldEqual, s.Position)
				if i > 0 {
					So(got[i-1].DeltaPts, ShouldBeGreaterThanOrEqualTo, s.DeltaPts)
				}
			}
		}
	})

	Convey("Given a squad and pool with no common position", t, func() {
		squad := []model.Player{player(1, model.GK, 1), player(2, model.DEF, 1)}
		pool := []model.Player{player(3, model.MID, 5), player(4, model.FWD, 5)}

		res, err := transfer.Evaluate(squad, pool, nil)

		Convey("Then the result is empty", func() {
			So(err, ShouldBeNil)
			So(res.Empty(), ShouldBeTrue)
			So(res.Top(5), ShouldBeEmpty)
		})
	})

	Convey("Given an evaluation", t, func() {
		squad := randomPlayers(rand.New(rand.NewSource(1)), 1, 15) //nolint:gosec // reproducible fixtures
		pool := randomPlayers(rand.New(rand.NewSource(2)), 100, 40) //nolint:gosec // reproducible fixtures

		res, err := transfer.Evaluate(squad, pool, nil)
		So(err, ShouldBeNil)

		Convey("Then Top is a prefix of the full ranking", func() {
			top := res.Top(3)
			So(top, ShouldResemble, res.Ranked[:len(top)])
		})

		Convey("Then Top does not alias the ranking", func() {
			top := res.Top(len(res.Ranked))
			if len(top) > 0 {
				top[0].DeltaPts = 1e9
				So(res.Ranked[0].DeltaPts, ShouldNotEqual, 1e9)
			}
		})
	})
}
