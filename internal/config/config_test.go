package config_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/okian/fplhelper/internal/config"
	"github.com/shopspring/decimal"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.FPLBaseURL, convey.ShouldEqual, "https://fantasy.premierleague.com/api")
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.DefaultTopN, convey.ShouldEqual, 5)
			convey.So(cfg.MaxPerTeam, convey.ShouldEqual, 3)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the budget should convert to a decimal", func() {
			budget, ok := cfg.SquadBudget()
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(budget.Equal(decimal.NewFromInt(100)), convey.ShouldBeTrue)
		})

		convey.Convey("When the budget is zero", func() {
			cfg.MaxSquadValue = 0
			_, ok := cfg.SquadBudget()

			convey.Convey("Then it should be reported as unset", func() {
				convey.So(ok, convey.ShouldBeFalse)
			})
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs that break an invariant", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":        func(c *config.Config) { c.Addr = "" },
			"empty base url":    func(c *config.Config) { c.FPLBaseURL = "" },
			"no workers":        func(c *config.Config) { c.WorkerCount = 0 },
			"no queue":          func(c *config.Config) { c.QueueSize = 0 },
			"max below default": func(c *config.Config) { c.MaxTopN = 1 },
			"negative team cap": func(c *config.Config) { c.MaxPerTeam = -1 },
			"negative budget":   func(c *config.Config) { c.MaxSquadValue = -5 },
			"zero rate":         func(c *config.Config) { c.FPLRequestsPerSec = 0 },
			"negative refresh":  func(c *config.Config) { c.RefreshIntervalS = -1 },
		}

		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			_ = name
		}
	})
}
