package server

import (
	"log/slog"

	"rinkcast/internal/config"
	"rinkcast/internal/feed"
	"rinkcast/internal/feed/fixture"
	"rinkcast/internal/metrics"
)

// feedFactory assembles the event provider with the shared retry wrapper.
type feedFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newFeedFactory(logger *slog.Logger, metrics *metrics.Recorder) feedFactory {
	return feedFactory{logger: logger, metrics: metrics}
}

func (f feedFactory) build(cfg config.Config) feed.DataProvider {
	base := f.selectFeed(cfg)
	return compositeProvider{
		Provider:       feed.NewRetryingProvider(base, cfg.Feed, f.logger, f.metrics, 0, 0),
		RosterProvider: base,
	}
}

func (f feedFactory) selectFeed(cfg config.Config) feed.DataProvider {
	switch cfg.Feed {
	case "fixture", "":
		return fixture.New()
	default:
		if f.logger != nil {
			f.logger.Warn("unknown feed, falling back to fixture", slog.String("feed", cfg.Feed))
		}
		return fixture.New()
	}
}

// compositeProvider pairs the retry-wrapped event provider with the
// untouched roster provider; roster fetches happen once per game.
type compositeProvider struct {
	feed.Provider
	feed.RosterProvider
}
