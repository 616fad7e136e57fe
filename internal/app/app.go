package app

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/justin-/privacybadgerfirefox/internal/config"
	"github.com/justin-/privacybadgerfirefox/internal/domain"
	"github.com/justin-/privacybadgerfirefox/internal/psl"
	httpapi "github.com/justin-/privacybadgerfirefox/internal/transport/http"
)

// Run wires the suffix-list oracle, the classifier and the HTTP API together
// and blocks until the context is canceled or a component fails.
func Run(ctx context.Context, cfg config.Config) error {
	holder := psl.NewHolder()

	g, ctx := errgroup.WithContext(ctx)

	if cfg.ListFile != "" {
		// Local list: load it and follow file changes instead of fetching.
		g.Go(func() error {
			return psl.Watch(ctx, cfg.ListFile, holder)
		})
	} else {
		client := psl.NewClient(cfg.ListURL)
		updCfg := psl.Config{
			Interval:       cfg.RefreshInterval,
			InitialBackoff: 30 * time.Second,
			MaxBackoff:     30 * time.Minute,
		}
		g.Go(func() error {
			return psl.Start(ctx, updCfg, client, holder)
		})
	}

	classifier := domain.NewClassifier(holder, cfg.FixtureURLs, nil)
	srv := httpapi.NewServer(classifier, holder)

	g.Go(func() error {
		return httpapi.Run(ctx, cfg.HTTPAddr, srv)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("servers stopped with error", "err", err)
		return err
	}

	log.Info("servers stopped gracefully")
	return nil
}
