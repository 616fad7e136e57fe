package psl

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

type Fetcher interface {
	FetchList(ctx context.Context) (*List, error)
	URL() string
}

type Config struct {
	Interval       time.Duration // base refresh interval
	InitialBackoff time.Duration // initial backoff delay
	MaxBackoff     time.Duration // maximum backoff delay
	MinRules       int           // reject fetched lists smaller than this
}

// A truncated download still parses fine, so a fetched list is only
// accepted when it carries a plausible number of rules. The real list has
// been above 9000 rules for years.
const defaultMinRules = 5000

// Start runs background suffix-list refreshes until the context stops.
func Start(ctx context.Context, cfg Config, src Fetcher, holder *Holder) error {
	if cfg.Interval <= 0 {
		return nil // config should already be validated
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 30 * time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Minute
	}
	if cfg.MinRules <= 0 {
		cfg.MinRules = defaultMinRules
	}

	// Refresh immediately on startup; the embedded snapshot serves lookups
	// until this lands.
	if err := updateOnce(ctx, cfg, src, holder); err != nil {
		log.Warn("initial suffix list refresh failed, serving embedded snapshot", "err", err)
	} else {
		log.Info("initial suffix list refresh succeeded", "source", holder.Source())
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	var consecutiveFailures int

	for {
		select {
		case <-ctx.Done():
			log.Info("suffix list updater stopped", "reason", ctx.Err())
			return ctx.Err()

		case <-ticker.C:
			if err := updateOnce(ctx, cfg, src, holder); err != nil {
				consecutiveFailures++
				backoff := calcBackoff(cfg.InitialBackoff, cfg.MaxBackoff, consecutiveFailures)

				log.Warn("suffix list refresh failed",
					"attempt", consecutiveFailures, "backoff", backoff, "err", err)

				timer := time.NewTimer(backoff)
				select {
				case <-ctx.Done():
					timer.Stop()
					log.Info("suffix list updater stopped during backoff", "reason", ctx.Err())
					return ctx.Err()
				case <-timer.C:
				}
				continue
			}

			if consecutiveFailures > 0 {
				log.Info("suffix list refresh recovered", "failures", consecutiveFailures)
			}
			consecutiveFailures = 0
		}
	}
}

func calcBackoff(initial, max time.Duration, failures int) time.Duration {
	pow := math.Pow(2, float64(failures-1))
	backoff := time.Duration(float64(initial) * pow)
	if backoff > max {
		backoff = max
	}

	// Add jitter to avoid synchronized retries
	jitterFrac := 0.2
	jitter := time.Duration(rand.Float64()*2*jitterFrac*float64(backoff)) -
		time.Duration(jitterFrac*float64(backoff))

	return backoff + jitter
}

// updateOnce fetches the list, sanity-checks it and swaps it into the holder.
func updateOnce(ctx context.Context, cfg Config, src Fetcher, holder *Holder) error {
	ctx, cancel := context.WithTimeout(ctx, 90*time.Second)
	defer cancel()

	list, err := src.FetchList(ctx)
	if err != nil {
		return err
	}
	if list.Len() < cfg.MinRules {
		return fmt.Errorf("fetched list has %d rules, want at least %d", list.Len(), cfg.MinRules)
	}

	holder.Set(list, src.URL())
	return nil
}
