// Package refresher decides when the menu cache is stale and runs the
// fetch-all-halls refresh that replaces it.
package refresher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/scrounge/pkg/domain"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store

// Fetcher retrieves one hall's menu from the upstream source.
type Fetcher interface {
	Fetch(ctx context.Context, hall, date string) (*domain.Menu, error)
}

// Store is the slice of the persistent store the refresher writes to.
type Store interface {
	ReplaceHall(ctx context.Context, hall string, entries []domain.MenuEntry) error
	GetLastRefresh(ctx context.Context) (time.Time, error)
	SetLastRefresh(ctx context.Context, ts time.Time) error
}

// Config holds refresher settings.
type Config struct {
	ThresholdHour int // UTC hour gating the daily refresh
	Concurrency   int // max parallel hall fetches
}

// Refresher coordinates fetcher, store and freshness policy. One refresh
// runs at a time; a concurrent caller blocks and then finds the cache fresh.
type Refresher struct {
	store         Store
	fetcher       Fetcher
	halls         []string
	thresholdHour int
	concurrency   int
	mu            sync.Mutex
}

// New creates a refresher over the given halls, which are fetched in
// registry order.
func New(store Store, fetcher Fetcher, halls []string, cfg Config) *Refresher {
	if cfg.ThresholdHour == 0 {
		cfg.ThresholdHour = DefaultThresholdHour
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &Refresher{
		store:         store,
		fetcher:       fetcher,
		halls:         halls,
		thresholdHour: cfg.ThresholdHour,
		concurrency:   cfg.Concurrency,
	}
}

// EnsureFresh refreshes all halls if the cache is stale at the given
// instant, otherwise does nothing. The staleness check repeats after the
// refresh lock is acquired, so callers racing against an in-flight refresh
// coalesce instead of refetching.
func (r *Refresher) EnsureFresh(ctx context.Context, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	last, err := r.store.GetLastRefresh(ctx)
	if err != nil {
		return fmt.Errorf("check last refresh: %w", err)
	}
	if !IsStale(now, last, r.thresholdHour) {
		return nil
	}

	return r.refresh(ctx, now)
}

// ForceRefresh refreshes all halls unconditionally.
func (r *Refresher) ForceRefresh(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refresh(ctx, time.Now().UTC())
}

// refresh fetches every hall, and only if all fetches succeed writes the new
// generations and advances the last-refresh marker. A failed hall aborts the
// whole run before any write, so a half-fetched day is never marked fresh
// and the next staleness check retries.
func (r *Refresher) refresh(ctx context.Context, now time.Time) error {
	lgr.Printf("[INFO] refreshing menus for %d halls", len(r.halls))
	start := time.Now()

	menus := make([]*domain.Menu, len(r.halls))
	fetchErrs := make([]error, len(r.halls))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, hall := range r.halls {
		g.Go(func() error {
			retrier := repeater.NewBackoff(3, 500*time.Millisecond, repeater.WithMaxDelay(5*time.Second))
			fetchErrs[i] = retrier.Do(ctx, func() error {
				menu, err := r.fetcher.Fetch(ctx, hall, "")
				if err != nil {
					lgr.Printf("[WARN] fetch %s failed: %v", hall, err)
					return err
				}
				menus[i] = menu
				return nil
			})
			return nil // failures are collected, siblings keep going
		})
	}
	_ = g.Wait() // workers never return errors

	if err := errors.Join(fetchErrs...); err != nil {
		return fmt.Errorf("refresh aborted, cache left untouched: %w", err)
	}

	for i, hall := range r.halls {
		if err := r.store.ReplaceHall(ctx, hall, menus[i].Entries()); err != nil {
			return fmt.Errorf("refresh incomplete, last-refresh not advanced: %w", err)
		}
	}

	if err := r.store.SetLastRefresh(ctx, now); err != nil {
		return fmt.Errorf("mark refresh complete: %w", err)
	}

	lgr.Printf("[INFO] refresh completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}
