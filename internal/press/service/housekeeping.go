package service

import (
	"context"
	"time"

	"github.com/pressroomhq/pressroom/internal/press/store"
	"github.com/pressroomhq/pressroom/pkg/slogx"
)

// AssetSweeper is the slice of the asset layer housekeeping needs.
type AssetSweeper interface {
	Sweep(referenced map[string]struct{}) (int, error)
}

// HousekeepingService periodically drops expired sessions and uploaded
// files no article references anymore.
type HousekeepingService struct {
	Store  store.Store
	Assets AssetSweeper

	// Now is the clock. Nil means time.Now.
	Now func() time.Time
}

func (s *HousekeepingService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Run sweeps on the given interval until the context is cancelled. Sweep
// errors are logged and the loop keeps going.
func (s *HousekeepingService) Run(ctx context.Context, interval time.Duration) {
	log := slogx.FromContext(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				log.Error("housekeeping sweep failed", "error", err)
			}
		}
	}
}

// Sweep runs one housekeeping pass.
func (s *HousekeepingService) Sweep(ctx context.Context) error {
	if err := s.Store.Sessions().DeleteExpiredSessions(ctx, s.now()); err != nil {
		return err
	}

	paths, err := s.Store.Articles().ListImagePaths(ctx)
	if err != nil {
		return err
	}
	referenced := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		referenced[p] = struct{}{}
	}

	removed, err := s.Assets.Sweep(referenced)
	if err != nil {
		return err
	}
	if removed > 0 {
		slogx.FromContext(ctx).Info("removed orphaned assets", "count", removed)
	}
	return nil
}
