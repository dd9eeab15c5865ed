package app

import (
	"context"
	"time"

	"github.com/dkeye/voicerooms/internal/core"
	"github.com/dkeye/voicerooms/internal/domain"
	"github.com/rs/zerolog/log"
)

// Reaper periodically removes rooms that stayed empty past Retention.
// Rooms are normally deleted the moment their last user leaves; this only
// catches rooms that were created and never joined.
type Reaper struct {
	Rooms     core.RoomManager
	Interval  time.Duration
	Retention time.Duration
	// OnReaped is told which rooms were removed in one sweep.
	OnReaped func([]domain.RoomID)

	now func() time.Time
}

// Run sweeps every Interval until ctx is done.
func (r *Reaper) Run(ctx context.Context) error {
	if r.Interval <= 0 {
		log.Info().Str("module", "app.reaper").Msg("reaper disabled")
		return nil
	}
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()
	log.Info().Str("module", "app.reaper").Dur("interval", r.Interval).Dur("retention", r.Retention).Msg("reaper started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.reaper").Msg("reaper stopped")
			return nil
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Sweep runs one pass and returns the ids of removed rooms.
func (r *Reaper) Sweep() []domain.RoomID {
	now := time.Now
	if r.now != nil {
		now = r.now
	}
	reaped := r.Rooms.Reap(now(), r.Retention)
	if len(reaped) > 0 && r.OnReaped != nil {
		r.OnReaped(reaped)
	}
	return reaped
}
