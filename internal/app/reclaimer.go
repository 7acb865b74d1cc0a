package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/craftvoice/relay/internal/core"
)

// Reclaimer deletes rooms that are empty and have been inactive longer
// than StaleAfter. Rooms with members are never reclaimed, however old.
// Plain time-based eviction, not LRU: one timestamp per room.
type Reclaimer struct {
	Store      *core.RoomStore
	Interval   time.Duration
	StaleAfter time.Duration
	Now        func() time.Time
}

func NewReclaimer(store *core.RoomStore, interval, staleAfter time.Duration) *Reclaimer {
	return &Reclaimer{Store: store, Interval: interval, StaleAfter: staleAfter, Now: time.Now}
}

// Run sweeps on a fixed interval until the context is canceled.
func (r *Reclaimer) Run(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.reclaimer").Msg("reclaimer stopped")
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Sweep deletes stale empty rooms and returns how many were removed.
// A room whose age equals StaleAfter exactly is kept; it has to be
// strictly past the threshold.
func (r *Reclaimer) Sweep() int {
	now := r.Now()
	deleted := 0
	for _, room := range r.Store.List() {
		if room.MemberCount() > 0 {
			continue
		}
		if now.Sub(room.LastActivity()) <= r.StaleAfter {
			continue
		}
		r.Store.Delete(room.Code())
		deleted++
		log.Info().Str("module", "app.reclaimer").Str("room", string(room.Code())).Msg("reclaimed inactive room")
	}
	if deleted > 0 {
		log.Info().Str("module", "app.reclaimer").Int("deleted", deleted).Int("remaining", r.Store.Len()).Msg("sweep done")
	}
	return deleted
}
