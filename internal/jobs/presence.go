package jobs

import (
	"context"
	"log/slog"

	"github.com/ColmiiK/ft-transcendence-sub000/internal/hub"
)

// PresenceStore is the persisted side of presence.
type PresenceStore interface {
	OnlineUsers(ctx context.Context) ([]int64, error)
	PatchUser(ctx context.Context, userID int64, patch hub.UserPatch) error
}

// PresenceSource is the live side of presence; *hub.Hub satisfies it.
type PresenceSource interface {
	OnlineUsers() []int64
	IsOnline(userID int64) bool
}

// PresenceReconciler rewrites is_online flags that disagree with the toast
// registry, e.g. users left online by a crash.
type PresenceReconciler struct {
	store  PresenceStore
	source PresenceSource
	logger *slog.Logger
}

func NewPresenceReconciler(store PresenceStore, source PresenceSource, logger *slog.Logger) *PresenceReconciler {
	return &PresenceReconciler{
		store:  store,
		source: source,
		logger: logger.With(slog.String("component", "presence_reconciler")),
	}
}

// Run does one pass and returns how many users it corrected.
func (r *PresenceReconciler) Run(ctx context.Context) (int, error) {
	persisted, err := r.store.OnlineUsers(ctx)
	if err != nil {
		return 0, err
	}
	live := make(map[int64]bool)
	for _, id := range r.source.OnlineUsers() {
		live[id] = true
	}

	fixed := 0
	for _, id := range persisted {
		if live[id] {
			delete(live, id)
			continue
		}
		// The user may have connected since the snapshot.
		if r.source.IsOnline(id) {
			continue
		}
		if r.patch(ctx, id, false) {
			fixed++
		}
	}
	for id := range live {
		if r.patch(ctx, id, true) {
			fixed++
		}
	}

	if fixed > 0 {
		r.logger.Info("presence reconciled", slog.Int("fixed", fixed))
	}
	return fixed, nil
}

func (r *PresenceReconciler) patch(ctx context.Context, userID int64, online bool) bool {
	if err := r.store.PatchUser(ctx, userID, hub.OnlinePatch(online)); err != nil {
		r.logger.Warn("failed to reconcile presence", slog.Int64("userID", userID), slog.Bool("online", online), slog.Any("error", err))
		return false
	}
	return true
}
