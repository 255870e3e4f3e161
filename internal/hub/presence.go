package hub

import (
	"context"
	"log/slog"

	"github.com/ColmiiK/ft-transcendence-sub000/pkg/state"
)

const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// setPresence persists the flag and tells every other toast client. The
// registry is authoritative, so a failed write does not stop the broadcast.
func (h *Hub) setPresence(ctx context.Context, userID int64, online bool) {
	if err := h.store.PatchUser(ctx, userID, OnlinePatch(online)); err != nil {
		h.logger.Error("failed to persist presence",
			slog.Int64("userID", userID),
			slog.Bool("online", online),
			slog.Any("error", err),
		)
	}

	status := StatusOffline
	if online {
		status = StatusOnline
	}
	h.broadcast(state.ChannelToast, userID, friendStatusUpdate{
		Type:   "friendStatusUpdate",
		UserID: userID,
		Status: status,
	})
}

// IsOnline reports presence as the toast registry sees it.
func (h *Hub) IsOnline(userID int64) bool {
	_, ok := h.registry.Lookup(state.ChannelToast, userID)
	return ok
}

// OnlineUsers lists every user with a live toast connection.
func (h *Hub) OnlineUsers() []int64 {
	return h.registry.BoundUsers(state.ChannelToast)
}
