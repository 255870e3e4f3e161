package hub

import (
	"context"
	"log/slog"

	"github.com/ColmiiK/ft-transcendence-sub000/internal/router"
	"github.com/ColmiiK/ft-transcendence-sub000/pkg/state"
)

func (h *Hub) notifyFriendRequest(ctx context.Context, senderID int64, f router.FriendRequest) error {
	target, ok := h.registry.Lookup(state.ChannelToast, f.ReceiverID)
	if !ok {
		return nil
	}

	username := f.Username
	if name, err := h.store.Username(ctx, senderID); err == nil {
		username = name
	} else {
		h.logger.Warn("friend request sender lookup failed", slog.Int64("userID", senderID), slog.Any("error", err))
	}

	h.send(target, f.ReceiverID, friendRequestFrame{
		Type:       router.TypeFriendRequest,
		Info:       f.Info,
		SenderID:   senderID,
		ReceiverID: f.ReceiverID,
		Username:   username,
	})
	return nil
}

func (h *Hub) notifyAvatarChange(userID int64, f router.ChangeAvatar) error {
	h.broadcast(state.ChannelToast, userID, avatarFrame{
		Type:     router.TypeChangeAvatar,
		UserID:   userID,
		Username: f.Username,
		Avatar:   f.Avatar,
	})
	return nil
}

// TODO: carry bracket and round data once tournament updates are pushed through the hub.
func (h *Hub) notifyTournament(userID int64) error {
	h.broadcast(state.ChannelToast, userID, tournamentFrame{Type: router.TypeTournament})
	return nil
}

func (h *Hub) notifyProfileUpdate(userID int64, f router.ProfileUpdate) error {
	h.broadcast(state.ChannelToast, userID, profileFrame{
		Type:     router.TypeProfileUpdate,
		UserID:   userID,
		Username: f.Username,
	})
	return nil
}
