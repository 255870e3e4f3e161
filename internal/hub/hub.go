package hub

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ColmiiK/ft-transcendence-sub000/internal/router"
	apperrors "github.com/ColmiiK/ft-transcendence-sub000/pkg/errors"
	"github.com/ColmiiK/ft-transcendence-sub000/pkg/state"
)

type Config struct {
	// AnonymousUserID is the placeholder account nobody may message.
	AnonymousUserID int64
}

// Hub owns presence, relay, and invitation semantics on top of a connection
// registry. It holds no global state; several hubs can coexist in tests.
type Hub struct {
	store    Store
	registry state.Manager
	cfg      Config
	logger   *slog.Logger
}

var _ router.Dispatcher = (*Hub)(nil)

func New(store Store, registry state.Manager, cfg Config, logger *slog.Logger) *Hub {
	return &Hub{
		store:    store,
		registry: registry,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "hub")),
	}
}

// Dispatch runs one decoded frame for conn.
func (h *Hub) Dispatch(ctx context.Context, conn *state.Connection, frame router.Frame) error {
	if f, ok := frame.(router.Identify); ok {
		return h.identify(ctx, conn, f.UserID)
	}

	userID, ok := h.registry.BoundUser(conn.ID)
	if !ok {
		return apperrors.FailedPrecondition("identify before sending " + router.FrameName(frame))
	}

	switch f := frame.(type) {
	case router.ChatMessage:
		return h.relay(ctx, userID, f)
	case router.GameRequest:
		return h.requestGame(ctx, userID, f)
	case router.GameResponse:
		return h.respondGame(ctx, sideOf(conn.Channel), userID, f)
	case router.FriendRequest:
		return h.notifyFriendRequest(ctx, userID, f)
	case router.ChangeAvatar:
		return h.notifyAvatarChange(userID, f)
	case router.Tournament:
		return h.notifyTournament(userID)
	case router.ProfileUpdate:
		return h.notifyProfileUpdate(userID, f)
	default:
		return apperrors.New(apperrors.CodeUnsupported, "unsupported frame "+router.FrameName(frame))
	}
}

// Disconnect tears down a closed connection. Presence only changes when the
// closing connection is still the one bound for its user.
func (h *Hub) Disconnect(ctx context.Context, connID uuid.UUID) {
	conn, ok := h.registry.GetConnection(connID)
	if !ok {
		return
	}
	defer func() {
		if err := h.registry.DeregisterConnection(connID); err != nil {
			h.logger.Error("failed to deregister connection", slog.String("connID", connID.String()), slog.Any("error", err))
		}
	}()

	userID, bound := h.registry.BoundUser(connID)
	if !bound {
		return
	}
	if !h.registry.Release(conn.Channel, userID, connID) {
		return
	}
	h.logger.Debug("connection unbound", slog.String("channel", string(conn.Channel)), slog.Int64("userID", userID))

	if conn.Channel == state.ChannelToast {
		h.setPresence(ctx, userID, false)
	}
}

// send delivers payload to one connection. Failures are logged per recipient.
func (h *Hub) send(conn *state.Connection, recipient int64, payload any) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode frame", slog.Any("error", err))
		return false
	}
	return h.sendRaw(conn, recipient, data)
}

func (h *Hub) sendRaw(conn *state.Connection, recipient int64, data []byte) bool {
	if err := conn.Send(data); err != nil {
		h.logger.Warn("failed to deliver frame",
			slog.Int64("recipient", recipient),
			slog.String("connID", conn.ID.String()),
			slog.Any("error", err),
		)
		return false
	}
	return true
}

// sendTo delivers payload to the user's connection on channel, if any.
func (h *Hub) sendTo(channel state.Channel, userID int64, payload any) bool {
	conn, ok := h.registry.Lookup(channel, userID)
	if !ok {
		return false
	}
	return h.send(conn, userID, payload)
}

// broadcast sends payload to every entry of channel except the given user.
func (h *Hub) broadcast(channel state.Channel, except int64, payload any) int {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode frame", slog.Any("error", err))
		return 0
	}

	delivered := 0
	h.registry.ForEach(channel, func(userID int64, conn *state.Connection) {
		if userID == except {
			return
		}
		if h.sendRaw(conn, userID, data) {
			delivered++
		}
	})
	return delivered
}

func unavailable(op string, err error) error {
	return apperrors.Unavailable(op, err)
}
