package hub

import (
	"context"
	"log/slog"

	apperrors "github.com/ColmiiK/ft-transcendence-sub000/pkg/errors"
	"github.com/ColmiiK/ft-transcendence-sub000/pkg/state"
)

// identify binds conn to userID on its channel. A second identify on the same
// connection rebinds it.
func (h *Hub) identify(ctx context.Context, conn *state.Connection, userID int64) error {
	if conn.Session != 0 && conn.Session != userID {
		return apperrors.Forbidden("user_id does not match the session")
	}

	formerUser, wasBound := h.registry.BoundUser(conn.ID)
	previous, err := h.registry.Bind(conn.Channel, userID, conn.ID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "could not register connection", err)
	}
	if previous != nil {
		h.logger.Debug("connection superseded",
			slog.String("channel", string(conn.Channel)),
			slog.Int64("userID", userID),
			slog.String("previousConnID", previous.ID.String()),
		)
	}

	h.send(conn, userID, connectionAck{
		Type:    "connection",
		Status:  "connected",
		UserID:  userID,
		Channel: string(conn.Channel),
	})

	if conn.Channel != state.ChannelToast {
		return nil
	}
	if wasBound && formerUser != userID {
		if _, stillOnline := h.registry.Lookup(state.ChannelToast, formerUser); !stillOnline {
			h.setPresence(ctx, formerUser, false)
		}
	}
	h.setPresence(ctx, userID, true)
	return nil
}
