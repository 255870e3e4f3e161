package hub

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/ColmiiK/ft-transcendence-sub000/internal/router"
	apperrors "github.com/ColmiiK/ft-transcendence-sub000/pkg/errors"
	"github.com/ColmiiK/ft-transcendence-sub000/pkg/state"
)

const MaxBodyRunes = 2000

// canReach runs the relay preconditions in order: no block either way, the
// receiver is not the anonymous account, and a receiver was named. A false
// result means the frame is dropped without telling anyone.
func (h *Hub) canReach(ctx context.Context, sender, receiver int64) (bool, error) {
	blocked, err := h.store.IsBlocked(ctx, sender, receiver)
	if err != nil {
		return false, unavailable("block lookup failed", err)
	}
	if blocked {
		return false, nil
	}
	blocked, err = h.store.IsBlocked(ctx, receiver, sender)
	if err != nil {
		return false, unavailable("block lookup failed", err)
	}
	if blocked {
		return false, nil
	}
	if receiver == h.cfg.AnonymousUserID {
		return false, nil
	}
	return receiver != 0, nil
}

func checkSender(bound, claimed int64) error {
	if claimed != 0 && claimed != bound {
		return apperrors.Forbidden("sender_id does not match the identified user")
	}
	return nil
}

func normalizeBody(body string) string {
	return norm.NFC.String(strings.TrimSpace(body))
}

func (h *Hub) relay(ctx context.Context, senderID int64, f router.ChatMessage) error {
	if err := checkSender(senderID, f.SenderID); err != nil {
		return err
	}
	ok, err := h.canReach(ctx, senderID, f.ReceiverID)
	if err != nil || !ok {
		return err
	}
	body := normalizeBody(f.Body)
	if body == "" {
		return nil
	}
	if utf8.RuneCountInString(body) > MaxBodyRunes {
		return apperrors.InvalidArg("message body is too long")
	}

	username, err := h.store.Username(ctx, senderID)
	if err != nil {
		return unavailable("sender lookup failed", err)
	}
	chatID, err := h.store.ChatBetween(ctx, senderID, f.ReceiverID)
	if err != nil {
		return unavailable("chat lookup failed", err)
	}
	msg, err := h.store.CreateMessage(ctx, MessageFields{
		ChatID:     chatID,
		SenderID:   senderID,
		ReceiverID: f.ReceiverID,
		Body:       body,
	})
	if err != nil {
		return unavailable("message could not be stored", err)
	}

	h.deliverMessage(msg, username)
	return nil
}

// deliverMessage prefers the receiver's chat socket and falls back to a
// toast notification.
func (h *Hub) deliverMessage(msg Message, senderUsername string) {
	if conn, ok := h.registry.Lookup(state.ChannelChat, msg.ReceiverID); ok {
		h.send(conn, msg.ReceiverID, newChatMessage(msg, senderUsername))
		return
	}
	if conn, ok := h.registry.Lookup(state.ChannelToast, msg.ReceiverID); ok {
		h.send(conn, msg.ReceiverID, chatToast{
			Type:     "chatToast",
			SenderID: msg.SenderID,
			ChatID:   msg.ChatID,
			Body:     "You have a message from " + senderUsername,
		})
		return
	}
	h.logger.Debug("receiver offline, message stored only", slog.Int64("messageID", msg.ID), slog.Int64("receiverID", msg.ReceiverID))
}
