package hub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ColmiiK/ft-transcendence-sub000/internal/router"
	apperrors "github.com/ColmiiK/ft-transcendence-sub000/pkg/errors"
	"github.com/ColmiiK/ft-transcendence-sub000/pkg/state"
)

// Side is where the acceptor answered an invitation from.
type Side int

const (
	// SideChat: the answer came over the chat socket, both players must be in chat.
	SideChat Side = iota
	// SideToast: the answer came from a toast notification.
	SideToast
)

func (s Side) String() string {
	if s == SideToast {
		return "toast"
	}
	return "chat"
}

func sideOf(channel state.Channel) Side {
	if channel == state.ChannelToast {
		return SideToast
	}
	return SideChat
}

const (
	ModeClassic = "classic"
	ModeCustom  = "custom"
)

var knownGames = map[string]string{
	"pong":         "pong",
	"connect4":     "connect_four",
	"connect_four": "connect_four",
}

// GameToken is a parsed "<classic|custom>-<game>" invitation type.
type GameToken struct {
	Mode string // ModeClassic or ModeCustom
	Game string // match game_type, e.g. "connect_four"
}

func (t GameToken) Custom() bool {
	return t.Mode == ModeCustom
}

func ParseGameToken(token string) (GameToken, error) {
	mode, game, found := strings.Cut(strings.TrimSpace(token), "-")
	if !found {
		return GameToken{}, apperrors.InvalidArg(fmt.Sprintf("invalid game type %q", token))
	}
	if mode != ModeClassic && mode != ModeCustom {
		return GameToken{}, apperrors.InvalidArg(fmt.Sprintf("invalid game mode %q", mode))
	}
	name, ok := knownGames[game]
	if !ok {
		return GameToken{}, apperrors.InvalidArg(fmt.Sprintf("unknown game %q", game))
	}
	return GameToken{Mode: mode, Game: name}, nil
}

func (h *Hub) requestGame(ctx context.Context, senderID int64, f router.GameRequest) error {
	if err := checkSender(senderID, f.SenderID); err != nil {
		return err
	}
	ok, err := h.canReach(ctx, senderID, f.ReceiverID)
	if err != nil || !ok {
		return err
	}
	token := strings.TrimSpace(f.GameType)
	parsed, err := ParseGameToken(token)
	if err != nil {
		return err
	}

	username, err := h.store.Username(ctx, senderID)
	if err != nil {
		return unavailable("sender lookup failed", err)
	}
	chatID, err := h.store.ChatBetween(ctx, senderID, f.ReceiverID)
	if err != nil {
		return unavailable("chat lookup failed", err)
	}
	body := fmt.Sprintf("%s has invited you to play %s", username, token)
	msg, err := h.store.CreateMessage(ctx, MessageFields{
		ChatID:           chatID,
		SenderID:         senderID,
		ReceiverID:       f.ReceiverID,
		Body:             body,
		InvitationType:   InvitationTypeGame,
		InvitationStatus: InvitationPending,
		GameType:         token,
	})
	if err != nil {
		return unavailable("invitation could not be stored", err)
	}

	if conn, ok := h.registry.Lookup(state.ChannelChat, f.ReceiverID); ok {
		h.send(conn, f.ReceiverID, newChatMessage(msg, username))
		return nil
	}
	h.sendTo(state.ChannelToast, f.ReceiverID, gameFrame{
		Type:       "game",
		Info:       router.InfoRequest,
		Body:       body,
		MessageID:  msg.ID,
		SenderID:   senderID,
		ReceiverID: f.ReceiverID,
		GameType:   token,
		Custom:     parsed.Custom(),
	})
	return nil
}

// respondGame resolves a pending invitation. Whatever the side, the pending
// state is left exactly once; every later answer is a silent no-op.
func (h *Hub) respondGame(ctx context.Context, side Side, acceptorID int64, f router.GameResponse) error {
	inv, err := h.store.Invitation(ctx, f.MessageID)
	if err != nil {
		if apperrors.Is(err, apperrors.CodeNotFound) {
			return nil
		}
		return unavailable("invitation lookup failed", err)
	}
	requesterID := inv.SenderID
	if inv.ReceiverID != acceptorID || inv.Status != InvitationPending {
		return nil
	}
	if f.ReceiverID != 0 && f.ReceiverID != requesterID {
		return nil
	}
	ok, err := h.canReach(ctx, acceptorID, requesterID)
	if err != nil || !ok {
		return err
	}
	if side == SideChat && !h.bothInChat(acceptorID, requesterID) {
		return nil
	}

	token, err := ParseGameToken(inv.GameType)
	if err != nil {
		return err
	}
	var requesterName, acceptorName string
	if f.Accept {
		if requesterName, err = h.store.Username(ctx, requesterID); err != nil {
			return unavailable("player lookup failed", err)
		}
		if acceptorName, err = h.store.Username(ctx, acceptorID); err != nil {
			return unavailable("player lookup failed", err)
		}
	}

	status, info, verb := InvitationRejected, router.InfoReject, "rejected"
	if f.Accept {
		status, info, verb = InvitationAccepted, router.InfoAccept, "accepted"
	}
	if err := h.store.ResolveInvitation(ctx, inv.MessageID, status); err != nil {
		if errors.Is(err, ErrInvitationResolved) {
			return nil
		}
		return unavailable("invitation could not be updated", err)
	}

	logger := h.logger.With(slog.Int64("messageID", inv.MessageID), slog.String("side", side.String()))
	var failed error

	if _, err := h.store.CreateMessage(ctx, MessageFields{
		ChatID:     inv.ChatID,
		SenderID:   acceptorID,
		ReceiverID: requesterID,
		Body:       "Invitation " + verb,
	}); err != nil {
		logger.Error("failed to store invitation answer", slog.Any("error", err))
		failed = unavailable("invitation answer could not be stored", err)
	}

	ack := gameFrame{
		Type:       "game",
		Info:       info,
		MessageID:  inv.MessageID,
		SenderID:   acceptorID,
		ReceiverID: requesterID,
		GameType:   inv.GameType,
		Custom:     token.Custom(),
	}
	if f.Accept {
		match, err := h.store.ScheduleMatch(ctx, MatchFields{
			GameType:          token.Game,
			CustomMode:        token.Mode,
			FirstPlayerID:     requesterID,
			FirstPlayerAlias:  requesterName,
			SecondPlayerID:    acceptorID,
			SecondPlayerAlias: acceptorName,
			HostID:            acceptorID,
		})
		if err != nil {
			logger.Error("failed to schedule match", slog.Any("error", err))
			failed = unavailable("match could not be scheduled", err)
		} else {
			ack.MatchID = match.ID
			logger.Info("match scheduled", slog.Int64("matchID", match.ID), slog.String("game", token.Game))
		}
	}

	h.sendTo(state.ChannelChat, requesterID, ack)
	if side == SideChat {
		h.sendTo(state.ChannelChat, acceptorID, ack)
	}
	return failed
}

func (h *Hub) bothInChat(a, b int64) bool {
	_, okA := h.registry.Lookup(state.ChannelChat, a)
	_, okB := h.registry.Lookup(state.ChannelChat, b)
	return okA && okB
}
