//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/ColmiiK/ft-transcendence-sub000/internal/hub Store

package hub

import (
	"context"
	"errors"
	"time"
)

const (
	InvitationTypeGame = "game"

	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationRejected = "rejected"
)

// ErrInvitationResolved is returned by ResolveInvitation when the row already
// left the pending state.
var ErrInvitationResolved = errors.New("invitation already resolved")

// Store is everything the hub needs from persistence.
type Store interface {
	Username(ctx context.Context, userID int64) (string, error)
	// IsBlocked reports whether blocker has blocked blocked. It is directional.
	IsBlocked(ctx context.Context, blocker, blocked int64) (bool, error)
	// ChatBetween returns the chat shared by the two users, creating it if needed.
	ChatBetween(ctx context.Context, a, b int64) (int64, error)
	CreateMessage(ctx context.Context, fields MessageFields) (Message, error)
	PatchUser(ctx context.Context, userID int64, patch UserPatch) error
	ScheduleMatch(ctx context.Context, fields MatchFields) (Match, error)
	Invitation(ctx context.Context, messageID int64) (Invitation, error)
	// ResolveInvitation moves a pending invitation to status, exactly once.
	ResolveInvitation(ctx context.Context, messageID int64, status string) error
}

type MessageFields struct {
	ChatID           int64
	SenderID         int64
	ReceiverID       int64
	Body             string
	InvitationType   string
	InvitationStatus string
	GameType         string
}

type Message struct {
	ID int64
	MessageFields
	SentAt time.Time
	IsRead bool
}

type UserPatch struct {
	IsOnline *bool
}

func OnlinePatch(online bool) UserPatch {
	return UserPatch{IsOnline: &online}
}

type MatchFields struct {
	GameType          string
	CustomMode        string // ModeClassic or ModeCustom
	FirstPlayerID     int64
	FirstPlayerAlias  string
	SecondPlayerID    int64
	SecondPlayerAlias string
	HostID            int64
	TournamentID      *int64
	Phase             string
}

type Match struct {
	ID int64
	MatchFields
	CreatedAt time.Time
}

type Invitation struct {
	MessageID  int64
	ChatID     int64
	SenderID   int64
	ReceiverID int64
	GameType   string
	Status     string
}
