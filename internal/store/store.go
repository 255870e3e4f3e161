package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ColmiiK/ft-transcendence-sub000/internal/hub"
	apperrors "github.com/ColmiiK/ft-transcendence-sub000/pkg/errors"
)

type Store struct {
	db     *gorm.DB
	now    func() time.Time
	logger *slog.Logger
}

var _ hub.Store = (*Store)(nil)

func New(db *gorm.DB, logger *slog.Logger) *Store {
	return &Store{
		db:     db,
		now:    time.Now,
		logger: logger.With(slog.String("component", "store")),
	}
}

// wrap maps missing rows to NOT_FOUND and everything else to UNAVAILABLE.
func wrap(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Wrap(apperrors.CodeNotFound, op+": not found", err)
	}
	return apperrors.Unavailable("store unavailable", pkgerrors.Wrap(err, op))
}

func (s *Store) Username(ctx context.Context, userID int64) (string, error) {
	var user User
	err := s.db.WithContext(ctx).Select("username").Where("id = ?", userID).Take(&user).Error
	if err != nil {
		return "", wrap(err, "username")
	}
	return user.Username, nil
}

func (s *Store) IsBlocked(ctx context.Context, blocker, blocked int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Block{}).
		Where("blocker_id = ? AND blocked_id = ?", blocker, blocked).
		Count(&count).Error
	if err != nil {
		return false, wrap(err, "is blocked")
	}
	return count > 0, nil
}

func (s *Store) ChatBetween(ctx context.Context, a, b int64) (int64, error) {
	first, second := a, b
	if first > second {
		first, second = second, first
	}

	db := s.db.WithContext(ctx)
	var chat Chat
	err := db.Where("first_user_id = ? AND second_user_id = ?", first, second).Take(&chat).Error
	if err == nil {
		return chat.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, wrap(err, "find chat")
	}

	// Concurrent creators race on the pair index; the loser reads the winner's row.
	chat = Chat{FirstUserID: first, SecondUserID: second}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&chat).Error; err != nil {
		return 0, wrap(err, "create chat")
	}
	chat = Chat{}
	if err := db.Where("first_user_id = ? AND second_user_id = ?", first, second).Take(&chat).Error; err != nil {
		return 0, wrap(err, "find chat")
	}
	return chat.ID, nil
}

func (s *Store) CreateMessage(ctx context.Context, fields hub.MessageFields) (hub.Message, error) {
	row := Message{
		ChatID:           fields.ChatID,
		SenderID:         fields.SenderID,
		ReceiverID:       fields.ReceiverID,
		Body:             fields.Body,
		SentAt:           s.now().UTC(),
		InvitationType:   fields.InvitationType,
		InvitationStatus: fields.InvitationStatus,
		GameType:         fields.GameType,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return hub.Message{}, wrap(err, "create message")
	}
	return toHubMessage(row), nil
}

func (s *Store) PatchUser(ctx context.Context, userID int64, patch hub.UserPatch) error {
	updates := map[string]any{}
	if patch.IsOnline != nil {
		updates["is_online"] = *patch.IsOnline
	}
	if len(updates) == 0 {
		return nil
	}

	res := s.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Updates(updates)
	if res.Error != nil {
		return wrap(res.Error, "patch user")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("patch user: user not found")
	}
	return nil
}

func (s *Store) ScheduleMatch(ctx context.Context, fields hub.MatchFields) (hub.Match, error) {
	row := Match{
		GameType:          fields.GameType,
		CustomMode:        fields.CustomMode,
		FirstPlayerID:     fields.FirstPlayerID,
		FirstPlayerAlias:  fields.FirstPlayerAlias,
		SecondPlayerID:    fields.SecondPlayerID,
		SecondPlayerAlias: fields.SecondPlayerAlias,
		HostID:            fields.HostID,
		TournamentID:      fields.TournamentID,
		Phase:             fields.Phase,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return hub.Match{}, wrap(err, "schedule match")
	}
	return hub.Match{ID: row.ID, MatchFields: fields, CreatedAt: row.CreatedAt}, nil
}

func (s *Store) Invitation(ctx context.Context, messageID int64) (hub.Invitation, error) {
	var row Message
	err := s.db.WithContext(ctx).
		Where("id = ? AND invitation_type = ?", messageID, hub.InvitationTypeGame).
		Take(&row).Error
	if err != nil {
		return hub.Invitation{}, wrap(err, "invitation")
	}
	return hub.Invitation{
		MessageID:  row.ID,
		ChatID:     row.ChatID,
		SenderID:   row.SenderID,
		ReceiverID: row.ReceiverID,
		GameType:   row.GameType,
		Status:     row.InvitationStatus,
	}, nil
}

// ResolveInvitation is a compare-and-set on invitation_status.
func (s *Store) ResolveInvitation(ctx context.Context, messageID int64, status string) error {
	db := s.db.WithContext(ctx)
	res := db.Model(&Message{}).
		Where("id = ? AND invitation_type = ? AND invitation_status = ?", messageID, hub.InvitationTypeGame, hub.InvitationPending).
		Update("invitation_status", status)
	if res.Error != nil {
		return wrap(res.Error, "resolve invitation")
	}
	if res.RowsAffected == 1 {
		return nil
	}

	if _, err := s.Invitation(ctx, messageID); err != nil {
		return err
	}
	return hub.ErrInvitationResolved
}

// OnlineUsers lists users persisted as online.
func (s *Store) OnlineUsers(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := s.db.WithContext(ctx).Model(&User{}).Where("is_online = ?", true).Pluck("id", &ids).Error
	if err != nil {
		return nil, wrap(err, "online users")
	}
	return ids, nil
}

func toHubMessage(row Message) hub.Message {
	return hub.Message{
		ID: row.ID,
		MessageFields: hub.MessageFields{
			ChatID:           row.ChatID,
			SenderID:         row.SenderID,
			ReceiverID:       row.ReceiverID,
			Body:             row.Body,
			InvitationType:   row.InvitationType,
			InvitationStatus: row.InvitationStatus,
			GameType:         row.GameType,
		},
		SentAt: row.SentAt,
		IsRead: row.IsRead,
	}
}
