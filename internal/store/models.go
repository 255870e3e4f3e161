package store

import (
	"time"
)

type User struct {
	ID        int64  `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;not null"`
	Avatar    string `gorm:"not null;default:''"`
	IsOnline  bool   `gorm:"not null;default:false;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Block is directional: BlockerID does not want to hear from BlockedID.
type Block struct {
	BlockerID int64 `gorm:"primaryKey;autoIncrement:false"`
	BlockedID int64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
}

// Chat pairs are stored with FirstUserID < SecondUserID.
type Chat struct {
	ID           int64 `gorm:"primaryKey"`
	FirstUserID  int64 `gorm:"not null;uniqueIndex:idx_chat_pair"`
	SecondUserID int64 `gorm:"not null;uniqueIndex:idx_chat_pair"`
	CreatedAt    time.Time
}

type Message struct {
	ID               int64     `gorm:"primaryKey"`
	ChatID           int64     `gorm:"not null;index"`
	SenderID         int64     `gorm:"not null"`
	ReceiverID       int64     `gorm:"not null;index"`
	Body             string    `gorm:"not null"`
	SentAt           time.Time `gorm:"not null"`
	IsRead           bool      `gorm:"not null;default:false"`
	InvitationType   string    `gorm:"not null;default:''"`
	InvitationStatus string    `gorm:"not null;default:''"`
	GameType         string    `gorm:"not null;default:''"`
}

type Match struct {
	ID                int64  `gorm:"primaryKey"`
	GameType          string `gorm:"not null"`
	CustomMode        string `gorm:"not null;default:'classic'"`
	FirstPlayerID     int64  `gorm:"not null"`
	FirstPlayerAlias  string `gorm:"not null"`
	SecondPlayerID    int64  `gorm:"not null"`
	SecondPlayerAlias string `gorm:"not null"`
	HostID            int64  `gorm:"not null"`
	TournamentID      *int64
	Phase             string `gorm:"not null;default:''"`
	CreatedAt         time.Time
}

func allModels() []any {
	return []any{&User{}, &Block{}, &Chat{}, &Message{}, &Match{}}
}
