package hub

import "time"

// Outbound frames. Field names are part of the client contract.

type connectionAck struct {
	Type    string `json:"type"`
	Status  string `json:"status"`
	UserID  int64  `json:"user_id"`
	Channel string `json:"channel"`
}

type friendStatusUpdate struct {
	Type   string `json:"type"`
	UserID int64  `json:"user_id"`
	Status string `json:"status"`
}

type chatMessage struct {
	Type             string    `json:"type"`
	ID               int64     `json:"id"`
	ChatID           int64     `json:"chat_id"`
	SenderID         int64     `json:"sender_id"`
	ReceiverID       int64     `json:"receiver_id"`
	SenderUsername   string    `json:"sender_username"`
	Body             string    `json:"body"`
	SentAt           time.Time `json:"sent_at"`
	IsRead           bool      `json:"is_read"`
	InvitationType   string    `json:"invitation_type,omitempty"`
	InvitationStatus string    `json:"invitation_status,omitempty"`
	GameType         string    `json:"game_type,omitempty"`
}

func newChatMessage(msg Message, senderUsername string) chatMessage {
	return chatMessage{
		Type:             "message",
		ID:               msg.ID,
		ChatID:           msg.ChatID,
		SenderID:         msg.SenderID,
		ReceiverID:       msg.ReceiverID,
		SenderUsername:   senderUsername,
		Body:             msg.Body,
		SentAt:           msg.SentAt,
		IsRead:           msg.IsRead,
		InvitationType:   msg.InvitationType,
		InvitationStatus: msg.InvitationStatus,
		GameType:         msg.GameType,
	}
}

type chatToast struct {
	Type     string `json:"type"`
	SenderID int64  `json:"sender_id"`
	ChatID   int64  `json:"chat_id"`
	Body     string `json:"body"`
}

type gameFrame struct {
	Type       string `json:"type"`
	Info       string `json:"info"`
	Body       string `json:"body,omitempty"`
	MessageID  int64  `json:"message_id"`
	SenderID   int64  `json:"sender_id"`
	ReceiverID int64  `json:"receiver_id"`
	GameType   string `json:"game_type"`
	Custom     bool   `json:"custom"`
	MatchID    int64  `json:"match_id,omitempty"`
}

type friendRequestFrame struct {
	Type       string `json:"type"`
	Info       string `json:"info"`
	SenderID   int64  `json:"sender_id"`
	ReceiverID int64  `json:"receiver_id"`
	Username   string `json:"username,omitempty"`
}

type avatarFrame struct {
	Type     string `json:"type"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

type tournamentFrame struct {
	Type string `json:"type"`
}

type profileFrame struct {
	Type     string `json:"type"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}
