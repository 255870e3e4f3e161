package router

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	apperrors "github.com/ColmiiK/ft-transcendence-sub000/pkg/errors"
	"github.com/ColmiiK/ft-transcendence-sub000/pkg/state"
)

// Inbound frame discriminators.
const (
	TypeMessage       = "message"
	TypeGame          = "game"
	TypeFriendRequest = "friendRequest"
	TypeChangeAvatar  = "change_avatar"
	TypeTournament    = "tournament"
	TypeProfileUpdate = "profile_update"
)

const (
	InfoRequest      = "request"
	InfoAccept       = "accept"
	InfoReject       = "reject"
	InfoConfirmation = "confirmation"
	InfoDelete       = "delete"
)

// Frame is the closed set of inbound payloads. Every variant is declared in
// this file.
type Frame interface {
	frame()
}

// Identify is a frame without a type: the client announcing who it is.
type Identify struct {
	UserID int64
}

// ChatMessage leaves receiver and body optional; absent values are dropped
// by the relay, not rejected here.
type ChatMessage struct {
	ReceiverID int64
	SenderID   int64 // zero when the payload omits it
	Body       string
}

type GameRequest struct {
	ReceiverID int64
	SenderID   int64
	GameType   string
}

// GameResponse accepts or rejects the invitation stored as MessageID.
type GameResponse struct {
	Accept     bool
	MessageID  int64
	ReceiverID int64 // the requester, optional
}

type FriendRequest struct {
	Info       string
	ReceiverID int64
	Username   string
}

type ChangeAvatar struct {
	Username string
	Avatar   string
}

type Tournament struct{}

type ProfileUpdate struct {
	Username string
}

func (Identify) frame()      {}
func (ChatMessage) frame()   {}
func (GameRequest) frame()   {}
func (GameResponse) frame()  {}
func (FriendRequest) frame() {}
func (ChangeAvatar) frame()  {}
func (Tournament) frame()    {}
func (ProfileUpdate) frame() {}

// channelTypes lists which typed frames each channel accepts.
var channelTypes = map[state.Channel]map[string]bool{
	state.ChannelChat: {
		TypeMessage: true,
		TypeGame:    true,
	},
	state.ChannelToast: {
		TypeGame:          true,
		TypeFriendRequest: true,
		TypeChangeAvatar:  true,
		TypeTournament:    true,
		TypeProfileUpdate: true,
	},
}

func parseObject(raw []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, apperrors.InvalidArg("payload is not valid JSON")
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return gjson.Result{}, apperrors.InvalidArg("payload must be a JSON object")
	}
	return doc, nil
}

// DecodeIdentify reads any payload, typed or not, as an identification
// attempt. It is used until the connection is bound.
func DecodeIdentify(raw []byte) (Frame, error) {
	doc, err := parseObject(raw)
	if err != nil {
		return nil, err
	}
	return decodeIdentify(doc)
}

// Decode turns a raw payload received on channel into a Frame.
func Decode(channel state.Channel, raw []byte) (Frame, error) {
	doc, err := parseObject(raw)
	if err != nil {
		return nil, err
	}

	typ := doc.Get("type")
	if !typ.Exists() {
		return decodeIdentify(doc)
	}
	if typ.Type != gjson.String {
		return nil, apperrors.InvalidArg("type must be a string")
	}
	if !channelTypes[channel][typ.Str] {
		return nil, apperrors.New(apperrors.CodeUnsupported, "unsupported type "+strconv.Quote(typ.Str)+" on "+string(channel)+" channel")
	}

	switch typ.Str {
	case TypeMessage:
		return decodeChatMessage(doc)
	case TypeGame:
		return decodeGame(doc)
	case TypeFriendRequest:
		return decodeFriendRequest(doc)
	case TypeChangeAvatar:
		return ChangeAvatar{
			Username: doc.Get("username").String(),
			Avatar:   doc.Get("avatar").String(),
		}, nil
	case TypeTournament:
		return Tournament{}, nil
	case TypeProfileUpdate:
		return ProfileUpdate{Username: doc.Get("username").String()}, nil
	}
	return nil, apperrors.New(apperrors.CodeUnsupported, "unsupported type "+strconv.Quote(typ.Str))
}

func decodeIdentify(doc gjson.Result) (Frame, error) {
	for _, key := range []string{"user_id", "userId", "id"} {
		value := doc.Get(key)
		if !value.Exists() {
			continue
		}
		id, err := parseID(key, value)
		if err != nil {
			return nil, err
		}
		if id <= 0 {
			return nil, apperrors.InvalidArg(key + " must be positive")
		}
		return Identify{UserID: id}, nil
	}
	return nil, apperrors.InvalidArg("user_id is required")
}

func decodeChatMessage(doc gjson.Result) (Frame, error) {
	receiver, err := optionalID(doc, "receiver_id")
	if err != nil {
		return nil, err
	}
	sender, err := optionalID(doc, "sender_id")
	if err != nil {
		return nil, err
	}
	return ChatMessage{ReceiverID: receiver, SenderID: sender, Body: doc.Get("body").String()}, nil
}

func decodeGame(doc gjson.Result) (Frame, error) {
	info := doc.Get("info").String()
	switch info {
	case InfoRequest:
		receiver, err := optionalID(doc, "receiver_id")
		if err != nil {
			return nil, err
		}
		sender, err := optionalID(doc, "sender_id")
		if err != nil {
			return nil, err
		}
		return GameRequest{ReceiverID: receiver, SenderID: sender, GameType: doc.Get("game_type").String()}, nil
	case InfoAccept, InfoReject:
		messageID, err := optionalID(doc, "message_id")
		if err != nil {
			return nil, err
		}
		if messageID == 0 {
			return nil, apperrors.InvalidArg("message_id is required")
		}
		receiver, err := optionalID(doc, "receiver_id")
		if err != nil {
			return nil, err
		}
		return GameResponse{Accept: info == InfoAccept, MessageID: messageID, ReceiverID: receiver}, nil
	default:
		return nil, apperrors.InvalidArg("unknown game info " + strconv.Quote(info))
	}
}

func decodeFriendRequest(doc gjson.Result) (Frame, error) {
	info := doc.Get("info").String()
	switch info {
	case InfoRequest, InfoConfirmation, InfoDelete:
	default:
		return nil, apperrors.InvalidArg("unknown friendRequest info " + strconv.Quote(info))
	}
	receiver, err := optionalID(doc, "receiver_id")
	if err != nil {
		return nil, err
	}
	return FriendRequest{Info: info, ReceiverID: receiver, Username: doc.Get("username").String()}, nil
}

func optionalID(doc gjson.Result, key string) (int64, error) {
	value := doc.Get(key)
	if !value.Exists() || value.Type == gjson.Null {
		return 0, nil
	}
	return parseID(key, value)
}

// parseID accepts an integer or a numeric string.
func parseID(key string, value gjson.Result) (int64, error) {
	switch value.Type {
	case gjson.Number:
		if strings.ContainsAny(value.Raw, ".eE") {
			return 0, apperrors.InvalidArg(key + " must be an integer")
		}
		return value.Int(), nil
	case gjson.String:
		id, err := strconv.ParseInt(strings.TrimSpace(value.Str), 10, 64)
		if err != nil {
			return 0, apperrors.InvalidArg(key + " must be numeric")
		}
		return id, nil
	default:
		return 0, apperrors.InvalidArg(key + " must be a number or numeric string")
	}
}
