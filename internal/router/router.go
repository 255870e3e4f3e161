package router

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/ColmiiK/ft-transcendence-sub000/pkg/errors"
	"github.com/ColmiiK/ft-transcendence-sub000/pkg/state"
)

const tracerName = "github.com/ColmiiK/ft-transcendence-sub000/internal/router"

// Dispatcher executes decoded frames for a connection. Returned errors are
// reported to the client as error frames.
type Dispatcher interface {
	Dispatch(ctx context.Context, conn *state.Connection, frame Frame) error
}

type EventRouter struct {
	logger       *slog.Logger
	stateManager state.Manager
	dispatcher   Dispatcher
	limiter      *RateLimiter
	tracer       trace.Tracer
}

func NewEventRouter(logger *slog.Logger, stateManager state.Manager, dispatcher Dispatcher, rate Rate) *EventRouter {
	return &EventRouter{
		logger:       logger.With(slog.String("component", "event_router")),
		stateManager: stateManager,
		dispatcher:   dispatcher,
		limiter:      NewRateLimiter(rate),
		tracer:       otel.Tracer(tracerName),
	}
}

// HandleMessage is the transport's message callback.
func (r *EventRouter) HandleMessage(ctx context.Context, connID uuid.UUID, msg []byte) {
	conn, ok := r.stateManager.GetConnection(connID)
	if !ok {
		r.logger.Warn("message from unregistered connection", slog.String("connID", connID.String()))
		return
	}

	if !r.limiter.Allow(connID) {
		r.sendError(conn, apperrors.New(apperrors.CodeResourceExhausted, "rate limit exceeded"))
		return
	}

	decode := func(raw []byte) (Frame, error) { return Decode(conn.Channel, raw) }
	if _, bound := r.stateManager.BoundUser(connID); !bound {
		decode = DecodeIdentify
	}
	frame, err := decode(msg)
	if err != nil {
		r.logger.Debug("rejected frame", slog.String("connID", connID.String()), slog.Any("error", err))
		r.sendError(conn, err)
		return
	}

	ctx, span := r.tracer.Start(ctx, "hub.dispatch", trace.WithAttributes(
		attribute.String("hub.channel", string(conn.Channel)),
		attribute.String("hub.frame", FrameName(frame)),
	))
	defer span.End()

	if err := r.dispatcher.Dispatch(ctx, conn, frame); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.sendError(conn, err)
	}
}

// Forget drops per-connection router state once a connection is gone.
func (r *EventRouter) Forget(connID uuid.UUID) {
	r.limiter.Forget(connID)
}

func (r *EventRouter) sendError(conn *state.Connection, err error) {
	if sendErr := conn.Send(ErrorFrame(err)); sendErr != nil {
		r.logger.Debug("failed to send error frame", slog.String("connID", conn.ID.String()), slog.Any("error", sendErr))
	}
}

type errorFrame struct {
	Type    string         `json:"type"`
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

// ErrorFrame encodes err for the client. Errors without a code are reported
// as INTERNAL without leaking their text.
func ErrorFrame(err error) []byte {
	out := errorFrame{Type: "error", Code: apperrors.CodeInternal, Message: "internal error"}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		out.Code = appErr.Code
		out.Message = appErr.Message
	}
	data, _ := json.Marshal(out)
	return data
}

func FrameName(frame Frame) string {
	switch frame.(type) {
	case Identify:
		return "identify"
	case ChatMessage:
		return TypeMessage
	case GameRequest:
		return "game.request"
	case GameResponse:
		return "game.response"
	case FriendRequest:
		return TypeFriendRequest
	case ChangeAvatar:
		return TypeChangeAvatar
	case Tournament:
		return TypeTournament
	case ProfileUpdate:
		return TypeProfileUpdate
	default:
		return "unknown"
	}
}
