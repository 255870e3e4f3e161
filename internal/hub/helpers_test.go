package hub_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ColmiiK/ft-transcendence-sub000/internal/hub"
	"github.com/ColmiiK/ft-transcendence-sub000/internal/router"
	apperrors "github.com/ColmiiK/ft-transcendence-sub000/pkg/errors"
	"github.com/ColmiiK/ft-transcendence-sub000/pkg/logging"
	"github.com/ColmiiK/ft-transcendence-sub000/pkg/state"
	"github.com/ColmiiK/ft-transcendence-sub000/pkg/state/statemanager"
	"github.com/ColmiiK/ft-transcendence-sub000/pkg/transport"
)

const anonymousID = 1

// --- fake connection ---

type fakeConn struct {
	id      uuid.UUID
	mu      sync.Mutex
	frames  []map[string]any
	closed  bool
	sendErr error
}

func (c *fakeConn) ID() uuid.UUID { return c.id }

func (c *fakeConn) Send(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	var frame map[string]any
	if err := json.Unmarshal(msg, &frame); err != nil {
		return err
	}
	c.frames = append(c.frames, frame)
	return nil
}

func (c *fakeConn) Close(error) {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *fakeConn) received() []map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]map[string]any(nil), c.frames...)
}

func (c *fakeConn) ofType(typ string) []map[string]any {
	var out []map[string]any
	for _, f := range c.received() {
		if f["type"] == typ {
			out = append(out, f)
		}
	}
	return out
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	c.frames = nil
	c.mu.Unlock()
}

// --- fake store ---

type fakeStore struct {
	mu          sync.Mutex
	users       map[int64]string
	online      map[int64]bool
	blocks      map[[2]int64]bool
	chats       map[[2]int64]int64
	messages    []hub.Message
	matches     []hub.Match
	patchErr    error
	createCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  map[int64]string{1: "anonymous", 2: "alice", 3: "bob", 4: "carol"},
		online: map[int64]bool{},
		blocks: map[[2]int64]bool{},
		chats:  map[[2]int64]int64{},
	}
}

var _ hub.Store = (*fakeStore)(nil)

func (s *fakeStore) block(blocker, blocked int64) {
	s.mu.Lock()
	s.blocks[[2]int64{blocker, blocked}] = true
	s.mu.Unlock()
}

func (s *fakeStore) Username(_ context.Context, userID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.users[userID]
	if !ok {
		return "", apperrors.NotFound("user not found")
	}
	return name, nil
}

func (s *fakeStore) IsBlocked(_ context.Context, blocker, blocked int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocks[[2]int64{blocker, blocked}], nil
}

func (s *fakeStore) ChatBetween(_ context.Context, a, b int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a > b {
		a, b = b, a
	}
	key := [2]int64{a, b}
	if id, ok := s.chats[key]; ok {
		return id, nil
	}
	id := int64(len(s.chats) + 100)
	s.chats[key] = id
	return id, nil
}

func (s *fakeStore) CreateMessage(_ context.Context, fields hub.MessageFields) (hub.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	msg := hub.Message{ID: int64(len(s.messages) + 1), MessageFields: fields, SentAt: time.Now()}
	s.messages = append(s.messages, msg)
	return msg, nil
}

func (s *fakeStore) PatchUser(_ context.Context, userID int64, patch hub.UserPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.patchErr != nil {
		return s.patchErr
	}
	if patch.IsOnline != nil {
		s.online[userID] = *patch.IsOnline
	}
	return nil
}

func (s *fakeStore) ScheduleMatch(_ context.Context, fields hub.MatchFields) (hub.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	match := hub.Match{ID: int64(len(s.matches) + 1), MatchFields: fields}
	s.matches = append(s.matches, match)
	return match, nil
}

func (s *fakeStore) Invitation(_ context.Context, messageID int64) (hub.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages {
		if m.ID == messageID && m.InvitationType == hub.InvitationTypeGame {
			return hub.Invitation{
				MessageID:  m.ID,
				ChatID:     m.ChatID,
				SenderID:   m.SenderID,
				ReceiverID: m.ReceiverID,
				GameType:   m.GameType,
				Status:     m.InvitationStatus,
			}, nil
		}
	}
	return hub.Invitation{}, apperrors.NotFound("invitation not found")
}

func (s *fakeStore) ResolveInvitation(_ context.Context, messageID int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.messages {
		if m.ID != messageID || m.InvitationType != hub.InvitationTypeGame {
			continue
		}
		if m.InvitationStatus != hub.InvitationPending {
			return hub.ErrInvitationResolved
		}
		s.messages[i].InvitationStatus = status
		return nil
	}
	return apperrors.NotFound("invitation not found")
}

func (s *fakeStore) messageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

func (s *fakeStore) matchList() []hub.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]hub.Match(nil), s.matches...)
}

// --- fixture ---

type fixture struct {
	t        *testing.T
	hub      *hub.Hub
	registry *statemanager.InMemoryManager
	store    hub.Store
}

func newFixture(t *testing.T, store hub.Store) *fixture {
	t.Helper()
	registry := statemanager.NewInMemoryManager(logging.Discard())
	return &fixture{
		t:        t,
		hub:      hub.New(store, registry, hub.Config{AnonymousUserID: anonymousID}, logging.Discard()),
		registry: registry,
		store:    store,
	}
}

// open registers a transport without identifying it.
func (f *fixture) open(channel state.Channel) (*fakeConn, *state.Connection) {
	f.t.Helper()
	conn := &fakeConn{id: uuid.New()}
	stateConn, err := f.registry.RegisterConnection(conn, channel, "127.0.0.1", 0)
	require.NoError(f.t, err)
	return conn, stateConn
}

// connect opens and identifies a connection, then forgets its ack.
func (f *fixture) connect(channel state.Channel, userID int64) (*fakeConn, *state.Connection) {
	f.t.Helper()
	conn, stateConn := f.open(channel)
	require.NoError(f.t, f.hub.Dispatch(context.Background(), stateConn, router.Identify{UserID: userID}))
	conn.reset()
	return conn, stateConn
}

func (f *fixture) dispatch(conn *state.Connection, frame router.Frame) error {
	return f.hub.Dispatch(context.Background(), conn, frame)
}

// resetAll clears recorded frames after setup broadcasts.
func resetAll(conns ...*fakeConn) {
	for _, c := range conns {
		c.reset()
	}
}

var errQueueFull = transport.ErrSendQueueFull
