package hub_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ColmiiK/ft-transcendence-sub000/internal/hub"
	"github.com/ColmiiK/ft-transcendence-sub000/internal/hub/mocks"
	"github.com/ColmiiK/ft-transcendence-sub000/internal/router"
	apperrors "github.com/ColmiiK/ft-transcendence-sub000/pkg/errors"
	"github.com/ColmiiK/ft-transcendence-sub000/pkg/state"
)

var errDatabaseDown = errors.New("database is down")

type chatPair struct {
	*fixture
	alice, bob         *state.Connection
	aliceConn, bobConn *fakeConn
}

// connectWithMock puts alice (2) and bob (3) in chat; chat identify never
// touches the store.
func connectWithMock(t *testing.T, store *mocks.MockStore) chatPair {
	t.Helper()
	p := chatPair{fixture: newFixture(t, store)}
	p.aliceConn, p.alice = p.connect(state.ChannelChat, 2)
	p.bobConn, p.bob = p.connect(state.ChannelChat, 3)
	return p
}

func TestBlockedSenderMakesNoPersistenceCalls(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	p := connectWithMock(t, store)

	store.EXPECT().IsBlocked(gomock.Any(), int64(2), int64(3)).Return(false, nil)
	store.EXPECT().IsBlocked(gomock.Any(), int64(3), int64(2)).Return(true, nil)
	// No ChatBetween, CreateMessage or Username expectations: any call fails the test.

	require.NoError(t, p.dispatch(p.alice, router.ChatMessage{SenderID: 2, ReceiverID: 3, Body: "hi"}))
	assert.Empty(t, p.bobConn.received())
}

func TestRelayPersistenceFailureReportsUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	p := connectWithMock(t, store)

	gomock.InOrder(
		store.EXPECT().IsBlocked(gomock.Any(), int64(2), int64(3)).Return(false, nil),
		store.EXPECT().IsBlocked(gomock.Any(), int64(3), int64(2)).Return(false, nil),
		store.EXPECT().Username(gomock.Any(), int64(2)).Return("alice", nil),
		store.EXPECT().ChatBetween(gomock.Any(), int64(2), int64(3)).Return(int64(10), nil),
		store.EXPECT().CreateMessage(gomock.Any(), hub.MessageFields{ChatID: 10, SenderID: 2, ReceiverID: 3, Body: "hi"}).
			Return(hub.Message{}, errDatabaseDown),
	)

	err := p.dispatch(p.alice, router.ChatMessage{ReceiverID: 3, Body: "hi"})
	assert.Equal(t, apperrors.CodeUnavailable, apperrors.CodeOf(err))
	assert.ErrorIs(t, err, errDatabaseDown)
	assert.Empty(t, p.bobConn.received(), "nothing is delivered that was not stored")
}

func TestBlockLookupFailureReportsUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	p := connectWithMock(t, store)

	store.EXPECT().IsBlocked(gomock.Any(), int64(2), int64(3)).Return(false, errDatabaseDown)

	err := p.dispatch(p.alice, router.ChatMessage{ReceiverID: 3, Body: "hi"})
	assert.Equal(t, apperrors.CodeUnavailable, apperrors.CodeOf(err))
}

func TestAcceptOrdering(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	p := connectWithMock(t, store)

	inv := hub.Invitation{MessageID: 7, ChatID: 10, SenderID: 2, ReceiverID: 3, GameType: "classic-pong", Status: hub.InvitationPending}
	store.EXPECT().IsBlocked(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).Times(2)
	store.EXPECT().Username(gomock.Any(), int64(2)).Return("alice", nil)
	store.EXPECT().Username(gomock.Any(), int64(3)).Return("bob", nil)
	gomock.InOrder(
		store.EXPECT().Invitation(gomock.Any(), int64(7)).Return(inv, nil),
		store.EXPECT().ResolveInvitation(gomock.Any(), int64(7), hub.InvitationAccepted).Return(nil),
		store.EXPECT().CreateMessage(gomock.Any(), hub.MessageFields{ChatID: 10, SenderID: 3, ReceiverID: 2, Body: "Invitation accepted"}).
			Return(hub.Message{ID: 8}, nil),
		store.EXPECT().ScheduleMatch(gomock.Any(), hub.MatchFields{
			GameType:          "pong",
			CustomMode:        hub.ModeClassic,
			FirstPlayerID:     2,
			FirstPlayerAlias:  "alice",
			SecondPlayerID:    3,
			SecondPlayerAlias: "bob",
			HostID:            3,
		}).Return(hub.Match{ID: 1}, nil),
	)

	require.NoError(t, p.dispatch(p.bob, router.GameResponse{Accept: true, MessageID: 7}))
	assert.Len(t, p.aliceConn.ofType("game"), 1)
	assert.Len(t, p.bobConn.ofType("game"), 1)
}

func TestLostResolveRaceIsSilent(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	p := connectWithMock(t, store)

	inv := hub.Invitation{MessageID: 7, ChatID: 10, SenderID: 2, ReceiverID: 3, GameType: "classic-pong", Status: hub.InvitationPending}
	store.EXPECT().Invitation(gomock.Any(), int64(7)).Return(inv, nil)
	store.EXPECT().IsBlocked(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).Times(2)
	store.EXPECT().ResolveInvitation(gomock.Any(), int64(7), hub.InvitationRejected).Return(hub.ErrInvitationResolved)

	require.NoError(t, p.dispatch(p.bob, router.GameResponse{Accept: false, MessageID: 7}))
	assert.Empty(t, p.bobConn.received())
}

func TestScheduleFailureStillAcks(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	p := connectWithMock(t, store)

	inv := hub.Invitation{MessageID: 7, ChatID: 10, SenderID: 2, ReceiverID: 3, GameType: "custom-pong", Status: hub.InvitationPending}
	store.EXPECT().Invitation(gomock.Any(), int64(7)).Return(inv, nil)
	store.EXPECT().IsBlocked(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).Times(2)
	store.EXPECT().Username(gomock.Any(), gomock.Any()).Return("someone", nil).Times(2)
	store.EXPECT().ResolveInvitation(gomock.Any(), int64(7), hub.InvitationAccepted).Return(nil)
	store.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).Return(hub.Message{ID: 8}, nil)
	store.EXPECT().ScheduleMatch(gomock.Any(), gomock.Any()).Return(hub.Match{}, errDatabaseDown)

	err := p.dispatch(p.bob, router.GameResponse{Accept: true, MessageID: 7})
	assert.Equal(t, apperrors.CodeUnavailable, apperrors.CodeOf(err))
	assert.Len(t, p.aliceConn.ofType("game"), 1)
}

func TestToastPresenceFailureIsLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	f := newFixture(t, store)

	store.EXPECT().PatchUser(gomock.Any(), int64(2), hub.OnlinePatch(true)).Return(errDatabaseDown)
	store.EXPECT().PatchUser(gomock.Any(), int64(2), hub.OnlinePatch(false)).Return(nil)

	_, alice := f.open(state.ChannelToast)
	require.NoError(t, f.dispatch(alice, router.Identify{UserID: 2}))
	f.hub.Disconnect(context.Background(), alice.ID)
}
