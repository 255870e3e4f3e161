package transport_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ColmiiK/ft-transcendence-sub000/pkg/logging"
	"github.com/ColmiiK/ft-transcendence-sub000/pkg/transport"
)

func newIdleConn(queueSize int) *transport.Connection {
	var wg sync.WaitGroup
	return transport.NewConnection(context.Background(), &wg, nil, transport.ConnectionConfig{SendQueueSize: queueSize}, logging.Discard())
}

func TestSendQueueFull(t *testing.T) {
	conn := newIdleConn(2)

	require.NoError(t, conn.Send([]byte("one")))
	require.NoError(t, conn.Send([]byte("two")))

	err := conn.Send([]byte("three"))
	assert.ErrorIs(t, err, transport.ErrSendQueueFull)
}

func TestSendAfterClose(t *testing.T) {
	conn := newIdleConn(4)

	var closedID uuid.UUID
	var closeErr error
	conn.SetOnCloseHandler(func(id uuid.UUID, err error) {
		closedID = id
		closeErr = err
	})

	reason := errors.New("peer went away")
	conn.Close(reason)
	conn.Close(errors.New("second close is ignored"))

	assert.Equal(t, conn.ID(), closedID)
	assert.Equal(t, reason, closeErr)
	assert.ErrorIs(t, conn.Send([]byte("late")), transport.ErrConnectionClosed)

	select {
	case <-conn.Done():
	default:
		t.Fatal("Done channel should be closed after Close")
	}
}

func TestConnectionIDsAreUnique(t *testing.T) {
	a, b := newIdleConn(1), newIdleConn(1)
	assert.NotEqual(t, a.ID(), b.ID())
}
