package statemanager

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ColmiiK/ft-transcendence-sub000/pkg/state"
)

var (
	ErrAlreadyRegistered = errors.New("connection is already registered")
	ErrUnknownConnection = errors.New("unknown connection")
	ErrChannelMismatch   = errors.New("connection belongs to another channel")
)

type InMemoryManager struct {
	conns map[uuid.UUID]*state.Connection
	byIP  map[string]map[uuid.UUID]*state.Connection

	entries map[state.Channel]map[int64]*state.Connection
	boundAs map[uuid.UUID]int64

	connMu sync.RWMutex
	regMu  sync.RWMutex

	now    func() time.Time
	logger *slog.Logger
}

func NewInMemoryManager(logger *slog.Logger) *InMemoryManager {
	return &InMemoryManager{
		conns: make(map[uuid.UUID]*state.Connection),
		byIP:  make(map[string]map[uuid.UUID]*state.Connection),
		entries: map[state.Channel]map[int64]*state.Connection{
			state.ChannelChat:  make(map[int64]*state.Connection),
			state.ChannelToast: make(map[int64]*state.Connection),
		},
		boundAs: make(map[uuid.UUID]int64),
		now:     time.Now,
		logger:  logger.With(slog.String("component", "state_manager_inmemory")),
	}
}

// compile-time check to ensure InMemoryManager implements Manager.
var _ state.Manager = (*InMemoryManager)(nil)

func (m *InMemoryManager) RegisterConnection(conn state.Transport, channel state.Channel, ipAddr string, session int64) (*state.Connection, error) {
	m.connMu.Lock()
	defer m.connMu.Unlock()

	connID := conn.ID()
	if _, exists := m.conns[connID]; exists {
		return nil, ErrAlreadyRegistered
	}
	newConn := &state.Connection{
		ID:        connID,
		Channel:   channel,
		IPAddress: ipAddr,
		Transport: conn,
		Session:   session,
		CreatedAt: m.now(),
	}
	m.conns[connID] = newConn
	if m.byIP[ipAddr] == nil {
		m.byIP[ipAddr] = make(map[uuid.UUID]*state.Connection)
	}
	m.byIP[ipAddr][connID] = newConn

	m.logger.Debug("connection registered", slog.String("connID", connID.String()), slog.String("channel", string(channel)))
	return newConn, nil
}

// DeregisterConnection forgets the connection and drops any registry entry
// still pointing at it.
func (m *InMemoryManager) DeregisterConnection(connID uuid.UUID) error {
	m.connMu.Lock()
	conn, ok := m.conns[connID]
	if !ok {
		m.connMu.Unlock()
		return nil
	}
	delete(m.conns, connID)
	if ipConns := m.byIP[conn.IPAddress]; ipConns != nil {
		delete(ipConns, connID)
		if len(ipConns) == 0 {
			delete(m.byIP, conn.IPAddress)
		}
	}
	m.connMu.Unlock()

	m.regMu.Lock()
	if userID, bound := m.boundAs[connID]; bound {
		if current := m.entries[conn.Channel][userID]; current != nil && current.ID == connID {
			delete(m.entries[conn.Channel], userID)
		}
		delete(m.boundAs, connID)
	}
	m.regMu.Unlock()

	m.logger.Debug("connection deregistered", slog.String("connID", connID.String()))
	return nil
}

func (m *InMemoryManager) GetConnection(connID uuid.UUID) (*state.Connection, bool) {
	m.connMu.RLock()
	defer m.connMu.RUnlock()
	conn, ok := m.conns[connID]
	return conn, ok
}

func (m *InMemoryManager) GetIPConnectionCount(ipAddr string) int {
	m.connMu.RLock()
	defer m.connMu.RUnlock()
	return len(m.byIP[ipAddr])
}

func (m *InMemoryManager) FindOldestIPConnection(ipAddr string) (*state.Connection, bool) {
	m.connMu.RLock()
	defer m.connMu.RUnlock()

	var oldest *state.Connection
	for _, conn := range m.byIP[ipAddr] {
		if oldest == nil || conn.CreatedAt.Before(oldest.CreatedAt) {
			oldest = conn
		}
	}
	return oldest, oldest != nil
}

func (m *InMemoryManager) AllConnections() []*state.Connection {
	m.connMu.RLock()
	defer m.connMu.RUnlock()

	conns := make([]*state.Connection, 0, len(m.conns))
	for _, c := range m.conns {
		conns = append(conns, c)
	}
	return conns
}

// --- Identity registry ---

// Bind makes connID the registry entry for userID on channel and returns the
// entry it replaced. The replaced connection keeps its identity; it is only no
// longer addressed.
func (m *InMemoryManager) Bind(channel state.Channel, userID int64, connID uuid.UUID) (*state.Connection, error) {
	m.regMu.Lock()
	defer m.regMu.Unlock()

	// Checked under regMu so a concurrent DeregisterConnection either sees
	// this binding or makes it fail.
	conn, ok := m.GetConnection(connID)
	if !ok {
		return nil, ErrUnknownConnection
	}
	if conn.Channel != channel {
		return nil, ErrChannelMismatch
	}

	entries := m.entries[channel]
	// A connection re-identifying as someone else gives up its old entry.
	if oldUser, bound := m.boundAs[connID]; bound && oldUser != userID {
		if current := entries[oldUser]; current != nil && current.ID == connID {
			delete(entries, oldUser)
		}
	}

	previous := entries[userID]
	entries[userID] = conn
	m.boundAs[connID] = userID

	if previous != nil && previous.ID != connID {
		m.logger.Debug("registry entry replaced",
			slog.String("channel", string(channel)),
			slog.Int64("userID", userID),
			slog.String("previousConnID", previous.ID.String()),
			slog.String("connID", connID.String()),
		)
		return previous, nil
	}
	return nil, nil
}

// Unbind removes the entry for userID. The connection stays identified.
func (m *InMemoryManager) Unbind(channel state.Channel, userID int64) {
	m.regMu.Lock()
	defer m.regMu.Unlock()
	delete(m.entries[channel], userID)
}

// Release removes the entry only while it still points at connID.
func (m *InMemoryManager) Release(channel state.Channel, userID int64, connID uuid.UUID) bool {
	m.regMu.Lock()
	defer m.regMu.Unlock()

	current, ok := m.entries[channel][userID]
	if !ok || current.ID != connID {
		return false
	}
	delete(m.entries[channel], userID)
	return true
}

func (m *InMemoryManager) Lookup(channel state.Channel, userID int64) (*state.Connection, bool) {
	m.regMu.RLock()
	defer m.regMu.RUnlock()
	conn, ok := m.entries[channel][userID]
	return conn, ok
}

func (m *InMemoryManager) BoundUser(connID uuid.UUID) (int64, bool) {
	m.regMu.RLock()
	defer m.regMu.RUnlock()
	userID, ok := m.boundAs[connID]
	return userID, ok
}

func (m *InMemoryManager) ForEach(channel state.Channel, fn func(userID int64, conn *state.Connection)) {
	type entry struct {
		userID int64
		conn   *state.Connection
	}

	m.regMu.RLock()
	snapshot := make([]entry, 0, len(m.entries[channel]))
	for userID, conn := range m.entries[channel] {
		snapshot = append(snapshot, entry{userID: userID, conn: conn})
	}
	m.regMu.RUnlock()

	for _, e := range snapshot {
		fn(e.userID, e.conn)
	}
}

func (m *InMemoryManager) BoundUsers(channel state.Channel) []int64 {
	m.regMu.RLock()
	defer m.regMu.RUnlock()

	users := make([]int64, 0, len(m.entries[channel]))
	for userID := range m.entries[channel] {
		users = append(users, userID)
	}
	return users
}

func (m *InMemoryManager) Stats() state.Stats {
	m.connMu.RLock()
	total := len(m.conns)
	m.connMu.RUnlock()

	m.regMu.RLock()
	defer m.regMu.RUnlock()
	return state.Stats{
		Connections: total,
		Chat:        len(m.entries[state.ChannelChat]),
		Toast:       len(m.entries[state.ChannelToast]),
	}
}
