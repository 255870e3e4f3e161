package state

import (
	"github.com/google/uuid"
)

type Manager interface {
	// --- Connection Lifecycle ---
	RegisterConnection(conn Transport, channel Channel, ipAddr string, session int64) (*Connection, error)
	DeregisterConnection(connID uuid.UUID) error
	GetConnection(connID uuid.UUID) (*Connection, bool)
	FindOldestIPConnection(ipAddr string) (*Connection, bool)
	GetIPConnectionCount(ipAddr string) int
	AllConnections() []*Connection

	// --- Identity registry, one entry per user per channel ---

	// Bind points userID at connID on the channel, replacing any previous entry.
	// The replaced connection, if any, is returned and left open.
	Bind(channel Channel, userID int64, connID uuid.UUID) (previous *Connection, err error)
	Unbind(channel Channel, userID int64)
	// Release removes the entry only while it still points at connID.
	Release(channel Channel, userID int64, connID uuid.UUID) bool
	Lookup(channel Channel, userID int64) (*Connection, bool)
	// BoundUser reports which user, if any, the connection is bound as.
	BoundUser(connID uuid.UUID) (int64, bool)
	// ForEach visits a snapshot of the channel's entries taken at call time.
	ForEach(channel Channel, fn func(userID int64, conn *Connection))
	BoundUsers(channel Channel) []int64

	Stats() Stats
}
