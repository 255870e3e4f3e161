package state

import (
	"time"

	"github.com/google/uuid"
)

// Channel names one of the two logical sockets a client keeps open.
type Channel string

const (
	ChannelChat  Channel = "chat"
	ChannelToast Channel = "toast"
)

func (c Channel) Valid() bool {
	return c == ChannelChat || c == ChannelToast
}

// Transport is the slice of a live socket the registry and hub need.
// *transport.Connection satisfies it.
type Transport interface {
	ID() uuid.UUID
	Send(message []byte) error
	Close(reason error)
}

// representation of a single transport-layer connection.
type Connection struct {
	ID        uuid.UUID
	Channel   Channel
	IPAddress string
	Transport Transport
	// Session is the user id proven by the upgrade request, zero when anonymous.
	Session   int64
	CreatedAt time.Time
}

func (c *Connection) Send(message []byte) error {
	return c.Transport.Send(message)
}

// Stats is a point-in-time view of the registry sizes.
type Stats struct {
	Connections int `json:"connections"`
	Chat        int `json:"chat"`
	Toast       int `json:"toast"`
}
