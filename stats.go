package msgchan

import "github.com/google/uuid"

// Stats is a point-in-time snapshot of a channel.
type Stats struct {
	ID   uuid.UUID
	Name string

	Len       int
	Cap       int
	Closed    bool
	Destroyed bool

	Sends      uint64 // values accepted, including select sends
	Receives   uint64 // values taken, including select receives
	SelectWins uint64 // operations completed through Select

	SelectWaiters   int // select cases registered right now, one per case
	ParkedSenders   int // rendezvous senders blocked in Send
	ParkedReceivers int // rendezvous receivers blocked in Receive
}

// Stats returns a snapshot of the channel. Safe to call concurrently.
func (c *Channel[T]) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		ID:              c.id,
		Name:            c.name,
		Len:             c.buf.Len(),
		Cap:             c.capacity,
		Closed:          c.closed,
		Destroyed:       c.destroyed,
		Sends:           c.sends,
		Receives:        c.receives,
		SelectWins:      c.wins,
		SelectWaiters:   c.waiters.Len(),
		ParkedSenders:   len(c.sendq),
		ParkedReceivers: len(c.recvq),
	}
}
