package state

import (
	"github.com/google/uuid"
)

// Clock hands out stroke identities: a random id and a monotonically
// increasing sequence number.
type Clock struct {
	seq uint64
}

func (c *Clock) Next() (StrokeID, uint64) {
	c.seq++

	return StrokeID(uuid.NewString()), c.seq
}

// Seq returns the last sequence number handed out.
func (c *Clock) Seq() uint64 {
	return c.seq
}
