package domain

// Cursors holds, per chat, the highest sequence number delivered to a user.
type Cursors map[ChatID]uint64

// Merge keeps the highest position of both sides for every chat.
func (c Cursors) Merge(other Cursors) Cursors {
	out := make(Cursors, len(c)+len(other))
	for id, seq := range c {
		out[id] = seq
	}
	for id, seq := range other {
		if seq > out[id] {
			out[id] = seq
		}
	}
	return out
}

func (c Cursors) Clone() Cursors {
	return c.Merge(nil)
}
