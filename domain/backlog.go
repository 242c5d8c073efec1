package domain

// Backlog is the fill level of one connection's outbound buffer.
type Backlog struct {
	UserID   UserID
	Length   int
	Capacity int
}

// Percent is the share of the buffer in use, from 0 to 100.
func (b Backlog) Percent() int {
	if b.Capacity == 0 {
		return 0
	}
	return b.Length * 100 / b.Capacity
}
