package ledger

import "time"

// idGenerator derives ids from the wall clock in milliseconds, bumping past
// the last issued id so ids stay unique when the clock stalls or goes back.
type idGenerator struct {
	now  func() time.Time
	last int64
}

func (g *idGenerator) next() int64 {
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
