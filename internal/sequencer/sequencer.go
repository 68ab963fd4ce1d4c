package sequencer

import "sync/atomic"

// Sequencer stamps monotonically increasing arrival sequences on orders
// as they are ingested. Arrival sequence is the only notion of time the
// matcher uses, so every order must pass through the same Sequencer in
// the order it is admitted.
type Sequencer struct {
	next atomic.Uint64
}

// New returns a Sequencer whose first issued value is start.
func New(start uint64) *Sequencer {
	s := &Sequencer{}
	s.next.Store(start)
	return s
}

// Next issues the next sequence value.
func (s *Sequencer) Next() uint64 {
	return s.next.Add(1) - 1
}

// Issued returns how many values have been issued since start.
func (s *Sequencer) Issued(start uint64) uint64 {
	return s.next.Load() - start
}
