package engine

import "github.com/efreitasn/doubleauction/internal/domain"

// Sink receives the events the Matcher produces. Calls are made from the
// goroutine that holds the Matcher, one at a time and in event order.
type Sink interface {
	Trade(t domain.Trade) error
	Unexecuted(o *domain.Order) error
}

type nopSink struct{}

func (nopSink) Trade(domain.Trade) error { return nil }

func (nopSink) Unexecuted(*domain.Order) error { return nil }
