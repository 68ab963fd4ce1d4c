package report

import (
	"sync"

	"github.com/gammazero/deque"

	"github.com/efreitasn/doubleauction/internal/domain"
)

// EventKind distinguishes recorded events.
type EventKind int

const (
	EventTrade EventKind = iota
	EventUnexecuted
)

// Event is one recorded sink call. For unexecuted events Quantity is the
// residual at the time of the report.
type Event struct {
	Kind     EventKind
	Trade    domain.Trade
	OrderID  string
	Sequence uint64
	Quantity int64
}

// Recorder keeps every event in memory, in emission order. It is used to
// inspect a session without going through the text format.
type Recorder struct {
	mu     sync.Mutex
	events deque.Deque[Event]
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Trade(t domain.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events.PushBack(Event{Kind: EventTrade, Trade: t})
	return nil
}

func (r *Recorder) Unexecuted(o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events.PushBack(Event{
		Kind:     EventUnexecuted,
		OrderID:  o.ID(),
		Sequence: o.Sequence(),
		Quantity: o.Remaining(),
	})
	return nil
}

// Events returns a copy of all recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, 0, r.events.Len())
	for i := 0; i < r.events.Len(); i++ {
		out = append(out, r.events.At(i))
	}
	return out
}

// Trades returns the recorded trades in execution order.
func (r *Recorder) Trades() []domain.Trade {
	var trades []domain.Trade
	for _, e := range r.Events() {
		if e.Kind == EventTrade {
			trades = append(trades, e.Trade)
		}
	}
	return trades
}

// UnexecutedEvents returns the recorded unexecuted-order events.
func (r *Recorder) UnexecutedEvents() []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Kind == EventUnexecuted {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events.Len()
}
