package engine

import (
	"github.com/google/btree"
	"github.com/shopspring/decimal"

	"github.com/efreitasn/doubleauction/internal/domain"
)

// DefaultBookDegree is the B-tree degree used when none is configured.
const DefaultBookDegree = 32

// Ranked is the view of an order that priority ranking and matching rely
// on. *domain.Order satisfies it.
type Ranked interface {
	Side() domain.Side
	Remaining() int64
	LimitPrice() (decimal.Decimal, bool)
	Sequence() uint64
}

// buyLess ranks buy orders: market orders first, then price descending,
// then arrival ascending. Min() returns the best bid.
func buyLess(a, b Ranked) bool {
	ap, aLimit := a.LimitPrice()
	bp, bLimit := b.LimitPrice()
	if aLimit != bLimit {
		return !aLimit
	}
	if aLimit && !ap.Equal(bp) {
		return ap.GreaterThan(bp)
	}
	return a.Sequence() < b.Sequence()
}

// sellLess ranks sell orders: market orders first, then price ascending,
// then arrival ascending. Min() returns the best ask.
func sellLess(a, b Ranked) bool {
	ap, aLimit := a.LimitPrice()
	bp, bLimit := b.LimitPrice()
	if aLimit != bLimit {
		return !aLimit
	}
	if aLimit && !ap.Equal(bp) {
		return ap.LessThan(bp)
	}
	return a.Sequence() < b.Sequence()
}

// LessFunc returns the priority comparator for side.
func LessFunc(side domain.Side) func(a, b Ranked) bool {
	if side == domain.SideBuy {
		return buyLess
	}
	return sellLess
}

// Book holds the resting orders of one side, ordered by that side's
// priority comparator. It is not safe for concurrent use; the Matcher
// serializes access.
type Book struct {
	side domain.Side
	tree *btree.BTreeG[*domain.Order]
}

// NewBook creates an empty book for side. A degree below 2 falls back to
// DefaultBookDegree.
func NewBook(side domain.Side, degree int) *Book {
	if degree < 2 {
		degree = DefaultBookDegree
	}
	less := LessFunc(side)
	return &Book{
		side: side,
		tree: btree.NewG[*domain.Order](degree, func(a, b *domain.Order) bool {
			return less(a, b)
		}),
	}
}

// Side returns the side whose orders the book holds.
func (b *Book) Side() domain.Side {
	return b.side
}

// Insert rests an order on the book. Arrival sequences must be unique
// within a book: an order ranking equal to a resting one replaces it.
func (b *Book) Insert(o *domain.Order) {
	b.tree.ReplaceOrInsert(o)
}

// Best returns the highest-priority order without removing it.
func (b *Book) Best() (*domain.Order, bool) {
	return b.tree.Min()
}

// Remove deletes o from the book. It reports whether o was present.
func (b *Book) Remove(o *domain.Order) bool {
	_, ok := b.tree.Delete(o)
	return ok
}

// Walk iterates orders from best to worst. The callback returns false to
// stop.
func (b *Book) Walk(fn func(*domain.Order) bool) {
	b.tree.Ascend(fn)
}

// Len returns the number of resting orders.
func (b *Book) Len() int {
	return b.tree.Len()
}

// Quantity returns the total remaining quantity resting on the book.
func (b *Book) Quantity() int64 {
	var total int64
	b.tree.Ascend(func(o *domain.Order) bool {
		total += o.Remaining()
		return true
	})
	return total
}

// Drain removes every order and returns them in priority order.
func (b *Book) Drain() []*domain.Order {
	orders := make([]*domain.Order, 0, b.tree.Len())
	b.tree.Ascend(func(o *domain.Order) bool {
		orders = append(orders, o)
		return true
	})
	b.tree.Clear(false)
	return orders
}
