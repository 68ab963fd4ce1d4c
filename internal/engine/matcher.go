package engine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/efreitasn/doubleauction/internal/domain"
)

// Matcher runs the continuous double auction over one buy book and one
// sell book. Every Submit and Drain call holds the matcher lock for its
// whole duration, so one order is always driven to a quiescent state
// before the next is admitted.
type Matcher struct {
	mu        sync.Mutex
	buys      *Book
	sells     *Book
	lastPrice decimal.Decimal
	sink      Sink
	logger    *zap.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithLogger sets the logger used for per-trade debug output.
func WithLogger(l *zap.Logger) Option {
	return func(m *Matcher) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithBookDegree sets the B-tree degree of both side books.
func WithBookDegree(degree int) Option {
	return func(m *Matcher) {
		m.buys = NewBook(domain.SideBuy, degree)
		m.sells = NewBook(domain.SideSell, degree)
	}
}

// NewMatcher creates a Matcher whose last traded price starts at seed.
// A nil sink discards events.
func NewMatcher(seed decimal.Decimal, sink Sink, opts ...Option) *Matcher {
	if sink == nil {
		sink = nopSink{}
	}
	m := &Matcher{
		buys:      NewBook(domain.SideBuy, DefaultBookDegree),
		sells:     NewBook(domain.SideSell, DefaultBookDegree),
		lastPrice: seed,
		sink:      sink,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Submit matches an incoming order against the opposite book and rests
// any remainder on its own book. Market orders that are not fully filled
// rest as well and keep their precedence over limit orders.
//
// The trades are returned in execution order. A sink error does not stop
// matching: book state is always left consistent and the first sink error
// is returned alongside the trades.
func (m *Matcher) Submit(order *domain.Order) ([]domain.Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if order.Remaining() <= 0 {
		return nil, nil
	}

	own, opposing := m.book(order.Side()), m.book(order.Side().Opposite())

	var trades []domain.Trade
	var sinkErr error
	for order.Remaining() > 0 {
		best, found := opposing.Best()
		if !found {
			break
		}

		buy, sell := order, best
		if order.Side() == domain.SideSell {
			buy, sell = best, order
		}

		// The opposing book is in priority order, so once the best
		// candidate fails no later one can pass.
		if !IsMatch(buy, sell) {
			break
		}

		qty := min(order.Remaining(), best.Remaining())
		price := ExecutionPrice(buy, sell, m.lastPrice)
		m.lastPrice = price

		opposing.Remove(best)
		order.Fill(qty)
		best.Fill(qty)
		if best.Remaining() > 0 {
			opposing.Insert(best)
		}

		trade := domain.Trade{
			BuyOrderID:   buy.ID(),
			SellOrderID:  sell.ID(),
			BuySequence:  buy.Sequence(),
			SellSequence: sell.Sequence(),
			Quantity:     qty,
			Price:        price,
		}
		trades = append(trades, trade)

		m.logger.Debug("trade",
			zap.String("buy_id", trade.BuyOrderID),
			zap.String("sell_id", trade.SellOrderID),
			zap.Int64("quantity", qty),
			zap.String("price", domain.FormatPrice(price)),
		)

		if err := m.sink.Trade(trade); err != nil && sinkErr == nil {
			sinkErr = fmt.Errorf("emit trade: %w", err)
		}
	}

	if order.Remaining() > 0 {
		own.Insert(order)
		m.logger.Debug("order resting",
			zap.String("id", order.ID()),
			zap.Stringer("side", order.Side()),
			zap.Int64("filled", order.Filled()),
			zap.Int64("remaining", order.Remaining()),
			zap.Bool("market", order.IsMarket()),
		)
	}

	return trades, sinkErr
}

// Drain empties both books and reports every resting order as unexecuted,
// in arrival order. The drained orders are returned in the same order.
func (m *Matcher) Drain() ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	orders := append(m.buys.Drain(), m.sells.Drain()...)
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].Sequence() < orders[j].Sequence()
	})

	var sinkErr error
	for _, o := range orders {
		if err := m.sink.Unexecuted(o); err != nil && sinkErr == nil {
			sinkErr = fmt.Errorf("emit unexecuted order: %w", err)
		}
	}
	return orders, sinkErr
}

// LastTradedPrice returns the price of the most recent trade, or the seed
// if none has happened.
func (m *Matcher) LastTradedPrice() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPrice
}

// Depth returns the number of resting buy and sell orders.
func (m *Matcher) Depth() (buys, sells int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buys.Len(), m.sells.Len()
}

// RestingQuantity returns the total remaining quantity on each book.
func (m *Matcher) RestingQuantity() (buys, sells int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buys.Quantity(), m.sells.Quantity()
}

func (m *Matcher) book(side domain.Side) *Book {
	if m.buys.Side() == side {
		return m.buys
	}
	return m.sells
}
