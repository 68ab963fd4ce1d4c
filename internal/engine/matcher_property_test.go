package engine

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"

	"github.com/efreitasn/doubleauction/internal/domain"
)

// orderParams describes an order independently of any matcher so that the
// same stream can be replayed against several matchers.
type orderParams struct {
	ID     string
	Side   domain.Side
	Qty    int64
	Market bool
	Cents  int64
}

func (s orderParams) build(seq uint64) *domain.Order {
	if s.Market {
		return domain.NewMarketOrder(s.ID, s.Side, s.Qty, seq)
	}
	return domain.NewLimitOrder(s.ID, s.Side, s.Qty, decimal.New(s.Cents, -2), seq)
}

func genOrderParams(i int) *rapid.Generator[orderParams] {
	return rapid.Custom(func(t *rapid.T) orderParams {
		side := domain.SideBuy
		if rapid.Bool().Draw(t, "sell") {
			side = domain.SideSell
		}
		return orderParams{
			// A small id space exercises duplicate ids.
			ID:     fmt.Sprintf("o%d", rapid.IntRange(0, i).Draw(t, "id")),
			Side:   side,
			Qty:    rapid.Int64Range(1, 20).Draw(t, "qty"),
			Market: rapid.IntRange(0, 4).Draw(t, "kind") == 0,
			// A narrow band of prices forces frequent crossing and ties.
			Cents: rapid.Int64Range(9500, 10500).Draw(t, "cents") / 50 * 50,
		}
	})
}

func genOrderStream(t *rapid.T) []orderParams {
	n := rapid.IntRange(1, 60).Draw(t, "numOrders")
	stream := make([]orderParams, n)
	for i := range stream {
		stream[i] = genOrderParams(i).Draw(t, fmt.Sprintf("order-%d", i))
	}
	return stream
}

type runResult struct {
	orders     []*domain.Order
	trades     []domain.Trade
	unexecuted []*domain.Order
}

func runStream(t *rapid.T, seed decimal.Decimal, stream []orderParams, afterSubmit func(*Matcher)) runResult {
	sink := &captureSink{}
	m := NewMatcher(seed, sink, WithBookDegree(rapid.IntRange(2, 8).Draw(t, "degree")))
	res := runResult{}
	for i, s := range stream {
		o := s.build(uint64(i))
		res.orders = append(res.orders, o)
		if _, err := m.Submit(o); err != nil {
			t.Fatalf("Submit(%s) unexpected error: %v", o.ID(), err)
		}
		if afterSubmit != nil {
			afterSubmit(m)
		}
	}
	if _, err := m.Drain(); err != nil {
		t.Fatalf("Drain() unexpected error: %v", err)
	}
	res.trades = sink.trades
	res.unexecuted = sink.unexecuted
	return res
}

func TestProperty_QuantityConservation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		stream := genOrderStream(t)
		res := runStream(t, dec("100"), stream, nil)

		traded := make(map[uint64]int64)
		for i, tr := range res.trades {
			if tr.Quantity <= 0 {
				t.Fatalf("trade[%d] has non-positive quantity %d", i, tr.Quantity)
			}
			traded[tr.BuySequence] += tr.Quantity
			traded[tr.SellSequence] += tr.Quantity
		}
		unexecuted := make(map[uint64]int64)
		for _, o := range res.unexecuted {
			if o.Remaining() <= 0 {
				t.Fatalf("order %s reported unexecuted with %d remaining", o.ID(), o.Remaining())
			}
			if _, dup := unexecuted[o.Sequence()]; dup {
				t.Fatalf("order seq %d reported unexecuted twice", o.Sequence())
			}
			unexecuted[o.Sequence()] = o.Remaining()
		}
		for _, o := range res.orders {
			got := traded[o.Sequence()] + unexecuted[o.Sequence()]
			if got != o.Quantity() {
				t.Fatalf("order %s seq %d: traded(%d) + unexecuted(%d) != quantity(%d)",
					o.ID(), o.Sequence(), traded[o.Sequence()], unexecuted[o.Sequence()], o.Quantity())
			}
		}
	})
}

func TestProperty_NoCrossedLimitTrades(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		stream := genOrderStream(t)
		res := runStream(t, dec("100"), stream, nil)

		for i, tr := range res.trades {
			buy, sell := res.orders[tr.BuySequence], res.orders[tr.SellSequence]
			if buy.Side() != domain.SideBuy || sell.Side() != domain.SideSell {
				t.Fatalf("trade[%d]: buy/sell sides reversed", i)
			}
			bp, buyLimit := buy.LimitPrice()
			sp, sellLimit := sell.LimitPrice()
			if buyLimit && sellLimit && bp.LessThan(sp) {
				t.Fatalf("trade[%d]: bid %s below ask %s", i, bp, sp)
			}
			if buyLimit && !sellLimit && !tr.Price.Equal(bp) {
				t.Fatalf("trade[%d]: market sell should trade at bid %s, got %s", i, bp, tr.Price)
			}
			if sellLimit && !buyLimit && !tr.Price.Equal(sp) {
				t.Fatalf("trade[%d]: market buy should trade at ask %s, got %s", i, sp, tr.Price)
			}
		}
	})
}

func TestProperty_BooksNeverCrossedAtRest(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		stream := genOrderStream(t)
		runStream(t, dec("100"), stream, func(m *Matcher) {
			bestBuy, hasBuy := m.buys.Best()
			bestSell, hasSell := m.sells.Best()
			if hasBuy && hasSell && IsMatch(bestBuy, bestSell) {
				t.Fatalf("book left crossed: best buy %s, best sell %s", bestBuy.ID(), bestSell.ID())
			}
		})
	})
}

func TestProperty_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		stream := genOrderStream(t)
		a := runStream(t, dec("100"), stream, nil)
		b := runStream(t, dec("100"), stream, nil)
		assertSameOutcome(t, a, b.trades, b.unexecuted)
	})
}

// TestProperty_MatchesFullScanReference checks the short-circuit matcher
// against a matcher that scans every opposing order for the best crossing
// candidate. Both must produce identical trades.
func TestProperty_MatchesFullScanReference(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		stream := genOrderStream(t)
		seed := decimal.New(rapid.Int64Range(9000, 11000).Draw(t, "seedCents"), -2)
		got := runStream(t, seed, stream, nil)

		ref := &refMatcher{last: seed}
		for i, s := range stream {
			ref.submit(s.build(uint64(i)))
		}
		assertSameOutcome(t, got, ref.trades, ref.drain())
	})
}

func assertSameOutcome(t *rapid.T, got runResult, trades []domain.Trade, unexecuted []*domain.Order) {
	if len(got.trades) != len(trades) {
		t.Fatalf("trade count %d != %d", len(got.trades), len(trades))
	}
	for i := range trades {
		g, w := got.trades[i], trades[i]
		if g.BuySequence != w.BuySequence || g.SellSequence != w.SellSequence ||
			g.BuyOrderID != w.BuyOrderID || g.SellOrderID != w.SellOrderID ||
			g.Quantity != w.Quantity || !g.Price.Equal(w.Price) {
			t.Fatalf("trade[%d] = %+v, want %+v", i, g, w)
		}
	}
	if len(got.unexecuted) != len(unexecuted) {
		t.Fatalf("unexecuted count %d != %d", len(got.unexecuted), len(unexecuted))
	}
	for i := range unexecuted {
		g, w := got.unexecuted[i], unexecuted[i]
		if g.Sequence() != w.Sequence() || g.Remaining() != w.Remaining() {
			t.Fatalf("unexecuted[%d] = seq %d x%d, want seq %d x%d",
				i, g.Sequence(), g.Remaining(), w.Sequence(), w.Remaining())
		}
	}
}

// refMatcher keeps resting orders in plain slices and picks the best
// crossing candidate by scanning all of them.
type refMatcher struct {
	buys, sells []*domain.Order
	last        decimal.Decimal
	trades      []domain.Trade
}

func refRanksBefore(a, b *domain.Order) bool {
	if a.IsMarket() != b.IsMarket() {
		return a.IsMarket()
	}
	if !a.IsMarket() {
		ap, _ := a.LimitPrice()
		bp, _ := b.LimitPrice()
		if c := ap.Cmp(bp); c != 0 {
			if a.Side() == domain.SideBuy {
				return c > 0
			}
			return c < 0
		}
	}
	return a.Sequence() < b.Sequence()
}

func (r *refMatcher) submit(o *domain.Order) {
	opposing := &r.sells
	own := &r.buys
	if o.Side() == domain.SideSell {
		opposing, own = &r.buys, &r.sells
	}
	for o.Remaining() > 0 {
		idx := -1
		for i, c := range *opposing {
			buy, sell := o, c
			if o.Side() == domain.SideSell {
				buy, sell = c, o
			}
			bp, buyLimit := buy.LimitPrice()
			sp, sellLimit := sell.LimitPrice()
			if buyLimit && sellLimit && bp.LessThan(sp) {
				continue
			}
			if idx < 0 || refRanksBefore(c, (*opposing)[idx]) {
				idx = i
			}
		}
		if idx < 0 {
			break
		}
		c := (*opposing)[idx]
		buy, sell := o, c
		if o.Side() == domain.SideSell {
			buy, sell = c, o
		}
		var price decimal.Decimal
		switch {
		case buy.IsMarket() && sell.IsMarket():
			price = r.last
		case buy.IsMarket():
			price, _ = sell.LimitPrice()
		case sell.IsMarket():
			price, _ = buy.LimitPrice()
		case buy.Sequence() < sell.Sequence():
			price, _ = buy.LimitPrice()
		default:
			price, _ = sell.LimitPrice()
		}
		r.last = price
		qty := min(o.Remaining(), c.Remaining())
		o.Fill(qty)
		c.Fill(qty)
		r.trades = append(r.trades, domain.Trade{
			BuyOrderID:   buy.ID(),
			SellOrderID:  sell.ID(),
			BuySequence:  buy.Sequence(),
			SellSequence: sell.Sequence(),
			Quantity:     qty,
			Price:        price,
		})
		if c.Remaining() == 0 {
			*opposing = append((*opposing)[:idx], (*opposing)[idx+1:]...)
		}
	}
	if o.Remaining() > 0 {
		*own = append(*own, o)
	}
}

func (r *refMatcher) drain() []*domain.Order {
	// Orders were appended in arrival order per side; merge by sequence.
	var out []*domain.Order
	i, j := 0, 0
	for i < len(r.buys) || j < len(r.sells) {
		if j >= len(r.sells) || (i < len(r.buys) && r.buys[i].Sequence() < r.sells[j].Sequence()) {
			out = append(out, r.buys[i])
			i++
		} else {
			out = append(out, r.sells[j])
			j++
		}
	}
	return out
}
