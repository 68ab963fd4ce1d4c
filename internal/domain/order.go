package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Side indicates whether an order buys or sells.
type Side string

const (
	SideBuy  Side = "B"
	SideSell Side = "S"
)

// ParseSide maps the single-letter input token to a Side.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideBuy, SideSell:
		return Side(s), nil
	}
	return "", fmt.Errorf("unknown side %q, must be B or S", s)
}

// Opposite returns the side an order of this side trades against.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

func (s Side) String() string {
	if s == SideBuy {
		return "buy"
	}
	return "sell"
}

// Order is a buy or sell instruction. Its identity, side, limit price and
// arrival sequence never change after construction; only the remaining
// quantity moves, and only through Fill.
type Order struct {
	id        string
	side      Side
	quantity  int64
	remaining int64
	price     decimal.Decimal
	market    bool
	seq       uint64
}

// NewLimitOrder creates an order that trades at price or better.
func NewLimitOrder(id string, side Side, quantity int64, price decimal.Decimal, seq uint64) *Order {
	return &Order{
		id:        id,
		side:      side,
		quantity:  quantity,
		remaining: quantity,
		price:     price,
		seq:       seq,
	}
}

// NewMarketOrder creates an order with no price constraint.
func NewMarketOrder(id string, side Side, quantity int64, seq uint64) *Order {
	return &Order{
		id:        id,
		side:      side,
		quantity:  quantity,
		remaining: quantity,
		market:    true,
		seq:       seq,
	}
}

func (o *Order) ID() string { return o.id }

func (o *Order) Side() Side { return o.side }

// Quantity is the quantity the order was submitted with.
func (o *Order) Quantity() int64 { return o.quantity }

func (o *Order) Remaining() int64 { return o.remaining }

// Filled returns the quantity traded so far.
func (o *Order) Filled() int64 { return o.quantity - o.remaining }

// LimitPrice returns the limit price and true, or a zero price and false
// for a market order.
func (o *Order) LimitPrice() (decimal.Decimal, bool) {
	if o.market {
		return decimal.Zero, false
	}
	return o.price, true
}

func (o *Order) IsMarket() bool { return o.market }

// Sequence is the arrival sequence stamped at ingestion.
func (o *Order) Sequence() uint64 { return o.seq }

// Fill takes qty off the remaining quantity. Filling more than what is
// left is a programming error and panics.
func (o *Order) Fill(qty int64) {
	if qty <= 0 || qty > o.remaining {
		panic(fmt.Sprintf("domain: fill of %d against order %s with %d remaining", qty, o.id, o.remaining))
	}
	o.remaining -= qty
}
