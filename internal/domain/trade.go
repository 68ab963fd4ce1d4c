package domain

import "github.com/shopspring/decimal"

// Trade is a single execution between a buy and a sell order. Order ids
// are not guaranteed unique, so the arrival sequences of both sides are
// carried as well.
type Trade struct {
	BuyOrderID   string
	SellOrderID  string
	BuySequence  uint64
	SellSequence uint64
	Quantity     int64
	Price        decimal.Decimal
}
