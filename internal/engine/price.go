package engine

import "github.com/shopspring/decimal"

// IsMatch reports whether buy and sell cross: either side is a market
// order, or the bid is not below the ask.
func IsMatch(buy, sell Ranked) bool {
	bp, buyLimit := buy.LimitPrice()
	sp, sellLimit := sell.LimitPrice()
	if !buyLimit || !sellLimit {
		return true
	}
	return bp.GreaterThanOrEqual(sp)
}

// ExecutionPrice returns the price a crossing pair trades at.
//
//   - both limit: the price of whichever order arrived first
//   - both market: last, the most recent traded price (or the seed)
//   - one of each: the limit order's price
//
// It does not update last; the caller does.
func ExecutionPrice(buy, sell Ranked, last decimal.Decimal) decimal.Decimal {
	bp, buyLimit := buy.LimitPrice()
	sp, sellLimit := sell.LimitPrice()
	switch {
	case buyLimit && sellLimit:
		if sell.Sequence() < buy.Sequence() {
			return sp
		}
		return bp
	case !buyLimit && !sellLimit:
		return last
	case buyLimit:
		return bp
	default:
		return sp
	}
}
