package engine

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/efreitasn/doubleauction/internal/domain"
)

// SnapshotRow is one order as shown in a book snapshot.
type SnapshotRow struct {
	ID       string
	Price    decimal.Decimal
	Market   bool
	Quantity int64
}

// BookSnapshot is a point-in-time copy of both books. Each side lists the
// worst-ranked order first and the best last, so the rows nearest the
// bottom are the next to trade.
type BookSnapshot struct {
	LastPrice decimal.Decimal
	Buys      []SnapshotRow
	Sells     []SnapshotRow
}

// Snapshot copies the current books. When pending is non-nil it is listed
// last on its side, after the best resting order, as the order about to
// be matched.
func (m *Matcher) Snapshot(pending *domain.Order) BookSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := BookSnapshot{
		LastPrice: m.lastPrice,
		Buys:      worstFirst(m.buys),
		Sells:     worstFirst(m.sells),
	}
	if pending != nil {
		row := snapshotRow(pending)
		if pending.Side() == domain.SideBuy {
			snap.Buys = append(snap.Buys, row)
		} else {
			snap.Sells = append(snap.Sells, row)
		}
	}
	return snap
}

func worstFirst(b *Book) []SnapshotRow {
	rows := make([]SnapshotRow, 0, b.Len())
	b.Walk(func(o *domain.Order) bool {
		rows = append(rows, snapshotRow(o))
		return true
	})
	slices.Reverse(rows)
	return rows
}

func snapshotRow(o *domain.Order) SnapshotRow {
	price, limit := o.LimitPrice()
	return SnapshotRow{
		ID:       o.ID(),
		Price:    price,
		Market:   !limit,
		Quantity: o.Remaining(),
	}
}
