// Package session runs one simulation over an input stream: every order
// is parsed and stamped with its arrival sequence, then fed to the
// matcher one at a time, and the books are drained at the end.
package session

import (
	"context"
	"fmt"
	"io"

	"github.com/gammazero/deque"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/efreitasn/doubleauction/internal/domain"
	"github.com/efreitasn/doubleauction/internal/engine"
	"github.com/efreitasn/doubleauction/internal/ingest"
	"github.com/efreitasn/doubleauction/internal/report"
	"github.com/efreitasn/doubleauction/internal/sequencer"
)

// Options configures a session run.
type Options struct {
	Logger     *zap.Logger
	BookDegree int
	// Console receives a book snapshot before each order is matched. Nil
	// disables snapshots.
	Console io.Writer
}

// Summary describes a finished run.
type Summary struct {
	Orders     int
	Trades     int
	Volume     int64
	Unexecuted int
	// UnexecutedQuantity is the remaining quantity over both books just
	// before the drain.
	UnexecutedQuantity int64
	LastPrice          decimal.Decimal
}

// Run parses in completely before matching anything, so malformed input
// produces no events. Orders are then admitted strictly in input order;
// ctx is checked between orders, never during one.
func Run(ctx context.Context, in io.Reader, sink engine.Sink, opts Options) (Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	pending, seed, sequenced, err := ingestAll(in)
	if err != nil {
		return Summary{}, err
	}
	logger.Info("session started",
		zap.String("seed_price", domain.FormatPrice(seed)),
		zap.Uint64("orders", sequenced),
	)

	m := engine.NewMatcher(seed, sink,
		engine.WithLogger(logger),
		engine.WithBookDegree(opts.BookDegree),
	)

	sum := Summary{Orders: int(sequenced)}
	for pending.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return sum, fmt.Errorf("session interrupted: %w", err)
		}
		order := pending.PopFront()

		if opts.Console != nil {
			if err := report.PrintSnapshot(opts.Console, m.Snapshot(order)); err != nil {
				return sum, fmt.Errorf("print book snapshot: %w", err)
			}
		}

		trades, err := m.Submit(order)
		sum.Trades += len(trades)
		for _, t := range trades {
			sum.Volume += t.Quantity
		}
		if err != nil {
			return sum, fmt.Errorf("order %s: %w", order.ID(), err)
		}
	}

	restingBuys, restingSells := m.RestingQuantity()
	sum.UnexecutedQuantity = restingBuys + restingSells

	left, err := m.Drain()
	sum.Unexecuted = len(left)
	sum.LastPrice = m.LastTradedPrice()
	if err != nil {
		return sum, err
	}

	logger.Info("session finished",
		zap.Int("orders", sum.Orders),
		zap.Int("trades", sum.Trades),
		zap.Int64("volume", sum.Volume),
		zap.Int("unexecuted", sum.Unexecuted),
		zap.Int64("unexecuted_quantity", sum.UnexecutedQuantity),
		zap.String("last_price", domain.FormatPrice(sum.LastPrice)),
	)
	return sum, nil
}

// ingestAll reads every record and stamps arrival sequences in input
// order. It also returns how many sequences were issued.
func ingestAll(in io.Reader) (*deque.Deque[*domain.Order], decimal.Decimal, uint64, error) {
	rd, err := ingest.NewReader(in)
	if err != nil {
		return nil, decimal.Zero, 0, fmt.Errorf("parse input: %w", err)
	}
	records, err := rd.ReadAll()
	if err != nil {
		return nil, decimal.Zero, 0, fmt.Errorf("parse input: %w", err)
	}

	seq := sequencer.New(0)
	pending := &deque.Deque[*domain.Order]{}
	for _, rec := range records {
		pending.PushBack(rec.Order(seq.Next()))
	}
	return pending, rd.Seed(), seq.Issued(0), nil
}
