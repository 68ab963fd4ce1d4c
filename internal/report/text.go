// Package report holds the engine.Sink implementations that turn trade
// and unexecuted-order events into output.
package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/efreitasn/doubleauction/internal/domain"
)

// TextReporter writes events in the session output format:
//
//	order <buyId> <qty> shares purchased at price <P.PP>
//	order <sellId> <qty> shares sold at price <P.PP>
//	order <id> <qty> shares unexecuted
//
// Output is buffered; call Flush when the session ends.
type TextReporter struct {
	w *bufio.Writer
	// console echoes trades live, each followed by a blank line.
	console bool
}

// NewTextReporter creates a reporter writing the output file format to w.
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{w: bufio.NewWriter(w)}
}

// NewConsoleReporter creates a reporter for echoing trades to a terminal.
// Each trade is followed by a blank line; unexecuted orders are not echoed.
func NewConsoleReporter(w io.Writer) *TextReporter {
	return &TextReporter{w: bufio.NewWriter(w), console: true}
}

func (r *TextReporter) Trade(t domain.Trade) error {
	price := domain.FormatPrice(t.Price)
	if _, err := fmt.Fprintf(r.w, "order %s %d shares purchased at price %s\n", t.BuyOrderID, t.Quantity, price); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(r.w, "order %s %d shares sold at price %s\n", t.SellOrderID, t.Quantity, price); err != nil {
		return err
	}
	if r.console {
		if err := r.w.WriteByte('\n'); err != nil {
			return err
		}
		// Console output is read live; don't hold it in the buffer.
		return r.w.Flush()
	}
	return nil
}

// Unexecuted writes the residual line. The console echo only mirrors
// trades, so it skips these.
func (r *TextReporter) Unexecuted(o *domain.Order) error {
	if r.console {
		return nil
	}
	_, err := fmt.Fprintf(r.w, "order %s %d shares unexecuted\n", o.ID(), o.Remaining())
	return err
}

// Flush writes any buffered output.
func (r *TextReporter) Flush() error {
	return r.w.Flush()
}
