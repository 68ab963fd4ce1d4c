package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/efreitasn/doubleauction/internal/domain"
	"github.com/efreitasn/doubleauction/internal/engine"
)

const columnWidth = 27

// PrintSnapshot writes a two-column Buy/Sell view of the books in the row
// order of snap, worst first on each side. Market orders show "M" in the
// price column.
func PrintSnapshot(w io.Writer, snap engine.BookSnapshot) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Last trading price: %s\n", domain.FormatPrice(snap.LastPrice))
	fmt.Fprintf(&b, "%-*s%s\n", columnWidth, "Buy", "Sell")
	b.WriteString(strings.Repeat("-", 48))
	b.WriteByte('\n')

	rows := max(len(snap.Buys), len(snap.Sells))
	for i := 0; i < rows; i++ {
		if i < len(snap.Buys) {
			b.WriteString(formatRow(snap.Buys[i]))
			b.WriteString(strings.Repeat(" ", 5))
		} else {
			b.WriteString(strings.Repeat(" ", columnWidth))
		}
		if i < len(snap.Sells) {
			b.WriteString(formatRow(snap.Sells[i]))
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

func formatRow(r engine.SnapshotRow) string {
	price := "M"
	if !r.Market {
		price = domain.FormatPrice(r.Price)
	}
	return fmt.Sprintf("%-9s%-8s%-5d", r.ID, price, r.Quantity)
}
