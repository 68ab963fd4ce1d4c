// Package ingest parses the order input stream: a seed price followed by
// one order record per line.
package ingest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/efreitasn/doubleauction/internal/domain"
)

// Record is one parsed input line.
type Record struct {
	Line     int
	ID       string
	Side     domain.Side
	Quantity int64
	Price    decimal.Decimal
	Market   bool
}

// Order builds the domain order for this record with the given arrival
// sequence.
func (r Record) Order(seq uint64) *domain.Order {
	if r.Market {
		return domain.NewMarketOrder(r.ID, r.Side, r.Quantity, seq)
	}
	return domain.NewLimitOrder(r.ID, r.Side, r.Quantity, r.Price, seq)
}

// Reader reads records from an input stream. The first token is the seed
// price; every following non-blank line is
//
//	id side quantity [price]
//
// where side is B or S and a missing price marks a market order. Tokens
// after the seed on its own line form the first record.
type Reader struct {
	sc      *bufio.Scanner
	line    int
	seed    decimal.Decimal
	pending []string
}

// NewReader consumes the seed price from r. It returns ErrMissingSeed when
// the stream holds no tokens at all.
func NewReader(r io.Reader) (*Reader, error) {
	rd := &Reader{sc: bufio.NewScanner(r)}

	fields, err := rd.nextFields()
	if errors.Is(err, io.EOF) {
		return nil, domain.ErrMissingSeed
	}
	if err != nil {
		return nil, err
	}
	seed, err := domain.ParsePrice(fields[0])
	if err != nil {
		return nil, &domain.ValidationError{Line: rd.line, Message: fmt.Sprintf("seed price: %v", err)}
	}
	rd.seed = seed
	if len(fields) > 1 {
		rd.pending = fields[1:]
	}
	return rd, nil
}

// Seed returns the initial last-traded price.
func (r *Reader) Seed() decimal.Decimal {
	return r.seed
}

// Next returns the next record, or io.EOF once the stream is exhausted.
func (r *Reader) Next() (Record, error) {
	fields, err := r.nextFields()
	if err != nil {
		return Record{}, err
	}
	return parseRecord(r.line, fields)
}

// ReadAll returns every remaining record. It stops at the first malformed
// record.
func (r *Reader) ReadAll() ([]Record, error) {
	var records []Record
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}

func (r *Reader) nextFields() ([]string, error) {
	if r.pending != nil {
		fields := r.pending
		r.pending = nil
		return fields, nil
	}
	for r.sc.Scan() {
		r.line++
		fields := strings.Fields(r.sc.Text())
		if len(fields) > 0 {
			return fields, nil
		}
	}
	if err := r.sc.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return nil, io.EOF
}

func parseRecord(line int, fields []string) (Record, error) {
	if len(fields) != 3 && len(fields) != 4 {
		return Record{}, &domain.ValidationError{
			Line:    line,
			Message: fmt.Sprintf("expected 3 or 4 fields (id side quantity [price]), got %d", len(fields)),
		}
	}

	side, err := domain.ParseSide(fields[1])
	if err != nil {
		return Record{}, &domain.ValidationError{Line: line, Message: err.Error()}
	}

	qty, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil || qty <= 0 {
		return Record{}, &domain.ValidationError{
			Line:    line,
			Message: fmt.Sprintf("invalid quantity %q: must be a positive integer", fields[2]),
		}
	}

	rec := Record{Line: line, ID: fields[0], Side: side, Quantity: qty, Market: true}
	if len(fields) == 4 {
		price, err := domain.ParsePrice(fields[3])
		if err != nil {
			return Record{}, &domain.ValidationError{Line: line, Message: err.Error()}
		}
		rec.Price = price
		rec.Market = false
	}
	return rec, nil
}
