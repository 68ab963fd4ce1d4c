package report

import (
	"errors"

	"github.com/efreitasn/doubleauction/internal/domain"
	"github.com/efreitasn/doubleauction/internal/engine"
)

// Multi fans every event out to each sink in turn. All sinks see every
// event; their errors are joined.
func Multi(sinks ...engine.Sink) engine.Sink {
	return multiSink(sinks)
}

type multiSink []engine.Sink

func (m multiSink) Trade(t domain.Trade) error {
	var errs []error
	for _, s := range m {
		if err := s.Trade(t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m multiSink) Unexecuted(o *domain.Order) error {
	var errs []error
	for _, s := range m {
		if err := s.Unexecuted(o); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
