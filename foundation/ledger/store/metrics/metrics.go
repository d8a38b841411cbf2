// Package metrics decorates a store with operation counters published
// for scraping.
package metrics

import (
	"errors"
	"time"

	"github.com/ardanlabs/ledger/foundation/ledger/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Store level metrics published for scraping.
var (
	opsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledger",
		Subsystem: "store",
		Name:      "operations_total",
		Help:      "Number of store operations, by operation and outcome.",
	}, []string{"op", "outcome"})

	opDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ledger",
		Subsystem: "store",
		Name:      "operation_duration_seconds",
		Help:      "Time taken by store operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})
)

// Store decorates another store with the operation metrics.
type Store struct {
	inner store.Store
}

var _ store.Store = (*Store)(nil)

// Wrap constructs a metrics decorated store around the inner store.
func Wrap(inner store.Store) *Store {
	return &Store{inner: inner}
}

// Put writes through to the inner store.
func (s *Store) Put(key []byte, value []byte) error {
	return s.observe("put", func() error {
		return s.inner.Put(key, value)
	})
}

// Get reads through from the inner store.
func (s *Store) Get(key []byte) ([]byte, error) {
	var value []byte
	err := s.observe("get", func() error {
		var err error
		value, err = s.inner.Get(key)
		return err
	})

	return value, err
}

// ForEach scans through the inner store.
func (s *Store) ForEach(fn func(key []byte, value []byte) error) error {
	return s.observe("foreach", func() error {
		return s.inner.ForEach(fn)
	})
}

// DeleteAll clears the inner store.
func (s *Store) DeleteAll() error {
	return s.observe("deleteall", func() error {
		return s.inner.DeleteAll()
	})
}

// Close closes the inner store.
func (s *Store) Close() error {
	return s.inner.Close()
}

// observe runs one operation and records its outcome and duration. A
// missing key counts as a miss, not a failure.
func (s *Store) observe(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	opDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	outcome := "ok"
	switch {
	case errors.Is(err, store.ErrNotFound):
		outcome = "miss"
	case err != nil:
		outcome = "error"
	}
	opsTotal.WithLabelValues(op, outcome).Inc()

	return err
}
