// Package metrics keeps lightweight operational counters in an embedded
// time-series store under the working directory.
package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
)

const (
	MOrdersCreated = "orders_created"
	MCartsUpdated  = "carts_updated"
	MOtpSent       = "otp_sent"
)

var (
	mu      sync.Mutex
	storage tstorage.Storage
)

// InitMetrics opens the time-series store under workdir/data/metrics.
func InitMetrics(workdir string) error {
	mu.Lock()
	defer mu.Unlock()
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "data", "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithRetention(90*24*time.Hour),
	)
	if err != nil {
		return err
	}
	storage = s
	return nil
}

// CounterInc records one event occurrence at the current time. A nil
// store (metrics disabled or failed to open) is a no-op.
func CounterInc(metric string) {
	CounterAdd(metric, 1)
}

// CounterAdd records v event occurrences at the current time.
func CounterAdd(metric string, v float64) {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return
	}
	_ = storage.InsertRows([]tstorage.Row{
		{
			Metric:    metric,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: v},
		},
	})
}

// Range returns the raw data points of a metric between start and end.
func Range(metric string, start, end time.Time) ([]*tstorage.DataPoint, error) {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil, nil
	}
	points, err := storage.Select(metric, nil, start.Unix(), end.Unix())
	if err != nil {
		if err == tstorage.ErrNoDataPoints {
			return nil, nil
		}
		return nil, err
	}
	return points, nil
}

// Close flushes and closes the store.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}
