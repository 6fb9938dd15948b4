package testutil

import (
	"sync"
	"time"
)

// MetricsCollectorSpy captures recorded metrics for testing.
type MetricsCollectorSpy struct {
	mu        sync.Mutex
	durations map[string]int
	counters  map[string]int
	values    map[string]int
	labels    []map[string]string
}

// NewMetricsCollectorSpy creates a new MetricsCollectorSpy.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{
		durations: make(map[string]int),
		counters:  make(map[string]int),
		values:    make(map[string]int),
	}
}

// RecordDuration implements the metrics collector interface.
func (s *MetricsCollectorSpy) RecordDuration(metric string, _ time.Duration, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durations[metric]++
	s.labels = append(s.labels, labels)
}

// IncrementCounter implements the metrics collector interface.
func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters[metric]++
	s.labels = append(s.labels, labels)
}

// RecordValue implements the metrics collector interface.
func (s *MetricsCollectorSpy) RecordValue(metric string, _ float64, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[metric]++
	s.labels = append(s.labels, labels)
}

// CounterCount returns how often the given counter metric was incremented.
func (s *MetricsCollectorSpy) CounterCount(metric string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.counters[metric]
}

// DurationCount returns how often the given duration metric was recorded.
func (s *MetricsCollectorSpy) DurationCount(metric string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.durations[metric]
}

// LastLabels returns the labels of the most recent recording.
func (s *MetricsCollectorSpy) LastLabels() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.labels) == 0 {
		return nil
	}

	return s.labels[len(s.labels)-1]
}
