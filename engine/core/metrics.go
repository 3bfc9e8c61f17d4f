package core

import (
	"sync"
	"time"
)

const AVG_COUNT uint8 = 30

/**
 * @brief Rolling load statistics. The average is taken over the last
 * AVG_COUNT recorded loads.
 */
type Metrics struct {
	mutex sync.Mutex

	avgCounter uint8
	samples    [AVG_COUNT]time.Duration
	filled     uint8

	Loads    int64
	Failures int64
	Total    time.Duration
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Record stores the duration of a successful load.
func (m *Metrics) Record(elapsed time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.samples[m.avgCounter] = elapsed
	m.avgCounter++
	m.avgCounter %= AVG_COUNT
	if m.filled < AVG_COUNT {
		m.filled++
	}
	m.Loads++
	m.Total += elapsed
}

func (m *Metrics) RecordFailure() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.Failures++
}

// Average returns the mean of the retained samples, or 0 if none were recorded.
func (m *Metrics) Average() time.Duration {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.filled == 0 {
		return 0
	}
	var sum time.Duration
	for i := uint8(0); i < m.filled; i++ {
		sum += m.samples[i]
	}
	return sum / time.Duration(m.filled)
}

func (m *Metrics) Counts() (loads int64, failures int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.Loads, m.Failures
}
