// Package metrics keeps in-process counters for the kiosk state store.
package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Gauge holds the most recent duration observed.
type Gauge struct {
	nanos atomic.Int64
}

func (g *Gauge) Set(d time.Duration) {
	g.nanos.Store(int64(d))
}

func (g *Gauge) Load() time.Duration {
	return time.Duration(g.nanos.Load())
}

type Store struct {
	Writes         Counter
	WriteFailures  Counter
	Reloads        Counter
	ReloadFailures Counter
	Handoffs       Counter
	LastReload     Gauge
}

type Snapshot struct {
	Writes         uint64        `json:"writes"`
	WriteFailures  uint64        `json:"writeFailures"`
	Reloads        uint64        `json:"reloads"`
	ReloadFailures uint64        `json:"reloadFailures"`
	Handoffs       uint64        `json:"handoffs"`
	LastReload     time.Duration `json:"lastReload"`
}

func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Writes:         s.Writes.Load(),
		WriteFailures:  s.WriteFailures.Load(),
		Reloads:        s.Reloads.Load(),
		ReloadFailures: s.ReloadFailures.Load(),
		Handoffs:       s.Handoffs.Load(),
		LastReload:     s.LastReload.Load(),
	}
}
