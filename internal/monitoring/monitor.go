package monitoring

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Monitor tracks per-tick simulation metrics. Writers are the tick; readers
// may be a render or terminal goroutine.
type Monitor struct {
	// Tick metrics
	tickCount atomic.Uint64
	tickTime  atomic.Uint64 // nanoseconds, last tick

	// Simulation metrics
	enemiesActive atomic.Int32
	effectsActive atomic.Int32
	hazardsActive atomic.Int32
	dropsActive   atomic.Int32
	hitsResolved  atomic.Uint64
	enemiesKilled atomic.Uint64

	// Statistics
	mutex        sync.RWMutex
	totalTime    time.Duration
	peakTickTime time.Duration
	startTime    time.Time
}

func NewMonitor() *Monitor {
	return &Monitor{startTime: time.Now()}
}

// TickTimer measures one tick.
type TickTimer struct {
	monitor   *Monitor
	startTime time.Time
}

// StartTick begins tick timing
func (m *Monitor) StartTick() *TickTimer {
	return &TickTimer{monitor: m, startTime: time.Now()}
}

// End completes tick timing
func (tt *TickTimer) End() {
	d := time.Since(tt.startTime)
	m := tt.monitor
	m.tickTime.Store(uint64(d.Nanoseconds()))
	m.tickCount.Add(1)

	m.mutex.Lock()
	m.totalTime += d
	if d > m.peakTickTime {
		m.peakTickTime = d
	}
	m.mutex.Unlock()
}

// UpdateCounts stores the live entity counts after a tick.
func (m *Monitor) UpdateCounts(enemies, effects, hazards, drops int) {
	m.enemiesActive.Store(int32(enemies))
	m.effectsActive.Store(int32(effects))
	m.hazardsActive.Store(int32(hazards))
	m.dropsActive.Store(int32(drops))
}

func (m *Monitor) AddHit()  { m.hitsResolved.Add(1) }
func (m *Monitor) AddKill() { m.enemiesKilled.Add(1) }

// Metrics is a point-in-time copy.
type Metrics struct {
	Ticks         uint64
	LastTick      time.Duration
	AverageTick   time.Duration
	PeakTick      time.Duration
	Enemies       int
	Effects       int
	Hazards       int
	Drops         int
	HitsResolved  uint64
	EnemiesKilled uint64
	MemoryUsageMB uint64
}

// GetCurrentMetrics returns current metrics. withMemory reads runtime memory
// stats, which stops the world briefly; the HUD asks for it once a second.
func (m *Monitor) GetCurrentMetrics(withMemory bool) Metrics {
	m.mutex.RLock()
	total, peak := m.totalTime, m.peakTickTime
	m.mutex.RUnlock()

	ticks := m.tickCount.Load()
	var avg time.Duration
	if ticks > 0 {
		avg = total / time.Duration(ticks)
	}
	out := Metrics{
		Ticks:         ticks,
		LastTick:      time.Duration(m.tickTime.Load()),
		AverageTick:   avg,
		PeakTick:      peak,
		Enemies:       int(m.enemiesActive.Load()),
		Effects:       int(m.effectsActive.Load()),
		Hazards:       int(m.hazardsActive.Load()),
		Drops:         int(m.dropsActive.Load()),
		HitsResolved:  m.hitsResolved.Load(),
		EnemiesKilled: m.enemiesKilled.Load(),
	}
	if withMemory {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)
		out.MemoryUsageMB = memStats.Alloc / 1024 / 1024
	}
	return out
}

// Alert is a performance warning.
type Alert struct {
	Type      string
	Message   string
	Value     float64
	Threshold float64
}

// CheckAlerts reports ticks that ran past budget and oversized collections.
func (m *Monitor) CheckAlerts(budget time.Duration, maxEntities int) []Alert {
	var alerts []Alert
	if last := time.Duration(m.tickTime.Load()); budget > 0 && last > budget {
		alerts = append(alerts, Alert{
			Type:      "slow_tick",
			Message:   "Tick ran past its time budget",
			Value:     float64(last) / float64(time.Millisecond),
			Threshold: float64(budget) / float64(time.Millisecond),
		})
	}
	total := int(m.enemiesActive.Load() + m.effectsActive.Load() + m.hazardsActive.Load())
	if maxEntities > 0 && total > maxEntities {
		alerts = append(alerts, Alert{
			Type:      "entity_backlog",
			Message:   "Live entity count is above the limit",
			Value:     float64(total),
			Threshold: float64(maxEntities),
		})
	}
	return alerts
}

// Uptime is wall time since creation or the last Reset.
func (m *Monitor) Uptime() time.Duration {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return time.Since(m.startTime)
}

// Reset resets all counters
func (m *Monitor) Reset() {
	m.tickCount.Store(0)
	m.tickTime.Store(0)
	m.enemiesActive.Store(0)
	m.effectsActive.Store(0)
	m.hazardsActive.Store(0)
	m.dropsActive.Store(0)
	m.hitsResolved.Store(0)
	m.enemiesKilled.Store(0)

	m.mutex.Lock()
	m.totalTime = 0
	m.peakTickTime = 0
	m.startTime = time.Now()
	m.mutex.Unlock()
}
