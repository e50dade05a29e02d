package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase identifies one stage of a round tick.
type Phase int

// Tick phases in execution order.
const (
	PhaseThink Phase = iota
	PhasePipes
	PhaseScoring
	PhaseBounds
	PhaseScroll
	PhaseDraw

	numPhases
)

var phaseNames = [numPhases]string{"think", "pipes", "scoring", "bounds", "scroll", "draw"}

// Phases lists the tick phases in execution order.
var Phases = []Phase{PhaseThink, PhasePipes, PhaseScoring, PhaseBounds, PhaseScroll, PhaseDraw}

// String returns the phase name used in logs and CSV headers.
func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// tickSample holds the timing of one tick.
type tickSample struct {
	total  time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector keeps per-phase tick timings over a rolling window.
type PerfCollector struct {
	ring   []tickSample
	next   int
	filled int

	current    tickSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	// Frame timing (graphics mode)
	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{ring: make([]tickSample, windowSize)}
}

// StartTick begins timing a new round tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = tickSample{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
	p.inPhase = phase >= 0 && phase < numPhases
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.current.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.inPhase = false
	p.current.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.current
	p.next = (p.next + 1) % len(p.ring)
	if p.filled < len(p.ring) {
		p.filled++
	}
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	P95TickDuration time.Duration
	MaxTickDuration time.Duration

	// Average duration and share of the average tick, per phase
	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64

	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{FrameDuration: p.frame}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return s
	}

	ticks := make([]float64, p.filled)
	var phaseSum [numPhases]time.Duration
	for i, sample := range p.ring[:p.filled] {
		ticks[i] = float64(sample.total)
		for ph, d := range sample.phases {
			phaseSum[ph] += d
		}
	}
	slices.Sort(ticks)

	mean := stat.Mean(ticks, nil)
	s.AvgTickDuration = time.Duration(mean)
	s.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, ticks, nil))
	s.MaxTickDuration = time.Duration(ticks[len(ticks)-1])

	for ph, sum := range phaseSum {
		s.PhaseAvg[ph] = sum / time.Duration(p.filled)
		if mean > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / mean * 100
		}
	}
	if mean > 0 {
		s.TicksPerSecond = float64(time.Second) / mean
	}

	return s
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer for structured logging. Phases under
// 0.1% of the tick are left out.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}

	for _, ph := range Phases {
		if pct := s.PhasePct[ph]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(ph.String()+"_pct", float64(int(pct*10))/10))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Generation  int     `csv:"generation"`
	Tick        int     `csv:"tick"`
	AvgTickUS   int64   `csv:"avg_tick_us"`
	P95TickUS   int64   `csv:"p95_tick_us"`
	MaxTickUS   int64   `csv:"max_tick_us"`
	TicksPerSec float64 `csv:"ticks_per_sec"`
	FPS         float64 `csv:"fps"`
	ThinkPct    float64 `csv:"think_pct"`
	PipesPct    float64 `csv:"pipes_pct"`
	ScoringPct  float64 `csv:"scoring_pct"`
	BoundsPct   float64 `csv:"bounds_pct"`
	ScrollPct   float64 `csv:"scroll_pct"`
	DrawPct     float64 `csv:"draw_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(generation, tick int) PerfStatsCSV {
	return PerfStatsCSV{
		Generation:  generation,
		Tick:        tick,
		AvgTickUS:   s.AvgTickDuration.Microseconds(),
		P95TickUS:   s.P95TickDuration.Microseconds(),
		MaxTickUS:   s.MaxTickDuration.Microseconds(),
		TicksPerSec: s.TicksPerSecond,
		FPS:         s.FPS,
		ThinkPct:    s.PhasePct[PhaseThink],
		PipesPct:    s.PhasePct[PhasePipes],
		ScoringPct:  s.PhasePct[PhaseScoring],
		BoundsPct:   s.PhasePct[PhaseBounds],
		ScrollPct:   s.PhasePct[PhaseScroll],
		DrawPct:     s.PhasePct[PhaseDraw],
	}
}
