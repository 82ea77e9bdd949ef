package viewer

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Operation names passed to MetricsSink.
const (
	OpLoad     = "load"
	OpRender   = "render"
	OpRotateTo = "rotateTo"
	OpRotateBy = "rotateBy"
	OpResize   = "resize"
)

// MetricsSink receives the duration of every viewer operation.
type MetricsSink interface {
	RecordDuration(op string, d time.Duration)
}

// NopMetrics discards everything.
type NopMetrics struct{}

// RecordDuration implements MetricsSink.
func (NopMetrics) RecordDuration(string, time.Duration) {}

const (
	rotateWindowCalls = 100
	renderWindow      = time.Second
)

type opWindow struct {
	count int
	total time.Duration
	start time.Time
}

// StatsLogger summarizes operation timings to a logger. Rotations are
// reported every 100 calls, renders once per second of wall clock and loads
// on every call. Other operations are logged at debug level.
type StatsLogger struct {
	log *zap.Logger
	now func() time.Time

	mu      sync.Mutex
	windows map[string]*opWindow
}

// NewStatsLogger creates a StatsLogger writing to log.
func NewStatsLogger(log *zap.Logger) *StatsLogger {
	return &StatsLogger{
		log:     log,
		now:     time.Now,
		windows: make(map[string]*opWindow),
	}
}

// RecordDuration implements MetricsSink.
func (s *StatsLogger) RecordDuration(op string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Loads are logged at Info by the viewer itself.
	switch op {
	case OpRotateTo, OpRotateBy:
		w := s.window(op)
		w.count++
		w.total += d
		if w.count >= rotateWindowCalls {
			s.log.Info("rotation stats",
				zap.String("op", op),
				zap.Int("calls", w.count),
				zap.Duration("avg", w.total/time.Duration(w.count)),
			)
			*w = opWindow{}
		}
	case OpRender:
		now := s.now()
		w := s.window(op)
		if w.start.IsZero() {
			w.start = now
		}
		w.count++
		w.total += d
		if elapsed := now.Sub(w.start); elapsed >= renderWindow {
			s.log.Info("render stats",
				zap.Float64("fps", float64(w.count)/elapsed.Seconds()),
				zap.Duration("avg_frame", w.total/time.Duration(w.count)),
				zap.Int("frames", w.count),
			)
			*w = opWindow{start: now}
		}
	default:
		s.log.Debug("operation", zap.String("op", op), zap.Duration("duration", d))
	}
}

func (s *StatsLogger) window(op string) *opWindow {
	w, ok := s.windows[op]
	if !ok {
		w = &opWindow{}
		s.windows[op] = w
	}
	return w
}
