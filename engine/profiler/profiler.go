// Package profiler reports frame rate and memory statistics through the engine logger.
package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/neothauma/engine/logger"
	"github.com/charmbracelet/log"
)

// Stats is one reporting window of frame and memory statistics.
type Stats struct {
	FPS           float64
	Frames        int
	SkippedFrames int
	DrawCalls     int
	HeapMB        float64
	AllocRateMB   float64
	SysMB         float64
	GCCount       uint32
	LastPauseUs   uint64
	MaxPauseUs    uint64
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	skipped        int
	drawCalls      int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	now func() time.Time
	log *log.Logger
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options overriding the interval or clock
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
		log:            logger.With("component", "profiler"),
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per rendered frame. When the update interval has elapsed it logs
// the window's statistics and starts a new window.
//
// Parameters:
//   - drawCalls: draw calls issued this frame
//   - skipped: whether the frame was dropped
//
// Returns:
//   - Stats: the finished window, zero when none finished
//   - bool: true if stats were logged this tick
func (p *Profiler) Tick(drawCalls int, skipped bool) (Stats, bool) {
	p.frameCount++
	p.drawCalls += drawCalls
	if skipped {
		p.skipped++
	}

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return Stats{}, false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		FPS:           float64(p.frameCount) / elapsed.Seconds(),
		Frames:        p.frameCount,
		SkippedFrames: p.skipped,
		DrawCalls:     p.drawCalls,
		HeapMB:        float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:         float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB:   float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:       p.memStats.NumGC,
	}

	// PauseNs is a circular buffer of the last 256 pauses.
	if gc := s.GCCount; gc > 0 {
		s.LastPauseUs = p.memStats.PauseNs[(gc-1)%256] / 1000
		start := p.lastGCCount
		if gc-start > 256 {
			start = gc - 256
		}
		for i := start; i < gc; i++ {
			s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.log.Info("frame stats",
		"fps", s.FPS,
		"draws", s.DrawCalls,
		"skipped", s.SkippedFrames,
		"heap_mb", s.HeapMB,
		"alloc_mb_s", s.AllocRateMB,
		"gc", s.GCCount,
		"gc_last_us", s.LastPauseUs,
		"gc_max_us", s.MaxPauseUs,
		"sys_mb", s.SysMB,
	)

	p.frameCount = 0
	p.skipped = 0
	p.drawCalls = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return s, true
}

// Reset starts a new reporting window, discarding the current counts.
func (p *Profiler) Reset() {
	p.frameCount = 0
	p.skipped = 0
	p.drawCalls = 0
	p.lastTime = p.now()
}
