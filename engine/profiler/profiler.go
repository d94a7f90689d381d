package profiler

import (
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Carmen-Shannon/oxy-life/engine/logging"
)

// Sample is one reporting window of the profiler.
type Sample struct {
	FPS           float64
	GenerationsPS float64
	Generation    uint64
	HeapMB        float64
	AllocRateMB   float64
	SysMB         float64
	GCCount       uint32
	MaxGCPauseUs  uint64
}

// Profiler tracks frame rate, simulation throughput and memory statistics.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	stepCount      int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Sample

	now func() time.Time
}

// NewProfiler creates a new Profiler that reports every interval.
// Intervals <= 0 default to 1 second.
//
// Parameters:
//   - interval: the reporting interval
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: interval,
		now:            time.Now,
	}
}

// Tick should be called once per frame. Logs a Sample when the update interval has elapsed.
//
// Parameters:
//   - stepped: true if the simulation advanced during this frame
//   - generation: the current generation count
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(stepped bool, generation uint64) bool {
	p.frameCount++
	if stepped {
		p.stepCount++
	}
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Sample{
		FPS:           float64(p.frameCount) / elapsed.Seconds(),
		GenerationsPS: float64(p.stepCount) / elapsed.Seconds(),
		Generation:    generation,
		HeapMB:        float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:         float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB:   float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:       p.memStats.NumGC,
	}

	// PauseNs is a circular buffer of the last 256 GC pauses
	if s.GCCount > 0 {
		startIdx := p.lastGCCount
		if s.GCCount-startIdx > 256 {
			startIdx = s.GCCount - 256
		}
		for i := startIdx; i < s.GCCount; i++ {
			s.MaxGCPauseUs = max(s.MaxGCPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	logging.WithFields(logrus.Fields{
		"fps":        round2(s.FPS),
		"gen_per_s":  round2(s.GenerationsPS),
		"generation": s.Generation,
		"heap_mb":    round2(s.HeapMB),
		"alloc_mb_s": round2(s.AllocRateMB),
		"gc":         s.GCCount,
		"gc_max_us":  s.MaxGCPauseUs,
		"sys_mb":     round2(s.SysMB),
	}).Info("profiler")

	p.frameCount = 0
	p.stepCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.last = s
	return true
}

// Last returns the most recently logged Sample.
func (p *Profiler) Last() Sample {
	return p.last
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
