// Package buildlog provides the logging and timing context threaded
// through every stage of a tile build, in the spirit of Recast's
// rcContext: named timers that accumulate across a build, plus leveled
// log output for the recoverable failures the pipeline can hit
// (skipped triangle, skipped contour, skipped hole, ...).
package buildlog

import (
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// TimerLabel identifies one of the named timers accumulated during a
// tile build.
type TimerLabel int

const (
	TimerTotal TimerLabel = iota
	TimerVoxelize
	TimerFilter
	TimerOpenHeightfield
	TimerDistanceField
	TimerErode
	TimerBuildRegions
	TimerBuildContours
	TimerBuildPolyMesh
	TimerBuildDetailMesh
	TimerLinkTiles
	numTimers
)

// Context carries a logger and a set of accumulated timers through a
// single tile build. It is not safe for concurrent stages; each
// in-flight tile build owns its own Context (see navtile.Builder).
type Context struct {
	log *zap.SugaredLogger

	mu      sync.Mutex
	started [numTimers]time.Time
	accum   [numTimers]time.Duration
}

// New returns a Context backed by the given zap logger. Pass nil to get
// a no-op logger (useful in tests that don't care about log output).
func New(log *zap.SugaredLogger) *Context {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Context{log: log}
}

// NewRotating returns a Context whose logger writes JSON lines to a
// lumberjack-rotated file at path, mirroring the kind of sink
// avatar29A-midgard-ro wires up for its own structured logs.
func NewRotating(path string, maxSizeMB, maxBackups, maxAgeDays int) *Context {
	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	})
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), w, zap.InfoLevel)
	return New(zap.New(core).Sugar())
}

// NewWriter wraps an arbitrary io.Writer as the log sink (mainly for
// tests that want to inspect output).
func NewWriter(w io.Writer) *Context {
	ws := zapcore.AddSync(w)
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), ws, zap.DebugLevel)
	return New(zap.New(core).Sugar())
}

// StartTimer begins accumulating time for label.
func (c *Context) StartTimer(label TimerLabel) {
	c.mu.Lock()
	c.started[label] = time.Now()
	c.mu.Unlock()
}

// StopTimer stops accumulating time for label, adding the elapsed
// duration since the matching StartTimer to its running total.
func (c *Context) StopTimer(label TimerLabel) {
	c.mu.Lock()
	if !c.started[label].IsZero() {
		c.accum[label] += time.Since(c.started[label])
		c.started[label] = time.Time{}
	}
	c.mu.Unlock()
}

// AccumulatedTime returns the total time recorded for label across the
// build so far.
func (c *Context) AccumulatedTime(label TimerLabel) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accum[label]
}

// ResetTimers clears all accumulated timers, used when a Context is
// reused across tile builds.
func (c *Context) ResetTimers() {
	c.mu.Lock()
	c.started = [numTimers]time.Time{}
	c.accum = [numTimers]time.Duration{}
	c.mu.Unlock()
}

// Progressf logs a progress message (e.g. stage sizes), analogous to
// rcContext's RC_LOG_PROGRESS category.
func (c *Context) Progressf(format string, args ...interface{}) {
	c.log.Infof(format, args...)
}

// Warnf logs a recoverable, data-local failure: a skipped triangle,
// contour, or hole. The pipeline continues after logging.
func (c *Context) Warnf(format string, args ...interface{}) {
	c.log.Warnf(format, args...)
}

// Errorf logs a tile-local or fatal failure. The caller is responsible
// for discarding the tile build after logging.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.log.Errorf(format, args...)
}

// Sync flushes the underlying logger.
func (c *Context) Sync() error {
	return c.log.Sync()
}
