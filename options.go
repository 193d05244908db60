package vmarena

import (
	"github.com/hupe1980/vmarena/internal/arena"
	"github.com/hupe1980/vmarena/internal/resource"
)

// Strategy selects how the bump offset is advanced.
type Strategy = arena.Strategy

const (
	// StrategyCAS is a lock-free compare-and-swap loop with exact alignment.
	StrategyCAS = arena.StrategyCAS
	// StrategySerial is unsynchronized and zero-fills every range.
	StrategySerial = arena.StrategySerial
	// StrategyFetchAdd is a single atomic add that rounds sizes, not addresses.
	// If a commit fails after a later allocation has been placed on top,
	// the failed range stays consumed until Clear; subtracting it would
	// hand the same bytes out twice.
	StrategyFetchAdd = arena.StrategyFetchAdd
)

// ResourceController budgets committed memory. One controller may be shared
// by several arenas to cap their combined footprint.
type ResourceController = resource.Controller

// NewResourceController creates a controller that refuses commits once limit
// bytes are committed. A limit of 0 only tracks usage.
func NewResourceController(limit int64) *ResourceController {
	return resource.NewController(resource.Config{MemoryLimitBytes: limit})
}

type options struct {
	buffer      []byte
	strategy    Strategy
	pageSize    int
	zeroFill    bool
	memoryLimit int64
	controller  *ResourceController
	logger      *Logger
	metrics     MetricsCollector
}

// Option configures New and Restore.
type Option func(*options)

func defaultOptions() options {
	return options{
		strategy: StrategyCAS,
		logger:   NoopLogger(),
		metrics:  NoopMetricsCollector{},
	}
}

// WithBuffer makes the arena allocate from buf instead of reserving virtual
// memory. buf must hold at least capacity bytes. The arena borrows buf: the
// caller keeps ownership and Close does not release it.
func WithBuffer(buf []byte) Option {
	return func(o *options) {
		o.buffer = buf
	}
}

// WithStrategy selects the offset allocator. Default: StrategyCAS.
func WithStrategy(s Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithPageSize sets the commit granularity in virtual-memory mode. It must be
// a power of two and at least the OS page size. Default: the OS page size.
func WithPageSize(n int) Option {
	return func(o *options) {
		o.pageSize = n
	}
}

// WithZeroFill clears every returned range for the concurrent strategies.
// StrategySerial always zero-fills.
func WithZeroFill(enabled bool) Option {
	return func(o *options) {
		o.zeroFill = enabled
	}
}

// WithMemoryLimit caps the bytes the arena may commit. A commit that would
// exceed the limit fails the allocation with ErrCommitFailed.
//
// Under the concurrent strategies, goroutines racing to commit the same
// pages each charge the budget before one of them publishes the new
// boundary; the others then refund their charge. Near the limit such a
// race can fail an allocation whose pages would have fit.
// Ignored when WithResourceController is set.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithResourceController charges every commit against rc.
func WithResourceController(rc *ResourceController) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector. If nil is passed, metrics
// are disabled.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}
