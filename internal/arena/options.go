package arena

import "fmt"

// Strategy selects how the bump offset is advanced.
type Strategy uint8

const (
	// StrategyCAS advances the offset with a compare-and-swap retry loop.
	StrategyCAS Strategy = iota
	// StrategySerial advances the offset without synchronization.
	StrategySerial
	// StrategyFetchAdd advances the offset with a single atomic add.
	// If a commit fails after a later allocation has been placed on top,
	// the failed range stays consumed until Clear; subtracting it would
	// hand the same bytes out twice.
	StrategyFetchAdd
)

func (s Strategy) String() string {
	switch s {
	case StrategyCAS:
		return "cas"
	case StrategySerial:
		return "serial"
	case StrategyFetchAdd:
		return "fetch-add"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

// Concurrent reports whether the strategy tolerates concurrent callers.
func (s Strategy) Concurrent() bool {
	return s != StrategySerial
}

// MemoryAcquirer budgets committed memory.
type MemoryAcquirer interface {
	AcquireMemory(bytes int64) error
	ReleaseMemory(bytes int64)
}

// Options configures an Arena.
type Options struct {
	// Strategy selects the offset allocator.
	Strategy Strategy

	// PageSize is the commit granularity in virtual-memory mode.
	// If 0, the OS page size is used.
	PageSize int

	// ZeroFill clears every returned range for the concurrent strategies.
	// StrategySerial always zero-fills.
	ZeroFill bool

	// Acquirer, if set, must grant every commit before it is issued.
	Acquirer MemoryAcquirer

	// OnCommit is called after the committed boundary advances from
	// `from` by n bytes. It runs on the allocating goroutine.
	OnCommit func(from, n int64)
}

// DefaultOptions are the options used when none are given.
var DefaultOptions = Options{
	Strategy: StrategyCAS,
}
