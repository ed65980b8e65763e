package sntp

// SyncStatus is the externally visible state of the background
// synchronization. There is no push notification; callers poll.
type SyncStatus uint8

const (
	// StatusReset means no synchronization has completed; either none has
	// been attempted yet or the last attempt failed.
	StatusReset SyncStatus = iota
	StatusInProgress
	StatusCompleted
)

func (s SyncStatus) String() string {
	switch s {
	case StatusReset:
		return "reset"
	case StatusInProgress:
		return "in progress"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// OperatingMode controls whether the client keeps re-synchronizing after the
// first success.
type OperatingMode uint8

const (
	// ModePoll re-queries the server on a fixed interval after the first
	// successful sync.
	ModePoll OperatingMode = iota
	// ModeOnce stops after the first successful sync.
	ModeOnce
)

// SyncMode controls how the clock adjustment is applied.
type SyncMode uint8

const (
	// SyncImmediate steps the clock in one jump as soon as a server time is
	// obtained. Smooth/slewed adjustment is not implemented.
	SyncImmediate SyncMode = iota
)
