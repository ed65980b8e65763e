// Package timesync blocks boot progress until the system clock has been
// synchronized against a time server, then reports the resulting time.
package timesync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ajanata/netclock/internal/sntp"
)

// Layout renders timestamps as day-month-year hour:minute:second,
// e.g. "07-Mar-2024 15:04:05".
const Layout = "02-Jan-2006 15:04:05"

// placeholder stands in for the timestamp when formatting fails. Formatting
// trouble must never abort a boot that has otherwise succeeded.
const placeholder = "??-???-???? ??:??:??"

// ErrTimeout reports that the sync source never reached completed within the
// configured bound.
var ErrTimeout = errors.New("timesync: wait for sync timed out")

// Source is the contract the synchronizer needs from a time-sync client:
// start background synchronization, then answer non-blocking status polls.
type Source interface {
	Start() error
	SyncStatus() sntp.SyncStatus
}

// Clock reads and renders wall-clock time. Format is fallible so exotic
// layouts can report trouble instead of producing garbage.
type Clock interface {
	Now() time.Time
	Format(t time.Time, layout string) (string, error)
}

// SystemClock is the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Format(t time.Time, layout string) (string, error) {
	return t.Format(layout), nil
}

// Synchronizer polls a Source until it reports a completed sync.
type Synchronizer struct {
	// Source must be set.
	Source Source
	// Clock defaults to SystemClock.
	Clock Clock
	// PollInterval between status checks. Defaults to one second.
	PollInterval time.Duration
	// Timeout bounds the whole wait. Zero means wait forever; the sequencer
	// sets a bound so a dead time server cannot hang the boot.
	Timeout time.Duration
	// Sleep is swapped out in tests. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Wait starts the source and polls until it reports a completed sync, the
// timeout elapses, or ctx is canceled.
func (s *Synchronizer) Wait(ctx context.Context) error {
	if err := s.Source.Start(); err != nil {
		return fmt.Errorf("time sync couldn't start: %w", err)
	}

	interval := s.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	sleep := s.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var waited time.Duration
	for {
		if s.Source.SyncStatus() == sntp.StatusCompleted {
			return nil
		}
		if s.Timeout > 0 && waited >= s.Timeout {
			return ErrTimeout
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		sleep(interval)
		waited += interval
	}
}

// Timestamp renders the current time in Layout, degrading to a placeholder
// if the clock cannot format it.
func (s *Synchronizer) Timestamp() string {
	clk := s.Clock
	if clk == nil {
		clk = SystemClock{}
	}
	out, err := clk.Format(clk.Now(), Layout)
	if err != nil {
		return placeholder
	}
	return out
}
