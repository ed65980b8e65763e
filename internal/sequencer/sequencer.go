// Package sequencer drives the boot sequence: bring up Wi-Fi, synchronize
// the clock, fetch one URL. Phases run strictly in order on the calling
// goroutine; the first failure ends the run.
package sequencer

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ajanata/netclock/internal/fetch"
	"github.com/ajanata/netclock/internal/timesync"
	"github.com/ajanata/netclock/internal/wifi"
)

// State is where the boot sequence currently stands. Failed absorbs a
// failure from any phase.
type State uint8

const (
	StateInit State = iota
	StateWifiUp
	StateTimeSynced
	StateFetched
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateWifiUp:
		return "wifi up"
	case StateTimeSynced:
		return "time synced"
	case StateFetched:
		return "fetched"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Display is an optional boot-progress sink, e.g. a textbuf.Buffer on an
// OLED. Write errors are ignored; the display is best effort.
type Display interface {
	Println(s string) error
}

// Config wires the three phases together. Wifi, Time, and Fetch are
// required; Log defaults to log.Default() and Display may be nil.
type Config struct {
	Wifi    *wifi.Establisher
	Time    *timesync.Synchronizer
	Fetch   *fetch.Fetcher
	Log     *log.Logger
	Display Display
}

// Sequencer owns the single pass through the boot phases.
type Sequencer struct {
	cfg   Config
	state State
}

func New(cfg Config) (*Sequencer, error) {
	if cfg.Wifi == nil {
		return nil, errors.New("sequencer: wifi establisher required")
	}
	if cfg.Time == nil {
		return nil, errors.New("sequencer: time synchronizer required")
	}
	if cfg.Fetch == nil {
		return nil, errors.New("sequencer: fetcher required")
	}
	if cfg.Log == nil {
		cfg.Log = log.Default()
	}
	return &Sequencer{cfg: cfg}, nil
}

// State reports the current (or final) sequence state.
func (s *Sequencer) State() State { return s.state }

// Run executes the boot sequence once. It returns nil after the fetch body
// has been reported, or the first phase error. A later phase never starts
// after an earlier one fails.
func (s *Sequencer) Run(ctx context.Context) error {
	s.state = StateInit

	s.show("wifi: connecting")
	if err := s.cfg.Wifi.Up(ctx); err != nil {
		return s.fail(err)
	}
	s.state = StateWifiUp

	s.show("time: syncing")
	if err := s.cfg.Time.Wait(ctx); err != nil {
		return s.fail(fmt.Errorf("couldn't update time: %w", err))
	}
	s.state = StateTimeSynced
	s.cfg.Log.Printf("ntp syncing completed, current time: %s", s.cfg.Time.Timestamp())

	s.show("fetching")
	body, err := s.cfg.Fetch.Fetch(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.state = StateFetched
	s.cfg.Log.Printf("%s", body)

	s.state = StateDone
	s.cfg.Log.Printf("complete")
	s.show("done")
	return nil
}

func (s *Sequencer) fail(err error) error {
	s.state = StateFailed
	s.cfg.Log.Printf("boot failed: %v", err)
	s.show("boot failed")
	return err
}

func (s *Sequencer) show(msg string) {
	if s.cfg.Display != nil {
		_ = s.cfg.Display.Println(msg)
	}
}
