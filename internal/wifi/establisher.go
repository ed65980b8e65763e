// Package wifi brings a freshly booted board from no network to a usable
// interface: configure the radio, start it, associate, and wait for an
// address. Nothing downstream (time sync, HTTP) may run before Up returns.
package wifi

import (
	"context"
	"fmt"
	"log"
	"net/netip"
	"time"
)

const connectTimeout = 10 * time.Second

// AuthMethod selects the association security mode.
type AuthMethod uint8

const (
	AuthWPA2Personal AuthMethod = iota
)

// Config is the fully-specified client configuration handed to the radio.
type Config struct {
	SSID           string
	Passphrase     string
	AuthMethod     AuthMethod
	ConnectTimeout time.Duration
}

// State tracks how far along the bring-up sequence the interface is.
type State uint8

const (
	Down State = iota
	Starting
	Connecting
	Associated
	InterfaceUp
)

func (s State) String() string {
	switch s {
	case Down:
		return "down"
	case Starting:
		return "starting"
	case Connecting:
		return "connecting"
	case Associated:
		return "associated"
	case InterfaceUp:
		return "interface up"
	default:
		return "unknown"
	}
}

// Radio is the narrow contract the establisher needs from the board's
// wireless driver. Operations are not idempotent and must be called in the
// order Configure, Start, Connect, WaitNetifUp.
type Radio interface {
	Configure(cfg Config) error
	Start(ctx context.Context) error
	Connect(ctx context.Context) error
	WaitNetifUp(ctx context.Context) error
	// Nameservers reports the DNS pair assigned to the interface. Only
	// meaningful after WaitNetifUp succeeds.
	Nameservers() (primary, secondary netip.Addr, err error)
}

// Establisher owns one radio handle for the lifetime of the run.
type Establisher struct {
	creds Credentials
	radio Radio
	log   *log.Logger
	state State
}

// New builds an establisher around the given radio. logger may be nil.
func New(creds Credentials, radio Radio, logger *log.Logger) *Establisher {
	if logger == nil {
		logger = log.Default()
	}
	return &Establisher{creds: creds, radio: radio, log: logger}
}

// State reports the last bring-up stage reached.
func (e *Establisher) State() State { return e.state }

// Up validates the credentials and drives the radio through
// configure, start, connect, and wait-netif-up. Any failure is terminal for
// the run; there is no retry. Each failure carries the name of the step that
// caused it.
func (e *Establisher) Up(ctx context.Context) error {
	if err := e.creds.Validate(); err != nil {
		return err
	}

	e.state = Starting
	if err := e.radio.Configure(e.creds.clientConfig()); err != nil {
		return fmt.Errorf("wifi configure failed: %w", err)
	}
	if err := e.radio.Start(ctx); err != nil {
		return fmt.Errorf("wifi couldn't start: %w", err)
	}

	e.state = Connecting
	if err := e.radio.Connect(ctx); err != nil {
		return fmt.Errorf("wifi couldn't connect: %w", err)
	}
	e.state = Associated

	if err := e.radio.WaitNetifUp(ctx); err != nil {
		return fmt.Errorf("wifi netif_up failed: %w", err)
	}
	e.state = InterfaceUp

	// Informational only; some drivers don't expose the DNS configuration.
	primary, secondary, err := e.radio.Nameservers()
	if err != nil {
		e.log.Printf("wifi: nameservers unavailable: %v", err)
	} else {
		e.log.Printf("nameservers %s, %s", primary, secondary)
	}

	return nil
}
