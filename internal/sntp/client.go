// Package sntp is a minimal SNTP client for setting the system clock on a
// freshly booted board. It speaks just enough NTPv3 to read the transmit
// timestamp out of one response packet.
//
// based on https://github.com/tinygo-org/drivers/blob/release/examples/net/ntpclient/main.go
package sntp

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

const (
	ntpPacketSize = 48
	ntpPort       = "123"

	// Seconds between the NTP epoch (1900) and the Unix epoch (1970).
	seventyYears = 2208988800

	defaultPollInterval = time.Hour
	retryInterval       = 15 * time.Second

	// readTimeout bounds the wait for one response packet. UDP replies get
	// lost; a missed one must fail the attempt so the run loop retries,
	// not strand the goroutine in Read.
	readTimeout = 2 * time.Second
)

// Config describes one client. Every field is explicit; zero intervals get
// the package defaults.
type Config struct {
	Servers       []string
	OperatingMode OperatingMode
	SyncMode      SyncMode
	PollInterval  time.Duration
}

// Client synchronizes the system clock in the background. Construct it with
// New, call Start once the network is up, and poll SyncStatus.
type Client struct {
	cfg Config

	mu      sync.Mutex
	status  SyncStatus
	started bool

	done chan struct{}
}

// New validates the configuration. No network activity happens until Start.
func New(cfg Config) (*Client, error) {
	if len(cfg.Servers) == 0 {
		return nil, errors.New("sntp: at least one server required")
	}
	for _, s := range cfg.Servers {
		if s == "" {
			return nil, errors.New("sntp: empty server address")
		}
	}
	if cfg.SyncMode != SyncImmediate {
		return nil, errors.New("sntp: unsupported sync mode")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	return &Client{cfg: cfg, status: StatusReset, done: make(chan struct{})}, nil
}

// Start launches the background synchronization loop. The network interface
// must already be up. Starting twice is an error.
func (c *Client) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return errors.New("sntp: already started")
	}
	c.started = true
	go c.run()
	return nil
}

// Close stops the background loop. Safe to call once, at any time after New.
func (c *Client) Close() {
	close(c.done)
}

// SyncStatus reports the current synchronization state without blocking.
func (c *Client) SyncStatus() SyncStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Client) setStatus(s SyncStatus) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

func (c *Client) run() {
	for i := 0; ; i++ {
		c.setStatus(StatusInProgress)

		server := c.cfg.Servers[i%len(c.cfg.Servers)]
		t, err := query(server)
		if err != nil {
			c.setStatus(StatusReset)
			if !c.sleep(retryInterval) {
				return
			}
			continue
		}

		adjustClock(t)
		c.setStatus(StatusCompleted)

		if c.cfg.OperatingMode != ModePoll {
			return
		}
		if !c.sleep(c.cfg.PollInterval) {
			return
		}
	}
}

// sleep waits for d, returning false if the client was closed meanwhile.
func (c *Client) sleep(d time.Duration) bool {
	select {
	case <-c.done:
		return false
	case <-time.After(d):
		return true
	}
}

// query performs one request/response exchange and returns the server time.
func query(server string) (time.Time, error) {
	conn, err := net.Dial("udp", withDefaultPort(server))
	if err != nil {
		return time.Time{}, err
	}
	defer conn.Close()

	if err := sendPacket(conn); err != nil {
		return time.Time{}, err
	}

	// Best effort: some netdev drivers don't support deadlines, and the
	// read blocks unbounded there like it always has.
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

	response := make([]byte, ntpPacketSize)
	n, err := conn.Read(response)
	if err != nil && err != io.EOF {
		return time.Time{}, err
	}
	if n != ntpPacketSize {
		return time.Time{}, fmt.Errorf("expected NTP packet size of %d: %d", ntpPacketSize, n)
	}

	return parsePacket(response), nil
}

func sendPacket(conn net.Conn) error {
	var request [ntpPacketSize]byte
	// LI 3 (unsynchronized), version 4, mode 3 (client).
	request[0] = 0xe3

	_, err := conn.Write(request[:])
	return err
}

func parsePacket(r []byte) time.Time {
	// the timestamp starts at byte 40 of the received packet and is four bytes,
	// this is NTP time (seconds since Jan 1 1900):
	t := uint32(r[40])<<24 | uint32(r[41])<<16 | uint32(r[42])<<8 | uint32(r[43])
	return time.Unix(int64(t)-seventyYears, 0)
}

func withDefaultPort(server string) string {
	if strings.Contains(server, ":") {
		return server
	}
	return net.JoinHostPort(server, ntpPort)
}
