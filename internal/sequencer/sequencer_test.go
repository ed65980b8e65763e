package sequencer_test

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/netip"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajanata/netclock/internal/fetch"
	"github.com/ajanata/netclock/internal/sequencer"
	"github.com/ajanata/netclock/internal/sntp"
	"github.com/ajanata/netclock/internal/timesync"
	"github.com/ajanata/netclock/internal/wifi"
)

type fakeRadio struct {
	calls  []string
	failAt string
}

func (f *fakeRadio) step(name string) error {
	f.calls = append(f.calls, name)
	if f.failAt == name {
		return errors.New(name + " exploded")
	}
	return nil
}

func (f *fakeRadio) Configure(wifi.Config) error       { return f.step("configure") }
func (f *fakeRadio) Start(context.Context) error       { return f.step("start") }
func (f *fakeRadio) Connect(context.Context) error     { return f.step("connect") }
func (f *fakeRadio) WaitNetifUp(context.Context) error { return f.step("netif_up") }

func (f *fakeRadio) Nameservers() (netip.Addr, netip.Addr, error) {
	return netip.MustParseAddr("192.168.1.1"), netip.MustParseAddr("8.8.8.8"), nil
}

// fakeSyncSource reports in-progress for pending polls, then completed.
type fakeSyncSource struct {
	pending int
	starts  int
	polls   int
}

func (f *fakeSyncSource) Start() error {
	f.starts++
	return nil
}

func (f *fakeSyncSource) SyncStatus() sntp.SyncStatus {
	f.polls++
	if f.polls > f.pending {
		return sntp.StatusCompleted
	}
	return sntp.StatusInProgress
}

type fakeTransport struct {
	body   string
	getErr error
	calls  int
}

func (f *fakeTransport) Get(context.Context, string) (fetch.Response, error) {
	f.calls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return fakeResponse{body: f.body}, nil
}

type fakeResponse struct{ body string }

func (r fakeResponse) Text() (string, error) { return r.body, nil }

// display records everything printed to it.
type display struct{ lines []string }

func (d *display) Println(s string) error { d.lines = append(d.lines, s); return nil }

type fixture struct {
	radio     *fakeRadio
	sync      *fakeSyncSource
	transport *fakeTransport
	logged    *bytes.Buffer
	disp      *display
	seq       *sequencer.Sequencer
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		radio:     &fakeRadio{},
		sync:      &fakeSyncSource{pending: 3},
		transport: &fakeTransport{body: "hello"},
		logged:    &bytes.Buffer{},
		disp:      &display{},
	}
	logger := log.New(f.logged, "", 0)

	seq, err := sequencer.New(sequencer.Config{
		Wifi: wifi.New(
			wifi.Credentials{SSID: "testnet", Passphrase: "hunter2hunter2"},
			f.radio, logger),
		Time: &timesync.Synchronizer{
			Source: f.sync,
			Sleep:  func(time.Duration) {},
		},
		Fetch:   &fetch.Fetcher{Transport: f.transport, URL: "http://example.com"},
		Log:     logger,
		Display: f.disp,
	})
	require.NoError(t, err)
	f.seq = seq
	return f
}

func TestRun_Done(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.seq.Run(context.Background()))
	assert.Equal(t, sequencer.StateDone, f.seq.State())

	out := f.logged.String()
	assert.Contains(t, out, "nameservers 192.168.1.1, 8.8.8.8")
	assert.Regexp(t, regexp.MustCompile(`current time: \d{2}-[A-Z][a-z]{2}-\d{4} \d{2}:\d{2}:\d{2}`), out)
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "complete")

	assert.Equal(t, 1, f.sync.starts)
	assert.Equal(t, 1, f.transport.calls)
	assert.Contains(t, f.disp.lines, "done")
}

func TestRun_ConnectFailureStopsEverything(t *testing.T) {
	f := newFixture(t)
	f.radio.failAt = "connect"

	err := f.seq.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "couldn't connect")
	assert.Equal(t, sequencer.StateFailed, f.seq.State())

	assert.Zero(t, f.sync.starts, "sync must not start after wifi failure")
	assert.Zero(t, f.sync.polls)
	assert.Zero(t, f.transport.calls, "fetch must not run after wifi failure")
	assert.Contains(t, f.logged.String(), "boot failed")
}

func TestRun_SyncTimeoutStopsFetch(t *testing.T) {
	f := newFixture(t)
	f.sync.pending = 1 << 30
	ts := &timesync.Synchronizer{
		Source:       f.sync,
		PollInterval: time.Second,
		Timeout:      2 * time.Second,
		Sleep:        func(time.Duration) {},
	}

	logger := log.New(f.logged, "", 0)
	seq, err := sequencer.New(sequencer.Config{
		Wifi: wifi.New(
			wifi.Credentials{SSID: "testnet", Passphrase: "hunter2hunter2"},
			f.radio, logger),
		Time:  ts,
		Fetch: &fetch.Fetcher{Transport: f.transport, URL: "http://example.com"},
		Log:   logger,
	})
	require.NoError(t, err)

	err = seq.Run(context.Background())
	require.ErrorIs(t, err, timesync.ErrTimeout)
	assert.Contains(t, err.Error(), "couldn't update time")
	assert.Equal(t, sequencer.StateFailed, seq.State())
	assert.Zero(t, f.transport.calls)
}

func TestRun_FetchFailureAfterSync(t *testing.T) {
	f := newFixture(t)
	f.transport.getErr = errors.New("connection refused")

	err := f.seq.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "couldn't download http://example.com")
	assert.Equal(t, sequencer.StateFailed, f.seq.State())

	assert.Equal(t, 1, f.sync.starts, "sync phase must have completed first")
	assert.Equal(t, 1, f.transport.calls)
	assert.Contains(t, f.logged.String(), "boot failed")
}

func TestNew_RequiresAllPhases(t *testing.T) {
	_, err := sequencer.New(sequencer.Config{})
	assert.Error(t, err)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "init", sequencer.StateInit.String())
	assert.Equal(t, "done", sequencer.StateDone.String())
	assert.Equal(t, "failed", sequencer.StateFailed.String())
}
