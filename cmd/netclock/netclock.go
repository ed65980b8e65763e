//go:build tinygo

package main

import (
	"context"
	"log"
	"machine"
	"time"

	"github.com/ajanata/netclock/internal/fetch"
	"github.com/ajanata/netclock/internal/sequencer"
	"github.com/ajanata/netclock/internal/sntp"
	"github.com/ajanata/netclock/internal/timesync"
	"github.com/ajanata/netclock/internal/wifi"
)

// Build-time configuration. Set the credentials with the linker, e.g.
//
//	tinygo flash -target pico-w \
//	  -ldflags="-X main.wifiSSID=mynet -X main.wifiPassword=hunter2hunter2" \
//	  ./cmd/netclock
var (
	wifiSSID     string
	wifiPassword string
	ntpHost      = "pool.ntp.org"
	fetchURL     = "http://example.com"
)

// syncTimeout bounds the clock-sync wait so a dead time server can't hang
// the boot forever.
const syncTimeout = 5 * time.Minute

func main() {
	time.Sleep(time.Second)
	blink()

	disp := initDisplay()

	client, err := sntp.New(sntp.Config{
		Servers:       []string{ntpHost},
		OperatingMode: sntp.ModePoll,
		SyncMode:      sntp.SyncImmediate,
	})
	if err != nil {
		earlyPanic(err)
	}

	seq, err := sequencer.New(sequencer.Config{
		Wifi: wifi.New(
			wifi.Credentials{SSID: wifiSSID, Passphrase: wifiPassword},
			newRadio(), log.Default()),
		Time: &timesync.Synchronizer{
			Source:  client,
			Timeout: syncTimeout,
		},
		Fetch:   &fetch.Fetcher{Transport: &fetch.HTTPTransport{}, URL: fetchURL},
		Display: disp,
	})
	if err != nil {
		earlyPanic(err)
	}

	if err := seq.Run(context.Background()); err != nil {
		earlyPanic(err)
	}

	// Done. Idle with a slow heartbeat so it's visible the board is alive.
	for {
		blink()
		time.Sleep(5 * time.Second)
	}
}

func blink() {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led.High()
	time.Sleep(100 * time.Millisecond)
	led.Low()
	time.Sleep(100 * time.Millisecond)
}

func earlyPanic(err error) {
	for i := 0; ; i++ {
		blink()
		if i%5 == 0 {
			println("boot failed:", err.Error())
		}
	}
}
