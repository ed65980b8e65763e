//go:build tinygo

package main

import (
	"context"
	"errors"
	"net/netip"
	"time"

	"tinygo.org/x/drivers/netdev"
	"tinygo.org/x/drivers/netlink"
	"tinygo.org/x/drivers/netlink/probe"

	"github.com/ajanata/netclock/internal/wifi"
)

const netifUpTimeout = 30 * time.Second

// netlinkRadio adapts the board's netlink/netdev driver pair to the
// wifi.Radio contract. probe.Probe picks the right driver for the build
// target and registers it with the net stack.
type netlinkRadio struct {
	link   netlink.Netlinker
	dev    netdev.Netdever
	params *netlink.ConnectParams
}

func newRadio() *netlinkRadio {
	link, dev := probe.Probe()
	return &netlinkRadio{link: link, dev: dev}
}

func (r *netlinkRadio) Configure(cfg wifi.Config) error {
	var auth netlink.AuthType
	switch cfg.AuthMethod {
	case wifi.AuthWPA2Personal:
		auth = netlink.AuthTypeWPA2
	default:
		return errors.New("unsupported auth method")
	}
	r.params = &netlink.ConnectParams{
		Ssid:           cfg.SSID,
		Passphrase:     cfg.Passphrase,
		AuthType:       auth,
		ConnectTimeout: cfg.ConnectTimeout,
	}
	return nil
}

func (r *netlinkRadio) Start(_ context.Context) error {
	// probe already initialized the driver; give the radio a moment to
	// settle before the first command, like the wifinina examples do.
	time.Sleep(time.Second)
	return nil
}

func (r *netlinkRadio) Connect(_ context.Context) error {
	if r.params == nil {
		return errors.New("radio not configured")
	}
	return r.link.NetConnect(r.params)
}

// WaitNetifUp polls for a DHCP-assigned address. NetConnect returns once
// associated, but the lease can land a little later.
func (r *netlinkRadio) WaitNetifUp(ctx context.Context) error {
	deadline := time.Now().Add(netifUpTimeout)
	for {
		addr, err := r.dev.Addr()
		if err == nil && addr.IsValid() && !addr.IsUnspecified() {
			return nil
		}
		if time.Now().After(deadline) {
			return errors.New("no address assigned")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}

func (r *netlinkRadio) Nameservers() (netip.Addr, netip.Addr, error) {
	// netdev resolves names internally and doesn't expose the DNS pair it
	// got from DHCP.
	return netip.Addr{}, netip.Addr{}, errors.New("driver does not expose nameservers")
}
