package net

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_localsketch._tcp"

var errAdvertise = errors.New("failed to advertise share service")

// advertise announces the share server on the local network.
func advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("could not get hostname: %w", err), errAdvertise)
	}

	service, err := mdns.NewMDNSService(
		host,        // instance name
		serviceType, // service
		"",          // domain, defaults to .local
		"",          // host name, defaults to the OS hostname
		port,
		nil, // IPs, auto detected
		[]string{"LocalSketch", "path=/ws"},
	)
	if err != nil {
		return nil, errors.Join(err, errAdvertise)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, errors.Join(err, errAdvertise)
	}

	return server, nil
}

// Discover browses the local network for share servers and returns their
// host:port addresses. It gives up after timeout.
func Discover(ctx context.Context, timeout time.Duration) ([]string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})

	var found []string
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			addr := fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port)
			slog.Debug("Found share server", slog.String("name", e.Name), slog.String("addr", addr))
			found = append(found, addr)
		}
	}()

	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true

	errQuery := mdns.QueryContext(ctx, params)
	close(entries)
	<-done

	if errQuery != nil {
		return nil, errQuery
	}

	return found, nil
}
