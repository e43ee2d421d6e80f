package hcloud

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/stratoforge/strato/internal/util/retry"
)

// Instance wraps a Hetzner Cloud server.
type Instance struct {
	api    API
	server *hcloud.Server
}

// ID returns the numeric server id as a string.
func (i *Instance) ID() string {
	return strconv.FormatInt(i.server.ID, 10)
}

// Name returns the server name.
func (i *Instance) Name() string {
	return i.server.Name
}

// IP returns the server's public IPv4 address, polling until the provider
// has assigned one.
func (i *Instance) IP(ctx context.Context) (string, error) {
	if !i.server.PublicNet.IPv4.IsUnspecified() {
		return i.server.PublicNet.IPv4.IP.String(), nil
	}

	var ip string
	err := retry.WithExponentialBackoff(ctx, func() error {
		server, err := i.api.GetServer(ctx, i.server.ID)
		if err != nil {
			return retry.Fatal(err)
		}
		if server == nil {
			return retry.Fatal(fmt.Errorf("server %d no longer exists", i.server.ID))
		}
		i.server = server
		if server.PublicNet.IPv4.IsUnspecified() {
			return fmt.Errorf("server %d has no public IPv4 yet", server.ID)
		}
		ip = server.PublicNet.IPv4.IP.String()
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to get IP for server %s: %w", i.ID(), err)
	}
	return ip, nil
}

// Delete terminates the server. Deleting an already-gone server succeeds.
func (i *Instance) Delete(ctx context.Context) error {
	if err := i.api.DeleteServer(ctx, i.server); err != nil {
		return fmt.Errorf("failed to delete server %s: %w", i.ID(), err)
	}
	return nil
}
