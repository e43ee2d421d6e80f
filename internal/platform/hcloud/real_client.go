package hcloud

import (
	"context"
	"fmt"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/stratoforge/strato/internal/util/retry"
)

// realAPI implements API against the Hetzner Cloud API via hcloud-go.
type realAPI struct {
	client *hcloud.Client
}

var _ API = (*realAPI)(nil)

func (a *realAPI) CreateServer(ctx context.Context, opts hcloud.ServerCreateOpts) (*hcloud.Server, error) {
	result, _, err := a.client.Server.Create(ctx, opts)
	if err != nil {
		return nil, err
	}
	return result.Server, nil
}

func (a *realAPI) GetServer(ctx context.Context, id int64) (*hcloud.Server, error) {
	server, _, err := a.client.Server.GetByID(ctx, id)
	return server, err
}

// DeleteServer is idempotent and retries while the server is locked by a
// pending action (e.g. an in-flight snapshot).
func (a *realAPI) DeleteServer(ctx context.Context, server *hcloud.Server) error {
	return retry.WithExponentialBackoff(ctx, func() error {
		current, _, err := a.client.Server.GetByID(ctx, server.ID)
		if err != nil {
			return retry.Fatal(err)
		}
		if current == nil {
			return nil
		}
		if _, _, err := a.client.Server.DeleteWithResult(ctx, current); err != nil {
			if hcloud.IsError(err, hcloud.ErrorCodeLocked) {
				return err
			}
			return retry.Fatal(err)
		}
		return nil
	})
}

func (a *realAPI) CreateServerImage(ctx context.Context, server *hcloud.Server, opts *hcloud.ServerCreateImageOpts) (*hcloud.Image, error) {
	result, _, err := a.client.Server.CreateImage(ctx, server, opts)
	if err != nil {
		return nil, err
	}
	return result.Image, nil
}

func (a *realAPI) DeleteImage(ctx context.Context, id int64) error {
	image, _, err := a.client.Image.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if image == nil {
		return nil
	}
	_, err = a.client.Image.Delete(ctx, image)
	return err
}

func (a *realAPI) GetServerType(ctx context.Context, name string) (*hcloud.ServerType, error) {
	serverType, _, err := a.client.ServerType.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if serverType == nil {
		return nil, fmt.Errorf("server type not found: %s", name)
	}
	return serverType, nil
}

func (a *realAPI) GetImage(ctx context.Context, idOrName string) (*hcloud.Image, error) {
	image, _, err := a.client.Image.Get(ctx, idOrName)
	if err != nil {
		return nil, err
	}
	if image == nil {
		return nil, fmt.Errorf("image not found: %s", idOrName)
	}
	return image, nil
}

func (a *realAPI) GetLocation(ctx context.Context, name string) (*hcloud.Location, error) {
	location, _, err := a.client.Location.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, fmt.Errorf("location not found: %s", name)
	}
	return location, nil
}

// EnsureSSHKey uploads the public key under name, reusing an existing key of
// the same name.
func (a *realAPI) EnsureSSHKey(ctx context.Context, name, publicKey string, labels map[string]string) (*hcloud.SSHKey, error) {
	existing, _, err := a.client.SSHKey.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	key, _, err := a.client.SSHKey.Create(ctx, hcloud.SSHKeyCreateOpts{
		Name:      name,
		PublicKey: publicKey,
		Labels:    labels,
	})
	return key, err
}
