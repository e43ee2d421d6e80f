package hcloud

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/stratoforge/strato/internal/cloud"
)

// Defaults applied when the resolved configuration does not say otherwise.
const (
	DefaultLocation   = "fsn1"
	DefaultServerType = "cx22"
)

// API is the subset of the Hetzner Cloud API the client needs. It exists so
// tests can substitute a mock for the real SDK-backed implementation.
type API interface {
	CreateServer(ctx context.Context, opts hcloud.ServerCreateOpts) (*hcloud.Server, error)
	GetServer(ctx context.Context, id int64) (*hcloud.Server, error)
	DeleteServer(ctx context.Context, server *hcloud.Server) error
	CreateServerImage(ctx context.Context, server *hcloud.Server, opts *hcloud.ServerCreateImageOpts) (*hcloud.Image, error)
	DeleteImage(ctx context.Context, id int64) error
	GetServerType(ctx context.Context, name string) (*hcloud.ServerType, error)
	GetImage(ctx context.Context, idOrName string) (*hcloud.Image, error)
	GetLocation(ctx context.Context, name string) (*hcloud.Location, error)
	EnsureSSHKey(ctx context.Context, name, publicKey string, labels map[string]string) (*hcloud.SSHKey, error)
}

// Client is the Hetzner Cloud provider client.
type Client struct {
	*cloud.Base
	api API
}

var _ cloud.Cloud = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithAPI substitutes the API implementation, for tests.
func WithAPI(api API) Option {
	return func(c *Client) { c.api = api }
}

// New constructs a Hetzner Cloud client. Configuration is resolved and
// validated before the SDK client is built, so a bad strato.toml fails here
// rather than on the first launch.
func New(tag string, opts cloud.Options, clientOpts ...Option) (*Client, error) {
	base, err := cloud.NewBase("hcloud", tag, opts)
	if err != nil {
		return nil, err
	}

	c := &Client{Base: base}
	for _, opt := range clientOpts {
		opt(c)
	}
	if c.api == nil {
		token, err := base.Config.GetString("token")
		if err != nil {
			return nil, err
		}
		c.api = &realAPI{client: hcloud.NewClient(hcloud.WithToken(token))}
	}
	return c, nil
}

// LaunchInstance boots a server from opts.ImageID, uploading the client's
// public key under its key name first. The server carries a created-by label
// so leftovers are attributable to this run.
func (c *Client) LaunchInstance(ctx context.Context, opts cloud.LaunchOpts) (cloud.Instance, error) {
	if opts.ImageID == "" {
		return nil, fmt.Errorf("image id is required to launch an instance")
	}

	serverType, err := c.api.GetServerType(ctx, c.serverTypeName(opts.InstanceType))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve server type: %w", err)
	}
	image, err := c.api.GetImage(ctx, opts.ImageID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve image %s: %w", opts.ImageID, err)
	}
	location, err := c.api.GetLocation(ctx, c.Config.GetStringDefault("location", DefaultLocation))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve location: %w", err)
	}

	publicKey, err := c.KeyPair.PublicKeyContent()
	if err != nil {
		return nil, err
	}
	sshKey, err := c.api.EnsureSSHKey(ctx, c.KeyPair.Name, publicKey, c.labels())
	if err != nil {
		return nil, fmt.Errorf("failed to ensure SSH key: %w", err)
	}

	name := opts.Name
	if name == "" {
		name = c.Tag
	}

	server, err := c.api.CreateServer(ctx, hcloud.ServerCreateOpts{
		Name:       name,
		ServerType: serverType,
		Image:      image,
		Location:   location,
		SSHKeys:    []*hcloud.SSHKey{sshKey},
		UserData:   opts.UserData,
		Labels:     c.labels(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}
	c.Log.Infow("launched instance", "name", name, "id", server.ID)

	inst := &Instance{api: c.api, server: server}
	c.TrackInstance(inst)
	return inst, nil
}

// GetInstance looks up a server by its numeric id.
func (c *Client) GetInstance(ctx context.Context, id string) (cloud.Instance, error) {
	serverID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid hcloud instance id %q: %w", id, err)
	}
	server, err := c.api.GetServer(ctx, serverID)
	if err != nil {
		return nil, fmt.Errorf("failed to get server %s: %w", id, err)
	}
	if server == nil {
		return nil, fmt.Errorf("no server found with id %s", id)
	}
	return &Instance{api: c.api, server: server}, nil
}

// Snapshot creates an image from the instance and tracks it for Clean.
func (c *Client) Snapshot(ctx context.Context, inst cloud.Instance, name string) (*cloud.ImageInfo, error) {
	hi, ok := inst.(*Instance)
	if !ok {
		return nil, fmt.Errorf("instance %s is not an hcloud instance", inst.ID())
	}

	image, err := c.api.CreateServerImage(ctx, hi.server, &hcloud.ServerCreateImageOpts{
		Type:        hcloud.ImageTypeSnapshot,
		Description: hcloud.Ptr(name),
		Labels:      c.labels(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot server %s: %w", inst.ID(), err)
	}

	imageID := strconv.FormatInt(image.ID, 10)
	c.TrackImage(imageID)
	c.Log.Infow("created snapshot", "image", imageID, "name", name)
	return &cloud.ImageInfo{ID: imageID, Name: name}, nil
}

// DeleteImage removes a snapshot by id.
func (c *Client) DeleteImage(ctx context.Context, imageID string) error {
	id, err := strconv.ParseInt(imageID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid hcloud image id %q: %w", imageID, err)
	}
	if err := c.api.DeleteImage(ctx, id); err != nil {
		return fmt.Errorf("failed to delete image %s: %w", imageID, err)
	}
	return nil
}

// Clean deletes every instance and snapshot created by this client.
func (c *Client) Clean(ctx context.Context) error {
	return c.Base.Clean(ctx, c.DeleteImage)
}

func (c *Client) serverTypeName(instanceType string) string {
	if instanceType != "" {
		return instanceType
	}
	return c.Config.GetStringDefault("server_type", DefaultServerType)
}

func (c *Client) labels() map[string]string {
	return map[string]string{"created-by": c.Tag}
}
