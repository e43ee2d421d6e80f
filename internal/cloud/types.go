package cloud

import (
	"context"
	"fmt"
)

// ImageType selects the flavor of image to launch.
type ImageType string

const (
	ImageTypeGeneric ImageType = "generic"
	ImageTypeMinimal ImageType = "minimal"
)

// ImageInfo identifies an image on any provider.
type ImageInfo struct {
	ID   string
	Name string
}

func (i ImageInfo) String() string {
	return fmt.Sprintf("%s [id: %s]", i.Name, i.ID)
}

// Instance is a launched VM. Concrete types wrap the provider's own resource
// model; this interface is the subset the lifecycle layer needs.
type Instance interface {
	// ID is the provider-assigned instance identifier.
	ID() string
	// Name is the resource name the instance was launched under.
	Name() string
	// IP returns the address to reach the instance on, waiting for the
	// provider to assign one if necessary.
	IP(ctx context.Context) (string, error)
	// Delete terminates the instance. Idempotent.
	Delete(ctx context.Context) error
}

// LaunchOpts are the provider-independent launch parameters.
type LaunchOpts struct {
	// ImageID selects the image to boot.
	ImageID string
	// InstanceType selects the machine size; empty means the provider
	// client's default.
	InstanceType string
	// UserData is passed to cloud-init on first boot.
	UserData string
	// Name overrides the generated instance name.
	Name string
}

// Cloud is the uniform lifecycle a provider client exposes: launch, look up,
// snapshot, delete, and bulk cleanup.
type Cloud interface {
	// LaunchInstance boots a new instance and tracks it for Clean.
	LaunchInstance(ctx context.Context, opts LaunchOpts) (Instance, error)
	// GetInstance looks up a previously launched instance by id.
	GetInstance(ctx context.Context, id string) (Instance, error)
	// Snapshot creates an image from a (typically stopped) instance and
	// tracks it for Clean.
	Snapshot(ctx context.Context, inst Instance, name string) (*ImageInfo, error)
	// DeleteImage removes an image created by Snapshot.
	DeleteImage(ctx context.Context, imageID string) error
	// Clean deletes every tracked instance and image, collecting errors
	// rather than stopping at the first.
	Clean(ctx context.Context) error
}
