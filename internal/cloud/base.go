package cloud

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/stratoforge/strato/internal/config"
	"github.com/stratoforge/strato/internal/keys"
	"github.com/stratoforge/strato/internal/log"
)

// Options configure construction of a provider client.
type Options struct {
	// ConfigSource is an explicit strato.toml location. When nil the
	// default search order applies.
	ConfigSource *config.Source
	// Overrides win over the document for the keys they set; nil values
	// defer to the document.
	Overrides map[string]any
	// SkipValidation disables the schema check. Reduced safety; meant for
	// providers whose schema is not modeled yet.
	SkipValidation bool
	// NoTimestampSuffix keeps the tag exactly as given instead of
	// appending a launch timestamp.
	NoTimestampSuffix bool
}

// Base is the shared core of every provider client. Configuration is
// resolved and schema-checked at construction, so a misconfigured client
// fails before any provider API is dialed.
type Base struct {
	Provider string
	Tag      string
	Config   config.Values
	KeyPair  *keys.KeyPair
	Log      *zap.SugaredLogger

	mu               sync.Mutex
	createdInstances []Instance
	createdImages    []string
}

// NewBase resolves configuration for provider and prepares the shared state.
// tag names and labels every resource the client creates; it must be
// DNS-safe (see ValidateTag) and gets a timestamp suffix unless disabled.
func NewBase(provider, tag string, opts Options) (*Base, error) {
	resolved, err := config.Resolve(config.Options{
		Provider:       provider,
		Source:         opts.ConfigSource,
		Overrides:      opts.Overrides,
		SkipValidation: opts.SkipValidation,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s configuration: %w", provider, err)
	}
	if !resolved.Validated {
		log.Named(provider).Warnw("configuration was not schema-validated", "provider", provider)
	}

	if !opts.NoTimestampSuffix {
		tag = TimestampedTag(tag)
	}
	if err := ValidateTag(tag); err != nil {
		return nil, err
	}

	return &Base{
		Provider: provider,
		Tag:      tag,
		Config:   resolved.Values,
		KeyPair:  keys.FromConfig(resolved.Values),
		Log:      log.Named(provider),
	}, nil
}

// UseKey replaces the client's key pair with an existing one on disk.
func (b *Base) UseKey(publicKeyPath, privateKeyPath, name string) {
	b.Log.Debugw("using SSH key", "path", publicKeyPath)
	b.KeyPair = keys.New(publicKeyPath, privateKeyPath, name)
}

// TrackInstance records an instance for deletion by Clean.
func (b *Base) TrackInstance(inst Instance) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.createdInstances = append(b.createdInstances, inst)
}

// TrackImage records an image for deletion by Clean.
func (b *Base) TrackImage(imageID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.createdImages = append(b.createdImages, imageID)
}

// Clean deletes every tracked instance and image via the supplied hooks.
// Failures are collected with multierr so one stuck resource does not leave
// the rest behind.
func (b *Base) Clean(ctx context.Context, deleteImage func(context.Context, string) error) error {
	b.mu.Lock()
	instances := b.createdInstances
	images := b.createdImages
	b.createdInstances = nil
	b.createdImages = nil
	b.mu.Unlock()

	var errs error
	for _, inst := range instances {
		if err := inst.Delete(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to delete instance %s: %w", inst.ID(), err))
		}
	}
	for _, imageID := range images {
		if err := deleteImage(ctx, imageID); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to delete image %s: %w", imageID, err))
		}
	}
	return errs
}
