// Package cache provides content-addressed caching for the render
// pipeline. Layout and artifact results are keyed by the score
// document's hash plus the options that shaped them, so an unchanged
// score renders from cache.
package cache

import (
	"context"
	"time"
)

// TTLs per entry kind. Artifacts are keyed by content hash, so they can
// live long; layouts are cheap to recompute and expire sooner.
const (
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the storage interface shared by the file and null caches.
type Cache interface {
	// Get returns the data for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// LayoutKeyOpts are the formatting options that shape a layout result.
type LayoutKeyOpts struct {
	Width         float64
	SoftmaxFactor float64
	GlobalSoftmax bool
	MaxIterations int
	TuneSteps     int
	TuneAlpha     float64
	AlignRests    bool
}

// ArtifactKeyOpts are the rendering options that shape an artifact.
// AlignRests is part of the key because rest lines change the drawing
// without changing the serialized layout the artifact hash covers.
type ArtifactKeyOpts struct {
	Format     string
	Width      float64
	Height     float64
	Scale      float64
	AlignRests bool
}

// Keyer derives cache keys from score hashes and options.
type Keyer interface {
	// LayoutKey keys a formatted layout by the score document hash and
	// the formatting options.
	LayoutKey(scoreHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact by the layout hash and the
	// rendering options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the inputs into stable, filesystem-safe keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the stock keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

func (k *DefaultKeyer) LayoutKey(scoreHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", scoreHash, opts)
}

func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
