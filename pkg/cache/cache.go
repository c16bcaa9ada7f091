// Package cache stores rendered artifacts keyed by scene content.
//
// Three backends implement [Cache]:
//   - [FileCache]: one file per entry under a directory, for the CLI. Each
//     file is a short header carrying the expiry followed by the raw artifact.
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// Keys come from a [Keyer] so every caller derives them the same way:
//
//	k := cache.NewDefaultKeyer()
//	key := k.RenderKey(cache.Hash(sceneBytes), cache.RenderKeyOpts{Format: "tikz"})
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strconv"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data; ttl <= 0 keeps it until deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// RenderKeyOpts are the emission settings that change rendered output.
type RenderKeyOpts struct {
	Format      string
	Precision   int
	ShowWeights bool
	Object      string
	Class       string
	// Dir is the directory relative catalog paths resolve against. Two
	// copies of one scene next to different catalogs render differently.
	Dir string
}

// PreviewKeyOpts are the settings of an SVG/PDF/PNG preview.
type PreviewKeyOpts struct {
	Format string
	Scale  float64
}

// keyVersion is mixed into every key. Bump it when emitted output changes
// for identical inputs.
const keyVersion = "texgraph/1"

// Hash returns the hex SHA-256 of data. Scene bytes and DOT source are
// hashed with it before being handed to a [Keyer].
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// keyDigest writes each field length-prefixed so adjacent fields cannot
// run together ("ab"+"c" and "a"+"bc" hash differently).
type keyDigest struct{ h hash.Hash }

func newKeyDigest(kind, contentHash string) *keyDigest {
	d := &keyDigest{h: sha256.New()}
	return d.str(keyVersion).str(kind).str(contentHash)
}

func (d *keyDigest) str(s string) *keyDigest {
	fmt.Fprintf(d.h, "%d:%s;", len(s), s)
	return d
}

func (d *keyDigest) key(kind string) string {
	return kind + ":" + hex.EncodeToString(d.h.Sum(nil))
}

// Keyer derives cache keys.
type Keyer interface {
	// RenderKey keys the text output of a scene.
	RenderKey(sceneHash string, opts RenderKeyOpts) string
	// PreviewKey keys a Graphviz preview of DOT source.
	PreviewKey(dotHash string, opts PreviewKeyOpts) string
}

// DefaultKeyer produces "render:<hash>" and "preview:<hash>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RenderKey hashes the scene hash together with opts.
func (DefaultKeyer) RenderKey(sceneHash string, opts RenderKeyOpts) string {
	return newKeyDigest("render", sceneHash).
		str(opts.Format).
		str(strconv.Itoa(opts.Precision)).
		str(strconv.FormatBool(opts.ShowWeights)).
		str(opts.Object).
		str(opts.Class).
		str(opts.Dir).
		key("render")
}

// PreviewKey hashes the DOT hash together with opts.
func (DefaultKeyer) PreviewKey(dotHash string, opts PreviewKeyOpts) string {
	return newKeyDigest("preview", dotHash).
		str(opts.Format).
		str(strconv.FormatFloat(opts.Scale, 'g', -1, 64)).
		key("preview")
}

// TTL defaults.
const (
	// RenderTTL bounds how long rendered text stays cached.
	RenderTTL = 7 * 24 * time.Hour
	// PreviewTTL bounds how long previews stay cached.
	PreviewTTL = 24 * time.Hour
)

// String describes a cache for logs: "file:<dir>", "redis:<addr>" or
// "none". Other implementations print as their type unless they implement
// fmt.Stringer.
func String(c Cache) string {
	if s, ok := c.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", c)
}
