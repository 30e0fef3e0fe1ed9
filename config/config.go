// Package config holds the tunables §6 of the specification names. A zero
// Config is not valid; always build one with New, which applies the
// documented defaults before Options are layered on.
package config

import "github.com/modelingevolution/blazor-blaze-sub001/proto"

// Config bounds the resources a decoder/stage/pool will commit to a single
// stream session.
type Config struct {
	// MaxLayers bounds the legal layer id range to [0, MaxLayers). A
	// higher value requires a matching producer and decoder.
	MaxLayers int
	// MaxPolygonPoints bounds DrawPolygon's point count.
	MaxPolygonPoints int
	// MaxTextBytes bounds DrawText's UTF-8 payload length.
	MaxTextBytes int
	// SaveStackDepth bounds LayerContext's save stack.
	SaveStackDepth int
	// ReceiveBufferBytes is advisory: an upper bound on in-flight bytes a
	// transport layer should hold. The decoder does not enforce it; a
	// session wrapper that owns the transport may.
	ReceiveBufferBytes int

	// LayerWidth and LayerHeight are the fixed pixel dimensions every layer
	// in a session is rented at. The wire format carries no per-frame or
	// per-layer dimensions, so the (width, height) every Master/Clear rents
	// from the pool is a session-level configuration decision, fixed for
	// the lifetime of a Stage.
	LayerWidth  int
	LayerHeight int
}

// Option mutates a Config under construction.
type Option func(*Config)

// New builds a Config with the specification's documented defaults,
// applying opts in order.
func New(opts ...Option) Config {
	c := Config{
		MaxLayers:          proto.DefaultMaxLayers,
		MaxPolygonPoints:   proto.DefaultMaxPolygonPoints,
		MaxTextBytes:       proto.DefaultMaxTextBytes,
		SaveStackDepth:     proto.DefaultSaveStackDepth,
		ReceiveBufferBytes: proto.DefaultReceiveBufferBytes,
		LayerWidth:         proto.DefaultLayerWidth,
		LayerHeight:        proto.DefaultLayerHeight,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithMaxLayers overrides MaxLayers.
func WithMaxLayers(n int) Option {
	return func(c *Config) { c.MaxLayers = n }
}

// WithMaxPolygonPoints overrides MaxPolygonPoints.
func WithMaxPolygonPoints(n int) Option {
	return func(c *Config) { c.MaxPolygonPoints = n }
}

// WithMaxTextBytes overrides MaxTextBytes.
func WithMaxTextBytes(n int) Option {
	return func(c *Config) { c.MaxTextBytes = n }
}

// WithSaveStackDepth overrides SaveStackDepth.
func WithSaveStackDepth(n int) Option {
	return func(c *Config) { c.SaveStackDepth = n }
}

// WithReceiveBufferBytes overrides ReceiveBufferBytes.
func WithReceiveBufferBytes(n int) Option {
	return func(c *Config) { c.ReceiveBufferBytes = n }
}

// WithLayerDimensions overrides the fixed (width, height) every layer in
// the session is rented at.
func WithLayerDimensions(width, height int) Option {
	return func(c *Config) { c.LayerWidth, c.LayerHeight = width, height }
}
