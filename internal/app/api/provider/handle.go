package provider

import (
	"context"
	"sync"
	"sync/atomic"

	"whisper-batch/internal/app/api"
)

// Handle owns one lazily built provider instance. The model is loaded on first
// use and reused for every later call; a construction error is kept and
// returned to every caller without retrying.
type Handle struct {
	name  string
	build func() (api.Transcriber, error)

	once  sync.Once
	built atomic.Bool
	t     api.Transcriber
	err   error
}

// NewHandle creates a handle for the named registered provider.
func NewHandle(name string, settings Settings) *Handle {
	return NewHandleFunc(name, func() (api.Transcriber, error) {
		return New(name, settings)
	})
}

// NewHandleFunc creates a handle around an arbitrary constructor.
func NewHandleFunc(name string, build func() (api.Transcriber, error)) *Handle {
	return &Handle{name: name, build: build}
}

// Get returns the provider, building it on the first call.
func (h *Handle) Get() (api.Transcriber, error) {
	h.once.Do(func() {
		h.t, h.err = h.build()
		h.built.Store(true)
	})
	return h.t, h.err
}

// Transcript implements api.Transcriber.
func (h *Handle) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	t, err := h.Get()
	if err != nil {
		return "", err
	}
	return t.Transcript(ctx, inputFilePath)
}

// Name returns the registry name the handle was created with.
func (h *Handle) Name() string {
	return h.name
}

// Describe reports the built provider's description, or the name before first use.
func (h *Handle) Describe() string {
	if !h.built.Load() || h.t == nil {
		return h.name
	}
	return api.Describe(h.t, h.name)
}

// Close releases the provider if it holds resources (a worker process, a client).
func (h *Handle) Close() error {
	if !h.built.Load() {
		return nil
	}
	if c, ok := h.t.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
