package provider

import (
	"sort"
	"sync"

	"github.com/samber/lo"

	"whisper-batch/internal/app/api"
	apperrors "whisper-batch/internal/app/errors"
)

// Factory is a function that creates a provider from settings
type Factory func(settings Settings) (api.Transcriber, error)

// providerRegistry stores provider creation functions
var (
	providerRegistry = make(map[string]Factory)
	registryMutex    sync.RWMutex
)

// RegisterProvider registers a provider factory. Provider packages call it from init.
func RegisterProvider(name string, factory Factory) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	providerRegistry[name] = factory
}

// GetFactory returns the factory for a provider name
func GetFactory(name string) (Factory, error) {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	factory, ok := providerRegistry[name]
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrUnknownProvider, "provider %q is not registered (available: %v)", name, availableLocked())
	}
	return factory, nil
}

// New builds the named provider. This is where models get loaded, so callers
// should go through a Handle rather than calling New per file.
func New(name string, settings Settings) (api.Transcriber, error) {
	factory, err := GetFactory(name)
	if err != nil {
		return nil, err
	}
	return factory(settings)
}

// Available returns all registered provider names, sorted
func Available() []string {
	registryMutex.RLock()
	defer registryMutex.RUnlock()
	return availableLocked()
}

func availableLocked() []string {
	names := lo.Keys(providerRegistry)
	sort.Strings(names)
	return names
}
