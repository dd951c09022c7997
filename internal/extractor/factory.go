package extractor

import (
	"fmt"

	"poaudit/internal/config"
	"poaudit/internal/port"
)

// ProviderFactory is a function that creates an OrderExtractor from a provider config.
type ProviderFactory func(cfg *config.ExtractorProviderConfig) (port.OrderExtractor, error)

// registry of extraction provider factories, populated at startup via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an extraction provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewExtractor creates an OrderExtractor from a provider config using the registered factory.
func NewExtractor(cfg *config.ExtractorProviderConfig) (port.OrderExtractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown extraction provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
