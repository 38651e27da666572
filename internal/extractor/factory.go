package extractor

import (
	"fmt"

	"cigfip/internal/config"
	"cigfip/internal/port"
)

// ProviderFactory creates a TextExtractor from a provider config.
type ProviderFactory func(cfg *config.ExtractorProviderConfig) (port.TextExtractor, error)

// providers is populated explicitly via RegisterProvider at startup.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an extraction provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// New creates a TextExtractor from a provider config using the registered factory.
func New(cfg *config.ExtractorProviderConfig) (port.TextExtractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown extractor provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// NewFromConfig builds the configured primary extractor, wrapped in a
// FallbackExtractor when a secondary provider is set.
func NewFromConfig(cfg *config.ExtractorConfig) (port.TextExtractor, error) {
	primary, err := New(cfg.PrimaryConfig())
	if err != nil {
		return nil, fmt.Errorf("creating primary extractor: %w", err)
	}
	secondaryCfg := cfg.SecondaryConfig()
	if secondaryCfg == nil {
		return primary, nil
	}
	secondary, err := New(secondaryCfg)
	if err != nil {
		return nil, fmt.Errorf("creating secondary extractor: %w", err)
	}
	return NewFallbackExtractor(
		[]port.TextExtractor{primary, secondary},
		[]string{"primary:" + cfg.Primary.Provider, "secondary:" + secondaryCfg.Provider},
	), nil
}
