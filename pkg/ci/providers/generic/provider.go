package generic

import (
	"os"

	"github.com/mablhq/github-run-tests-action/pkg/ci"
	log "github.com/mablhq/github-run-tests-action/pkg/logger"
)

// ProviderName is the name of the fallback provider used outside a CI system.
const ProviderName = "generic"

// Provider is the fallback provider. Inputs come from flags only and outputs are logged.
type Provider struct{}

// NewProvider creates a generic provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return ProviderName
}

// Detect always returns true; the provider is only consulted as a fallback.
func (p *Provider) Detect() bool {
	return true
}

// Context returns the metadata available without a CI system.
func (p *Provider) Context() (*ci.Context, error) {
	return &ci.Context{
		Provider: ProviderName,
		Actor:    os.Getenv("USER"),
	}, nil
}

// Input implements ci.Provider. The generic provider has no input mechanism.
func (p *Provider) Input(string) string {
	return ""
}

// OutputWriter returns a writer that logs outputs.
func (p *Provider) OutputWriter() ci.OutputWriter {
	return &ci.LogOutputWriter{}
}

// StartGroup implements ci.Provider.
func (p *Provider) StartGroup(name string) {
	log.Info(name)
}

// EndGroup implements ci.Provider.
func (p *Provider) EndGroup() {}

// Fail implements ci.Provider.
func (p *Provider) Fail(msg string) {
	log.Error(msg)
}

// Warn implements ci.Provider.
func (p *Provider) Warn(msg string) {
	log.Warn(msg)
}

func init() {
	ci.RegisterFallback(NewProvider())
}
