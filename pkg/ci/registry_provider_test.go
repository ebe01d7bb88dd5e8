package ci

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name     string
	detected bool
}

func (p *fakeProvider) Name() string               { return p.name }
func (p *fakeProvider) Detect() bool               { return p.detected }
func (p *fakeProvider) Context() (*Context, error) { return &Context{Provider: p.name}, nil }
func (p *fakeProvider) Input(string) string        { return "" }
func (p *fakeProvider) OutputWriter() OutputWriter { return &NoopOutputWriter{} }
func (p *fakeProvider) StartGroup(string)          {}
func (p *fakeProvider) EndGroup()                  {}
func (p *fakeProvider) Fail(string)                {}
func (p *fakeProvider) Warn(string)                {}

func withCleanRegistry(t *testing.T) {
	t.Helper()

	providersMu.Lock()
	savedProviders, savedFallback := providers, fallback
	providers, fallback = nil, nil
	providersMu.Unlock()

	t.Cleanup(func() {
		providersMu.Lock()
		providers, fallback = savedProviders, savedFallback
		providersMu.Unlock()
	})
}

func TestDetect_FirstActiveProviderWins(t *testing.T) {
	withCleanRegistry(t)

	Register(&fakeProvider{name: "inactive"})
	Register(&fakeProvider{name: "first", detected: true})
	Register(&fakeProvider{name: "second", detected: true})
	RegisterFallback(&fakeProvider{name: "generic"})

	p := Detect()
	require.NotNil(t, p)
	assert.Equal(t, "first", p.Name())
}

func TestDetect_Fallback(t *testing.T) {
	withCleanRegistry(t)

	Register(&fakeProvider{name: "inactive"})
	assert.Nil(t, Detect())

	RegisterFallback(&fakeProvider{name: "generic"})
	p := Detect()
	require.NotNil(t, p)
	assert.Equal(t, "generic", p.Name())
}

func TestRegister_ReplacesSameName(t *testing.T) {
	withCleanRegistry(t)

	Register(&fakeProvider{name: "github-actions"})
	Register(&fakeProvider{name: "github-actions", detected: true})

	require.Len(t, providers, 1)
	assert.True(t, Detect().Detect())
}
