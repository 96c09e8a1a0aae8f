package providers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ResolvePerVendor(t *testing.T) {
	r := NewRegistry(DefaultKeys{})

	tests := []struct {
		modelID string
		vendor  string
	}{
		{"claude-sonnet-4-20250514", "anthropic"},
		{"llama-3.3-70b-versatile", "groq"},
		{"gpt-4o-mini", "openai"},
		{"grok-3-beta", "xai"},
	}
	for _, tt := range tests {
		t.Run(tt.modelID, func(t *testing.T) {
			p, err := r.Resolve(tt.modelID, Credentials{})
			require.NoError(t, err)
			assert.Equal(t, tt.vendor, p.Name())
		})
	}
}

func TestRegistry_ResolveUnknownModel(t *testing.T) {
	r := NewRegistry(DefaultKeys{})

	_, err := r.Resolve("made-up-model", Credentials{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownModel)
	assert.Contains(t, err.Error(), "made-up-model")
}

// Resolution only consults catalogs; an unconfigured provider still
// resolves and fails later at call time, matching the per-slot error
// reporting the run stream relies on.
func TestRegistry_ResolvesUnconfiguredProvider(t *testing.T) {
	r := NewRegistry(DefaultKeys{})

	p, err := r.Resolve("claude-3-5-haiku-20241022", Credentials{})
	require.NoError(t, err)
	assert.False(t, p.Configured())
}

func TestRegistry_CallerKeyTakesPrecedence(t *testing.T) {
	r := NewRegistry(DefaultKeys{Anthropic: "server-key"})

	p, err := r.Resolve("claude-3-5-haiku-20241022", Credentials{Anthropic: "caller-key"})
	require.NoError(t, err)
	assert.True(t, p.Configured())

	ap, ok := p.(*AnthropicProvider)
	require.True(t, ok)
	assert.Equal(t, "caller-key", ap.apiKey)
}

func TestRegistry_FallsBackToDefaultKey(t *testing.T) {
	r := NewRegistry(DefaultKeys{Groq: "server-key"})

	p, err := r.Resolve("gemma2-9b-it", Credentials{})
	require.NoError(t, err)
	assert.True(t, p.Configured())
}

func TestCredentialsFromHeader(t *testing.T) {
	h := http.Header{}
	h.Set(HeaderAnthropicKey, "ak")
	h.Set(HeaderOpenAIKey, "ok")

	creds := CredentialsFromHeader(h)
	assert.Equal(t, Credentials{Anthropic: "ak", OpenAI: "ok"}, creds)
}

func TestModelCatalogsHaveNoDuplicateIDs(t *testing.T) {
	r := NewRegistry(DefaultKeys{})

	seen := map[string]string{}
	for _, p := range r.All(Credentials{}) {
		for _, m := range p.AvailableModels() {
			if prev, dup := seen[m.ID]; dup {
				t.Fatalf("model %s listed by both %s and %s", m.ID, prev, p.Name())
			}
			seen[m.ID] = p.Name()
			assert.Equal(t, p.Name(), m.Provider)
		}
	}
}
