package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_DefaultsToBuiltinCatalog(t *testing.T) {
	loader := NewLoader(nil)

	cfg, err := loader.Load(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Catalog.Len())
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, "0.0.0.0:8080", cfg.ListenAddress)
	assert.True(t, cfg.Observability.EnableMetrics)

	skill, ok := cfg.Catalog.Lookup("pptx")
	require.True(t, ok)
	assert.Equal(t, "document-creation", skill.Category)
	assert.Contains(t, skill.SourceURL, "pptx/SKILL.md")
}

func TestLoader_CustomCatalog(t *testing.T) {
	path := writeConfig(t, `
cacheTTLSeconds: 120
listenAddress: 127.0.0.1:9999
skills:
  - name: runbook
    description: Operational runbooks
    category: reference
    sourceUrl: https://example.com/runbook.md
`)
	loader := NewLoader(nil)

	cfg, err := loader.Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "127.0.0.1:9999", cfg.ListenAddress)
	require.Equal(t, 1, cfg.Catalog.Len())
	skill, ok := cfg.Catalog.Lookup("runbook")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/runbook.md", skill.SourceURL)
}

func TestLoader_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{
			name: "missing name",
			config: `
skills:
  - description: no name
    sourceUrl: https://example.com/x.md
`,
			wantErr: "skills[0]: name is required",
		},
		{
			name: "missing source url",
			config: `
skills:
  - name: broken
`,
			wantErr: "skills[0]: sourceUrl is required",
		},
		{
			name: "relative source url",
			config: `
skills:
  - name: broken
    sourceUrl: ./local.md
`,
			wantErr: "not an absolute URL",
		},
		{
			name: "duplicate name",
			config: `
skills:
  - name: twice
    sourceUrl: https://example.com/a.md
  - name: twice
    sourceUrl: https://example.com/b.md
`,
			wantErr: `skills[1]: duplicate name "twice"`,
		},
		{
			name:    "zero ttl",
			config:  "cacheTTLSeconds: -5\n",
			wantErr: "cacheTTLSeconds must be > 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewLoader(nil)
			_, err := loader.Load(context.Background(), writeConfig(t, tt.config))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoader_MissingFile(t *testing.T) {
	loader := NewLoader(nil)
	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoader_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("SKILLS_TTL", "240")
	t.Setenv("SKILLS_HOST", "https://example.com")
	path := writeConfig(t, `
cacheTTLSeconds: ${SKILLS_TTL}
skills:
  - name: runbook
    description: Operational runbooks
    sourceUrl: ${SKILLS_HOST}/runbook.md
`)
	loader := NewLoader(nil)

	cfg, err := loader.Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 4*time.Minute, cfg.CacheTTL)
	skill, ok := cfg.Catalog.Lookup("runbook")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/runbook.md", skill.SourceURL)
}

func TestExpandConfigEnv_ReportsMissingVariables(t *testing.T) {
	expanded, missing, err := expandConfigEnv([]byte("listenAddress: ${NO_SUCH_GATEWAY_VAR}:8080\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"NO_SUCH_GATEWAY_VAR"}, missing)
	assert.Contains(t, expanded, ":8080")
}
