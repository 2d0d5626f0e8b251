package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hclManifestText = `
version = "1"
header  = "Copyright 2026 Acme"

known_types = {
  "example.com/money.Amount" = "float"
}

output {
  dir     = "./gen"
  package = "gen"
}

default_flags {
  convert   = "all"
  recursive = false
}

structure "example.com/other.Pool" {
  package = "example.com/other/conf"
  type    = "PoolConf"
}

target "example.com/svc.Inner" {}

target "example.com/svc.Server" {
  constructor = "NewServer"
  defaults = {
    port   = 8080
    ratio  = 0.5
    debug  = true
    name   = "api"
    tags   = ["a", "b"]
    limits = { cpu = 1.5 }
    unset  = null
  }
}
`

func TestParseHCL(t *testing.T) {
	m, err := ParseHCL([]byte(hclManifestText), "configen.hcl")
	require.NoError(t, err)

	assert.Equal(t, "1", m.Version)
	assert.Equal(t, "Copyright 2026 Acme", m.Header)
	assert.Equal(t, Output{Dir: "./gen", Package: "gen"}, m.Output)
	assert.Equal(t, "all", m.DefaultFlags.Convert)
	require.NotNil(t, m.DefaultFlags.Recursive)
	assert.False(t, *m.DefaultFlags.Recursive)
	assert.Equal(t, map[string]string{"example.com/money.Amount": "float"}, m.KnownTypes)
	assert.Equal(t, []Structure{{Name: "example.com/other.Pool", Package: "example.com/other/conf", Type: "PoolConf"}}, m.Structures)

	require.Len(t, m.Targets, 2)
	assert.Equal(t, Target{Name: "example.com/svc.Inner"}, m.Targets[0])

	server := m.Targets[1]
	assert.Equal(t, "NewServer", server.Constructor)
	assert.Equal(t, map[string]any{
		"port":   int64(8080),
		"ratio":  0.5,
		"debug":  true,
		"name":   "api",
		"tags":   []any{"a", "b"},
		"limits": map[string]any{"cpu": 1.5},
		"unset":  nil,
	}, server.Defaults)

	require.NoError(t, Validate(m))
}

func TestParseHCL_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "syntax",
			src:     `target "x" {`,
			wantErr: "failed to parse HCL manifest",
		},
		{
			name:    "unknown block",
			src:     `mapping "x" {}`,
			wantErr: "failed to decode HCL manifest",
		},
		{
			name:    "defaults not an object",
			src:     `target "example.com/svc.Run" { defaults = [1, 2] }`,
			wantErr: "defaults must be an object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHCL([]byte(tt.src), "test.hcl")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
