package settings

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("log-level", "info", "")
	fs.Bool("log-json", false, "")
	fs.Bool("strict", false, "")
	fs.Bool("check", false, "")
	fs.String("out", "", "")
	fs.Int("parallel", 4, "")
	fs.Bool("dump", false, "")

	return fs
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load(nil)
	require.NoError(t, err)

	want := Default()
	assert.Equal(t, &want, s)
}

func TestLoad_Precedence(t *testing.T) {
	t.Setenv("CONFIGEN_LOG_LEVEL", "DEBUG")
	t.Setenv("CONFIGEN_STRICT", "true")
	t.Setenv("CONFIGEN_PARALLEL", "2")
	t.Setenv("CONFIGEN_UNRELATED", "x")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--parallel=8", "--out", "gen", "--check"}))

	s, err := Load(fs)
	require.NoError(t, err)

	assert.Equal(t, "debug", s.LogLevel)
	assert.True(t, s.Strict)
	assert.True(t, s.Check)
	assert.Equal(t, 8, s.Parallel)
	assert.Equal(t, "gen", s.OutputDir)
	assert.False(t, s.Dump)
}

func TestLoad_UnsetFlagsDoNotOverrideEnv(t *testing.T) {
	t.Setenv("CONFIGEN_DUMP", "1")

	fs := newFlags()
	require.NoError(t, fs.Parse(nil))

	s, err := Load(fs)
	require.NoError(t, err)
	assert.True(t, s.Dump)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero parallel", []string{"--parallel=0"}},
		{"unknown level", []string{"--log-level=trace"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newFlags()
			require.NoError(t, fs.Parse(tt.args))

			_, err := Load(fs)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid settings")
		})
	}
}

func TestTransformEnvKey(t *testing.T) {
	k, v := transformEnvKey("CONFIGEN_OUTPUT_DIR", "gen")
	assert.Equal(t, "output_dir", k)
	assert.Equal(t, "gen", v)

	k, _ = transformEnvKey("CONFIGEN_NOPE", "x")
	assert.Empty(t, k)
}
