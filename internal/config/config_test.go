package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	moving_median "github.com/simonks2016/moving_median"
	"github.com/simonks2016/moving_median/stream"
)

func defaults(t *testing.T) (Config, *flag.FlagSet) {
	t.Helper()
	cfg := Config{}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	return cfg, fs
}

func TestConfig_Defaults(t *testing.T) {
	cfg, _ := defaults(t)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, WindowSize(moving_median.DefaultWindowSize), cfg.Window)
	assert.Equal(t, LogLevelInfo, cfg.LogLevel)
	assert.Equal(t, stream.OnInvalidSampleSkip, cfg.Stream.OnInvalidSample)
	assert.Equal(t, 1000099, cfg.Generator.Count)
}

func TestConfig_Flags(t *testing.T) {
	cfg, fs := defaults(t)
	require.NoError(t, fs.Parse([]string{"-window=100", "-stream.on-invalid-sample=fail", "-generator.seed=7"}))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, WindowSize(100), cfg.Window)
	assert.Equal(t, stream.OnInvalidSampleFail, cfg.Stream.OnInvalidSample)
	assert.Equal(t, int64(7), cfg.Generator.Seed)

	for _, bad := range []string{"0", "-3", "2.5", "abc", "NaN", ""} {
		cfg, fs := defaults(t)
		fs.SetOutput(io.Discard)
		err := fs.Parse([]string{"-window=" + bad})
		assert.Error(t, err, "window %q", bad)
		assert.Equal(t, WindowSize(moving_median.DefaultWindowSize), cfg.Window)
	}
}

func TestParse(t *testing.T) {
	cfg, _ := defaults(t)
	require.NoError(t, Parse([]byte(`
window: 500
log_level: debug
stream:
  on_invalid_sample: fail
generator:
  count: 10
`), &cfg))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, WindowSize(500), cfg.Window)
	assert.Equal(t, LogLevelDebug, cfg.LogLevel)
	assert.Equal(t, stream.OnInvalidSampleFail, cfg.Stream.OnInvalidSample)
	assert.Equal(t, 10, cfg.Generator.Count)
	// 文件里没写，保持原值
	assert.Equal(t, 100.0, cfg.Generator.Scale)
	assert.Equal(t, 0.05, cfg.Stream.LatencyAlpha)
}

func TestParse_Empty(t *testing.T) {
	cfg, _ := defaults(t)
	require.NoError(t, Parse(nil, &cfg))
	assert.Equal(t, WindowSize(moving_median.DefaultWindowSize), cfg.Window)
}

func TestParse_InvalidWindow(t *testing.T) {
	for _, doc := range []string{
		"window: 0",
		"window: -2",
		"window: 2.5",
		"window: five",
		"window: .nan",
		"window: [5]",
		"window: {size: 5}",
	} {
		cfg, _ := defaults(t)
		err := Parse([]byte(doc), &cfg)
		assert.True(t, errors.Is(err, moving_median.ErrInvalidConfiguration), "%s: %v", doc, err)
	}
}

func TestParse_UnknownField(t *testing.T) {
	cfg, _ := defaults(t)
	assert.Error(t, Parse([]byte("windw: 5"), &cfg))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: 6\n"), 0o600))

	cfg, _ := defaults(t)
	require.NoError(t, Load(path, &cfg))
	assert.Equal(t, WindowSize(6), cfg.Window)

	assert.Error(t, Load(filepath.Join(t.TempDir(), "missing.yaml"), &cfg))
}

func TestConfig_Validate(t *testing.T) {
	cfg, _ := defaults(t)
	cfg.LogLevel = "trace"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Implements(t, (*interface{ StackTrace() errors.StackTrace })(nil), err)

	cfg, _ = defaults(t)
	cfg.Window = 0
	assert.True(t, errors.Is(cfg.Validate(), moving_median.ErrInvalidConfiguration))

	cfg, _ = defaults(t)
	cfg.Generator.Scale = -1
	assert.Error(t, cfg.Validate())
}

func TestWindowSize_MarshalYAML(t *testing.T) {
	out, err := yaml.Marshal(struct {
		Window WindowSize `yaml:"window"`
	}{Window: 42})
	require.NoError(t, err)
	assert.Equal(t, "window: 42\n", string(out))
}
