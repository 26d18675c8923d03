// Package config movingmedian 命令的配置
package config

import (
	"bytes"
	"flag"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	moving_median "github.com/simonks2016/moving_median"
	"github.com/simonks2016/moving_median/internal/generator"
	"github.com/simonks2016/moving_median/stream"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

type Config struct {
	Window            WindowSize       `yaml:"window"`
	LogLevel          string           `yaml:"log_level"`
	MetricsListenAddr string           `yaml:"metrics_listen_addr"`
	Stream            stream.Config    `yaml:"stream"`
	Generator         generator.Config `yaml:"generator"`
}

// RegisterFlags 注册参数并设置默认值
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	cfg.Window = WindowSize(moving_median.DefaultWindowSize)
	f.Var(&cfg.Window, "window", "Number of most recent samples the median is computed over.")
	f.StringVar(&cfg.LogLevel, "log.level", LogLevelInfo, "Only log messages with the given severity or above. Valid levels: [debug, info, warn, error]")
	f.StringVar(&cfg.MetricsListenAddr, "metrics.listen-addr", "", "Address to serve Prometheus metrics on, for example :9090. Empty disables the endpoint.")

	cfg.Stream.RegisterFlags(f)
	cfg.Generator.RegisterFlags(f)
}

func (cfg *Config) Validate() error {
	if err := moving_median.ValidateWindowSize(int(cfg.Window)); err != nil {
		return err
	}
	switch cfg.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return errors.Errorf("unsupported log level %q", cfg.LogLevel)
	}
	if err := cfg.Stream.Validate(); err != nil {
		return errors.Wrap(err, "invalid stream config")
	}
	if err := cfg.Generator.Validate(); err != nil {
		return errors.Wrap(err, "invalid generator config")
	}
	return nil
}

// Load 把 path 的 YAML 叠加到 cfg 上，文件里没有的字段保持原值，未知字段报错
func Load(path string, cfg *Config) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read config file")
	}
	return Parse(buf, cfg)
}

func Parse(buf []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrap(err, "parse config")
	}
	return nil
}
