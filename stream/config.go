package stream

import (
	"flag"

	"github.com/pkg/errors"
)

const (
	// OnInvalidSampleSkip 被引擎拒绝的样本记日志后丢弃
	OnInvalidSampleSkip = "skip"
	// OnInvalidSampleFail 第一个被拒绝的样本就终止整个流
	OnInvalidSampleFail = "fail"
)

type Config struct {
	OnInvalidSample string  `yaml:"on_invalid_sample"`
	LatencyAlpha    float64 `yaml:"latency_alpha"`
}

func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	cfg.RegisterFlagsWithPrefix("stream.", f)
}

func (cfg *Config) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.OnInvalidSample, prefix+"on-invalid-sample", OnInvalidSampleSkip, "What to do with NaN or infinite samples: skip or fail.")
	f.Float64Var(&cfg.LatencyAlpha, prefix+"latency-alpha", defaultLatencyAlpha, "Smoothing factor (0, 1] of the per-sample push latency average.")
}

func (cfg *Config) Validate() error {
	switch cfg.OnInvalidSample {
	case OnInvalidSampleSkip, OnInvalidSampleFail:
	default:
		return errors.Errorf("unsupported on-invalid-sample policy %q, expected %q or %q", cfg.OnInvalidSample, OnInvalidSampleSkip, OnInvalidSampleFail)
	}
	if cfg.LatencyAlpha <= 0 || cfg.LatencyAlpha > 1 {
		return errors.Errorf("latency alpha (%v) must be in (0, 1]", cfg.LatencyAlpha)
	}
	return nil
}
