// Package generator 按种子生成伪随机样本，用于演示和压测
package generator

import (
	"context"
	"flag"
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

type Config struct {
	Seed  int64   `yaml:"seed"`
	Count int     `yaml:"count"`
	Scale float64 `yaml:"scale"`
	// 每秒样本数，0 表示不限速
	Rate float64 `yaml:"rate"`
}

func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	f.Int64Var(&cfg.Seed, "generator.seed", 1, "Seed of the pseudo-random sample generator.")
	f.IntVar(&cfg.Count, "generator.count", 1000099, "Number of samples to generate.")
	f.Float64Var(&cfg.Scale, "generator.scale", 100, "Samples are uniformly distributed integers in [0, scale].")
	f.Float64Var(&cfg.Rate, "generator.rate", 0, "Maximum samples per second, 0 to disable throttling.")
}

func (cfg *Config) Validate() error {
	if cfg.Count < 0 {
		return errors.Errorf("generator count (%d) must not be negative", cfg.Count)
	}
	if cfg.Scale <= 0 || math.IsInf(cfg.Scale, 0) || math.IsNaN(cfg.Scale) {
		return errors.Errorf("generator scale (%v) must be positive and finite", cfg.Scale)
	}
	if cfg.Rate < 0 {
		return errors.Errorf("generator rate (%v) must not be negative", cfg.Rate)
	}
	return nil
}

// Generator 不是并发安全的
type Generator struct {
	cfg     Config
	rnd     *rand.Rand
	limiter *rate.Limiter
}

func New(cfg Config) *Generator {
	g := &Generator{
		cfg: cfg,
		rnd: rand.New(rand.NewSource(cfg.Seed)),
	}
	if cfg.Rate > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}
	return g
}

// Next 返回 round(u * scale)，u 在 [0, 1) 上均匀分布
func (g *Generator) Next() float64 {
	return math.Round(g.rnd.Float64() * g.cfg.Scale)
}

// Run 往 out 写 Count 个样本，然后关闭 out
func (g *Generator) Run(ctx context.Context, out chan<- float64) error {
	defer close(out)

	for i := 0; i < g.cfg.Count; i++ {
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		select {
		case out <- g.Next():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
