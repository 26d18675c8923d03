// Package stream 把 MedianEngine 接到 channel 流水线上：
// 样本逐个进去，窗口满了之后中位数按同样的顺序出来
package stream

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"

	moving_median "github.com/simonks2016/moving_median"
)

// Stats Run 运行期间也可以安全读取
type Stats struct {
	Samples        uint64
	Rejected       uint64
	Medians        uint64
	AvgPushLatency time.Duration
}

// Adapter 独占一个引擎，由调用 Run 的 goroutine 驱动。
// Push 和 Run 不能并发调用
type Adapter struct {
	cfg     Config
	engine  *moving_median.MedianEngine
	logger  log.Logger
	metrics *metrics

	samples  atomic.Uint64
	rejected atomic.Uint64
	medians  atomic.Uint64
	latency  *latencyEWMA
}

func New(engine *moving_median.MedianEngine, cfg Config, logger log.Logger, reg prometheus.Registerer) *Adapter {
	a := &Adapter{
		cfg:     cfg,
		engine:  engine,
		logger:  log.With(logger, "component", "stream"),
		metrics: newMetrics(reg),
		latency: newLatencyEWMA(cfg.LatencyAlpha),
	}
	a.metrics.windowSize.Set(float64(engine.WindowSize()))
	return a
}

// Push 给引擎喂一个样本，窗口没满时 ok=false
func (a *Adapter) Push(value float64) (median float64, ok bool, err error) {
	a.samples.Inc()
	a.metrics.samples.Inc()

	start := time.Now()
	median, ok, err = a.engine.Push(value)
	elapsed := time.Since(start)

	if err != nil {
		a.rejected.Inc()
		a.metrics.rejected.Inc()
		return 0, false, err
	}

	a.latency.observe(elapsed)
	a.metrics.pushDuration.Observe(elapsed.Seconds())

	if ok {
		a.medians.Inc()
		a.metrics.medians.Inc()
		a.metrics.lastMedian.Set(median)
	}
	return median, ok, nil
}

// Run 从 in 读样本直到 in 关闭或 ctx 结束，每个中位数写到 out，返回时关闭 out。
// 输入结束不需要 flush，那时所有中位数都已经写出去了
func (a *Adapter) Run(ctx context.Context, in <-chan float64, out chan<- float64) error {
	defer close(out)

	level.Debug(a.logger).Log("msg", "stream started", "window", a.engine.WindowSize(), "on_invalid_sample", a.cfg.OnInvalidSample)

	var index uint64
	for {
		var (
			value float64
			more  bool
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case value, more = <-in:
		}
		if !more {
			s := a.Stats()
			level.Info(a.logger).Log("msg", "stream finished", "samples", s.Samples, "medians", s.Medians, "rejected", s.Rejected, "avg_push_latency", s.AvgPushLatency)
			return nil
		}

		idx := index
		index++

		median, ok, err := a.Push(value)
		if err != nil {
			if a.cfg.OnInvalidSample == OnInvalidSampleFail {
				return errors.Wrapf(err, "sample %d", idx)
			}
			level.Warn(a.logger).Log("msg", "skipping invalid sample", "index", idx, "err", err)
			continue
		}
		if !ok {
			continue
		}

		select {
		case out <- median:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (a *Adapter) Stats() Stats {
	latency, _ := a.latency.get()
	return Stats{
		Samples:        a.samples.Load(),
		Rejected:       a.rejected.Load(),
		Medians:        a.medians.Load(),
		AvgPushLatency: latency,
	}
}
