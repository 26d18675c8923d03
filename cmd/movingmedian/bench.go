package main

import (
	"encoding/json"
	"io"
	"time"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	moving_median "github.com/simonks2016/moving_median"
	"github.com/simonks2016/moving_median/internal/codec"
	"github.com/simonks2016/moving_median/internal/generator"
)

type benchReport struct {
	Engine         *moving_median.Snapshot `json:"engine"`
	Samples        uint64                  `json:"samples"`
	Medians        uint64                  `json:"medians"`
	Rejected       uint64                  `json:"rejected"`
	ElapsedMs      int64                   `json:"elapsed_ms"`
	SamplesPerSec  float64                 `json:"samples_per_sec"`
	AvgPushLatency string                  `json:"avg_push_latency"`
}

func benchCmd(a *app) *cobra.Command {
	var printMedians bool

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time the moving median over seeded pseudo-random input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}

			stop, err := serveMetrics(a.cfg.MetricsListenAddr, a.registry, a.logger)
			if err != nil {
				return err
			}
			defer stop()

			engine, adapter, err := a.newAdapter()
			if err != nil {
				return err
			}
			gen := generator.New(a.cfg.Generator)

			out := io.Discard
			if printMedians {
				out = a.stdout
			}

			level.Info(a.logger).Log("msg", "starting bench", "window", engine.WindowSize(), "samples", a.cfg.Generator.Count, "seed", a.cfg.Generator.Seed)
			start := time.Now()

			err = runPipeline(cmd.Context(),
				gen.Run,
				adapter,
				func(in <-chan float64) error {
					return codec.WriteMedians(out, in)
				},
			)
			if err != nil {
				return err
			}

			elapsed := time.Since(start)
			stats := adapter.Stats()
			report := benchReport{
				Engine:         engine.Snapshot(),
				Samples:        stats.Samples,
				Medians:        stats.Medians,
				Rejected:       stats.Rejected,
				ElapsedMs:      elapsed.Milliseconds(),
				AvgPushLatency: stats.AvgPushLatency.String(),
			}
			if elapsed > 0 {
				report.SamplesPerSec = float64(stats.Samples) / elapsed.Seconds()
			}

			level.Info(a.logger).Log("msg", "bench finished", "elapsed", elapsed, "samples_per_sec", report.SamplesPerSec, "avg_push_latency", stats.AvgPushLatency)

			if printMedians {
				return nil
			}
			enc := json.NewEncoder(a.stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	a.bindFlags(cmd)
	cmd.Flags().BoolVar(&printMedians, "print", false, "Write every median to stdout instead of the summary.")
	return cmd
}
