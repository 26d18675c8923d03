package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/simonks2016/moving_median/internal/codec"
)

func runCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Read numbers from stdin and write the moving median of each full window to stdout",
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

			_, adapter, err := a.newAdapter()
			if err != nil {
				return err
			}

			return runPipeline(cmd.Context(),
				func(ctx context.Context, out chan<- float64) error {
					return codec.ReadSamples(ctx, a.stdin, out)
				},
				adapter,
				func(in <-chan float64) error {
					return codec.WriteMedians(a.stdout, in)
				},
			)
		},
	}
	a.bindFlags(cmd)
	return cmd
}
