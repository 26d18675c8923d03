package main

import (
	"context"
	"flag"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	moving_median "github.com/simonks2016/moving_median"
	"github.com/simonks2016/moving_median/internal/config"
	"github.com/simonks2016/moving_median/stream"
)

const pipelineBuffer = 1024

func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	root := &cobra.Command{
		Use:           "movingmedian",
		Short:         "Sliding-window median over a stream of numbers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		runCmd(&app{stdin: stdin, stdout: stdout, stderr: stderr}),
		benchCmd(&app{stdin: stdin, stdout: stdout, stderr: stderr}),
	)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// app 子命令共用的配置和进程 I/O
type app struct {
	cfg        config.Config
	configFile string

	stdin          io.Reader
	stdout, stderr io.Writer

	logger   log.Logger
	registry *prometheus.Registry
}

func (a *app) bindFlags(cmd *cobra.Command) {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	a.cfg.RegisterFlags(fs)
	fs.StringVar(&a.configFile, "config.file", "", "YAML configuration file. Flags given on the command line take precedence.")
	cmd.Flags().AddGoFlagSet(fs)
}

// setup 先读配置文件，再把命令行上显式给出的参数覆盖回去，
// 校验之后创建 logger 和 registry
func (a *app) setup(cmd *cobra.Command) error {
	if a.configFile != "" {
		changed := map[string]string{}
		cmd.Flags().Visit(func(f *pflag.Flag) {
			changed[f.Name] = f.Value.String()
		})
		if err := config.Load(a.configFile, &a.cfg); err != nil {
			return err
		}
		for name, value := range changed {
			if err := cmd.Flags().Set(name, value); err != nil {
				return errors.Wrapf(err, "apply flag %s", name)
			}
		}
	}
	if err := a.cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	a.logger = newLogger(a.stderr, a.cfg.LogLevel)
	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector())
	return nil
}

// newAdapter 先建默认引擎，第一次 Push 之前再配置窗口大小
func (a *app) newAdapter() (*moving_median.MedianEngine, *stream.Adapter, error) {
	engine := moving_median.NewDefaultMedianEngine()
	if err := engine.ConfigureWindow(int(a.cfg.Window)); err != nil {
		return nil, nil, err
	}
	return engine, stream.New(engine, a.cfg.Stream, a.logger, a.registry), nil
}

func newLogger(w io.Writer, lvl string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	var opt level.Option
	switch lvl {
	case config.LogLevelDebug:
		opt = level.AllowDebug()
	case config.LogLevelWarn:
		opt = level.AllowWarn()
	case config.LogLevelError:
		opt = level.AllowError()
	default:
		opt = level.AllowInfo()
	}
	return level.NewFilter(logger, opt)
}

// runPipeline 串起 source -> adapter -> sink，第一个错误取消其余阶段。
// sink 不拿 ctx：adapter 返回时会关闭 medians，sink 写完已有的中位数再退出。
func runPipeline(
	ctx context.Context,
	source func(context.Context, chan<- float64) error,
	adapter *stream.Adapter,
	sink func(<-chan float64) error,
) error {
	g, gctx := errgroup.WithContext(ctx)

	samples := make(chan float64, pipelineBuffer)
	medians := make(chan float64, pipelineBuffer)

	g.Go(func() error { return source(gctx, samples) })
	g.Go(func() error { return adapter.Run(gctx, samples, medians) })
	g.Go(func() error { return sink(medians) })

	return g.Wait()
}

// serveMetrics 在 addr 上暴露 /metrics，直到调用返回的 stop
func serveMetrics(addr string, reg *prometheus.Registry, logger log.Logger) (stop func(), err error) {
	if addr == "" {
		return func() {}, nil
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "listen for metrics")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			level.Error(logger).Log("msg", "metrics server failed", "err", err)
		}
	}()
	level.Info(logger).Log("msg", "serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		<-done
	}, nil
}
