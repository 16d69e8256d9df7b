package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/scenesync/internal/config"
	"github.com/vango-dev/scenesync/internal/errors"
	"github.com/vango-dev/scenesync/pkg/capture"
	"github.com/vango-dev/scenesync/pkg/engine"
	"github.com/vango-dev/scenesync/pkg/metrics"
	"github.com/vango-dev/scenesync/pkg/server"
	"github.com/vango-dev/scenesync/pkg/transport"
)

type serveOptions struct {
	configPath string
	port       int
	host       string
	app        string
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a demo app to native hosts",
		Long: `Start the WebSocket endpoint native hosts connect to.

Each connection gets its own engine running the selected demo app.
Settings come from scenesync.json (searched from the working directory
upwards) unless --config names a file.

Apps:
  counter    declarative counter rendered through vdom
  document   the same counter built with the dom API

Examples:
  scenesync serve
  scenesync serve --port=9000 --app=document
  scenesync serve --config=./deploy/scenesync.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to scenesync.json")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "Port to listen on (default from scenesync.json)")
	cmd.Flags().StringVarP(&opts.host, "host", "H", "", "Host to bind to (default from scenesync.json)")
	cmd.Flags().StringVarP(&opts.app, "app", "a", "counter", "Demo app: counter or document")

	return cmd
}

func runServe(opts serveOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.port > 0 {
		cfg.Server.Port = opts.port
	}
	if opts.host != "" {
		cfg.Server.Host = opts.host
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	sheet, err := config.LoadStylesheet(cfg.StylesheetPath())
	if err != nil {
		return err
	}
	handler, err := demoApp(opts.app, sheet)
	if err != nil {
		return err
	}
	newCapture, err := captureFactory(cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(metrics.WithRegistry(reg))

	srvCfg := server.DefaultConfig()
	srvCfg.Address = cfg.Address()
	srvCfg.Path = cfg.Server.Path
	srvCfg.MetricsPath = ""
	if cfg.MetricsEnabled() {
		srvCfg.MetricsPath = cfg.Server.MetricsPath
	}
	srvCfg.Session = &transport.Config{
		MaxFramePayload: cfg.Transport.MaxFramePayload,
		MaxCommands:     cfg.Transport.MaxCommands,
		WriteTimeout:    cfg.WriteTimeout(),
	}
	srvCfg.Engine = []engine.Option{
		engine.WithUnbindMode(cfg.UnbindMode()),
		engine.WithStyleMemo(cfg.StyleMemo()),
	}
	srvCfg.NewCapture = newCapture

	srv := server.New(srvCfg, handler, server.WithLogger(logger), server.WithMetrics(m, reg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printBanner()
	info("app:      %s", opts.app)
	info("scene:    ws://%s%s", cfg.Address(), cfg.Server.Path)
	if srvCfg.MetricsPath != "" {
		info("metrics:  http://%s%s", cfg.Address(), srvCfg.MetricsPath)
	}
	if cfg.Capture.Dir != "" || cfg.Capture.Bucket != "" {
		info("capture:  %s", captureTarget(cfg))
	}
	info("")

	if err := srv.Run(ctx); err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return errors.New("E122").
				WithDetail("Port " + cfg.Address() + " is already in use").
				WithSuggestion("Pick another port with --port").
				Wrap(err)
		}
		return errors.New("E120").Wrap(err)
	}
	success("Server stopped")
	return nil
}

// loadConfig reads the named file, or searches from the working directory
// when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromWorkingDir()
	}
	return config.LoadFile(path)
}

// newLogger builds the process logger from the log section.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, errors.New("E104").Wrap(err)
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.Log.JSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, handlerOpts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, handlerOpts)), nil
}

// captureFactory returns the per-session sink constructor for the capture
// section, or nil when capture is off.
func captureFactory(cfg *config.Config) (func(sessionID string) (capture.Sink, error), error) {
	switch {
	case cfg.Capture.Dir != "":
		dir := cfg.CaptureDir()
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.New("E107").WithDetail("Cannot create " + dir).Wrap(err)
		}
		return func(id string) (capture.Sink, error) {
			return capture.CreateFile(dir, id)
		}, nil

	case cfg.Capture.Bucket != "":
		client, err := capture.NewS3Client(context.Background(), cfg.Capture.Region)
		if err != nil {
			return nil, errors.New("E107").WithDetail("Cannot configure S3 capture").Wrap(err)
		}
		bucket, prefix := cfg.Capture.Bucket, cfg.Capture.Prefix
		return func(id string) (capture.Sink, error) {
			return capture.NewS3Sink(client, bucket, prefix, id), nil
		}, nil
	}
	return nil, nil
}

func captureTarget(cfg *config.Config) string {
	if cfg.Capture.Dir != "" {
		return cfg.CaptureDir()
	}
	return "s3://" + cfg.Capture.Bucket + "/" + cfg.Capture.Prefix
}
