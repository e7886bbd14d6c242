package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/fautil/internal/application"
	"github.com/eugenenazirov/fautil/internal/config"
	"github.com/eugenenazirov/fautil/internal/envname"
	"github.com/eugenenazirov/fautil/internal/layer"
	"github.com/eugenenazirov/fautil/internal/logging"
	"github.com/eugenenazirov/fautil/internal/settings"
)

var signalNotify = signal.Notify

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "fautil: %v\n", err)
		os.Exit(1)
	}
}

type cli struct {
	configFile string
	envFile    string
	envPrefix  string
	verbose    bool

	format      string
	withSources bool
	showSecrets bool

	shutdownTimeout time.Duration
}

// run parses args and executes the selected command. Extra settings options
// replace the process filesystem and environment in tests.
func run(args []string, stdout io.Writer, opts ...settings.Option) error {
	var c cli

	app := kingpin.New("fautil", "Layered settings resolver: defaults < config file < .env < environment")
	app.UsageWriter(stdout)
	app.Terminate(nil)
	app.Flag("config", "Config file or directory containing config.yaml / config.json").Short('c').StringVar(&c.configFile)
	app.Flag("env-file", "Path to the .env file").StringVar(&c.envFile)
	app.Flag("env-prefix", "Environment variable prefix").Default(envname.DefaultPrefix).StringVar(&c.envPrefix)
	app.Flag("verbose", "Log resolution steps to stderr").Short('v').BoolVar(&c.verbose)

	show := app.Command("show", "Print the resolved settings").Default()
	show.Flag("format", "Output format").Default("yaml").EnumVar(&c.format, "yaml", "json")
	show.Flag("sources", "List every key with the source that supplied it").BoolVar(&c.withSources)
	show.Flag("show-secrets", "Print secret values instead of masking them").BoolVar(&c.showSecrets)

	env := app.Command("env", "List the environment variable names recognised for every key")
	check := app.Command("check", "Resolve the settings and report the files that were used")

	serve := app.Command("serve", "Serve the resolved settings over HTTP")
	serve.Flag("shutdown-timeout", "Grace period for in-flight requests on shutdown").Default("10s").DurationVar(&c.shutdownTimeout)

	command, err := app.Parse(args)
	if err != nil {
		return err
	}

	switch command {
	case env.FullCommand():
		return c.listEnv(stdout)
	case check.FullCommand():
		return c.check(stdout, opts)
	case serve.FullCommand():
		return c.serve(opts)
	case show.FullCommand():
		return c.show(stdout, opts)
	}
	return nil
}

func (c *cli) load(opts []settings.Option) (*config.Settings, *settings.Resolved, error) {
	all := []settings.Option{settings.WithEnvPrefix(c.envPrefix)}
	if c.verbose {
		logger, err := logging.New(config.LogConfig{Level: "DEBUG"})
		if err != nil {
			return nil, nil, err
		}
		all = append(all, settings.WithLogger(logger))
	}
	all = append(all, opts...)

	cfg, resolved, err := config.Load(&config.Overrides{ConfigFile: c.configFile, EnvFile: c.envFile}, all...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, resolved, nil
}

func (c *cli) show(stdout io.Writer, opts []settings.Option) error {
	_, resolved, err := c.load(opts)
	if err != nil {
		return err
	}

	s := config.Schema()
	var payload any
	switch {
	case c.withSources:
		payload = resolved.Entries(s, !c.showSecrets)
	case c.showSecrets:
		payload = resolved.Values
	default:
		payload = resolved.Masked(s)
	}
	return encode(stdout, c.format, payload)
}

func (c *cli) listEnv(stdout io.Writer) error {
	s := config.Schema()
	mapper := envname.New(s, envname.WithPrefix(c.envPrefix))

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tKIND\tVARIABLES")
	for _, leaf := range s.Leaves() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", layer.JoinPath(leaf.Path), leaf.Field.Kind, strings.Join(mapper.Names(leaf.Path), " "))
	}
	return w.Flush()
}

func (c *cli) check(stdout io.Writer, opts []settings.Option) error {
	_, resolved, err := c.load(opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "config file: %s\n", orNone(resolved.ConfigFile))
	fmt.Fprintf(stdout, "env file:    %s\n", orNone(resolved.EnvFile))
	fmt.Fprintln(stdout, "settings ok")
	return nil
}

func (c *cli) serve(opts []settings.Option) error {
	cfg, resolved, err := c.load(opts)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, resolved, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	if err := app.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	shutdown(app.Server(), c.shutdownTimeout, logger)
	return nil
}

func encode(w io.Writer, format string, payload any) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(payload); err != nil {
		return err
	}
	return enc.Close()
}

func orNone(path string) string {
	if path == "" {
		return "(none)"
	}
	return path
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
