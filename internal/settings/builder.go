package settings

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/eugenenazirov/fautil/internal/document"
	"github.com/eugenenazirov/fautil/internal/envname"
	"github.com/eugenenazirov/fautil/internal/layer"
	"github.com/eugenenazirov/fautil/internal/merge"
	"github.com/eugenenazirov/fautil/internal/pathresolve"
	"github.com/eugenenazirov/fautil/internal/schema"
)

// Request carries the optional explicit locations for one resolution.
type Request struct {
	// ConfigPath is a config file, or a directory holding config.yaml or
	// config.json. Empty means search the default locations.
	ConfigPath string
	// EnvFile is a .env file or a directory holding one.
	EnvFile string
}

// Builder resolves schemas against the filesystem and environment.
type Builder struct {
	fs       afero.Fs
	resolver *pathresolve.Resolver
	environ  func() []string
	prefix   string
	logger   *zap.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithFs sets the filesystem used to locate and read files.
func WithFs(fs afero.Fs) Option {
	return func(b *Builder) {
		b.fs = fs
	}
}

// WithResolver replaces the default path resolver.
func WithResolver(r *pathresolve.Resolver) Option {
	return func(b *Builder) {
		b.resolver = r
	}
}

// WithEnviron replaces os.Environ as the source of process variables.
func WithEnviron(environ func() []string) Option {
	return func(b *Builder) {
		b.environ = environ
	}
}

// WithEnvPrefix overrides envname.DefaultPrefix.
func WithEnvPrefix(prefix string) Option {
	return func(b *Builder) {
		b.prefix = prefix
	}
}

// WithLogger enables resolution logging.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates a Builder reading the OS filesystem and environment
// unless overridden.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		fs:      afero.NewOsFs(),
		environ: os.Environ,
		prefix:  envname.DefaultPrefix,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.resolver == nil {
		b.resolver = pathresolve.New(b.fs)
	}
	return b
}

// Resolved is the outcome of one resolution.
type Resolved struct {
	// Values holds the coerced settings tree. Absent optional sections are
	// left out.
	Values layer.Layer
	// Sources maps dotted leaf paths to the layer that supplied them.
	Sources merge.Sources
	// ConfigFile and EnvFile are the files that were read, if any.
	ConfigFile string
	EnvFile    string
}

// Build resolves s. File-level failures (explicit path missing, unsupported
// format, parse errors) are returned as soon as they occur; field-level
// failures are collected into a *ValidationError.
func (b *Builder) Build(s *schema.Schema, req Request) (*Resolved, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	loader := document.NewLoader(b.fs)

	configPath, err := b.resolver.Locate(pathresolve.ConfigNames, req.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("locate config file: %w", err)
	}
	fileLayer, err := loader.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config file: %w", err)
	}
	if configPath != "" {
		b.logger.Info("loaded config file", zap.String("path", configPath))
	} else {
		b.logger.Debug("no config file found, using defaults and environment")
	}

	envPath, err := b.resolver.Locate([]string{pathresolve.Dotenv}, req.EnvFile)
	if err != nil {
		return nil, fmt.Errorf("locate env file: %w", err)
	}
	dotenvVars, err := loader.LoadDotenv(envPath)
	if err != nil {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	if envPath != "" {
		b.logger.Info("loaded env file", zap.String("path", envPath))
	}

	mapper := envname.New(s, envname.WithPrefix(b.prefix))
	dotenvLayer, dotenvMatches := mapper.Layer(dotenvVars)
	envLayer, envMatches := mapper.Layer(envname.ParseEnviron(b.environ()))
	b.logger.Debug("mapped variables",
		zap.Int("dotenv", len(dotenvMatches)),
		zap.Int("env", len(envMatches)),
	)

	merged, sources := merge.Tracked(
		layer.Named{Source: layer.SourceDefault, Layer: s.Defaults()},
		layer.Named{Source: layer.SourceFile, Layer: fileLayer},
		layer.Named{Source: layer.SourceDotenv, Layer: dotenvLayer},
		layer.Named{Source: layer.SourceEnv, Layer: envLayer},
	)

	values, err := decodeTree(s, merged, sources)
	if err != nil {
		return nil, err
	}

	return &Resolved{
		Values:     values,
		Sources:    sources,
		ConfigFile: configPath,
		EnvFile:    envPath,
	}, nil
}

// Load builds s and decodes the result into a new T.
func Load[T any](b *Builder, s *schema.Schema, req Request) (*T, *Resolved, error) {
	resolved, err := b.Build(s, req)
	if err != nil {
		return nil, nil, err
	}
	var out T
	if err := resolved.Decode(&out); err != nil {
		return nil, nil, err
	}
	return &out, resolved, nil
}
