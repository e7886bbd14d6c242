package config

import (
	"github.com/eugenenazirov/fautil/internal/schema"
	"github.com/eugenenazirov/fautil/internal/settings"
)

const (
	defaultTitle     = "FastAPI Application"
	defaultHost      = "0.0.0.0"
	defaultPort      = 8000
	defaultLogLevel  = "INFO"
	defaultLogFormat = "{time:YYYY-MM-DD HH:mm:ss.SSS} | {level: <8} | {name}:{function}:{line} - {message}"
)

// Settings aggregates runtime configuration resolved from multiple sources.
// Optional sections are nil unless some source configures them.
type Settings struct {
	App   AppConfig    `mapstructure:"app" json:"app" yaml:"app"`
	DB    *DBConfig    `mapstructure:"db" json:"db,omitempty" yaml:"db,omitempty"`
	Redis *RedisConfig `mapstructure:"redis" json:"redis,omitempty" yaml:"redis,omitempty"`
	Kafka *KafkaConfig `mapstructure:"kafka" json:"kafka,omitempty" yaml:"kafka,omitempty"`
	Minio *MinioConfig `mapstructure:"minio" json:"minio,omitempty" yaml:"minio,omitempty"`
	Log   LogConfig    `mapstructure:"log" json:"log" yaml:"log"`
}

// IsDebug reports whether the application runs in debug mode.
func (s *Settings) IsDebug() bool {
	return s.App.Debug
}

// AppConfig holds HTTP, CORS and JWT settings of the application.
type AppConfig struct {
	Title                string   `mapstructure:"title" json:"title" yaml:"title"`
	Description          string   `mapstructure:"description" json:"description" yaml:"description"`
	Version              string   `mapstructure:"version" json:"version" yaml:"version"`
	Debug                bool     `mapstructure:"debug" json:"debug" yaml:"debug"`
	Host                 string   `mapstructure:"host" json:"host" yaml:"host"`
	Port                 int      `mapstructure:"port" json:"port" yaml:"port"`
	CorsOrigins          []string `mapstructure:"cors_origins" json:"cors_origins" yaml:"cors_origins"`
	CorsAllowCredentials bool     `mapstructure:"cors_allow_credentials" json:"cors_allow_credentials" yaml:"cors_allow_credentials"`
	CorsAllowMethods     []string `mapstructure:"cors_allow_methods" json:"cors_allow_methods" yaml:"cors_allow_methods"`
	CorsAllowHeaders     []string `mapstructure:"cors_allow_headers" json:"cors_allow_headers" yaml:"cors_allow_headers"`
	JWTSecret            string   `mapstructure:"jwt_secret" json:"jwt_secret" yaml:"jwt_secret"`
	JWTAlgorithm         string   `mapstructure:"jwt_algorithm" json:"jwt_algorithm" yaml:"jwt_algorithm"`
	JWTExpiresSeconds    int      `mapstructure:"jwt_expires_seconds" json:"jwt_expires_seconds" yaml:"jwt_expires_seconds"`
	LogLevel             string   `mapstructure:"log_level" json:"log_level" yaml:"log_level"`
}

// DBConfig holds the database connection pool settings.
type DBConfig struct {
	URL         string `mapstructure:"url" json:"url" yaml:"url"`
	Echo        bool   `mapstructure:"echo" json:"echo" yaml:"echo"`
	PoolSize    int    `mapstructure:"pool_size" json:"pool_size" yaml:"pool_size"`
	MaxOverflow int    `mapstructure:"max_overflow" json:"max_overflow" yaml:"max_overflow"`
	PoolRecycle int    `mapstructure:"pool_recycle" json:"pool_recycle" yaml:"pool_recycle"`
	PoolPrePing bool   `mapstructure:"pool_pre_ping" json:"pool_pre_ping" yaml:"pool_pre_ping"`
	TablePrefix string `mapstructure:"table_prefix" json:"table_prefix" yaml:"table_prefix"`
}

// RedisConfig holds the Redis client settings.
type RedisConfig struct {
	URL                  string `mapstructure:"url" json:"url" yaml:"url"`
	Password             string `mapstructure:"password" json:"password" yaml:"password"`
	DB                   int    `mapstructure:"db" json:"db" yaml:"db"`
	Encoding             string `mapstructure:"encoding" json:"encoding" yaml:"encoding"`
	SocketTimeout        int    `mapstructure:"socket_timeout" json:"socket_timeout" yaml:"socket_timeout"`
	SocketConnectTimeout int    `mapstructure:"socket_connect_timeout" json:"socket_connect_timeout" yaml:"socket_connect_timeout"`
	RetryOnTimeout       bool   `mapstructure:"retry_on_timeout" json:"retry_on_timeout" yaml:"retry_on_timeout"`
	MaxConnections       int    `mapstructure:"max_connections" json:"max_connections" yaml:"max_connections"`
}

// KafkaConfig holds the Kafka consumer settings.
type KafkaConfig struct {
	BootstrapServers    string `mapstructure:"bootstrap_servers" json:"bootstrap_servers" yaml:"bootstrap_servers"`
	ClientID            string `mapstructure:"client_id" json:"client_id" yaml:"client_id"`
	GroupID             string `mapstructure:"group_id" json:"group_id" yaml:"group_id"`
	AutoOffsetReset     string `mapstructure:"auto_offset_reset" json:"auto_offset_reset" yaml:"auto_offset_reset"`
	EnableAutoCommit    bool   `mapstructure:"enable_auto_commit" json:"enable_auto_commit" yaml:"enable_auto_commit"`
	MaxPollRecords      int    `mapstructure:"max_poll_records" json:"max_poll_records" yaml:"max_poll_records"`
	SessionTimeoutMs    int    `mapstructure:"session_timeout_ms" json:"session_timeout_ms" yaml:"session_timeout_ms"`
	HeartbeatIntervalMs int    `mapstructure:"heartbeat_interval_ms" json:"heartbeat_interval_ms" yaml:"heartbeat_interval_ms"`
	ConsumerTimeoutMs   int    `mapstructure:"consumer_timeout_ms" json:"consumer_timeout_ms" yaml:"consumer_timeout_ms"`
	APIVersion          string `mapstructure:"api_version" json:"api_version" yaml:"api_version"`
}

// MinioConfig holds the object storage settings.
type MinioConfig struct {
	Endpoint      string `mapstructure:"endpoint" json:"endpoint" yaml:"endpoint"`
	AccessKey     string `mapstructure:"access_key" json:"access_key" yaml:"access_key"`
	SecretKey     string `mapstructure:"secret_key" json:"secret_key" yaml:"secret_key"`
	Secure        bool   `mapstructure:"secure" json:"secure" yaml:"secure"`
	Region        string `mapstructure:"region" json:"region" yaml:"region"`
	DefaultBucket string `mapstructure:"default_bucket" json:"default_bucket" yaml:"default_bucket"`
}

// EndpointURL returns the endpoint with an http or https scheme.
func (m *MinioConfig) EndpointURL() string {
	scheme := "https"
	if !m.Secure {
		scheme = "http"
	}
	return scheme + "://" + m.Endpoint
}

// LogConfig controls log level, format and output.
type LogConfig struct {
	Level       string `mapstructure:"level" json:"level" yaml:"level"`
	Format      string `mapstructure:"format" json:"format" yaml:"format"`
	FilePath    string `mapstructure:"file_path" json:"file_path" yaml:"file_path"`
	Rotation    string `mapstructure:"rotation" json:"rotation" yaml:"rotation"`
	Retention   string `mapstructure:"retention" json:"retention" yaml:"retention"`
	Compression string `mapstructure:"compression" json:"compression" yaml:"compression"`
	Serialize   bool   `mapstructure:"serialize" json:"serialize" yaml:"serialize"`
}

// Schema describes Settings for the resolver. Field names and defaults must
// stay in sync with the struct tags above; Load fails otherwise.
func Schema() *schema.Schema {
	return schema.New(
		schema.Object("app",
			schema.String("title", defaultTitle),
			schema.String("description", defaultTitle),
			schema.String("version", "0.1.0"),
			schema.Bool("debug", false),
			schema.String("host", defaultHost),
			schema.Int("port", defaultPort),
			schema.List("cors_origins", "*"),
			schema.Bool("cors_allow_credentials", true),
			schema.List("cors_allow_methods", "*"),
			schema.List("cors_allow_headers", "*"),
			schema.String("jwt_secret", "your-jwt-secret").MarkSecret(),
			schema.String("jwt_algorithm", "HS256"),
			schema.Int("jwt_expires_seconds", 3600),
			schema.String("log_level", defaultLogLevel),
		),
		schema.Object("db",
			schema.String("url", "").Require().MarkSecret(),
			schema.Bool("echo", false),
			schema.Int("pool_size", 5),
			schema.Int("max_overflow", 10),
			schema.Int("pool_recycle", 3600),
			schema.Bool("pool_pre_ping", true),
			schema.String("table_prefix", ""),
		).MarkOptional(),
		schema.Object("redis",
			schema.String("url", "").Require().MarkSecret(),
			schema.String("password", "").MarkSecret(),
			schema.Int("db", 0),
			schema.String("encoding", "utf-8"),
			schema.Int("socket_timeout", 5),
			schema.Int("socket_connect_timeout", 5),
			schema.Bool("retry_on_timeout", true),
			schema.Int("max_connections", 10),
		).MarkOptional(),
		schema.Object("kafka",
			schema.String("bootstrap_servers", "").Require(),
			schema.String("client_id", ""),
			schema.String("group_id", "").Require(),
			schema.String("auto_offset_reset", "earliest"),
			schema.Bool("enable_auto_commit", true),
			schema.Int("max_poll_records", 500),
			schema.Int("session_timeout_ms", 30000),
			schema.Int("heartbeat_interval_ms", 10000),
			schema.Int("consumer_timeout_ms", 1000),
			schema.String("api_version", ""),
		).MarkOptional(),
		schema.Object("minio",
			schema.String("endpoint", "").Require(),
			schema.String("access_key", "").Require().MarkSecret(),
			schema.String("secret_key", "").Require().MarkSecret(),
			schema.Bool("secure", true),
			schema.String("region", ""),
			schema.String("default_bucket", "default"),
		).MarkOptional(),
		schema.Object("log",
			schema.String("level", defaultLogLevel),
			schema.String("format", defaultLogFormat),
			schema.String("file_path", ""),
			schema.String("rotation", "20 MB"),
			schema.String("retention", "1 week"),
			schema.String("compression", "zip"),
			schema.Bool("serialize", false),
		),
	)
}

// Overrides holds command-line provided locations.
type Overrides struct {
	ConfigFile string
	EnvFile    string
}

// Load resolves Settings with precedence:
// Environment variables > .env file > config file > Defaults.
func Load(overrides *Overrides, opts ...settings.Option) (*Settings, *settings.Resolved, error) {
	var req settings.Request
	if overrides != nil {
		req = settings.Request{ConfigPath: overrides.ConfigFile, EnvFile: overrides.EnvFile}
	}
	return settings.Load[Settings](settings.NewBuilder(opts...), Schema(), req)
}
