package config

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/vango-dev/vrouter/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vrouter.json"

	// EnvFileName is the environment file read next to the configuration.
	EnvFileName = ".env"

	// DefaultAddr is the default inspection server address.
	DefaultAddr = ":8080"

	// DefaultMetricsPath is where the server exposes Prometheus metrics.
	DefaultMetricsPath = "/metrics"

	// DefaultWSPath is where the server accepts remote history connections.
	DefaultWSPath = "/ws"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultMode is the default href mode.
	DefaultMode = "history"

	// DefaultCodec is the default remote history frame codec.
	DefaultCodec = "json"
)

// Config represents vrouter.json.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Routes is the route file: a path relative to vrouter.json, an
	// absolute path or an "s3://bucket/key" URI.
	Routes string `json:"routes,omitempty"`

	// Base is prepended to every URL the router writes.
	Base string `json:"base,omitempty"`

	// Mode is the href mode: "history", "hash" or "abstract".
	Mode string `json:"mode,omitempty"`

	// Serve contains inspection server settings.
	Serve ServeConfig `json:"serve,omitempty"`

	// Log contains logging settings.
	Log LogConfig `json:"log,omitempty"`

	// Telemetry contains metrics and tracing settings.
	Telemetry TelemetryConfig `json:"telemetry,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServeConfig contains inspection server settings.
type ServeConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty"`

	// WSPath is the websocket endpoint for remote history peers.
	WSPath string `json:"wsPath,omitempty"`

	// Codec is the frame codec: "json" or "msgpack".
	Codec string `json:"codec,omitempty"`

	// AllowedOrigins lists origins allowed to open websocket connections.
	// Empty allows same-origin requests only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `json:"level,omitempty"`

	// JSON switches the handler to JSON output.
	JSON bool `json:"json,omitempty"`
}

// TelemetryConfig contains metrics and tracing settings.
type TelemetryConfig struct {
	// MetricsPath is where Prometheus metrics are served. "-" disables them.
	MetricsPath string `json:"metricsPath,omitempty"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty"`

	// Tracing creates an OpenTelemetry span per navigation.
	Tracing bool `json:"tracing,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Mode: DefaultMode,
		Serve: ServeConfig{
			Addr:   DefaultAddr,
			WSPath: DefaultWSPath,
			Codec:  DefaultCodec,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		Telemetry: TelemetryConfig{
			MetricsPath: DefaultMetricsPath,
			Namespace:   "vrouter",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for vrouter.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("R041").
				WithDetail("No vrouter.json found in " + filepath.Dir(path)).
				WithSuggestion("Run 'vrouter init' or create vrouter.json manually")
		}
		return nil, errors.New("R042").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("R042").
			WithDetail("Failed to parse vrouter.json: " + err.Error()).
			WithSuggestion("Check that vrouter.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryCLI, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("R042").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("R042").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = DefaultMode
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultAddr
	}
	if c.Serve.WSPath == "" {
		c.Serve.WSPath = DefaultWSPath
	}
	if c.Serve.Codec == "" {
		c.Serve.Codec = DefaultCodec
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Telemetry.MetricsPath == "" {
		c.Telemetry.MetricsPath = DefaultMetricsPath
	}
	if c.Telemetry.Namespace == "" {
		c.Telemetry.Namespace = "vrouter"
	}
}

// Environment variables read by ApplyEnv.
const (
	EnvRoutes      = "VROUTER_ROUTES"
	EnvBase        = "VROUTER_BASE"
	EnvMode        = "VROUTER_MODE"
	EnvAddr        = "VROUTER_ADDR"
	EnvCodec       = "VROUTER_CODEC"
	EnvMetricsPath = "VROUTER_METRICS_PATH"
	EnvTracing     = "VROUTER_TRACING"
	EnvLogLevel    = "LOG_LEVEL"
)

// ApplyEnv overrides fields from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(key string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(EnvRoutes, &c.Routes)
	set(EnvBase, &c.Base)
	set(EnvMode, &c.Mode)
	set(EnvAddr, &c.Serve.Addr)
	set(EnvCodec, &c.Serve.Codec)
	set(EnvMetricsPath, &c.Telemetry.MetricsPath)
	set(EnvLogLevel, &c.Log.Level)
	if v, ok := lookup(EnvTracing); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Telemetry.Tracing = b
		}
	}
}

// LoadEnv applies the process environment, falling back to the given
// env files. Missing files are skipped; later files win over earlier ones.
// With no files, .env next to vrouter.json is read.
func (c *Config) LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{filepath.Join(c.Dir(), EnvFileName)}
	}
	vars := map[string]string{}
	for _, f := range files {
		m, err := godotenv.Read(f)
		if err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				continue
			}
			return errors.New("R042").WithDetail("Failed to read " + f).Wrap(err)
		}
		maps.Copy(vars, m)
	}
	c.ApplyEnv(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	})
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Mode {
	case "history", "hash", "abstract":
	default:
		return errors.New("R043").
			WithDetail("mode must be history, hash or abstract, got " + strconv.Quote(c.Mode))
	}
	switch c.Serve.Codec {
	case "json", "msgpack":
	default:
		return errors.New("R043").
			WithDetail("serve.codec must be json or msgpack, got " + strconv.Quote(c.Serve.Codec))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return errors.New("R043").Wrap(err)
	}
	if p := c.Telemetry.MetricsPath; p != "-" && !strings.HasPrefix(p, "/") {
		return errors.New("R043").
			WithDetail("telemetry.metricsPath must start with a slash or be \"-\"")
	}
	if !strings.HasPrefix(c.Serve.WSPath, "/") {
		return errors.New("R043").
			WithDetail("serve.wsPath must start with a slash")
	}
	return nil
}

// RoutesLocation returns the route file location with relative paths
// resolved against the config directory.
func (c *Config) RoutesLocation() string {
	if c.Routes == "" || strings.HasPrefix(c.Routes, "s3://") || filepath.IsAbs(c.Routes) {
		return c.Routes
	}
	return filepath.Join(c.Dir(), c.Routes)
}

// MetricsEnabled reports whether metrics are served.
func (c *Config) MetricsEnabled() bool {
	return c.Telemetry.MetricsPath != "-"
}

// ParseLevel parses a log level name.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(s))
	return level, err
}

// Logger builds the logger described by the config, writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.JSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing vrouter.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("R041").
				WithDetail("No vrouter.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
