package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/scenesync/internal/errors"
	"github.com/vango-dev/scenesync/pkg/events"
	"github.com/vango-dev/scenesync/pkg/protocol"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "scenesync.json"

	// DefaultPort is the default server port.
	DefaultPort = 7420

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultScenePath is the websocket endpoint native hosts connect to.
	DefaultScenePath = "/scene"

	// DefaultMetricsPath is the Prometheus scrape endpoint.
	DefaultMetricsPath = "/metrics"

	// DefaultWriteTimeout bounds a single frame write.
	DefaultWriteTimeout = "5s"

	// DefaultCapturePrefix is the object key prefix for S3 captures.
	DefaultCapturePrefix = "captures/"
)

// Config represents the complete scenesync.json configuration.
type Config struct {
	// Server contains the HTTP server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Engine contains engine behavior switches.
	Engine EngineConfig `json:"engine,omitempty"`

	// Transport contains frame limits for native sessions.
	Transport TransportConfig `json:"transport,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// Capture configures recording of outgoing frames.
	Capture CaptureConfig `json:"capture,omitempty"`

	// Stylesheet is the path to a YAML default stylesheet, merged over the
	// built-in one.
	Stylesheet string `json:"stylesheet,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// Path is the websocket endpoint for native hosts.
	Path string `json:"path,omitempty"`

	// MetricsPath is the Prometheus endpoint. "-" disables it.
	MetricsPath string `json:"metricsPath,omitempty"`
}

// EngineConfig contains engine settings.
type EngineConfig struct {
	// UnbindMode is "explicit" (default) or "noop".
	UnbindMode string `json:"unbindMode,omitempty"`

	// StyleMemo enables memoized style compilation (default true).
	StyleMemo *bool `json:"styleMemo,omitempty"`
}

// TransportConfig contains session frame settings.
type TransportConfig struct {
	// MaxFramePayload is the largest payload per frame in bytes.
	MaxFramePayload int `json:"maxFramePayload,omitempty"`

	// MaxCommands caps the commands per frame; 0 means no cap.
	MaxCommands int `json:"maxCommands,omitempty"`

	// WriteTimeout bounds a single frame write (e.g., "5s").
	WriteTimeout string `json:"writeTimeout,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// JSON switches the handler from text to JSON output.
	JSON bool `json:"json,omitempty"`
}

// CaptureConfig configures frame capture. At most one of Dir and Bucket
// may be set.
type CaptureConfig struct {
	// Dir is a local directory; one file per session.
	Dir string `json:"dir,omitempty"`

	// Bucket is an S3 bucket; one object per session.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to S3 object keys.
	Prefix string `json:"prefix,omitempty"`

	// Region overrides the AWS region.
	Region string `json:"region,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	memo := true
	return &Config{
		Server: ServerConfig{
			Host:        DefaultHost,
			Port:        DefaultPort,
			Path:        DefaultScenePath,
			MetricsPath: DefaultMetricsPath,
		},
		Engine: EngineConfig{
			UnbindMode: events.UnbindExplicit.String(),
			StyleMemo:  &memo,
		},
		Transport: TransportConfig{
			MaxFramePayload: protocol.MaxPayloadSize,
			WriteTimeout:    DefaultWriteTimeout,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for scenesync.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No scenesync.json found in " + filepath.Dir(path)).
				WithSuggestion("Run 'scenesync init' or create scenesync.json manually")
		}
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E101").
			WithDetail("Failed to parse scenesync.json: " + err.Error()).
			WithSuggestion("Check that scenesync.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E101").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E101").Wrap(err)
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
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Path == "" {
		c.Server.Path = DefaultScenePath
	}
	if c.Server.MetricsPath == "" {
		c.Server.MetricsPath = DefaultMetricsPath
	}

	if c.Engine.UnbindMode == "" {
		c.Engine.UnbindMode = events.UnbindExplicit.String()
	}
	if c.Engine.StyleMemo == nil {
		memo := true
		c.Engine.StyleMemo = &memo
	}

	if c.Transport.MaxFramePayload == 0 {
		c.Transport.MaxFramePayload = protocol.MaxPayloadSize
	}
	if c.Transport.WriteTimeout == "" {
		c.Transport.WriteTimeout = DefaultWriteTimeout
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Capture.Bucket != "" && c.Capture.Prefix == "" {
		c.Capture.Prefix = DefaultCapturePrefix
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New("E102").
			WithDetail("Port must be between 1 and 65535, got " + strconv.Itoa(c.Server.Port))
	}
	if _, ok := events.ParseUnbindMode(c.Engine.UnbindMode); !ok {
		return errors.New("E103").
			WithDetail("engine.unbindMode must be \"explicit\" or \"noop\", got " + strconv.Quote(c.Engine.UnbindMode))
	}
	if _, err := c.LogLevel(); err != nil {
		return errors.New("E104").Wrap(err)
	}
	if c.Transport.MaxFramePayload < 64 || c.Transport.MaxFramePayload > protocol.MaxPayloadSize ||
		c.Transport.MaxCommands < 0 {
		return errors.New("E106")
	}
	if _, err := time.ParseDuration(c.Transport.WriteTimeout); err != nil {
		return errors.New("E106").
			WithDetail("transport.writeTimeout is not a duration: " + c.Transport.WriteTimeout).
			Wrap(err)
	}
	if c.Capture.Dir != "" && c.Capture.Bucket != "" {
		return errors.New("E107").
			WithSuggestion("Remove either capture.dir or capture.bucket")
	}
	return nil
}

// Address returns the host:port address for the server.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// UnbindMode returns the parsed engine unbind mode. Invalid values fall back
// to explicit unbinding; Validate reports them.
func (c *Config) UnbindMode() events.UnbindMode {
	mode, _ := events.ParseUnbindMode(c.Engine.UnbindMode)
	return mode
}

// StyleMemo reports whether memoized style compilation is enabled.
func (c *Config) StyleMemo() bool {
	return c.Engine.StyleMemo == nil || *c.Engine.StyleMemo
}

// WriteTimeout returns the parsed transport write timeout.
func (c *Config) WriteTimeout() time.Duration {
	d, err := time.ParseDuration(c.Transport.WriteTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// LogLevel returns the slog level for Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(strings.ToUpper(c.Log.Level)))
	return level, err
}

// MetricsEnabled reports whether the metrics endpoint is served.
func (c *Config) MetricsEnabled() bool {
	return c.Server.MetricsPath != "-"
}

// StylesheetPath returns the absolute path to the stylesheet, or "".
func (c *Config) StylesheetPath() string {
	return c.resolve(c.Stylesheet)
}

// CaptureDir returns the absolute path to the capture directory, or "".
func (c *Config) CaptureDir() string {
	return c.resolve(c.Capture.Dir)
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the directory containing
// scenesync.json.
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
			return "", errors.New("E100").
				WithDetail("No scenesync.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or one of its parents. Without a config file it returns the defaults.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := FindProjectRoot(wd)
	if err != nil {
		return New(), nil
	}
	return Load(root)
}
