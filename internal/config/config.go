package config

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jml-dev/jml/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "jml.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultPagesDir is the default page source directory.
	DefaultPagesDir = "pages"

	// DefaultOutput is the default build output directory.
	DefaultOutput = "dist"

	// DefaultWatchInterval is the default dev polling interval.
	DefaultWatchInterval = "500ms"
)

// Config represents the complete jml.json configuration.
type Config struct {
	// Name is the site name.
	Name string `json:"name,omitempty"`

	// Server contains page server configuration.
	Server ServerConfig `json:"server"`

	// Pages contains the page source configuration.
	Pages PagesConfig `json:"pages"`

	// Build contains static build configuration.
	Build BuildConfig `json:"build"`

	// Dev contains development mode configuration.
	Dev DevConfig `json:"dev"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains page server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// Pretty enables indented HTML output.
	Pretty bool `json:"pretty,omitempty"`

	// Lang is the default document language.
	Lang string `json:"lang,omitempty"`

	// Static is a directory served under /static/.
	Static string `json:"static,omitempty"`

	// Metrics enables the /metrics endpoint.
	Metrics *bool `json:"metrics,omitempty"`
}

// PagesConfig locates page descriptions. Bucket takes precedence over Dir.
type PagesConfig struct {
	// Dir is the page source directory.
	Dir string `json:"dir,omitempty"`

	// Bucket is an S3 bucket holding page files.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is the key prefix inside Bucket.
	Prefix string `json:"prefix,omitempty"`

	// Region is the bucket region.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint (e.g., a local MinIO).
	Endpoint string `json:"endpoint,omitempty"`

	// Anonymous reads a public bucket without credentials.
	Anonymous bool `json:"anonymous,omitempty"`
}

// BuildConfig contains static build settings.
type BuildConfig struct {
	// Output is the output directory for builds.
	Output string `json:"output,omitempty"`

	// Pretty enables indented HTML output.
	Pretty bool `json:"pretty,omitempty"`
}

// DevConfig contains development mode settings.
type DevConfig struct {
	// Watch contains paths to poll for changes.
	Watch []string `json:"watch,omitempty"`

	// Interval is the polling interval (e.g., "500ms").
	Interval string `json:"interval,omitempty"`

	// Reload injects the live reload client into served pages.
	Reload *bool `json:"reload,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from the specified directory.
// It looks for jml.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No jml.json found in " + filepath.Dir(path)).
				WithSuggestion("Create jml.json at the project root")
		}
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		je := errors.New("E101").
			WithSuggestion("Check that jml.json is valid JSON").
			Wrap(err)
		if se, ok := err.(*json.SyntaxError); ok {
			line, col := position(data, se.Offset)
			je.WithLocation(path, line, col)
		}
		return nil, je
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	line, col = 1, 1
	for i := int64(0); i < offset-1 && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
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

	if err := os.WriteFile(path, data, 0o644); err != nil {
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
	if c.Server.Lang == "" {
		c.Server.Lang = "en"
	}
	if c.Server.Metrics == nil {
		c.Server.Metrics = boolPtr(true)
	}
	if c.Pages.Dir == "" && c.Pages.Bucket == "" {
		c.Pages.Dir = DefaultPagesDir
	}
	if c.Build.Output == "" {
		c.Build.Output = DefaultOutput
	}
	if c.Dev.Watch == nil {
		if c.Pages.Dir != "" {
			c.Dev.Watch = []string{c.Pages.Dir}
		} else {
			c.Dev.Watch = []string{}
		}
	}
	if c.Dev.Interval == "" {
		c.Dev.Interval = DefaultWatchInterval
	}
	if c.Dev.Reload == nil {
		c.Dev.Reload = boolPtr(true)
	}
}

func boolPtr(b bool) *bool { return &b }

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New("E102").
			WithDetail("Port " + strconv.Itoa(c.Server.Port) + " is outside 1-65535")
	}
	if c.Pages.Dir == "" && c.Pages.Bucket == "" {
		return errors.New("E103")
	}
	if d, err := time.ParseDuration(c.Dev.Interval); err != nil || d <= 0 {
		return errors.New("E104").
			WithDetail("Got " + strconv.Quote(c.Dev.Interval))
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// URL returns the base URL of the server.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// MetricsEnabled reports whether /metrics is served.
func (c *Config) MetricsEnabled() bool {
	return c.Server.Metrics == nil || *c.Server.Metrics
}

// ReloadEnabled reports whether dev mode injects the reload client.
func (c *Config) ReloadEnabled() bool {
	return c.Dev.Reload == nil || *c.Dev.Reload
}

// WatchInterval returns the parsed polling interval.
func (c *Config) WatchInterval() time.Duration {
	d, err := time.ParseDuration(c.Dev.Interval)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultWatchInterval)
	}
	return d
}

// UsesBucket reports whether pages come from S3.
func (c *Config) UsesBucket() bool {
	return c.Pages.Bucket != ""
}

// PagesPath returns the absolute path to the page directory.
func (c *Config) PagesPath() string {
	return c.resolve(c.Pages.Dir)
}

// OutputPath returns the absolute path to the build output directory.
func (c *Config) OutputPath() string {
	return c.resolve(c.Build.Output)
}

// StaticPath returns the absolute path to the static directory, or "".
func (c *Config) StaticPath() string {
	if c.Server.Static == "" {
		return ""
	}
	return c.resolve(c.Server.Static)
}

// WatchPaths returns the absolute watch paths.
func (c *Config) WatchPaths() []string {
	out := make([]string, len(c.Dev.Watch))
	for i, p := range c.Dev.Watch {
		out[i] = c.resolve(p)
	}
	return out
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing jml.json, or an error if not found.
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
				WithDetail("No jml.json found in " + startDir + " or any parent directory")
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
