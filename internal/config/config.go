package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vango-dev/reactive/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "reactive.json"

	// DefaultPort is the default inspector server port.
	DefaultPort = 6061

	// DefaultHost is the default inspector server host.
	DefaultHost = "localhost"

	// DefaultArchiveDir is the default trace archive directory.
	DefaultArchiveDir = "traces"
)

// Config represents the complete reactive.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Inspect contains inspector server configuration.
	Inspect InspectConfig `json:"inspect,omitempty"`

	// Bench contains benchmark workload configuration.
	Bench BenchConfig `json:"bench,omitempty"`

	// Archive contains trace archive configuration.
	Archive ArchiveConfig `json:"archive,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// InspectConfig contains inspector server settings.
type InspectConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to run the inspector on.
	Port int `json:"port,omitempty"`

	// EventBuffer is how many recent events the inspector retains.
	EventBuffer int `json:"eventBuffer,omitempty"`
}

// BenchConfig contains benchmark workload settings.
type BenchConfig struct {
	// Profile selects the workload shape (wide, deep, churn, mixed).
	Profile string `json:"profile,omitempty"`

	// Objects is the number of reactive records in the workload.
	Objects int `json:"objects,omitempty"`

	// Keys is the number of keys per record.
	Keys int `json:"keys,omitempty"`

	// Effects is the number of effects observing the records.
	Effects int `json:"effects,omitempty"`

	// Depth is the computed chain depth for the deep profile.
	Depth int `json:"depth,omitempty"`

	// Iterations is the number of timed write iterations.
	Iterations int `json:"iterations,omitempty"`

	// Warmup is the number of untimed iterations before measurement.
	Warmup int `json:"warmup,omitempty"`
}

// ArchiveConfig contains trace archive settings.
type ArchiveConfig struct {
	// Dir is the directory where traces are stored.
	Dir string `json:"dir,omitempty"`

	// Capacity is how many events a trace recorder retains.
	Capacity int `json:"capacity,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Inspect: InspectConfig{
			Host:        DefaultHost,
			Port:        DefaultPort,
			EventBuffer: 256,
		},
		Bench: BenchConfig{
			Profile:    "wide",
			Objects:    64,
			Keys:       16,
			Effects:    128,
			Depth:      8,
			Iterations: 10000,
			Warmup:     100,
		},
		Archive: ArchiveConfig{
			Dir:      DefaultArchiveDir,
			Capacity: 4096,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for reactive.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E101").
				WithDetail("No reactive.json found in " + filepath.Dir(path)).
				WithSuggestion("Run 'reactive init' to create one")
		}
		return nil, errors.New("E102").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E102").
			WithDetail("Failed to parse reactive.json: " + err.Error()).
			WithSuggestion("Check that reactive.json is valid JSON")
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
		return errors.New("E102").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E102").Wrap(err)
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
	if c.Inspect.Host == "" {
		c.Inspect.Host = DefaultHost
	}
	if c.Inspect.Port == 0 {
		c.Inspect.Port = DefaultPort
	}
	if c.Inspect.EventBuffer == 0 {
		c.Inspect.EventBuffer = 256
	}

	if c.Bench.Profile == "" {
		c.Bench.Profile = "wide"
	}
	if c.Bench.Objects == 0 {
		c.Bench.Objects = 64
	}
	if c.Bench.Keys == 0 {
		c.Bench.Keys = 16
	}
	if c.Bench.Effects == 0 {
		c.Bench.Effects = 128
	}
	if c.Bench.Depth == 0 {
		c.Bench.Depth = 8
	}
	if c.Bench.Iterations == 0 {
		c.Bench.Iterations = 10000
	}
	if c.Bench.Warmup == 0 {
		c.Bench.Warmup = 100
	}

	if c.Archive.Dir == "" {
		c.Archive.Dir = DefaultArchiveDir
	}
	if c.Archive.Capacity == 0 {
		c.Archive.Capacity = 4096
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Inspect.Port < 0 || c.Inspect.Port > 65535 {
		return errors.New("E103").
			WithDetail("Inspector port must be between 0 and 65535")
	}
	if c.Inspect.EventBuffer < 1 {
		return errors.New("E103").
			WithDetail("Inspector event buffer must be at least 1")
	}
	if c.Bench.Iterations < 1 {
		return errors.New("E103").
			WithDetail("Benchmark iterations must be at least 1")
	}
	if c.Archive.Capacity < 1 {
		return errors.New("E103").
			WithDetail("Archive capacity must be at least 1")
	}
	return nil
}

// InspectAddress returns the address string for the inspector server.
func (c *Config) InspectAddress() string {
	return c.Inspect.Host + ":" + strconv.Itoa(c.Inspect.Port)
}

// InspectURL returns the full URL for the inspector server.
func (c *Config) InspectURL() string {
	return "http://" + c.InspectAddress()
}

// ArchivePath returns the absolute path to the trace archive directory.
func (c *Config) ArchivePath() string {
	if filepath.IsAbs(c.Archive.Dir) {
		return c.Archive.Dir
	}
	return filepath.Join(c.Dir(), c.Archive.Dir)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing reactive.json, or an error if not found.
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
			return "", errors.New("E101").
				WithDetail("No reactive.json found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'reactive init' to create one")
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
