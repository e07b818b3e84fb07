// Package config loads locfs settings from a YAML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/example/locfs/pkg/layout"
	"github.com/example/locfs/pkg/location"
	"github.com/example/locfs/pkg/server"
	"github.com/example/locfs/pkg/volume"
)

const (
	envVarPrefix = "LOCFS"
	appName      = "locfs"
)

type Config struct {
	Image             string        `envconfig:"IMAGE"               yaml:"image"`
	MountPoint        string        `envconfig:"MOUNTPOINT"          yaml:"mountPoint"`
	AdminAddr         string        `envconfig:"ADMIN_ADDR"          yaml:"adminAddr"`
	DefaultLocation   string        `envconfig:"DEFAULT_LOCATION"    yaml:"defaultLocation"`
	BlockSize         uint64        `envconfig:"BLOCK_SIZE"          yaml:"blockSize"`
	InodeCapacity     uint64        `envconfig:"INODE_CAPACITY"      yaml:"inodeCapacity"`
	DataBlockCapacity uint64        `envconfig:"DATA_BLOCK_CAPACITY" yaml:"dataBlockCapacity"`
	MaxConcurrent     int           `envconfig:"MAX_CONCURRENT"      yaml:"maxConcurrent"`
	MaxConnections    int           `envconfig:"MAX_CONNECTIONS"     yaml:"maxConnections"`
	RequestTimeout    time.Duration `envconfig:"REQUEST_TIMEOUT"     yaml:"requestTimeout"`
	LogLevel          string        `envconfig:"LOG_LEVEL"           yaml:"logLevel"`
	FuseDebug         bool          `envconfig:"FUSE_DEBUG"          yaml:"fuseDebug"`
	AllowOther        bool          `envconfig:"ALLOW_OTHER"         yaml:"allowOther"`
}

// Default returns the settings used when neither the file nor the
// environment sets a field.
func Default() Config {
	params := volume.DefaultParams()
	srv := server.DefaultConfig()
	return Config{
		AdminAddr:         srv.ListenAddress,
		DefaultLocation:   location.Default,
		BlockSize:         params.BlockSize,
		InodeCapacity:     params.InodeCapacity,
		DataBlockCapacity: params.DataBlockCapacity,
		MaxConcurrent:     srv.MaxConcurrent,
		MaxConnections:    srv.MaxConnections,
		RequestTimeout:    time.Duration(srv.RequestTimeout) * time.Second,
		LogLevel:          "info",
	}
}

// FilePath returns the config file named by LOCFS_CONFIG_FILE, or
// $HOME/.config/locfs.yaml.
func FilePath() string {
	if configFile := os.Getenv(envVarPrefix + "_CONFIG_FILE"); configFile != "" {
		return configFile
	}
	return filepath.Join(os.Getenv("HOME"), ".config", appName+".yaml")
}

// Load reads the config file if it exists, then applies environment
// overrides on top of it.
func Load() (*Config, error) {
	return LoadFile(FilePath())
}

func LoadFile(configFile string) (*Config, error) {
	c := Default()
	data, err := os.ReadFile(configFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshaling config file: %w", err)
	}

	if err := envconfig.Process(envVarPrefix, &c); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}
	return &c, nil
}

// Validate reports the first missing or malformed field.
func (c *Config) Validate() error {
	if y, e := func() (string, string) {
		if c.Image == "" {
			return "image", "IMAGE"
		}
		if c.AdminAddr == "" {
			return "adminAddr", "ADMIN_ADDR"
		}
		if c.BlockSize == 0 {
			return "blockSize", "BLOCK_SIZE"
		}
		return "", ""
	}(); y != "" {
		return fmt.Errorf(
			"missing required configuration: %s / %s_%s",
			y,
			envVarPrefix,
			e,
		)
	}
	if err := layout.ValidateName(c.DefaultLocation); err != nil {
		return fmt.Errorf("defaultLocation / %s_DEFAULT_LOCATION: %w", envVarPrefix, err)
	}
	if _, err := c.VolumeParams().Geometry(); err != nil {
		return fmt.Errorf("volume geometry: %w", err)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("logLevel / %s_LOG_LEVEL: %w", envVarPrefix, err)
	}
	return nil
}

// VolumeParams returns the format parameters.
func (c *Config) VolumeParams() volume.Params {
	return volume.Params{
		BlockSize:         c.BlockSize,
		InodeCapacity:     c.InodeCapacity,
		DataBlockCapacity: c.DataBlockCapacity,
	}
}

// ServerConfig returns the admin server settings.
func (c *Config) ServerConfig() *server.Config {
	return &server.Config{
		ListenAddress:  c.AdminAddr,
		MaxConcurrent:  c.MaxConcurrent,
		MaxConnections: c.MaxConnections,
		RequestTimeout: timeoutSeconds(c.RequestTimeout),
	}
}

// timeoutSeconds rounds up so a positive sub-second timeout stays enabled.
func timeoutSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

// ApplyLogLevel sets the logrus level; unknown levels keep the current one.
func (c *Config) ApplyLogLevel() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.WithError(err).Warn("Ignoring log level")
		return
	}
	log.SetLevel(level)
}
