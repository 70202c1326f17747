package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/netsweep/netsweep/internal/port"
	"github.com/netsweep/netsweep/internal/scan"
)

// Scan represents user configurable scan defaults. Flags override any
// value set here
type Scan struct {
	Ports            []uint16 `yaml:"ports"`
	SweepConcurrency int      `yaml:"sweep-concurrency"`
	HostConcurrency  int      `yaml:"host-concurrency"`
	PortConcurrency  int      `yaml:"port-concurrency"`
	PingTimeoutMs    int      `yaml:"ping-timeout-ms"`
	PortTimeoutMs    int      `yaml:"port-timeout-ms"`
}

// Config represents the data structure of our user provided yaml
// configuration
type Config struct {
	Scan Scan `yaml:"scan"`
}

// New returns unmarshaled data structure of user provided config.
// Keys absent from the file keep their default values
func New(confPath string) (*Config, error) {
	raw, err := os.ReadFile(confPath)

	if err != nil {
		return nil, err
	}

	config := Default()

	if err := yaml.Unmarshal(raw, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Default returns the engine default configuration
func Default() *Config {
	return &Config{
		Scan: Scan{
			Ports:            port.Defaults(),
			SweepConcurrency: scan.DefaultSweepConcurrency,
			HostConcurrency:  scan.DefaultHostConcurrency,
			PortConcurrency:  scan.DefaultPortConcurrency,
			PingTimeoutMs:    int(scan.DefaultProbeTimeout.Milliseconds()),
			PortTimeoutMs:    int(scan.DefaultProbeTimeout.Milliseconds()),
		},
	}
}

// PingTimeout returns the configured liveness probe timeout
func (c *Config) PingTimeout() time.Duration {
	return time.Duration(c.Scan.PingTimeoutMs) * time.Millisecond
}

// PortTimeout returns the configured port probe timeout
func (c *Config) PortTimeout() time.Duration {
	return time.Duration(c.Scan.PortTimeoutMs) * time.Millisecond
}

// Write persists conf to the config file path shared via viper
func Write(conf Config) error {
	configFile := viper.Get("config-file").(string)

	file, err := os.Create(configFile)

	if err != nil {
		return err
	}

	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)

	return encoder.Encode(conf)
}
