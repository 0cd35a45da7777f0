// Package config loads the YAML file that names a robot's gaits, its
// accelerometer calibration, and the serial/Modbus ports the hardware
// adapters should open. Values reference environment variables with
// ${VAR}/${VAR:-default} syntax, substituted before YAML parsing so a single
// checked-in file can vary per robot without templating the YAML itself.
package config

import (
	"os"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/bowdoin-robotics/biped/gait"
	"github.com/bowdoin-robotics/biped/transcriber"
)

// SerialPort names a serial device and the baud rate to open it at.
type SerialPort struct {
	Device string `yaml:"device"`
	BaudHz uint   `yaml:"baudHz"`
}

// ModbusPort names a serial device, baud rate, and slave ID for a Modbus RTU
// sensor proxy.
type ModbusPort struct {
	Device  string `yaml:"device"`
	BaudHz  int    `yaml:"baudHz"`
	SlaveID byte   `yaml:"slaveId"`
}

// Calibration mirrors transcriber.AccelCalibration with YAML tags; Apply
// converts it to the transcriber type config's callers actually use.
type Calibration struct {
	KX float32 `yaml:"kx"`
	KY float32 `yaml:"ky"`
	KZ float32 `yaml:"kz"`
}

// Apply converts a loaded Calibration into the transcriber's runtime type.
func (c Calibration) Apply() transcriber.AccelCalibration {
	return transcriber.AccelCalibration{KX: c.KX, KY: c.KY, KZ: c.KZ}
}

// Hardware bundles the ports the hardware adapters open at startup.
type Hardware struct {
	Actuators SerialPort `yaml:"actuators"`
	Sensors   ModbusPort `yaml:"sensors"`
}

// Config is the full contents of a robot's YAML config file: its named
// gaits (keyed by gait.Gait.Name), which one is active at boot, the
// accelerometer calibration, and the hardware ports to open.
type Config struct {
	DefaultGait string      `yaml:"defaultGait"`
	Gaits       []gait.Gait `yaml:"gaits"`
	Calibration Calibration `yaml:"calibration"`
	Hardware    Hardware    `yaml:"hardware"`
}

// Load reads, env-substitutes, and parses the YAML config file at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: reading %s", path)
	}

	substituted, err := envsubst.Bytes(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "config: substituting env vars in %s", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(substituted, &cfg); err != nil {
		return nil, errors.Wrapf(err, "config: parsing %s", path)
	}

	if err := cfg.validate(); err != nil {
		return nil, errors.Wrapf(err, "config: %s", path)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Gaits) == 0 {
		return errors.New("at least one gait must be defined")
	}
	if _, err := c.Gait(c.DefaultGait); err != nil {
		return err
	}
	return nil
}

// Gait returns the named gait, or an error if no gait with that name was
// loaded.
func (c *Config) Gait(name string) (gait.Gait, error) {
	for _, g := range c.Gaits {
		if g.Name == name {
			return g, nil
		}
	}
	return gait.Gait{}, errors.Errorf("config: no gait named %q", name)
}

// DefaultGaitOrFallback returns the configured default gait, falling back
// to gait.Default() (and logging nothing, since this is meant for callers
// like cmd/walkctl that may run with no config file at all) if c is nil or
// the default gait can't be found.
func DefaultGaitOrFallback(c *Config) gait.Gait {
	if c == nil {
		return gait.Default()
	}
	g, err := c.Gait(c.DefaultGait)
	if err != nil {
		return gait.Default()
	}
	return g
}
