package impulse

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/akmonengine/impulse/actor"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// Integration names the integrator variant in configuration files
type Integration string

const (
	IntegrationTimeScaled        Integration = "time_scaled"
	IntegrationFrameDisplacement Integration = "frame_displacement"
)

// Mode maps the configuration name to the integrator; an empty name selects time scaling.
func (i Integration) Mode() (actor.IntegrationMode, error) {
	switch i {
	case IntegrationTimeScaled, "":
		return actor.IntegrationTimeScaled, nil
	case IntegrationFrameDisplacement:
		return actor.IntegrationFrameDisplacement, nil
	default:
		return actor.IntegrationTimeScaled, fmt.Errorf("unknown integration %q", string(i))
	}
}

// Config holds the World settings
type Config struct {
	// Gravity acceleration (m/s², or N/kg)
	Gravity mgl64.Vec3 `yaml:"gravity"`
	// GravityAsForce applies Gravity as a force, so a body accelerates by Gravity/mass.
	// Otherwise Gravity is an acceleration shared by every dynamic body.
	GravityAsForce bool        `yaml:"gravity_as_force"`
	Integration    Integration `yaml:"integration"`
	Debug          bool        `yaml:"debug"`
	LogPrefix      string      `yaml:"log_prefix"`
}

func DefaultConfig() Config {
	return Config{
		Gravity:     mgl64.Vec3{0, -9.81, 0},
		Integration: IntegrationTimeScaled,
		LogPrefix:   "impulse",
	}
}

func (c Config) Validate() error {
	if _, err := c.Integration.Mode(); err != nil {
		return err
	}
	for i, g := range c.Gravity {
		if math.IsNaN(g) || math.IsInf(g, 0) {
			return fmt.Errorf("gravity component %d is not finite", i)
		}
	}

	return nil
}

// LoadConfig decodes a YAML document over DefaultConfig
func LoadConfig(r io.Reader) (Config, error) {
	config := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&config); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	return LoadConfig(f)
}
