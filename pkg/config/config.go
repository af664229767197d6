// Package config holds the robot configuration edited alongside a program.
// The engine never reads it: it only selects what renderers and the stats
// overlay show.
package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/aretw0/robotstudio/pkg/domain"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// KnownSensors lists the sensors that can be fitted to a robot.
var KnownSensors = []string{"Distance", "Gyroscope", "Accelerometer", "Camera", "GPS", "Touch"}

// Robot is the configurable description of the simulated robot.
type Robot struct {
	RobotType domain.Archetype `json:"robotType" yaml:"robotType" mapstructure:"robotType" validate:"required,oneof=wheeled arm drone humanoid"`

	WheelDiameter float64 `json:"wheelDiameter" yaml:"wheelDiameter" mapstructure:"wheelDiameter" validate:"gt=0"`
	WheelBase     float64 `json:"wheelBase" yaml:"wheelBase" mapstructure:"wheelBase" validate:"gt=0"`
	MaxSpeed      float64 `json:"maxSpeed" yaml:"maxSpeed" mapstructure:"maxSpeed" validate:"gt=0"`
	Mass          float64 `json:"mass" yaml:"mass" mapstructure:"mass" validate:"gt=0"`

	// Arm specific
	ArmLength  float64 `json:"armLength" yaml:"armLength" mapstructure:"armLength" validate:"gt=0"`
	JointCount int     `json:"jointCount" yaml:"jointCount" mapstructure:"jointCount" validate:"gte=1"`

	// Drone specific
	MaxAltitude     float64 `json:"maxAltitude" yaml:"maxAltitude" mapstructure:"maxAltitude" validate:"gt=0"`
	BatteryCapacity float64 `json:"batteryCapacity" yaml:"batteryCapacity" mapstructure:"batteryCapacity" validate:"gt=0"`

	Sensors []string `json:"sensors" yaml:"sensors" mapstructure:"sensors" validate:"unique,dive,oneof=Distance Gyroscope Accelerometer Camera GPS Touch"`
}

// Default returns the configuration a new workspace starts with.
func Default() Robot {
	return Robot{
		RobotType:       domain.ArchetypeWheeled,
		WheelDiameter:   0.1,
		WheelBase:       0.3,
		MaxSpeed:        1.5,
		Mass:            2.5,
		ArmLength:       0.8,
		JointCount:      6,
		MaxAltitude:     10,
		BatteryCapacity: 5000,
		Sensors:         []string{"Distance", "Gyroscope", "Camera"},
	}
}

// Presets are partial updates with typical physical parameters per archetype.
var Presets = map[domain.Archetype]map[string]any{
	domain.ArchetypeWheeled:  {"wheelDiameter": 0.1, "wheelBase": 0.3, "maxSpeed": 1.5, "mass": 2.5},
	domain.ArchetypeArm:      {"armLength": 0.8, "jointCount": 6, "maxSpeed": 1.0, "mass": 5.0},
	domain.ArchetypeDrone:    {"maxAltitude": 10, "batteryCapacity": 5000, "maxSpeed": 15, "mass": 1.2},
	domain.ArchetypeHumanoid: {"wheelDiameter": 0.08, "wheelBase": 0.4, "maxSpeed": 0.8, "mass": 10},
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration against its constraints.
func (r Robot) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid robot config: %w", err)
	}
	return nil
}

// Clone returns a copy that shares no memory with r.
func (r Robot) Clone() Robot {
	r.Sensors = slices.Clone(r.Sensors)
	return r
}

// Merge applies a partial update, keyed by the JSON field names. Values are
// coerced loosely ("6" becomes 6). The update is all or nothing: on any error
// r is left untouched.
func (r *Robot) Merge(updates map[string]any) error {
	next := r.Clone()
	if _, ok := updates["sensors"]; ok {
		next.Sensors = nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &next,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(updates); err != nil {
		return fmt.Errorf("failed to decode config update: %w", err)
	}
	if err := next.Validate(); err != nil {
		return err
	}

	*r = next
	return nil
}

// SelectArchetype switches the body plan, keeping every other parameter.
func (r *Robot) SelectArchetype(a domain.Archetype) error {
	if !a.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownArchetype, a)
	}
	r.RobotType = a
	return nil
}

// ApplyPreset merges the preset of the current archetype.
func (r *Robot) ApplyPreset() error {
	preset, ok := Presets[r.RobotType]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownArchetype, r.RobotType)
	}
	return r.Merge(preset)
}

// SetSensor fits or removes a sensor.
func (r *Robot) SetSensor(name string, fitted bool) error {
	if !slices.Contains(KnownSensors, name) {
		return fmt.Errorf("unknown sensor %q", name)
	}
	has := slices.Contains(r.Sensors, name)
	switch {
	case fitted && !has:
		r.Sensors = append(slices.Clone(r.Sensors), name)
	case !fitted && has:
		r.Sensors = slices.DeleteFunc(slices.Clone(r.Sensors), func(s string) bool { return s == name })
	}
	return nil
}

// Load reads a YAML file and merges it over Default.
func Load(path string) (Robot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Robot{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse merges YAML data over Default.
func Parse(data []byte) (Robot, error) {
	var updates map[string]any
	if err := yaml.Unmarshal(data, &updates); err != nil {
		return Robot{}, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg := Default()
	if err := cfg.Merge(updates); err != nil {
		return Robot{}, err
	}
	return cfg, nil
}
