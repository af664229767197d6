package domain

// Archetype is the robot body plan. It selects which state channels are
// semantically active; the others stay present but inert.
type Archetype string

const (
	ArchetypeWheeled  Archetype = "wheeled"
	ArchetypeArm      Archetype = "arm"
	ArchetypeDrone    Archetype = "drone"
	ArchetypeHumanoid Archetype = "humanoid"
)

// Archetypes lists the known body plans in display order.
var Archetypes = []Archetype{ArchetypeWheeled, ArchetypeArm, ArchetypeDrone, ArchetypeHumanoid}

// Valid reports whether a is a known archetype.
func (a Archetype) Valid() bool {
	for _, known := range Archetypes {
		if a == known {
			return true
		}
	}
	return false
}

// SensorDistance is the reading key written by read_distance blocks.
const SensorDistance = "distance"

// RobotState represents the current snapshot of the simulated robot.
type RobotState struct {
	// Executing is true exactly while a run is in progress.
	Executing bool `json:"executing"`

	WheelSpeed  float64 `json:"wheel_speed"`
	ArmRotation float64 `json:"arm_rotation"`
	DroneHeight float64 `json:"drone_height"`

	// SensorReadings holds the last observed value per sensor name.
	SensorReadings map[string]float64 `json:"sensor_readings,omitempty"`
}

// NewRobotState creates a clean baseline state.
func NewRobotState() *RobotState {
	return &RobotState{
		SensorReadings: make(map[string]float64),
	}
}

// Snapshot returns a deep copy safe to hand to readers.
func (s *RobotState) Snapshot() RobotState {
	out := *s
	out.SensorReadings = make(map[string]float64, len(s.SensorReadings))
	for k, v := range s.SensorReadings {
		out.SensorReadings[k] = v
	}
	return out
}

// ResetMotion zeroes the three numeric channels. Sensor readings are kept.
func (s *RobotState) ResetMotion() {
	s.WheelSpeed = 0
	s.ArmRotation = 0
	s.DroneHeight = 0
}
