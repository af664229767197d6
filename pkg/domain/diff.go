package domain

// StateDiff represents the changes between two robot states.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	Executing   *bool    `json:"executing,omitempty"`
	WheelSpeed  *float64 `json:"wheel_speed,omitempty"`
	ArmRotation *float64 `json:"arm_rotation,omitempty"`
	DroneHeight *float64 `json:"drone_height,omitempty"`

	// Sensors contains only added or changed readings.
	// Readings never disappear during a run, so deletions are not tracked.
	Sensors map[string]float64 `json:"sensors,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing changed.
func Diff(oldState, newState *RobotState) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{}

	if oldState == nil || oldState.Executing != newState.Executing {
		diff.Executing = &newState.Executing
	}
	if oldState == nil || oldState.WheelSpeed != newState.WheelSpeed {
		diff.WheelSpeed = &newState.WheelSpeed
	}
	if oldState == nil || oldState.ArmRotation != newState.ArmRotation {
		diff.ArmRotation = &newState.ArmRotation
	}
	if oldState == nil || oldState.DroneHeight != newState.DroneHeight {
		diff.DroneHeight = &newState.DroneHeight
	}

	diff.Sensors = diffSensors(oldState, newState)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffSensors(old, new *RobotState) map[string]float64 {
	delta := make(map[string]float64)
	for k, v := range new.SensorReadings {
		if old == nil {
			delta[k] = v
			continue
		}
		if prev, ok := old.SensorReadings[k]; !ok || prev != v {
			delta[k] = v
		}
	}
	if len(delta) == 0 {
		return nil
	}
	return delta
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.Executing == nil &&
		d.WheelSpeed == nil &&
		d.ArmRotation == nil &&
		d.DroneHeight == nil &&
		len(d.Sensors) == 0
}
