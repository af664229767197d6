package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		old      *RobotState
		new      *RobotState
		wantDiff *StateDiff // nil means we expect no diff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new: &RobotState{
				Executing:      true,
				WheelSpeed:     0.8,
				SensorReadings: map[string]float64{"distance": 42},
			},
			wantDiff: &StateDiff{
				Executing:   &[]bool{true}[0],
				WheelSpeed:  &[]float64{0.8}[0],
				ArmRotation: &[]float64{0}[0],
				DroneHeight: &[]float64{0}[0],
				Sensors:     map[string]float64{"distance": 42},
			},
		},
		{
			name:     "No Changes",
			old:      &RobotState{Executing: true, WheelSpeed: 1},
			new:      &RobotState{Executing: true, WheelSpeed: 1},
			wantDiff: nil,
		},
		{
			name: "Run Finished",
			old:  &RobotState{Executing: true, WheelSpeed: 0.5, ArmRotation: 30},
			new:  &RobotState{Executing: false},
			wantDiff: &StateDiff{
				Executing:   &[]bool{false}[0],
				WheelSpeed:  &[]float64{0}[0],
				ArmRotation: &[]float64{0}[0],
			},
		},
		{
			name: "Sensor Updated",
			old:  &RobotState{SensorReadings: map[string]float64{"distance": 10, "other": 1}},
			new:  &RobotState{SensorReadings: map[string]float64{"distance": 99.5, "other": 1}},
			wantDiff: &StateDiff{
				Sensors: map[string]float64{"distance": 99.5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if tt.wantDiff == nil {
				if got != nil {
					t.Errorf("Diff() = %v, want nil", got)
				}
				return
			}

			if got == nil {
				t.Fatalf("Diff() = nil, want %v", tt.wantDiff)
			}

			if !reflect.DeepEqual(got.Sensors, tt.wantDiff.Sensors) {
				t.Errorf("Diff().Sensors = %v, want %v", got.Sensors, tt.wantDiff.Sensors)
			}
			if !equalPtr(got.Executing, tt.wantDiff.Executing) {
				t.Errorf("Diff().Executing = %v, want %v", got.Executing, tt.wantDiff.Executing)
			}
			if !equalPtr(got.WheelSpeed, tt.wantDiff.WheelSpeed) {
				t.Errorf("Diff().WheelSpeed = %v, want %v", got.WheelSpeed, tt.wantDiff.WheelSpeed)
			}
			if !equalPtr(got.ArmRotation, tt.wantDiff.ArmRotation) {
				t.Errorf("Diff().ArmRotation = %v, want %v", got.ArmRotation, tt.wantDiff.ArmRotation)
			}
			if !equalPtr(got.DroneHeight, tt.wantDiff.DroneHeight) {
				t.Errorf("Diff().DroneHeight = %v, want %v", got.DroneHeight, tt.wantDiff.DroneHeight)
			}
		})
	}
}

func TestDiffJSONSerialization(t *testing.T) {
	t.Run("Empty Sensors Omitted", func(t *testing.T) {
		diff := Diff(&RobotState{WheelSpeed: 1}, &RobotState{WheelSpeed: 2})
		if diff == nil {
			t.Fatal("Expected diff, got nil")
		}

		bytes, _ := json.Marshal(diff)
		if strings.Contains(string(bytes), `"sensors"`) {
			t.Errorf("JSON should not contain 'sensors' when empty, got: %s", string(bytes))
		}
		if !strings.Contains(string(bytes), `"wheel_speed":2`) {
			t.Errorf("JSON should contain the new wheel speed, got: %s", string(bytes))
		}
	})
}

func TestRobotState_Snapshot(t *testing.T) {
	s := NewRobotState()
	s.SensorReadings[SensorDistance] = 12

	snap := s.Snapshot()
	snap.SensorReadings[SensorDistance] = 99

	if s.SensorReadings[SensorDistance] != 12 {
		t.Errorf("Snapshot must not alias sensor readings, got %v", s.SensorReadings)
	}
}

func TestArchetype_Valid(t *testing.T) {
	for _, a := range Archetypes {
		if !a.Valid() {
			t.Errorf("%s should be valid", a)
		}
	}
	if Archetype("tank").Valid() {
		t.Error("unknown archetype reported as valid")
	}
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
