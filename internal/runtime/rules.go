package runtime

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/aretw0/robotstudio/pkg/domain"
)

// Sensor sampling ranges and constants of the placeholder models.
const (
	DistanceMin  = 10.0
	DistanceSpan = 100.0
	GyroSpan     = 360.0
	AIConfidence = 0.92

	DefaultWaitSeconds = 1.0
	DefaultRepeatCount = 1.0
	DefaultWaypoints   = 100.0
)

// rule is the transition bound to one block type.
type rule struct {
	// effect is the synchronous part, applied atomically with the Executing line.
	effect func(e *Engine, b domain.Block, s *domain.RobotState, j *journal)
	// tail is the suspending part, run after effect has been published.
	tail func(e *Engine, run *Run, b domain.Block) status
}

func defaultRules() map[domain.BlockType]rule {
	return map[domain.BlockType]rule{
		domain.BlockSetWheelSpeed: {effect: func(_ *Engine, b domain.Block, s *domain.RobotState, _ *journal) {
			s.WheelSpeed = number(b.Value, 0)
		}},
		domain.BlockSetArmAngle: {effect: func(_ *Engine, b domain.Block, s *domain.RobotState, _ *journal) {
			s.ArmRotation = number(b.Value, 0)
		}},
		domain.BlockSetDroneHeight: {effect: func(_ *Engine, b domain.Block, s *domain.RobotState, _ *journal) {
			s.DroneHeight = number(b.Value, 0)
		}},
		domain.BlockMoveForward: {tail: moveForward},
		domain.BlockWait:        {tail: wait},
		domain.BlockReadDistance: {effect: func(e *Engine, _ domain.Block, s *domain.RobotState, j *journal) {
			distance := e.random.Float64()*DistanceSpan + DistanceMin
			if s.SensorReadings == nil {
				s.SensorReadings = make(map[string]float64)
			}
			s.SensorReadings[domain.SensorDistance] = distance
			j.detail(fmt.Sprintf("Distance: %.2f cm", distance))
		}},
		domain.BlockReadGyro: {effect: func(e *Engine, _ domain.Block, _ *domain.RobotState, j *journal) {
			j.detail(fmt.Sprintf("Rotation: %.2f°", e.random.Float64()*GyroSpan))
		}},
		domain.BlockReadCamera: {effect: func(_ *Engine, _ domain.Block, _ *domain.RobotState, j *journal) {
			j.detail("Camera active")
		}},
		// repeat and if_sensor only report; they never loop or branch.
		domain.BlockRepeat: {effect: func(_ *Engine, b domain.Block, _ *domain.RobotState, j *journal) {
			j.detail(fmt.Sprintf("Repeating %s times", formatCount(nonZero(b.Value, DefaultRepeatCount))))
		}},
		domain.BlockIfSensor: {effect: func(_ *Engine, _ domain.Block, _ *domain.RobotState, j *journal) {
			j.detail("Condition evaluated")
		}},
		domain.BlockAIPredict: {effect: func(_ *Engine, _ domain.Block, _ *domain.RobotState, j *journal) {
			j.detail(fmt.Sprintf("AI model prediction: %s", formatCount(AIConfidence)))
		}},
		domain.BlockPathPlan: {effect: func(_ *Engine, b domain.Block, _ *domain.RobotState, j *journal) {
			j.detail(fmt.Sprintf("Path planned with %s waypoints", formatCount(nonZero(b.Value, DefaultWaypoints))))
		}},
	}
}

// HasRule reports whether blocks of type t have any effect. Other types are inert.
func HasRule(t domain.BlockType) bool {
	_, ok := defaultRules()[t]
	return ok
}

// ReadsValue reports whether the rule of t interprets the block value.
func ReadsValue(t domain.BlockType) bool {
	switch t {
	case domain.BlockSetWheelSpeed, domain.BlockSetArmAngle, domain.BlockSetDroneHeight,
		domain.BlockWait, domain.BlockRepeat, domain.BlockPathPlan:
		return true
	}
	return false
}

// moveForward decays the wheel speed over MoveSteps suspensions, then forces it to zero.
func moveForward(e *Engine, run *Run, _ domain.Block) status {
	for i := 0; i < MoveSteps; i++ {
		if st := e.suspend(run, MoveStepDelay); st != live {
			return st
		}
		if st := e.commit(run, nil, func(s *domain.RobotState, _ *journal) {
			s.WheelSpeed *= MoveDecay
		}); st == superseded {
			return st
		}
	}
	if st := e.commit(run, nil, func(s *domain.RobotState, _ *journal) {
		s.WheelSpeed = 0
	}); st == superseded {
		return st
	}
	return live
}

func wait(e *Engine, run *Run, b domain.Block) status {
	return e.suspend(run, seconds(number(b.Value, DefaultWaitSeconds)))
}

// seconds converts a (possibly fractional) second count to a duration,
// clamping negatives to zero and overflow to the maximum duration.
func seconds(v float64) time.Duration {
	if v <= 0 {
		return 0
	}
	f := v * float64(WaitUnit)
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return time.Duration(f)
}

// formatCount prints a number the shortest exact way (3, 2.5, 0.92).
func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
