package workspace

import (
	"fmt"

	"github.com/aretw0/robotstudio/pkg/domain"
)

// View is what a renderer needs to draw the robot.
type View struct {
	Archetype domain.Archetype  `json:"robotType"`
	State     domain.RobotState `json:"state"`
	Executing bool              `json:"executing"`
}

// View returns the renderer snapshot.
func (w *Workspace) View() View {
	w.mu.RLock()
	archetype := w.robot.RobotType
	w.mu.RUnlock()

	state := w.engine.Snapshot()
	return View{Archetype: archetype, State: state, Executing: state.Executing}
}

// Overlay returns the stats overlay lines. Only the channel that matters for
// the archetype is shown.
func (w *Workspace) Overlay() []string {
	return OverlayLines(w.View())
}

// OverlayLines formats the stats overlay of v.
func OverlayLines(v View) []string {
	lines := []string{"Type: " + string(v.Archetype)}
	switch v.Archetype {
	case domain.ArchetypeWheeled:
		lines = append(lines, fmt.Sprintf("Speed: %.2f m/s", v.State.WheelSpeed))
	case domain.ArchetypeArm:
		lines = append(lines, fmt.Sprintf("Angle: %.1f°", v.State.ArmRotation))
	case domain.ArchetypeDrone:
		lines = append(lines, fmt.Sprintf("Height: %.2f m", v.State.DroneHeight))
	}
	status := "IDLE"
	if v.Executing {
		status = "RUNNING"
	}
	return append(lines, "Status: "+status)
}
