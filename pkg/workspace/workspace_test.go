package workspace_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/robotstudio"
	"github.com/aretw0/robotstudio/internal/testutils"
	"github.com/aretw0/robotstudio/pkg/catalog"
	"github.com/aretw0/robotstudio/pkg/domain"
	"github.com/aretw0/robotstudio/pkg/program"
	"github.com/aretw0/robotstudio/pkg/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkspace(opts ...workspace.Option) *workspace.Workspace {
	eng := robotstudio.New(
		robotstudio.WithTimeScale(0),
		robotstudio.WithRandom(testutils.NewFixedRandom(0.5)),
	)
	return workspace.New(eng, opts...)
}

func waitRun(t *testing.T, run *robotstudio.Run) domain.RunOutcome {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	outcome, err := run.Wait(ctx)
	require.NoError(t, err)
	return outcome
}

func TestWorkspace_EditBlocks(t *testing.T) {
	ws := newWorkspace()

	speed, err := ws.AddBlock(catalog.Motion, domain.BlockSetWheelSpeed)
	require.NoError(t, err)
	wait, err := ws.AddBlock(catalog.Control, domain.BlockWait)
	require.NoError(t, err)
	camera, err := ws.AddBlock(catalog.Sensor, domain.BlockReadCamera)
	require.NoError(t, err)

	_, err = ws.AddBlock(catalog.Sensor, domain.BlockWait)
	assert.ErrorIs(t, err, domain.ErrUnknownTemplate)

	require.NoError(t, ws.UpdateBlock(speed.ID, 0.8))
	require.NoError(t, ws.MoveBlock(camera.ID, 0))
	require.NoError(t, ws.RemoveBlock(wait.ID))

	blocks := ws.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, camera.ID, blocks[0].ID)
	assert.Equal(t, speed.ID, blocks[1].ID)
	assert.Equal(t, 0.8, blocks[1].Value)

	assert.ErrorIs(t, ws.RemoveBlock("ghost"), domain.ErrBlockNotFound)
	assert.ErrorIs(t, ws.UpdateBlock("ghost", 1), domain.ErrBlockNotFound)
	assert.ErrorIs(t, ws.MoveBlock("ghost", 0), domain.ErrBlockNotFound)

	require.NoError(t, ws.MoveBlock(camera.ID, 99))
	assert.Equal(t, camera.ID, ws.Blocks()[1].ID, "target index is clamped")
}

func TestWorkspace_BlocksAreCopies(t *testing.T) {
	ws := newWorkspace()
	_, err := ws.AddBlock(catalog.Motion, domain.BlockMoveForward)
	require.NoError(t, err)

	blocks := ws.Blocks()
	blocks[0].Label = "changed"
	assert.Equal(t, "Move Forward", ws.Blocks()[0].Label)
}

func TestWorkspace_RunEmpty(t *testing.T) {
	ws := newWorkspace()
	_, err := ws.Run()
	assert.ErrorIs(t, err, domain.ErrEmptyProgram)
}

func TestWorkspace_RunAndOverlay(t *testing.T) {
	ws := newWorkspace()
	_, err := ws.SelectArchetype(domain.ArchetypeArm)
	require.NoError(t, err)

	arm, err := ws.AddBlock(catalog.Motion, domain.BlockSetArmAngle)
	require.NoError(t, err)
	require.NoError(t, ws.UpdateBlock(arm.ID, 45))

	run, err := ws.Run()
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCompleted, waitRun(t, run))

	assert.Equal(t, []string{"[1] Executing: Set Arm Angle", "Execution completed"}, ws.Log())
	assert.Equal(t, []string{"Type: arm", "Angle: 0.0°", "Status: IDLE"}, ws.Overlay(), "completion resets motion channels")

	view := ws.View()
	assert.Equal(t, domain.ArchetypeArm, view.Archetype)
	assert.False(t, view.Executing)
}

func TestWorkspace_UpdateRefusedWhileRunning(t *testing.T) {
	gate := testutils.NewGate()
	ws := workspace.New(robotstudio.New(robotstudio.WithSleeper(gate.Sleep)))

	b, err := ws.AddBlock(catalog.Control, domain.BlockWait)
	require.NoError(t, err)

	run, err := ws.Run()
	require.NoError(t, err)
	gate.Next(t)

	assert.ErrorIs(t, ws.UpdateBlock(b.ID, 5), domain.ErrRunActive)
	assert.Equal(t, []string{"Type: wheeled", "Speed: 0.00 m/s", "Status: RUNNING"}, ws.Overlay())

	ws.Stop()
	gate.Release(t)
	assert.Equal(t, domain.OutcomeCancelled, waitRun(t, run))
	assert.NoError(t, ws.UpdateBlock(b.ID, 5))
}

func TestWorkspace_UpdateRacingRun(t *testing.T) {
	for range 50 {
		gate := testutils.NewGate()
		ws := workspace.New(robotstudio.New(robotstudio.WithSleeper(gate.Sleep)))
		ws.SetBlocks([]domain.Block{testutils.Block(domain.BlockWait, 1)})
		id := ws.Blocks()[0].ID

		updated := make(chan error, 1)
		go func() { updated <- ws.UpdateBlock(id, 3) }()
		run, err := ws.Run()
		require.NoError(t, err)

		// The run waits for as long as the block said when it started.
		slept := gate.Next(t)
		if err := <-updated; err == nil {
			assert.Equal(t, 3*time.Second, slept)
		} else {
			assert.ErrorIs(t, err, domain.ErrRunActive)
			assert.Equal(t, time.Second, slept)
		}

		ws.Stop()
		gate.Release(t)
		assert.Equal(t, domain.OutcomeCancelled, waitRun(t, run))
	}
}

func TestWorkspace_Config(t *testing.T) {
	ws := newWorkspace()

	cfg, err := ws.UpdateConfig(map[string]any{"mass": 7})
	require.NoError(t, err)
	assert.Equal(t, 7.0, cfg.Mass)

	_, err = ws.UpdateConfig(map[string]any{"mass": -1})
	assert.Error(t, err)
	assert.Equal(t, 7.0, ws.Config().Mass)

	_, err = ws.SelectArchetype("tank")
	assert.ErrorIs(t, err, domain.ErrUnknownArchetype)

	_, err = ws.SelectArchetype(domain.ArchetypeDrone)
	require.NoError(t, err)
	cfg, err = ws.ApplyPreset()
	require.NoError(t, err)
	assert.Equal(t, 1.2, cfg.Mass)

	cfg, err = ws.SetSensor("GPS", true)
	require.NoError(t, err)
	assert.Contains(t, cfg.Sensors, "GPS")
}

func TestWorkspace_WithProgram(t *testing.T) {
	prog, err := program.Parse([]byte("robot:\n  robotType: drone\nblocks:\n  - type: set_drone_height\n    value: 3\n"))
	require.NoError(t, err)

	ws := newWorkspace(workspace.WithProgram(prog))
	assert.Equal(t, domain.ArchetypeDrone, ws.Config().RobotType)
	require.Len(t, ws.Blocks(), 1)

	exported := ws.Program()
	assert.Equal(t, prog.Robot, exported.Robot)
	assert.Equal(t, prog.Blocks, exported.Blocks)
}

func TestWorkspace_Load(t *testing.T) {
	ws := newWorkspace()
	_, err := ws.AddBlock(catalog.Control, domain.BlockWait)
	require.NoError(t, err)

	prog, err := program.Parse([]byte("robot:\n  robotType: arm\nblocks:\n  - type: set_arm_angle\n    value: 45\n  - type: read_gyro\n"))
	require.NoError(t, err)
	require.NoError(t, ws.Load(prog))

	assert.Equal(t, domain.ArchetypeArm, ws.Config().RobotType)
	blocks := ws.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, domain.BlockSetArmAngle, blocks[0].Type)

	bad := &program.Program{Robot: prog.Robot}
	bad.Robot.RobotType = "tank"
	assert.Error(t, ws.Load(bad))
	assert.Len(t, ws.Blocks(), 2)
}

func TestOverlayLines(t *testing.T) {
	state := domain.RobotState{WheelSpeed: 0.756, ArmRotation: 12.34, DroneHeight: 1.25}

	tests := []struct {
		archetype domain.Archetype
		want      []string
	}{
		{domain.ArchetypeWheeled, []string{"Type: wheeled", "Speed: 0.76 m/s", "Status: RUNNING"}},
		{domain.ArchetypeArm, []string{"Type: arm", "Angle: 12.3°", "Status: RUNNING"}},
		{domain.ArchetypeDrone, []string{"Type: drone", "Height: 1.25 m", "Status: RUNNING"}},
		{domain.ArchetypeHumanoid, []string{"Type: humanoid", "Status: RUNNING"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.archetype), func(t *testing.T) {
			got := workspace.OverlayLines(workspace.View{Archetype: tt.archetype, State: state, Executing: true})
			assert.Equal(t, tt.want, got)
		})
	}
}
