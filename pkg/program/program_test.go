package program_test

import (
	"path/filepath"
	"testing"

	"github.com/aretw0/robotstudio/pkg/domain"
	"github.com/aretw0/robotstudio/pkg/program"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
robot:
  robotType: drone
  maxAltitude: 20
blocks:
  - type: set_drone_height
    value: 2.5
  - id: w1
    type: wait
  - type: repeat
    value: "4"
    label: Loop
  - type: warp_drive
    value: 9
`

func TestParse(t *testing.T) {
	prog, err := program.Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, domain.ArchetypeDrone, prog.Robot.RobotType)
	assert.Equal(t, 20.0, prog.Robot.MaxAltitude)
	assert.Equal(t, 2.5, prog.Robot.Mass, "unspecified fields keep defaults")

	require.Len(t, prog.Blocks, 4)

	height := prog.Blocks[0]
	assert.NotEmpty(t, height.ID)
	assert.Equal(t, "Set Drone Height", height.Label)
	assert.Equal(t, "motion", height.Category)
	assert.Equal(t, "bg-orange-500", height.Color)
	assert.Equal(t, 2.5, height.Value)

	wait := prog.Blocks[1]
	assert.Equal(t, "w1", wait.ID)
	assert.Equal(t, 1.0, wait.Value, "missing value comes from the catalog")

	repeat := prog.Blocks[2]
	assert.Equal(t, "Loop", repeat.Label)
	assert.Equal(t, "4", repeat.Value)

	unknown := prog.Blocks[3]
	assert.Equal(t, domain.BlockType("warp_drive"), unknown.Type)
	assert.Equal(t, "warp_drive", unknown.Label)
	assert.Empty(t, unknown.Category)
}

func TestParse_ExplicitNullValueIsKept(t *testing.T) {
	prog, err := program.Parse([]byte("blocks:\n  - type: wait\n    value: null\n"))
	require.NoError(t, err)
	assert.Nil(t, prog.Blocks[0].Value)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "blocks: [unclosed"},
		{"missing type", "blocks:\n  - value: 3\n"},
		{"bad robot", "robot:\n  robotType: tank\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := program.Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	prog, err := program.Parse([]byte(sample))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "prog.yaml")
	require.NoError(t, program.Save(path, prog))

	loaded, err := program.Load(path)
	require.NoError(t, err)
	assert.Equal(t, prog.Robot, loaded.Robot)
	require.Len(t, loaded.Blocks, len(prog.Blocks))
	for i := range prog.Blocks {
		assert.Equal(t, prog.Blocks[i].ID, loaded.Blocks[i].ID)
		assert.Equal(t, prog.Blocks[i].Type, loaded.Blocks[i].Type)
		assert.Equal(t, prog.Blocks[i].Label, loaded.Blocks[i].Label)
	}
}

func TestValidate(t *testing.T) {
	blocks := []domain.Block{
		{ID: "a", Type: domain.BlockWait, Value: -2},
		{ID: "b", Type: domain.BlockSetWheelSpeed, Value: "fast"},
		{ID: "a", Type: domain.BlockReadCamera},
		{ID: "d", Type: domain.BlockCustomScript},
		{ID: "e", Type: domain.BlockIfSensor, Value: "ignored"},
		{ID: "f", Type: domain.BlockPathPlan, Value: "250"},
	}

	issues := program.Validate(blocks)
	require.Len(t, issues, 4)

	assert.Equal(t, 1, issues[0].Index)
	assert.Contains(t, issues[0].Reason, "negative wait")
	assert.Equal(t, "b", issues[1].BlockID)
	assert.Contains(t, issues[1].Reason, "not a number")
	assert.Equal(t, program.SeverityError, issues[2].Severity)
	assert.Contains(t, issues[2].Error(), "duplicate id, first used by block 1")
	assert.Contains(t, issues[3].Reason, `"custom_script" has no effect`)

	assert.True(t, program.HasErrors(issues))
	assert.False(t, program.HasErrors(issues[:2]))
	assert.Empty(t, program.Validate(nil))
}
