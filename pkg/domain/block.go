package domain

// BlockType is the tag that selects the transition rule applied to a block.
type BlockType string

// Known block types. Anything else is accepted but inert.
const (
	BlockSetWheelSpeed  BlockType = "set_wheel_speed"
	BlockSetArmAngle    BlockType = "set_arm_angle"
	BlockSetDroneHeight BlockType = "set_drone_height"
	BlockMoveForward    BlockType = "move_forward"

	BlockWait     BlockType = "wait"
	BlockRepeat   BlockType = "repeat"
	BlockIfSensor BlockType = "if_sensor"

	BlockReadDistance BlockType = "read_distance"
	BlockReadGyro     BlockType = "read_gyro"
	BlockReadCamera   BlockType = "read_camera"

	BlockAIPredict    BlockType = "ai_predict"
	BlockPathPlan     BlockType = "path_plan"
	BlockCustomScript BlockType = "custom_script"
)

// Block represents one instruction in a program.
type Block struct {
	ID    string    `json:"id" yaml:"id" mapstructure:"id"`
	Type  BlockType `json:"type" yaml:"type" mapstructure:"type"`
	Label string    `json:"label" yaml:"label" mapstructure:"label"`

	// Value is the optional parameter: a number, a numeric string or nil.
	// Its meaning depends on Type.
	Value any `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value"`

	// Presentational metadata, ignored by the engine.
	Category string `json:"category,omitempty" yaml:"category,omitempty" mapstructure:"category"`
	Color    string `json:"color,omitempty" yaml:"color,omitempty" mapstructure:"color"`
}

// HasValue reports whether the block carries a parameter.
func (b Block) HasValue() bool {
	return b.Value != nil
}
