// Package catalog holds the palette of block templates offered to authors,
// grouped by category.
package catalog

import (
	"fmt"
	"strings"

	"github.com/aretw0/robotstudio/pkg/domain"
	"github.com/google/uuid"
)

// Category groups templates in the palette.
type Category string

const (
	Motion   Category = "motion"
	Control  Category = "control"
	Sensor   Category = "sensor"
	Advanced Category = "advanced"
)

// Title is the display name of the category.
func (c Category) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// Template describes a block that can be added to a program.
type Template struct {
	Type  domain.BlockType `json:"type"`
	Label string           `json:"label"`
	// Value is the default parameter; nil for blocks without one.
	Value any    `json:"value,omitempty"`
	Color string `json:"color"`
}

type group struct {
	category  Category
	templates []Template
}

var palette = []group{
	{Motion, []Template{
		{domain.BlockSetWheelSpeed, "Set Wheel Speed", 0.0, "bg-orange-500"},
		{domain.BlockSetArmAngle, "Set Arm Angle", 0.0, "bg-orange-500"},
		{domain.BlockSetDroneHeight, "Set Drone Height", 0.0, "bg-orange-500"},
		{domain.BlockMoveForward, "Move Forward", 1.0, "bg-orange-500"},
	}},
	{Control, []Template{
		{domain.BlockWait, "Wait (seconds)", 1.0, "bg-yellow-500"},
		{domain.BlockRepeat, "Repeat", 3.0, "bg-yellow-500"},
		{domain.BlockIfSensor, "If Sensor", 50.0, "bg-yellow-500"},
	}},
	{Sensor, []Template{
		{domain.BlockReadDistance, "Read Distance Sensor", nil, "bg-cyan-500"},
		{domain.BlockReadGyro, "Read Gyroscope", nil, "bg-cyan-500"},
		{domain.BlockReadCamera, "Read Camera", nil, "bg-cyan-500"},
	}},
	{Advanced, []Template{
		{domain.BlockAIPredict, "AI Model Prediction", nil, "bg-purple-500"},
		{domain.BlockPathPlan, "Path Planning", 100.0, "bg-purple-500"},
		{domain.BlockCustomScript, "Custom Python", nil, "bg-purple-500"},
	}},
}

// Categories returns the categories in palette order.
func Categories() []Category {
	out := make([]Category, len(palette))
	for i, g := range palette {
		out[i] = g.category
	}
	return out
}

// Templates returns the templates of c in palette order, or nil if c is unknown.
func Templates(c Category) []Template {
	for _, g := range palette {
		if g.category == c {
			out := make([]Template, len(g.templates))
			copy(out, g.templates)
			return out
		}
	}
	return nil
}

// Lookup finds the template of a block type and the category that offers it.
func Lookup(t domain.BlockType) (Template, Category, bool) {
	for _, g := range palette {
		for _, tpl := range g.templates {
			if tpl.Type == t {
				return tpl, g.category, true
			}
		}
	}
	return Template{}, "", false
}

// NewBlock instantiates the template t of category c with a fresh ID.
func NewBlock(c Category, t domain.BlockType) (domain.Block, error) {
	for _, tpl := range Templates(c) {
		if tpl.Type == t {
			return tpl.Instantiate(c), nil
		}
	}
	return domain.Block{}, fmt.Errorf("%w: %s/%s", domain.ErrUnknownTemplate, c, t)
}

// Instantiate builds a block from the template with a fresh ID.
func (tpl Template) Instantiate(c Category) domain.Block {
	return domain.Block{
		ID:       NewID(),
		Type:     tpl.Type,
		Label:    tpl.Label,
		Value:    tpl.Value,
		Category: string(c),
		Color:    tpl.Color,
	}
}

// NewID returns a unique block identifier.
func NewID() string {
	return "block_" + uuid.NewString()
}
