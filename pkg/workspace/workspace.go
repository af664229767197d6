// Package workspace is the authoring surface around the engine: the block
// list being edited, the robot configuration, and the views a frontend shows.
package workspace

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/aretw0/robotstudio"
	"github.com/aretw0/robotstudio/internal/logging"
	"github.com/aretw0/robotstudio/pkg/catalog"
	"github.com/aretw0/robotstudio/pkg/config"
	"github.com/aretw0/robotstudio/pkg/domain"
	"github.com/aretw0/robotstudio/pkg/program"
)

// Workspace holds one program under edit and the engine that runs it.
// Safe for concurrent use.
type Workspace struct {
	// startMu orders run starts against edits that are refused while running.
	startMu sync.Mutex

	mu     sync.RWMutex
	blocks []domain.Block
	robot  config.Robot

	engine *robotstudio.Engine
	logger *slog.Logger
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithRobot sets the initial robot configuration.
func WithRobot(cfg config.Robot) Option {
	return func(w *Workspace) {
		w.robot = cfg.Clone()
	}
}

// WithProgram preloads a program's robot and blocks.
func WithProgram(p *program.Program) Option {
	return func(w *Workspace) {
		w.robot = p.Robot.Clone()
		w.blocks = slices.Clone(p.Blocks)
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workspace) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates a workspace driving engine. A nil engine gets a default one.
func New(engine *robotstudio.Engine, opts ...Option) *Workspace {
	if engine == nil {
		engine = robotstudio.New()
	}
	w := &Workspace{
		robot:  config.Default(),
		engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Engine returns the engine the workspace runs programs on.
func (w *Workspace) Engine() *robotstudio.Engine {
	return w.engine
}

// AddBlock appends a fresh instance of a catalog template.
func (w *Workspace) AddBlock(c catalog.Category, t domain.BlockType) (domain.Block, error) {
	b, err := catalog.NewBlock(c, t)
	if err != nil {
		return domain.Block{}, err
	}
	w.mu.Lock()
	w.blocks = append(w.blocks, b)
	w.mu.Unlock()

	w.logger.Debug("block added", "id", b.ID, "type", b.Type)
	return b, nil
}

// RemoveBlock deletes the block with id. A run in progress is unaffected:
// it executes the list as it was when it started.
func (w *Workspace) RemoveBlock(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrBlockNotFound, id)
	}
	w.blocks = slices.Delete(w.blocks, i, i+1)
	w.logger.Debug("block removed", "id", id)
	return nil
}

// UpdateBlock replaces the value of the block with id. Edits are refused
// while a run is in progress; an edit racing Run either lands before the run
// copies the list or is refused.
func (w *Workspace) UpdateBlock(id string, value any) error {
	w.startMu.Lock()
	defer w.startMu.Unlock()
	if w.engine.Executing() {
		return domain.ErrRunActive
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrBlockNotFound, id)
	}
	w.blocks[i].Value = value
	return nil
}

// MoveBlock moves the block with id to position to (0-based, clamped).
func (w *Workspace) MoveBlock(id string, to int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", domain.ErrBlockNotFound, id)
	}
	b := w.blocks[i]
	w.blocks = slices.Delete(w.blocks, i, i+1)
	to = max(0, min(to, len(w.blocks)))
	w.blocks = slices.Insert(w.blocks, to, b)
	return nil
}

// Blocks returns a copy of the block list.
func (w *Workspace) Blocks() []domain.Block {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.blocks)
}

// SetBlocks replaces the whole block list.
func (w *Workspace) SetBlocks(blocks []domain.Block) {
	w.mu.Lock()
	w.blocks = slices.Clone(blocks)
	w.mu.Unlock()
}

func (w *Workspace) indexLocked(id string) int {
	return slices.IndexFunc(w.blocks, func(b domain.Block) bool { return b.ID == id })
}

// Config returns a copy of the robot configuration.
func (w *Workspace) Config() config.Robot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.robot.Clone()
}

// UpdateConfig merges a partial update into the robot configuration.
func (w *Workspace) UpdateConfig(updates map[string]any) (config.Robot, error) {
	return w.editConfig(func(r *config.Robot) error { return r.Merge(updates) })
}

// SelectArchetype switches the robot body plan.
func (w *Workspace) SelectArchetype(a domain.Archetype) (config.Robot, error) {
	return w.editConfig(func(r *config.Robot) error { return r.SelectArchetype(a) })
}

// ApplyPreset loads the typical parameters of the current archetype.
func (w *Workspace) ApplyPreset() (config.Robot, error) {
	return w.editConfig(func(r *config.Robot) error { return r.ApplyPreset() })
}

// SetSensor fits or removes a sensor.
func (w *Workspace) SetSensor(name string, fitted bool) (config.Robot, error) {
	return w.editConfig(func(r *config.Robot) error { return r.SetSensor(name, fitted) })
}

func (w *Workspace) editConfig(fn func(*config.Robot) error) (config.Robot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	next := w.robot.Clone()
	if err := fn(&next); err != nil {
		return w.robot.Clone(), err
	}
	w.robot = next
	return next.Clone(), nil
}

// Program returns the workspace contents as a program document.
func (w *Workspace) Program() *program.Program {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return &program.Program{Robot: w.robot.Clone(), Blocks: slices.Clone(w.blocks)}
}

// Load replaces the robot configuration and the block list with p's.
func (w *Workspace) Load(p *program.Program) error {
	if err := p.Robot.Validate(); err != nil {
		return err
	}
	w.mu.Lock()
	w.robot = p.Robot.Clone()
	w.blocks = slices.Clone(p.Blocks)
	w.mu.Unlock()

	w.logger.Debug("program loaded", "blocks", len(p.Blocks))
	return nil
}

// Run executes the current block list, superseding any run in progress.
// Engine hooks fire before Run returns and must not call Run or UpdateBlock.
func (w *Workspace) Run() (*robotstudio.Run, error) {
	w.startMu.Lock()
	defer w.startMu.Unlock()

	blocks := w.Blocks()
	if len(blocks) == 0 {
		return nil, domain.ErrEmptyProgram
	}
	for _, issue := range program.Validate(blocks) {
		w.logger.Warn("program issue", "index", issue.Index, "id", issue.BlockID, "severity", issue.Severity, "reason", issue.Reason)
	}
	return w.engine.Run(blocks), nil
}

// Stop cancels the run in progress, if any.
func (w *Workspace) Stop() {
	w.engine.Stop()
}

// Log returns the execution log of the latest run.
func (w *Workspace) Log() []string {
	return w.engine.Log()
}
