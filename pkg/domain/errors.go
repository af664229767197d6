package domain

import "errors"

// ErrBlockNotFound is returned when a block ID is not part of the program.
var ErrBlockNotFound = errors.New("block not found")

// ErrRunActive is returned when an edit is attempted while a run is in progress.
var ErrRunActive = errors.New("run in progress")

// ErrUnknownTemplate is returned when a catalog category/type pair does not exist.
var ErrUnknownTemplate = errors.New("unknown block template")

// ErrUnknownArchetype is returned when a robot archetype is not recognised.
var ErrUnknownArchetype = errors.New("unknown robot archetype")

// ErrSnapshotNotFound is returned when a snapshot store has nothing published yet.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrEmptyProgram is returned when running a workspace that has no blocks.
var ErrEmptyProgram = errors.New("program has no blocks")
