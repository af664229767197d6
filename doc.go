/*
Package robotstudio is a block-program execution engine for a simulated robot.

A program is an ordered list of instruction blocks (motion commands, waits,
sensor reads, placeholder control and AI blocks). The engine drives a single
simulated robot state forward in time, block by block, and keeps an
append-only execution log of what it did. Runs are asynchronous: Run returns at
once, Stop cancels cooperatively, and starting a new run supersedes the
previous one.

# Key Features

  - Deterministic Timing: The suspension primitive and noise source are injectable.
  - Frames: Every state change is published as a Frame through lifecycle hooks.
  - Snapshot Stores: Frames can be mirrored into memory or Redis for remote renderers.
  - Observability: Prometheus metrics and structured logging through hooks.

# Usage

	package main

	import (
		"context"
		"fmt"

		"github.com/aretw0/robotstudio"
		"github.com/aretw0/robotstudio/pkg/catalog"
		"github.com/aretw0/robotstudio/pkg/domain"
	)

	func main() {
		eng := robotstudio.New()

		speed, _ := catalog.NewBlock(catalog.Motion, domain.BlockSetWheelSpeed)
		speed.Value = 0.8
		move, _ := catalog.NewBlock(catalog.Motion, domain.BlockMoveForward)

		run := eng.Run([]domain.Block{speed, move})
		outcome, _ := run.Wait(context.Background())

		for _, line := range eng.Log() {
			fmt.Println(line)
		}
		fmt.Println(outcome)
	}
*/
package robotstudio
