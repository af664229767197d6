/*
Package runner implements the headless terminal loop around a workspace.

It starts a run, streams frames to a pluggable handler as the engine commits
them, maps SIGINT/SIGTERM to a cooperative Stop (a second signal aborts pending
suspensions), and reports the outcome with the final stats overlay.

# Key Components

  - Runner: The loop. Its Hooks must be installed on the engine it drives.
  - TextHandler: Styled execution console for terminals.
  - JSONHandler: One JSON document per frame, for piping into other tools.

# Usage

	r := runner.NewRunner(runner.WithHandler(runner.NewTextHandler(os.Stdout, false)))
	eng := robotstudio.New(robotstudio.WithLifecycleHooks(r.Hooks()))
	ws := workspace.New(eng, workspace.WithProgram(prog))

	outcome, err := r.Run(ctx, ws)
*/
package runner
