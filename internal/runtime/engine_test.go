package runtime_test

import (
	"context"
	"regexp"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/robotstudio/internal/runtime"
	"github.com/aretw0/robotstudio/internal/testutils"
	"github.com/aretw0/robotstudio/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(opts ...runtime.EngineOption) (*runtime.Engine, *testutils.Recorder) {
	rec := &testutils.Recorder{}
	base := []runtime.EngineOption{
		runtime.WithSleeper(rec.Sleep),
		runtime.WithRandom(testutils.NewFixedRandom(0.5)),
	}
	return runtime.NewEngine(append(base, opts...)...), rec
}

func waitRun(t *testing.T, run *runtime.Run) domain.RunOutcome {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	outcome, err := run.Wait(ctx)
	require.NoError(t, err, "run did not finish in time")
	return outcome
}

func TestEngine_EmptyProgram(t *testing.T) {
	eng, rec := newEngine()

	outcome := waitRun(t, eng.Run(nil))

	assert.Equal(t, domain.OutcomeCompleted, outcome)
	assert.Equal(t, []string{"Execution completed"}, eng.Log())
	assert.False(t, eng.Executing())
	assert.Empty(t, rec.Durations(), "an empty program never suspends")
}

func TestEngine_Scenario_SpeedMoveWait(t *testing.T) {
	frames := &testutils.FrameLog{}
	eng, rec := newEngine(runtime.WithLifecycleHooks(domain.LifecycleHooks{OnFrame: frames.Record}))

	program := []domain.Block{
		testutils.Block(domain.BlockSetWheelSpeed, 0.8),
		testutils.Block(domain.BlockMoveForward, 1),
		testutils.Block(domain.BlockWait, 2),
	}
	outcome := waitRun(t, eng.Run(program))
	require.Equal(t, domain.OutcomeCompleted, outcome)

	assert.Equal(t, []string{
		"[1] Executing: set_wheel_speed",
		"[2] Executing: move_forward",
		"[3] Executing: wait",
		"Execution completed",
	}, eng.Log())

	// Suspensions: settle, 20 decay steps, settle, 2s wait, settle.
	want := []time.Duration{runtime.DefaultSettleDelay}
	for i := 0; i < runtime.MoveSteps; i++ {
		want = append(want, runtime.MoveStepDelay)
	}
	want = append(want, runtime.DefaultSettleDelay, 2*time.Second, runtime.DefaultSettleDelay)
	assert.Equal(t, want, rec.Durations())

	// Frames: reset, set, move line, 20 decays, forced zero, wait line, completion.
	speeds := frames.WheelSpeeds()
	require.Len(t, speeds, 26)
	assert.Equal(t, 0.8, speeds[1])
	assert.Equal(t, 0.8, speeds[2])
	assert.InDelta(t, 0.8*0.95, speeds[3], 1e-9)
	for i := 4; i <= 22; i++ {
		assert.Less(t, speeds[i], speeds[i-1], "decay must be strictly decreasing at frame %d", i)
	}
	assert.Zero(t, speeds[23], "move_forward forces the speed to zero")
	assert.Zero(t, speeds[25])

	final := eng.Snapshot()
	assert.False(t, final.Executing)
	assert.Zero(t, final.WheelSpeed)
	assert.Zero(t, final.ArmRotation)
	assert.Zero(t, final.DroneHeight)
}

func TestEngine_ExecutingLinesMatchProgramOrder(t *testing.T) {
	eng, _ := newEngine()

	program := []domain.Block{
		{Type: domain.BlockSetArmAngle, Label: "Set Arm Angle", Value: 45},
		{Type: domain.BlockReadCamera, Label: "Read Camera"},
		{Type: "teleport", Label: "Mystery"},
		{Type: domain.BlockSetDroneHeight, Label: "Set Drone Height", Value: "3.5"},
		{Type: domain.BlockIfSensor, Label: "If Sensor", Value: 50},
	}
	waitRun(t, eng.Run(program))

	re := regexp.MustCompile(`^\[(\d+)\] Executing: (.*)$`)
	var indices []int
	var labels []string
	for _, line := range eng.Log() {
		if m := re.FindStringSubmatch(line); m != nil {
			n, err := strconv.Atoi(m[1])
			require.NoError(t, err)
			indices = append(indices, n)
			labels = append(labels, m[2])
		}
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, indices)
	assert.Equal(t, []string{"Set Arm Angle", "Read Camera", "Mystery", "Set Drone Height", "If Sensor"}, labels)
}

func TestEngine_FinalStateIsNeutral(t *testing.T) {
	eng, _ := newEngine()

	program := []domain.Block{
		testutils.Block(domain.BlockSetWheelSpeed, 1.2),
		testutils.Block(domain.BlockSetArmAngle, 90),
		testutils.Block(domain.BlockSetDroneHeight, 4),
		testutils.Block(domain.BlockReadDistance, nil),
	}
	waitRun(t, eng.Run(program))

	s := eng.Snapshot()
	assert.False(t, s.Executing)
	assert.Zero(t, s.WheelSpeed)
	assert.Zero(t, s.ArmRotation)
	assert.Zero(t, s.DroneHeight)
	assert.Equal(t, 60.0, s.SensorReadings[domain.SensorDistance], "sensor readings survive the end of a run")
}

func TestEngine_UnknownTypeIsInert(t *testing.T) {
	eng, rec := newEngine()

	waitRun(t, eng.Run([]domain.Block{
		{Type: domain.BlockCustomScript, Label: "Custom Python", Value: "print('hi')"},
		testutils.Block(domain.BlockSetWheelSpeed, 0.3),
	}))

	assert.Equal(t, []string{
		"[1] Executing: Custom Python",
		"[2] Executing: set_wheel_speed",
		"Execution completed",
	}, eng.Log())
	assert.Equal(t, []time.Duration{runtime.DefaultSettleDelay, runtime.DefaultSettleDelay}, rec.Durations())
}

func TestEngine_LogClearedOnEachRun(t *testing.T) {
	eng, _ := newEngine()

	waitRun(t, eng.Run([]domain.Block{testutils.Block(domain.BlockReadCamera, nil)}))
	waitRun(t, eng.Run([]domain.Block{testutils.Block(domain.BlockAIPredict, nil)}))

	assert.Equal(t, []string{
		"[1] Executing: ai_predict",
		"  → AI model prediction: 0.92",
		"Execution completed",
	}, eng.Log())
}

func TestEngine_LifecycleHooks(t *testing.T) {
	var mu sync.Mutex
	var events []string
	record := func(s string) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, s)
	}
	frames := &testutils.FrameLog{}

	hooks := domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, e *domain.RunEvent) {
			record("start:" + strconv.Itoa(e.Blocks))
		},
		OnBlockEnter: func(_ context.Context, e *domain.BlockEvent) {
			record("enter:" + string(e.Block.Type))
		},
		OnBlockLeave: func(_ context.Context, e *domain.BlockEvent) {
			record("leave:" + string(e.Block.Type))
		},
		OnRunFinish: func(_ context.Context, e *domain.RunEvent) {
			record("finish:" + string(e.Outcome))
		},
		OnFrame: frames.Record,
	}
	eng, _ := newEngine(runtime.WithLifecycleHooks(hooks))

	run := eng.Run([]domain.Block{
		testutils.Block(domain.BlockSetWheelSpeed, 1),
		testutils.Block(domain.BlockWait, 0.1),
	})
	waitRun(t, run)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		"start:2",
		"enter:set_wheel_speed", "leave:set_wheel_speed",
		"enter:wait", "leave:wait",
		"finish:completed",
	}, events)

	got := frames.Frames()
	require.NotEmpty(t, got)
	assert.True(t, got[0].ResetLog)
	assert.True(t, got[0].State.Executing)
	for i, f := range got {
		assert.Equal(t, run.Generation, f.Generation)
		if i > 0 {
			assert.Equal(t, got[i-1].Sequence+1, f.Sequence, "frames arrive in commit order")
		}
	}
	last := got[len(got)-1]
	assert.Equal(t, []string{"Execution completed"}, last.Lines)
	assert.False(t, last.State.Executing)
}

func TestEngine_TimeScale(t *testing.T) {
	eng, rec := newEngine(runtime.WithTimeScale(0.1))

	waitRun(t, eng.Run([]domain.Block{testutils.Block(domain.BlockWait, 3)}))

	assert.Equal(t, []time.Duration{300 * time.Millisecond, 50 * time.Millisecond}, rec.Durations())
}

func TestEngine_WaitDurations(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  time.Duration
	}{
		{"explicit seconds", 2, 2 * time.Second},
		{"missing defaults to one second", nil, time.Second},
		{"numeric string", "0.5", 500 * time.Millisecond},
		{"malformed falls back", "soon", time.Second},
		{"negative clamps to zero", -3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, rec := newEngine(runtime.WithSettleDelay(0))
			waitRun(t, eng.Run([]domain.Block{testutils.Block(domain.BlockWait, tt.value)}))
			require.Len(t, rec.Durations(), 2)
			assert.Equal(t, tt.want, rec.Durations()[0])
		})
	}
}
