package ports

import (
	"context"
	"testing"

	"github.com/aretw0/robotstudio/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore
// implementation adheres to the defined interface contract.
// newStore must return an empty store on every call.
func RunSnapshotStoreContract(t *testing.T, newStore func(t *testing.T) SnapshotStore) {
	ctx := context.Background()

	t.Run("Latest Before Publish", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Latest(ctx)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

		log, err := store.Log(ctx)
		require.NoError(t, err)
		assert.Empty(t, log)
	})

	t.Run("Publish and Latest", func(t *testing.T) {
		store := newStore(t)
		state := domain.NewRobotState()
		state.Executing = true
		state.WheelSpeed = 0.8
		state.SensorReadings[domain.SensorDistance] = 42.5

		require.NoError(t, store.Publish(ctx, &domain.Frame{Sequence: 1, Generation: 1, State: *state, ResetLog: true}))

		latest, err := store.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), latest.Sequence)
		assert.Equal(t, uint64(1), latest.Generation)
		assert.True(t, latest.State.Executing)
		assert.InDelta(t, 0.8, latest.State.WheelSpeed, 1e-9)
		assert.InDelta(t, 42.5, latest.State.SensorReadings[domain.SensorDistance], 1e-9)
	})

	t.Run("Log Accumulates Lines", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Publish(ctx, &domain.Frame{Sequence: 1, ResetLog: true}))
		require.NoError(t, store.Publish(ctx, &domain.Frame{Sequence: 2, Lines: []string{"[1] Executing: Read Distance", "  → Distance: 12.00 cm"}}))
		require.NoError(t, store.Publish(ctx, &domain.Frame{Sequence: 3}))
		require.NoError(t, store.Publish(ctx, &domain.Frame{Sequence: 4, Lines: []string{"Execution completed"}}))

		log, err := store.Log(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"[1] Executing: Read Distance", "  → Distance: 12.00 cm", "Execution completed"}, log)

		latest, err := store.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(4), latest.Sequence)
	})

	t.Run("Reset Clears Log", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Publish(ctx, &domain.Frame{Sequence: 1, Lines: []string{"old"}}))
		require.NoError(t, store.Publish(ctx, &domain.Frame{Sequence: 2, ResetLog: true, Lines: []string{"new"}}))

		log, err := store.Log(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"new"}, log)
	})

	t.Run("Stored Frame Is Isolated", func(t *testing.T) {
		store := newStore(t)
		frame := &domain.Frame{Sequence: 1, State: *domain.NewRobotState(), Lines: []string{"a"}}
		require.NoError(t, store.Publish(ctx, frame))

		frame.Lines[0] = "mutated"
		frame.State.SensorReadings["x"] = 1

		latest, err := store.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, latest.Lines)
		assert.NotContains(t, latest.State.SensorReadings, "x")
	})
}
