package synthstate_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	synthstate "github.com/HiceS/synth-state"
)

func TestSnapshotCounters(t *testing.T) {
	m := synthstate.New(Idle)
	m.AddPath(Idle, Loading, Ready)
	require.NoError(t, m.SetStateTimeout(Loading, 100*time.Millisecond, synthstate.ExpireTo(Ready)))

	snap := m.Snapshot()

	assert.Equal(t, 3, snap.TotalStates)
	assert.Equal(t, 2, snap.TotalTransitions)
	assert.Equal(t, 1, snap.StatesWithTimeouts)
	assert.Zero(t, snap.ActiveTimers)

	assert.Equal(t, "Idle", snap.Current)
	assert.Equal(t, "Idle", snap.Previous)
	assert.Equal(t, "Idle", snap.Initial)
}

func TestSnapshotStateDetail(t *testing.T) {
	m := synthstate.New(Idle)
	m.AddPath(Idle, Loading, Ready)
	m.On(Loading, func(from, to State) {})
	require.NoError(t, m.SetStateTimeout(Loading, 100*time.Millisecond,
		synthstate.ExpireTo(Ready),
		synthstate.OnExpire(func(state State) {})))

	snap := m.Snapshot()

	loading := snap.States["Loading"]
	assert.Equal(t, []string{"Ready"}, loading.ToStates)
	assert.Equal(t, []string{"Idle"}, loading.FromStates)
	assert.Equal(t, 1, loading.CallbackCount)
	require.NotNil(t, loading.Timeout)
	assert.Equal(t, 100*time.Millisecond, loading.Timeout.Duration)
	assert.Equal(t, "Ready", loading.Timeout.ExpireTarget)
	assert.True(t, loading.Timeout.HasHandler)
	assert.False(t, loading.Timeout.Active)

	ready := snap.States["Ready"]
	assert.Empty(t, ready.ToStates)
	assert.Equal(t, []string{"Loading"}, ready.FromStates)
	assert.Nil(t, ready.Timeout)
	assert.Zero(t, ready.CallbackCount)
}

func TestSnapshotTracksPosition(t *testing.T) {
	m := synthstate.New(Idle)
	m.AddPath(Idle, Loading, Ready)

	m.Go(Loading)
	snap := m.Snapshot()

	assert.Equal(t, "Loading", snap.Current)
	assert.Equal(t, "Idle", snap.Previous)
	assert.Equal(t, "Idle", snap.Initial)
}

func TestSnapshotSerializes(t *testing.T) {
	m := synthstate.New(Idle)
	m.AddTransition(Idle, Loading)
	require.NoError(t, m.SetStateTimeout(Idle, time.Minute, synthstate.ExpireTo(Loading)))

	raw, err := json.Marshal(m.Snapshot())
	require.NoError(t, err)

	var decoded synthstate.Snapshot
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "Idle", decoded.Current)
	assert.Equal(t, 1, decoded.ActiveTimers)
	assert.True(t, decoded.States["Idle"].Timeout.Active)
}

func TestDisplayString(t *testing.T) {
	m := synthstate.New(Idle)
	m.AddPath(Idle, Loading, Ready)
	m.On(Ready, func(from, to State) {})
	require.NoError(t, m.SetStateTimeout(Loading, 100*time.Millisecond, synthstate.ExpireTo(Ready)))

	m.Go(Loading)
	out := m.DisplayString()

	assert.Contains(t, out, "current: Loading  previous: Idle  initial: Idle")
	assert.Contains(t, out, "* Loading -> [Ready]")
	assert.Contains(t, out, "timeout 100ms -> Ready ACTIVE")
	assert.Contains(t, out, "callbacks: 1")
	assert.Contains(t, out, "3 states, 2 transitions, 1 with timeout, 1 timers active")
}
