package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_RoundTrip(t *testing.T) {
	e := New(branchingGame(), nil)
	_, err := e.ApplyChoice("left")
	require.NoError(t, err)
	_, err = e.ApplyChoice("press_on")
	require.NoError(t, err)

	before := e.Snapshot()

	// Through JSON, the way a persistence adapter would carry it.
	data, err := json.Marshal(e.ToRecord())
	require.NoError(t, err)

	var rec Record
	require.NoError(t, json.Unmarshal(data, &rec))

	restored, err := FromRecord(&rec)
	require.NoError(t, err)
	after := restored.Snapshot()

	assert.Equal(t, before.Scene, after.Scene)
	assert.Equal(t, before.GameOver, after.GameOver)
	assert.Equal(t, before.EndingTag, after.EndingTag)
	assert.Equal(t, before.State.Score, after.State.Score)
	assert.Equal(t, before.State.Stats, after.State.Stats)
	assert.Equal(t, before.State.CurrentSceneID, after.State.CurrentSceneID)
	require.Len(t, after.State.History, len(before.State.History))
	for i := range before.State.History {
		assert.Equal(t, before.State.History[i].ChoiceID, after.State.History[i].ChoiceID)
		assert.Equal(t, before.State.History[i].DeltaScore, after.State.History[i].DeltaScore)
	}
}

func TestRecord_RoundTripContinuesRun(t *testing.T) {
	e := New(branchingGame(), nil)
	_, err := e.ApplyChoice("left")
	require.NoError(t, err)

	data, err := json.Marshal(e.ToRecord())
	require.NoError(t, err)
	var rec Record
	require.NoError(t, json.Unmarshal(data, &rec))
	restored, err := FromRecord(&rec)
	require.NoError(t, err)

	snap, err := restored.ApplyChoice("press_on")
	require.NoError(t, err)
	assert.Equal(t, 8, snap.State.Score)
	assert.Equal(t, "crossroads", snap.State.CurrentSceneID)
}

func TestFromRecord_MissingParts(t *testing.T) {
	_, err := FromRecord(nil)
	assert.Error(t, err)

	e := New(twoSceneGame(), nil)
	rec := e.ToRecord()
	rec.State = nil
	_, err = FromRecord(rec)
	assert.Error(t, err)
}
