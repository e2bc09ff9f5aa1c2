package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRestoreSession_HappyPath(t *testing.T) {
	t.Parallel()
	current := []TrackedTitle{tracked(1, "local", watchedOpt)}
	session := NewRestoreSession(current)
	assert.Equal(t, StageIdle, session.Stage())

	backup := `{"favorites": [{"mal_id": 1, "title": "from backup", "isFavorite": true}, {"mal_id": 2, "title": "new", "isFavorite": true}]}`
	assert.NoError(t, session.Load([]byte(backup)))
	assert.Equal(t, StageLoaded, session.Stage())
	assert.Equal(t, []int{1}, session.Result().ConflictIDs())

	assert.NoError(t, session.SetMode(ResolveAllUnwatched))
	assert.Equal(t, StageResolving, session.Stage())

	final, err := session.Finalize()
	assert.NoError(t, err)
	assert.Equal(t, StageDone, session.Stage())
	assert.Equal(t, []int{1, 2}, displayIDs(final))
	assert.False(t, final[0].Watched)
}

func TestRestoreSession_MalformedBackupLeavesIdle(t *testing.T) {
	t.Parallel()
	session := NewRestoreSession(nil)

	err := session.Load([]byte(`{"nothing": "here"}`))
	var malformed *MalformedBackupError
	assert.ErrorAs(t, err, &malformed)
	assert.Equal(t, StageIdle, session.Stage())
}

func TestRestoreSession_StageOrderEnforced(t *testing.T) {
	t.Parallel()
	session := NewRestoreSession(nil)

	// Out of order: resolve and finalize before load.
	assert.Error(t, session.SetMode(ResolveAllWatched))
	_, err := session.Finalize()
	assert.Error(t, err)

	assert.NoError(t, session.Load([]byte(`[{"mal_id": 1, "isFavorite": true}]`)))

	// Load twice is rejected.
	assert.Error(t, session.Load([]byte(`[{"mal_id": 2, "isFavorite": true}]`)))

	assert.NoError(t, session.SetMode(ResolveAllWatched))
	_, err = session.Finalize()
	assert.NoError(t, err)

	// Finalize twice is rejected.
	_, err = session.Finalize()
	assert.Error(t, err)
}

func TestRestoreSession_ToggleOnlyDuringManualResolution(t *testing.T) {
	t.Parallel()
	current := []TrackedTitle{tracked(1, "local")}
	session := NewRestoreSession(current)
	assert.NoError(t, session.Load([]byte(`[{"mal_id": 1, "isFavorite": true}]`)))

	// Loaded but not resolving yet.
	assert.Error(t, session.ToggleWatched(1))

	assert.NoError(t, session.SetMode(ResolveManual))
	assert.NoError(t, session.ToggleWatched(1))
	assert.Error(t, session.ToggleWatched(42), "not a conflict id")

	final, err := session.Finalize()
	assert.NoError(t, err)
	assert.True(t, final[0].Watched)
}

func TestRestoreSession_ToggleRejectedInBulkMode(t *testing.T) {
	t.Parallel()
	current := []TrackedTitle{tracked(1, "local")}
	session := NewRestoreSession(current)
	assert.NoError(t, session.Load([]byte(`[{"mal_id": 1, "isFavorite": true}]`)))
	assert.NoError(t, session.SetMode(ResolveAllWatched))

	assert.Error(t, session.ToggleWatched(1))
}
