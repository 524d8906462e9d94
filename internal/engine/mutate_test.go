package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbruckner/prtrack/internal/model"
)

func TestDelete_RemovesLocallyAndRemotely(t *testing.T) {
	env := newTestEnv(t)
	fake := newFakeRemote()
	configureFake(t, env, fake)
	ctx := context.Background()

	ex, err := env.engine.CreateExercise(ctx, "Back Squat")
	require.NoError(t, err)
	require.NotEmpty(t, ex.ID)

	require.NoError(t, env.engine.Delete(ctx, model.CollectionExercises, ex.ID))
	assert.Empty(t, env.engine.Exercises())
	assert.Equal(t, 0, fake.count("exercises"))
	assert.Contains(t, fake.deleted, "exercises/"+ex.ID)
}

func TestDelete_UnknownCollection(t *testing.T) {
	env := newTestEnv(t)

	err := env.engine.Delete(context.Background(), "workouts", "some-id")
	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))
}

func TestDelete_EmptyID(t *testing.T) {
	env := newTestEnv(t)

	err := env.engine.Delete(context.Background(), model.CollectionExercises, "")
	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))
}

func TestDelete_MissingIDWarnsButSucceeds(t *testing.T) {
	env := newTestEnv(t)

	err := env.engine.Delete(context.Background(), model.CollectionExercises, "no-such-id")
	require.NoError(t, err)
	env.notices.contains(t, "no entry with id")
}

func TestDelete_RemoteFailureStillRemovesLocally(t *testing.T) {
	env := newTestEnv(t)
	fake := newFakeRemote()
	configureFake(t, env, fake)
	ctx := context.Background()

	ex, err := env.engine.CreateExercise(ctx, "Back Squat")
	require.NoError(t, err)

	fake.deleteErr = true
	require.NoError(t, env.engine.Delete(ctx, model.CollectionExercises, ex.ID))
	assert.Empty(t, env.engine.Exercises())
	env.notices.contains(t, "deleted locally only")
}

func TestDelete_PersistsRemoval(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	date, _ := model.ParseDate("2024-03-01")

	fake := newFakeRemote()
	configureFake(t, env, fake)
	entry, err := env.engine.CreatePR(ctx, model.PREntry{Exercise: "Squat", Date: date, Weight: 130})
	require.NoError(t, err)

	require.NoError(t, env.engine.Delete(ctx, model.CollectionPREntries, entry.ID))

	reloaded := New(env.store)
	reloaded.Hydrate()
	assert.Empty(t, reloaded.PREntries())
}

func TestClearAll_Offline(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	date, _ := model.ParseDate("2024-03-01")

	_, err := env.engine.CreateExercise(ctx, "Back Squat")
	require.NoError(t, err)
	_, err = env.engine.CreatePR(ctx, model.PREntry{Exercise: "Back Squat", Date: date, Weight: 130})
	require.NoError(t, err)
	_, err = env.engine.CreateWeight(ctx, model.WeightEntry{Date: date, Weight: 82})
	require.NoError(t, err)

	env.engine.ClearAll(ctx)

	assert.Empty(t, env.engine.Exercises())
	assert.Empty(t, env.engine.PREntries())
	assert.Empty(t, env.engine.WeightEntries())

	// Local Store entries are gone, not just empty.
	for _, c := range model.Collections() {
		_, ok, err := env.store.Load(string(c))
		require.NoError(t, err)
		assert.False(t, ok, "collection %s survived ClearAll", c)
	}
}

func TestClearAll_DeletesRemoteEntities(t *testing.T) {
	env := newTestEnv(t)
	fake := newFakeRemote()
	configureFake(t, env, fake)
	ctx := context.Background()
	date, _ := model.ParseDate("2024-03-01")

	_, err := env.engine.CreateExercise(ctx, "Back Squat")
	require.NoError(t, err)
	_, err = env.engine.CreatePR(ctx, model.PREntry{Exercise: "Back Squat", Date: date, Weight: 130})
	require.NoError(t, err)

	env.engine.ClearAll(ctx)

	assert.Empty(t, env.engine.Exercises())
	assert.Equal(t, 0, fake.count("exercises"))
	assert.Equal(t, 0, fake.count("pr-entries"))
	assert.Len(t, fake.deleted, 2)
}

func TestClearAll_RemoteFailureStillClearsLocal(t *testing.T) {
	env := newTestEnv(t)
	fake := newFakeRemote()
	configureFake(t, env, fake)
	ctx := context.Background()

	_, err := env.engine.CreateExercise(ctx, "Back Squat")
	require.NoError(t, err)

	fake.deleteErr = true
	env.engine.ClearAll(ctx)

	assert.Empty(t, env.engine.Exercises())
	_, ok, err := env.store.Load(string(model.CollectionExercises))
	require.NoError(t, err)
	assert.False(t, ok)
}

// Entities created offline have no remote id; ClearAll must not issue remote
// deletes for them.
func TestClearAll_SkipsLocalOnlyEntities(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.engine.CreateExercise(ctx, "Offline Exercise")
	require.NoError(t, err)

	fake := newFakeRemote()
	env.engine.setRemote(fake)

	env.engine.ClearAll(ctx)
	assert.Empty(t, fake.deleted)
	assert.Empty(t, env.engine.Exercises())
}
