package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codename-B/OneText/pkg/config"
	"github.com/codename-B/OneText/pkg/store"
	"github.com/codename-B/OneText/pkg/testutil"
	"github.com/codename-B/OneText/pkg/types"
)

func TestPlanReportsWithoutMutating(t *testing.T) {
	fs := testutil.NewFS()
	testutil.WritePayload(t, fs, "/payload")
	mem := store.NewMemory()

	result, err := Plan(PlanOptions{
		Payload: "/payload",
		Settings: &config.Settings{
			Store: config.StoreSettings{Backend: config.BackendMemory, Hive: "hkcu"},
		},
		FileSystem: fs,
		Store:      mem,
		Pather:     &testutil.MockPaths{},
	})
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Len(t, result.Files, 4)
	for _, f := range result.Files {
		assert.Equal(t, types.FileWouldWrite, f.Action)
	}
	assert.Len(t, result.Store, 6)
	for _, op := range result.Store {
		assert.Equal(t, types.StatusWouldApply, op.Status)
	}
	assert.Len(t, result.Shortcuts, 1)

	// The plan left no trace
	assert.False(t, testutil.Exists(fs, "/test/apps/OneText"))
	assert.Empty(t, mem.Snapshot())
}

func TestPlanHonorsTaskChoices(t *testing.T) {
	fs := testutil.NewFS()
	testutil.WritePayload(t, fs, "/payload")

	result, err := Plan(PlanOptions{
		Payload:     "/payload",
		TaskChoices: map[string]bool{"txtassoc": false},
		Settings: &config.Settings{
			Store: config.StoreSettings{Backend: config.BackendMemory, Hive: "hkcu"},
		},
		FileSystem: fs,
		Store:      store.NewMemory(),
		Pather:     &testutil.MockPaths{},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Store)
}
