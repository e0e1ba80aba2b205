package privilege_test

import (
	"os"
	"strconv"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codename-B/OneText/pkg/errors"
	"github.com/codename-B/OneText/pkg/filesystem"
	"github.com/codename-B/OneText/pkg/privilege"
	"github.com/codename-B/OneText/pkg/testutil"
)

func TestAcquireAndRelease(t *testing.T) {
	fs := testutil.NewFS()
	pather := &testutil.MockPaths{}

	session, err := privilege.Acquire(fs, pather, "/test/apps/OneText")
	require.NoError(t, err)
	assert.True(t, testutil.Exists(fs, "/test/state/session.lock"))
	assert.False(t, testutil.Exists(fs, "/.onetext-setup-probe"), "probe file cleaned up")

	session.Release()
	assert.False(t, testutil.Exists(fs, "/test/state/session.lock"))
}

func TestAcquire_SecondSessionRefused(t *testing.T) {
	fs := testutil.NewFS()
	pather := &testutil.MockPaths{}
	// The parent process is a live pid that is not us
	testutil.WriteFile(t, fs, "/test/state/session.lock", strconv.Itoa(os.Getppid()))

	_, err := privilege.Acquire(fs, pather, "/test/apps/OneText")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSessionLock))
}

func TestAcquire_StaleLockCleared(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"dead pid", "999999999"},
		{"own pid", strconv.Itoa(os.Getpid())},
		{"garbage", "not-a-pid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := testutil.NewFS()
			pather := &testutil.MockPaths{}
			testutil.WriteFile(t, fs, "/test/state/session.lock", tt.content)

			session, err := privilege.Acquire(fs, pather, "/test/apps/OneText")
			require.NoError(t, err)
			session.Release()
		})
	}
}

func TestAcquire_UnwritableTarget(t *testing.T) {
	fs := filesystem.NewAferoFS(afero.NewReadOnlyFs(afero.NewMemMapFs()))
	pather := &testutil.MockPaths{}

	_, err := privilege.Acquire(fs, pather, "/test/apps/OneText")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPrivilege))
}

func TestRelease_Twice(t *testing.T) {
	fs := testutil.NewFS()
	pather := &testutil.MockPaths{}

	session, err := privilege.Acquire(fs, pather, "/test/apps/OneText")
	require.NoError(t, err)
	session.Release()
	session.Release()
}
