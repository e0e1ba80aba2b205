package deploy_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codename-B/OneText/pkg/deploy"
	"github.com/codename-B/OneText/pkg/errors"
	"github.com/codename-B/OneText/pkg/filesystem"
	"github.com/codename-B/OneText/pkg/types"
)

// recorder captures journal calls for assertions
type recorder struct {
	files    []string
	versions map[string]string
	dirs     []string
}

func (r *recorder) RecordFile(path, version string) error {
	if r.versions == nil {
		r.versions = make(map[string]string)
	}
	r.files = append(r.files, path)
	r.versions[path] = version
	return nil
}

func (r *recorder) RecordDir(path string) error {
	r.dirs = append(r.dirs, path)
	return nil
}

func payloadFS(t *testing.T) types.FS {
	t.Helper()
	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll("payload/assets/themes", 0755))
	require.NoError(t, fs.WriteFile("payload/onetext.exe", []byte("binary"), 0755))
	require.NoError(t, fs.WriteFile("payload/assets/fonts.json", []byte("fonts"), 0644))
	require.NoError(t, fs.WriteFile("payload/assets/themes/dark.json", []byte("dark"), 0644))
	return fs
}

func entries() []types.FileEntry {
	return []types.FileEntry{
		{Source: "onetext.exe", Policy: types.OverwriteAlways},
		{Source: "assets", Recurse: true, Policy: types.OverwriteAlways},
	}
}

func TestDeploy_CopiesAndJournals(t *testing.T) {
	fs := payloadFS(t)
	rec := &recorder{}
	d := deploy.New(fs, rec, nil)

	results, err := d.Deploy(deploy.Options{
		PayloadRoot: "payload",
		InstallDir:  "apps/OneText",
		Version:     "1.4.0",
		Entries:     entries(),
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, result := range results {
		assert.Equal(t, types.FileDeployed, result.Action)
	}

	data, err := fs.ReadFile(filepath.Join("apps", "OneText", "onetext.exe"))
	require.NoError(t, err)
	assert.Equal(t, []byte("binary"), data)

	_, err = fs.Stat(filepath.Join("apps", "OneText", "assets", "themes", "dark.json"))
	assert.NoError(t, err)

	assert.Equal(t, "1.4.0", rec.versions[filepath.Join("apps", "OneText", "onetext.exe")])
	assert.Len(t, rec.files, 3)

	// Created dirs journal shallowest first so reversal, walking
	// backwards, hits children before parents
	require.NotEmpty(t, rec.dirs)
	for i := 1; i < len(rec.dirs); i++ {
		assert.Greater(t, len(rec.dirs[i]), len(rec.dirs[i-1]),
			"dir %q should be deeper than %q", rec.dirs[i], rec.dirs[i-1])
	}
	assert.Contains(t, rec.dirs, filepath.Join("apps", "OneText"))
}

func TestDeploy_ExistingDirsNotJournaled(t *testing.T) {
	fs := payloadFS(t)
	require.NoError(t, fs.MkdirAll("apps/OneText/assets/themes", 0755))
	rec := &recorder{}
	d := deploy.New(fs, rec, nil)

	_, err := d.Deploy(deploy.Options{
		PayloadRoot: "payload",
		InstallDir:  "apps/OneText",
		Version:     "1.4.0",
		Entries:     entries(),
	})
	require.NoError(t, err)
	assert.Empty(t, rec.dirs, "nothing was created, nothing to reverse")
}

func TestDeploy_DestOverride(t *testing.T) {
	fs := payloadFS(t)
	d := deploy.New(fs, &recorder{}, nil)

	_, err := d.Deploy(deploy.Options{
		PayloadRoot: "payload",
		InstallDir:  "apps/OneText",
		Version:     "1.4.0",
		Entries: []types.FileEntry{
			{Source: "onetext.exe", Dest: "bin/onetext.exe"},
		},
	})
	require.NoError(t, err)

	_, err = fs.Stat(filepath.Join("apps", "OneText", "bin", "onetext.exe"))
	assert.NoError(t, err)
}

func TestDeploy_AlwaysOverwrites(t *testing.T) {
	fs := payloadFS(t)
	require.NoError(t, fs.MkdirAll("apps/OneText", 0755))
	require.NoError(t, fs.WriteFile("apps/OneText/onetext.exe", []byte("stale"), 0644))
	d := deploy.New(fs, &recorder{}, nil)

	results, err := d.Deploy(deploy.Options{
		PayloadRoot: "payload",
		InstallDir:  "apps/OneText",
		Version:     "1.4.0",
		Entries:     []types.FileEntry{{Source: "onetext.exe", Policy: types.OverwriteAlways}},
	})
	require.NoError(t, err)
	assert.Equal(t, types.FileDeployed, results[0].Action)

	data, err := fs.ReadFile("apps/OneText/onetext.exe")
	require.NoError(t, err)
	assert.Equal(t, []byte("binary"), data)
}

func TestDeploy_IfNewerVersion(t *testing.T) {
	dest := filepath.Join("apps", "OneText", "onetext.exe")

	tests := []struct {
		name      string
		incoming  string
		prior     string
		destBytes string
		want      types.FileAction
	}{
		{"older incoming skips", "1.3.0", "1.4.0", "stale", types.FileSkipped},
		{"equal incoming skips", "1.4.0", "1.4.0", "stale", types.FileSkipped},
		{"newer incoming deploys", "1.5.0", "1.4.0", "stale", types.FileDeployed},
		{"no prior, identical bytes skip", "1.4.0", "", "binary", types.FileSkipped},
		{"no prior, different bytes deploy", "1.4.0", "", "stale", types.FileDeployed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := payloadFS(t)
			require.NoError(t, fs.MkdirAll("apps/OneText", 0755))
			require.NoError(t, fs.WriteFile(dest, []byte(tt.destBytes), 0644))

			prior := map[string]string{}
			if tt.prior != "" {
				prior[dest] = tt.prior
			}

			d := deploy.New(fs, &recorder{}, nil)
			results, err := d.Deploy(deploy.Options{
				PayloadRoot: "payload",
				InstallDir:  "apps/OneText",
				Version:     tt.incoming,
				Entries:     []types.FileEntry{{Source: "onetext.exe", Policy: types.OverwriteIfNewer}},
				Prior:       prior,
			})
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, tt.want, results[0].Action)

			if tt.want == types.FileSkipped {
				data, err := fs.ReadFile(dest)
				require.NoError(t, err)
				assert.Equal(t, []byte(tt.destBytes), data, "skip must not touch destination bytes")
			}
		})
	}
}

func TestDeploy_MissingDestinationDeploysRegardlessOfVersion(t *testing.T) {
	fs := payloadFS(t)
	d := deploy.New(fs, &recorder{}, nil)

	results, err := d.Deploy(deploy.Options{
		PayloadRoot: "payload",
		InstallDir:  "apps/OneText",
		Version:     "0.1.0",
		Entries:     []types.FileEntry{{Source: "onetext.exe", Policy: types.OverwriteIfNewer}},
		Prior:       map[string]string{filepath.Join("apps", "OneText", "onetext.exe"): "9.0.0"},
	})
	require.NoError(t, err)
	assert.Equal(t, types.FileDeployed, results[0].Action,
		"a missing destination always deploys; the journal record is stale")
}

func TestDeploy_DryRun(t *testing.T) {
	fs := payloadFS(t)
	d := deploy.New(fs, nil, nil)

	results, err := d.Deploy(deploy.Options{
		PayloadRoot: "payload",
		InstallDir:  "apps/OneText",
		Version:     "1.4.0",
		Entries:     entries(),
		DryRun:      true,
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, result := range results {
		assert.Equal(t, types.FileWouldWrite, result.Action)
	}

	_, err = fs.Stat("apps/OneText")
	assert.Error(t, err, "dry run must not create anything")
}

func TestDeploy_MissingPayloadEntry(t *testing.T) {
	fs := payloadFS(t)
	d := deploy.New(fs, &recorder{}, nil)

	_, err := d.Deploy(deploy.Options{
		PayloadRoot: "payload",
		InstallDir:  "apps/OneText",
		Version:     "1.4.0",
		Entries:     []types.FileEntry{{Source: "nope.dll"}},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPayloadMissing))
}

func TestDeploy_RecurseOnFile(t *testing.T) {
	fs := payloadFS(t)
	d := deploy.New(fs, &recorder{}, nil)

	_, err := d.Deploy(deploy.Options{
		PayloadRoot: "payload",
		InstallDir:  "apps/OneText",
		Version:     "1.4.0",
		Entries:     []types.FileEntry{{Source: "onetext.exe", Recurse: true}},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPayloadMissing))
}

func TestDeploy_DirEntryWithoutRecurse(t *testing.T) {
	fs := payloadFS(t)
	d := deploy.New(fs, &recorder{}, nil)

	_, err := d.Deploy(deploy.Options{
		PayloadRoot: "payload",
		InstallDir:  "apps/OneText",
		Version:     "1.4.0",
		Entries:     []types.FileEntry{{Source: "assets"}},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPayloadMissing))
}
