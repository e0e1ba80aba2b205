package deploy

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/codename-B/OneText/pkg/errors"
	"github.com/codename-B/OneText/pkg/types"
)

// IsArchive reports whether the payload path names a zip archive
func IsArchive(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zip")
}

// Stage resolves the payload root. A directory payload is used in
// place; a zip payload is extracted under stagingDir first and the
// extraction directory becomes the root. Staging left by an earlier
// run is replaced.
func Stage(fs types.FS, payload, stagingDir string) (string, error) {
	info, err := fs.Stat(payload)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrPayloadMissing, "payload %s not found", payload)
	}
	if info.IsDir() {
		return payload, nil
	}
	if !IsArchive(payload) {
		return "", errors.Newf(errors.ErrPayloadMissing,
			"payload %s is neither a directory nor a zip archive", payload)
	}

	name := strings.TrimSuffix(filepath.Base(payload), filepath.Ext(payload))
	dest := filepath.Join(stagingDir, name)
	if err := fs.RemoveAll(dest); err != nil {
		return "", errors.Wrapf(err, errors.ErrPayloadExtract, "failed to clear staging dir %s", dest)
	}
	if err := ExtractArchive(fs, payload, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// ExtractArchive unpacks a zip payload into destDir through the
// injected FS. Entry paths are sanitized before joining, so a crafted
// archive cannot write outside destDir.
func ExtractArchive(fs types.FS, archivePath, destDir string) error {
	data, err := fs.ReadFile(archivePath)
	if err != nil {
		return errors.Wrapf(err, errors.ErrPayloadMissing, "failed to read archive %s", archivePath)
	}
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return errors.Wrapf(err, errors.ErrPayloadExtract, "failed to open archive %s", archivePath)
	}

	for _, f := range reader.File {
		rel := sanitizeEntry(f.Name)
		if rel == "" {
			continue
		}
		dest := filepath.Join(destDir, filepath.FromSlash(rel))

		if f.FileInfo().IsDir() {
			if err := fs.MkdirAll(dest, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrPayloadExtract, "failed to create %s", dest)
			}
			continue
		}

		if err := fs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return errors.Wrapf(err, errors.ErrPayloadExtract, "failed to create %s", filepath.Dir(dest))
		}

		rc, err := f.Open()
		if err != nil {
			return errors.Wrapf(err, errors.ErrPayloadExtract, "failed to open archive entry %s", f.Name)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return errors.Wrapf(err, errors.ErrPayloadExtract, "failed to read archive entry %s", f.Name)
		}

		perm := f.Mode().Perm()
		if perm == 0 {
			perm = 0644
		}
		if err := fs.WriteFile(dest, content, perm); err != nil {
			return errors.Wrapf(err, errors.ErrPayloadExtract, "failed to write %s", dest)
		}
	}
	return nil
}

// sanitizeEntry normalizes an archive path: forward slashes, drive
// prefix and leading slashes stripped, dot segments resolved without
// escaping the extraction root. An entry that resolves to nothing is
// skipped by the caller. Backslashes count as separators regardless of
// host, since archives built on Windows may use them.
func sanitizeEntry(name string) string {
	s := strings.ReplaceAll(name, `\`, "/")
	if len(s) > 1 && s[1] == ':' {
		s = s[2:]
	}
	s = strings.TrimLeft(s, "/")

	var stack []string
	for _, part := range strings.Split(s, "/") {
		switch part {
		case "", ".":
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, part)
		}
	}
	return strings.Join(stack, "/")
}
