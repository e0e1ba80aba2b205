package hashutil

import (
	"crypto/sha256"
	"fmt"

	"github.com/codename-B/OneText/pkg/types"
)

// Checksum calculates the SHA256 checksum of a file through the
// injected filesystem
func Checksum(fs types.FS, path string) (string, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("sha256:%x", sha256.Sum256(data)), nil
}
