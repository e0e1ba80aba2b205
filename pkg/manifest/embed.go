package manifest

import (
	_ "embed"
	"errors"
)

//go:embed embedded/onetext.toml
var defaultManifest []byte

// DefaultContent returns the embedded starter manifest. genmanifest
// writes it out verbatim so its comments survive.
func DefaultContent() string {
	return string(defaultManifest)
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}
