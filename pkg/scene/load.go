package scene

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/texgraph/pkg/errors"
)

// Format is a scene file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown scene extension %q (want .toml, .yaml or .yml)", filepath.Ext(path)).
		With("path", path)
}

// ParseFormat accepts "toml", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown scene format %q", s).With("format", s)
}

// Parse decodes and validates a scene. Unknown keys are errors in both
// formats.
func Parse(data []byte, format Format) (*Scene, error) {
	var s Scene
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &s)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "parse toml scene")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			key := undecoded[0].String()
			return nil, errors.New(errors.ErrCodeInvalidScene, "unknown key %q", key).With("key", key)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "parse yaml scene")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown scene format %q", format).With("format", string(format))
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Read parses a scene from r.
func Read(r io.Reader, format Format) (*Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read scene")
	}
	return Parse(data, format)
}

// LoadFile parses the scene at path. Relative paths inside the scene are
// resolved against the scene's directory.
func LoadFile(path string) (*Scene, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read scene %s", path)
	}
	s, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	s.dir = filepath.Dir(path)
	return s, nil
}

// SetDir sets the directory used for relative paths.
func (s *Scene) SetDir(dir string) { s.dir = dir }

func (s *Scene) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || s.dir == "" {
		return path
	}
	return filepath.Join(s.dir, path)
}
