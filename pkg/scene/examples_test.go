package scene

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExampleScenes(t *testing.T) {
	var paths []string
	for _, pattern := range []string{"*.toml", "*.yaml"} {
		matches, err := filepath.Glob(filepath.Join("..", "..", "examples", pattern))
		require.NoError(t, err)
		paths = append(paths, matches...)
	}
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := LoadFile(path)
			require.NoError(t, err)
			res, err := s.Build()
			require.NoError(t, err)
			assert.Positive(t, res.Output().Len())
		})
	}
}
