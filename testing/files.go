package testing

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/dargueta/rleanim/imagesource"
	"github.com/stretchr/testify/require"
)

// WritePNGFixtures saves each pixel buffer as a PNG file in dir and returns the
// paths in the same order. If dir is empty, a temporary directory is used.
func WritePNGFixtures(
	t *testing.T, dir string, width, height uint32, frames ...[]byte,
) []string {
	if dir == "" {
		dir = t.TempDir()
	}

	paths := make([]string, len(frames))
	for i, pixels := range frames {
		paths[i] = filepath.Join(dir, fmt.Sprintf("fixture-%03d.png", i))
		err := imagesource.SavePNG(paths[i], pixels, width, height)
		require.NoErrorf(t, err, "failed to write fixture %q", paths[i])
	}
	return paths
}
