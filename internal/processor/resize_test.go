package processor

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imgresize/internal/logging"
	"imgresize/internal/policy"
	"imgresize/pkg/imgutil"
)

func candidateFor(t *testing.T, path string) Candidate {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	ext, _ := extension(filepath.Base(path))
	return Candidate{Path: path, Ext: ext, Size: info.Size()}
}

func TestResizeFileShrinksToFit(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "big.png")
	writeNoiseImage(t, path, 400, 300)

	res := ResizeFile(candidateFor(t, path), testSettings(t, root, nil), logging.Nop())
	require.NoError(t, res.Err)

	assert.Equal(t, OutcomeResized, res.Outcome)
	assert.Equal(t, imgutil.KindPNG, res.Kind)
	assert.Equal(t, 400, res.Width)
	assert.Equal(t, 300, res.Height)
	assert.False(t, res.InPlace)

	w, h, format := decodedSize(t, path)
	assert.Equal(t, "png", format)
	assert.LessOrEqual(t, w, 192)
	assert.LessOrEqual(t, h, 108)
	assert.Equal(t, 108, h, "height is the limiting bound for 4:3 in 16:9")
	assert.InDelta(t, float64(h)*4/3, float64(w), 1)
	assert.Equal(t, res.NewWidth, w)
	assert.Equal(t, res.NewHeight, h)

	leftovers, err := filepath.Glob(filepath.Join(root, ".*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestResizeFileKeepsJPEGFormat(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "wide.jpg")
	writeNoiseImage(t, path, 800, 200)

	res := ResizeFile(candidateFor(t, path), testSettings(t, root, nil), logging.Nop())
	require.NoError(t, res.Err)
	assert.Equal(t, OutcomeResized, res.Outcome)

	w, h, format := decodedSize(t, path)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 192, w)
	assert.InDelta(t, 48, h, 1)
	assert.Greater(t, res.Size-res.BytesAfter, int64(0))
}

func TestResizeFileSkipsFittingImage(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "small.png")
	writeNoiseImage(t, path, 100, 50)
	before := fileHash(t, path)

	res := ResizeFile(candidateFor(t, path), testSettings(t, root, nil), logging.Nop())

	assert.Equal(t, OutcomeSkippedDimensions, res.Outcome)
	assert.NoError(t, res.Err)
	assert.Equal(t, before, fileHash(t, path))
}

func TestResizeFileBoundaryIsInclusive(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "exact.png")
	writeNoiseImage(t, path, 192, 108)
	before := fileHash(t, path)

	res := ResizeFile(candidateFor(t, path), testSettings(t, root, nil), logging.Nop())

	assert.Equal(t, OutcomeSkippedDimensions, res.Outcome)
	assert.Equal(t, before, fileHash(t, path))
}

func TestResizeFileCorruptLeavesBytes(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "broken.png")
	writeBytes(t, path, 4096)
	before := fileHash(t, path)

	res := ResizeFile(candidateFor(t, path), testSettings(t, root, nil), logging.Nop())

	assert.Equal(t, OutcomeError, res.Outcome)
	assert.Equal(t, StageDecode, res.Stage)
	assert.Error(t, res.Err)
	assert.Equal(t, before, fileHash(t, path))
}

func TestResizeFileMissingFile(t *testing.T) {
	root := t.TempDir()
	c := Candidate{Path: filepath.Join(root, "gone.png"), Ext: "png", Size: 1000}

	res := ResizeFile(c, testSettings(t, root, nil), logging.Nop())

	assert.Equal(t, OutcomeError, res.Outcome)
	assert.Equal(t, StageRead, res.Stage)
}

func TestResizeFileClearsReadOnly(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "locked.png")
	writeNoiseImage(t, path, 400, 300)
	require.NoError(t, os.Chmod(path, 0o444))

	res := ResizeFile(candidateFor(t, path), testSettings(t, root, nil), logging.Nop())
	require.NoError(t, res.Err)

	assert.Equal(t, OutcomeResized, res.Outcome)
	assert.Equal(t, PermissionCleared, res.Permission)
	assert.NoError(t, res.PermissionErr)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestResizeFileKeepsPermissionBits(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "shared.png")
	writeNoiseImage(t, path, 400, 300)
	require.NoError(t, os.Chmod(path, 0o640))

	res := ResizeFile(candidateFor(t, path), testSettings(t, root, nil), logging.Nop())
	require.NoError(t, res.Err)
	assert.Equal(t, PermissionNotNeeded, res.Permission)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestResizeFileAspectRatio(t *testing.T) {
	sizes := [][2]int{{400, 300}, {300, 400}, {1000, 100}, {97, 1013}, {250, 250}}
	for _, size := range sizes {
		root := t.TempDir()
		path := filepath.Join(root, "img.png")
		writeNoiseImage(t, path, size[0], size[1])

		res := ResizeFile(candidateFor(t, path), testSettings(t, root, nil), logging.Nop())
		require.NoError(t, res.Err)
		require.Equal(t, OutcomeResized, res.Outcome)

		w, h, _ := decodedSize(t, path)
		assert.LessOrEqual(t, w, 192)
		assert.LessOrEqual(t, h, 108)
		assert.True(t, w == 192 || h == 108, "one side meets its bound: %dx%d", w, h)

		if w == 192 {
			exact := 192 * float64(size[1]) / float64(size[0])
			assert.LessOrEqual(t, math.Abs(exact-float64(h)), 1.0, "%v -> %dx%d", size, w, h)
		} else {
			exact := 108 * float64(size[0]) / float64(size[1])
			assert.LessOrEqual(t, math.Abs(exact-float64(w)), 1.0, "%v -> %dx%d", size, w, h)
		}

		fitW, fitH := policy.FitDimensions(size[0], size[1], 192, 108)
		assert.InDelta(t, fitW, w, 1)
		assert.InDelta(t, fitH, h, 1)
	}
}

func TestResizeFileWritesThroughSymlink(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(t.TempDir(), "orig.png")
	writeNoiseImage(t, target, 400, 300)
	link := filepath.Join(root, "link.png")
	require.NoError(t, os.Symlink(target, link))

	res := ResizeFile(candidateFor(t, link), testSettings(t, root, nil), logging.Nop())
	require.NoError(t, res.Err)
	assert.Equal(t, OutcomeResized, res.Outcome)

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "link is kept")
	dest, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, target, dest)

	w, h, _ := decodedSize(t, target)
	assert.LessOrEqual(t, w, 192)
	assert.LessOrEqual(t, h, 108)

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(target), ".*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestResizeFilePermissionFailureStillWrites(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "locked.png")
	writeNoiseImage(t, path, 400, 300)
	require.NoError(t, os.Chmod(path, 0o444))

	refused := errors.New("operation not permitted")
	var chmodCalls int
	chmod = func(string, os.FileMode) error {
		chmodCalls++
		return refused
	}
	t.Cleanup(func() { chmod = os.Chmod })

	res := ResizeFile(candidateFor(t, path), testSettings(t, root, nil), logging.Nop())

	assert.Equal(t, 1, chmodCalls)
	assert.Equal(t, PermissionFailed, res.Permission)
	assert.ErrorIs(t, res.PermissionErr, refused)

	// The directory is writable, so the rename still replaces the file.
	require.NoError(t, res.Err)
	assert.Equal(t, OutcomeResized, res.Outcome)
	w, h, _ := decodedSize(t, path)
	assert.LessOrEqual(t, w, 192)
	assert.LessOrEqual(t, h, 108)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o444), info.Mode().Perm(), "original bits are carried over")
}
