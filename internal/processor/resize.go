package processor

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"imgresize/internal/config"
	"imgresize/internal/policy"
	"imgresize/pkg/imgutil"
)

const defaultFileMode fs.FileMode = 0o644

// chmod is swapped out in tests to force the permission step to fail.
var chmod = os.Chmod

// ResizeFile decodes one candidate, shrinks it to fit the configured bounds
// and writes it back over the original in the format it was read in. A file
// that fails to decode or already fits is left untouched. Per-file failures
// are reported in the Result, never returned.
func ResizeFile(c Candidate, s config.Settings, log *zap.SugaredLogger) (res Result) {
	res = Result{Candidate: c}
	defer func() {
		if r := recover(); r != nil {
			res.Outcome = OutcomeError
			res.Stage = StagePanic
			res.Err = fmt.Errorf("%v", r)
		}
	}()

	// A symlinked candidate is rewritten at its target so the link survives.
	target, err := filepath.EvalSymlinks(c.Path)
	if err != nil {
		return failed(res, StageRead, err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return failed(res, StageRead, err)
	}

	img, kind, err := imgutil.Decode(data)
	if err != nil {
		return failed(res, StageDecode, err)
	}
	res.Kind = kind
	res.Width, res.Height = imgutil.Dimensions(img)

	if !policy.ShouldResize(res.Width, res.Height, s.Width, s.Height) {
		res.Outcome = OutcomeSkippedDimensions
		log.Debugw("skip", "path", c.Path, "reason", res.Outcome.String(),
			"width", res.Width, "height", res.Height)
		return res
	}

	mode, perm, permErr := ensureWritable(target)
	res.Permission, res.PermissionErr = perm, permErr
	switch perm {
	case PermissionCleared:
		log.Debugw("readonly cleared", "path", c.Path, "reason", perm.String())
	case PermissionFailed:
		log.Warnw("could not clear readonly", "path", c.Path, "error", permErr)
	}

	fitW, fitH := policy.FitDimensions(res.Width, res.Height, s.Width, s.Height)
	log.Debugw("resize", "path", c.Path, "reason", OutcomeResized.String(),
		"from", fmt.Sprintf("%dx%d", res.Width, res.Height),
		"to", fmt.Sprintf("%dx%d", fitW, fitH),
		"algorithm", s.Algorithm.Name)

	resized := imgutil.Fit(img, s.Width, s.Height, s.Algorithm.Filter)
	res.NewWidth, res.NewHeight = imgutil.Dimensions(resized)
	res.MetadataDropped = countMetadata(data, kind)
	if res.MetadataDropped > 0 {
		log.Debugw("metadata not carried over", "path", c.Path, "entries", res.MetadataDropped)
	}

	inPlace, err := writeReplace(target, mode, func(w io.Writer) error {
		return imgutil.Encode(w, resized, kind, s.JPEGQuality)
	})
	res.InPlace = inPlace
	if err != nil {
		return failed(res, StageWrite, err)
	}

	if info, err := os.Stat(target); err == nil {
		res.BytesAfter = info.Size()
	}
	res.Outcome = OutcomeResized
	return res
}

func failed(res Result, stage Stage, err error) Result {
	res.Outcome = OutcomeError
	res.Stage = stage
	res.Err = err
	return res
}

// ensureWritable sets the owner write bit on a read-only file. It returns
// the permission bits the rewritten file should carry.
func ensureWritable(path string) (fs.FileMode, Permission, error) {
	info, err := os.Stat(path)
	if err != nil {
		return defaultFileMode, PermissionFailed, err
	}

	mode := info.Mode().Perm()
	if mode&0o200 != 0 {
		return mode, PermissionNotNeeded, nil
	}

	writable := mode | 0o200
	if err := chmod(path, writable); err != nil {
		return mode, PermissionFailed, err
	}
	return writable, PermissionCleared, nil
}
