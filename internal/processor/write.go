package processor

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// writeReplace writes the output of encode over path. The data goes to a
// temp file in the same directory, which is synced and renamed over the
// original, so readers see either the old file or the new one. When the
// directory refuses new files the encoded bytes are written over the
// original in place and inPlace is true.
func writeReplace(path string, mode fs.FileMode, encode func(io.Writer) error) (inPlace bool, err error) {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".imgresize-*.tmp")
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return true, overwriteInPlace(path, mode, encode)
		}
		return false, err
	}
	defer os.Remove(tmpFile.Name())

	if err := tmpFile.Chmod(mode); err != nil {
		_ = tmpFile.Close()
		return false, err
	}

	if err := encode(tmpFile); err != nil {
		_ = tmpFile.Close()
		return false, err
	}

	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return false, err
	}
	if err := tmpFile.Close(); err != nil {
		return false, err
	}

	return false, replaceFile(tmpFile.Name(), path)
}

// overwriteInPlace encodes into memory first so the original is only
// truncated once the new bytes are known to be good.
func overwriteInPlace(path string, mode fs.FileMode, encode func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := encode(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), mode)
}

// replaceFile renames tmpPath over destPath. Only Windows may refuse to
// rename over an existing file, so only there is the destination removed
// first; elsewhere a failed rename leaves the original in place.
func replaceFile(tmpPath, destPath string) error {
	err := os.Rename(tmpPath, destPath)
	if err == nil || runtime.GOOS != "windows" {
		return err
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}
