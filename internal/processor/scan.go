package processor

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"imgresize/internal/config"
)

// ScanResult is the materialized output of Scan.
type ScanResult struct {
	Candidates       []Candidate
	SkippedExtension int
	SkippedSize      int
	Errors           int
}

// Scan walks root and returns every regular file whose extension is
// accepted and whose length is above the size threshold. Entries that cannot
// be read are logged and counted; they never abort the walk. Only a missing
// or non-directory root is an error. Nothing is opened or decoded here.
func Scan(root string, s config.Settings, log *zap.SugaredLogger) (ScanResult, error) {
	var res ScanResult

	info, err := os.Stat(root)
	if err != nil {
		return res, err
	}
	if !info.IsDir() {
		return res, fmt.Errorf("%s is not a directory", root)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if d == nil && path == root {
				return walkErr
			}
			res.Errors++
			log.Errorw("scan failed", "path", path, "error", walkErr)
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		ext, ok := extension(d.Name())
		if !ok || !s.AcceptsExtension(ext) {
			res.SkippedExtension++
			log.Debugw("skip", "path", path, "reason", OutcomeSkippedExtension.String())
			return nil
		}

		size, regular, err := entrySize(path, d)
		if err != nil {
			res.Errors++
			log.Errorw("scan failed", "path", path, "error", err)
			return nil
		}
		if !regular {
			return nil
		}

		if uint64(size) <= s.MinSize {
			res.SkippedSize++
			log.Debugw("skip", "path", path, "reason", OutcomeSkippedSize.String())
			return nil
		}

		res.Candidates = append(res.Candidates, Candidate{Path: path, Ext: ext, Size: size})
		return nil
	})
	if err != nil {
		return res, err
	}

	return res, nil
}

// entrySize returns the byte length of a walked entry. Symlinks are resolved
// so a link to a regular file counts as that file; links to directories and
// other special files report regular=false.
func entrySize(path string, d fs.DirEntry) (int64, bool, error) {
	if d.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil {
			return 0, false, err
		}
		return info.Size(), info.Mode().IsRegular(), nil
	}
	if !d.Type().IsRegular() {
		return 0, false, nil
	}
	info, err := d.Info()
	if err != nil {
		return 0, false, err
	}
	return info.Size(), true, nil
}

// extension returns the text after the final dot of name. Names without a
// dot, ending in a dot, or whose only dot is the leading one have none.
func extension(name string) (string, bool) {
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 || idx == len(name)-1 {
		return "", false
	}
	return name[idx+1:], true
}
