package fs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// TempFilePrefix marks the scratch files a save creates next to its target.
// The watcher ignores them.
const TempFilePrefix = "shelf-tmp-"

// writeLinesAtomic replaces filename with lines, one per row, each ending in
// '\n'. The records are streamed into a temp file in the same directory,
// synced, and renamed over the target, so readers see either the old file or
// the complete new one. It returns the number of bytes written.
func writeLinesAtomic(filename string, lines []string, perm os.FileMode) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(filename), TempFilePrefix+"*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after the rename

	w := bufio.NewWriter(tmp)
	var n int64
	for _, l := range lines {
		written, err := w.WriteString(l)
		n += int64(written)
		if err == nil {
			err = w.WriteByte('\n')
			n++
		}
		if err != nil {
			tmp.Close()
			return 0, fmt.Errorf("failed to write record to temp file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("failed to flush temp file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return 0, fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return 0, fmt.Errorf("failed to replace %s: %w", filename, err)
	}
	return n, nil
}
