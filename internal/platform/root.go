package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/shelf/pkg/adapters/fs"
)

// FindRoot recursively looks upwards for a directory holding catalog data.
// Indicators are the given marker files, or the default books and users
// files when none are given. Returns the absolute path of the first match.
func FindRoot(startDir string, markers ...string) (string, error) {
	if len(markers) == 0 {
		markers = []string{fs.DefaultBooksFile, fs.DefaultUsersFile}
	}

	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, m := range markers {
			if hasFile(dir, m) {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no catalog found above %s", abs)
}

func hasFile(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}
