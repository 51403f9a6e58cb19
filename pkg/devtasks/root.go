package devtasks

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// ProjectMarker identifies the root of the Python project
const ProjectMarker = "setup.py"

// FindProjectRoot returns the closest directory at or above start that contains setup.py
func FindProjectRoot(start string) (string, error) {
	mypath, err := filepath.Abs(start)
	if err != nil {
		return "", eris.Wrapf(err, "failed to resolve %s", start)
	}

	for {
		markerPath := filepath.Join(mypath, ProjectMarker)
		_, err := os.Stat(markerPath)
		if err == nil {
			return mypath, nil
		}

		if !eris.Is(err, os.ErrNotExist) {
			return "", eris.Wrap(err, "Error ocurred while searching for project root")
		}

		nextPath := filepath.Dir(mypath)
		if mypath == nextPath {
			break
		}
		mypath = nextPath
	}

	return "", eris.Errorf("Project root not found: no %s in %s or any parent directory", ProjectMarker, start)
}
