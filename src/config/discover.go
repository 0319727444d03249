package config

import (
	"os"
	"path/filepath"

	"github.com/pingcap/errors"
)

// FileName is the name of the config file looked up by Discover
const FileName = "srparse.toml"

// Discover looks for a config file in the given directory and every directory
// above it.  If no config file is found, the return flag is false.  `dir` is
// made absolute before the search.
func Discover(dir string) (string, bool, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false, errors.Trace(err)
	}

	for {
		path := filepath.Join(dir, FileName)

		finfo, err := os.Stat(path)
		if err == nil {
			// some directory named `srparse.toml` instead of a file is skipped
			if !finfo.IsDir() {
				return path, true, nil
			}
		} else if !os.IsNotExist(err) {
			// something else went wrong, report it
			return "", false, errors.Annotatef(err, "looking for %s", FileName)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}

		dir = parent
	}
}

// LoadFrom loads the config file at `path` if it is not empty, otherwise the
// config file discovered from `dir`.  If there is neither, the default config
// is returned.
func LoadFrom(path, dir string) (*Config, error) {
	if path == "" {
		found, ok, err := Discover(dir)
		if err != nil {
			return nil, err
		}

		if !ok {
			return Default(), nil
		}

		path = found
	}

	return Load(path)
}
