package build

import (
	"os"
	"path/filepath"

	"github.com/pingcap/errors"
)

// CollectInputs expands the given paths into the list of files to parse.
// Files are taken as they are; directories contribute every regular file
// directly inside them whose name ends in `ext` (every file if `ext` is
// empty).  Subdirectories are not entered.
func CollectInputs(paths []string, ext string) ([]string, error) {
	var inputs []string

	for _, path := range paths {
		finfo, err := os.Stat(path)
		if err != nil {
			return nil, errors.Trace(err)
		}

		if !finfo.IsDir() {
			inputs = append(inputs, path)
			continue
		}

		// entries come sorted by name so runs are reproducible
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, errors.Trace(err)
		}

		found := false
		for _, entry := range entries {
			if !entry.Type().IsRegular() || (ext != "" && filepath.Ext(entry.Name()) != ext) {
				continue
			}

			inputs = append(inputs, filepath.Join(path, entry.Name()))
			found = true
		}

		if !found {
			return nil, errors.Errorf("directory '%s' contains no input files", path)
		}
	}

	return inputs, nil
}
