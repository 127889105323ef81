package report

import (
	"encoding/json"
	"os"
	"path/filepath"

	"codeberg.org/mutker/laserscanqa/internal/errors"
)

const defaultFilePerm = 0o644

// Save writes r to path as indented JSON. The file is written next to its
// destination and renamed into place, so readers never see a partial report.
func Save(r *Report, path string) error {
	errFactory := errors.New()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errFactory.Wrap(ErrWriteFailed, err)
	}
	if err := tmp.Chmod(defaultFilePerm); err != nil {
		tmp.Close()
		return errFactory.Wrap(ErrWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}
	committed = true

	return nil
}

// Load reads a report previously written by Save.
func Load(path string) (*Report, error) {
	errFactory := errors.New()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errFactory.Wrap(ErrReadFailed, err)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errFactory.Wrap(ErrInvalid, err)
	}

	return &r, nil
}
