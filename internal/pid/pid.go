package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/laserscanqa/internal/errors"
)

// FileName is the lock file created in a locked directory.
const FileName = "laserscanqa.pid"

const maxAttempts = 3

// Path returns the lock file location for dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Write locks dir by creating its PID file. It fails with ErrAlreadyRunning
// while a live process, this one included, holds the lock. Stale or
// unreadable lock files are replaced.
func Write(dir string) error {
	errFactory := errors.New()
	path := Path(dir)

	tmp, err := os.CreateTemp(dir, "."+FileName+".*")
	if err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.WriteString(strconv.Itoa(os.Getpid()))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	// Linking fails if the lock exists, so only one process can take it and
	// the file never appears without its content.
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err = os.Link(tmp.Name(), path)
		if err == nil {
			return nil
		}
		if !os.IsExist(err) {
			return errFactory.Wrap(errors.ErrInternal, err)
		}

		if owner, ok := readOwner(path); ok && alive(owner) {
			return errFactory.WithData(errors.ErrAlreadyRunning, struct {
				PID  int
				Path string
			}{
				PID:  owner,
				Path: path,
			})
		}

		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return errFactory.Wrap(errors.ErrInternal, err)
		}
	}

	return errFactory.WithData(errors.ErrResourceBusy, path)
}

// Remove releases the lock on dir.
func Remove(dir string) error {
	errFactory := errors.New()

	if err := os.Remove(Path(dir)); err != nil && !os.IsNotExist(err) {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

func readOwner(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}

	return pid, true
}

func alive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	err = process.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
