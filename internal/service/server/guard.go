package server

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-ps"
)

// ErrAlreadyRunning is returned when another gc-server process is found.
var ErrAlreadyRunning = errors.New("another game controller server is already running")

// processLister returns the running processes.
type processLister func() ([]ps.Process, error)

// ensureSingleInstance fails when a process other than selfPID runs the
// executable name. Two servers would be two writers of the same match.
func ensureSingleInstance(list processLister, name string, selfPID int) error {
	processList, err := list()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	for _, process := range processList {
		if process.Pid() == selfPID {
			continue
		}

		if !sameExecutable(process.Executable(), name) {
			continue
		}

		return fmt.Errorf("%w: pid %d", ErrAlreadyRunning, process.Pid())
	}

	return nil
}

// currentExecutable returns the base name of the running binary.
func currentExecutable() string {
	path, err := os.Executable()
	if err != nil {
		return filepath.Base(os.Args[0])
	}

	return filepath.Base(path)
}

func sameExecutable(a, b string) bool {
	return strings.EqualFold(strings.TrimSuffix(a, ".exe"), strings.TrimSuffix(b, ".exe"))
}
