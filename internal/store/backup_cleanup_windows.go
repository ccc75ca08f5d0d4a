//go:build windows

package store

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sys/windows"
)

// cleanupBackup removes the state backup left by a swap, if any.
//
// Editors and indexers on Windows can hold the old state file open for a
// moment after the rename; retry briefly, then schedule deletion at reboot.
func cleanupBackup(backupPath string) error {
	if backupPath == "" {
		return nil
	}

	var lastErr error
	for i := 0; i < 10; i++ {
		err := os.Remove(backupPath)
		if err == nil || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		lastErr = err
		time.Sleep(100 * time.Millisecond)
	}

	p, err := windows.UTF16PtrFromString(backupPath)
	if err != nil {
		return lastErr
	}
	if err := windows.MoveFileEx(p, nil, windows.MOVEFILE_DELAY_UNTIL_REBOOT); err != nil {
		return lastErr
	}
	return nil
}
