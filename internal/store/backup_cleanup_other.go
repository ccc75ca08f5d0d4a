//go:build !windows

package store

import (
	"errors"
	"os"
)

// cleanupBackup removes the state backup left by a swap, if any.
func cleanupBackup(backupPath string) error {
	if backupPath == "" {
		return nil
	}
	if err := os.Remove(backupPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
