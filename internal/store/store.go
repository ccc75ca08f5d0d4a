// Package store persists the selector state as a JSON document and guards
// read-modify-write cycles with a file lock.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/kamusis/socsel/internal/catalog"
)

// DefaultLockTimeout bounds how long Update waits for another writer.
const DefaultLockTimeout = 5 * time.Second

var (
	// ErrLocked is returned when the state lock cannot be acquired in time.
	ErrLocked = errors.New("state is locked by another process")
	// ErrInvalidSession is returned when a session file lacks one of the
	// required top-level keys.
	ErrInvalidSession = errors.New("invalid configuration file")
)

// document is the on-disk shape. Functions and features share adasFunctions,
// features being flagged with isFeature. Pointers distinguish a missing key
// from an empty list.
type document struct {
	AdasFunctions      *[]catalog.Entry  `json:"adasFunctions"`
	Sensors            *[]catalog.Sensor `json:"sensors"`
	SoCs               *[]catalog.SoC    `json:"soCs"`
	SelectedFeatureIDs *[]string         `json:"selectedFeatureIds"`
}

// Encode renders s in the session document shape.
func Encode(s *catalog.State) ([]byte, error) {
	entries := catalog.JoinEntries(s.Functions, s.Features)
	sensors := s.Sensors
	if sensors == nil {
		sensors = []catalog.Sensor{}
	}
	socs := s.SoCs
	if socs == nil {
		socs = []catalog.SoC{}
	}
	selected := s.Selection.IDs()
	doc := document{
		AdasFunctions:      &entries,
		Sensors:            &sensors,
		SoCs:               &socs,
		SelectedFeatureIDs: &selected,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("cannot encode state: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a state document. Documents written before SoCs were stored
// get the default SoC portfolio. The result is sanitised.
func Decode(data []byte) (*catalog.State, error) {
	s, err := DecodeRaw(data)
	if err != nil {
		return nil, err
	}
	sanitize(s)
	return s, nil
}

// DecodeRaw is Decode without the repairs, so callers can inspect the
// document as written.
func DecodeRaw(data []byte) (*catalog.State, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid state JSON: %w", err)
	}
	return fromDocument(doc), nil
}

// DecodeSession parses a session file, requiring all four top-level keys.
func DecodeSession(data []byte) (*catalog.State, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if doc.AdasFunctions == nil || doc.Sensors == nil || doc.SoCs == nil || doc.SelectedFeatureIDs == nil {
		return nil, fmt.Errorf("%w: expected adasFunctions, sensors, soCs and selectedFeatureIds", ErrInvalidSession)
	}
	s := fromDocument(doc)
	sanitize(s)
	return s, nil
}

func fromDocument(doc document) *catalog.State {
	s := &catalog.State{Selection: catalog.NewSelection()}
	if doc.AdasFunctions != nil {
		s.Functions, s.Features = catalog.SplitEntries(*doc.AdasFunctions)
	}
	if doc.Sensors != nil {
		s.Sensors = *doc.Sensors
	}
	if doc.SoCs != nil {
		s.SoCs = *doc.SoCs
	} else {
		s.SoCs = catalog.DefaultSoCs()
	}
	if doc.SelectedFeatureIDs != nil {
		for _, id := range *doc.SelectedFeatureIDs {
			s.Selection.Add(id)
		}
	}
	return s
}

func sanitize(s *catalog.State) {
	issues := catalog.Sanitize(s)
	for _, issue := range issues {
		slog.Debug("sanitised state", "issue", issue.String())
	}
	if len(issues) > 0 {
		slog.Warn("state repaired on load; run 'socsel doctor' for details", "repairs", len(issues))
	}
}

// Load reads the state at path. A missing file yields the defaults.
func Load(path string) (*catalog.State, error) {
	return load(path, Decode)
}

// LoadRaw reads the state at path without repairing it.
func LoadRaw(path string) (*catalog.State, error) {
	return load(path, DecodeRaw)
}

func load(path string, decode func([]byte) (*catalog.State, error)) (*catalog.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("no state file, using defaults", "path", path)
			return catalog.Defaults(), nil
		}
		return nil, fmt.Errorf("cannot read state %s: %w", path, err)
	}
	s, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Exists reports whether a state file has been written at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Save writes s to path. The new document is written beside the target and
// renamed into place; the previous file is kept as path.bak until the swap
// succeeds.
func Save(path string, s *catalog.State) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// Reset overwrites the state at path with the defaults.
func Reset(path string) (*catalog.State, error) {
	s := catalog.Defaults()
	if err := Save(path, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Update loads the state under an exclusive lock, applies fn and saves the
// result. Nothing is written when fn returns an error.
func Update(path string, timeout time.Duration, fn func(*catalog.State) error) (*catalog.State, error) {
	var out *catalog.State
	err := WithLock(path, timeout, func() error {
		s, err := Load(path)
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
		if err := Save(path, s); err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// WithLock runs fn while holding the lock for the state at path.
func WithLock(path string, timeout time.Duration, fn func() error) error {
	unlock, err := acquireLock(path, timeout)
	if err != nil {
		return err
	}
	defer unlock()
	return fn()
}

// Export writes s to a session file.
func Export(path string, s *catalog.State) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write session %s: %w", path, err)
	}
	return nil
}

// Import reads a session file written by Export.
func Import(path string) (*catalog.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read session %s: %w", path, err)
	}
	s, err := DecodeSession(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LockPath returns the lock file guarding the state at path.
func LockPath(path string) string { return path + ".lock" }

// acquireLock polls for the state lock until timeout elapses.
func acquireLock(path string, timeout time.Duration) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return func() {}, fmt.Errorf("cannot create state dir: %w", err)
	}
	l := flock.New(LockPath(path))
	deadline := time.Now().Add(timeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return func() {}, fmt.Errorf("cannot acquire state lock: %w", err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return func() {}, fmt.Errorf("%w (lock: %s)", ErrLocked, l.Path())
		}
		time.Sleep(50 * time.Millisecond)
	}
}

// writeFileAtomic replaces path with data, rolling back to the previous
// content if the final rename fails.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create state dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("cannot create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("cannot write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	backup := path + ".bak"
	_ = cleanupBackup(backup)
	hadOld := false
	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, backup); err != nil {
			_ = os.Remove(tmpPath)
			return fmt.Errorf("cannot back up %s: %w", path, err)
		}
		hadOld = true
	}
	if err := os.Rename(tmpPath, path); err != nil {
		if hadOld {
			_ = os.Rename(backup, path)
		}
		_ = os.Remove(tmpPath)
		return fmt.Errorf("cannot replace %s: %w", path, err)
	}
	if err := cleanupBackup(backup); err != nil {
		slog.Warn("cannot remove state backup", "path", backup, "error", err)
	}
	return nil
}
