// Package store provides crash-safe JSON persistence for the engine's
// three owned files (repositories, workpads, usage ledger) plus the
// budget status snapshot. Every write goes through a full rewrite to a
// temporary sibling path followed by os.Rename, so a crash mid-write
// leaves either the prior file or the new one, never a partial file.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sologit/sologit/internal/fileutil"
)

// WriteJSON marshals v with two-space indent and writes it to path via a
// temporary file in the same directory, then renames it into place.
func WriteJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := fileutil.EnsureDir(dir); err != nil {
		return fmt.Errorf("ensuring directory %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file into place for %s: %w", path, err)
	}
	return nil
}

// ReadJSON reads and unmarshals path into v. A missing file is not an
// error; v is left unmodified and ok is false.
func ReadJSON(path string, v any) (ok bool, err error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parsing %s: %w", path, err)
	}
	return true, nil
}
