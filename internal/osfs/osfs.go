// Package osfs abstracts the operating system services AiOS depends on:
// file-system access and console output. The shell dispatcher and the module
// registry are written against these interfaces so they can run on the host
// OS or against simulated implementations in tests.
package osfs

import (
	"fmt"
	"os"
	"path/filepath"

	"aios/internal/logging"
)

// FileSystem is the file-system service the dispatcher depends on.
// Every method is a thin, single-path delegation to the host; errors are
// propagated upward to be printed, never retried.
type FileSystem interface {
	// ReadFile reads the entire file as raw bytes.
	ReadFile(path string) ([]byte, error)
	// ReadFileString reads the entire file as a string.
	ReadFileString(path string) (string, error)
	// WriteFile writes data to path, creating or truncating the file.
	WriteFile(path string, data []byte) error
	// ListDir returns the entry names inside a directory.
	ListDir(path string) ([]string, error)
	// MkdirAll creates a directory along with any missing parents.
	MkdirAll(path string) error
	// Remove removes a single file.
	Remove(path string) error
	// RemoveAll removes a path and everything under it.
	RemoveAll(path string) error
	// Getwd returns the current working directory.
	Getwd() (string, error)
	// Chdir changes the current working directory.
	Chdir(path string) error
	// PathExists reports whether path exists and is accessible.
	PathExists(path string) bool
	// IsDir reports whether path exists and is a directory.
	IsDir(path string) bool
	// IsFile reports whether path exists and is a regular file.
	IsFile(path string) bool
}

// Console is the console output service. Implementations append a newline.
type Console interface {
	PrintLine(text string)
}

// Host implements FileSystem and Console on top of the real operating system.
type Host struct{}

// NewHost returns a host-backed service.
func NewHost() *Host { return &Host{} }

var _ FileSystem = (*Host)(nil)
var _ Console = (*Host)(nil)

func (h *Host) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func (h *Host) ReadFileString(path string) (string, error) {
	data, err := h.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (h *Host) WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create parent of %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logging.FS("wrote %s (%d bytes)", path, len(data))
	return nil
}

func (h *Host) ListDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func (h *Host) MkdirAll(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	logging.FS("created directory %s", path)
	return nil
}

func (h *Host) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	logging.FS("removed %s", path)
	return nil
}

func (h *Host) RemoveAll(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	logging.FS("removed tree %s", path)
	return nil
}

func (h *Host) Getwd() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return wd, nil
}

func (h *Host) Chdir(path string) error {
	if err := os.Chdir(path); err != nil {
		return fmt.Errorf("chdir %s: %w", path, err)
	}
	logging.FS("changed directory to %s", path)
	return nil
}

func (h *Host) PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (h *Host) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (h *Host) IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (h *Host) PrintLine(text string) {
	fmt.Println(text)
}
