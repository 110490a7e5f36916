package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// FileReader reads whole files with a size cap.
type FileReader struct {
	logger zerolog.Logger
}

// NewFileReader creates a new FileReader instance
func NewFileReader(logger zerolog.Logger) *FileReader {
	return &FileReader{
		logger: logger.With().Str("component", "FileReader").Logger(),
	}
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ReadFile reads path. Files larger than maxSize bytes are rejected; a
// maxSize of zero disables the check.
func (fr *FileReader) ReadFile(path string, maxSize int64) ([]byte, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, WrapError(err, fmt.Sprintf("failed to stat file: %s", path))
	}
	if info.IsDir() {
		return nil, NewValidationError("path", path, "is a directory")
	}
	if maxSize > 0 && info.Size() > maxSize {
		return nil, NewValidationError("path", path, fmt.Sprintf("file exceeds %d bytes", maxSize))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, WrapError(err, fmt.Sprintf("failed to open file: %s", path))
	}
	defer func() {
		if err := file.Close(); err != nil {
			fr.logger.Error().Err(err).Str("path", path).Msg("Failed to close file.")
		}
	}()

	reader := io.Reader(file)
	if maxSize > 0 {
		reader = io.LimitReader(file, maxSize+1)
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, WrapError(err, fmt.Sprintf("failed to read file content: %s", path))
	}
	if maxSize > 0 && int64(len(content)) > maxSize {
		return nil, NewValidationError("path", path, fmt.Sprintf("file exceeds %d bytes", maxSize))
	}

	fr.logger.Debug().Str("path", path).Int("bytes", len(content)).Msg("File read")
	return content, nil
}

// FileWriter replaces file contents.
type FileWriter struct {
	logger zerolog.Logger
}

// NewFileWriter creates a new FileWriter instance
func NewFileWriter(logger zerolog.Logger) *FileWriter {
	return &FileWriter{
		logger: logger.With().Str("component", "FileWriter").Logger(),
	}
}

// ReplaceFile writes data to a temporary file next to path and renames it
// over path, keeping the permissions of an existing file.
func (fw *FileWriter) ReplaceFile(path string, data []byte) error {
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return WrapError(err, fmt.Sprintf("failed to create temporary file for: %s", path))
	}
	tmpName := tmp.Name()
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return WrapError(err, fmt.Sprintf("failed to write file: %s", path))
	}
	if err := tmp.Close(); err != nil {
		return WrapError(err, fmt.Sprintf("failed to write file: %s", path))
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return WrapError(err, fmt.Sprintf("failed to set permissions on: %s", path))
	}
	if err := os.Rename(tmpName, path); err != nil {
		return WrapError(err, fmt.Sprintf("failed to replace file: %s", path))
	}

	fw.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("File written")
	return nil
}
