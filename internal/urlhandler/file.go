package urlhandler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Custom errors for file operations
var (
	ErrFileNotFound   = errors.New("input file not found")
	ErrFilePermission = errors.New("permission denied reading input file")
	ErrFileEmpty      = errors.New("input file is empty or contains no URLs")
	ErrReadingFile    = errors.New("error reading input file")
)

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

// ReadURLs reads one URL per line. Surrounding whitespace is trimmed; blank
// lines and lines starting with "#" are skipped. Lines are not validated or
// normalized: anything the stripper cannot parse comes back unchanged.
func ReadURLs(r io.Reader, logger zerolog.Logger) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var urls []string
	totalLinesRead := 0
	skippedCount := 0

	for scanner.Scan() {
		totalLinesRead++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			skippedCount++
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadingFile, err)
	}

	logger.Debug().
		Int("totalLinesRead", totalLinesRead).
		Int("urlCount", len(urls)).
		Int("skippedCount", skippedCount).
		Msg("Finished reading URLs")
	return urls, nil
}

// ReadURLsFromFile reads a file with ReadURLs. A file without any URL is
// reported as ErrFileEmpty.
func ReadURLsFromFile(filePath string, logger zerolog.Logger) ([]string, error) {
	fileLogger := logger.With().Str("filePath", filePath).Logger()

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		fileLogger.Error().Err(err).Msg("Input file not found")
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
	}
	if err != nil {
		fileLogger.Error().Err(err).Msg("Error checking file stat")
		return nil, fmt.Errorf("%w: %s (cause: %v)", ErrReadingFile, filePath, err)
	}
	if info.IsDir() {
		fileLogger.Error().Msg("Input path is a directory, not a file")
		return nil, fmt.Errorf("%w: %s is a directory", ErrReadingFile, filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsPermission(err) {
			fileLogger.Error().Err(err).Msg("Permission denied reading input file")
			return nil, fmt.Errorf("%w: %s", ErrFilePermission, filePath)
		}
		fileLogger.Error().Err(err).Msg("Error opening input file")
		return nil, fmt.Errorf("%w: %s (cause: %v)", ErrReadingFile, filePath, err)
	}
	defer file.Close()

	urls, err := ReadURLs(file, fileLogger)
	if err != nil {
		fileLogger.Error().Err(err).Msg("Error during scanning of file")
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	if len(urls) == 0 {
		fileLogger.Warn().Msg("Input file contained no URLs")
		return nil, fmt.Errorf("%w: %s", ErrFileEmpty, filePath)
	}

	fileLogger.Info().Int("urlCount", len(urls)).Msg("Loaded URLs from file")
	return urls, nil
}
