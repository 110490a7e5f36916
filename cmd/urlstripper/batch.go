package main

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aleister1102/urlstripper/internal/common"
	"github.com/aleister1102/urlstripper/internal/report"
)

const stdinLabel = "-"

type transformOptions struct {
	Diff    bool
	InPlace bool
}

type transformFunc func(input []byte) ([]byte, error)

// transformInputs applies fn to stdin when paths is empty and to every file
// otherwise. Files are processed concurrently; output is written in argument
// order. One failing file does not stop the others.
func (a *app) transformInputs(ctx context.Context, paths []string, opts transformOptions, fn transformFunc) error {
	if len(paths) == 0 {
		if opts.InPlace {
			return common.NewValidationError("write", true, "in-place rewriting needs at least one file")
		}
		input, err := io.ReadAll(a.stdin)
		if err != nil {
			return common.WrapError(err, "failed to read stdin")
		}
		output, err := fn(input)
		if err != nil {
			return err
		}
		return a.emit(stdinLabel, input, output, opts)
	}

	reader := common.NewFileReader(a.logger)
	writer := common.NewFileWriter(a.logger)
	inputs := make([][]byte, len(paths))
	outputs := make([][]byte, len(paths))

	results, err := a.newBatchProcessor().Process(ctx, paths, func(ctx context.Context, i int, path string) error {
		input, err := reader.ReadFile(path, maxInputFileSize)
		if err != nil {
			return err
		}
		output, err := fn(input)
		if err != nil {
			return err
		}
		inputs[i], outputs[i] = input, output

		if opts.InPlace && !bytes.Equal(input, output) {
			if err := writer.ReplaceFile(path, output); err != nil {
				return err
			}
			a.logger.Info().Str("path", path).Msg("File rewritten")
		}
		return nil
	})

	var ec common.ErrorCollector
	for i, r := range results {
		if r.Error != nil {
			ec.AddWithContext(r.Error, fmt.Sprintf("failed to process '%s'", r.Item))
			continue
		}
		ec.Add(a.emit(r.Item, inputs[i], outputs[i], opts))
	}
	if err != nil && !ec.HasErrors() {
		ec.Add(err)
	}
	return ec.Error()
}

// emit writes the result for one input: a diff when requested, nothing for
// in-place rewrites, the rewritten content otherwise.
func (a *app) emit(label string, input, output []byte, opts transformOptions) error {
	if opts.Diff {
		diff, stats := report.NewDiffProcessor().Unified(string(input), string(output))
		if stats.IsIdentical {
			return nil
		}
		_, err := fmt.Fprintf(a.stdout, "--- %s\n+++ %s\n%s", label, label, diff)
		return err
	}
	if opts.InPlace {
		return nil
	}
	_, err := a.stdout.Write(output)
	return err
}

// forEachInput reads stdin, or every file concurrently, and calls fn in
// argument order.
func (a *app) forEachInput(ctx context.Context, paths []string, fn func(source string, content []byte) error) error {
	if len(paths) == 0 {
		content, err := io.ReadAll(a.stdin)
		if err != nil {
			return common.WrapError(err, "failed to read stdin")
		}
		return fn(stdinLabel, content)
	}

	reader := common.NewFileReader(a.logger)
	contents := make([][]byte, len(paths))
	results, err := a.newBatchProcessor().Process(ctx, paths, func(ctx context.Context, i int, path string) error {
		content, err := reader.ReadFile(path, maxInputFileSize)
		contents[i] = content
		return err
	})

	var ec common.ErrorCollector
	for i, r := range results {
		if r.Error != nil {
			ec.AddWithContext(r.Error, fmt.Sprintf("failed to read '%s'", r.Item))
			continue
		}
		ec.AddWithContext(fn(r.Item, contents[i]), fmt.Sprintf("failed to process '%s'", r.Item))
	}
	if err != nil && !ec.HasErrors() {
		ec.Add(err)
	}
	return ec.Error()
}
