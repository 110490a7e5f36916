package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

var errMissingCommand = errors.New("missing command")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code: 0 on success,
// 1 when the command failed and 2 for usage errors.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// pflag has already printed the error and usage.
	flags, name, cmdArgs, err := ParseGlobalFlags(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	cmd, ok := findCommand(name)
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q, run with --help to list commands\n", name)
		return 2
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	a, err := newApp(ctx, flags, stdin, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "[FATAL] %v\n", err)
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			fmt.Fprintf(stderr, "[ERROR] %v\n", err)
		}
	}()

	if err := cmd.run(ctx, a, cmdArgs); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		a.logger.Error().Err(err).Str("command", name).Msg("Command failed")
		return 1
	}
	return 0
}
