package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"regolith/internal/bundle"
	"regolith/internal/label"
)

// Exit codes distinguish failure families for scripting.
const (
	exitOK         = 0
	exitFailure    = 1
	exitUsage      = 2
	exitResolution = 3
	exitIntegrity  = 4
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var usage *usageError
	if errors.As(err, &usage) {
		return exitUsage
	}

	var integrity *bundle.CopyIntegrityError
	if errors.As(err, &integrity) {
		return exitIntegrity
	}

	var (
		cyclic     *bundle.CyclicReferenceError
		dangling   *bundle.DanglingReferenceError
		escape     *bundle.PathEscapeError
		unreadable *label.UnreadableError
	)
	if errors.As(err, &cyclic) || errors.As(err, &dangling) ||
		errors.As(err, &escape) || errors.As(err, &unreadable) {
		return exitResolution
	}

	return exitFailure
}

type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }
