package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"shady/internal/driver"
	"shady/internal/ui"
)

type checkOutcome struct {
	result *driver.Result
	err    error
}

// runCheckWithUI runs driver.Check in the background while a progress view
// renders its events.
func runCheckWithUI(ctx context.Context, title string, files []string, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Check(ctx, files, opts)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// The view may stop before the run does; keep the sink from blocking.
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

// runCheck picks between the progress view and a plain run.
func runCheck(ctx context.Context, title string, files []string, opts driver.Options, mode uiMode) (*driver.Result, error) {
	if shouldUseTUI(mode, len(files)) {
		return runCheckWithUI(ctx, title, files, opts)
	}
	return driver.Check(ctx, files, opts)
}
