package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"stcss/internal/buildpipeline"
	"stcss/internal/driver"
	"stcss/internal/ui"
)

// useProgressUI decides from the --ui value whether to render the progress
// view. "auto" means only on an interactive stdout and never with --quiet.
func useProgressUI(value string, quiet bool) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return !quiet && isTerminal(os.Stdout), nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

type compileOutcome struct {
	result *driver.Result
	err    error
}

// compileWithUI runs compile in the background and renders its progress
// events until the event channel closes.
func compileWithUI(ctx context.Context, title string, files []string, compile func(buildpipeline.ProgressSink) (*driver.Result, error)) (*driver.Result, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan compileOutcome, 1)

	go func() {
		res, err := compile(buildpipeline.ChannelSink{Ch: events})
		outcomeCh <- compileOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// дочитываем события, чтобы компиляция не зависла на полном канале
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
