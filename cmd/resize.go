package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"imgresize/internal/config"
	"imgresize/internal/logging"
	"imgresize/internal/processor"
	"imgresize/internal/tui"
)

var errFilesFailed = errors.New("some files could not be processed")

func runResize(cmd *cobra.Command, cfg config.Config) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	env.Apply(&cfg, cmd.Flags().Changed)

	settings, err := cfg.Validate()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	logSink := logging.NewHeldWriter(cmd.ErrOrStderr())
	defer func() { _ = logSink.Release() }()
	log := logging.New(logSink, settings.Verbose)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	interactive := !cfg.Plain && !settings.Verbose && isTerminal(out)

	updates := make(chan processor.ProgressUpdate, 64)
	uiDone := make(chan struct{})
	uiStarted := false

	pipeline := &processor.Pipeline{
		Settings: settings,
		Log:      log,
		Updates:  updates,
		OnPhase: func(phase processor.Phase, total int) {
			switch phase {
			case processor.PhaseScanning:
				fmt.Fprintln(out, tui.HeadingStyle.Render("Gathering files..."))
			case processor.PhaseResizing:
				fmt.Fprintln(out, tui.HeadingStyle.Render("Resizing images..."))
				uiStarted = true
				if interactive {
					logSink.Hold()
				}
				go func() {
					defer close(uiDone)
					if interactive {
						if err := tui.RunInteractive(updates, stop, tea.WithOutput(out)); err != nil {
							log.Warnw("progress view stopped", "error", err)
						}
						return
					}
					tui.RunPlain(out, updates)
				}()
			}
		},
	}

	summary, err := pipeline.Run(ctx)
	close(updates)
	if uiStarted {
		<-uiDone
	}
	_ = logSink.Release()
	if err != nil {
		return err
	}

	if summary.Cancelled > 0 {
		fmt.Fprintln(out, tui.RenderInterrupted(summary.Cancelled))
	}

	fmt.Fprintln(out, tui.DoneStyle.Render("Done!"))
	fmt.Fprintln(out, tui.RenderSummary(tui.SummaryRows(summary)))

	if cfg.FailOnError && summary.Errors+summary.ScanErrors > 0 {
		return &exitError{code: 2, err: errFilesFailed}
	}
	return nil
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
