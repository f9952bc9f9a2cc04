// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/presetgen/internal/console"
	"github.com/starford/presetgen/internal/document"
	"github.com/starford/presetgen/internal/pipeline"
	"github.com/starford/presetgen/internal/report"
	"github.com/starford/presetgen/internal/storage"
	"github.com/starford/presetgen/internal/watcher"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{out: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

func (a *application) logger() *slog.Logger {
	return console.New(a.out, &console.Options{
		Level: a.config.Log.SlogLevel(),
		Color: a.config.Log.Color,
	})
}

// Run scans ./presets once and writes presets.xml.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	return app.generate(app.logger())
}

// generate performs one full scan → validate → write cycle.
func (a *application) generate(logger *slog.Logger) error {
	run := report.NewRun(time.Now())

	store, err := storage.NewFS(PresetsRoot)
	if err != nil {
		return err
	}

	res, err := pipeline.Analyze(store, logger)
	if err != nil {
		return err
	}

	if err := document.WriteFile(OutputFile, res.Entries); err != nil {
		return err
	}
	console.Trace(logger, fmt.Sprintf("wrote %d presets to %s", len(res.Entries), OutputFile))

	if !a.config.Report.Enabled() {
		return nil
	}
	run.Finish(time.Now(), OutputFile, res.Files)
	db, err := report.Open(a.config.Report.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Record(run); err != nil {
		return err
	}
	console.Trace(logger, "run recorded", slog.String("run", run.ID))
	return nil
}

// Watch generates once, then regenerates whenever the preset tree changes,
// until ctx is cancelled or the process is interrupted.
func Watch(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.logger()

	if err := app.generate(logger); err != nil {
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)
	wctx, stop := context.WithCancel(gCtx)
	defer stop()

	g.Go(func() error {
		return watcher.Watch(wctx, PresetsRoot, app.config.Watch.Debounce, logger, func() {
			if err := app.generate(logger); err != nil {
				logger.Error("regeneration failed", slog.String("error", err.Error()))
			}
		})
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			console.Trace(logger, "received shutdown signal", slog.String("signal", sig.String()))
		case <-wctx.Done():
		}
		stop()
		return nil
	})

	return g.Wait()
}

// History prints the most recent recorded runs.
func History(ctx context.Context, limit int, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	if !app.config.Report.Enabled() {
		return fmt.Errorf("run ledger is disabled: set report.path in the config")
	}

	db, err := report.Open(app.config.Report.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.Recent(limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(app.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tDURATION\tACCEPTED\tREJECTED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n",
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond),
			r.Accepted,
			r.Rejected)
	}
	return tw.Flush()
}
