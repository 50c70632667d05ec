package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/flixport/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run wires the CLI and returns the first error after it has been reported.
func run() error {
	logger := shared.NewLogger(nil)
	shared.SetLogLevel(logger, log.WarnLevel)

	reporter := newErrorReporter(logger)
	runner := NewRunner(RunnerOpts{Logger: logger, Reporter: reporter})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(runner).Run(ctx, os.Args); err != nil {
		reporter.ReportOnce(err)
		return err
	}
	return nil
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "flixport",
		Usage:   "Export, import and migrate streaming profile ratings",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log progress and debug details to stderr",
			},
		},
		Before:   r.before,
		Commands: r.register(),
	}
}
