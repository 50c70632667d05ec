package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/flixport/internal/repositories"
	"github.com/desertthunder/flixport/internal/services"
	"github.com/desertthunder/flixport/internal/shared"
	"github.com/desertthunder/flixport/internal/tasks"
	"github.com/desertthunder/flixport/internal/ui"
	"github.com/urfave/cli/v3"
)

// SessionFactory builds a fresh account session from the loaded configuration.
type SessionFactory func(config *shared.Config) services.Session

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
	fs         shared.FileSystem
	reporter   *errorReporter
	newSession SessionFactory
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
	FileSystem shared.FileSystem
	Reporter   *errorReporter
	NewSession SessionFactory
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.FileSystem == nil {
		opts.FileSystem = shared.OSFileSystem{}
	}
	if opts.Reporter == nil {
		opts.Reporter = newErrorReporter(opts.Logger)
	}
	if opts.NewSession == nil {
		opts.NewSession = newAccountSession
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
		fs:         opts.FileSystem,
		reporter:   opts.Reporter,
		newSession: opts.NewSession,
	}
}

func newAccountSession(config *shared.Config) services.Session {
	return services.NewAccountService(services.AccountOpts{
		BaseURL:      config.API.BaseURL,
		TokenURL:     config.API.TokenURL,
		ClientID:     config.API.ClientID,
		ClientSecret: config.API.ClientSecret,
		PageSize:     config.API.PageSize,
	})
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		exportCommand, importCommand, migrateCommand, profilesCommand, runsCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// before loads the config file named by --config (when present) and applies --verbose.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	path := cmd.String("config")
	if path == "" {
		return ctx, nil
	}
	r.configPath = path

	if _, err := os.Stat(path); err != nil {
		r.logger.Debug("config file not found, using defaults", "path", path)
		return ctx, nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return ctx, err
	}
	r.config = config
	r.logger.Debug("loaded config", "path", path)
	return ctx, nil
}

// openRecorder opens the run history store. A store that cannot be opened disables recording rather than
// failing the command; the returned close func is always safe to call.
func (r *Runner) openRecorder() (tasks.RunRecorder, func()) {
	if r.config.Database.Path == "" {
		return nil, func() {}
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		r.logger.Warn("run history disabled", "path", r.config.Database.Path, "error", err)
		return nil, func() {}
	}

	return repositories.NewRunRepository(db), func() { db.Close() }
}

// watchProgress logs progress updates until the returned stop func is called.
func (r *Runner) watchProgress() (chan<- tasks.ProgressUpdate, func()) {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progressCh {
			r.logger.Info(update.Message, "phase", update.Phase)
		}
	}()

	return progressCh, func() {
		close(progressCh)
		<-done
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("%s\n", ui.Title(title))
}
