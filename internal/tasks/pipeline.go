package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/flixport/internal/models"
	"github.com/desertthunder/flixport/internal/services"
	"github.com/desertthunder/flixport/internal/shared"
)

// State is a pipeline position. [StateDone] and [StateFailed] are terminal.
type State int

const (
	StateStart State = iota
	StateAuthenticated
	StateProfileResolved
	StateProfileActive
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateAuthenticated:
		return "authenticated"
	case StateProfileResolved:
		return "profile_resolved"
	case StateProfileActive:
		return "profile_active"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return ""
	}
}

// Reporter receives the error that aborted a pipeline.
type Reporter interface {
	Report(err error)
}

// ReporterFunc adapts a function to [Reporter].
type ReporterFunc func(err error)

func (f ReporterFunc) Report(err error) { f(err) }

// RunRecorder persists run records (implemented by repositories.RunRepository).
//
// Recorder errors are ignored so a broken store never changes the pipeline's outcome.
type RunRecorder interface {
	Create(run *models.Run) error
	Update(run *models.Run) error
}

// PipelineOpts wires a [Pipeline]. Only Session is required; every other collaborator defaults to the
// implementation in this package built over Session.
type PipelineOpts struct {
	Session  services.Session
	Resolver Resolver
	Switcher Switcher
	Exporter Exporter
	Importer Importer
	Reporter Reporter
	Recorder RunRecorder
	Progress chan<- ProgressUpdate
}

// RunOptions are the invocation parameters of one pipeline run.
type RunOptions struct {
	Credentials   models.Credentials
	Profile       string
	Export        bool // true exports, false imports
	ExportOptions models.ExportOptions
	ImportSource  models.ImportSource
}

// Pipeline runs authenticate → resolve profile → switch profile → export or import, stopping at the
// first failure.
type Pipeline struct {
	session  services.Session
	resolver Resolver
	switcher Switcher
	exporter Exporter
	importer Importer
	reporter Reporter
	recorder RunRecorder
	progress chan<- ProgressUpdate
	state    State
}

// NewPipeline creates a [Pipeline].
func NewPipeline(opts PipelineOpts) (*Pipeline, error) {
	if opts.Session == nil {
		return nil, fmt.Errorf("%w: pipeline requires a session", shared.ErrServiceUnavailable)
	}
	if opts.Resolver == nil {
		opts.Resolver = NewProfileResolver(opts.Session)
	}
	if opts.Switcher == nil {
		opts.Switcher = NewProfileSwitcher(opts.Session)
	}
	if opts.Exporter == nil {
		opts.Exporter = NewRatingExporter(opts.Session, nil, nil)
	}
	if opts.Importer == nil {
		opts.Importer = NewRatingImporter(opts.Session, ImporterOpts{Progress: opts.Progress})
	}

	return &Pipeline{
		session:  opts.Session,
		resolver: opts.Resolver,
		switcher: opts.Switcher,
		exporter: opts.Exporter,
		importer: opts.Importer,
		reporter: opts.Reporter,
		recorder: opts.Recorder,
		progress: opts.Progress,
		state:    StateStart,
	}, nil
}

// State returns where the last run stopped.
func (p *Pipeline) State() State {
	return p.state
}

type stage struct {
	next State
	run  Task
}

// Run executes every stage in order. On success it returns nil and the state is [StateDone].
//
// On failure the state becomes [StateFailed], the reporter is called exactly once with the error, no later
// stage runs, and the same error is returned.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) error {
	p.state = StateStart
	run := p.startRun(opts)

	var guid string
	var total, applied int

	stages := []stage{
		{next: StateAuthenticated, run: func(ctx context.Context) error {
			sendProgress(p.progress, authenticateUpdate(opts.Credentials.Email))
			return p.session.Login(ctx, opts.Credentials)
		}},
		{next: StateProfileResolved, run: func(ctx context.Context) error {
			sendProgress(p.progress, resolveProfileUpdate(opts.Profile))
			var err error
			guid, err = p.resolver.Resolve(ctx, opts.Profile)
			return err
		}},
		{next: StateProfileActive, run: func(ctx context.Context) error {
			sendProgress(p.progress, activateProfileUpdate(guid))
			return p.switcher.Switch(ctx, guid)
		}},
		{next: StateDone, run: func(ctx context.Context) error {
			if opts.Export {
				n, err := p.exporter.Export(ctx, opts.ExportOptions)
				if err != nil {
					return err
				}
				total = n
				sendProgress(p.progress, exportRatingsUpdate(n, opts.ExportOptions.Sink))
				return nil
			}

			result, err := p.importer.Import(ctx, opts.ImportSource)
			total, applied = result.Total, result.Applied
			return err
		}},
	}

	tasks := make([]Task, len(stages))
	for i, s := range stages {
		tasks[i] = func(ctx context.Context) error {
			if err := s.run(ctx); err != nil {
				return err
			}
			p.state = s.next
			return nil
		}
	}

	err := NewWaterfall(0, StopOnError).Run(ctx, tasks)
	p.finishRun(run, total, applied, err)
	if err != nil {
		p.state = StateFailed
		if p.reporter != nil {
			p.reporter.Report(err)
		}
		return err
	}
	return nil
}

func (p *Pipeline) startRun(opts RunOptions) *models.Run {
	if p.recorder == nil {
		return nil
	}

	mode := models.RunModeImport
	if opts.Export {
		mode = models.RunModeExport
	}

	run := models.NewRun(0, mode, opts.Profile, opts.Credentials.Email)
	run.Start()
	if err := p.recorder.Create(run); err != nil {
		return nil
	}
	return run
}

func (p *Pipeline) finishRun(run *models.Run, total, applied int, err error) {
	if run == nil {
		return
	}

	run.SetRatingsTotal(total)
	run.SetRatingsApplied(applied)
	if err != nil {
		run.Fail(err)
	} else {
		run.Complete()
	}
	_ = p.recorder.Update(run)
}
