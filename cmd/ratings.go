package main

import (
	"bytes"
	"context"
	"fmt"

	"github.com/desertthunder/flixport/internal/models"
	"github.com/desertthunder/flixport/internal/shared"
	"github.com/desertthunder/flixport/internal/tasks"
	"github.com/desertthunder/flixport/internal/ui"
	"github.com/urfave/cli/v3"
)

// credentials reads --<prefix>email and --<prefix>password, falling back to account.email from config.
func (r *Runner) credentials(cmd *cli.Command, prefix string) (models.Credentials, error) {
	email := cmd.String(prefix + "email")
	if email == "" {
		email = r.config.Account.Email
	}

	creds := models.Credentials{Email: email, Password: cmd.String(prefix + "password")}
	if !creds.Valid() {
		return creds, fmt.Errorf("%w: --%semail and --%spassword are required", shared.ErrMissingCredentials, prefix, prefix)
	}
	return creds, nil
}

// profile reads --<prefix>profile, falling back to account.profile from config.
func (r *Runner) profile(cmd *cli.Command, prefix string) (string, error) {
	name := cmd.String(prefix + "profile")
	if name == "" {
		name = r.config.Account.Profile
	}
	if name == "" {
		return "", fmt.Errorf("%w: --%sprofile is required", shared.ErrMissingArgument, prefix)
	}
	return name, nil
}

// executor builds the paced rating executor from flags, falling back to the [import] config section.
func (r *Runner) executor(cmd *cli.Command) *tasks.Waterfall {
	interval := r.config.Import.Interval()
	if cmd.IsSet("interval") {
		interval = max(cmd.Duration("interval"), 0)
	}

	policy := tasks.StopOnError
	if cmd.Bool("continue-on-error") || r.config.Import.ContinueOnError {
		policy = tasks.ContinueOnError
	}

	return tasks.NewWaterfall(interval, policy)
}

// Export writes the rating history of a profile to --output or stdout.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	creds, err := r.credentials(cmd, "")
	if err != nil {
		return err
	}
	profile, err := r.profile(cmd, "")
	if err != nil {
		return err
	}

	opts := models.ExportOptions{Sink: cmd.String("output"), Indent: cmd.Int("indent")}
	r.logger.Info("starting export", "email", creds.Email, "profile", profile, "sink", opts.Sink)

	session := r.newSession(r.config)
	recorder, closeStore := r.openRecorder()
	defer closeStore()

	progress, stopProgress := r.watchProgress()
	defer stopProgress()

	pipeline, err := tasks.NewPipeline(tasks.PipelineOpts{
		Session:  session,
		Exporter: tasks.NewRatingExporter(session, r.fs, r.output),
		Reporter: r.reporter,
		Recorder: recorder,
		Progress: progress,
	})
	if err != nil {
		return err
	}

	return pipeline.Run(ctx, tasks.RunOptions{
		Credentials:   creds,
		Profile:       profile,
		Export:        true,
		ExportOptions: opts,
	})
}

// Import replays ratings from --input or stdin into a profile.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	creds, err := r.credentials(cmd, "")
	if err != nil {
		return err
	}
	profile, err := r.profile(cmd, "")
	if err != nil {
		return err
	}

	executor := r.executor(cmd)
	src := models.ImportSource{Source: cmd.String("input")}
	r.logger.Info("starting import",
		"email", creds.Email, "profile", profile, "source", src.Source,
		"interval", executor.Interval, "policy", executor.Policy)

	session := r.newSession(r.config)
	recorder, closeStore := r.openRecorder()
	defer closeStore()

	progress, stopProgress := r.watchProgress()
	defer stopProgress()

	pipeline, err := tasks.NewPipeline(tasks.PipelineOpts{
		Session: session,
		Importer: tasks.NewRatingImporter(session, tasks.ImporterOpts{
			FileSystem: r.fs,
			Stdin:      r.input,
			Executor:   executor,
			Progress:   progress,
		}),
		Reporter: r.reporter,
		Recorder: recorder,
		Progress: progress,
	})
	if err != nil {
		return err
	}

	return pipeline.Run(ctx, tasks.RunOptions{
		Credentials:  creds,
		Profile:      profile,
		ImportSource: src,
	})
}

// Migrate exports the source profile into memory and imports it into the destination profile.
//
// Each side gets its own session. The destination account defaults to the source account.
func (r *Runner) Migrate(ctx context.Context, cmd *cli.Command) error {
	from, err := r.credentials(cmd, "from-")
	if err != nil {
		return err
	}
	fromProfile, err := r.profile(cmd, "from-")
	if err != nil {
		return err
	}

	to := models.Credentials{Email: cmd.String("to-email"), Password: cmd.String("to-password")}
	if to.Email == "" {
		to.Email = from.Email
	}
	if to.Password == "" && to.Email == from.Email {
		to.Password = from.Password
	}
	if !to.Valid() {
		return fmt.Errorf("%w: --to-password is required for a different destination account", shared.ErrMissingCredentials)
	}

	toProfile := cmd.String("to-profile")
	if toProfile == "" {
		return fmt.Errorf("%w: --to-profile is required", shared.ErrMissingArgument)
	}

	r.logger.Info("starting migration", "from", from.Email, "from_profile", fromProfile, "to", to.Email, "to_profile", toProfile)

	recorder, closeStore := r.openRecorder()
	defer closeStore()

	progress, stopProgress := r.watchProgress()
	defer stopProgress()

	var buf bytes.Buffer

	source := r.newSession(r.config)
	exportPipeline, err := tasks.NewPipeline(tasks.PipelineOpts{
		Session:  source,
		Exporter: tasks.NewRatingExporter(source, r.fs, &buf),
		Reporter: r.reporter,
		Recorder: recorder,
		Progress: progress,
	})
	if err != nil {
		return err
	}

	route := fmt.Sprintf("%s (%s) → %s (%s)", fromProfile, from.Email, toProfile, to.Email)
	if err := exportPipeline.Run(ctx, tasks.RunOptions{Credentials: from, Profile: fromProfile, Export: true}); err != nil {
		r.writePlain("%s\n", ui.Failure("Migration stopped during export: "+route))
		return err
	}

	dest := r.newSession(r.config)
	importPipeline, err := tasks.NewPipeline(tasks.PipelineOpts{
		Session: dest,
		Importer: tasks.NewRatingImporter(dest, tasks.ImporterOpts{
			FileSystem: r.fs,
			Stdin:      &buf,
			Executor:   r.executor(cmd),
			Progress:   progress,
		}),
		Reporter: r.reporter,
		Recorder: recorder,
		Progress: progress,
	})
	if err != nil {
		return err
	}

	if err := importPipeline.Run(ctx, tasks.RunOptions{Credentials: to, Profile: toProfile}); err != nil {
		r.writePlain("%s\n", ui.Failure("Migration stopped during import: "+route))
		return err
	}

	r.writePlainHeader("Migration Complete")
	r.writePlain("%s\n", ui.Success(route))
	return nil
}
