package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/flixport/internal/formatter"
	"github.com/desertthunder/flixport/internal/ui"
	"github.com/urfave/cli/v3"
)

// Profiles signs in and lists the account's profiles.
func (r *Runner) Profiles(ctx context.Context, cmd *cli.Command) error {
	creds, err := r.credentials(cmd, "")
	if err != nil {
		return err
	}

	session := r.newSession(r.config)
	if err := session.Login(ctx, creds); err != nil {
		return err
	}

	profiles, err := session.ListProfiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}
	r.logger.Debug("fetched profiles", "count", len(profiles))

	if cmd.Bool("json") {
		return r.writeJSON(profiles, true)
	}

	r.writePlainHeader(fmt.Sprintf("Profiles for %s", creds.Email))
	if len(profiles) == 0 {
		return r.writePlain("%s\n", ui.Warning("No profiles found"))
	}
	return r.writePlain("%s\n", formatter.ProfilesTable(profiles))
}
