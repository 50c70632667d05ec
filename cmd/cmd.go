// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// accountUsage holds the usage text of one side's email, password and profile flags.
type accountUsage struct {
	email, password, profile string
}

var (
	accountUsageDefault = accountUsage{
		email:    "Account email (default: account.email from config)",
		password: "Account password",
		profile:  "Profile name, matched exactly (default: account.profile from config)",
	}
	accountUsageSource = accountUsage{
		email:    "Source account email (default: account.email from config)",
		password: "Source account password",
		profile:  "Source profile name, matched exactly (default: account.profile from config)",
	}
	accountUsageDestination = accountUsage{
		email:    "Destination account email (default: the source account)",
		password: "Destination account password (default: the source password when the account is the same)",
		profile:  "Destination profile name, matched exactly (required)",
	}
)

// accountFlags returns the email/password/profile flags for one side of a transfer.
//
// prefix is prepended to flag names ("from-", "to-") and env is the password environment variable.
func accountFlags(prefix, env string, usage accountUsage) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  prefix + "email",
			Usage: usage.email,
		},
		&cli.StringFlag{
			Name:    prefix + "password",
			Usage:   usage.password,
			Sources: cli.EnvVars(env),
		},
		&cli.StringFlag{
			Name:  prefix + "profile",
			Usage: usage.profile,
		},
	}
}

func pacingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:  "interval",
			Usage: "Minimum time per rating write (default: import.interval_ms from config)",
		},
		&cli.BoolFlag{
			Name:  "continue-on-error",
			Usage: "Keep importing after a rating fails and report the first failure at the end",
		},
	}
}

// exportCommand writes a profile's rating history as JSON
func exportCommand(r *Runner) *cli.Command {
	flags := accountFlags("", "FLIXPORT_PASSWORD", accountUsageDefault)
	flags = append(flags,
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.IntFlag{
			Name:  "indent",
			Usage: "Spaces per indentation level, 0 for compact JSON",
			Value: 0,
		},
	)

	return &cli.Command{
		Name:   "export",
		Usage:  "Export the rating history of a profile",
		Flags:  flags,
		Action: r.Export,
	}
}

// importCommand replays a JSON rating list into a profile
func importCommand(r *Runner) *cli.Command {
	flags := accountFlags("", "FLIXPORT_PASSWORD", accountUsageDefault)
	flags = append(flags, &cli.StringFlag{
		Name:    "input",
		Aliases: []string{"i"},
		Usage:   "Input file path (default: stdin)",
	})
	flags = append(flags, pacingFlags()...)

	return &cli.Command{
		Name:   "import",
		Usage:  "Import ratings into a profile, one title at a time",
		Flags:  flags,
		Action: r.Import,
	}
}

// migrateCommand exports from one profile and imports into another
func migrateCommand(r *Runner) *cli.Command {
	flags := accountFlags("from-", "FLIXPORT_FROM_PASSWORD", accountUsageSource)
	flags = append(flags, accountFlags("to-", "FLIXPORT_TO_PASSWORD", accountUsageDestination)...)
	flags = append(flags, pacingFlags()...)

	return &cli.Command{
		Name:   "migrate",
		Usage:  "Copy ratings from one profile to another",
		Flags:  flags,
		Action: r.Migrate,
	}
}

// profilesCommand lists the profiles of an account
func profilesCommand(r *Runner) *cli.Command {
	flags := accountFlags("", "FLIXPORT_PASSWORD", accountUsageDefault)[:2]
	flags = append(flags, &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	})

	return &cli.Command{
		Name:   "profiles",
		Usage:  "List account profiles",
		Flags:  flags,
		Action: r.Profiles,
	}
}

// runsCommand inspects recorded runs
func runsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "Show export and import history",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded runs, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Only runs of this mode (export or import)",
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Only runs with this status",
					},
					&cli.StringFlag{
						Name:  "profile",
						Usage: "Only runs for this profile",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "Output CSV",
					},
				},
				Action: r.RunsList,
			},
			{
				Name:      "show",
				Usage:     "Show one run by sequence number or ID",
				ArgsUsage: "<run>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.RunsShow,
			},
		},
	}
}

// setupCommand handles setup operations for the config file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the config file if missing, initialize the database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent database migration",
				Action: r.SetupRollback,
			},
		},
	}
}
