// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

const rootUsage = `The following commands are available:
    users => Handles user management
`

const usersUsage = `The following commands are available:
    add => Adds a user
    remove => Removes a user
    update => Updates a user
    list => Lists all users
    export => Exports all users
`

// App builds the root command.
func (r *Runner) App() *cli.Command {
	return &cli.Command{
		Name:    "podfetch",
		Usage:   "Administer podfetch user accounts",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Before:   r.Configure,
		Action:   r.fallback(rootUsage),
		Commands: r.register(),
	}
}

// usersCommand handles user management
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "users",
		Usage:  "Handles user management",
		Action: r.fallback(usersUsage),
		Commands: []*cli.Command{
			{
				Name:   "add",
				Usage:  "Adds a user",
				Action: r.UsersAdd,
			},
			{
				Name:   "remove",
				Usage:  "Removes a user and every record it owns",
				Action: r.UsersRemove,
			},
			{
				Name:   "update",
				Usage:  "Updates the role, password or explicit consent of a user",
				Action: r.UsersUpdate,
			},
			{
				Name:   "list",
				Usage:  "Lists all users",
				Action: r.UsersList,
			},
			{
				Name:  "export",
				Usage: "Export all users without passwords",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, markdown, text, json, yaml)",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path, stdout when empty",
					},
				},
				Action: r.UsersExport,
			},
		},
	}
}

// setupCommand handles setup operations for the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.SetupRollback,
			},
		},
	}
}
