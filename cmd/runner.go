package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/podfetch-console/internal/accounts"
	"github.com/desertthunder/podfetch-console/internal/console"
	"github.com/desertthunder/podfetch-console/internal/models"
	"github.com/desertthunder/podfetch-console/internal/repositories"
	"github.com/desertthunder/podfetch-console/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The database is opened on first use and shared by every action of the run.
type Runner struct {
	config *shared.Config
	logger *log.Logger
	output io.Writer
	input  io.Reader
	store  models.Store
	prompt accounts.Prompter
	db     *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
	Input  io.Reader
	Store  models.Store // Store replaces the configured database when set
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

	return &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
		input:  opts.Input,
		store:  opts.Store,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){usersCommand, setupCommand} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Configure loads settings for the run: defaults, the config file when present, a .env file
// and PODFETCH_* environment variables, in that order.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if err := shared.LoadDotEnv(".env"); err != nil {
		return ctx, err
	}

	config := r.config
	configPath := cmd.String("config")
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			return ctx, err
		}
	} else {
		r.logger.Debug("config file not found, using defaults", "path", configPath)
	}

	if err := shared.ApplyEnv(ctx, config, nil); err != nil {
		return ctx, err
	}
	if err := config.Validate(); err != nil {
		return ctx, err
	}
	if err := shared.SetLogLevel(r.logger, config.Log.Level); err != nil {
		return ctx, err
	}

	r.config = config
	r.logger = shared.WithLogger(r.logger, "run", shared.GenerateID())
	return ctx, nil
}

// Close releases the database, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Runner) database(ctx context.Context) (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	r.logger.Debug("opening database", "driver", r.config.Database.Driver)
	db, err := shared.OpenDatabase(ctx, r.config.Database)
	if err != nil {
		return nil, err
	}
	r.db = db
	return db, nil
}

// openStore returns the injected store or a migrated store on the configured database.
func (r *Runner) openStore(ctx context.Context) (models.Store, error) {
	if r.store != nil {
		return r.store, nil
	}

	db, err := r.database(ctx)
	if err != nil {
		return nil, err
	}
	if err := shared.RunMigrations(db, r.config.Database.Driver); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r.store = repositories.NewStore(db)
	return r.store, nil
}

func (r *Runner) prompter() accounts.Prompter {
	if r.prompt == nil {
		var opts []console.Option
		if f, ok := r.input.(*os.File); ok {
			opts = append(opts, console.WithTerminal(int(f.Fd())))
		}
		r.prompt = console.New(r.input, r.output, opts...)
	}
	return r.prompt
}

func (r *Runner) manager(ctx context.Context) (*accounts.Manager, error) {
	store, err := r.openStore(ctx)
	if err != nil {
		return nil, err
	}

	return accounts.NewManager(accounts.ManagerOpts{
		Store:    store,
		Prompter: r.prompter(),
		Output:   r.output,
		Logger:   r.logger,
	}), nil
}

// fallback prints usage when no sub-command is given and logs anything it does not know.
func (r *Runner) fallback(usage string) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Present() {
			r.logger.Error("Command not found", "command", cmd.Args().First())
			return nil
		}
		return r.writePlain("%s", usage)
	}
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
