package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/podfetch-console/internal/formatter"
	"github.com/urfave/cli/v3"
)

// UsersAdd creates a user from interactive input.
func (r *Runner) UsersAdd(ctx context.Context, cmd *cli.Command) error {
	m, err := r.manager(ctx)
	if err != nil {
		return err
	}
	return m.Add(ctx)
}

// UsersRemove deletes a user and all of their records.
func (r *Runner) UsersRemove(ctx context.Context, cmd *cli.Command) error {
	m, err := r.manager(ctx)
	if err != nil {
		return err
	}
	return m.Remove(ctx)
}

// UsersUpdate changes a single field of a user.
func (r *Runner) UsersUpdate(ctx context.Context, cmd *cli.Command) error {
	m, err := r.manager(ctx)
	if err != nil {
		return err
	}
	return m.Update(ctx)
}

// UsersList prints every user.
func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	m, err := r.manager(ctx)
	if err != nil {
		return err
	}
	_, err = m.List(ctx)
	return err
}

// UsersExport writes every user, without passwords, in the requested format.
func (r *Runner) UsersExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	store, err := r.openStore(ctx)
	if err != nil {
		return err
	}

	users, err := store.Users().FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	outputPath := cmd.String("output")
	if outputPath == "" {
		data, err := formatter.Export(users, format)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	}

	path, err := formatter.WriteExport(users, format, outputPath)
	if err != nil {
		return err
	}

	r.logger.Info("users exported", "format", format, "path", path, "count", len(users))
	return r.writePlainln("Exported %d users to %s", len(users), path)
}
