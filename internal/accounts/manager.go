package accounts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/podfetch-console/internal/console"
	"github.com/desertthunder/podfetch-console/internal/models"
	"github.com/desertthunder/podfetch-console/internal/shared"
	"github.com/desertthunder/podfetch-console/internal/ui"
)

// Operator-facing status lines.
const (
	MsgUserExists     = "User already exists"
	MsgAborted        = "Aborted"
	MsgCreated        = "User successfully created"
	MsgNotFound       = "Username not found"
	MsgDeleted        = "User deleted"
	MsgRoleUpdated    = "Role updated"
	MsgPasswordUpdate = "Password updated"
	MsgConsentUpdated = "Explicit consent updated"
	MsgFieldNotFound  = "Field not found"
)

const (
	PromptUsername    = "Enter your username: "
	PromptPassword    = "Enter your password: "
	PromptTarget      = "Please enter the username of the user you want to %s"
	PromptField       = "Enter which field of a user should be updated [role, password, explicit_consent]"
	PromptNewPassword = "Enter the new password"
)

// Fields accepted by [Manager.Update].
const (
	FieldRole            = "role"
	FieldPassword        = "password"
	FieldExplicitConsent = "explicit_consent"
)

// Prompter reads validated operator input. [console.Prompter] is the terminal implementation.
type Prompter interface {
	ReadLine(prompt string) (string, error)
	ReadSecret(prompt string) (string, error)
	ReadRole(prompt string) (models.Role, error)
	Confirm() (bool, error)
}

// Manager runs the account flows against an injected store.
type Manager struct {
	store  models.Store
	prompt Prompter
	out    io.Writer
	styles *ui.Palette
	logger *log.Logger
	now    func() time.Time
}

// ManagerOpts contains the dependencies of a [Manager].
type ManagerOpts struct {
	Store    models.Store
	Prompter Prompter
	Output   io.Writer
	Logger   *log.Logger
	Clock    func() time.Time
}

// NewManager creates a [Manager]. Output defaults to stdout and the prompter to a console on stdin.
func NewManager(opts ManagerOpts) *Manager {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Prompter == nil {
		opts.Prompter = console.New(os.Stdin, opts.Output, console.WithTerminal(int(os.Stdin.Fd())))
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &Manager{
		store:  opts.Store,
		prompt: opts.Prompter,
		out:    opts.Output,
		styles: ui.NewDefaultPalette(opts.Output),
		logger: opts.Logger,
		now:    opts.Clock,
	}
}

// Add creates a user from operator input.
//
// An existing username fails with [shared.ErrUserExists] before any secret is asked for.
// Nothing is written unless the operator confirms the reviewed record.
func (m *Manager) Add(ctx context.Context) error {
	username, err := m.prompt.ReadLine(PromptUsername)
	if err != nil {
		return err
	}

	_, err = m.store.Users().FindByUsername(ctx, username)
	switch {
	case err == nil:
		m.say(m.styles.Err(MsgUserExists))
		return fmt.Errorf("%w: %s", shared.ErrUserExists, username)
	case !errors.Is(err, shared.ErrUserNotFound):
		return fmt.Errorf("failed to look up user %q: %w", username, err)
	}

	password, err := m.prompt.ReadSecret(PromptPassword)
	if err != nil {
		return err
	}

	role, err := m.prompt.ReadRole("Select your role " + models.RoleNames())
	if err != nil {
		return err
	}

	user := models.NewUser(username, role, password, m.now())
	m.say(fmt.Sprintf("Should a user with the following settings be applied %s", user))

	if ok, err := m.confirm(); !ok {
		return err
	}

	user.Password = HashPassword(user.Password)
	if err := m.store.Users().Insert(ctx, user); err != nil {
		return fmt.Errorf("failed to create user %q: %w", user.Username, err)
	}

	m.logger.Info("user created", "username", user.Username, "id", user.ID, "role", user.Role)
	m.say(m.styles.OK(MsgCreated))
	return nil
}

// Remove deletes a listed user and every record it owns.
//
// Dependents are deleted in [models.CascadeOrder] with the user last, inside one transaction.
// The first failing step stops the cascade and rolls everything back.
func (m *Manager) Remove(ctx context.Context) error {
	users, err := m.List(ctx)
	if err != nil {
		return err
	}

	username, err := m.prompt.ReadLine(fmt.Sprintf(PromptTarget, "delete"))
	if err != nil {
		return err
	}

	if !slices.ContainsFunc(users, func(u models.UserSummary) bool { return u.Username == username }) {
		m.say(m.styles.Warn(MsgNotFound))
		return nil
	}

	m.say(fmt.Sprintf("Should the user %q and all of their records be deleted", username))
	if ok, err := m.confirm(); !ok {
		return err
	}

	if err := m.store.WithTx(ctx, func(tx models.Store) error {
		return m.cascade(ctx, tx, username)
	}); err != nil {
		return err
	}

	m.logger.Info("user deleted", "username", username)
	m.say(m.styles.OK(MsgDeleted))
	return nil
}

func (m *Manager) cascade(ctx context.Context, tx models.Store, username string) error {
	for _, dep := range tx.Dependents() {
		m.logger.Debug("deleting records", "entity", dep.Entity(), "username", username)
		if err := dep.DeleteByUsername(ctx, username); err != nil {
			return fmt.Errorf("%w: %s: %w", shared.ErrCascadeFailed, dep.Entity(), err)
		}
	}

	m.logger.Debug("deleting records", "entity", models.EntityUsers, "username", username)
	if err := tx.Users().DeleteByUsername(ctx, username); err != nil {
		return fmt.Errorf("%w: %s: %w", shared.ErrCascadeFailed, models.EntityUsers, err)
	}
	return nil
}

// Update changes one field of a listed user.
func (m *Manager) Update(ctx context.Context) error {
	if _, err := m.List(ctx); err != nil {
		return err
	}

	username, err := m.prompt.ReadLine(fmt.Sprintf(PromptTarget, "update"))
	if err != nil {
		return err
	}

	user, err := m.store.Users().FindByUsername(ctx, username)
	if errors.Is(err, shared.ErrUserNotFound) {
		m.say(m.styles.Warn(MsgNotFound))
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to look up user %q: %w", username, err)
	}

	m.say(fmt.Sprintf("The following settings of a user should be updated: %s", user))

	field, err := m.prompt.ReadLine(PromptField)
	if err != nil {
		return err
	}

	var done string
	switch field {
	case FieldRole:
		role, err := m.prompt.ReadRole(fmt.Sprintf("Enter the new role [%s]", models.RoleNames()))
		if err != nil {
			return err
		}
		user.Role, done = role, MsgRoleUpdated
	case FieldPassword:
		password, err := m.prompt.ReadSecret(PromptNewPassword)
		if err != nil {
			return err
		}
		user.Password, done = HashPassword(password), MsgPasswordUpdate
	case FieldExplicitConsent:
		user.ExplicitConsent, done = !user.ExplicitConsent, MsgConsentUpdated
	default:
		m.say(m.styles.Warn(MsgFieldNotFound))
		return nil
	}

	if err := m.store.Users().Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update %s of %q: %w", field, username, err)
	}

	m.logger.Info("user updated", "username", username, "field", field)
	m.say(m.styles.OK(done))
	return nil
}

// List prints every user without passwords and returns them.
func (m *Manager) List(ctx context.Context) ([]models.UserSummary, error) {
	users, err := m.store.Users().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	m.say(m.styles.UserTable(users))
	return users, nil
}

// confirm reports whether the operator agreed, printing [MsgAborted] when they did not.
func (m *Manager) confirm() (bool, error) {
	ok, err := m.prompt.Confirm()
	if err != nil {
		return false, err
	}
	if !ok {
		m.logger.Debug("operator declined")
		m.say(m.styles.Warn(MsgAborted))
	}
	return ok, nil
}

func (m *Manager) say(s string) {
	fmt.Fprintln(m.out, s)
}
