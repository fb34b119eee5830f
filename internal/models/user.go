package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/desertthunder/podfetch-console/internal/shared"
	"github.com/go-playground/validator/v10"
)

// Role is a permission level granted to a [User].
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleUploader Role = "uploader"
	RoleUser     Role = "user"
)

// Roles lists every permitted role in display order.
var Roles = []Role{RoleAdmin, RoleUploader, RoleUser}

// ParseRole matches s exactly against [Roles].
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !slices.Contains(Roles, r) {
		return "", fmt.Errorf("%w: %q (expected one of %s)", shared.ErrInvalidRole, s, RoleNames())
	}
	return r, nil
}

// RoleNames renders [Roles] as "admin, uploader, user".
func RoleNames() string {
	names := make([]string, len(Roles))
	for i, r := range Roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

func (r Role) String() string { return string(r) }

// User is an account of the podcast server.
//
// Password is empty for accounts without a local password. Whenever it is set on a persisted
// user it holds the hex SHA-256 digest of the secret, never the secret itself.
type User struct {
	ID              int64     `validate:"gte=0"`
	Username        string    `validate:"required,max=255,trimmed"`
	Role            Role      `validate:"required,oneof=admin uploader user"`
	Password        string    `validate:"omitempty,len=64,hexadecimal,lowercase"`
	ExplicitConsent bool
	CreatedAt       time.Time `validate:"required"`
}

// UserSummary is a [User] without its password.
type UserSummary struct {
	ID              int64
	Username        string
	Role            Role
	ExplicitConsent bool
	CreatedAt       time.Time
}

// NewUser creates an unsaved user. The ID is assigned by the store and consent starts out false.
func NewUser(username string, role Role, password string, createdAt time.Time) *User {
	return &User{
		ID:        0,
		Username:  strings.TrimSpace(username),
		Role:      role,
		Password:  password,
		CreatedAt: createdAt,
	}
}

// Summary drops the password.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:              u.ID,
		Username:        u.Username,
		Role:            u.Role,
		ExplicitConsent: u.ExplicitConsent,
		CreatedAt:       u.CreatedAt,
	}
}

// String renders the user for operator review with the password masked.
func (u *User) String() string {
	return fmt.Sprintf("User{ID: %d, Username: %q, Role: %s, Password: %q, ExplicitConsent: %t, CreatedAt: %s}",
		u.ID, u.Username, u.Role, shared.MaskSecret(u.Password), u.ExplicitConsent, u.CreatedAt.Format(time.RFC3339))
}

// Validate checks the user is fit to be written to a store.
//
// A password that is not a lowercase hex SHA-256 digest fails with [shared.ErrPlaintextPassword].
func (u *User) Validate() error {
	err := validate.Struct(u)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", shared.ErrInvalidUser, err)
	}

	msgs := make([]string, 0, len(ve))
	plaintext := false
	for _, fe := range ve {
		if fe.Field() == "Password" {
			plaintext = true
		}
		msgs = append(msgs, fieldError(fe))
	}

	if plaintext {
		return fmt.Errorf("%w: %w: %s", shared.ErrInvalidUser, shared.ErrPlaintextPassword, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %s", shared.ErrInvalidUser, strings.Join(msgs, "; "))
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("trimmed", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == strings.TrimSpace(s)
	})
	return v
}

// fieldError converts a single [validator.FieldError] into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "trimmed":
		return field + " must not start or end with whitespace"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "len", "hexadecimal", "lowercase":
		return field + " must be a hashed credential"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
