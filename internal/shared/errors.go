package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Console input errors
	ErrInputClosed = fmt.Errorf("input closed")
	ErrInvalidRole = fmt.Errorf("invalid role")

	// Account errors
	ErrUserExists        = fmt.Errorf("user already exists")
	ErrUserNotFound      = fmt.Errorf("user not found")
	ErrInvalidUser       = fmt.Errorf("invalid user")
	ErrPlaintextPassword = fmt.Errorf("password is not a hashed credential")
	ErrCascadeFailed     = fmt.Errorf("cascading delete failed")

	// Persistence errors
	ErrUnsupportedDriver = fmt.Errorf("unsupported database driver")

	// Export errors
	ErrUnsupportedFormat = fmt.Errorf("unsupported export format")
)
