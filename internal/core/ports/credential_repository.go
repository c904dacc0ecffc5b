package ports

import (
	"context"
	"time"

	"github.com/qrvault/qrvault/internal/core/domain"
)

// CredentialRepository owns the users and login_attempts collections. It
// exposes the four primitive operations of the credential store; composing
// them into a login flow (lockout check, credential check, attempt recording)
// is the service layer's job, so the repository stays policy-free.
type CredentialRepository interface {
	// CreateUser inserts a new user. Returns domain.ErrUserExists when the
	// normalized username is already taken; the insert is atomic, so a failed
	// attempt leaves no partial state.
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)

	// FindByCredentials resolves a user by normalized username and password
	// digest in a single equality query. A wrong password and an unknown
	// username are indistinguishable: both return domain.ErrInvalidCredentials.
	FindByCredentials(ctx context.Context, username, passwordHash string) (*domain.User, error)

	// FindByUsername resolves a user by normalized username alone. Returns
	// domain.ErrUserNotFound when no account matches. Not part of the login
	// path, which goes through FindByCredentials.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// InsertAttempt appends one failed-login audit row. The username is not
	// required to reference an existing user.
	InsertAttempt(ctx context.Context, attempt *domain.LoginAttempt) error

	// CountAttemptsBetween counts failed attempts for username with
	// from <= attempt_time < to.
	CountAttemptsBetween(ctx context.Context, username string, from, to time.Time) (int64, error)

	// ListUsernames returns every registered username, sorted ascending.
	// Reserved for the audited admin diagnostic.
	ListUsernames(ctx context.Context) ([]string, error)
}
