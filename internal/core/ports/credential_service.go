package ports

import (
	"context"

	"github.com/qrvault/qrvault/internal/core/domain"
)

type CredentialService interface {
	// Register creates an account with role "user". The username is trimmed
	// and lowercased before use.
	Register(ctx context.Context, username, password string) (*domain.User, error)

	// Login authenticates and returns a signed session token plus the
	// identity. Returns domain.ErrLockedOut when the username has five or
	// more failed attempts today, regardless of credential correctness, and
	// domain.ErrInvalidCredentials on any mismatch (one more attempt is
	// recorded in that case).
	Login(ctx context.Context, username, password string) (string, *domain.User, error)

	// FailedAttemptsToday reports today's failed-login count for username.
	FailedAttemptsToday(ctx context.Context, username string) (int64, error)

	// ListUsernames is the audited admin diagnostic that replaces the legacy
	// debug listing. Access control is enforced by the transport layer.
	ListUsernames(ctx context.Context) ([]string, error)
}
