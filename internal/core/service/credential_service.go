package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/pbkdf2"

	"github.com/qrvault/qrvault/internal/api/metrics"
	"github.com/qrvault/qrvault/internal/core/domain"
	"github.com/qrvault/qrvault/internal/core/ports"
)

const (
	digestIterations = 100_000
	digestKeyLen     = 32
)

// CredentialService implements registration and the login state machine:
// a locked username is denied before credentials are even checked, a
// credential mismatch records one failed attempt, and a match issues a
// session token.
type CredentialService struct {
	repo             ports.CredentialRepository
	jwtSecret        string
	tokenTTL         time.Duration
	pepper           []byte
	maxDailyFailures int64
	log              zerolog.Logger

	// now is the store clock; the daily lockout window derives from it.
	// Overridable in tests.
	now func() time.Time
}

func NewCredentialService(repo ports.CredentialRepository, jwtSecret, pepper string, tokenTTL time.Duration, maxDailyFailures int64, log zerolog.Logger) *CredentialService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if maxDailyFailures <= 0 {
		maxDailyFailures = 5
	}
	return &CredentialService{
		repo:             repo,
		jwtSecret:        jwtSecret,
		tokenTTL:         tokenTTL,
		pepper:           []byte(pepper),
		maxDailyFailures: maxDailyFailures,
		log:              log,
		now:              time.Now,
	}
}

// NormalizeUsername returns the canonical form used for uniqueness and
// lookup: trimmed of surrounding whitespace and lowercased.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// hashPassword derives a deterministic digest so that login stays a single
// username+digest equality query. PBKDF2-SHA256 with a deployment-wide
// pepper; deterministic by construction, unlike a per-hash salted scheme.
func (s *CredentialService) hashPassword(password string) string {
	key := pbkdf2.Key([]byte(password), s.pepper, digestIterations, digestKeyLen, sha256.New)
	return hex.EncodeToString(key)
}

func (s *CredentialService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = NormalizeUsername(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: s.hashPassword(password),
		Role:         domain.RoleUser,
		CreatedAt:    s.now().UTC(),
	}

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		}
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	s.log.Info().Str("username", created.Username).Msg("user registered")
	return created, nil
}

func (s *CredentialService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	username = NormalizeUsername(username)
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	count, err := s.FailedAttemptsToday(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if count >= s.maxDailyFailures {
		metrics.LoginAttemptsTotal.WithLabelValues("locked").Inc()
		s.log.Warn().Str("username", username).Int64("failures_today", count).Msg("login denied: daily lockout")
		return "", nil, domain.ErrLockedOut
	}

	user, err := s.repo.FindByCredentials(ctx, username, s.hashPassword(password))
	if errors.Is(err, domain.ErrInvalidCredentials) {
		if rerr := s.recordFailedAttempt(ctx, username); rerr != nil {
			s.log.Error().Err(rerr).Str("username", username).Msg("failed to record login attempt")
		}
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return token, user, nil
}

// FailedAttemptsToday counts failed logins for username within the current
// UTC calendar day. The window resets at midnight, it is not a rolling 24h.
func (s *CredentialService) FailedAttemptsToday(ctx context.Context, username string) (int64, error) {
	now := s.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.repo.CountAttemptsBetween(ctx, NormalizeUsername(username), dayStart, dayStart.AddDate(0, 0, 1))
}

func (s *CredentialService) recordFailedAttempt(ctx context.Context, username string) error {
	return s.repo.InsertAttempt(ctx, &domain.LoginAttempt{
		Username:    username,
		AttemptTime: s.now().UTC(),
	})
}

// EnsureAdmin bootstraps the admin account from configuration at startup.
// A no-op when credentials are unset or the admin account already exists; an
// existing non-admin account squatting on the configured username is an
// error, not a silent skip.
func (s *CredentialService) EnsureAdmin(ctx context.Context, username, password string) error {
	username = NormalizeUsername(username)
	if username == "" || password == "" {
		return nil
	}

	admin := &domain.User{
		Username:     username,
		PasswordHash: s.hashPassword(password),
		Role:         domain.RoleAdmin,
		CreatedAt:    s.now().UTC(),
	}
	if _, err := s.repo.CreateUser(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			existing, ferr := s.repo.FindByUsername(ctx, username)
			if ferr != nil {
				return ferr
			}
			if existing.Role != domain.RoleAdmin {
				return fmt.Errorf("admin bootstrap: username %q is taken by a %q account", username, existing.Role)
			}
			return nil
		}
		return err
	}

	s.log.Info().Str("username", username).Msg("admin account bootstrapped")
	return nil
}

// ListUsernames serves the admin diagnostic endpoint. Every call is logged
// so that username disclosure leaves an audit trail.
func (s *CredentialService) ListUsernames(ctx context.Context) ([]string, error) {
	s.log.Warn().Str("operation", "list_usernames").Msg("admin diagnostic: full username listing requested")
	return s.repo.ListUsernames(ctx)
}

func (s *CredentialService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      s.now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
