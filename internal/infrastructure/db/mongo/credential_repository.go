package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/qrvault/qrvault/internal/core/domain"
)

const (
	usersCollection    = "users"
	attemptsCollection = "login_attempts"
)

// Timestamps are persisted as RFC 3339 text in UTC with a fixed-width,
// zero-padded fractional field. The padding matters: RFC3339Nano trims
// trailing zeros, which makes lexicographic order diverge from chronological
// order, and the range filters and sorts below compare the stored strings
// byte-wise.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type CredentialRepository struct {
	users    *mongo.Collection
	attempts *mongo.Collection
}

func NewCredentialRepository(db *mongo.Database) *CredentialRepository {
	return &CredentialRepository{
		users:    db.Collection(usersCollection),
		attempts: db.Collection(attemptsCollection),
	}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	CreatedAt    string             `bson:"created_at"`
}

type mongoAttempt struct {
	Username    string `bson:"username"`
	AttemptTime string `bson:"attempt_time"`
}

func (r *CredentialRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		CreatedAt:    formatStoredTime(user.CreatedAt),
	}

	res, err := r.users.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

// FindByCredentials matches username and digest in one query, so an unknown
// username and a wrong password produce the same outcome.
func (r *CredentialRepository) FindByCredentials(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"username": username, "password_hash": passwordHash}

	var mu mongoUser
	if err := r.users.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	createdAt, err := parseStoredTime(mu.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}

	return &domain.User{
		ID:           mu.ID.Hex(),
		Username:     mu.Username,
		PasswordHash: mu.PasswordHash,
		Role:         mu.Role,
		CreatedAt:    createdAt,
	}, nil
}

func (r *CredentialRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.users.FindOne(ctx, bson.M{"username": username}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	createdAt, err := parseStoredTime(mu.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}

	return &domain.User{
		ID:           mu.ID.Hex(),
		Username:     mu.Username,
		PasswordHash: mu.PasswordHash,
		Role:         mu.Role,
		CreatedAt:    createdAt,
	}, nil
}

func (r *CredentialRepository) InsertAttempt(ctx context.Context, attempt *domain.LoginAttempt) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAttempt{
		Username:    attempt.Username,
		AttemptTime: formatStoredTime(attempt.AttemptTime),
	}
	if _, err := r.attempts.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert login attempt: %w", err)
	}
	return nil
}

func (r *CredentialRepository) CountAttemptsBetween(ctx context.Context, username string, from, to time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"username": username,
		"attempt_time": bson.M{
			"$gte": formatStoredTime(from),
			"$lt":  formatStoredTime(to),
		},
	}

	n, err := r.attempts.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count login attempts: %w", err)
	}
	return n, nil
}

func (r *CredentialRepository) ListUsernames(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.M{"username": 1}).
		SetSort(bson.D{{Key: "username", Value: 1}})

	cur, err := r.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list usernames: %w", err)
	}
	defer cur.Close(ctx)

	var usernames []string
	for cur.Next(ctx) {
		var doc struct {
			Username string `bson:"username"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode username: %w", err)
		}
		usernames = append(usernames, doc.Username)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list usernames: %w", err)
	}
	return usernames, nil
}

// EnsureIndexes creates the unique username constraint and the index backing
// the daily attempt count query.
func (r *CredentialRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = r.attempts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}, {Key: "attempt_time", Value: 1}},
	})
	return err
}

func formatStoredTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseStoredTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}
