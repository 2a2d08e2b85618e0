package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	platformerrors "github.com/louisbranch/what2pick/internal/platform/errors"
	"github.com/louisbranch/what2pick/internal/platform/id"
	"github.com/louisbranch/what2pick/internal/platform/storage/sqlspec"
)

// Service owns user persistence and the implicit-creation login flow.
type Service struct {
	store *sqlspec.Store
	now   func() time.Time
}

// NewService ensures the users table exists and returns the service.
func NewService(ctx context.Context, store *sqlspec.Store) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if err := store.EnsureTable(ctx, schema); err != nil {
		return nil, err
	}
	return &Service{store: store, now: time.Now}, nil
}

// Login resolves a credential pair to a user. Unknown identities, stale
// credentials, and mismatched secrets all yield a fresh user rather than
// an error; a successful match bumps the last-access stamp.
func (s *Service) Login(ctx context.Context, uid, secret string) (User, error) {
	if strings.TrimSpace(uid) == "" {
		return s.Create(ctx)
	}

	record, err := s.store.FindOne(ctx, schema, map[string]any{"uid": uid})
	if err != nil {
		if errors.Is(err, sqlspec.ErrNotFound) {
			return s.Create(ctx)
		}
		return User{}, err
	}

	u := fromRecord(record)
	now := s.now().UTC()
	if now.Sub(u.LastAccess) > credentialTTL {
		return s.Create(ctx)
	}
	if u.Secret != secret {
		return s.Create(ctx)
	}

	u.LastAccess = now
	if err := s.store.Update(ctx, u.syncRecord()); err != nil {
		return User{}, err
	}
	return u, nil
}

// Create inserts a brand new user with a random display name.
func (s *Service) Create(ctx context.Context) (User, error) {
	uid, err := id.NewID()
	if err != nil {
		return User{}, fmt.Errorf("generate uid: %w", err)
	}
	secret, err := id.NewID()
	if err != nil {
		return User{}, fmt.Errorf("generate secret: %w", err)
	}

	u := User{
		UID:        uid,
		Secret:     secret,
		Name:       RandomFullName(),
		LastAccess: s.now().UTC(),
	}
	if err := s.store.Insert(ctx, u.syncRecord()); err != nil {
		return User{}, err
	}
	return u, nil
}

// ChangeName renames the credentialed user. Blank names are ignored and
// long names are truncated rather than rejected.
func (s *Service) ChangeName(ctx context.Context, uid, secret, name string) (User, error) {
	u, err := s.Login(ctx, uid, secret)
	if err != nil {
		return User{}, err
	}

	name = truncateName(name)
	if strings.TrimSpace(name) == "" {
		return u, nil
	}

	u.Name = name
	if err := s.store.Update(ctx, u.syncRecord()); err != nil {
		return User{}, err
	}
	return u, nil
}

// DisplayName looks up the display name for a user id.
func (s *Service) DisplayName(ctx context.Context, uid string) (string, error) {
	record, err := s.store.FindOne(ctx, schema, map[string]any{"uid": uid})
	if err != nil {
		if errors.Is(err, sqlspec.ErrNotFound) {
			return "", platformerrors.New(platformerrors.CodeNotFound, "user not found")
		}
		return "", err
	}
	return record.Get("name").(string), nil
}
