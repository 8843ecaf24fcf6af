package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
)

var (
	nowFunc = time.Now // mockable

	// errors
	ErrNotFound        = errors.New("session not found")
	ErrInvalidIdentity = errors.New("backend returned an incomplete identity")
)

type (
	// Store persists sessions by ID.
	Store interface {
		Save(ctx context.Context, sess Session) error
		Get(ctx context.Context, id string) (Session, error) // ErrNotFound when missing
		Delete(ctx context.Context, id string) error
	}

	// Provider owns the session lifecycle: created on login, read on every request, cleared on logout.
	Provider struct {
		store Store
		ttl   time.Duration
	}
)

func NewProvider(store Store, ttl time.Duration) *Provider {
	return &Provider{store: store, ttl: ttl}
}

// Login stores the identity and token; the session is effective for the next request.
func (p *Provider) Login(ctx context.Context, ident Identity, token string) (Session, error) {
	if ident.UserID == "" || token == "" {
		return Session{}, ErrInvalidIdentity
	}

	now := nowFunc().UTC()
	role, _ := ParseRole(ident.Role)
	sess := Session{
		ID:        uuid.New().String(),
		UserID:    ident.UserID,
		FullName:  ident.FullName,
		Role:      role,
		RawRole:   ident.Role,
		Token:     token,
		CreatedAt: now,
	}
	if p.ttl > 0 {
		sess.ExpiresAt = now.Add(p.ttl)
	}
	if err := p.store.Save(ctx, sess); err != nil {
		return Session{}, pkgerrors.Wrap(err, "saving session")
	}
	return sess, nil
}

// Current returns the live session with the given ID. Expired sessions are removed.
func (p *Provider) Current(ctx context.Context, id string) (Session, error) {
	if id == "" {
		return Session{}, ErrNotFound
	}
	sess, err := p.store.Get(ctx, id)
	if err != nil {
		if err == ErrNotFound {
			return Session{}, err
		}
		return Session{}, pkgerrors.Wrap(err, "getting session")
	}
	if sess.Expired(nowFunc()) {
		if err = p.store.Delete(ctx, id); err != nil {
			return Session{}, pkgerrors.Wrap(err, "deleting expired session")
		}
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// Logout clears the session. Logging out twice is not an error.
func (p *Provider) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := p.store.Delete(ctx, id); err != nil && err != ErrNotFound {
		return pkgerrors.Wrap(err, "deleting session")
	}
	return nil
}

// CurrentRole returns the role of sess, or Unauthenticated when there is none.
func CurrentRole(sess *Session) Role {
	if sess == nil || sess.IsZero() {
		return Unauthenticated
	}
	if !sess.Role.Valid() {
		return RoleStudent
	}
	return sess.Role
}
