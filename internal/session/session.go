package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"distris/internal/model"
	"distris/internal/store"
)

const (
	CookieName = "dash_session"
	keyPrefix  = "dash_session:"
	DefaultTTL = 30 * time.Minute
)

var ErrNoSession = errors.New("session not found or expired")

// Session binds a dashboard cookie to a backend token and its user.
type Session struct {
	ID        string     `json:"id"`
	Token     string     `json:"token"`
	User      model.User `json:"user"`
	CreatedAt time.Time  `json:"createdAt"`
}

type Store struct {
	kv  store.KV
	ttl time.Duration
}

func NewStore(kv store.KV, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{kv: kv, ttl: ttl}
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) Create(ctx context.Context, token string, user model.User) (*Session, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		Token:     token,
		User:      user,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.SetJSON(ctx, s.kv, keyPrefix+sess.ID, sess, s.ttl); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get loads a session and slides its expiration.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNoSession
	}

	var sess Session
	err := store.GetJSON(ctx, s.kv, keyPrefix+id, &sess)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	if err := s.kv.Touch(ctx, keyPrefix+id, s.ttl); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	return &sess, nil
}

// UpdateUser refreshes the cached user, e.g. after /auth/me.
func (s *Store) UpdateUser(ctx context.Context, sess *Session, user model.User) error {
	sess.User = user
	return store.SetJSON(ctx, s.kv, keyPrefix+sess.ID, sess, s.ttl)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.kv.Delete(ctx, keyPrefix+id)
}
