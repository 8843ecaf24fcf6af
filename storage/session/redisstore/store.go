// Package redisstore keeps sessions in Redis as JSON values that expire with the session.
package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/masomo-portal/core/session"
)

const keyPrefix = "session:"

var nowFunc = time.Now // mockable

type Store struct {
	rdb redis.Cmdable
}

var _ session.Store = (*Store)(nil)

func NewStore(rdb redis.Cmdable) *Store {
	return &Store{rdb: rdb}
}

// NewClient connects to the Redis server at addr and checks it answers.
func NewClient(ctx context.Context, addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return rdb, nil
}

func key(id string) string { return keyPrefix + id }

func (s *Store) Save(ctx context.Context, sess session.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}

	var ttl time.Duration
	if !sess.ExpiresAt.IsZero() {
		if ttl = sess.ExpiresAt.Sub(nowFunc()); ttl <= 0 {
			return nil
		}
	}
	return errors.Wrap(s.rdb.Set(ctx, key(sess.ID), data, ttl).Err(), "saving session")
}

func (s *Store) Get(ctx context.Context, id string) (session.Session, error) {
	data, err := s.rdb.Get(ctx, key(id)).Bytes()
	if err == redis.Nil {
		return session.Session{}, session.ErrNotFound
	} else if err != nil {
		return session.Session{}, errors.Wrap(err, "getting session")
	}

	var sess session.Session
	if err = json.Unmarshal(data, &sess); err != nil {
		return session.Session{}, errors.Wrap(err, "decoding session")
	}
	return sess, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	n, err := s.rdb.Del(ctx, key(id)).Result()
	if err != nil {
		return errors.Wrap(err, "deleting session")
	}
	if n == 0 {
		return session.ErrNotFound
	}
	return nil
}
