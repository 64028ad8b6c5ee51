package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"smartedtech/internal/models"
)

const sessionKeyPrefix = "session:"

// redisSession is the JSON document stored under each session key
type redisSession struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Profile   models.User `json:"profile"`
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// RedisSessionRepository stores sessions as JSON values whose key TTL
// matches the session expiry.
type RedisSessionRepository struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewRedisSessionRepository creates a session repository backed by Redis
func NewRedisSessionRepository(client redis.Cmdable) *RedisSessionRepository {
	return &RedisSessionRepository{client: client, now: time.Now}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// Create stores a new session with a TTL ending at its expiry
func (r *RedisSessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = r.now()
	}
	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return fmt.Errorf("failed to create session: already expired")
	}
	return r.write(ctx, session, ttl)
}

func (r *RedisSessionRepository) write(ctx context.Context, session *models.Session, ttl time.Duration) error {
	data, err := json.Marshal(redisSession{
		ID:        session.ID,
		UserID:    session.UserID,
		Profile:   session.User,
		CreatedAt: session.CreatedAt.UTC(),
		ExpiresAt: session.ExpiresAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID
func (r *RedisSessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	value, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return decodeRedisSession(value)
}

func decodeRedisSession(value []byte) (*models.Session, error) {
	var stored redisSession
	if err := json.Unmarshal(value, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &models.Session{
		ID:        stored.ID,
		UserID:    stored.UserID,
		User:      stored.Profile,
		CreatedAt: stored.CreatedAt,
		ExpiresAt: stored.ExpiresAt,
	}, nil
}

// UpdateProfile rewrites the profile snapshot and keeps the remaining TTL
func (r *RedisSessionRepository) UpdateProfile(ctx context.Context, id string, user models.User) error {
	session, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNotFound
	}
	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return ErrNotFound
	}
	session.User = user
	return r.write(ctx, session, ttl)
}

// Delete removes a session
func (r *RedisSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op; Redis evicts keys when their TTL lapses
func (r *RedisSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

// List scans session keys and returns up to limit sessions, newest first
func (r *RedisSessionRepository) List(ctx context.Context, limit int) ([]models.Session, error) {
	var sessions []models.Session
	iter := r.client.Scan(ctx, 0, sessionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		value, err := r.client.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get session: %w", err)
		}
		session, err := decodeRedisSession(value)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan sessions: %w", err)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}
