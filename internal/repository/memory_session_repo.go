package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"smartedtech/internal/models"
)

// MemorySessionRepository keeps sessions in process memory. Sessions are
// lost on restart; useful for local development and tests.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

// NewMemorySessionRepository creates an empty in-memory session store
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]models.Session)}
}

// Create stores a new session
func (r *MemorySessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = *session
	return nil
}

// Get retrieves a session by ID
func (r *MemorySessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

// UpdateProfile replaces the cached user profile of a session
func (r *MemorySessionRepository) UpdateProfile(ctx context.Context, id string, user models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return ErrNotFound
	}
	session.User = user
	r.sessions[id] = session
	return nil
}

// Delete removes a session
func (r *MemorySessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// DeleteExpired removes sessions that expired before now
func (r *MemorySessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, session := range r.sessions {
		if session.ExpiresAt.Before(now) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// List returns up to limit sessions, newest first
func (r *MemorySessionRepository) List(ctx context.Context, limit int) ([]models.Session, error) {
	r.mu.RLock()
	sessions := make([]models.Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	r.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}
