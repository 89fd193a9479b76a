package usecase

import (
	"fmt"
	"sync"

	"github.com/drinkbook/client/internal/domain"
	"go.uber.org/zap"
)

// SearchSessions tracks the open image picker sessions by id
type SearchSessions struct {
	images *ImageSearchCache
	config SearchSessionConfig
	log    *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*SearchSession
}

// NewSearchSessions creates an empty registry. All sessions share images.
func NewSearchSessions(images *ImageSearchCache, config SearchSessionConfig, log *zap.Logger) *SearchSessions {
	if log == nil {
		log = zap.NewNop()
	}
	return &SearchSessions{
		images:   images,
		config:   config,
		log:      log,
		sessions: make(map[string]*SearchSession),
	}
}

// Open starts a new idle session
func (r *SearchSessions) Open() *SearchSession {
	session := NewSearchSession(r.images, r.config, r.log)

	r.mu.Lock()
	r.sessions[session.ID()] = session
	r.mu.Unlock()

	return session
}

// Get returns the session with the given id
func (r *SearchSessions) Get(id string) (*SearchSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: search session %s", domain.ErrNotFound, id)
	}
	return session, nil
}

// Close tears down and forgets the session with the given id
func (r *SearchSessions) Close(id string) error {
	r.mu.Lock()
	session, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: search session %s", domain.ErrNotFound, id)
	}
	session.Close()
	return nil
}

// CloseAll tears down every open session
func (r *SearchSessions) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*SearchSession)
	r.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}

// Len returns the number of open sessions
func (r *SearchSessions) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
