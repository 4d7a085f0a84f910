package memory

import (
	"time"

	"ai-support-chat-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// StateRepository keeps the live dialogue state of open chat sessions.
// Idle sessions expire after an hour so abandoned conversations do not
// accumulate.
type StateRepository struct {
	cache *cache.Cache
}

func NewStateRepository() *StateRepository {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &StateRepository{
		cache: c,
	}
}

func (r *StateRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *StateRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *StateRepository) GetOrCreate(sessionID string) *store.Session {
	if s, found := r.Get(sessionID); found {
		return s
	}
	s := store.NewSession(sessionID)
	r.Save(s)
	return s
}

func (r *StateRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
