package memory

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"ai-studymate-be/pkg/store"
)

type SessionRepository struct {
	cache *cache.Cache

	// Serializes the check-and-set in GetOrCreate. go-cache is safe for
	// concurrent use, but a get-miss followed by Set is not atomic, and two
	// first requests for the same id must never mint two session objects.
	mu sync.Mutex
}

func NewSessionRepository(ttl, sweepInterval time.Duration) *SessionRepository {
	return &SessionRepository{
		cache: cache.New(ttl, sweepInterval),
	}
}

func (r *SessionRepository) Save(session *store.StudySession) {
	r.cache.Set(session.Id, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionId string) (*store.StudySession, bool) {
	if x, found := r.cache.Get(sessionId); found {
		return x.(*store.StudySession), true
	}
	return nil, false
}

// GetOrCreate returns the live session for the id, creating and saving a
// fresh one if none exists. Concurrent callers with the same id always get
// the same session object, so its mutex actually serializes them. Each
// lookup refreshes the TTL so active sessions survive as long as the user
// keeps working.
func (r *SessionRepository) GetOrCreate(sessionId string) *store.StudySession {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sess, found := r.Get(sessionId); found {
		r.cache.Set(sessionId, sess, cache.DefaultExpiration)
		return sess
	}
	sess := store.NewStudySession(sessionId)
	r.Save(sess)
	return sess
}

func (r *SessionRepository) Delete(sessionId string) {
	r.cache.Delete(sessionId)
}
