package memory

import (
	"sync"
	"testing"
	"time"

	"ai-studymate-be/pkg/store"
)

func newTestRepository() *SessionRepository {
	return NewSessionRepository(time.Hour, time.Hour)
}

func TestGetOrCreateReturnsSameSession(t *testing.T) {
	repo := newTestRepository()

	first := repo.GetOrCreate("sess-1")
	second := repo.GetOrCreate("sess-1")
	if first != second {
		t.Error("GetOrCreate returned different objects for the same id")
	}
	if first.Id != "sess-1" {
		t.Errorf("session id = %q, want sess-1", first.Id)
	}
}

func TestGetOrCreateConcurrentFirstRequests(t *testing.T) {
	// Two requests racing on a fresh session id must both observe the same
	// session object, otherwise their per-session locks serialize nothing
	// and the last save silently discards the other's writes.
	const goroutines = 16
	const iterations = 200

	for i := 0; i < iterations; i++ {
		repo := newTestRepository()

		start := make(chan struct{})
		results := make([]*store.StudySession, goroutines)
		var wg sync.WaitGroup
		for g := 0; g < goroutines; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				<-start
				results[g] = repo.GetOrCreate("fresh-session")
			}(g)
		}
		close(start)
		wg.Wait()

		for g := 1; g < goroutines; g++ {
			if results[g] != results[0] {
				t.Fatalf("iteration %d: goroutine %d observed a distinct session object", i, g)
			}
		}
	}
}

func TestDeleteRemovesSession(t *testing.T) {
	repo := newTestRepository()

	created := repo.GetOrCreate("sess-1")
	repo.Delete("sess-1")

	if _, found := repo.Get("sess-1"); found {
		t.Error("session still resolvable after Delete")
	}
	if recreated := repo.GetOrCreate("sess-1"); recreated == created {
		t.Error("GetOrCreate after Delete returned the deleted object")
	}
}
