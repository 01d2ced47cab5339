package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/docket/internal/applications"
	"github.com/five82/docket/internal/record"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Records     []record.Record
	Loaded      bool
	Loading     bool
	LastUpdated time.Time
	LastError   error
	Generation  uint64 // load generation that produced Records
}

// Token ties a status update to the moment it was issued. A token is
// superseded by a later update of the same record or by a completed reload.
type Token uint64

// StatusChange is an acknowledged status update waiting to be applied.
type StatusChange struct {
	ID     int64
	Token  Token
	Status applications.Status
}

// Store coordinates concurrent updates to the record collection.
type Store struct {
	mu        sync.RWMutex
	snapshot  Snapshot
	loadGen   uint64
	nextToken Token
	tokens    map[int64]Token
}

// BeginLoad starts a new load generation. Results from older generations are
// dropped by FinishLoad.
func (s *Store) BeginLoad() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadGen++
	s.snapshot.Loading = true
	return s.loadGen
}

// FinishLoad installs records for generation gen. On error the previous
// collection is kept and the error recorded. It returns false when gen has
// been superseded and nothing was changed.
func (s *Store) FinishLoad(gen uint64, records []record.Record, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.loadGen {
		return false
	}
	s.snapshot.Loading = false
	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		return true
	}

	s.snapshot.Records = record.CloneAll(records)
	s.snapshot.Loaded = true
	s.snapshot.LastError = nil
	s.snapshot.Generation = gen
	clear(s.tokens)
	return true
}

// BeginUpdate issues a fresh token for each id, superseding any update still
// in flight for those ids.
func (s *Store) BeginUpdate(ids ...int64) map[int64]Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tokens == nil {
		s.tokens = make(map[int64]Token)
	}
	out := make(map[int64]Token, len(ids))
	for _, id := range ids {
		s.nextToken++
		s.tokens[id] = s.nextToken
		out[id] = s.nextToken
	}
	return out
}

// ApplyStatus patches every change whose token is still current, in a single
// write. It returns the ids that were applied.
func (s *Store) ApplyStatus(changes []StatusChange) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var applied []int64
	for _, c := range changes {
		if current, ok := s.tokens[c.ID]; !ok || current != c.Token {
			continue
		}
		delete(s.tokens, c.ID)
		for i := range s.snapshot.Records {
			if s.snapshot.Records[i].ID == c.ID {
				s.snapshot.Records[i].Status = c.Status
				applied = append(applied, c.ID)
				break
			}
		}
	}
	if len(applied) > 0 {
		s.snapshot.LastUpdated = time.Now()
	}
	return applied
}

// Release forgets tokens for updates that failed, so they no longer count as
// in flight.
func (s *Store) Release(tokens map[int64]Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, tok := range tokens {
		if s.tokens[id] == tok {
			delete(s.tokens, id)
		}
	}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Records = record.CloneAll(s.snapshot.Records)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
