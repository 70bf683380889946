package session

import (
	"sync"
)

// Session is the per-user wizard state. It is replaced wholesale on every
// step transition and deleted on wizard exit.
type Session struct {
	Step            Step
	MessageIDs      []int
	AwaitingReceipt bool
}

// Store maps user ids to their active wizard session. It lives in process
// memory only: a restart drops in-flight wizards and users start over.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// Set installs a session for the user, overwriting any existing one.
func (s *Store) Set(userID int64, sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = sess
}

// Get returns the user's session, or nil if none is active.
func (s *Store) Get(userID int64) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[userID]
}

// Clear removes the user's session if present.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// AppendMessageID records an outstanding message for later retraction.
// No-op when the user has no active session.
func (s *Store) AppendMessageID(userID int64, messageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		sess.MessageIDs = append(sess.MessageIDs, messageID)
	}
}

// KeyedMutex serializes event handling per user id so that two interleaved
// transitions cannot corrupt one session, while different users stay fully
// concurrent.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[int64]*userLock)}
}

func (k *KeyedMutex) Lock(userID int64) {
	k.mu.Lock()
	l, ok := k.locks[userID]
	if !ok {
		l = &userLock{}
		k.locks[userID] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
}

func (k *KeyedMutex) Unlock(userID int64) {
	k.mu.Lock()
	l, ok := k.locks[userID]
	if !ok {
		k.mu.Unlock()
		return
	}
	l.refs--
	if l.refs == 0 {
		delete(k.locks, userID)
	}
	k.mu.Unlock()

	l.mu.Unlock()
}
