package session

import "sync"

// Session is the authenticated context of one chat.
type Session struct {
	UserID   int64
	Username string
	IsAdmin  bool
}

// Store maps chat IDs to sessions. It is volatile: a process restart logs
// every chat out and users must authenticate again.
type Store struct {
	mu sync.RWMutex
	m  map[int64]Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{m: make(map[int64]Session)}
}

// Put stores the session for a chat, replacing any previous one.
func (s *Store) Put(chatID int64, sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[chatID] = sess
}

// Get returns the session for a chat, if any.
func (s *Store) Get(chatID int64) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.m[chatID]
	return sess, ok
}

// Delete removes the session for a chat and reports whether one existed.
func (s *Store) Delete(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.m[chatID]
	delete(s.m, chatID)
	return ok
}

// ChatsFor returns the chats currently logged in under the given username.
func (s *Store) ChatsFor(username string) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var chats []int64
	for chatID, sess := range s.m {
		if sess.Username == username {
			chats = append(chats, chatID)
		}
	}
	return chats
}
