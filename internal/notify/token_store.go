package notify

import "sync"

// DeviceTokenStore maps learners to their registered device tokens. It
// replaces an ambient global map: the store is constructed explicitly and
// injected into the push client, and it is safe for concurrent use from
// independent task firings.
type DeviceTokenStore struct {
	mu     sync.RWMutex
	tokens map[int64][]string
}

// NewDeviceTokenStore creates an empty store.
func NewDeviceTokenStore() *DeviceTokenStore {
	return &DeviceTokenStore{tokens: make(map[int64][]string)}
}

// Register adds a device token for a learner. Re-registering an existing
// token is a no-op.
func (s *DeviceTokenStore) Register(learnerID int64, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.tokens[learnerID] {
		if existing == token {
			return
		}
	}
	s.tokens[learnerID] = append(s.tokens[learnerID], token)
}

// Unregister removes a device token for a learner.
func (s *DeviceTokenStore) Unregister(learnerID int64, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens := s.tokens[learnerID]
	for i, existing := range tokens {
		if existing == token {
			s.tokens[learnerID] = append(tokens[:i], tokens[i+1:]...)
			break
		}
	}
	if len(s.tokens[learnerID]) == 0 {
		delete(s.tokens, learnerID)
	}
}

// Tokens returns a copy of the learner's device tokens.
func (s *DeviceTokenStore) Tokens(learnerID int64) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tokens := s.tokens[learnerID]
	if len(tokens) == 0 {
		return nil
	}
	copied := make([]string, len(tokens))
	copy(copied, tokens)
	return copied
}
