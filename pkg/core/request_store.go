package core

import "sync"

// RequestStore remembers which engine order every client request touched, so
// cancels and modifies addressed by an earlier request id resolve to the
// right order and duplicate entries are refused.
type RequestStore interface {
	Track(requestID string, orderID int64, origRequestID string)
	OrderID(requestID string) (int64, bool)
	LatestRequestID(orderID int64) string
	ForgetOrder(orderID int64)
}

type InMemoryRequestStore struct {
	mu             sync.RWMutex
	orderByRequest map[string]int64
	latestByOrder  map[int64]string
	requestChain   map[string]string // requestID -> previous requestID
}

func NewInMemoryRequestStore() *InMemoryRequestStore {
	return &InMemoryRequestStore{
		orderByRequest: make(map[string]int64),
		latestByOrder:  make(map[int64]string),
		requestChain:   make(map[string]string),
	}
}

func (s *InMemoryRequestStore) Track(requestID string, orderID int64, origRequestID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orderByRequest[requestID] = orderID
	s.latestByOrder[orderID] = requestID
	if origRequestID != "" {
		s.requestChain[requestID] = origRequestID
	}
}

func (s *InMemoryRequestStore) OrderID(requestID string) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.orderByRequest[requestID]
	return id, ok
}

func (s *InMemoryRequestStore) LatestRequestID(orderID int64) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.latestByOrder[orderID]
}

// ForgetOrder drops the mappings of a finished order, walking the modify
// chain backward from the latest request id.
func (s *InMemoryRequestStore) ForgetOrder(orderID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest := s.latestByOrder[orderID]
	delete(s.latestByOrder, orderID)
	curr := latest
	for curr != "" {
		next := s.requestChain[curr]
		delete(s.orderByRequest, curr)
		delete(s.requestChain, curr)
		curr = next
	}
}
