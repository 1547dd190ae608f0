package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"rights-arcade/internal/auth"
	"rights-arcade/internal/domain"
)

// UserStore is an in-memory auth.UserStore.
type UserStore struct {
	mu      sync.RWMutex
	byID    map[string]auth.User
	byEmail map[string]string
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[string]auth.User),
		byEmail: make(map[string]string),
	}
}

func (s *UserStore) CreateUser(_ context.Context, user auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[user.Email]; ok {
		return domain.ErrEmailTaken
	}
	s.byID[user.ID] = user
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *UserStore) UserByEmail(_ context.Context, email string) (auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	return s.byID[id], nil
}

func (s *UserStore) UserByID(_ context.Context, id string) (auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.byID[id]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	return user, nil
}

// Document is a stored JSON record.
type Document struct {
	ID         string
	Collection string
	Data       json.RawMessage
}

// DocumentStore is an in-memory app.DocumentStore.
type DocumentStore struct {
	mu     sync.RWMutex
	docs   []Document
	closed bool
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{}
}

func (s *DocumentStore) SubmitDocument(_ context.Context, collection string, record any) (string, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", domain.ErrDocumentStoreClosed
	}
	id := uuid.NewString()
	s.docs = append(s.docs, Document{ID: id, Collection: collection, Data: data})
	return id, nil
}

// Documents returns the stored documents of collection in insertion order.
func (s *DocumentStore) Documents(collection string) []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Document
	for _, d := range s.docs {
		if d.Collection == collection {
			out = append(out, d)
		}
	}
	return out
}

// Close makes every later write fail, like a disconnected backend.
func (s *DocumentStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
