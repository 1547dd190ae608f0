package app

import (
	"context"

	"rights-arcade/internal/domain"
)

// KVStore is the durable key/value backend behind the progress store, the
// forum and the preferences (in-memory, Redis, SQLite).
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// CatalogRepository loads mode content (from cache/backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context, mode domain.ModeID) (domain.Catalog, error)
}

// SessionRepository abstracts how game sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// IdentityProvider is the sign-up/sign-in side of the identity collaborator.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password, name string) (domain.Identity, string, error)
	SignIn(ctx context.Context, email, password string) (domain.Identity, string, error)
	CurrentUser(ctx context.Context, token string) (domain.Identity, error)
}

// DocumentStore persists JSON documents in named collections.
type DocumentStore interface {
	SubmitDocument(ctx context.Context, collection string, record any) (string, error)
}
