// Package auth is the identity side of the feedback collaborator: bcrypt
// password hashes, HS256 tokens and a pluggable user store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"rights-arcade/internal/domain"
)

// ErrUserNotFound is returned by user stores for unknown users.
var ErrUserNotFound = errors.New("user not found")

// UsersCollection receives a profile document on sign-up.
const UsersCollection = "users"

// User is a stored account.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity strips the credentials.
func (u User) Identity() domain.Identity {
	return domain.Identity{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName}
}

// UserStore persists accounts. CreateUser returns domain.ErrEmailTaken for duplicates.
type UserStore interface {
	CreateUser(ctx context.Context, user User) error
	UserByEmail(ctx context.Context, email string) (User, error)
	UserByID(ctx context.Context, id string) (User, error)
}

// DocumentWriter stores the profile document written on sign-up.
type DocumentWriter interface {
	SubmitDocument(ctx context.Context, collection string, record any) (string, error)
}

// Config holds the token and hashing settings.
type Config struct {
	Secret   string
	TokenTTL time.Duration
	Cost     int // bcrypt cost, zero means bcrypt.DefaultCost
}

// Service signs users up and in and resolves bearer tokens.
type Service struct {
	users  UserStore
	docs   DocumentWriter
	tokens *TokenIssuer
	cost   int
	now    func() time.Time
}

func NewService(users UserStore, docs DocumentWriter, cfg Config) *Service {
	cost := cfg.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		users:  users,
		docs:   docs,
		tokens: NewTokenIssuer(cfg.Secret, cfg.TokenTTL),
		cost:   cost,
		now:    time.Now,
	}
}

type userDocument struct {
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// SignUp creates an account and returns its identity and a token.
func (s *Service) SignUp(ctx context.Context, email, password, name string) (domain.Identity, string, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return domain.Identity{}, "", domain.ErrInvalidSignUp
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.Identity{}, "", fmt.Errorf("%w: bad email", domain.ErrInvalidSignUp)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return domain.Identity{}, "", fmt.Errorf("hash password: %w", err)
	}
	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  name,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return domain.Identity{}, "", err
	}
	if s.docs != nil {
		doc := userDocument{UserID: user.ID, Name: user.DisplayName, Email: user.Email, CreatedAt: user.CreatedAt}
		if _, err := s.docs.SubmitDocument(ctx, UsersCollection, doc); err != nil {
			log.Printf("users document for %s not written: %v", user.ID, err)
		}
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return domain.Identity{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user.Identity(), token, nil
}

// SignIn checks credentials and returns a fresh token.
func (s *Service) SignIn(ctx context.Context, email, password string) (domain.Identity, string, error) {
	user, err := s.users.UserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrUserNotFound) {
		return domain.Identity{}, "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.Identity{}, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.Identity{}, "", domain.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		return domain.Identity{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user.Identity(), token, nil
}

// CurrentUser resolves a bearer token to its identity.
func (s *Service) CurrentUser(ctx context.Context, token string) (domain.Identity, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	user, err := s.users.UserByID(ctx, claims.Subject)
	if errors.Is(err, ErrUserNotFound) {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	if err != nil {
		return domain.Identity{}, err
	}
	return user.Identity(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
