package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"rights-arcade/internal/domain"
)

// FeedbackCollection is where feedback documents are written.
const FeedbackCollection = "feedback"

// FeedbackService fronts the identity/document-store collaborator. It never
// touches game or progress state.
type FeedbackService struct {
	identity IdentityProvider
	docs     DocumentStore
	now      func() time.Time
}

func NewFeedbackService(identity IdentityProvider, docs DocumentStore) *FeedbackService {
	return &FeedbackService{identity: identity, docs: docs, now: time.Now}
}

// SignUp registers a user and returns a token for later calls.
func (s *FeedbackService) SignUp(ctx context.Context, email, password, name string) (domain.Identity, string, error) {
	id, token, err := s.identity.SignUp(ctx, email, password, name)
	if err != nil {
		return domain.Identity{}, "", external("sign up", err)
	}
	return id, token, nil
}

// SignIn checks credentials and returns a token.
func (s *FeedbackService) SignIn(ctx context.Context, email, password string) (domain.Identity, string, error) {
	id, token, err := s.identity.SignIn(ctx, email, password)
	if err != nil {
		return domain.Identity{}, "", external("sign in", err)
	}
	return id, token, nil
}

// CurrentUser resolves token; ErrUnauthenticated when nobody is signed in.
func (s *FeedbackService) CurrentUser(ctx context.Context, token string) (domain.Identity, error) {
	id, err := s.identity.CurrentUser(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return domain.Identity{}, domain.ErrUnauthenticated
		}
		return domain.Identity{}, external("current user", err)
	}
	return id, nil
}

// Submit writes a feedback document for the signed-in user.
func (s *FeedbackService) Submit(ctx context.Context, token, text string, rating int) (domain.Feedback, error) {
	user, err := s.CurrentUser(ctx, token)
	if err != nil {
		return domain.Feedback{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Feedback{}, domain.ErrEmptyFeedback
	}
	if rating < 0 || rating > 5 {
		return domain.Feedback{}, domain.ErrInvalidRating
	}

	displayName := user.DisplayName
	if displayName == "" {
		displayName = "Anonymous"
	}
	fb := domain.Feedback{
		UserID:      user.ID,
		UserEmail:   user.Email,
		DisplayName: displayName,
		Feedback:    text,
		Rating:      rating,
		CreatedAt:   s.now().UTC(),
	}
	if _, err := s.docs.SubmitDocument(ctx, FeedbackCollection, fb); err != nil {
		return domain.Feedback{}, external("submit feedback", err)
	}
	return fb, nil
}

// external wraps collaborator failures. Validation errors the caller can act
// on pass through unwrapped.
func external(op string, err error) error {
	for _, known := range []error{
		domain.ErrInvalidCredentials,
		domain.ErrEmailTaken,
		domain.ErrInvalidSignUp,
		domain.ErrUnauthenticated,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return &domain.ExternalServiceError{Op: op, Err: err}
}
