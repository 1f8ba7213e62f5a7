package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/stepup-labs/certauth/core"
	"github.com/stepup-labs/certauth/ports"
)

const (
	// DefaultChallengeTTL is how long an issued challenge stays verifiable
	DefaultChallengeTTL = 5 * time.Minute

	// DefaultSessionTTL is the bearer token lifetime
	DefaultSessionTTL = time.Hour
)

// AuthService handles challenge-response authentication business logic
type AuthService struct {
	store     ports.ChallengeStore
	directory ports.IdentityDirectory
	verifier  ports.SignatureVerifier
	tokenizer ports.Tokenizer
	eventPub  ports.EventPublisher

	challengeTTL time.Duration
	sessionTTL   time.Duration
}

// Option configures an AuthService
type Option func(*AuthService)

// WithChallengeTTL overrides the challenge lifetime
func WithChallengeTTL(ttl time.Duration) Option {
	return func(s *AuthService) { s.challengeTTL = ttl }
}

// WithSessionTTL overrides the session token lifetime
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *AuthService) { s.sessionTTL = ttl }
}

// NewAuthService creates a new authentication service
func NewAuthService(
	store ports.ChallengeStore,
	directory ports.IdentityDirectory,
	verifier ports.SignatureVerifier,
	tokenizer ports.Tokenizer,
	eventPub ports.EventPublisher,
	opts ...Option,
) *AuthService {
	s := &AuthService{
		store:        store,
		directory:    directory,
		verifier:     verifier,
		tokenizer:    tokenizer,
		eventPub:     eventPub,
		challengeTTL: DefaultChallengeTTL,
		sessionTTL:   DefaultSessionTTL,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// IssueChallenge generates a fresh challenge for a user. The user must have
// an enrolled certificate; issuing replaces any outstanding challenge for
// the same user, which permanently invalidates the replaced one.
func (s *AuthService) IssueChallenge(ctx context.Context, userID string) (string, error) {
	if _, err := s.directory.Lookup(ctx, userID); err != nil {
		return "", err
	}

	nonceBytes := make([]byte, 32)
	if _, err := rand.Read(nonceBytes); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	value := hex.EncodeToString(nonceBytes)

	if err := s.store.Put(ctx, userID, value, s.challengeTTL); err != nil {
		return "", fmt.Errorf("failed to store challenge: %w", err)
	}

	return value, nil
}

// VerifyLogin checks a signed challenge and mints a session token. Every
// gate is hard: any failure rejects, and because the store entry is removed
// up front, the challenge is burned no matter how the attempt ends.
func (s *AuthService) VerifyLogin(ctx context.Context, userID, challenge, signatureB64 string) (string, error) {
	// Remove before comparing, so two racing attempts can never both see
	// a live entry and the replay window is exactly one use.
	stored, err := s.store.Take(ctx, userID)
	if err != nil {
		return "", err
	}

	if stored != challenge {
		return "", core.ErrChallengeMismatch
	}

	identity, err := s.directory.Lookup(ctx, userID)
	if err != nil {
		return "", err
	}

	signature, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil {
		return "", fmt.Errorf("%w: signature is not valid base64", core.ErrVerification)
	}

	// The client signs the challenge string's UTF-8 bytes, no normalization
	if err := s.verifier.Verify([]byte(identity.CertificatePEM), []byte(challenge), signature); err != nil {
		return "", err
	}

	now := time.Now()
	session := &core.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	token, err := s.tokenizer.SessionToToken(session)
	if err != nil {
		return "", fmt.Errorf("failed to create session token: %w", err)
	}

	// Best effort; the login already succeeded
	if err := s.eventPub.PublishLogin(ctx, userID, session.ID); err != nil {
		log.Printf("failed to publish login event for %s: %v", userID, err)
	}

	return token, nil
}

// ValidateToken checks a bearer token and returns the session it encodes.
// Purely a function of the token's signed contents; no store is consulted.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*core.Session, error) {
	return s.tokenizer.TokenToSession(token)
}

// Profile returns the identity record for an authenticated user.
func (s *AuthService) Profile(ctx context.Context, userID string) (*core.Identity, error) {
	return s.directory.Lookup(ctx, userID)
}
