package service

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stepup-labs/certauth/adapters/directory"
	"github.com/stepup-labs/certauth/adapters/store"
	"github.com/stepup-labs/certauth/adapters/tokenizer"
	"github.com/stepup-labs/certauth/adapters/verifier"
	"github.com/stepup-labs/certauth/core"
	"github.com/stepup-labs/certauth/internal/certtest"
)

type recordingPublisher struct {
	logins []string
}

func (p *recordingPublisher) PublishLogin(ctx context.Context, userID, sessionID string) error {
	p.logins = append(p.logins, userID)
	return nil
}

type fixture struct {
	svc       *AuthService
	directory *directory.MemoryDirectory
	events    *recordingPublisher
	keypairs  map[string]certtest.Keypair
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	f := &fixture{
		directory: directory.NewMemoryDirectory(),
		events:    &recordingPublisher{},
		keypairs:  make(map[string]certtest.Keypair),
	}

	f.svc = NewAuthService(
		store.NewMemoryStore(),
		f.directory,
		verifier.NewX509Verifier(),
		tokenizer.NewJWTTokenizer([]byte("test-secret")),
		f.events,
		opts...,
	)

	return f
}

// enroll registers a user with a fresh certificate and keeps the private
// key around so tests can sign challenges client-side.
func (f *fixture) enroll(t *testing.T, userID string) {
	t.Helper()

	kp := certtest.NewKeypair(t, userID)
	f.keypairs[userID] = kp
	f.directory.Add(core.Identity{
		UserID:         userID,
		FirstName:      "Test",
		LastName:       "User",
		Email:          userID + "@example.com",
		CertificatePEM: kp.CertPEM,
	})
}

func (f *fixture) sign(t *testing.T, userID, challenge string) string {
	t.Helper()

	return base64.StdEncoding.EncodeToString(f.keypairs[userID].Sign(t, challenge))
}

func TestIssueChallenge(t *testing.T) {
	f := newFixture(t)
	f.enroll(t, "alice")

	challenge, err := f.svc.IssueChallenge(context.Background(), "alice")
	require.NoError(t, err)

	// 32 random bytes, hex encoded
	raw, err := hex.DecodeString(challenge)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
}

func TestIssueChallengeUnknownIdentity(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.IssueChallenge(context.Background(), "nobody")
	assert.ErrorIs(t, err, core.ErrIdentityNotFound)
}

func TestVerifyLoginHappyPath(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.enroll(t, "bob")

	challenge, err := f.svc.IssueChallenge(ctx, "bob")
	require.NoError(t, err)

	token, err := f.svc.VerifyLogin(ctx, "bob", challenge, f.sign(t, "bob", challenge))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	session, err := f.svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "bob", session.UserID)

	assert.Equal(t, []string{"bob"}, f.events.logins)
}

func TestVerifyLoginSingleUse(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.enroll(t, "alice")

	challenge, err := f.svc.IssueChallenge(ctx, "alice")
	require.NoError(t, err)

	signature := f.sign(t, "alice", challenge)

	_, err = f.svc.VerifyLogin(ctx, "alice", challenge, signature)
	require.NoError(t, err)

	// Replaying the same challenge and signature must fail
	_, err = f.svc.VerifyLogin(ctx, "alice", challenge, signature)
	assert.ErrorIs(t, err, core.ErrChallengeMissingOrExpired)
}

func TestVerifyLoginFailureBurnsChallenge(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.enroll(t, "alice")

	challenge, err := f.svc.IssueChallenge(ctx, "alice")
	require.NoError(t, err)

	// Wrong value consumes the entry even though the attempt fails
	_, err = f.svc.VerifyLogin(ctx, "alice", "wrong-value", f.sign(t, "alice", challenge))
	assert.ErrorIs(t, err, core.ErrChallengeMismatch)

	_, err = f.svc.VerifyLogin(ctx, "alice", challenge, f.sign(t, "alice", challenge))
	assert.ErrorIs(t, err, core.ErrChallengeMissingOrExpired)
}

func TestVerifyLoginSuperseded(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.enroll(t, "alice")

	first, err := f.svc.IssueChallenge(ctx, "alice")
	require.NoError(t, err)

	second, err := f.svc.IssueChallenge(ctx, "alice")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// The stale value no longer matches the stored entry
	_, err = f.svc.VerifyLogin(ctx, "alice", first, f.sign(t, "alice", first))
	assert.ErrorIs(t, err, core.ErrChallengeMismatch)

	// And the mismatch burned the second challenge too
	_, err = f.svc.VerifyLogin(ctx, "alice", second, f.sign(t, "alice", second))
	assert.ErrorIs(t, err, core.ErrChallengeMissingOrExpired)
}

func TestVerifyLoginExpiredChallenge(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, WithChallengeTTL(20*time.Millisecond))
	f.enroll(t, "alice")

	challenge, err := f.svc.IssueChallenge(ctx, "alice")
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)

	// Correct signature, but the challenge is gone
	_, err = f.svc.VerifyLogin(ctx, "alice", challenge, f.sign(t, "alice", challenge))
	assert.ErrorIs(t, err, core.ErrChallengeMissingOrExpired)
}

func TestVerifyLoginWrongMessageSigned(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.enroll(t, "alice")

	challenge, err := f.svc.IssueChallenge(ctx, "alice")
	require.NoError(t, err)

	// Signature over a whitespace variant of the challenge must not verify
	_, err = f.svc.VerifyLogin(ctx, "alice", challenge, f.sign(t, "alice", challenge+" "))
	assert.ErrorIs(t, err, core.ErrSignatureInvalid)
}

func TestVerifyLoginWrongKey(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.enroll(t, "alice")
	f.enroll(t, "mallory")

	challenge, err := f.svc.IssueChallenge(ctx, "alice")
	require.NoError(t, err)

	_, err = f.svc.VerifyLogin(ctx, "alice", challenge, f.sign(t, "mallory", challenge))
	assert.ErrorIs(t, err, core.ErrSignatureInvalid)
}

func TestVerifyLoginBadBase64(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.enroll(t, "alice")

	challenge, err := f.svc.IssueChallenge(ctx, "alice")
	require.NoError(t, err)

	_, err = f.svc.VerifyLogin(ctx, "alice", challenge, "!!! not base64 !!!")
	assert.ErrorIs(t, err, core.ErrVerification)
}

func TestVerifyLoginIdentityRemovedAfterIssue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.enroll(t, "alice")

	challenge, err := f.svc.IssueChallenge(ctx, "alice")
	require.NoError(t, err)

	// Certificate pulled between issuance and verification
	f.directory.Add(core.Identity{UserID: "alice"})

	_, err = f.svc.VerifyLogin(ctx, "alice", challenge, f.sign(t, "alice", challenge))
	assert.ErrorIs(t, err, core.ErrIdentityNotFound)
}

func TestValidateTokenExpired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, WithSessionTTL(-time.Minute))
	f.enroll(t, "alice")

	challenge, err := f.svc.IssueChallenge(ctx, "alice")
	require.NoError(t, err)

	token, err := f.svc.VerifyLogin(ctx, "alice", challenge, f.sign(t, "alice", challenge))
	require.NoError(t, err)

	_, err = f.svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	f.enroll(t, "alice")

	identity, err := f.svc.Profile(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", identity.Email)

	_, err = f.svc.Profile(context.Background(), "nobody")
	assert.ErrorIs(t, err, core.ErrIdentityNotFound)
}
