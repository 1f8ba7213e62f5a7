package tokenizer

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stepup-labs/certauth/core"
	"github.com/stepup-labs/certauth/ports"
)

const AudienceSession = "certauth:session"

// JWTTokenizer implements the Tokenizer interface using HS256 JWTs signed
// with a server-held symmetric secret.
type JWTTokenizer struct {
	secret []byte
}

// NewJWTTokenizer creates a new JWT tokenizer
func NewJWTTokenizer(secret []byte) ports.Tokenizer {
	return &JWTTokenizer{secret: secret}
}

// SessionToToken converts a Session to a signed JWT string
func (j *JWTTokenizer) SessionToToken(session *core.Session) (string, error) {
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.UserID,
			ID:        session.ID,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			Audience:  jwt.ClaimStrings{AudienceSession},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// TokenToSession parses a JWT string and returns the session it encodes.
// Expired tokens map to core.ErrTokenExpired; everything else that fails
// to parse or verify maps to core.ErrTokenInvalid.
func (j *JWTTokenizer) TokenToSession(tokenStr string) (*core.Session, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithAudience(AudienceSession))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, core.ErrTokenExpired
		}
		return nil, core.ErrTokenInvalid
	}

	if !token.Valid {
		return nil, core.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, core.ErrTokenInvalid
	}

	if claims.Subject == "" || claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return nil, core.ErrTokenInvalid
	}

	session := &core.Session{
		ID:        claims.ID,
		UserID:    claims.Subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}

	return session, nil
}
