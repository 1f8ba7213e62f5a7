package tokenizer

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are the standard claims for session tokens. The subject is
// the only application claim; everything else a handler needs it looks up
// by userId.
type SessionClaims struct {
	jwt.RegisteredClaims
}
