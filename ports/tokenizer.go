package ports

import "github.com/stepup-labs/certauth/core"

// Tokenizer converts between sessions and signed bearer tokens.
type Tokenizer interface {
	SessionToToken(session *core.Session) (string, error)

	// TokenToSession parses and validates a token. Returns
	// core.ErrTokenExpired for expired tokens and core.ErrTokenInvalid
	// for anything malformed or carrying a bad signature.
	TokenToSession(token string) (*core.Session, error)
}
