package core

import "errors"

var (
	ErrIdentityNotFound          = errors.New("identity not found or certificate missing")
	ErrChallengeMissingOrExpired = errors.New("challenge missing or expired")
	ErrChallengeMismatch         = errors.New("challenge mismatch")
	ErrSignatureInvalid          = errors.New("invalid signature")
	ErrVerification              = errors.New("signature verification failed")
	ErrTokenExpired              = errors.New("token has expired")
	ErrTokenInvalid              = errors.New("invalid token")
	ErrMissingToken              = errors.New("missing token")
	ErrStoreOperationFailed      = errors.New("store operation failed")
)
