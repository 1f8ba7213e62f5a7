package ports

// SignatureVerifier checks that a signature over a message was produced by
// the private key matching the public key inside a certificate. Kept as a
// small capability interface so the underlying crypto library can be
// swapped without touching protocol logic.
type SignatureVerifier interface {
	// Verify returns nil on success, core.ErrSignatureInvalid when the
	// signature is well-formed but does not match, and
	// core.ErrVerification for malformed certificate or signature
	// material.
	Verify(certPEM []byte, message []byte, signature []byte) error
}
