package verifier

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/stepup-labs/certauth/core"
	"github.com/stepup-labs/certauth/ports"
)

// X509Verifier checks ECDSA-P256/SHA-256 signatures against the public key
// of a CA-issued X.509 certificate. Signatures are expected in ASN.1 DER,
// which is what standard signing libraries emit.
type X509Verifier struct{}

// NewX509Verifier creates a new certificate signature verifier
func NewX509Verifier() ports.SignatureVerifier {
	return &X509Verifier{}
}

// Verify parses the PEM certificate, extracts its P-256 public key and
// verifies the signature over the SHA-256 digest of message.
func (v *X509Verifier) Verify(certPEM []byte, message []byte, signature []byte) error {
	block, _ := pem.Decode(certPEM)
	if block == nil || block.Type != "CERTIFICATE" {
		return fmt.Errorf("%w: no certificate PEM block", core.ErrVerification)
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return fmt.Errorf("%w: parse certificate: %v", core.ErrVerification, err)
	}

	publicKey, ok := cert.PublicKey.(*ecdsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: certificate key is not ECDSA", core.ErrVerification)
	}

	if publicKey.Curve != elliptic.P256() {
		return fmt.Errorf("%w: certificate key is not on P-256", core.ErrVerification)
	}

	digest := sha256.Sum256(message)

	if !ecdsa.VerifyASN1(publicKey, digest[:], signature) {
		return core.ErrSignatureInvalid
	}

	return nil
}
