package verifier

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stepup-labs/certauth/core"
	"github.com/stepup-labs/certauth/internal/certtest"
)

func TestVerifyValidSignature(t *testing.T) {
	kp := certtest.NewKeypair(t, "alice")
	v := NewX509Verifier()

	signature := kp.Sign(t, "abc123")

	err := v.Verify([]byte(kp.CertPEM), []byte("abc123"), signature)
	assert.NoError(t, err)
}

func TestVerifyWrongMessage(t *testing.T) {
	kp := certtest.NewKeypair(t, "alice")
	v := NewX509Verifier()

	signature := kp.Sign(t, "abc123")

	// Exact bytes matter; a trailing space is a different message
	err := v.Verify([]byte(kp.CertPEM), []byte("abc123 "), signature)
	assert.ErrorIs(t, err, core.ErrSignatureInvalid)

	err = v.Verify([]byte(kp.CertPEM), []byte("abc124"), signature)
	assert.ErrorIs(t, err, core.ErrSignatureInvalid)
}

func TestVerifyWrongKey(t *testing.T) {
	alice := certtest.NewKeypair(t, "alice")
	mallory := certtest.NewKeypair(t, "mallory")
	v := NewX509Verifier()

	signature := mallory.Sign(t, "abc123")

	err := v.Verify([]byte(alice.CertPEM), []byte("abc123"), signature)
	assert.ErrorIs(t, err, core.ErrSignatureInvalid)
}

func TestVerifyGarbageSignature(t *testing.T) {
	kp := certtest.NewKeypair(t, "alice")
	v := NewX509Verifier()

	// Not valid DER; VerifyASN1 treats it as a non-matching signature
	err := v.Verify([]byte(kp.CertPEM), []byte("abc123"), []byte("not a signature"))
	assert.ErrorIs(t, err, core.ErrSignatureInvalid)
}

func TestVerifyMalformedCertificate(t *testing.T) {
	v := NewX509Verifier()

	err := v.Verify([]byte("not a pem"), []byte("abc123"), []byte{0x01})
	assert.ErrorIs(t, err, core.ErrVerification)

	badBlock := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: []byte("junk")})
	err = v.Verify(badBlock, []byte("abc123"), []byte{0x01})
	assert.ErrorIs(t, err, core.ErrVerification)
}

func TestVerifyNonECDSACertificate(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "rsa-user"},
		NotBefore:    time.Now(),
		NotAfter:     time.Now().AddDate(1, 0, 0),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})

	v := NewX509Verifier()

	err = v.Verify(certPEM, []byte("abc123"), []byte{0x01})
	assert.ErrorIs(t, err, core.ErrVerification)
}
