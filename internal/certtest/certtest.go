// Package certtest generates throwaway P-256 certificates and signatures
// for tests. Nothing here is safe for production key handling.
package certtest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"
)

// Keypair holds a private key and the PEM of a self-signed certificate
// carrying its public key.
type Keypair struct {
	Key     *ecdsa.PrivateKey
	CertPEM string
}

// NewKeypair generates a fresh P-256 key and a self-signed certificate,
// the same material shape a CA enrollment would hand out.
func NewKeypair(t *testing.T, commonName string) Keypair {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	serial, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	if err != nil {
		t.Fatalf("generate serial: %v", err)
	}

	now := time.Now()

	template := x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: commonName},
		NotBefore:    now,
		NotAfter:     now.AddDate(1, 0, 0),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "CERTIFICATE",
		Bytes: der,
	})

	return Keypair{Key: key, CertPEM: string(certPEM)}
}

// Sign produces an ASN.1 DER ECDSA signature over the SHA-256 digest of
// message, the way a client-side signing library would.
func (k Keypair) Sign(t *testing.T, message string) []byte {
	t.Helper()

	digest := sha256.Sum256([]byte(message))

	signature, err := ecdsa.SignASN1(rand.Reader, k.Key, digest[:])
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	return signature
}
