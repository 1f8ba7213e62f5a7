package core

import "time"

// Challenge is an outstanding login challenge a client must sign to prove
// possession of the private key matching its enrolled certificate.
type Challenge struct {
	UserID    string    // Identity directory key the challenge was issued for
	Value     string    // Random nonce to be signed, exactly as issued
	IssuedAt  time.Time // When the challenge was created
	ExpiresAt time.Time // When the challenge stops being verifiable
}

// Identity is one record of the identity directory: the enrollment
// certificate plus the profile fields stored alongside it. Read-only from
// this service's perspective; enrollment lives elsewhere.
type Identity struct {
	UserID         string `json:"userId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	CertificatePEM string `json:"certificate"`
}

// Session represents an authenticated session. It exists only inside a
// signed bearer token; nothing is persisted server-side.
type Session struct {
	ID        string    // Unique session identifier (token jti)
	UserID    string    // Authenticated user
	IssuedAt  time.Time // When the session was created
	ExpiresAt time.Time // When the bearer token stops being accepted
}
