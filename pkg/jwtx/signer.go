package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")
	ErrExpired    = errors.New("jwtx: token expired")
	ErrIssuer     = errors.New("jwtx: issuer mismatch")
)

// Verifier validates a session token and returns its claims if it's legit.
type Verifier interface {
	Verify(token string) (SessionClaims, error)
}

// Signer signs and verifies session tokens with a single Ed25519 keypair.
type Signer struct {
	key    ed25519.PrivateKey
	pub    ed25519.PublicKey
	issuer string
	leeway time.Duration
}

// NewSigner generates a fresh ephemeral Ed25519 keypair. Sessions do not
// survive a restart in this mode, which matches how the directory treats its
// tokens as re-derivable state.
func NewSigner(issuer string) (*Signer, error) {
	pub, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("jwtx: generate Ed25519 key: %w", err)
	}
	return &Signer{key: key, pub: pub, issuer: issuer, leeway: 30 * time.Second}, nil
}

// LoadSigner loads a PKCS8 PEM-encoded Ed25519 private key, for deployments
// where session tokens must survive restarts.
func LoadSigner(issuer string, pemKey []byte) (*Signer, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return nil, errors.New("jwtx: invalid PEM for Ed25519 key")
	}
	if block.Type != "PRIVATE KEY" {
		return nil, fmt.Errorf("jwtx: expected PRIVATE KEY, got %q (Ed25519 requires PKCS8)", block.Type)
	}

	priv, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse PKCS8: %w", err)
	}

	key, ok := priv.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("jwtx: not an Ed25519 private key")
	}

	return &Signer{
		key:    key,
		pub:    key.Public().(ed25519.PublicKey),
		issuer: issuer,
		leeway: 30 * time.Second,
	}, nil
}

// Sign turns claims into a signed compact JWT string.
func (s *Signer) Sign(claims SessionClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(s.key)
}

// Verify parses and validates a token, returning its claims.
func (s *Signer) Verify(token string) (SessionClaims, error) {
	claims := SessionClaims{}
	_, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) { return s.pub, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithLeeway(s.leeway),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return SessionClaims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return SessionClaims{}, ErrIssuer
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return SessionClaims{}, ErrInvalidSig
		default:
			return SessionClaims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	}
	return claims, nil
}
