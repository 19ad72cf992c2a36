package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	s, err := NewSigner("synkcrm-directory")
	require.NoError(t, err)

	now := time.Now()
	claims := NewSessionClaims("user-1", "sess-1", "admin@x.com", "Sarah Admin", "synkcrm-directory", time.Minute, now)

	token, err := s.Sign(claims)
	require.NoError(t, err)

	got, err := s.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "sess-1", got.SID)
	require.Equal(t, "admin@x.com", got.Email)
	require.Equal(t, "Sarah Admin", got.Name)
	require.Greater(t, got.TimeToExpiry(now), 30*time.Second)
}

func TestVerifyRejectsExpired(t *testing.T) {
	s, err := NewSigner("synkcrm-directory")
	require.NoError(t, err)

	claims := NewSessionClaims("user-1", "sess-1", "", "", "synkcrm-directory",
		time.Minute, time.Now().Add(-time.Hour))
	token, err := s.Sign(claims)
	require.NoError(t, err)

	_, err = s.Verify(token)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	other, err := NewSigner("someone-else")
	require.NoError(t, err)
	s, err := NewSigner("synkcrm-directory")
	require.NoError(t, err)

	claims := NewSessionClaims("user-1", "sess-1", "", "", "someone-else", time.Minute, time.Now())
	token, err := other.Sign(claims)
	require.NoError(t, err)

	// Same key, wrong issuer expectation.
	_, err = (&Signer{key: other.key, pub: other.pub, issuer: s.issuer, leeway: time.Second}).Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	a, err := NewSigner("synkcrm-directory")
	require.NoError(t, err)
	b, err := NewSigner("synkcrm-directory")
	require.NoError(t, err)

	token, err := a.Sign(NewSessionClaims("user-1", "sess-1", "", "", "synkcrm-directory", time.Minute, time.Now()))
	require.NoError(t, err)

	_, err = b.Verify(token)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	s, err := NewSigner("synkcrm-directory")
	require.NoError(t, err)

	_, err = s.Verify("not.a.token")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestLoadSigner(t *testing.T) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	s, err := LoadSigner("synkcrm-directory", pemKey)
	require.NoError(t, err)

	token, err := s.Sign(NewSessionClaims("user-1", "sess-1", "", "", "synkcrm-directory", time.Minute, time.Now()))
	require.NoError(t, err)
	_, err = s.Verify(token)
	require.NoError(t, err)

	_, err = LoadSigner("synkcrm-directory", []byte("junk"))
	require.Error(t, err)
}
