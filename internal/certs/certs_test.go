package certs

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(t *testing.T, cert tls.Certificate) *x509.Certificate {
	t.Helper()
	require.Len(t, cert.Certificate, 1)
	parsed, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	return parsed
}

func TestStore_GeneratesCertificate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "certs")
	store := NewStore(dir, "review.internal", "10.0.0.5")

	cert, err := store.Certificate()
	require.NoError(t, err)

	parsed := leaf(t, cert)
	assert.Equal(t, "FinSense local review", parsed.Subject.Organization[0])
	for _, host := range []string{"localhost", "127.0.0.1", "::1", "review.internal", "10.0.0.5"} {
		assert.NoError(t, parsed.VerifyHostname(host), host)
	}
	assert.True(t, parsed.NotAfter.After(time.Now().Add(364*24*time.Hour)))

	info, err := os.Stat(filepath.Join(dir, keyFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestStore_ReusesValidCertificate(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir).Certificate()
	require.NoError(t, err)
	second, err := NewStore(dir).Certificate()
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first.Certificate[0], second.Certificate[0]))
}

func TestStore_Regenerates(t *testing.T) {
	tests := []struct {
		prepare func(t *testing.T, dir string) *Store
		name    string
	}{
		{
			name: "close to expiry",
			prepare: func(_ *testing.T, dir string) *Store {
				store := NewStore(dir)
				store.now = func() time.Time { return time.Now().Add(340 * 24 * time.Hour) }
				return store
			},
		},
		{
			name: "new host",
			prepare: func(_ *testing.T, dir string) *Store {
				return NewStore(dir, "books.example.test")
			},
		},
		{
			name: "corrupt files",
			prepare: func(t *testing.T, dir string) *Store {
				t.Helper()
				require.NoError(t, os.WriteFile(filepath.Join(dir, certFileName), []byte("garbage"), 0600))
				return NewStore(dir)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			original, err := NewStore(dir).Certificate()
			require.NoError(t, err)

			regenerated, err := tt.prepare(t, dir).Certificate()
			require.NoError(t, err)
			assert.False(t, bytes.Equal(original.Certificate[0], regenerated.Certificate[0]))
		})
	}
}

func TestStore_TLSConfig(t *testing.T) {
	cfg, err := NewStore(t.TempDir()).TLSConfig()
	require.NoError(t, err)

	assert.Len(t, cfg.Certificates, 1)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
}

func TestStore_UnwritableDirectory(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))

	_, err := NewStore(filepath.Join(blocker, "certs")).Certificate()
	assert.ErrorContains(t, err, "failed to create certificate directory")
}
