package storage

import (
	"context"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	return NewLocalStore(t.TempDir(), "User_Files", "http://localhost:5002/", "test-secret")
}

func tokenFrom(t *testing.T, raw string) string {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query().Get("token")
}

func TestUploadAndOpen(t *testing.T) {
	s := newTestStore(t)
	key := "transcripts/2026-10-14T12-00-00-000Z_transcript.pdf"

	require.NoError(t, s.Upload(context.Background(), key, []byte("%PDF-1.4"), "application/pdf"))

	rc, err := s.Open(key)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(body))

	_, err = s.Open("transcripts/missing.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRejectsEscapingKeys(t *testing.T) {
	s := newTestStore(t)
	for _, key := range []string{"", "../secrets", "/etc/passwd", "a/../../b", `a\b`} {
		t.Run(key, func(t *testing.T) {
			assert.ErrorIs(t, s.Upload(context.Background(), key, []byte("x"), ""), ErrInvalidKey)
		})
	}
}

func TestSignedURL(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	raw, err := s.SignedURL("transcripts/a.pdf", 24*time.Hour)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, "http://localhost:5002/api/files/User_Files/transcripts/a.pdf?token="))

	token := tokenFrom(t, raw)
	assert.NoError(t, s.Verify("transcripts/a.pdf", token))
	assert.ErrorIs(t, s.Verify("transcripts/b.pdf", token), ErrInvalidToken)

	s.now = func() time.Time { return now.Add(25 * time.Hour) }
	assert.ErrorIs(t, s.Verify("transcripts/a.pdf", token), ErrInvalidToken)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	a := newTestStore(t)
	b := NewLocalStore(t.TempDir(), "User_Files", "http://localhost", "other-secret")

	raw, err := b.SignedURL("transcripts/a.pdf", time.Hour)
	require.NoError(t, err)
	assert.ErrorIs(t, a.Verify("transcripts/a.pdf", tokenFrom(t, raw)), ErrInvalidToken)
}
