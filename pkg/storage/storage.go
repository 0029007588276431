// Package storage keeps uploaded files and hands out expiring download links.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidKey   = errors.New("invalid storage key")
	ErrInvalidToken = errors.New("invalid or expired download token")
	ErrNotFound     = errors.New("file not found")
)

// FileStore abstracts the bucket transcripts are uploaded to.
type FileStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	SignedURL(key string, ttl time.Duration) (string, error)
	Open(key string) (io.ReadCloser, error)
	Verify(key, token string) error
}

// LocalStore writes files below root/bucket and signs download links with
// an HMAC token carrying the key and expiry.
type LocalStore struct {
	root    string
	bucket  string
	baseURL string
	secret  []byte
	now     func() time.Time
}

func NewLocalStore(root, bucket, baseURL, secret string) *LocalStore {
	if secret == "" {
		secret = "local-development-secret"
	}
	return &LocalStore{
		root:    root,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  []byte(secret),
		now:     time.Now,
	}
}

func (s *LocalStore) Bucket() string {
	return s.bucket
}

// cleanKey rejects keys that could escape the bucket directory.
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

func (s *LocalStore) pathFor(key string) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, s.bucket, filepath.FromSlash(k)), nil
}

func (s *LocalStore) Upload(ctx context.Context, key string, data []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(p, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *LocalStore) Open(key string) (io.ReadCloser, error) {
	p, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

// SignedURL returns {baseURL}/api/files/{bucket}/{key}?token=... valid for ttl.
func (s *LocalStore) SignedURL(key string, ttl time.Duration) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   k,
		Audience:  jwt.ClaimStrings{s.bucket},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign url: %w", err)
	}
	return fmt.Sprintf("%s/api/files/%s/%s?token=%s", s.baseURL, s.bucket, k, url.QueryEscape(signed)), nil
}

// Verify checks that token was issued for key and has not expired.
func (s *LocalStore) Verify(key, token string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(s.bucket),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.Subject != k {
		return ErrInvalidToken
	}
	return nil
}
