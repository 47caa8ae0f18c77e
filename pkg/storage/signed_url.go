package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidToken reports a malformed or tampered download token.
	ErrInvalidToken = errors.New("invalid download token")
	// ErrTokenExpired reports a well-formed token past its expiry.
	ErrTokenExpired = errors.New("download token expired")
)

// SignedFile is the payload carried by a download token.
type SignedFile struct {
	JobID     string
	Path      string
	ExpiresAt time.Time
}

// SignedURLSigner creates and validates HMAC signed download tokens of the
// form jobID.expiry.path.signature.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedURLSigner constructs a signer with the provided secret and TTL.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SignedURLSigner{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns how long generated tokens stay valid.
func (s *SignedURLSigner) TTL() time.Duration {
	return s.ttl
}

// Generate returns a signed token referencing the job and relative file path.
func (s *SignedURLSigner) Generate(jobID, relPath string) (string, time.Time, error) {
	if jobID == "" || relPath == "" {
		return "", time.Time{}, fmt.Errorf("jobID and relPath required")
	}
	if strings.Contains(jobID, ".") {
		return "", time.Time{}, fmt.Errorf("jobID must not contain '.'")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	expiry := strconv.FormatInt(expiresAt.Unix(), 10)
	encodedPath := base64.RawURLEncoding.EncodeToString([]byte(relPath))
	signature := s.sign(jobID, expiry, encodedPath)
	return strings.Join([]string{jobID, expiry, encodedPath, signature}, "."), expiresAt, nil
}

// Parse validates a token and returns its payload. When allowExpired is true
// the expiry check is skipped, which cleanup routines rely on.
func (s *SignedURLSigner) Parse(token string, allowExpired bool) (SignedFile, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return SignedFile{}, ErrInvalidToken
	}
	jobID, expiry, encodedPath, signature := parts[0], parts[1], parts[2], parts[3]

	if !hmac.Equal([]byte(s.sign(jobID, expiry, encodedPath)), []byte(signature)) {
		return SignedFile{}, ErrInvalidToken
	}
	rawPath, err := base64.RawURLEncoding.DecodeString(encodedPath)
	if err != nil {
		return SignedFile{}, fmt.Errorf("%w: decode path: %v", ErrInvalidToken, err)
	}
	expUnix, err := strconv.ParseInt(expiry, 10, 64)
	if err != nil {
		return SignedFile{}, fmt.Errorf("%w: invalid timestamp", ErrInvalidToken)
	}

	file := SignedFile{JobID: jobID, Path: string(rawPath), ExpiresAt: time.Unix(expUnix, 0)}
	if !allowExpired && s.now().After(file.ExpiresAt) {
		return SignedFile{}, ErrTokenExpired
	}
	return file, nil
}

func (s *SignedURLSigner) sign(jobID, expiry, encodedPath string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(jobID + "|" + expiry + "|" + encodedPath))
	return hex.EncodeToString(mac.Sum(nil))
}
