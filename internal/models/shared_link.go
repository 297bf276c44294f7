package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// DefaultShareExpiryDays is how long a share link lives when the
// caller does not specify an expiry.
const DefaultShareExpiryDays = 7

// SharedLink grants time-bounded read access to one user's list
// without authentication. The token is the only credential.
type SharedLink struct {
	Token     string    `json:"token"`
	ListType  ListType  `json:"listType"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewSharedLink creates a link with a fresh random token.
// 16 bytes of entropy, hex-encoded.
func NewSharedLink(userID string, listType ListType, expiresInDays int) (*SharedLink, error) {
	if expiresInDays <= 0 {
		expiresInDays = DefaultShareExpiryDays
	}

	token, err := GenerateShareToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &SharedLink{
		Token:     token,
		ListType:  listType,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.AddDate(0, 0, expiresInDays),
	}, nil
}

// GenerateShareToken creates an unguessable share token
func GenerateShareToken() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// IsExpired checks whether the link is past its expiry.
// Expired links are inert even before cleanup purges them.
func (s *SharedLink) IsExpired() bool {
	return !time.Now().UTC().Before(s.ExpiresAt)
}

// Share link errors
type ShareError struct {
	Message string
}

func (e ShareError) Error() string {
	return e.Message
}

var (
	ErrShareLinkNotFound = ShareError{"share link not found"}
	ErrShareLinkExpired  = ShareError{"share link has expired"}
)
