// internal/app/system/authutil/authutil.go
// Package authutil checks the site administrator's credentials.
//
// The site has a single administrator configured by username and either a
// bcrypt hash (preferred) or a plain password that is hashed at startup.
package authutil

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/dalemusser/wavesite/internal/app/system/normalize"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNoUsername = errors.New("admin username is not configured")
	ErrNoPassword = errors.New("admin password or password hash is not configured")
)

// Credentials holds the administrator's username and password hash.
type Credentials struct {
	username string
	hash     []byte
}

// NewCredentials builds credentials from configuration. passwordHash wins
// when both it and password are set.
func NewCredentials(username, password, passwordHash string) (*Credentials, error) {
	username = normalize.Username(username)
	if username == "" {
		return nil, ErrNoUsername
	}

	switch {
	case passwordHash != "":
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("admin password hash is not a bcrypt hash: %w", err)
		}
		return &Credentials{username: username, hash: []byte(passwordHash)}, nil
	case password != "":
		hash, err := HashPassword(password)
		if err != nil {
			return nil, err
		}
		return &Credentials{username: username, hash: []byte(hash)}, nil
	default:
		return nil, ErrNoPassword
	}
}

// Username returns the normalized admin username.
func (c *Credentials) Username() string { return c.username }

// Verify reports whether username and password match. The password hash is
// compared even when the username is wrong so both failures take as long.
func (c *Credentials) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(normalize.Username(username)), []byte(c.username)) == 1
	passOK := CheckPassword(password, string(c.hash))
	return userOK && passOK
}
