// Package auth is the injectable login collaborator backed by the
// flat-file user registry. It exists at the pipeline's edge: nothing
// in the analytics core depends on it, and a nil *Registry disables
// authentication entirely.
package auth

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// User is one registry entry.
type User struct {
	Username    string
	DisplayName string

	hash []byte
}

// Registry maps usernames to display names and hashed secrets.
type Registry struct {
	users map[string]User
}

var ErrBadRecord = errors.New("malformed registry record")

// LoadRegistry reads the user registry file. Each record is
// "username;display name;bcrypt hash". Usernames are matched
// case-insensitively.
func LoadRegistry(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open user registry: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.Comma = ';'
	cr.FieldsPerRecord = 3

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse user registry %s: %w", path, err)
	}

	reg := &Registry{users: make(map[string]User, len(records))}
	for i, rec := range records {
		username := strings.ToLower(strings.TrimSpace(rec[0]))
		hash := strings.TrimSpace(rec[2])
		if username == "" || hash == "" {
			return nil, fmt.Errorf("%w: line %d", ErrBadRecord, i+1)
		}
		reg.users[username] = User{
			Username:    username,
			DisplayName: strings.TrimSpace(rec[1]),
			hash:        []byte(hash),
		}
	}
	return reg, nil
}

// Authenticate verifies a username/secret pair against the registry.
// A nil registry accepts nobody.
func (r *Registry) Authenticate(username, secret string) (User, bool) {
	if r == nil {
		return User{}, false
	}
	u, ok := r.users[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return User{}, false
	}
	if bcrypt.CompareHashAndPassword(u.hash, []byte(secret)) != nil {
		return User{}, false
	}
	return u, true
}

// Len returns the number of registered users.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.users)
}

// HashSecret produces a bcrypt hash for provisioning registry entries.
func HashSecret(secret string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(h), nil
}
