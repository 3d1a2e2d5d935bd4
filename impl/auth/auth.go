// Package auth checks the organizer credential pair and keeps sessions.
package auth

import (
	"crypto/subtle"
	"errors"
	"sync"

	"github.com/google/uuid"

	"checkin/entity"
	"checkin/lib/clock"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionNotFound    = errors.New("session not found")
)

const userId = "1"

type Auth struct {
	username string
	password string
	mu       sync.RWMutex
	sessions map[string]entity.User
}

func New(username, password string) *Auth {
	return &Auth{
		username: username,
		password: password,
		sessions: make(map[string]entity.User),
	}
}

// Login compares the pair against the configured one and opens a session
// with the admin role. Sessions never expire.
func (a *Auth) Login(username, password string) (*entity.User, error) {
	userOk := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOk := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	if !userOk || !passOk || a.username == "" {
		return nil, ErrInvalidCredentials
	}
	user := entity.User{
		Id:        userId,
		Username:  username,
		Role:      entity.RoleAdmin,
		Token:     uuid.NewString(),
		CreatedAt: clock.UTC(),
	}
	a.mu.Lock()
	a.sessions[user.Token] = user
	a.mu.Unlock()
	return &user, nil
}

func (a *Auth) UserByToken(token string) (*entity.User, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	user, ok := a.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &user, nil
}

func (a *Auth) Logout(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sessions, token)
}
