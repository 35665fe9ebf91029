// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/mail"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

// memoryUsers is an in-memory [auth.UserRepository] enforcing the same unique keys as the table.
type memoryUsers struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]auth.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[int64]auth.User{}}
}

func (m *memoryUsers) find(match func(auth.User) bool) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if match(user) {
			found := user
			return &found, nil
		}
	}
	return nil, apperr.NotFound(auth.ResourceUser)
}

func (m *memoryUsers) FindByID(_ context.Context, id int64) (*auth.User, error) {
	return m.find(func(u auth.User) bool { return u.ID == id })
}

func (m *memoryUsers) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	return m.find(func(u auth.User) bool { return u.Username == username })
}

func (m *memoryUsers) FindByUsernameAndEmail(_ context.Context, username, email string) (*auth.User, error) {
	return m.find(func(u auth.User) bool { return u.Username == username && u.Email == email })
}

func (m *memoryUsers) Create(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == user.Username {
			return &dberr.Violation{Code: pgerrcode.UniqueViolation, Constraint: schema.UserAccount.UsernameKey}
		}
		if existing.Email == user.Email {
			return &dberr.Violation{Code: pgerrcode.UniqueViolation, Constraint: schema.UserAccount.EmailKey}
		}
	}
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = *user
	return nil
}

func (m *memoryUsers) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return apperr.NotFound(auth.ResourceUser)
	}
	user.LastLoginAt = &at
	m.users[id] = user
	return nil
}

type stubTokens struct{}

func (stubTokens) GenerateAccessToken(userID int64, username string) (string, error) {
	return fmt.Sprintf("token-%d-%s", userID, username), nil
}

// outbox records every message handed to the notifier.
type outbox struct {
	mu       sync.Mutex
	messages []mail.Message
	err      error
}

func (o *outbox) Send(_ context.Context, to, subject, body string) error {
	if o.err != nil {
		return o.err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, mail.Message{To: to, Subject: subject, Body: body})
	return nil
}

func (o *outbox) lastCode(t *testing.T) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.messages)
	_, code, found := strings.Cut(o.messages[len(o.messages)-1].Body, "confirmation code: ")
	require.True(t, found)
	return strings.TrimSpace(code)
}

type fixture struct {
	users   *memoryUsers
	outbox  *outbox
	service *auth.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	codes, err := sec.NewCodeGenerator("test-secret", time.Hour)
	require.NoError(t, err)

	users := newMemoryUsers()
	box := &outbox{}
	return &fixture{
		users:   users,
		outbox:  box,
		service: auth.NewService(users, stubTokens{}, codes, box),
	}
}
