// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/account"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

type memoryAccounts struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]auth.User
}

func newMemoryAccounts(seed ...auth.User) *memoryAccounts {
	m := &memoryAccounts{users: map[int64]auth.User{}}
	for _, user := range seed {
		u := user
		if err := m.Create(context.Background(), &u); err != nil {
			panic(err)
		}
	}
	return m
}

func (m *memoryAccounts) sorted() []auth.User {
	users := make([]auth.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func (m *memoryAccounts) List(_ context.Context, filter account.ListFilter) ([]*auth.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*auth.User
	for _, user := range m.sorted() {
		if strings.Contains(strings.ToLower(user.Username), strings.ToLower(filter.Search)) {
			u := user
			matched = append(matched, &u)
		}
	}

	start := min(filter.Page.Offset(), len(matched))
	end := min(start+filter.Page.Limit, len(matched))
	return matched[start:end], len(matched), nil
}

func (m *memoryAccounts) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, apperr.NotFound(auth.ResourceUser)
}

func (m *memoryAccounts) violation(user *auth.User) error {
	for _, existing := range m.users {
		if existing.ID == user.ID {
			continue
		}
		if existing.Username == user.Username {
			return &dberr.Violation{Code: pgerrcode.UniqueViolation, Constraint: schema.UserAccount.UsernameKey}
		}
		if existing.Email == user.Email {
			return &dberr.Violation{Code: pgerrcode.UniqueViolation, Constraint: schema.UserAccount.EmailKey}
		}
	}
	return nil
}

func (m *memoryAccounts) Create(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.violation(user); err != nil {
		return err
	}
	m.nextID++
	user.ID = m.nextID
	if user.Role == "" {
		user.Role = sec.RoleUser
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memoryAccounts) Update(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return apperr.NotFound(auth.ResourceUser)
	}
	if err := m.violation(user); err != nil {
		return err
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memoryAccounts) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return apperr.NotFound(auth.ResourceUser)
	}
	delete(m.users, id)
	return nil
}

func seeded() *memoryAccounts {
	return newMemoryAccounts(
		auth.User{Username: "root", Email: "root@example.com", Role: sec.RoleAdmin},
		auth.User{Username: "alice", Email: "alice@example.com", Role: sec.RoleUser},
		auth.User{Username: "bob", Email: "bob@example.com", Role: sec.RoleModerator},
	)
}

var (
	admin = &sec.Identity{UserID: 1, Username: "root", Role: sec.RoleAdmin}
	alice = &sec.Identity{UserID: 2, Username: "alice", Role: sec.RoleUser}
)

func requireField(t *testing.T, err error, code, field string) {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError, "error: %v", err)
	assert.Equal(t, code, appError.Code)
	assert.True(t, appError.HasField(field), "details: %+v", appError.Details)
}

/*
TestService_List verifies search and paging.
*/
func TestService_List(t *testing.T) {
	service := account.NewService(seeded())

	tests := []struct {
		name   string
		filter account.ListFilter
		want   []string
		total  int
	}{
		{"everyone", account.ListFilter{Page: pagination.Params{Page: 1, Limit: 10}}, []string{"root", "alice", "bob"}, 3},
		{"search", account.ListFilter{Search: "LIC", Page: pagination.Params{Page: 1, Limit: 10}}, []string{"alice"}, 1},
		{"second page", account.ListFilter{Page: pagination.Params{Page: 2, Limit: 2}}, []string{"bob"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, total, err := service.List(context.Background(), tt.filter)
			require.NoError(t, err)

			var names []string
			for _, user := range users {
				names = append(names, user.Username)
			}
			assert.Equal(t, tt.want, names)
			assert.Equal(t, tt.total, total)
		})
	}
}

/*
TestService_Create covers defaults, validation and uniqueness.
*/
func TestService_Create(t *testing.T) {
	service := account.NewService(seeded())

	user, err := service.Create(context.Background(), account.CreateInput{Username: "carol", Email: "carol@example.com"})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, user.Role)

	tests := []struct {
		name  string
		input account.CreateInput
		code  string
		field string
	}{
		{"duplicate username", account.CreateInput{Username: "alice", Email: "new@example.com"}, apperr.CodeConflict, auth.FieldUsername},
		{"duplicate email", account.CreateInput{Username: "dave", Email: "alice@example.com"}, apperr.CodeConflict, auth.FieldEmail},
		{"reserved username", account.CreateInput{Username: "me", Email: "me@example.com"}, apperr.CodeValidation, auth.FieldUsername},
		{"missing email", account.CreateInput{Username: "dave"}, apperr.CodeValidation, auth.FieldEmail},
		{"unknown role", account.CreateInput{Username: "dave", Email: "dave@example.com", Role: "owner"}, apperr.CodeValidation, auth.FieldRole},
		{"long first name", account.CreateInput{Username: "dave", Email: "dave@example.com", FirstName: strings.Repeat("x", 151)}, apperr.CodeValidation, auth.FieldFirstName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), tt.input)
			requireField(t, err, tt.code, tt.field)
		})
	}
}

/*
TestService_Update verifies partial updates keep untouched fields.
*/
func TestService_Update(t *testing.T) {
	store := seeded()
	service := account.NewService(store)

	user, err := service.Update(context.Background(), "alice", account.UpdateInput{
		Bio:  pointer.To("critic"),
		Role: pointer.To("moderator"),
	})
	require.NoError(t, err)
	assert.Equal(t, "critic", user.Bio)
	assert.Equal(t, sec.RoleModerator, user.Role)
	assert.Equal(t, "alice@example.com", user.Email)

	_, err = service.Update(context.Background(), "alice", account.UpdateInput{Email: pointer.To("bob@example.com")})
	requireField(t, err, apperr.CodeConflict, auth.FieldEmail)

	_, err = service.Update(context.Background(), "nobody", account.UpdateInput{})
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_Delete verifies deletion by username.
*/
func TestService_Delete(t *testing.T) {
	store := seeded()
	service := account.NewService(store)

	require.NoError(t, service.Delete(context.Background(), "bob"))
	_, err := service.Get(context.Background(), "bob")
	assert.True(t, apperr.IsNotFound(err))

	assert.True(t, apperr.IsNotFound(service.Delete(context.Background(), "bob")))
}

/*
TestService_UpdateMe covers the self-service restrictions.
*/
func TestService_UpdateMe(t *testing.T) {
	tests := []struct {
		name     string
		identity *sec.Identity
		input    account.UpdateInput
		field    string
	}{
		{"rename", alice, account.UpdateInput{Username: pointer.To("alicia")}, auth.FieldUsername},
		{"promote", alice, account.UpdateInput{Role: pointer.To("admin")}, auth.FieldRole},
		{"same username", alice, account.UpdateInput{Username: pointer.To("alice"), Bio: pointer.To("hi")}, ""},
		{"empty role", alice, account.UpdateInput{Role: pointer.To(""), FirstName: pointer.To("Alice")}, ""},
		{"admin renames", admin, account.UpdateInput{Username: pointer.To("groot")}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := account.NewService(seeded())

			user, err := service.UpdateMe(context.Background(), tt.identity, tt.input)

			if tt.field != "" {
				requireField(t, err, apperr.CodeValidation, tt.field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.identity.Role, user.Role)
		})
	}
}
