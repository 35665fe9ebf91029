// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

/*
TestSignup_CreatesAccountAndMailsCode verifies a first signup stores the
account with the default role and queues exactly one mail.
*/
func TestSignup_CreatesAccountAndMailsCode(t *testing.T) {
	f := newFixture(t)

	user, err := f.service.Signup(context.Background(), auth.SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, sec.RoleUser, user.Role)

	require.Len(t, f.outbox.messages, 1)
	message := f.outbox.messages[0]
	assert.Equal(t, "alice@example.com", message.To)
	assert.Equal(t, auth.SignupSubject, message.Subject)
	assert.Contains(t, message.Body, "alice")
	assert.NotEmpty(t, f.outbox.lastCode(t))
}

/*
TestSignup_RepeatedPairReusesAccount verifies signing up twice with the same
pair sends a second code for the same account.
*/
func TestSignup_RepeatedPairReusesAccount(t *testing.T) {
	f := newFixture(t)
	input := auth.SignupInput{Username: "alice", Email: "alice@example.com"}

	first, err := f.service.Signup(context.Background(), input)
	require.NoError(t, err)
	second, err := f.service.Signup(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.outbox.messages, 2)
	assert.Len(t, f.users.users, 1)
}

/*
TestSignup_Conflicts verifies a pair colliding on one value names that field.
*/
func TestSignup_Conflicts(t *testing.T) {
	tests := []struct {
		name  string
		input auth.SignupInput
		field string
	}{
		{"username taken", auth.SignupInput{Username: "alice", Email: "other@example.com"}, auth.FieldUsername},
		{"email taken", auth.SignupInput{Username: "bob", Email: "alice@example.com"}, auth.FieldEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.service.Signup(context.Background(), auth.SignupInput{Username: "alice", Email: "alice@example.com"})
			require.NoError(t, err)

			_, err = f.service.Signup(context.Background(), tt.input)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, apperr.CodeConflict, appError.Code)
			assert.Equal(t, 400, appError.HTTPStatus)
			assert.True(t, appError.HasField(tt.field))
			assert.Len(t, f.outbox.messages, 1, "no code is sent on conflict")
		})
	}
}

/*
TestSignup_Validation covers rejected payloads.
*/
func TestSignup_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input auth.SignupInput
		field string
	}{
		{"missing username", auth.SignupInput{Email: "a@example.com"}, auth.FieldUsername},
		{"missing email", auth.SignupInput{Username: "alice"}, auth.FieldEmail},
		{"reserved username", auth.SignupInput{Username: "me", Email: "a@example.com"}, auth.FieldUsername},
		{"bad charset", auth.SignupInput{Username: "al ice", Email: "a@example.com"}, auth.FieldUsername},
		{"long username", auth.SignupInput{Username: strings.Repeat("a", 151), Email: "a@example.com"}, auth.FieldUsername},
		{"bad email", auth.SignupInput{Username: "alice", Email: "not-an-email"}, auth.FieldEmail},
		{"long email", auth.SignupInput{Username: "alice", Email: strings.Repeat("a", 250) + "@x.io"}, auth.FieldEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.service.Signup(context.Background(), tt.input)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, apperr.CodeValidation, appError.Code)
			assert.True(t, appError.HasField(tt.field), "details: %+v", appError.Details)
			assert.Empty(t, f.users.users)
		})
	}
}

/*
TestSignup_NotifierFailure verifies an enqueue failure surfaces as a server error.
*/
func TestSignup_NotifierFailure(t *testing.T) {
	f := newFixture(t)
	f.outbox.err = errors.New("redis down")

	_, err := f.service.Signup(context.Background(), auth.SignupInput{Username: "alice", Email: "alice@example.com"})

	require.Error(t, err)
	assert.False(t, apperr.IsAppError(err))
}

/*
TestIssueToken_CodeIsSingleUse walks the full flow and replays the code.
*/
func TestIssueToken_CodeIsSingleUse(t *testing.T) {
	f := newFixture(t)
	user, err := f.service.Signup(context.Background(), auth.SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	code := f.outbox.lastCode(t)

	token, err := f.service.IssueToken(context.Background(), auth.TokenInput{Username: "alice", ConfirmationCode: code})
	require.NoError(t, err)
	assert.Equal(t, "token-1-alice", token)

	stored, err := f.users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)

	_, err = f.service.IssueToken(context.Background(), auth.TokenInput{Username: "alice", ConfirmationCode: code})
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.True(t, appError.HasField(auth.FieldConfirmationCode))
}

/*
TestIssueToken_Failures covers the error mapping of the token endpoint.
*/
func TestIssueToken_Failures(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Signup(context.Background(), auth.SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		input  auth.TokenInput
		code   string
		status int
		field  string
	}{
		{"missing fields", auth.TokenInput{}, apperr.CodeValidation, 400, auth.FieldConfirmationCode},
		{"unknown user", auth.TokenInput{Username: "bob", ConfirmationCode: "x"}, apperr.CodeNotFound, 404, ""},
		{"wrong code", auth.TokenInput{Username: "alice", ConfirmationCode: "abc-0000"}, apperr.CodeValidation, 400, auth.FieldConfirmationCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.IssueToken(context.Background(), tt.input)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, tt.code, appError.Code)
			assert.Equal(t, tt.status, appError.HTTPStatus)
			if tt.field != "" {
				assert.True(t, appError.HasField(tt.field))
			}
		})
	}
}

/*
TestResolveIdentity verifies the role comes from the stored account.
*/
func TestResolveIdentity(t *testing.T) {
	f := newFixture(t)
	user, err := f.service.Signup(context.Background(), auth.SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	identity, err := f.service.ResolveIdentity(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, &sec.Identity{UserID: user.ID, Username: "alice", Role: sec.RoleUser}, identity)

	_, err = f.service.ResolveIdentity(context.Background(), 42)
	assert.True(t, apperr.IsNotFound(err))
}
