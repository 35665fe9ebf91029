// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/sec"
)

func newGenerator(t *testing.T, now *time.Time) *sec.CodeGenerator {
	t.Helper()
	generator, err := sec.NewCodeGenerator("test-secret", time.Hour)
	require.NoError(t, err)
	return generator.WithClock(func() time.Time { return *now })
}

/*
TestCodeGenerator_RoundTrip verifies a fresh code is accepted for the same state.
*/
func TestCodeGenerator_RoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	generator := newGenerator(t, &now)
	subject := sec.CodeSubject{UserID: 1, Username: "alice", Email: "alice@example.com", Role: sec.RoleUser}

	code := generator.Generate(subject)

	assert.True(t, generator.Check(subject, code))
	assert.Equal(t, code, generator.Generate(subject), "same state and instant give the same code")
}

/*
TestCodeGenerator_Rejects covers every way a code must fail.
*/
func TestCodeGenerator_Rejects(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	generator := newGenerator(t, &now)
	subject := sec.CodeSubject{UserID: 1, Username: "alice", Email: "alice@example.com", Role: sec.RoleUser}
	code := generator.Generate(subject)

	loggedIn := now.Add(time.Minute)

	tests := []struct {
		name    string
		subject sec.CodeSubject
		code    string
		advance time.Duration
	}{
		{"garbage", subject, "not-a-code", 0},
		{"no separator", subject, "abcdef", 0},
		{"tampered digest", subject, code[:len(code)-1] + "0", 0},
		{"other user", sec.CodeSubject{UserID: 2, Username: "bob", Email: "bob@example.com", Role: sec.RoleUser}, code, 0},
		{"role changed", sec.CodeSubject{UserID: 1, Username: "alice", Email: "alice@example.com", Role: sec.RoleAdmin}, code, 0},
		{"already redeemed", sec.CodeSubject{UserID: 1, Username: "alice", Email: "alice@example.com", Role: sec.RoleUser, LastLoginAt: &loggedIn}, code, 0},
		{"expired", subject, code, 2 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := now.Add(tt.advance)
			checker := newGenerator(t, &current)
			assert.False(t, checker.Check(tt.subject, tt.code))
		})
	}
}

/*
TestNewCodeGenerator_EmptySecret ensures the generator refuses to run unkeyed.
*/
func TestNewCodeGenerator_EmptySecret(t *testing.T) {
	_, err := sec.NewCodeGenerator("", time.Hour)
	assert.Error(t, err)
}
