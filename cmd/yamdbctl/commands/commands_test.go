// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package commands_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/cmd/yamdbctl/commands"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")

	root := commands.NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

/*
TestRootCommand_Tree checks every subcommand is registered.
*/
func TestRootCommand_Tree(t *testing.T) {
	root := commands.NewRootCommand()

	for _, path := range [][]string{
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "version"},
		{"user", "create"},
		{"user", "promote"},
	} {
		found, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], found.Name())
	}
}

/*
TestCommands_Validation covers failures detected before any database access.
*/
func TestCommands_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"migrate without database", []string{"migrate", "version"}, "no database URL"},
		{"create without flags", []string{"user", "create"}, `required flag(s) "email", "username" not set`},
		{"promote needs two args", []string{"user", "promote", "alice"}, "accepts 2 arg(s)"},
		{"promote without database", []string{"user", "promote", "alice", "admin"}, "no database URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

/*
TestRootCommand_Version prints the build version.
*/
func TestRootCommand_Version(t *testing.T) {
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "yamdbctl version")
}
