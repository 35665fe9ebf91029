// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/migrations"
)

func TestConvertToPgx5DSN(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@db:5432/yamdb":   "pgx5://u:p@db:5432/yamdb",
		"postgresql://u:p@db:5432/yamdb": "pgx5://u:p@db:5432/yamdb",
		"pgx5://u:p@db:5432/yamdb":       "pgx5://u:p@db:5432/yamdb",
	}

	for in, want := range tests {
		assert.Equal(t, want, convertToPgx5DSN(in), in)
	}
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(migrations.FS, "*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrations.FS, "*.down.sql")
	require.NoError(t, err)

	assert.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}
