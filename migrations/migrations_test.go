package migrations_test

import (
	"io/fs"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epreen/zimapp-web-sub001/migrations"
)

// Actor IDs are token subjects, so every column holding one must accept
// arbitrary strings.
var actorColumn = regexp.MustCompile(`(?m)^\s*(seller_id|actor_id)\s+(\w+)`)

func TestActorColumnsAreText(t *testing.T) {
	t.Parallel()

	files, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	found := 0
	for _, name := range files {
		body, err := fs.ReadFile(migrations.FS, name)
		require.NoError(t, err)
		for _, m := range actorColumn.FindAllStringSubmatch(string(body), -1) {
			found++
			assert.Equal(t, "TEXT", m[2], "%s: column %s", name, m[1])
		}
	}
	assert.Equal(t, 4, found)
}

func TestMigrationsAreGooseAnnotated(t *testing.T) {
	t.Parallel()

	files, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	for _, name := range files {
		body, err := fs.ReadFile(migrations.FS, name)
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", name)
		assert.Contains(t, string(body), "-- +goose Down", name)
	}
}
