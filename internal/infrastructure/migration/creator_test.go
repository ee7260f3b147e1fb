package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/bizgrow/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := map[string]string{
		"add users table":  "add_users_table",
		"Add-Users-Table":  "add_users_table",
		"add__users":       "add_users",
		"   spaces   ":     "spaces",
		"special!@#$chars": "special_chars",
		"":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeName(in), in)
	}
}

func TestList(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_add_index.up.sql":   {Data: []byte("")},
		"000002_add_index.down.sql": {Data: []byte("")},
		"000001_init.up.sql":        {Data: []byte("")},
		"000001_init.down.sql":      {Data: []byte("")},
		"README.md":                 {Data: []byte("")},
	}
	list, err := List(fsys)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, uint(1), list[0].Version)
	assert.Equal(t, "init", list[0].Name)
	assert.Equal(t, "000002_add_index.down.sql", list[1].DownPath)
}

func TestList_Embedded(t *testing.T) {
	list, err := List(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, uint(1), list[0].Version)

	for _, m := range list {
		_, err := migrations.FS.Open(m.DownPath)
		assert.NoError(t, err, "missing down migration for %s", m.UpPath)
	}
}

func TestCreate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000004_old.up.sql"), nil, 0o644))

	mf, err := Create(dir, "Add product tags")
	require.NoError(t, err)
	assert.Equal(t, uint(5), mf.Version)
	assert.Equal(t, filepath.Join(dir, "000005_add_product_tags.up.sql"), mf.UpPath)
	assert.FileExists(t, mf.UpPath)
	assert.FileExists(t, mf.DownPath)

	_, err = Create(dir, "!!!")
	assert.Error(t, err)
}
