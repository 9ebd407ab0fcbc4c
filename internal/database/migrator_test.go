package database

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"002_vendors.sql":       {Data: []byte("SELECT 1;")},
		"001_schema.sql":        {Data: []byte("SELECT 1;")},
		"003_reset_all.sql":     {Data: []byte("DROP TABLE x;")},
		"004_notifications.sql": {Data: []byte("SELECT 1;")},
		"README.md":             {Data: []byte("docs")},
		"archive/000_old.sql":   {Data: []byte("SELECT 1;")},
	}

	files, err := PendingFiles(fsys, ".", map[string]bool{"002_vendors.sql": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"001_schema.sql", "004_notifications.sql"}, files)
}

func TestPendingFiles_MissingDir(t *testing.T) {
	_, err := PendingFiles(fstest.MapFS{}, "nope", nil)
	assert.Error(t, err)
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "a.sql", joinPath(".", "a.sql"))
	assert.Equal(t, "a.sql", joinPath("", "a.sql"))
	assert.Equal(t, "sql/a.sql", joinPath("sql/", "a.sql"))
}
