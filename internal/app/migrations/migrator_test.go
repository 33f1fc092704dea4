package migrations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationVersion(t *testing.T) {
	assert.Equal(t, "001", migrationVersion("001_init.sql"))
	assert.Equal(t, "002", migrationVersion("002_add_index.sql"))
	assert.Equal(t, "003", migrationVersion("003.sql"))
}

func TestSQLFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_b.sql", "001_a.sql", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o700))

	files, err := sqlFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_a.sql", "002_b.sql"}, files)

	_, err = sqlFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
