package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add ledger index", "add_ledger_index"},
		{"Add-Ledger-Index", "add_ledger_index"},
		{"ADD_LEDGER_INDEX", "add_ledger_index"},
		{"add__ledger__index", "add_ledger_index"},
		{"Orders 2025", "orders_2025"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("-- test"), 0o644))
	}
}

func TestCreateMigration(t *testing.T) {
	t.Run("starts at one in an empty directory", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "add ledger index", "Index entries by account")
		require.NoError(t, err)

		assert.Equal(t, "000001", mf.Version)
		assert.Equal(t, filepath.Join(dir, "000001_add_ledger_index.up.sql"), mf.UpPath)
		assert.Equal(t, filepath.Join(dir, "000001_add_ledger_index.down.sql"), mf.DownPath)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "add ledger index")
		assert.Contains(t, string(up), "Index entries by account")

		down, err := os.ReadFile(mf.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), "Rollback")
	})

	t.Run("continues after the highest existing version", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir,
			"000001_create_partners.up.sql", "000001_create_partners.down.sql",
			"000003_create_ledger.up.sql", "000003_create_ledger.down.sql",
		)

		mf, err := CreateMigration(dir, "add-currency-rates", "")
		require.NoError(t, err)
		assert.Equal(t, "000004", mf.Version)
	})

	t.Run("creates nested directories", func(t *testing.T) {
		nested := filepath.Join(t.TempDir(), "nested", "migrations")

		_, err := CreateMigration(nested, "init", "")
		require.NoError(t, err)

		info, err := os.Stat(nested)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("rejects names without usable characters", func(t *testing.T) {
		_, err := CreateMigration(t.TempDir(), "!!!", "")
		assert.Error(t, err)
	})
}

func TestListMigrations(t *testing.T) {
	t.Run("returns sorted base names", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir,
			"000002_create_trade_documents.up.sql", "000002_create_trade_documents.down.sql",
			"000001_create_partners.up.sql", "000001_create_partners.down.sql",
			"README.md", ".gitkeep",
		)
		require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir.up.sql"), 0o755))

		migrations, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"000001_create_partners", "000002_create_trade_documents"}, migrations)
	})

	t.Run("missing directory is empty", func(t *testing.T) {
		migrations, err := ListMigrations("/nonexistent/path/to/migrations")
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})
}
