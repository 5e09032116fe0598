package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add delivery slots", "add_delivery_slots"},
		{"Add-Delivery-Slots", "add_delivery_slots"},
		{"ADD_DELIVERY_SLOTS", "add_delivery_slots"},
		{"add__delivery__slots", "add_delivery_slots"},
		{"Add Slots 123", "add_slots_123"},
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

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000004_productions.up.sql"), []byte("--"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000004_productions.down.sql"), []byte("--"), 0o644))

	mf, err := CreateMigration(dir, "add delivery slots", "Time windows for deliveries")
	require.NoError(t, err)
	assert.Equal(t, "000005", mf.Version)
	assert.Equal(t, filepath.Join(dir, "000005_add_delivery_slots.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "000005_add_delivery_slots.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- add delivery slots")
	assert.Contains(t, string(up), "-- Time windows for deliveries")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(rollback)")

	next, err := CreateMigration(dir, "second", "")
	require.NoError(t, err)
	assert.Equal(t, "000006", next.Version)
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "migrations")

	mf, err := CreateMigration(nested, "init", "")
	require.NoError(t, err)
	assert.Equal(t, "000001", mf.Version)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_inventory.up.sql":   {Data: []byte("--")},
		"000002_inventory.down.sql": {Data: []byte("--")},
		"000001_catalog.up.sql":     {Data: []byte("--")},
		"000001_catalog.down.sql":   {Data: []byte("--")},
		"README.md":                 {Data: []byte("docs")},
		"subdir.up.sql/file":        {Data: []byte("--")},
	}

	names, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_catalog", "000002_inventory"}, names)
}

func TestListMigrations_NonexistentDirectory(t *testing.T) {
	names, err := ListMigrations(os.DirFS("/nonexistent/path/to/migrations"))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestListEmbedded(t *testing.T) {
	names, err := ListEmbedded()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "000001_partners_and_catalog", names[0])
	assert.Equal(t, "000005_pos", names[len(names)-1])
}

func TestNextVersion_RejectsNonNumeric(t *testing.T) {
	_, err := nextVersion([]string{"abc_init"})
	assert.Error(t, err)
}
