package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_LoadsFileAndDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=file-secret\nSTORE_DRIVER=memory\nROW_MAX_LIMIT=200\n"), 0o600))

	for _, key := range []string{"JWT_SECRET", "STORE_DRIVER", "ROW_MAX_LIMIT"} {
		if old, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, old) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}

	cfg := NewConfig(path)
	require.NotNil(t, cfg)
	assert.Equal(t, "file-secret", cfg.JwtSecret)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, 200, cfg.Row_MaxLimit)
	assert.Equal(t, 50, cfg.Row_DefaultLimit)
	assert.Equal(t, "en", cfg.Report_Locale)
	assert.Equal(t, 8, cfg.Report_VisibleColumns)
}

func TestNewConfig_MissingFile(t *testing.T) {
	assert.Nil(t, NewConfig(filepath.Join(t.TempDir(), "absent.env")))
}
