package credential

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Lifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "api_key")
	store := NewFileStore(path)

	// Load before anything is stored
	_, err := store.Load()
	assert.True(t, errors.Is(err, ErrNotFound))

	// Save creates missing parent directories
	require.NoError(t, store.Save("AIza-test-key"))

	key, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "AIza-test-key", key)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// Save replaces the value wholesale
	require.NoError(t, store.Save("AIza-rotated"))
	key, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "AIza-rotated", key)

	require.NoError(t, store.Clear())
	_, err = store.Load()
	assert.True(t, errors.Is(err, ErrNotFound))

	// Clearing an already-empty store is fine
	require.NoError(t, store.Clear())
}

func TestFileStore_TrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api_key")
	require.NoError(t, os.WriteFile(path, []byte("  AIza-padded \n"), 0600))

	key, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "AIza-padded", key)
}

func TestFileStore_BlankFileIsNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api_key")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0600))

	_, err := NewFileStore(path).Load()
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNewStoreFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		want    any
		wantErr bool
	}{
		{
			name:   "empty type defaults to file",
			config: Config{},
			want:   &FileStore{},
		},
		{
			name: "file store with explicit path",
			config: Config{
				Type:     "file",
				Settings: map[string]any{"path": "/tmp/key"},
			},
			want: &FileStore{},
		},
		{
			name:   "keyring store with default settings",
			config: Config{Type: "keyring"},
			want:   &KeyringStore{},
		},
		{
			name:    "unsupported type",
			config:  Config{Type: "vault"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStoreFromConfig(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, store)
		})
	}
}

func TestNewStoreFromConfig_KeyringDefaults(t *testing.T) {
	store, err := NewStoreFromConfig(Config{Type: "keyring"})
	require.NoError(t, err)

	ks, ok := store.(*KeyringStore)
	require.True(t, ok)
	assert.Equal(t, "ytlength", ks.service)
	assert.Equal(t, "youtube-api-key", ks.user)
}
