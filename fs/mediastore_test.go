package fs_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fwojciec/repub/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaStore_WriteImage(t *testing.T) {
	t.Parallel()

	t.Run("creates new asset", func(t *testing.T) {
		t.Parallel()
		m := fs.NewMediaStore(t.TempDir())

		created, err := m.WriteImage("wechat-abc_pic.jpg", []byte("jpeg"))
		require.NoError(t, err)
		assert.True(t, created)
		assert.True(t, m.Exists("wechat-abc_pic.jpg"))

		data, err := os.ReadFile(filepath.Join(m.Root(), "wechat-abc_pic.jpg"))
		require.NoError(t, err)
		assert.Equal(t, []byte("jpeg"), data)
	})

	t.Run("skips existing asset", func(t *testing.T) {
		t.Parallel()
		m := fs.NewMediaStore(t.TempDir())

		_, err := m.WriteImage("a.jpg", []byte("first"))
		require.NoError(t, err)

		created, err := m.WriteImage("a.jpg", []byte("second"))
		require.NoError(t, err)
		assert.False(t, created)

		data, err := os.ReadFile(filepath.Join(m.Root(), "a.jpg"))
		require.NoError(t, err)
		assert.Equal(t, []byte("first"), data, "existing asset is never overwritten")
	})

	t.Run("concurrent writers create exactly once", func(t *testing.T) {
		t.Parallel()
		m := fs.NewMediaStore(t.TempDir())

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			creates int
		)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				created, err := m.WriteImage("shared.jpg", []byte("data"))
				require.NoError(t, err)
				if created {
					mu.Lock()
					creates++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, creates)
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		t.Parallel()
		m := fs.NewMediaStore(t.TempDir())

		_, err := m.WriteImage("a.jpg", []byte("x"))
		require.NoError(t, err)

		entries, err := os.ReadDir(m.Root())
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "a.jpg", entries[0].Name())
	})
}

func TestMediaStore_RemoveForArticle(t *testing.T) {
	t.Parallel()
	m := fs.NewMediaStore(t.TempDir())

	for _, name := range []string{"wechat-abc_a.jpg", "wechat-abc_b.png", "wechat-xyz_c.jpg"} {
		_, err := m.WriteImage(name, []byte("x"))
		require.NoError(t, err)
	}

	require.NoError(t, m.RemoveForArticle("wechat-abc"))

	assert.False(t, m.Exists("wechat-abc_a.jpg"))
	assert.False(t, m.Exists("wechat-abc_b.png"))
	assert.True(t, m.Exists("wechat-xyz_c.jpg"), "other articles' media survives")
}

func TestMediaStore_RemoveForArticle_MissingRoot(t *testing.T) {
	t.Parallel()
	m := fs.NewMediaStore(filepath.Join(t.TempDir(), "nope"))
	assert.NoError(t, m.RemoveForArticle("wechat-abc"))
}

func TestMediaStore_Sweep(t *testing.T) {
	t.Parallel()
	m := fs.NewMediaStore(t.TempDir())

	for _, name := range []string{"keep.jpg", "orphan.jpg", "orphan2.png"} {
		_, err := m.WriteImage(name, []byte("x"))
		require.NoError(t, err)
	}

	removed, err := m.Sweep(func(name string) bool { return name == "keep.jpg" })
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"orphan.jpg", "orphan2.png"}, removed)
	assert.True(t, m.Exists("keep.jpg"))
	assert.False(t, m.Exists("orphan.jpg"))
}

func TestMediaStore_MigrateLayout(t *testing.T) {
	t.Parallel()

	t.Run("flattens legacy subdirectories", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "wechat-abc"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "wechat-abc", "pic.jpg"), []byte("a"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "wechat-abc", "wechat-abc_cover.png"), []byte("b"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "flat.jpg"), []byte("c"), 0o644))

		m := fs.NewMediaStore(root)
		moved, err := m.MigrateLayout()
		require.NoError(t, err)

		assert.Equal(t, map[string]string{
			"wechat-abc/pic.jpg":              "wechat-abc_pic.jpg",
			"wechat-abc/wechat-abc_cover.png": "wechat-abc_cover.png",
		}, moved)
		assert.True(t, m.Exists("wechat-abc_pic.jpg"))
		assert.True(t, m.Exists("wechat-abc_cover.png"))
		assert.True(t, m.Exists("flat.jpg"), "already-flat assets are untouched")

		_, err = os.Stat(filepath.Join(root, "wechat-abc"))
		assert.True(t, os.IsNotExist(err), "emptied legacy directory is removed")
	})

	t.Run("canonical root is a no-op", func(t *testing.T) {
		t.Parallel()
		m := fs.NewMediaStore(t.TempDir())
		_, err := m.WriteImage("wechat-abc_pic.jpg", []byte("a"))
		require.NoError(t, err)

		moved, err := m.MigrateLayout()
		require.NoError(t, err)
		assert.Empty(t, moved)
		assert.True(t, m.Exists("wechat-abc_pic.jpg"))
	})
}
