package scratch

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/swara/internal/checksum"
)

func tempDir(t *testing.T) *Dir {
	t.Helper()
	d, err := NewDir(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return d
}

func TestSave(t *testing.T) {
	d := tempDir(t)
	content := []byte("RIFF fake audio")

	f, err := d.Save(bytes.NewReader(content), "My Clip.WAV")
	require.NoError(t, err)

	assert.Equal(t, d.Root(), filepath.Dir(f.Path))
	assert.Equal(t, ".wav", filepath.Ext(f.Path))
	assert.NotContains(t, f.Path, "My Clip")
	assert.Equal(t, "My Clip.WAV", f.OriginalName)
	assert.Equal(t, int64(len(content)), f.Size)
	assert.Equal(t, checksum.Sum(content), f.SHA256)

	got, err := os.ReadFile(f.Path)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestSaveIgnoresHostileNames(t *testing.T) {
	d := tempDir(t)
	for _, name := range []string{"../../etc/passwd", "/abs/evil.sh", "x.php", ""} {
		f, err := d.Save(strings.NewReader("x"), name)
		require.NoError(t, err)
		assert.Equal(t, d.Root(), filepath.Dir(f.Path), name)
		assert.Equal(t, fallbackExt, filepath.Ext(f.Path), name)
	}
}

func TestSameNameConcurrentUploads(t *testing.T) {
	d := tempDir(t)
	const n = 16

	var wg sync.WaitGroup
	files := make([]*File, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			files[i], errs[i] = d.Save(strings.NewReader(strings.Repeat("a", i+1)), "clip.wav")
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i, f := range files {
		require.NoError(t, errs[i])
		assert.False(t, seen[f.Path], "duplicate path %s", f.Path)
		seen[f.Path] = true
		assert.Equal(t, int64(i+1), f.Size)
	}
}

func TestRemoveIdempotent(t *testing.T) {
	d := tempDir(t)
	f, err := d.Save(strings.NewReader("bye"), "a.mp3")
	require.NoError(t, err)

	require.NoError(t, f.Remove())
	require.NoError(t, f.Remove())
	_, err = os.Stat(f.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestSweep(t *testing.T) {
	d := tempDir(t)
	old, err := d.Save(strings.NewReader("old"), "old.wav")
	require.NoError(t, err)
	fresh, err := d.Save(strings.NewReader("new"), "new.wav")
	require.NoError(t, err)

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(old.Path, past, past))

	foreign := filepath.Join(d.Root(), "keep-me.wav")
	require.NoError(t, os.WriteFile(foreign, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(foreign, past, past))

	n, err := d.Sweep(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = os.Stat(old.Path)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh.Path)
	assert.NoError(t, err)
	_, err = os.Stat(foreign)
	assert.NoError(t, err)
}

func TestNewDirRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	_, err := NewDir(path)
	assert.Error(t, err)
}
