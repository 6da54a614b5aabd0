package levels

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsLevelWrites(t *testing.T) {
	dir := t.TempDir()
	level := filepath.Join(dir, "level.yaml")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(level, []byte("tiles: []\n"), 0644))

	w, err := NewWatcher(level)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, os.WriteFile(other, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(level, []byte("tiles: []\n"), 0644))

	abs, err := filepath.Abs(level)
	require.NoError(t, err)

	var got []string
	require.Eventually(t, func() bool {
		paths, _ := w.Pending()
		got = append(got, paths...)
		return len(got) > 0
	}, 5*time.Second, 20*time.Millisecond)
	for _, p := range got {
		assert.Equal(t, abs, p, "only the watched level is reported")
	}
}

func TestWatcherReportsAfterBurstSettles(t *testing.T) {
	dir := t.TempDir()
	level := filepath.Join(dir, "level.yaml")
	require.NoError(t, os.WriteFile(level, []byte("tiles: []\n"), 0644))

	w, err := NewWatcher(level)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	final := "tiles:\n  - pos: {x: 0, y: 0}\n    id: 4\n"
	var lastWrite time.Time
	for i := 0; i < 5; i++ {
		body := "tiles: [\n"
		if i == 4 {
			body = final
		}
		lastWrite = time.Now()
		require.NoError(t, os.WriteFile(level, []byte(body), 0644))
		time.Sleep(20 * time.Millisecond)
	}

	var got []string
	require.Eventually(t, func() bool {
		paths, _ := w.Pending()
		got = append(got, paths...)
		return len(got) > 0
	}, 5*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(lastWrite), watchDebounce, "reported before the burst went quiet")
	assert.Len(t, got, 1)

	data, err := os.ReadFile(level)
	require.NoError(t, err)
	assert.Equal(t, final, string(data))

	time.Sleep(3 * watchDebounce)
	paths, _ := w.Pending()
	assert.Empty(t, paths)
}

func TestWatcherIgnoreFor(t *testing.T) {
	dir := t.TempDir()
	level := filepath.Join(dir, "level.yaml")
	require.NoError(t, os.WriteFile(level, []byte("tiles: []\n"), 0644))

	w, err := NewWatcher(level)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	w.IgnoreFor(level, time.Hour)
	require.NoError(t, os.WriteFile(level, []byte("tiles: []\n"), 0644))

	time.Sleep(300 * time.Millisecond)
	paths, _ := w.Pending()
	assert.Empty(t, paths)
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(filepath.Join(dir, "level.yaml"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	require.Eventually(t, func() bool {
		_, ok := <-w.Events
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestNilWatcher(t *testing.T) {
	var w *Watcher
	paths, errs := w.Pending()
	assert.Empty(t, paths)
	assert.Empty(t, errs)
	w.IgnoreFor("level.yaml", time.Second)
	assert.NoError(t, w.Close())
}
