package file

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pure-golang/mailto/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) (*Storage, string) {
	t.Helper()
	root := t.TempDir()
	return NewDefault(Config{Root: root}), root
}

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func TestNewStorage_DefaultRoot(t *testing.T) {
	s := NewStorage(Config{}, nil)

	assert.Equal(t, ".", s.cfg.Root)
	assert.NotNil(t, s.logger)
}

func TestStorage_PutGet(t *testing.T) {
	s, root := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.EnsureBucket(ctx, "data"))
	require.NoError(t, s.Put(ctx, "data", "template.html", strings.NewReader("<p>hi</p>"), nil))

	rc, info, err := s.Get(ctx, "data", "template.html")
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", readAll(t, rc))
	assert.Equal(t, int64(9), info.Size)
	assert.Equal(t, "template.html", info.Key)

	onDisk, err := os.ReadFile(filepath.Join(root, "data", "template.html"))
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", string(onDisk))
}

func TestStorage_PutOverwrites(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "", "doc.html", strings.NewReader("a much longer first version"), nil))
	require.NoError(t, s.Put(ctx, "", "doc.html", strings.NewReader("short"), nil))

	rc, _, err := s.Get(ctx, "", "doc.html")
	require.NoError(t, err)
	assert.Equal(t, "short", readAll(t, rc))
}

func TestStorage_PutMissingBucket(t *testing.T) {
	s, _ := newTestStorage(t)

	err := s.Put(context.Background(), "missing", "doc.html", strings.NewReader("x"), nil)
	require.Error(t, err)
	assert.True(t, storage.IsNotFound(err))
}

func TestStorage_GetNotFound(t *testing.T) {
	s, _ := newTestStorage(t)

	_, _, err := s.Get(context.Background(), "", "nope.html")
	require.Error(t, err)
	assert.True(t, storage.IsNotFound(err))
}

func TestStorage_Exists(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	ok, err := s.Exists(ctx, "", "doc.html")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "", "doc.html", strings.NewReader("x"), nil))

	ok, err = s.Exists(ctx, "", "doc.html")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStorage_ExistsDirectoryIsNotObject(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.EnsureBucket(ctx, "data/doc.html"))

	ok, err := s.Exists(ctx, "data", "doc.html")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStorage_Delete(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "", "doc.html", strings.NewReader("x"), nil))
	require.NoError(t, s.Delete(ctx, "", "doc.html"))

	ok, err := s.Exists(ctx, "", "doc.html")
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting again is fine
	assert.NoError(t, s.Delete(ctx, "", "doc.html"))
}

func TestStorage_EnsureBucketIdempotent(t *testing.T) {
	s, root := newTestStorage(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.EnsureBucket(ctx, "a/b"))
	}

	st, err := os.Stat(filepath.Join(root, "a", "b"))
	require.NoError(t, err)
	assert.True(t, st.IsDir())
}

func TestStorage_RejectsEscapingPaths(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	err := s.Put(ctx, "", "../outside.html", strings.NewReader("x"), nil)
	require.Error(t, err)
	assert.True(t, storage.IsAccessDenied(err))

	err = s.EnsureBucket(ctx, "../outside")
	require.Error(t, err)
	assert.True(t, storage.IsAccessDenied(err))

	_, _, err = s.Get(ctx, "", "")
	require.Error(t, err)
	assert.True(t, storage.IsAccessDenied(err))
}

func TestStorage_Close(t *testing.T) {
	s, _ := newTestStorage(t)
	assert.NoError(t, s.Close())
}
