package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFileSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	writeFile(t, path, `{"b":1,"a":[true,null]}`)

	src := NewFileSource(path)
	assert.Equal(t, "doc.json", src.Name())

	v, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, jsondoc.KindObject, v.Kind())

	members := v.Members()
	require.Len(t, members, 2)
	assert.Equal(t, "b", members[0].Key)

	// reload sees new content
	writeFile(t, path, `[1,2,3]`)
	v, err = src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, v.Len())
}

func TestFileSource_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewFileSource(filepath.Join(dir, "missing.json")).Load(context.Background())
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	writeFile(t, bad, `{"a":`)
	_, err = NewFileSource(bad).Load(context.Background())
	assert.ErrorContains(t, err, "failed to parse")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewFileSource(bad).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReaderSource_ReadsOnce(t *testing.T) {
	src := NewReaderSource("stdin", strings.NewReader(`{"k":"v"}`))

	first, err := src.Load(context.Background())
	require.NoError(t, err)
	second, err := src.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "stdin", src.Name())
	got, ok := second.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got.StringValue())
	assert.Equal(t, first.Len(), second.Len())
}

func TestReaderSource_InvalidInput(t *testing.T) {
	src := NewReaderSource("stdin", strings.NewReader(""))
	_, err := src.Load(context.Background())
	assert.ErrorContains(t, err, "empty document")
}

func TestStaticSource(t *testing.T) {
	src := NewStaticSource("inline", jsondoc.MustParse(`[1]`))
	v, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v.Len())
}

func TestWatcher_NotifiesOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	writeFile(t, path, `{}`)

	w, err := NewWatcher(path, 20*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	writeFile(t, path, `{"a":1}`)
	writeFile(t, path, `{"a":2}`)

	select {
	case <-w.Changes():
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change notification")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	writeFile(t, path, `{}`)

	w, err := NewWatcher(path, 20*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	writeFile(t, filepath.Join(dir, "other.json"), `{}`)

	select {
	case <-w.Changes():
		t.Fatal("unexpected change notification")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestPostgresSource_RequiresQuery(t *testing.T) {
	_, err := NewPostgresSource("postgres://localhost/db", "").Load(context.Background())
	assert.ErrorContains(t, err, "needs a query")
}

func TestPostgresSource_InvalidDSN(t *testing.T) {
	_, err := NewPostgresSource("postgres://%zz", "select 1").Load(context.Background())
	assert.ErrorContains(t, err, "failed to parse connection config")
}

func TestPostgresSource_Live(t *testing.T) {
	dsn := os.Getenv("LAZYJSON_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("LAZYJSON_TEST_PG_DSN not set")
	}

	v, err := NewPostgresSource(dsn, `select '{"a":[1,2]}'::jsonb`).Load(context.Background())
	require.NoError(t, err)
	a, ok := v.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, a.Len())

	v, err = NewPostgresSource(dsn, `select null::jsonb`).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, jsondoc.KindNull, v.Kind())
}
