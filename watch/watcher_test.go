package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academykit/studybot/content"
	"github.com/academykit/studybot/registry"
)

type recorder struct {
	events []Event
}

func (r *recorder) notify(evt Event) { r.events = append(r.events, evt) }

func newWatcher(t *testing.T, root string) (*Watcher, *recorder, *registry.Registry) {
	t.Helper()
	tree, err := content.NewTree(root, ".txt")
	require.NoError(t, err)
	reg := registry.New()
	rec := &recorder{}
	return New(tree, reg, 10*time.Second, 100*time.Millisecond, rec.notify), rec, reg
}

func writeDoc(t *testing.T, root, rel string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte("body"), 0o644))
}

func TestPrimeSuppressesExistingDocuments(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "a.txt")

	w, rec, _ := newWatcher(t, root)
	require.NoError(t, w.Prime())

	require.NoError(t, w.Tick())
	assert.Empty(t, rec.events, "pre-existing documents must not generate notifications")
	assert.Equal(t, map[string]struct{}{"a.txt": {}}, w.Snapshot())
}

func TestTickDetectsNewDocument(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "a.txt")

	w, rec, reg := newWatcher(t, root)
	require.NoError(t, w.Prime())

	writeDoc(t, root, "sections/b.txt")
	require.NoError(t, w.Tick())

	require.Len(t, rec.events, 1)
	evt := rec.events[0]
	assert.Equal(t, "sections/b.txt", evt.RelPath)

	ref, err := reg.Resolve(evt.DocToken)
	require.NoError(t, err)
	assert.Equal(t, registry.Ref{Kind: registry.KindDocument, RelPath: "sections/b.txt"}, ref)

	ref, err = reg.Resolve(evt.DirToken)
	require.NoError(t, err)
	assert.Equal(t, registry.Ref{Kind: registry.KindDirectory, RelPath: "sections"}, ref)

	assert.Equal(t, map[string]struct{}{"a.txt": {}, "sections/b.txt": {}}, w.Snapshot())

	// A quiet second tick produces nothing.
	require.NoError(t, w.Tick())
	assert.Len(t, rec.events, 1)
}

func TestTickOrdersNewDocuments(t *testing.T) {
	root := t.TempDir()
	w, rec, _ := newWatcher(t, root)
	require.NoError(t, w.Prime())

	writeDoc(t, root, "z.txt")
	writeDoc(t, root, "a.txt")
	writeDoc(t, root, "m.txt")
	require.NoError(t, w.Tick())

	require.Len(t, rec.events, 3)
	assert.Equal(t, "a.txt", rec.events[0].RelPath)
	assert.Equal(t, "m.txt", rec.events[1].RelPath)
	assert.Equal(t, "z.txt", rec.events[2].RelPath)
}

func TestRemovedDocumentsLeaveSnapshotSilently(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "a.txt")
	writeDoc(t, root, "b.txt")

	w, rec, _ := newWatcher(t, root)
	require.NoError(t, w.Prime())

	require.NoError(t, os.Remove(filepath.Join(root, "b.txt")))
	require.NoError(t, w.Tick())

	assert.Empty(t, rec.events)
	assert.Equal(t, map[string]struct{}{"a.txt": {}}, w.Snapshot())

	// Re-adding the document counts as new again.
	writeDoc(t, root, "b.txt")
	require.NoError(t, w.Tick())
	require.Len(t, rec.events, 1)
	assert.Equal(t, "b.txt", rec.events[0].RelPath)
}

func TestTickErrorPreservesSnapshot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "inner")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	writeDoc(t, root, "inner/a.txt")

	w, rec, _ := newWatcher(t, nested)
	require.NoError(t, w.Prime())

	// Remove the watched root out from under the watcher.
	require.NoError(t, os.RemoveAll(nested))
	assert.Error(t, w.Tick())
	assert.Empty(t, rec.events)
	assert.Equal(t, map[string]struct{}{"a.txt": {}}, w.Snapshot(),
		"a failed scan must not poison the snapshot")
}
