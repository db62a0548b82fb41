package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/academykit/studybot/errors"
)

// newFixtureTree builds a small content tree:
//
//	basics/intro.txt
//	basics/Setup.txt
//	Advanced/attacks.txt
//	notes.txt
//	readme.md        (ignored: wrong extension)
func newFixtureTree(t *testing.T) *Tree {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "basics"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Advanced"), 0o755))
	files := map[string]string{
		"basics/intro.txt":     "intro body",
		"basics/Setup.txt":     "setup body",
		"Advanced/attacks.txt": "attack body",
		"notes.txt":            "notes body",
		"readme.md":            "ignored",
	}
	for rel, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, filepath.FromSlash(rel)), []byte(body), 0o644))
	}

	tree, err := NewTree(root, ".txt")
	require.NoError(t, err)
	return tree
}

func TestListChildrenRoot(t *testing.T) {
	tree := newFixtureTree(t)

	dirs, docs, err := tree.ListChildren("")
	require.NoError(t, err)

	// Case-insensitive ordering, documents carry stem names.
	assert.Equal(t, []Entry{
		{Name: "Advanced", RelPath: "Advanced"},
		{Name: "basics", RelPath: "basics"},
	}, dirs)
	assert.Equal(t, []Entry{
		{Name: "notes", RelPath: "notes.txt"},
	}, docs)
}

func TestListChildrenSubdir(t *testing.T) {
	tree := newFixtureTree(t)

	dirs, docs, err := tree.ListChildren("basics")
	require.NoError(t, err)
	assert.Empty(t, dirs)
	assert.Equal(t, []Entry{
		{Name: "intro", RelPath: "basics/intro.txt"},
		{Name: "Setup", RelPath: "basics/Setup.txt"},
	}, docs)
}

func TestBoundaryViolation(t *testing.T) {
	tree := newFixtureTree(t)

	escapes := []string{
		"../../etc/passwd",
		"..",
		"basics/../../outside",
	}
	for _, rel := range escapes {
		_, _, err := tree.ListChildren(rel)
		assert.True(t, errors.Is(err, errors.ErrCodeBoundaryViolation), "ListChildren(%q)", rel)

		_, err = tree.ReadDocument(rel)
		assert.True(t, errors.Is(err, errors.ErrCodeBoundaryViolation), "ReadDocument(%q)", rel)
	}

	// Dot-dot segments that stay inside the root are fine.
	_, _, err := tree.ListChildren("basics/../Advanced")
	assert.NoError(t, err)
}

func TestReadDocument(t *testing.T) {
	tree := newFixtureTree(t)

	text, err := tree.ReadDocument("basics/intro.txt")
	require.NoError(t, err)
	assert.Equal(t, "intro body", text)

	_, err = tree.ReadDocument("basics/missing.txt")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))

	// Directories are not documents.
	_, err = tree.ReadDocument("basics")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestScanAll(t *testing.T) {
	tree := newFixtureTree(t)

	docs, err := tree.ScanAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{
		"basics/intro.txt":     {},
		"basics/Setup.txt":     {},
		"Advanced/attacks.txt": {},
		"notes.txt":            {},
	}, docs)
}

func TestParent(t *testing.T) {
	assert.Equal(t, "", Parent("notes.txt"))
	assert.Equal(t, "basics", Parent("basics/intro.txt"))
	assert.Equal(t, "a/b", Parent("a/b/c.txt"))
	assert.Equal(t, "", Parent(""))
}
