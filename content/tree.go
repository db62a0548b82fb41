// Package content provides sandboxed read access to a rooted directory of
// text documents. Nodes are identified by slash-separated paths relative to
// the root; the empty path denotes the root itself. No node objects are
// materialized — the filesystem is the source of truth and structure is
// re-derived on each access.
package content

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/academykit/studybot/errors"
)

// Entry is a single child of a directory node.
type Entry struct {
	// Name is the display name: the directory name, or the document name
	// with its extension stripped.
	Name string
	// RelPath is the slash-separated path relative to the tree root.
	RelPath string
}

// Tree is a sandboxed accessor over a content root. All methods re-validate
// containment on every call; paths arrive indirectly through the reference
// registry and are never trusted.
type Tree struct {
	root string
	ext  string
}

// NewTree creates a Tree rooted at dir. ext is the recognized document
// extension including the dot, e.g. ".txt".
func NewTree(dir, ext string) (*Tree, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "cannot resolve content root")
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound(dir)
		}
		return nil, errors.IOFailure(dir, err)
	}
	if !info.IsDir() {
		return nil, errors.ConfigInvalid("content root '" + dir + "' is not a directory")
	}
	return &Tree{root: abs, ext: strings.ToLower(ext)}, nil
}

// Root returns the absolute content root.
func (t *Tree) Root() string { return t.root }

// resolve canonicalizes rel against the root and enforces containment.
// It returns the absolute filesystem path and the canonical relative path.
func (t *Tree) resolve(rel string) (string, string, error) {
	abs := filepath.Clean(filepath.Join(t.root, filepath.FromSlash(rel)))
	if abs != t.root && !strings.HasPrefix(abs, t.root+string(filepath.Separator)) {
		return "", "", errors.BoundaryViolation(rel)
	}
	canon, err := filepath.Rel(t.root, abs)
	if err != nil {
		return "", "", errors.BoundaryViolation(rel)
	}
	canon = filepath.ToSlash(canon)
	if canon == "." {
		canon = ""
	}
	return abs, canon, nil
}

// ListChildren returns the sub-directories and documents of the directory at
// rel, each sorted case-insensitively by name. Non-directory entries whose
// extension does not match the recognized document extension are ignored.
func (t *Tree) ListChildren(rel string) (dirs []Entry, docs []Entry, err error) {
	abs, canon, err := t.resolve(rel)
	if err != nil {
		return nil, nil, err
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.NotFound(rel)
		}
		return nil, nil, errors.IOFailure(rel, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		childRel := path.Join(canon, name)
		if entry.IsDir() {
			dirs = append(dirs, Entry{Name: name, RelPath: childRel})
			continue
		}
		if strings.ToLower(path.Ext(name)) != t.ext {
			continue
		}
		stem := strings.TrimSuffix(name, path.Ext(name))
		docs = append(docs, Entry{Name: stem, RelPath: childRel})
	}

	sortEntries(dirs)
	sortEntries(docs)
	return dirs, docs, nil
}

// ReadDocument returns the text of the document at rel.
func (t *Tree) ReadDocument(rel string) (string, error) {
	abs, _, err := t.resolve(rel)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NotFound(rel)
		}
		return "", errors.IOFailure(rel, err)
	}
	if info.IsDir() {
		return "", errors.NotFound(rel)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", errors.IOFailure(rel, err)
	}
	return string(data), nil
}

// ScanAll recursively enumerates every document under the root and returns
// the set of their relative paths. Entries that cannot be visited are skipped
// so a single unreadable directory does not abort the scan.
func (t *Tree) ScanAll() (map[string]struct{}, error) {
	found := make(map[string]struct{})
	err := filepath.WalkDir(t.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if p == t.root {
				return errors.IOFailure("", walkErr)
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if strings.ToLower(filepath.Ext(p)) != t.ext {
			return nil
		}
		rel, relErr := filepath.Rel(t.root, p)
		if relErr != nil {
			return nil
		}
		found[filepath.ToSlash(rel)] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// Parent returns the relative path of the directory containing rel, with the
// root mapped to the empty path.
func Parent(rel string) string {
	parent := path.Dir(rel)
	if parent == "." || parent == "/" {
		return ""
	}
	return parent
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}
