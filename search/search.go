// Package search scans the content tree for a query term and extracts
// bounded context snippets around each match.
package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/academykit/studybot/content"
	"github.com/academykit/studybot/errors"
	"github.com/academykit/studybot/logging"
)

const (
	// MinQueryLength rejects queries too short to be meaningful.
	MinQueryLength = 2
	// MaxSnippetsPerDoc caps context windows collected per document.
	MaxSnippetsPerDoc = 3
	// MaxDisplayResults caps the documents shown to the user.
	MaxDisplayResults = 5
	// MaxOpenableResults caps the documents offered as openable buttons.
	MaxOpenableResults = 3
	// snippetLimit bounds a single context window's display length.
	snippetLimit = 200
)

const ellipsis = "..."

// Result is one matching document with its context snippets.
type Result struct {
	RelPath  string
	Snippets []string
}

// Engine performs full-text search over a content tree.
type Engine struct {
	tree *content.Tree
	log  *logrus.Entry
}

// NewEngine creates an Engine over the given tree.
func NewEngine(tree *content.Tree) *Engine {
	return &Engine{tree: tree, log: logging.NewLogger("search")}
}

// Search returns every document whose content or path contains the
// lower-cased query, in lexicographic path order, each with up to
// MaxSnippetsPerDoc context windows of the matching line plus its immediate
// neighbors. Queries shorter than MinQueryLength fail before any document is
// read. A read failure on one document is logged and that document skipped.
func (e *Engine) Search(query string) ([]Result, error) {
	term := strings.ToLower(strings.TrimSpace(query))
	if utf8.RuneCountInString(term) < MinQueryLength {
		return nil, errors.QueryTooShort(MinQueryLength)
	}

	docs, err := e.tree.ScanAll()
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(docs))
	for rel := range docs {
		paths = append(paths, rel)
	}
	sort.Strings(paths)

	var results []Result
	for _, rel := range paths {
		text, err := e.tree.ReadDocument(rel)
		if err != nil {
			e.log.WithError(err).WithField("path", rel).Warn("skipping unreadable document")
			continue
		}

		body := strings.ToLower(text)
		inContent := strings.Contains(body, term)
		inPath := strings.Contains(strings.ToLower(rel), term)
		if !inContent && !inPath {
			continue
		}

		snippets := collectSnippets(body, term)
		if len(snippets) == 0 {
			if !inPath {
				continue
			}
			// Path-only match: synthesize a snippet so the result is never
			// an entry with an empty context list.
			snippets = []string{"(matched by name)"}
		}
		results = append(results, Result{RelPath: rel, Snippets: snippets})
	}
	return results, nil
}

// collectSnippets gathers windows of each matching line plus one line before
// and after, trimmed to snippetLimit runes.
func collectSnippets(body, term string) []string {
	lines := strings.Split(body, "\n")
	var snippets []string
	for i, line := range lines {
		if !strings.Contains(line, term) {
			continue
		}
		start := i - 1
		if start < 0 {
			start = 0
		}
		end := i + 2
		if end > len(lines) {
			end = len(lines)
		}
		window := strings.Join(lines[start:end], "\n")
		if utf8.RuneCountInString(window) > snippetLimit {
			window = string([]rune(window)[:snippetLimit]) + ellipsis
		}
		snippets = append(snippets, window)
		if len(snippets) >= MaxSnippetsPerDoc {
			break
		}
	}
	return snippets
}
