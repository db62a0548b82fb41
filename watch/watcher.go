// Package watch polls the content tree for newly added documents and emits
// one event per new document. Polling against a last-known snapshot is the
// source of truth; filesystem notifications only shorten the wait.
package watch

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/academykit/studybot/content"
	"github.com/academykit/studybot/logging"
	"github.com/academykit/studybot/registry"
)

// Event describes one newly observed document. Tokens for the document and
// its parent directory are pre-registered so the transport can build
// navigation buttons without touching the registry itself.
type Event struct {
	RelPath  string
	DocToken string
	DirToken string
}

// NotifyFunc consumes watcher events. It is called from the watcher
// goroutine; implementations fan out to subscribers themselves.
type NotifyFunc func(Event)

// Watcher diffs the current document set against a known-files snapshot on a
// fixed interval.
type Watcher struct {
	tree     *content.Tree
	reg      *registry.Registry
	notify   NotifyFunc
	interval time.Duration
	debounce time.Duration
	log      *logrus.Entry

	mu    sync.Mutex
	known map[string]struct{}
}

// New creates a Watcher. interval is the poll period; debounce suppresses
// bursts of filesystem nudges.
func New(tree *content.Tree, reg *registry.Registry, interval, debounce time.Duration, notify NotifyFunc) *Watcher {
	return &Watcher{
		tree:     tree,
		reg:      reg,
		notify:   notify,
		interval: interval,
		debounce: debounce,
		log:      logging.NewLogger("watcher"),
		known:    make(map[string]struct{}),
	}
}

// Prime takes the initial snapshot. Documents present before Prime never
// generate notifications.
func (w *Watcher) Prime() error {
	current, err := w.tree.ScanAll()
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.known = current
	w.mu.Unlock()
	return nil
}

// Tick scans the tree once, notifies for every document not in the snapshot
// in lexicographic order, and replaces the snapshot wholesale. A scan failure
// leaves the snapshot untouched so the next tick retries from current state.
func (w *Watcher) Tick() error {
	current, err := w.tree.ScanAll()
	if err != nil {
		return err
	}

	w.mu.Lock()
	var added []string
	for rel := range current {
		if _, ok := w.known[rel]; !ok {
			added = append(added, rel)
		}
	}
	w.known = current
	w.mu.Unlock()

	sort.Strings(added)
	for _, rel := range added {
		evt := Event{
			RelPath:  rel,
			DocToken: w.reg.Register(registry.KindDocument, rel),
			DirToken: w.reg.Register(registry.KindDirectory, content.Parent(rel)),
		}
		w.log.WithField("path", rel).Info("new document detected")
		w.notify(evt)
	}
	return nil
}

// Snapshot returns a copy of the known-files set.
func (w *Watcher) Snapshot() map[string]struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make(map[string]struct{}, len(w.known))
	for rel := range w.known {
		out[rel] = struct{}{}
	}
	return out
}

// Run primes the snapshot and polls until the context is cancelled. Tick
// errors are logged and never terminate the loop. Filesystem create events,
// when available, trigger an early tick.
func (w *Watcher) Run(ctx context.Context) {
	// The snapshot must be primed before the first diff, otherwise every
	// pre-existing document would look new. Retry until it succeeds.
	for {
		err := w.Prime()
		if err == nil {
			break
		}
		w.log.WithError(err).Warn("initial scan failed; retrying")
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.interval):
		}
	}

	nudge := w.startNudger(ctx)

	timer := time.NewTimer(w.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		case <-nudge:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}

		if err := w.Tick(); err != nil {
			w.log.WithError(err).Warn("tick failed; will retry")
		}
		timer.Reset(w.interval)
	}
}
