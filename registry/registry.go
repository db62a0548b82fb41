// Package registry maps (kind, relative path) references to short opaque
// tokens usable as callback data, and back. Tokens are process-local: a
// restart invalidates every previously issued token.
package registry

import (
	"strconv"
	"sync"

	"github.com/academykit/studybot/errors"
)

// Kind distinguishes directory references from document references.
type Kind string

const (
	KindDirectory Kind = "dir"
	KindDocument  Kind = "doc"
)

// Ref identifies a tree node by kind and root-relative path.
type Ref struct {
	Kind    Kind
	RelPath string
}

// Registry assigns monotonically increasing tokens to references. Tokens are
// stable for the process lifetime and never reused for a different reference.
type Registry struct {
	mu      sync.Mutex
	counter uint64
	byToken map[string]Ref
	byRef   map[Ref]string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		byToken: make(map[string]Ref),
		byRef:   make(map[Ref]string),
	}
}

// Register returns the token for (kind, rel), allocating one on first use.
// Repeated registration of the same reference yields the same token.
func (r *Registry) Register(kind Kind, rel string) string {
	key := Ref{Kind: kind, RelPath: rel}

	r.mu.Lock()
	defer r.mu.Unlock()

	if token, ok := r.byRef[key]; ok {
		return token
	}
	r.counter++
	token := strconv.FormatUint(r.counter, 10)
	r.byRef[key] = token
	r.byToken[token] = key
	return token
}

// Resolve returns the reference a token was issued for. Tokens never issued
// by this process instance fail with an UnknownToken error; callers should
// treat that as an expired reference, not a crash.
func (r *Registry) Resolve(token string) (Ref, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ref, ok := r.byToken[token]
	if !ok {
		return Ref{}, errors.UnknownToken(token)
	}
	return ref, nil
}

// Len reports how many references have been registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byToken)
}
