// Package runtime provides the concurrency primitives the rest of the module
// is built on: a typed guarded value, a blocking queue, a fixed worker pool,
// and a phased execution plan.
package runtime

import "sync"

// noCopy is embedded in types that must not be copied after first use; it
// trips `go vet -copylocks`. It mirrors the convention the teacher repo uses
// for its own mutex-holding structs.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Synchronized guards a value of type T behind a reader/writer lock and hands
// out scoped access tokens instead of the raw value, so every read or write
// goes through a lock acquisition. Go has no destructors, so the "RAII"
// release the original relies on is replaced by an explicit Release call on
// the returned token; callers are expected to defer it immediately, the same
// discipline already used around sync.RWMutex.
type Synchronized[T any] struct {
	_   noCopy
	mu  sync.RWMutex
	val T
}

// NewSynchronized constructs a Synchronized value seeded with v.
func NewSynchronized[T any](v T) *Synchronized[T] {
	return &Synchronized[T]{val: v}
}

// ReadToken grants shared access to the guarded value until Release is called.
type ReadToken[T any] struct {
	owner *Synchronized[T]
}

// Get returns a pointer to the guarded value. The pointer must not be used
// after Release.
func (t ReadToken[T]) Get() *T {
	return &t.owner.val
}

// Release drops the shared lock held by this token.
func (t ReadToken[T]) Release() {
	t.owner.mu.RUnlock()
}

// WriteToken grants exclusive access to the guarded value until Release is called.
type WriteToken[T any] struct {
	owner *Synchronized[T]
}

// Get returns a pointer to the guarded value, safe to mutate until Release.
func (t WriteToken[T]) Get() *T {
	return &t.owner.val
}

// Release drops the exclusive lock held by this token.
func (t WriteToken[T]) Release() {
	t.owner.mu.Unlock()
}

// Read acquires shared access. Callers must call Release on the returned token.
func (s *Synchronized[T]) Read() ReadToken[T] {
	s.mu.RLock()
	return ReadToken[T]{owner: s}
}

// Write acquires exclusive access. Callers must call Release on the returned token.
func (s *Synchronized[T]) Write() WriteToken[T] {
	s.mu.Lock()
	return WriteToken[T]{owner: s}
}

// Unsafe returns a pointer to the guarded value without acquiring any lock.
// It exists for the rare case where the caller already knows access is
// externally synchronized (e.g. during single-threaded startup) and mirrors
// the original's EAccessMode::Unsafe escape hatch. Prefer Read/Write.
func (s *Synchronized[T]) Unsafe() *T {
	return &s.val
}

// WithRead runs fn with shared access to the guarded value, releasing the
// lock when fn returns, regardless of panics.
func WithRead[T any, R any](s *Synchronized[T], fn func(*T) R) R {
	tok := s.Read()
	defer tok.Release()
	return fn(tok.Get())
}

// WithWrite runs fn with exclusive access to the guarded value, releasing the
// lock when fn returns, regardless of panics.
func WithWrite[T any, R any](s *Synchronized[T], fn func(*T) R) R {
	tok := s.Write()
	defer tok.Release()
	return fn(tok.Get())
}
