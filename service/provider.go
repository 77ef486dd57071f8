// Package service implements the process-wide service registry and the
// Kernel that drives the main loop, grounded on the original engine's
// ServiceProvider/ServiceBase/Service/Kernel quartet.
package service

import (
	"fmt"
	"reflect"
	"sync"
)

// Status reports whether a service finished initializing successfully.
type Status uint8

const (
	// StatusSucceeded means the service is ready to use.
	StatusSucceeded Status = iota
	// StatusFailed means initialization failed; the reason CheckStatus
	// returns explains why.
	StatusFailed
)

// Service is implemented by anything registered with a Provider. A service
// reports its own initialization outcome instead of returning an error from
// its constructor, so a Provider can keep the service around (e.g. for
// logging) even when it failed to initialize.
type Service interface {
	InitializationSucceeded() bool
	CheckStatus() (Status, string)
}

// Base is embedded by concrete services to get Service for free, mirroring
// the original's ServiceBase.
type Base struct {
	status Status
	reason string
}

// SignalInitializationFailure marks the service as failed with reason.
func (b *Base) SignalInitializationFailure(reason string) {
	b.status = StatusFailed
	b.reason = reason
}

// InitializationSucceeded reports whether the service initialized cleanly.
func (b *Base) InitializationSucceeded() bool {
	return b.status == StatusSucceeded
}

// CheckStatus returns the service's status and, if failed, the reason.
func (b *Base) CheckStatus() (Status, string) {
	return b.status, b.reason
}

// Provider is a typed service registry keyed by the service's concrete type.
// Close tears services down in the reverse of their registration order,
// mirroring the original's ServiceProvider destructor.
type Provider struct {
	mu       sync.Mutex
	services map[reflect.Type]any
	order    []reflect.Type
	closers  map[reflect.Type]func() error
}

// NewProvider returns an empty Provider.
func NewProvider() *Provider {
	return &Provider{
		services: make(map[reflect.Type]any),
		closers:  make(map[reflect.Type]func() error),
	}
}

// Provide constructs S via ctor, passing it the Provider, stores it keyed by
// S's type, and records it at the top of the teardown order. Re-providing an
// already-registered type overwrites it without tearing down the previous
// instance, matching the original's documented (if surprising) behavior —
// callers that need replacement semantics should Destroy first.
func Provide[S any](p *Provider, ctor func(*Provider) (S, error)) (S, error) {
	var zero S
	svc, err := ctor(p)
	if err != nil {
		return zero, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	t := reflect.TypeOf(&zero).Elem()
	if _, exists := p.services[t]; !exists {
		p.order = append(p.order, t)
	}
	p.services[t] = svc
	if closer, ok := any(svc).(interface{ Close() error }); ok {
		p.closers[t] = closer.Close
	}
	return svc, nil
}

// Locate returns the registered instance of S, if any.
func Locate[S any](p *Provider) (S, bool) {
	var zero S
	p.mu.Lock()
	defer p.mu.Unlock()

	t := reflect.TypeOf(&zero).Elem()
	v, ok := p.services[t]
	if !ok {
		return zero, false
	}
	return v.(S), true
}

// Destroy forces immediate teardown of S ahead of Provider.Close, splicing
// it out of the reverse-teardown order so the remaining services are still
// torn down correctly relative to one another.
func Destroy[S any](p *Provider) error {
	var zero S
	p.mu.Lock()
	defer p.mu.Unlock()

	t := reflect.TypeOf(&zero).Elem()
	if _, ok := p.services[t]; !ok {
		return nil
	}
	closer := p.closers[t]
	delete(p.services, t)
	delete(p.closers, t)
	for i, ot := range p.order {
		if ot == t {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	if closer != nil {
		return closer()
	}
	return nil
}

// Close tears down every remaining service in the reverse of its
// registration order, collecting (not short-circuiting on) any errors.
func (p *Provider) Close() error {
	p.mu.Lock()
	order := append([]reflect.Type(nil), p.order...)
	closers := p.closers
	p.mu.Unlock()

	var errs []error
	for i := len(order) - 1; i >= 0; i-- {
		t := order[i]
		if closer, ok := closers[t]; ok {
			if err := closer(); err != nil {
				errs = append(errs, fmt.Errorf("tearing down %s: %w", t, err))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("service teardown: %v", errs)
	}
	return nil
}
