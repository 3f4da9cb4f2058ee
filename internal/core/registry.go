package core

import (
	"errors"
	"reflect"
	"sync"
)

// Repository creates mocks with shared options and verifies them together.
type Repository struct {
	factory *ProxyFactory
	options []Option

	mu    sync.Mutex
	mocks []*Mock
}

// NewRepository returns a repository creating mocks through factory with opts applied first.
func NewRepository(factory *ProxyFactory, opts ...Option) *Repository {
	return &Repository{factory: factory, options: opts}
}

// Create makes a mock of t. opts apply after the repository's options.
func (r *Repository) Create(t reflect.Type, opts ...Option) (*Mock, error) {
	mock, err := NewMock(t, r.factory, append(append([]Option(nil), r.options...), opts...)...)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.mocks = append(r.mocks, mock)
	r.mu.Unlock()

	return mock, nil
}

// Factory returns the factory the repository creates proxies with.
func (r *Repository) Factory() *ProxyFactory {
	return r.factory
}

// Mocks returns the mocks created so far.
func (r *Repository) Mocks() []*Mock {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]*Mock(nil), r.mocks...)
}

// VerifyAll runs Mock.VerifyAll on every mock and joins the failures.
func (r *Repository) VerifyAll() error {
	return r.verify((*Mock).VerifyAll)
}

// VerifyNoOtherCalls runs Mock.VerifyNoOtherCalls on every mock and joins the failures.
func (r *Repository) VerifyNoOtherCalls() error {
	return r.verify((*Mock).VerifyNoOtherCalls)
}

// VerifyVerifiable runs Mock.VerifyVerifiable on every mock and joins the failures.
func (r *Repository) VerifyVerifiable() error {
	return r.verify((*Mock).VerifyVerifiable)
}

func (r *Repository) verify(check func(*Mock) error) error {
	var errs []error

	for _, mock := range r.Mocks() {
		if err := check(mock); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// GetOrCreateRepository returns the Repository for the given test, creating one over factory if
// needed. Later calls with the same TestReporter return the same Repository, whatever factory
// they pass, so helpers in one test share it.
//
// If the TestReporter supports Cleanup (like *testing.T), the Repository is
// automatically removed from the registry when the test completes.
func GetOrCreateRepository(t TestReporter, factory *ProxyFactory, opts ...Option) *Repository {
	registryMu.Lock()
	defer registryMu.Unlock()

	if repo, ok := registry[t]; ok {
		return repo
	}

	repo := NewRepository(factory, opts...)
	registry[t] = repo

	// Register cleanup if the TestReporter supports it
	if cr, ok := t.(cleanupRegistrar); ok {
		cr.Cleanup(func() {
			registryMu.Lock()
			delete(registry, t)
			registryMu.Unlock()
		})
	}

	return repo
}

// VerifyAll verifies every mock created through t's Repository, failing t on the first report.
//
// If no Repository has been created for t yet, VerifyAll returns immediately.
func VerifyAll(t TestReporter) {
	registryMu.Lock()

	repo, ok := registry[t]

	registryMu.Unlock()

	if !ok {
		return
	}

	if err := repo.VerifyAll(); err != nil {
		t.Helper()
		t.Fatalf("%v", err)
	}
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Package-level registry is intentional for test coordination
	registry = make(map[TestReporter]*Repository)
	//nolint:gochecknoglobals // Mutex for registry
	registryMu sync.Mutex
)

// cleanupRegistrar is the interface needed for registering cleanup functions.
// This is satisfied by *testing.T and *testing.B.
type cleanupRegistrar interface {
	Cleanup(cleanupFunc func())
}
