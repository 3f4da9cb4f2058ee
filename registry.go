package impmock

import (
	"reflect"

	"github.com/toejough/impmock/internal/core"
)

// Repository creates mocks for one test with shared options and verifies them together.
type Repository struct {
	t    TestReporter
	repo *core.Repository
}

// Create makes a mock of T through r. opts apply after the repository's options.
func Create[T any](r *Repository, opts ...Option) *Mock[T] {
	r.t.Helper()

	mock, err := r.repo.Create(reflect.TypeFor[T](), opts...)
	if err != nil {
		r.t.Fatalf("%v", err)

		return nil
	}

	return &Mock[T]{t: r.t, mock: mock}
}

// GetOrCreateRepository returns the Repository for the given test, creating one over factory if
// needed. Multiple calls with the same TestReporter return the same Repository, so helpers
// creating mocks for one test share it.
func GetOrCreateRepository(t TestReporter, factory *ProxyFactory, opts ...Option) *Repository {
	return &Repository{t: t, repo: core.GetOrCreateRepository(t, factory, opts...)}
}

// VerifyAll verifies every mock created through t's Repository.
func VerifyAll(t TestReporter) {
	t.Helper()
	core.VerifyAll(t)
}

// VerifyAll fails the test unless every active setup of every mock matched a call.
func (r *Repository) VerifyAll() {
	r.t.Helper()
	r.report(r.repo.VerifyAll())
}

// VerifyNoOtherCalls runs Mock.VerifyNoOtherCalls on every mock.
func (r *Repository) VerifyNoOtherCalls() {
	r.t.Helper()
	r.report(r.repo.VerifyNoOtherCalls())
}

// VerifyVerifiable runs Mock.VerifyVerifiable on every mock.
func (r *Repository) VerifyVerifiable() {
	r.t.Helper()
	r.report(r.repo.VerifyVerifiable())
}

func (r *Repository) report(err error) {
	r.t.Helper()

	if err != nil {
		r.t.Fatalf("%v", err)
	}
}
