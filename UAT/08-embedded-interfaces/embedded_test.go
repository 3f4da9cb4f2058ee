package embedded_test

//go:generate impgen embedded.Store --name Store
//go:generate impgen embedded.Catalog --name Catalog

import (
	"errors"
	"io"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import intentional for Gomega matcher DSL

	"github.com/toejough/impmock"
	embedded "github.com/toejough/impmock/UAT/08-embedded-interfaces"
	"github.com/toejough/impmock/expr"
	"github.com/toejough/impmock/match"
)

func TestStore_EmbeddedMethodsAreMockable(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	errClosed := errors.New("already closed")

	store := NewStoreMock(t)
	store.Setup(func(x *expr.Parameter) expr.Node { return x.Call("Read", "a") }).Returns("1", nil)
	store.Setup(func(x *expr.Parameter) expr.Node { return x.Call("Close") }).Throws(errClosed)

	g.Expect(store.Object().Read("a")).To(Equal("1"))
	g.Expect(store.Object().Write("a", "2")).To(Succeed())

	closer := impmock.As[io.Closer](store)
	g.Expect(closer.Close()).To(MatchError(errClosed))

	store.Verify(func(x *expr.Parameter) expr.Node { return x.Call("Close") }, impmock.Once())
}

func TestMigrate_ChainedSetupsReachTheInnerStore(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	catalog := impmock.New[embedded.Catalog](t, newFactory(t))
	catalog.Setup(func(x *expr.Parameter) expr.Node { return x.Call("Name") }).Returns("cat")
	catalog.Setup(func(x *expr.Parameter) expr.Node {
		return x.Call("Store").Call("Read", match.Any[string]())
	}).ReturnsFunc(func(key string) (string, error) { return "v-" + key, nil })

	g.Expect(embedded.Migrate(catalog.Object(), "a", "b")).To(Succeed())

	catalog.Verify(func(x *expr.Parameter) expr.Node {
		return x.Call("Store").Call("Write", "cat/a", "v-a")
	}, impmock.Once())
	catalog.Verify(func(x *expr.Parameter) expr.Node {
		return x.Call("Store").Call("Write", match.Regex(`^cat/`), match.Any[string]())
	}, impmock.Exactly(2))
	catalog.Verify(func(x *expr.Parameter) expr.Node { return x.Call("Store").Call("Close") }, impmock.Once())
	catalog.VerifyAll()
}

func TestMigrate_InnerFailureIsReported(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	errDenied := errors.New("denied")

	catalog := impmock.New[embedded.Catalog](t, newFactory(t))
	catalog.Setup(func(x *expr.Parameter) expr.Node {
		return x.Call("Store").Call("Write", match.Any[string](), match.Any[string]())
	}).Throws(errDenied)

	err := embedded.Migrate(catalog.Object(), "a")

	g.Expect(err).To(MatchError(errDenied))
	g.Expect(err).To(MatchError(ContainSubstring("write a")))
	catalog.Verify(func(x *expr.Parameter) expr.Node { return x.Call("Store").Call("Close") }, impmock.Never())
}

func TestMockDefaults_InterfaceResultsAreMocks(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	catalog := impmock.New[embedded.Catalog](t, newFactory(t), impmock.WithDefaultValue(impmock.MockDefaults{}))

	store := catalog.Object().Store()
	g.Expect(store).NotTo(BeNil())
	g.Expect(catalog.Object().Store()).To(BeIdenticalTo(store))
	g.Expect(store.Read("a")).To(BeEmpty())
	g.Expect(embedded.Migrate(catalog.Object(), "a")).To(Succeed())
}

func TestEmptyDefaults_InterfaceResultsAreNil(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	catalog := NewCatalogMock(t)

	g.Expect(catalog.Object().Store()).To(BeNil())
	g.Expect(catalog.Object().Name()).To(BeEmpty())
}

func newFactory(t *testing.T) *impmock.ProxyFactory {
	t.Helper()

	factory := impmock.NewProxyFactory()
	if err := RegisterCatalog(factory); err != nil {
		t.Fatalf("register Catalog: %v", err)
	}

	if err := RegisterStore(factory); err != nil {
		t.Fatalf("register Store: %v", err)
	}

	return factory
}
