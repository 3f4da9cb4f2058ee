package concurrency_test

//go:generate impgen concurrency.Source --name Source

import (
	"context"
	"errors"
	"sync"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import intentional for Gomega matcher DSL

	"github.com/toejough/impmock"
	concurrency "github.com/toejough/impmock/UAT/06-concurrency"
	"github.com/toejough/impmock/expr"
	"github.com/toejough/impmock/match"
)

func TestDrain_SequenceHandsOutEachItemOnce(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	const (
		workers   = 4
		perWorker = 5
	)

	source := NewSourceMock(t)
	sequence := source.Setup(func(x *expr.Parameter) expr.Node {
		return x.Call("Next", match.Any[context.Context]())
	}).Sequence()

	expected := make([]int, 0, workers*perWorker)
	for item := 1; item <= workers*perWorker; item++ {
		sequence.Returns(item, nil)
		expected = append(expected, item)
	}

	var (
		mu       sync.Mutex
		reported []int
	)

	source.Setup(func(x *expr.Parameter) expr.Node {
		return x.Call("Report", match.Any[int](), match.Any[int]())
	}).Callback(func(_, item int) {
		mu.Lock()
		defer mu.Unlock()

		reported = append(reported, item)
	})

	g.Expect(concurrency.Drain(context.Background(), source.Object(), workers, perWorker)).To(Succeed())
	g.Expect(reported).To(ConsistOf(expected))
	source.Verify(func(x *expr.Parameter) expr.Node {
		return x.Call("Next", match.Any[context.Context]())
	}, impmock.Exactly(workers*perWorker))
}

func TestDrain_ErrorStopsTheWorker(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	errDone := errors.New("done")

	source := NewSourceMock(t)
	source.Setup(func(x *expr.Parameter) expr.Node {
		return x.Call("Next", match.Any[context.Context]())
	}).Sequence().
		Returns(1, nil).
		Returns(2, nil).
		Throws(errDone)

	err := concurrency.Drain(context.Background(), source.Object(), 1, 5)

	g.Expect(err).To(MatchError(errDone))
	g.Expect(err).To(MatchError(ContainSubstring("worker 0")))
	source.Verify(func(x *expr.Parameter) expr.Node {
		return x.Call("Report", 0, match.In(1, 2))
	}, impmock.Exactly(2))
}

func TestDrain_InvocationsFromEveryGoroutineAreRecorded(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	source := NewSourceMock(t, impmock.WithBehavior(impmock.Strict))
	source.Setup(func(x *expr.Parameter) expr.Node {
		return x.Call("Next", match.Any[context.Context]())
	}).Returns(7, nil)
	source.Setup(func(x *expr.Parameter) expr.Node {
		return x.Call("Report", match.Any[int](), 7)
	}).Verifiable()

	g.Expect(concurrency.Drain(context.Background(), source.Object(), 8, 2)).To(Succeed())
	g.Expect(source.Invocations()).To(HaveLen(32))

	source.VerifyVerifiable()
	source.Verify(func(x *expr.Parameter) expr.Node {
		return x.Call("Report", match.InRange(0, 8, match.Exclusive), 7)
	}, impmock.Exactly(16))
	source.Verify(func(x *expr.Parameter) expr.Node {
		return x.Call("Next", match.Any[context.Context]())
	}, impmock.Exactly(16))
	source.VerifyNoOtherCalls()
}

func TestDrain_LimitCapsASetup(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	source := NewSourceMock(t)
	source.Setup(func(x *expr.Parameter) expr.Node {
		return x.Call("Next", match.Any[context.Context]())
	}).Returns(1, nil).Limit(3)

	g.Expect(concurrency.Drain(context.Background(), source.Object(), 3, 1)).To(Succeed())
	g.Expect(func() { _, _ = source.Object().Next(context.Background()) }).
		To(PanicWith(MatchError(impmock.ErrExpectationFailed)))
}
