package core_test

import (
	"strings"
	"testing"
	"time"

	. "github.com/onsi/gomega" //nolint:revive // Dot import intentional for Gomega matcher DSL
	"pgregory.net/rapid"

	"github.com/toejough/impmock/expr"
	"github.com/toejough/impmock/internal/core"
	"github.com/toejough/impmock/match"
)

func addAny(x *expr.Parameter) expr.Node {
	return x.Call("Add", match.Any[int](), match.Any[int]())
}

func TestMethodCallSetup_CallbackOrder(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := newMock[Calculator](t)
	calc := mock.Object().(Calculator)

	var events []string

	created := setup(t, mock, on[Calculator](addAny))
	g.Expect(created.SetCallback(func(a, b int) { events = append(events, "before") })).To(Succeed())
	g.Expect(created.SetReturnsFunc(func(a, b int) int {
		events = append(events, "returns")

		return a + b
	})).To(Succeed())
	g.Expect(created.SetCallback(func() { events = append(events, "after") })).To(Succeed())

	g.Expect(calc.Add(2, 3)).To(Equal(5))
	g.Expect(events).To(Equal([]string{"before", "returns", "after"}))
}

func TestMethodCallSetup_CallbackSkippedAfterThrow(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := newMock[Calculator](t)
	calc := mock.Object().(Calculator)
	afterRan := false

	created := setup(t, mock, on[Calculator](func(x *expr.Parameter) expr.Node {
		return x.Call("Divide", match.Any[int](), 0)
	}))
	g.Expect(created.SetThrows(errDivideByZero)).To(Succeed())
	g.Expect(created.SetCallback(func() { afterRan = true })).To(Succeed())

	_, err := calc.Divide(1, 0)
	g.Expect(err).To(MatchError(errDivideByZero))
	g.Expect(afterRan).To(BeFalse())
}

func TestMethodCallSetup_CallbackSkippedWhenUnanswered(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := newMock[Calculator](t)
	calc := mock.Object().(Calculator)
	afterCalls := 0

	created := setup(t, mock, on[Calculator](addAny))
	seq, err := created.SetSequence()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(seq.Returns(4)).To(Succeed())
	g.Expect(created.SetCallback(func() { afterCalls++ })).To(Succeed())

	g.Expect(calc.Add(1, 1)).To(Equal(4))
	g.Expect(calc.Add(1, 1)).To(Equal(0))
	g.Expect(afterCalls).To(Equal(1))
}

func TestMethodCallSetup_CallsThrough(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := newMock[Calculator](t, core.WithTarget(realCalculator{}))
	calc := mock.Object().(Calculator)

	g.Expect(setup(t, mock, on[Calculator](addAny)).SetProceed()).To(Succeed())
	g.Expect(setup(t, mock, on[Calculator](func(x *expr.Parameter) expr.Node {
		return x.Call("Sum", match.Any[int](), match.Any[int]())
	})).SetProceed()).To(Succeed())

	g.Expect(calc.Add(20, 22)).To(Equal(42))
	g.Expect(calc.Sum(1, 2)).To(Equal(3))
}

func TestMethodCallSetup_CallsThroughNeedsTarget(t *testing.T) {
	t.Parallel()

	err := setup(t, newMock[Calculator](t), on[Calculator](addAny)).SetProceed()
	if reasonOf(err) != core.ReasonNoTarget {
		t.Errorf("SetProceed() = %v, want no-target", err)
	}
}

func TestMethodCallSetup_Delay(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	timer := &fakeTimer{}
	mock := newMock[Calculator](t, core.WithTimer(timer))

	created := setup(t, mock, on[Calculator](addAny))
	g.Expect(created.SetDelay(-time.Second)).To(MatchError(core.ErrUsage))
	g.Expect(created.SetDelay(time.Minute)).To(Succeed())
	g.Expect(created.SetReturns(7)).To(Succeed())

	g.Expect(mock.Object().(Calculator).Add(1, 1)).To(Equal(7))
	g.Expect(timer.Waited()).To(Equal([]time.Duration{time.Minute}))
}

func TestMethodCallSetup_ExecutionLimit(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := newMock[Calculator](t)
	calc := mock.Object().(Calculator)

	created := setup(t, mock, on[Calculator](addAny))
	g.Expect(created.SetLimit(0)).To(MatchError(core.ErrUsage))
	g.Expect(created.SetLimit(2)).To(Succeed())
	g.Expect(created.SetReturns(1)).To(Succeed())

	g.Expect(calc.Add(1, 1)).To(Equal(1))
	g.Expect(calc.Add(1, 1)).To(Equal(1))

	var failure error

	func() {
		defer func() { failure, _ = recover().(error) }()

		calc.Add(1, 1)
	}()

	g.Expect(reasonOf(failure)).To(Equal(core.ReasonExecutionLimit))
	g.Expect(failure).To(MatchError(core.ErrExpectationFailed))
	g.Expect(failure.Error()).To(ContainSubstring("limited to 2 executions"))
	g.Expect(failure.Error()).To(ContainSubstring("execution 3"))
}

func TestMethodCallSetup_ExecutionLimit_Property(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		limit := rapid.IntRange(1, 10).Draw(rt, "limit")
		calls := rapid.IntRange(0, 15).Draw(rt, "calls")

		mock := newMock[Calculator](t)
		calc := mock.Object().(Calculator)

		created, err := mock.Setup(on[Calculator](addAny), nil)
		if err != nil {
			rt.Fatalf("setup: %v", err)
		}

		_ = created.SetLimit(limit)

		failures := 0

		for range calls {
			if panicReason(func() { calc.Add(1, 2) }) == core.ReasonExecutionLimit {
				failures++
			}
		}

		if want := max(0, calls-limit); failures != want {
			rt.Fatalf("limit %d, %d calls: %d failures, want %d", limit, calls, failures, want)
		}
	})
}

func TestMethodCallSetup_NoOpReturnsDefaults(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := newMock[Calculator](t, core.WithBehavior(core.Strict))

	g.Expect(setup(t, mock, on[Calculator](addAny)).SetNoOp()).To(Succeed())
	g.Expect(mock.Object().(Calculator).Add(1, 2)).To(Equal(0))
}

func TestMethodCallSetup_RejectsBadSignatures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		apply  func(*core.MethodCallSetup) error
		reason core.Reason
	}{
		{
			name:   "callback with wrong parameters",
			apply:  func(s *core.MethodCallSetup) error { return s.SetCallback(func(string) {}) },
			reason: core.ReasonCallbackSignature,
		},
		{
			name:   "callback returning values",
			apply:  func(s *core.MethodCallSetup) error { return s.SetCallback(func() int { return 0 }) },
			reason: core.ReasonCallbackSignature,
		},
		{
			name:   "callback that is not a function",
			apply:  func(s *core.MethodCallSetup) error { return s.SetCallback(42) },
			reason: core.ReasonCallbackSignature,
		},
		{
			name:   "too many return values",
			apply:  func(s *core.MethodCallSetup) error { return s.SetReturns(1, 2) },
			reason: core.ReasonReturnSignature,
		},
		{
			name:   "return value of the wrong type",
			apply:  func(s *core.MethodCallSetup) error { return s.SetReturns("one") },
			reason: core.ReasonReturnSignature,
		},
		{
			name:   "return value that overflows",
			apply:  func(s *core.MethodCallSetup) error { return s.SetReturns(1.5) },
			reason: core.ReasonReturnSignature,
		},
		{
			name:   "returns function of the wrong shape",
			apply:  func(s *core.MethodCallSetup) error { return s.SetReturnsFunc(func() string { return "" }) },
			reason: core.ReasonReturnSignature,
		},
		{
			name:   "throws nil",
			apply:  func(s *core.MethodCallSetup) error { return s.SetThrows(nil) },
			reason: core.ReasonNilArgument,
		},
		{
			name:   "throws function without a result",
			apply:  func(s *core.MethodCallSetup) error { return s.SetThrowsFunc(func() {}) },
			reason: core.ReasonReturnSignature,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.apply(setup(t, newMock[Calculator](t), on[Calculator](addAny)))
			if got := reasonOf(err); got != tt.reason {
				t.Errorf("reason = %q (%v), want %q", got, err, tt.reason)
			}
		})
	}
}

func TestMethodCallSetup_RejectsSecondPolicy(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	created := setup(t, newMock[Calculator](t), on[Calculator](addAny))
	g.Expect(created.SetReturns(1)).To(Succeed())

	g.Expect(reasonOf(created.SetReturns(2))).To(Equal(core.ReasonDuplicateReturn))
	g.Expect(reasonOf(created.SetThrows(errDivideByZero))).To(Equal(core.ReasonDuplicateReturn))
	g.Expect(reasonOf(created.SetNoOp())).To(Equal(core.ReasonDuplicateReturn))

	_, err := created.SetSequence()
	g.Expect(reasonOf(err)).To(Equal(core.ReasonDuplicateReturn))

	g.Expect(created.SetCallback(func() {})).To(Succeed())
	g.Expect(reasonOf(created.SetCallback(func() {}))).To(Equal(core.ReasonDuplicateCallback))
}

func TestMethodCallSetup_ReturnsConvertsLiterals(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := newMock[Store](t)

	g.Expect(setup(t, mock, on[Store](func(x *expr.Parameter) expr.Node {
		return x.Call("Get", "missing")
	})).SetReturns("", nil)).To(Succeed())

	value, err := mock.Object().(Store).Get("missing")
	g.Expect(value).To(BeEmpty())
	g.Expect(err).NotTo(HaveOccurred())
}

func TestMethodCallSetup_Sequence(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := newMock[Calculator](t, core.WithBehavior(core.Strict))
	calc := mock.Object().(Calculator)

	seq, err := setup(t, mock, on[Calculator](func(x *expr.Parameter) expr.Node {
		return x.Call("Divide", match.Any[int](), match.Any[int]())
	})).SetSequence()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(seq.Returns(1, nil)).To(Succeed())
	g.Expect(seq.Throws(errDivideByZero)).To(Succeed())
	g.Expect(seq.ReturnsFunc(func(a, b int) (int, error) { return a * b, nil })).To(Succeed())
	g.Expect(seq.Pass()).To(Succeed())

	g.Expect(calc.Divide(6, 3)).To(Equal(1))

	_, err = calc.Divide(6, 3)
	g.Expect(err).To(MatchError(errDivideByZero))

	g.Expect(calc.Divide(6, 3)).To(Equal(18))
	g.Expect(calc.Divide(6, 3)).To(Equal(0))

	// exhausted: a strict mock requires a value
	g.Expect(panicReason(func() { _, _ = calc.Divide(6, 3) })).To(Equal(core.ReasonReturnValueRequired))
}

func TestMethodCallSetup_SequenceOfVoidCallsEndsSilently(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := newMock[Calculator](t, core.WithBehavior(core.Strict))
	calc := mock.Object().(Calculator)

	seq, err := setup(t, mock, on[Calculator](func(x *expr.Parameter) expr.Node {
		return x.Call("Reset")
	})).SetSequence()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(seq.Pass()).To(Succeed())
	g.Expect(seq.Throws("reset twice")).To(Succeed())

	g.Expect(calc.Reset).NotTo(Panic())
	g.Expect(calc.Reset).To(PanicWith("reset twice"))
	g.Expect(calc.Reset).NotTo(Panic())
}

func TestMethodCallSetup_Sequence_Property(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		values := rapid.SliceOfN(rapid.IntRange(-100, 100), 0, 10).Draw(rt, "values")
		extra := rapid.IntRange(0, 3).Draw(rt, "extra")

		mock := newMock[Calculator](t)
		calc := mock.Object().(Calculator)

		created, err := mock.Setup(on[Calculator](addAny), nil)
		if err != nil {
			rt.Fatalf("setup: %v", err)
		}

		seq, err := created.SetSequence()
		if err != nil {
			rt.Fatalf("sequence: %v", err)
		}

		for _, value := range values {
			_ = seq.Returns(value)
		}

		for i, value := range values {
			if got := calc.Add(0, 0); got != value {
				rt.Fatalf("call %d returned %d, want %d", i, got, value)
			}
		}

		for range extra {
			if got := calc.Add(0, 0); got != 0 {
				rt.Fatalf("exhausted sequence returned %d, want the default", got)
			}
		}
	})
}

func TestMethodCallSetup_StrictWithoutResult(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := newMock[Calculator](t, core.WithBehavior(core.Strict))
	calc := mock.Object().(Calculator)

	created := setup(t, mock, on[Calculator](addAny))
	g.Expect(created.SetCallback(func() {})).To(Succeed())

	g.Expect(panicReason(func() { calc.Add(1, 2) })).To(Equal(core.ReasonReturnValueRequired))

	g.Expect(setup(t, mock, on[Calculator](func(x *expr.Parameter) expr.Node {
		return x.Call("Reset")
	})).SetCallback(func() {})).To(Succeed())
	g.Expect(calc.Reset).NotTo(Panic())
}

func TestMethodCallSetup_ThrowsFunc(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := newMock[Calculator](t)
	calc := mock.Object().(Calculator)

	g.Expect(setup(t, mock, on[Calculator](func(x *expr.Parameter) expr.Node {
		return x.Call("Divide", match.Any[int](), match.Any[int]())
	})).SetThrowsFunc(func(_, b int) error {
		if b == 0 {
			return errDivideByZero
		}

		return nil
	})).To(Succeed())

	_, err := calc.Divide(1, 0)
	g.Expect(err).To(MatchError(errDivideByZero))

	quotient, err := calc.Divide(1, 1)
	g.Expect(quotient).To(Equal(0))
	g.Expect(err).NotTo(HaveOccurred())
}

func TestMethodCallSetup_ThrowsNonErrorPanics(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := newMock[Calculator](t)

	g.Expect(setup(t, mock, on[Calculator](addAny)).SetThrows("overflow")).To(Succeed())
	g.Expect(func() { mock.Object().(Calculator).Add(1, 2) }).To(PanicWith("overflow"))
}

func TestMethodCallSetup_UserPanicsPropagate(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := newMock[Calculator](t)

	g.Expect(setup(t, mock, on[Calculator](addAny)).SetReturnsFunc(func() int {
		panic(strings.Repeat("!", 3))
	})).To(Succeed())
	g.Expect(func() { mock.Object().(Calculator).Add(1, 2) }).To(PanicWith("!!!"))
}
