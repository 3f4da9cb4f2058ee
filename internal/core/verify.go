package core

import (
	"fmt"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/toejough/impmock/expr"
)

// Times bounds how often a verified call may have happened. The zero Times accepts any count.
type Times struct {
	low  ldvalue.OptionalInt
	high ldvalue.OptionalInt
	text string
}

// AtLeast accepts n or more calls.
func AtLeast(n int) Times {
	return Times{low: ldvalue.NewOptionalInt(n), text: fmt.Sprintf("at least %d times", n)}
}

// AtLeastOnce accepts one or more calls.
func AtLeastOnce() Times {
	return Times{low: ldvalue.NewOptionalInt(1), text: "at least once"}
}

// AtMost accepts at most n calls.
func AtMost(n int) Times {
	return Times{high: ldvalue.NewOptionalInt(n), text: fmt.Sprintf("at most %d times", n)}
}

// Between accepts lo to hi calls, inclusive.
func Between(lo, hi int) Times {
	return Times{
		low:  ldvalue.NewOptionalInt(lo),
		high: ldvalue.NewOptionalInt(hi),
		text: fmt.Sprintf("between %d and %d times", lo, hi),
	}
}

// Exactly accepts exactly n calls.
func Exactly(n int) Times {
	return Times{low: ldvalue.NewOptionalInt(n), high: ldvalue.NewOptionalInt(n), text: fmt.Sprintf("exactly %d times", n)}
}

// Never accepts no calls.
func Never() Times {
	return Times{high: ldvalue.NewOptionalInt(0), text: "never"}
}

// Once accepts exactly one call.
func Once() Times {
	return Times{low: ldvalue.NewOptionalInt(1), high: ldvalue.NewOptionalInt(1), text: "exactly once"}
}

// String describes the accepted counts, such as "at least once".
func (t Times) String() string {
	if t.text == "" {
		return "any number of times"
	}

	return t.text
}

// Validate reports whether count calls satisfy t.
func (t Times) Validate(count int) bool {
	if t.low.IsDefined() && count < t.low.IntValue() {
		return false
	}

	return !t.high.IsDefined() || count <= t.high.IntValue()
}

// Verify checks that the member access lambda describes happened times times, and marks the
// counted calls verified. Chains are followed through the inner mocks earlier setups created.
func (m *Mock) Verify(lambda *expr.Lambda, times Times) error {
	stack, err := Split(lambda)
	if err != nil {
		return err
	}

	if err := m.checkRoot(lambda); err != nil {
		return err
	}

	target := m

	for stack.Len() > 1 {
		if target = target.existingNested(stack.Pop()); target == nil {
			break
		}
	}

	var (
		matching  []*Invocation
		performed []*Invocation
	)

	if target != nil {
		expectation := stack.Pop()
		performed = target.Invocations()

		for _, inv := range performed {
			if expectation.Matches(inv) {
				matching = append(matching, inv)
			}
		}
	}

	if !times.Validate(len(matching)) {
		return expectationFailed(ReasonVerificationFailed, lambda.String(),
			"expected invocation on the mock %s, but was %d times\n\nPerformed invocations:\n%s",
			times, len(matching), formatInvocations(performed))
	}

	for _, inv := range matching {
		inv.MarkVerified()
	}

	m.loggers.Debugf("%s: verified %s (%d calls)", m.name, lambda, len(matching))

	return nil
}

// VerifyAll checks that every active setup, including those on inner mocks, matched a call.
// Property stubs are not checked.
func (m *Mock) VerifyAll() error {
	return m.verifySetups(func(Setup) bool { return true })
}

// VerifyNoOtherCalls checks that every call was verified or handled by a verifiable setup.
func (m *Mock) VerifyNoOtherCalls() error {
	var unverified []string

	m.collectUnverified(&unverified)

	if len(unverified) == 0 {
		return nil
	}

	return expectationFailed(ReasonVerificationFailed, m.name,
		"the following invocations were not verified:\n%s", strings.Join(unverified, "\n"))
}

// VerifyVerifiable checks that every active setup marked verifiable matched a call.
func (m *Mock) VerifyVerifiable() error {
	return m.verifySetups(Setup.IsVerifiable)
}

func (m *Mock) collectUnmatched(include func(Setup) bool, unmatched *[]string) {
	for _, setup := range m.setups.FindAll(func(Setup) bool { return true }) {
		switch typed := setup.(type) {
		case *NestedSetup:
			typed.inner.collectUnmatched(include, unmatched)

			continue
		case *PropertyStubSetup, *AllPropertiesStubSetup:
			continue
		}

		if !include(setup) {
			continue
		}

		if !setup.IsMatched() {
			*unmatched = append(*unmatched, "  "+m.name+": "+setup.String())

			continue
		}

		for _, inv := range m.invocations.All() {
			if inv.MatchedSetup() == setup {
				inv.MarkVerified()
			}
		}
	}
}

func (m *Mock) collectUnverified(unverified *[]string) {
	for _, inv := range m.invocations.All() {
		matched := inv.MatchedSetup()

		switch {
		case inv.IsVerified():
		case matched == nil && isStringMethod(inv.Method()):
		case matched != nil && matched.IsVerifiable():
		default:
			if _, plumbing := matched.(*NestedSetup); !plumbing {
				*unverified = append(*unverified, "  "+m.name+": "+inv.String())
			}
		}
	}

	for _, setup := range m.setups.All() {
		if nested, ok := setup.(*NestedSetup); ok {
			nested.inner.collectUnverified(unverified)
		}
	}
}

// existingNested returns the inner mock an active chained setup created for expectation, or nil.
func (m *Mock) existingNested(expectation *MethodExpectation) *Mock {
	found := m.setups.FindAll(func(setup Setup) bool {
		_, ok := setup.(*NestedSetup)

		return ok && setup.Expectation().Equal(expectation)
	})

	if len(found) == 0 {
		return nil
	}

	nested, _ := found[len(found)-1].(*NestedSetup)

	return nested.inner
}

func (m *Mock) verifySetups(include func(Setup) bool) error {
	var unmatched []string

	m.collectUnmatched(include, &unmatched)

	if len(unmatched) == 0 {
		return nil
	}

	return expectationFailed(ReasonVerificationFailed, m.name,
		"the following setups were not matched:\n%s\n\nPerformed invocations:\n%s",
		strings.Join(unmatched, "\n"), m.invocations.String())
}
