// Package core provides the internal implementation of impmock: invocations, the call-chain
// splitter, argument matchers, setups and their behaviors, the per-mock setup registry, and the
// mock itself.
package core

import (
	"errors"
	"fmt"
)

// Exported variables.
var (
	ErrExpectationFailed     = errors.New("mock expectation failed")
	ErrUnsupportedExpression = errors.New("unsupported expression")
	ErrUsage                 = errors.New("invalid mock usage")
)

// Error is the error every framework failure panics or returns with. It unwraps to ErrUsage,
// ErrUnsupportedExpression or ErrExpectationFailed according to Kind.
type Error struct {
	Kind    ErrorKind
	Reason  Reason
	Expr    string
	Message string
}

// Error renders "impmock: <message>: <expression>".
func (e *Error) Error() string {
	if e.Expr == "" {
		return "impmock: " + e.Message
	}

	return fmt.Sprintf("impmock: %s: %s", e.Message, e.Expr)
}

// Unwrap returns the sentinel for the error's kind.
func (e *Error) Unwrap() error {
	switch e.Kind {
	case KindUnsupportedExpression:
		return ErrUnsupportedExpression
	case KindExpectationFailed:
		return ErrExpectationFailed
	default:
		return ErrUsage
	}
}

// ErrorKind classifies framework errors.
type ErrorKind int

// ErrorKind values.
const (
	KindUsage ErrorKind = iota
	KindUnsupportedExpression
	KindExpectationFailed
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindUnsupportedExpression:
		return "unsupported-expression"
	case KindExpectationFailed:
		return "expectation-failed"
	default:
		return "usage"
	}
}

// Reason tags the specific cause of an Error.
type Reason string

// Reason values.
const (
	ReasonBuildError            Reason = "build-error"
	ReasonCallbackSignature     Reason = "callback-signature"
	ReasonDuplicateCallback     Reason = "duplicate-callback"
	ReasonDuplicateReturn       Reason = "duplicate-return"
	ReasonExecutionLimit        Reason = "execution-limit-exceeded"
	ReasonExtraInterface        Reason = "extra-interface"
	ReasonInvalidArgument       Reason = "invalid-argument"
	ReasonNilArgument           Reason = "nil-argument"
	ReasonNoSetup               Reason = "no-setup"
	ReasonNoTarget              Reason = "no-target"
	ReasonNonOverridable        Reason = "non-overridable-member"
	ReasonOutcomeAlreadySet     Reason = "outcome-already-set"
	ReasonReturnSignature       Reason = "return-signature"
	ReasonReturnValueRequired   Reason = "return-value-required"
	ReasonUnmatchableArgument   Reason = "unmatchable-argument"
	ReasonUnmatchableMatcher    Reason = "unmatchable-matcher"
	ReasonUnmockableType        Reason = "unmockable-type"
	ReasonUnsplittable          Reason = "unsplittable-expression"
	ReasonVerificationFailed    Reason = "verification-failed"
	ReasonWrongLambdaParameters Reason = "wrong-lambda-parameters"
)

func expectationFailed(reason Reason, expr string, format string, args ...any) *Error {
	return &Error{Kind: KindExpectationFailed, Reason: reason, Expr: expr, Message: fmt.Sprintf(format, args...)}
}

func unsupported(reason Reason, expr string, format string, args ...any) *Error {
	return &Error{
		Kind:    KindUnsupportedExpression,
		Reason:  reason,
		Expr:    expr,
		Message: fmt.Sprintf(format, args...),
	}
}

func usage(reason Reason, expr string, format string, args ...any) *Error {
	return &Error{Kind: KindUsage, Reason: reason, Expr: expr, Message: fmt.Sprintf(format, args...)}
}
