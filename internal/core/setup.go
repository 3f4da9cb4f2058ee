package core

import (
	"sync/atomic"
)

// Condition gates a setup: the setup only applies while it returns true.
type Condition func() bool

// Setup is one configured response of a mock.
type Setup interface {
	// Condition returns the setup's gate, or nil.
	Condition() Condition
	Execute(inv *Invocation) error
	Expectation() Expectation
	IsConditional() bool
	IsMatched() bool
	IsOverridden() bool
	IsVerifiable() bool
	// Matches reports whether the setup applies to inv: the expectation matches and the condition,
	// if any, holds.
	Matches(inv *Invocation) bool
	MarkVerifiable()
	String() string

	markMatched()
	markOverridden()
}

type setupBase struct {
	expectation Expectation
	condition   Condition
	matched     atomic.Bool
	overridden  atomic.Bool
	verifiable  atomic.Bool
}

func (s *setupBase) Condition() Condition {
	return s.condition
}

func (s *setupBase) Expectation() Expectation {
	return s.expectation
}

func (s *setupBase) IsConditional() bool {
	return s.condition != nil
}

func (s *setupBase) IsMatched() bool {
	return s.matched.Load()
}

func (s *setupBase) IsOverridden() bool {
	return s.overridden.Load()
}

func (s *setupBase) IsVerifiable() bool {
	return s.verifiable.Load()
}

func (s *setupBase) MarkVerifiable() {
	s.verifiable.Store(true)
}

func (s *setupBase) Matches(inv *Invocation) bool {
	return s.expectation.Matches(inv) && (s.condition == nil || s.condition())
}

func (s *setupBase) String() string {
	return s.expectation.String()
}

func (s *setupBase) markMatched() {
	s.matched.Store(true)
}

func (s *setupBase) markOverridden() {
	s.overridden.Store(true)
}
