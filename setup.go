package impmock

import (
	"time"

	"github.com/toejough/impmock/internal/core"
)

// Setup configures the response to the calls one Mock.Setup described. Every method returns the
// setup so calls chain:
//
//	m.Setup(build).Callback(record).Returns(1).Verifiable()
type Setup struct {
	t     TestReporter
	setup *core.MethodCallSetup
}

// Callback runs fn on each matching call, before the result when added before Returns or Throws
// and after it otherwise. fn takes no arguments or the method's arguments.
func (s *Setup) Callback(fn any) *Setup {
	s.t.Helper()

	return s.check(func() error { return s.setup.SetCallback(fn) })
}

// CallsThrough forwards matching calls to the mock's target.
func (s *Setup) CallsThrough() *Setup {
	s.t.Helper()

	return s.check(s.setup.SetProceed)
}

// Delay makes matching calls wait d before answering.
func (s *Setup) Delay(d time.Duration) *Setup {
	s.t.Helper()

	return s.check(func() error { return s.setup.SetDelay(d) })
}

// DoesNothing answers matching calls with default results.
func (s *Setup) DoesNothing() *Setup {
	s.t.Helper()

	return s.check(s.setup.SetNoOp)
}

// Limit fails matching calls after the first n.
func (s *Setup) Limit(n int) *Setup {
	s.t.Helper()

	return s.check(func() error { return s.setup.SetLimit(n) })
}

// Returns answers matching calls with values, one per result.
func (s *Setup) Returns(values ...any) *Setup {
	s.t.Helper()

	return s.check(func() error { return s.setup.SetReturns(values...) })
}

// ReturnsFunc answers matching calls with fn's results.
func (s *Setup) ReturnsFunc(fn any) *Setup {
	s.t.Helper()

	return s.check(func() error { return s.setup.SetReturnsFunc(fn) })
}

// Sequence answers successive matching calls with successive steps.
func (s *Setup) Sequence() *Sequence {
	s.t.Helper()

	if s.setup == nil {
		return &Sequence{t: s.t}
	}

	seq, err := s.setup.SetSequence()
	if err != nil {
		s.t.Fatalf("%v", err)
	}

	return &Sequence{t: s.t, seq: seq}
}

// Throws makes matching calls fail with value: returned as the error result when the method has
// one and value is an error, panicked otherwise.
func (s *Setup) Throws(value any) *Setup {
	s.t.Helper()

	return s.check(func() error { return s.setup.SetThrows(value) })
}

// ThrowsFunc makes matching calls fail with fn's result, or succeed when it is nil.
func (s *Setup) ThrowsFunc(fn any) *Setup {
	s.t.Helper()

	return s.check(func() error { return s.setup.SetThrowsFunc(fn) })
}

// Verifiable marks the setup for VerifyVerifiable.
func (s *Setup) Verifiable() *Setup {
	if s.setup != nil {
		s.setup.MarkVerifiable()
	}

	return s
}

func (s *Setup) check(apply func() error) *Setup {
	s.t.Helper()

	if s.setup == nil {
		return s
	}

	if err := apply(); err != nil {
		s.t.Fatalf("%v", err)
	}

	return s
}

// Sequence appends single-use steps to a setup.
type Sequence struct {
	t   TestReporter
	seq *core.SequenceSetup
}

// CallsThrough appends a step forwarding to the mock's target.
func (q *Sequence) CallsThrough() *Sequence {
	q.t.Helper()

	return q.check(q.seq.CallsThrough)
}

// Pass appends a step answering with default results.
func (q *Sequence) Pass() *Sequence {
	q.t.Helper()

	return q.check(q.seq.Pass)
}

// Returns appends a step answering with values.
func (q *Sequence) Returns(values ...any) *Sequence {
	q.t.Helper()

	return q.check(func() error { return q.seq.Returns(values...) })
}

// ReturnsFunc appends a step answering with fn's results.
func (q *Sequence) ReturnsFunc(fn any) *Sequence {
	q.t.Helper()

	return q.check(func() error { return q.seq.ReturnsFunc(fn) })
}

// Throws appends a step failing with value.
func (q *Sequence) Throws(value any) *Sequence {
	q.t.Helper()

	return q.check(func() error { return q.seq.Throws(value) })
}

// ThrowsFunc appends a step failing with fn's result.
func (q *Sequence) ThrowsFunc(fn any) *Sequence {
	q.t.Helper()

	return q.check(func() error { return q.seq.ThrowsFunc(fn) })
}

func (q *Sequence) check(apply func() error) *Sequence {
	q.t.Helper()

	if q.seq == nil {
		return q
	}

	if err := apply(); err != nil {
		q.t.Fatalf("%v", err)
	}

	return q
}
