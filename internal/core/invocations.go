package core

import (
	"strings"
	"sync"
)

// InvocationCollection is the log of calls made on a mock, in call order.
type InvocationCollection struct {
	mu          sync.Mutex
	invocations []*Invocation
}

// Add appends inv.
func (c *InvocationCollection) Add(inv *Invocation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.invocations = append(c.invocations, inv)
}

// All returns a snapshot of the log.
func (c *InvocationCollection) All() []*Invocation {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]*Invocation(nil), c.invocations...)
}

// Clear empties the log.
func (c *InvocationCollection) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.invocations = nil
}

// Len returns the number of logged calls.
func (c *InvocationCollection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.invocations)
}

// String lists the logged calls one per line, or "No invocations performed.".
func (c *InvocationCollection) String() string {
	return formatInvocations(c.All())
}

func formatInvocations(invocations []*Invocation) string {
	if len(invocations) == 0 {
		return "No invocations performed."
	}

	lines := make([]string, len(invocations))
	for i, inv := range invocations {
		lines[i] = "  " + inv.String()
	}

	return strings.Join(lines, "\n")
}
