package core

import (
	"sync"
)

// SetupCollection is the ordered history of a mock's setups. Setups are never removed, only
// overridden: adding a setup whose expectation equals an earlier one's shadows the earlier one.
type SetupCollection struct {
	mu     sync.Mutex
	setups []Setup
}

// Add appends setup and marks every earlier unconditional setup with an equal expectation
// overridden. Conditional setups neither override nor get overridden. It returns the number of
// setups it overrode.
func (c *SetupCollection) Add(setup Setup) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	overridden := 0

	if !setup.IsConditional() {
		for _, existing := range c.setups {
			if existing.IsConditional() || existing.IsOverridden() {
				continue
			}

			if existing.Expectation().Equal(setup.Expectation()) {
				existing.markOverridden()

				overridden++
			}
		}
	}

	c.setups = append(c.setups, setup)

	return overridden
}

// All returns every setup, oldest first, including overridden ones.
func (c *SetupCollection) All() []Setup {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]Setup(nil), c.setups...)
}

// Clear forgets every setup.
func (c *SetupCollection) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setups = nil
}

// FindAll returns the active setups satisfying pred, oldest first.
func (c *SetupCollection) FindAll(pred func(Setup) bool) []Setup {
	var found []Setup

	for _, setup := range c.All() {
		if !setup.IsOverridden() && pred(setup) {
			found = append(found, setup)
		}
	}

	return found
}

// FindLast returns the newest active setup matching inv and marks it matched, or returns nil.
// Conditions run outside the collection's lock, so they may use the mock.
func (c *SetupCollection) FindLast(inv *Invocation) Setup {
	setups := c.All()

	for i := len(setups) - 1; i >= 0; i-- {
		setup := setups[i]
		if setup.IsOverridden() || !setup.Matches(inv) {
			continue
		}

		setup.markMatched()

		return setup
	}

	return nil
}

// Len returns the number of setups, including overridden ones.
func (c *SetupCollection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.setups)
}
