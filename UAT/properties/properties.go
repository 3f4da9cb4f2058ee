// Package properties shows getter and setter pairs treated as properties: stubbed values that
// remember writes, setups on reads and writes, and delayed calls.
package properties

import (
	"fmt"
	"time"
)

// MinRetries is the fewest retries Tune leaves configured.
const MinRetries = 3

// Settings is a live configuration. Timeout/SetTimeout and Retries/SetRetries are properties.
type Settings interface {
	Reload() error
	Retries() int
	SetRetries(retries int)
	SetTimeout(timeout time.Duration)
	Timeout() time.Duration
}

// Tune raises retries to MinRetries, doubles the timeout, and reloads.
func Tune(settings Settings) error {
	if settings.Retries() < MinRetries {
		settings.SetRetries(MinRetries)
	}

	settings.SetTimeout(settings.Timeout() * 2) //nolint:mnd // doubling

	err := settings.Reload()
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}

	return nil
}
