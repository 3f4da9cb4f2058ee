// Package basic demonstrates the core setup features of impmock: fixed and computed results,
// void methods, variadic arguments, and the latest setup winning.
package basic

// BasicOps is the dependency the examples mock.
type BasicOps interface {
	// Add demonstrates a simple method with parameters and a single return value.
	Add(a, b int) int

	// GetString demonstrates a method with no parameters.
	GetString() string

	// Log demonstrates a void method (no return values).
	Log(message string)

	// Notify demonstrates variadic arguments.
	Notify(message string, ids ...int) bool

	// Store demonstrates a method with multiple return values (common for error handling).
	Store(key string, value any) (int, error)
}

// PerformOps is a helper that uses the BasicOps interface.
func PerformOps(ops BasicOps) (int, bool) {
	const (
		val1 = 1
		val2 = 2
		val3 = 3
	)

	sum := ops.Add(val1, val2)
	ops.Log("action performed " + ops.GetString())

	return sum, ops.Notify("alert", val1, val2, val3)
}
