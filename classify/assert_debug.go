//go:build brickplandebug

package classify

// debugAssertions controls whether global invariant violations panic.
const debugAssertions = true
