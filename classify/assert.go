//go:build !brickplandebug

package classify

// debugAssertions controls whether global invariant violations panic.
// Production builds log and continue; build with -tags brickplandebug to
// fail loudly instead.
const debugAssertions = false
