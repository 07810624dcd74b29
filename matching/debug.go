//go:build selectors_debug

package matching

const debugAssertions = true
