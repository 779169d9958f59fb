package gfxtest

import "github.com/gogpu/gfxtest/shader"

// Reporter receives test results. *testing.T and *testing.B satisfy it.
//
// Fatalf and Skipf stop the calling test when the reporter is a
// *testing.T. Other implementations may return; harness functions then
// return zero values after calling them.
type Reporter interface {
	Helper()
	Logf(format string, args ...any)
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
	Skipf(format string, args ...any)
}

// cleanupRegistrar is implemented by *testing.T and *testing.B.
type cleanupRegistrar interface {
	Cleanup(func())
}

// diagnoseIfNeeded logs compiler diagnostics when there are any.
func diagnoseIfNeeded(r Reporter, diag *shader.Diagnostics) {
	if diag.Len() == 0 {
		return
	}
	r.Helper()
	r.Logf("%s", diag.String())
}
