//go:build !renderdoc || !linux

package capture

// Init reports whether frame capture is available. Without the renderdoc
// build tag it never is.
func Init() bool { return false }

// Available reports whether frame capture is available.
func Available() bool { return false }

// Begin starts a frame capture. It is a no-op in this build.
func Begin() {}

// End finishes a frame capture. It is a no-op in this build.
func End() {}
