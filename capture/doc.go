// Package capture brackets GPU work with RenderDoc frame captures.
//
// Capture support is compiled in only with the renderdoc build tag on
// Linux:
//
//	go test -tags renderdoc ./...
//
// The tagged build looks up librenderdoc.so at first use and talks to the
// in-application API (version 1.1.2). When the library is not loaded, for
// example because the test binary was not launched from RenderDoc, every
// call is a no-op. Untagged builds always behave that way.
package capture
