package gfxtest

import "github.com/gogpu/gfxtest/capture"

// InitializeRenderDoc loads the RenderDoc in-application API when the
// library is present in the process. It reports whether frame capture is
// available. Builds without the renderdoc tag always report false.
func InitializeRenderDoc() bool {
	ok := capture.Init()
	Logger().Debug("gfxtest: renderdoc", "available", ok)
	return ok
}

// RenderDocBeginFrame starts a frame capture. It does nothing when
// RenderDoc is not available.
func RenderDocBeginFrame() { capture.Begin() }

// RenderDocEndFrame ends the frame capture started by RenderDocBeginFrame.
func RenderDocEndFrame() { capture.End() }
