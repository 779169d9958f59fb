//go:build renderdoc && linux

package capture

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

const (
	libraryName = "librenderdoc.so"

	// apiVersion is eRENDERDOC_API_Version_1_1_2.
	apiVersion = 10102

	// Function table slots of RENDERDOC_API_1_1_2.
	slotStartFrameCapture = 19
	slotEndFrameCapture   = 21
	apiSlots              = 22
)

var (
	initOnce sync.Once
	api      *renderDocAPI
)

type renderDocAPI struct {
	startFrameCapture func(device, window uintptr)
	endFrameCapture   func(device, window uintptr) uint32
}

func load() {
	lib, err := purego.Dlopen(libraryName, purego.RTLD_GLOBAL|purego.RTLD_LAZY)
	if err != nil {
		slogger().Debug("capture: renderdoc not loaded", "err", err)
		return
	}

	var getAPI func(version int32, out *uintptr) int32
	purego.RegisterLibFunc(&getAPI, lib, "RENDERDOC_GetAPI")

	var table uintptr
	if getAPI(apiVersion, &table) != 1 || table == 0 {
		slogger().Warn("capture: RENDERDOC_GetAPI rejected version 1.1.2")
		return
	}
	slots := unsafe.Slice((*uintptr)(unsafe.Pointer(table)), apiSlots) //nolint:govet // table points to C memory owned by RenderDoc

	a := &renderDocAPI{}
	purego.RegisterFunc(&a.startFrameCapture, slots[slotStartFrameCapture])
	purego.RegisterFunc(&a.endFrameCapture, slots[slotEndFrameCapture])
	api = a
	slogger().Info("capture: renderdoc attached")
}

// Init loads the RenderDoc API once and reports whether it is available.
func Init() bool {
	initOnce.Do(load)
	return api != nil
}

// Available reports whether the RenderDoc API has been loaded.
func Available() bool { return Init() }

// Begin starts capturing the active device and window.
func Begin() {
	if Init() {
		api.startFrameCapture(0, 0)
	}
}

// End finishes the capture started by Begin.
func End() {
	if api != nil {
		api.endFrameCapture(0, 0)
	}
}
