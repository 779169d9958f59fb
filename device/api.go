// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"fmt"
	"strings"
)

// API identifies a graphics backend API.
type API uint8

const (
	D3D11 API = iota
	D3D12
	Vulkan
	CPU
	CUDA
	OpenGL
	Metal
	Null

	apiCount
)

var apiNames = [apiCount]string{
	D3D11:  "d3d11",
	D3D12:  "d3d12",
	Vulkan: "vulkan",
	CPU:    "cpu",
	CUDA:   "cuda",
	OpenGL: "opengl",
	Metal:  "metal",
	Null:   "null",
}

// APIs returns every known API in declaration order.
func APIs() []API {
	out := make([]API, apiCount)
	for i := range out {
		out[i] = API(i)
	}
	return out
}

// String returns the lower-case API name.
func (a API) String() string {
	if a < apiCount {
		return apiNames[a]
	}
	return fmt.Sprintf("API(%d)", a)
}

// Valid reports whether a is a known API.
func (a API) Valid() bool { return a < apiCount }

// ParseAPI parses an API name. Matching is case-insensitive and accepts a
// few common aliases ("vk", "gl", "dx12").
func ParseAPI(s string) (API, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "vk":
		return Vulkan, nil
	case "gl", "gles":
		return OpenGL, nil
	case "dx11":
		return D3D11, nil
	case "dx12":
		return D3D12, nil
	case "noop":
		return Null, nil
	}
	for i, n := range apiNames {
		if n == name {
			return API(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedAPI, s)
}

// APIFlags is a set of APIs.
type APIFlags uint32

// AllAPIs enables every known API.
const AllAPIs = APIFlags(1<<apiCount - 1)

// Flag returns the single-API set containing a.
func (a API) Flag() APIFlags { return 1 << a }

// FlagsOf returns the set containing apis.
func FlagsOf(apis ...API) APIFlags {
	var f APIFlags
	for _, a := range apis {
		f |= a.Flag()
	}
	return f
}

// Has reports whether a is in the set.
func (f APIFlags) Has(a API) bool { return f&a.Flag() != 0 }

// APIs returns the members of the set in declaration order.
func (f APIFlags) APIs() []API {
	var out []API
	for a := API(0); a < apiCount; a++ {
		if f.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// String returns the set as a comma-separated list of API names.
func (f APIFlags) String() string {
	apis := f.APIs()
	names := make([]string, len(apis))
	for i, a := range apis {
		names[i] = a.String()
	}
	return strings.Join(names, ",")
}

// ParseAPIFlags parses a comma-separated API list. "all" and "*" select
// every API; an empty string selects none.
func ParseAPIFlags(s string) (APIFlags, error) {
	var f APIFlags
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		switch part {
		case "":
			continue
		case "all", "*":
			f |= AllAPIs
			continue
		}
		a, err := ParseAPI(part)
		if err != nil {
			return 0, err
		}
		f |= a.Flag()
	}
	return f, nil
}
