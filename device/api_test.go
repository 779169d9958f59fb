// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAPIString(t *testing.T) {
	tests := []struct {
		api  API
		want string
	}{
		{D3D11, "d3d11"},
		{D3D12, "d3d12"},
		{Vulkan, "vulkan"},
		{CPU, "cpu"},
		{CUDA, "cuda"},
		{OpenGL, "opengl"},
		{Metal, "metal"},
		{Null, "null"},
		{API(200), "API(200)"},
	}
	for _, tt := range tests {
		if got := tt.api.String(); got != tt.want {
			t.Errorf("API(%d).String() = %q, want %q", tt.api, got, tt.want)
		}
	}
}

func TestParseAPI(t *testing.T) {
	for _, api := range APIs() {
		got, err := ParseAPI(api.String())
		if err != nil {
			t.Errorf("ParseAPI(%q): %v", api, err)
			continue
		}
		if got != api {
			t.Errorf("ParseAPI(%q) = %v", api, got)
		}
	}

	aliases := map[string]API{"VK": Vulkan, "gl": OpenGL, "dx12": D3D12, "noop": Null}
	for in, want := range aliases {
		if got, err := ParseAPI(in); err != nil || got != want {
			t.Errorf("ParseAPI(%q) = %v, %v; want %v", in, got, err, want)
		}
	}

	if _, err := ParseAPI("glide"); !errors.Is(err, ErrUnsupportedAPI) {
		t.Errorf("ParseAPI(glide) err = %v, want ErrUnsupportedAPI", err)
	}
}

func TestAPIFlags(t *testing.T) {
	f := FlagsOf(Vulkan, Null)
	if !f.Has(Vulkan) || !f.Has(Null) {
		t.Errorf("%v should contain vulkan and null", f)
	}
	if f.Has(Metal) {
		t.Errorf("%v should not contain metal", f)
	}
	if diff := cmp.Diff([]API{Vulkan, Null}, f.APIs()); diff != "" {
		t.Errorf("APIs() mismatch (-want +got):\n%s", diff)
	}
	if f.String() != "vulkan,null" {
		t.Errorf("String() = %q", f.String())
	}
	if len(AllAPIs.APIs()) != len(APIs()) {
		t.Errorf("AllAPIs has %d members, want %d", len(AllAPIs.APIs()), len(APIs()))
	}
}

func TestParseAPIFlags(t *testing.T) {
	tests := []struct {
		in      string
		want    APIFlags
		wantErr bool
	}{
		{"", 0, false},
		{"vulkan", FlagsOf(Vulkan), false},
		{"vulkan, null", FlagsOf(Vulkan, Null), false},
		{"all", AllAPIs, false},
		{"*", AllAPIs, false},
		{"vulkan,bogus", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAPIFlags(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAPIFlags(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAPIFlags(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
