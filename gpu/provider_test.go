// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/shade"
)

type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

type mockQueue struct{}

type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider without HAL access.
type mockProvider struct {
	format gputypes.TextureFormat
}

func (m *mockProvider) Device() gpucontext.Device             { return &mockDevice{} }
func (m *mockProvider) Queue() gpucontext.Queue               { return &mockQueue{} }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return &mockAdapter{} }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return m.format }
func (m *mockProvider) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{} }

// halMockProvider additionally exposes HAL objects.
type halMockProvider struct {
	mockProvider
	device any
	queue  any
}

func (m *halMockProvider) HalDevice() any { return m.device }
func (m *halMockProvider) HalQueue() any  { return m.queue }

var (
	_ gpucontext.DeviceProvider = (*mockProvider)(nil)
	_ gpucontext.DeviceProvider = (*halMockProvider)(nil)
)

func TestFromProvider(t *testing.T) {
	device, queue := createNoopDevice(t)
	p := &halMockProvider{
		mockProvider: mockProvider{format: gputypes.TextureFormatRGBA8Unorm},
		device:       device,
		queue:        queue,
	}

	host, err := FromProvider(p)
	if err != nil {
		t.Fatalf("FromProvider: %v", err)
	}
	if host.Device == nil || host.Queue == nil {
		t.Fatal("host device or queue is nil")
	}
	if host.Format != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format = %v, want RGBA8Unorm", host.Format)
	}

	pipe, err := host.NewPipeline(shade.VariantLightmapped)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	defer pipe.Destroy()
	if got := pipe.renderPipelineDescriptor("test").Fragment.Targets[0].Format; got != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("color format = %v, want host surface format", got)
	}
}

func TestFromProvider_Errors(t *testing.T) {
	device, _ := createNoopDevice(t)

	tests := []struct {
		name     string
		provider gpucontext.DeviceProvider
		want     error
	}{
		{"nil", nil, ErrNilProvider},
		{"no hal", &mockProvider{}, ErrNoHAL},
		{"wrong device", &halMockProvider{device: "device", queue: nil}, ErrNoHAL},
		{"missing queue", &halMockProvider{device: device}, ErrNoHAL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromProvider(tt.provider); !errors.Is(err, tt.want) {
				t.Errorf("FromProvider() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestHostDevice_PipelineOptions(t *testing.T) {
	if got := (HostDevice{}).PipelineOptions(WithSPIRV()); len(got) != 1 {
		t.Errorf("undefined format: %d options, want 1", len(got))
	}
	h := HostDevice{Format: gputypes.TextureFormatBGRA8Unorm}
	if got := h.PipelineOptions(WithSPIRV()); len(got) != 2 {
		t.Errorf("with format: %d options, want 2", len(got))
	}
}
