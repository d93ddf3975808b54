// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shade"
)

var (
	// ErrNilProvider is returned by FromProvider when given no provider.
	ErrNilProvider = errors.New("gpu: nil device provider")

	// ErrNoHAL is returned when a provider does not expose HAL types.
	ErrNoHAL = errors.New("gpu: provider does not expose hal.Device and hal.Queue")
)

// halProvider is implemented by hosts that share their HAL device.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// HostDevice is a device and queue owned by a host application. The
// host destroys them; resources created from a HostDevice must be
// destroyed before the host shuts down.
type HostDevice struct {
	Device hal.Device
	Queue  hal.Queue

	// Format is the host's surface format, or TextureFormatUndefined.
	Format gputypes.TextureFormat
}

// FromProvider extracts the HAL device and queue from a host provider.
// The provider must implement HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue.
func FromProvider(provider gpucontext.DeviceProvider) (HostDevice, error) {
	if provider == nil {
		return HostDevice{}, ErrNilProvider
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return HostDevice{}, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return HostDevice{}, ErrNoHAL
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return HostDevice{}, ErrNoHAL
	}
	return HostDevice{Device: device, Queue: queue, Format: provider.SurfaceFormat()}, nil
}

// PipelineOptions returns the options that make a pipeline render into
// the host's surface, followed by opts.
func (h HostDevice) PipelineOptions(opts ...PipelineOption) []PipelineOption {
	if h.Format == gputypes.TextureFormatUndefined {
		return opts
	}
	return append([]PipelineOption{WithColorFormat(h.Format)}, opts...)
}

// NewPipeline creates a pipeline for v on the host device.
func (h HostDevice) NewPipeline(v shade.Variant, opts ...PipelineOption) (*Pipeline, error) {
	return NewPipeline(h.Device, v, h.PipelineOptions(opts...)...)
}
