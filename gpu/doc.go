// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpu runs shade draw calls on a wgpu HAL device.
//
// The package ships the two shader pairs as WGSL and GLSL 450 source and
// builds everything a host needs around them: shader modules, bind group
// layouts derived from shade.LayoutFor, render pipelines, uniform buffers
// and bind groups. It does not own the device, the surface or the render
// pass; the host opens those and records draws with Record.
//
// Hosts built on gpucontext hand their device over with FromProvider:
//
//	host, err := gpu.FromProvider(provider)
//	if err != nil {
//		return err
//	}
//	pipe, err := host.NewPipeline(shade.VariantLightmapped)
//
// # Resource lifetime
//
// Resources are grouped by update frequency, matching the bind groups:
//
//	FrameResources   group 0 (lightmapped) global transform, once per frame
//	DrawResources    group 1 (lightmapped) blend mode, one per draw call
//	ObjectResources  group 2 (lightmapped) model transform, sampler, lightmap
//	                 group 0 (textured) transform, sampler, texture
//	TextureBinding   group 3 (lightmapped) primary texture
//
// Every type has a Destroy method that is safe to call more than once.
//
// # Logging
//
// Diagnostics go through shade.Logger().
package gpu
