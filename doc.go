// Package shade provides a lightmapped forward shading stage.
//
// # Overview
//
// shade is the programmable part of a minimal forward renderer. A host
// renderer owns the window, device and assets; shade owns what happens to
// one vertex and one fragment:
//
//   - the vertex stage, clip = Global · Local · (x, y, z, 1)
//   - the fragment stage, which composites a primary texture sample with a
//     baked lightmap sample under a BlendMode
//
// Two shader variants exist. The textured variant samples one texture
// through one combined transform. The lightmapped variant keeps the
// per-frame and per-object transforms apart and blends a lightmap in.
//
// # Quick Start
//
//	call := shade.DrawCall{
//		Variant: shade.VariantLightmapped,
//		Frame:   shade.FrameParams{Global: camera.GlobalTransform()},
//		Draw:    shade.DrawParams{BlendMode: shade.BlendMultiply},
//		Object: shade.ObjectParams{
//			Local:    shade.IdentityLocal(),
//			Texture:  albedo,
//			Lightmap: lightmap,
//		},
//		Mesh: mesh,
//	}
//	s, err := call.Shader()
//
// The Shader runs on the CPU through package raster, and package gpu
// builds the equivalent WebGPU pipeline from the embedded WGSL sources.
//
// # Blend Modes
//
//	BlendRaw       primary sample unchanged
//	BlendReplace   lightmap rgb, primary alpha
//	BlendMultiply  primary rgb × lightmap rgb, primary alpha
//
// Any other selector value behaves as BlendRaw. A primary alpha of exactly
// zero discards the fragment in every mode.
//
// # Bindings
//
// Group and slot numbers are owned by BindingLayout. Hosts look bindings
// up by Resource instead of hard-coding slot numbers.
//
// # Textures
//
// LoadTexture decodes PNG, JPEG, GIF, BMP, TIFF and WebP files. Hosts that
// reload scenes keep decoded files in a TextureCache, which decodes a file
// again only after it changes on disk.
//
// # Coordinate System
//
// Clip space follows WebGPU: x and y in [-1, 1] with +y up, depth in
// [0, 1]. Camera builds right-handed view and projection matrices.
// Matrices are mgl32.Mat4, column-major.
package shade
