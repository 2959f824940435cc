// Package ncnn provides the GPU compute-pipeline layer of a neural
// network inference engine: shader variant selection, pipeline
// construction with rollback, and a deduplicating pipeline cache.
//
// # Overview
//
// Running a network on the GPU means dispatching many small compute
// shaders, most of them identical across layers. Building a pipeline is
// expensive (bytecode resolution, layout creation, driver compilation),
// so the package centers on [PipelineCache]: a store that fingerprints
// each request and hands back the previously built pipeline whenever an
// identical configuration comes around again.
//
// # Quick Start
//
//	import (
//		"github.com/renber2019/ncnn"
//		ncnnwgpu "github.com/renber2019/ncnn/backend/wgpu"
//	)
//
//	dev, _ := ncnnwgpu.New(halDevice, ncnn.Capabilities{FP16Storage: true})
//	resolver := ncnn.NewCompileResolver(shaderSources)
//	cache, _ := ncnn.NewPipelineCache(dev, resolver)
//
//	opt := ncnn.Option{UseFP16Storage: true, UseFP16Arithmetic: true}
//	art, err := cache.GetOrCreatePipeline(convolutionShader, opt,
//		[]ncnn.SpecValue{ncnn.SpecInt(3), ncnn.SpecInt(1)}, [3]uint32{8, 8, 1})
//	if err != nil {
//		// failed builds leave the cache untouched
//	}
//	_ = art.Pipeline // dispatch with the cached pipeline
//
//	cache.Clear() // before tearing down the device
//
// # Shader Variants
//
// Every logical shader ships as a ladder of precision variants (fp32
// baseline, packed fp16, fp16 storage, fp16 arithmetic, and image-backed
// versions of each). [VariantIndex] resolves a logical index plus
// [Option] flags and hardware [Capabilities] to the concrete variant;
// each logical shader owns [VariantsPerShader] consecutive slots in the
// resolver's table.
//
// # Architecture
//
// The package is organized into:
//   - Facade: PipelineCache with cached and uncached entry points
//   - Fingerprint: fixed-size digest over index, options, workgroup
//     shape and dual-hashed specialization data
//   - Resolvers: StaticResolver (prebundled bytecode), CompileResolver
//     (WGSL compiled on first use)
//   - Device: narrow GPU interface; backend/wgpu adapts gogpu/wgpu
//
// # Thread Safety
//
// PipelineCache is safe for concurrent use. Lookups take a shared lock;
// builds take the exclusive lock, so concurrent identical misses
// converge on a single build. Clear assumes no returned pipeline is
// still referenced by in-flight work.
package ncnn
