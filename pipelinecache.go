package ncnn

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// PipelineCache deduplicates compiled compute pipelines. Each request is
// fingerprinted over the logical shader index, the runtime options, the
// workgroup shape and the specialization buffer; an identical fingerprint
// returns the previously built artifact instead of building again.
//
// The cache owns every artifact it stores. It never evicts: entries live
// until [PipelineCache.Clear], which must run before the device is torn
// down. Failed builds are rolled back and leave the store untouched, so
// a failure never poisons later requests.
//
// All methods are safe for concurrent use.
type PipelineCache struct {
	mu sync.RWMutex

	device   Device
	resolver ShaderResolver

	// digests[i] fingerprints artifacts[i]. Append-only between Clears.
	// Matching is a linear scan: the number of distinct configurations
	// is bounded by the model's operator set, and an exact struct
	// compare per entry is cheaper than maintaining an index.
	digests   []digest
	artifacts []*Artifact

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewPipelineCache creates an empty cache bound to a device and a shader
// resolver.
func NewPipelineCache(device Device, resolver ShaderResolver) (*PipelineCache, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if resolver == nil {
		return nil, ErrNilResolver
	}
	return &PipelineCache{device: device, resolver: resolver}, nil
}

// GetOrCreatePipeline returns the cached pipeline for the request,
// building and storing it on first use.
//
// On a miss the logical shader index resolves to a concrete variant (see
// [VariantIndex]), the variant's bytecode becomes a shader module with
// the workgroup shape baked in, and the dependent resource chain is
// built. The fingerprint always keys on the logical index: two requests
// that differ only in options get distinct entries even when variant
// selection lands them on the same bytecode.
//
// The returned artifact is owned by the cache; use its handles, never
// destroy them.
func (c *PipelineCache) GetOrCreatePipeline(shaderIndex int, opt Option, specs []SpecValue, localSize [3]uint32) (*Artifact, error) {
	key := newDigest(shaderIndex, opt, specs, localSize)

	// Fast path: shared lock.
	c.mu.RLock()
	if a := c.lookup(key); a != nil {
		c.mu.RUnlock()
		c.hits.Add(1)
		return a, nil
	}
	c.mu.RUnlock()

	// Slow path: build under the exclusive lock so concurrent identical
	// misses converge on a single build.
	c.mu.Lock()
	defer c.mu.Unlock()

	if a := c.lookup(key); a != nil {
		c.hits.Add(1)
		return a, nil
	}

	a, err := c.buildVariant(shaderIndex, opt, specs, localSize)
	if err != nil {
		Logger().Warn("ncnn: pipeline build failed",
			"index", shaderIndex, "error", err)
		return nil, err
	}

	c.digests = append(c.digests, key)
	c.artifacts = append(c.artifacts, a)
	c.misses.Add(1)

	return a, nil
}

// CreatePipeline builds a pipeline from raw bytecode, bypassing variant
// selection and the store. Nothing is cached and the store is never
// consulted: this entry point serves ad hoc bytecode that is not
// expected to recur. The caller owns the returned artifact and releases
// it with [PipelineCache.DestroyPipeline].
//
// Metadata is recovered from the bytecode itself via [ReflectShaderInfo].
func (c *PipelineCache) CreatePipeline(code []uint32, specs []SpecValue, localSize [3]uint32) (*Artifact, error) {
	if len(code) == 0 {
		return nil, ErrEmptyBytecode
	}

	info, err := ReflectShaderInfo(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVariantResolution, err)
	}

	if len(specs) != info.SpecializationCount {
		return nil, fmt.Errorf("%w: bytecode declares %d, got %d",
			ErrSpecializationCount, info.SpecializationCount, len(specs))
	}

	module, err := c.device.CreateShaderModule(&ShaderModuleDescriptor{
		Label:     "adhoc",
		Code:      code,
		LocalSize: localSize,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShaderModuleCreation, err)
	}

	a, err := buildArtifact(c.device, module, info, "adhoc", specs)
	if err != nil {
		c.device.DestroyShaderModule(module)
		Logger().Warn("ncnn: ad hoc pipeline build failed", "error", err)
		return nil, err
	}
	return a, nil
}

// DestroyPipeline releases an artifact returned by
// [PipelineCache.CreatePipeline]. Artifacts from GetOrCreatePipeline are
// cache-owned and must not be passed here.
func (c *PipelineCache) DestroyPipeline(a *Artifact) {
	if a == nil {
		return
	}
	a.destroy(c.device)
}

// Clear destroys every stored artifact in reverse resource-creation
// order, empties the store and resets the statistics. Callers must
// guarantee no stored pipeline is still referenced by in-flight work;
// Clear takes the exclusive lock, so no lookup can race it.
func (c *PipelineCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, a := range c.artifacts {
		a.destroy(c.device)
	}

	Logger().Debug("ncnn: pipeline cache cleared", "entries", len(c.digests))

	c.digests = nil
	c.artifacts = nil
	c.hits.Store(0)
	c.misses.Store(0)
}

// Entries returns the number of cached pipelines.
func (c *PipelineCache) Entries() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.digests)
}

// Stats returns the number of cache hits and misses since creation or
// the last Clear.
func (c *PipelineCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// HitRate returns the fraction of requests served from the store, in
// [0, 1]. Zero when no requests have been made.
func (c *PipelineCache) HitRate() float64 {
	hits, misses := c.hits.Load(), c.misses.Load()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// lookup scans the digest sequence for an exact match. Callers hold at
// least the shared lock.
func (c *PipelineCache) lookup(key digest) *Artifact {
	for i := range c.digests {
		if c.digests[i] == key {
			return c.artifacts[i]
		}
	}
	return nil
}

// buildVariant resolves the concrete shader variant for a request and
// builds its artifact. The shader module created here is cleaned up on
// any later failure before the error propagates.
func (c *PipelineCache) buildVariant(shaderIndex int, opt Option, specs []SpecValue, localSize [3]uint32) (*Artifact, error) {
	caps := c.device.Capabilities()
	variant := VariantIndex(shaderIndex, opt, caps)

	shader, err := c.resolver.Resolve(variant)
	if err != nil {
		return nil, fmt.Errorf("%w: variant %d: %w", ErrVariantResolution, variant, err)
	}

	// Validated before any device object exists, so a mismatched request
	// costs nothing to roll back.
	if len(specs) != shader.Info.SpecializationCount {
		return nil, fmt.Errorf("%w: %s declares %d, got %d",
			ErrSpecializationCount, shader.Name, shader.Info.SpecializationCount, len(specs))
	}

	Logger().Debug("ncnn: building pipeline",
		"shader", shader.Name, "index", shaderIndex, "offset", variant-shaderIndex)

	module, err := c.device.CreateShaderModule(&ShaderModuleDescriptor{
		Label:     shader.Name,
		Code:      shader.Code,
		LocalSize: localSize,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrShaderModuleCreation, shader.Name, err)
	}

	a, err := buildArtifact(c.device, module, shader.Info, shader.Name, specs)
	if err != nil {
		c.device.DestroyShaderModule(module)
		return nil, err
	}
	return a, nil
}
