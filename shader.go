package ncnn

import (
	"fmt"
	"math"

	"github.com/gogpu/naga"

	"github.com/renber2019/ncnn/internal/cache"
	"github.com/renber2019/ncnn/internal/spirv"
)

// SpecValue is one specialization constant as raw 32-bit data. The
// device bakes specialization values into the pipeline at build time;
// interpretation (int, uint, float, bool) is up to the shader.
type SpecValue uint32

// SpecInt makes a SpecValue from a signed integer.
func SpecInt(v int32) SpecValue { return SpecValue(uint32(v)) }

// SpecUint makes a SpecValue from an unsigned integer.
func SpecUint(v uint32) SpecValue { return SpecValue(v) }

// SpecFloat makes a SpecValue from a 32-bit float.
func SpecFloat(v float32) SpecValue { return SpecValue(math.Float32bits(v)) }

// ShaderInfo is the resource metadata of one shader variant, resolved
// from a prebundled table or by reflecting bytecode. Immutable once
// resolved.
type ShaderInfo struct {
	// SpecializationCount is the number of specialization constants the
	// shader declares, excluding the reserved workgroup-size ids.
	SpecializationCount int

	// BindingCount is the number of descriptor bindings.
	BindingCount int

	// PushConstantCount is the number of 32-bit push constants.
	PushConstantCount int

	// BindingTypes lists each binding's resource type, in binding order.
	BindingTypes []BindingType
}

// CompiledShader is a resolved shader variant: portable bytecode plus
// its resource metadata.
type CompiledShader struct {
	// Name identifies the variant in labels and logs.
	Name string

	// Code is SPIR-V bytecode as 32-bit words.
	Code []uint32

	// Info is the variant's resource metadata.
	Info ShaderInfo
}

// ShaderResolver resolves a concrete variant index to bytecode and
// metadata. The pipeline cache calls Resolve once per cache miss;
// implementations may be called from multiple goroutines.
type ShaderResolver interface {
	Resolve(index int) (*CompiledShader, error)
}

// ReflectShaderInfo recovers a shader's resource metadata from its
// bytecode: binding slots and their types, the push-constant word count,
// and the number of user specialization constants.
func ReflectShaderInfo(code []uint32) (ShaderInfo, error) {
	ref, err := spirv.Reflect(code)
	if err != nil {
		return ShaderInfo{}, err
	}

	info := ShaderInfo{
		SpecializationCount: ref.SpecializationCount,
		BindingCount:        len(ref.BindingTypes),
		PushConstantCount:   ref.PushConstantCount,
		BindingTypes:        make([]BindingType, len(ref.BindingTypes)),
	}
	for i, t := range ref.BindingTypes {
		switch t {
		case spirv.BindingStorageBuffer:
			info.BindingTypes[i] = BindingStorageBuffer
		case spirv.BindingStorageImage:
			info.BindingTypes[i] = BindingStorageImage
		case spirv.BindingCombinedImageSampler:
			info.BindingTypes[i] = BindingCombinedImageSampler
		case spirv.BindingUniformBuffer:
			info.BindingTypes[i] = BindingUniformBuffer
		default:
			return ShaderInfo{}, fmt.Errorf("ncnn: binding %d has unsupported type", i)
		}
	}
	return info, nil
}

// StaticResolver serves prebundled bytecode and metadata by table index.
// It suits builds that precompile every shader variant ahead of time.
type StaticResolver struct {
	shaders []CompiledShader
}

// NewStaticResolver creates a resolver over a prebundled variant table,
// indexed by concrete variant index.
func NewStaticResolver(shaders []CompiledShader) *StaticResolver {
	return &StaticResolver{shaders: shaders}
}

// Resolve returns the table entry at index.
func (r *StaticResolver) Resolve(index int) (*CompiledShader, error) {
	if index < 0 || index >= len(r.shaders) {
		return nil, fmt.Errorf("ncnn: no shader at index %d (table size %d)", index, len(r.shaders))
	}
	return &r.shaders[index], nil
}

// ShaderSource is one WGSL shader variant awaiting compilation.
type ShaderSource struct {
	// Name identifies the variant in labels and logs.
	Name string

	// WGSL is the shader source text.
	WGSL string
}

// CompileResolver compiles WGSL sources to SPIR-V on first use and
// reflects their metadata from the produced bytecode. Compiled variants
// are memoized: bytecode depends only on the variant index, while
// specialization values and the workgroup shape are baked later by the
// device.
type CompileResolver struct {
	sources  []ShaderSource
	compiled *cache.Cache[int, *CompiledShader]
}

// NewCompileResolver creates a resolver that compiles the given sources
// on demand, indexed by concrete variant index.
func NewCompileResolver(sources []ShaderSource) *CompileResolver {
	return &CompileResolver{
		sources:  sources,
		compiled: cache.New[int, *CompiledShader](),
	}
}

// Resolve compiles the variant at index, or returns the memoized result
// of a previous compilation. Compilation failures are not memoized.
func (r *CompileResolver) Resolve(index int) (*CompiledShader, error) {
	if index < 0 || index >= len(r.sources) {
		return nil, fmt.Errorf("ncnn: no shader source at index %d (table size %d)", index, len(r.sources))
	}
	return r.compiled.GetOrCreate(index, func() (*CompiledShader, error) {
		return compileShaderSource(r.sources[index])
	})
}

// compileShaderSource compiles WGSL to SPIR-V words and reflects the
// resource metadata from the result.
func compileShaderSource(src ShaderSource) (*CompiledShader, error) {
	raw, err := naga.Compile(src.WGSL)
	if err != nil {
		return nil, fmt.Errorf("ncnn: compile %s: %w", src.Name, err)
	}

	// SPIR-V is a stream of little-endian 32-bit words.
	code := make([]uint32, len(raw)/4)
	for i := range code {
		code[i] = uint32(raw[i*4]) |
			uint32(raw[i*4+1])<<8 |
			uint32(raw[i*4+2])<<16 |
			uint32(raw[i*4+3])<<24
	}

	info, err := ReflectShaderInfo(code)
	if err != nil {
		return nil, fmt.Errorf("ncnn: reflect %s: %w", src.Name, err)
	}

	return &CompiledShader{Name: src.Name, Code: code, Info: info}, nil
}
