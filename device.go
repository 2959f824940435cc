package ncnn

// Capabilities reports the hardware features that drive shader variant
// selection and optional resource creation. Backends fill this in from
// the underlying API; tests assert it directly.
type Capabilities struct {
	// ImageStorage reports whether image-backed tensor storage is usable.
	ImageStorage bool

	// FP16Packed reports support for 16-bit floats packed into 32-bit
	// words.
	FP16Packed bool

	// FP16Storage reports support for native 16-bit float storage.
	FP16Storage bool

	// FP16Arithmetic reports support for 16-bit float arithmetic.
	FP16Arithmetic bool

	// DescriptorUpdateTemplate reports support for descriptor-update
	// templates. When false the cache skips template creation and
	// artifacts carry a nil template handle.
	DescriptorUpdateTemplate bool

	// BugLayoutBindingAlias marks drivers that alias image and buffer
	// binding slots in a set layout. When set, image-backed variants are
	// never selected no matter what the request asks for.
	BugLayoutBindingAlias bool
}

// BindingType identifies the resource kind a shader binding expects.
type BindingType uint32

// Binding types, in the order shaders conventionally declare them.
const (
	// BindingStorageBuffer is a read-write storage buffer.
	BindingStorageBuffer BindingType = iota + 1

	// BindingStorageImage is a read-write storage image.
	BindingStorageImage

	// BindingCombinedImageSampler is a sampled image paired with a
	// sampler in a single slot.
	BindingCombinedImageSampler

	// BindingUniformBuffer is a read-only uniform buffer.
	BindingUniformBuffer
)

// String returns the binding type's shader-facing name.
func (t BindingType) String() string {
	switch t {
	case BindingStorageBuffer:
		return "storage-buffer"
	case BindingStorageImage:
		return "storage-image"
	case BindingCombinedImageSampler:
		return "combined-image-sampler"
	case BindingUniformBuffer:
		return "uniform-buffer"
	default:
		return "unknown"
	}
}

// Opaque device handles. A nil handle is the null handle; every Destroy
// method treats it as a no-op.
type (
	// ShaderModule is a device-resident compiled bytecode unit.
	ShaderModule any

	// DescriptorSetLayout declares the binding shape of a pipeline.
	DescriptorSetLayout any

	// PipelineLayout combines a descriptor-set layout with the shader's
	// push-constant declaration.
	PipelineLayout any

	// Pipeline is a compiled, linked, ready-to-dispatch compute program.
	Pipeline any

	// DescriptorUpdateTemplate enables batched descriptor writes on
	// devices that support it.
	DescriptorUpdateTemplate any
)

// ShaderModuleDescriptor describes a shader module to create. The
// workgroup shape is baked into the module at creation time.
type ShaderModuleDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Code is SPIR-V bytecode as 32-bit words.
	Code []uint32

	// LocalSize is the workgroup shape to bake in.
	LocalSize [3]uint32
}

// DescriptorSetLayoutDescriptor describes a descriptor-set layout.
type DescriptorSetLayoutDescriptor struct {
	// Label is an optional debug name.
	Label string

	// BindingTypes lists the resource type of each binding slot, in
	// binding order.
	BindingTypes []BindingType
}

// PipelineLayoutDescriptor describes a pipeline layout.
type PipelineLayoutDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Layout is the descriptor-set layout the pipeline binds.
	Layout DescriptorSetLayout

	// PushConstantCount is the number of 32-bit push constants the
	// shader declares.
	PushConstantCount int
}

// ComputePipelineDescriptor describes a compute pipeline.
type ComputePipelineDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Module is the compiled shader module.
	Module ShaderModule

	// Layout is the pipeline layout.
	Layout PipelineLayout

	// Specializations are baked into the pipeline as compile-time
	// constants, in declaration order.
	Specializations []SpecValue
}

// DescriptorUpdateTemplateDescriptor describes a descriptor-update
// template for batched descriptor writes.
type DescriptorUpdateTemplateDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Layout is the descriptor-set layout the template updates.
	Layout DescriptorSetLayout

	// PipelineLayout is the owning pipeline layout.
	PipelineLayout PipelineLayout

	// BindingTypes lists each binding's resource type, in binding order.
	BindingTypes []BindingType
}

// Device abstracts the GPU API the pipeline cache drives. Implementations
// must be safe for concurrent use. Destroy methods are no-ops on nil
// handles so teardown paths never need to track which stage failed.
type Device interface {
	// Capabilities reports the device's feature flags.
	Capabilities() Capabilities

	// CreateShaderModule creates a shader module from bytecode with the
	// workgroup shape baked in.
	CreateShaderModule(desc *ShaderModuleDescriptor) (ShaderModule, error)

	// DestroyShaderModule releases a shader module.
	DestroyShaderModule(m ShaderModule)

	// CreateDescriptorSetLayout creates a descriptor-set layout.
	CreateDescriptorSetLayout(desc *DescriptorSetLayoutDescriptor) (DescriptorSetLayout, error)

	// DestroyDescriptorSetLayout releases a descriptor-set layout.
	DestroyDescriptorSetLayout(l DescriptorSetLayout)

	// CreatePipelineLayout creates a pipeline layout.
	CreatePipelineLayout(desc *PipelineLayoutDescriptor) (PipelineLayout, error)

	// DestroyPipelineLayout releases a pipeline layout.
	DestroyPipelineLayout(l PipelineLayout)

	// CreateComputePipeline creates a compute pipeline with the given
	// specialization constants baked in.
	CreateComputePipeline(desc *ComputePipelineDescriptor) (Pipeline, error)

	// DestroyComputePipeline releases a compute pipeline.
	DestroyComputePipeline(p Pipeline)

	// CreateDescriptorUpdateTemplate creates a descriptor-update
	// template. Only called when Capabilities reports support.
	CreateDescriptorUpdateTemplate(desc *DescriptorUpdateTemplateDescriptor) (DescriptorUpdateTemplate, error)

	// DestroyDescriptorUpdateTemplate releases a descriptor-update
	// template.
	DestroyDescriptorUpdateTemplate(t DescriptorUpdateTemplate)
}
