package ncnn

import "errors"

// Pipeline cache errors. Build failures wrap the stage sentinel first and
// the device's cause underneath, so callers can branch with errors.Is on
// the stage while logs keep the full chain.
var (
	// ErrNilDevice is returned when creating a cache without a device.
	ErrNilDevice = errors.New("ncnn: device is nil")

	// ErrNilResolver is returned when creating a cache without a shader
	// resolver.
	ErrNilResolver = errors.New("ncnn: shader resolver is nil")

	// ErrEmptyBytecode is returned when a pipeline is requested from an
	// empty word stream.
	ErrEmptyBytecode = errors.New("ncnn: shader bytecode is empty")

	// ErrVariantResolution is returned when a shader variant cannot be
	// resolved to bytecode and metadata.
	ErrVariantResolution = errors.New("ncnn: shader variant resolution failed")

	// ErrSpecializationCount is returned when the supplied specialization
	// constants do not match the count the shader declares. Nothing is
	// created before this check passes.
	ErrSpecializationCount = errors.New("ncnn: specialization count mismatch")

	// ErrShaderModuleCreation is returned when the device fails to build
	// a shader module.
	ErrShaderModuleCreation = errors.New("ncnn: shader module creation failed")

	// ErrDescriptorSetLayoutCreation is returned when the device fails to
	// build a descriptor-set layout.
	ErrDescriptorSetLayoutCreation = errors.New("ncnn: descriptor-set layout creation failed")

	// ErrPipelineLayoutCreation is returned when the device fails to
	// build a pipeline layout.
	ErrPipelineLayoutCreation = errors.New("ncnn: pipeline layout creation failed")

	// ErrPipelineCreation is returned when the device fails to build the
	// pipeline object itself.
	ErrPipelineCreation = errors.New("ncnn: pipeline creation failed")

	// ErrDescriptorUpdateTemplateCreation is returned when the device
	// fails to build a descriptor-update template.
	ErrDescriptorUpdateTemplateCreation = errors.New("ncnn: descriptor-update template creation failed")
)
