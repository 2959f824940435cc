package ncnn

import "fmt"

// Artifact bundles the device objects built for one pipeline
// configuration. Artifacts returned by [PipelineCache.GetOrCreatePipeline]
// are owned by the cache and shared between callers: use the handles,
// never destroy them. Artifacts from [PipelineCache.CreatePipeline] are
// caller-owned; release them with [PipelineCache.DestroyPipeline].
type Artifact struct {
	// ShaderModule is the compiled shader module.
	ShaderModule ShaderModule

	// DescriptorSetLayout declares the pipeline's binding shape.
	DescriptorSetLayout DescriptorSetLayout

	// PipelineLayout is the pipeline's full binding contract.
	PipelineLayout PipelineLayout

	// Pipeline is the ready-to-dispatch compute pipeline.
	Pipeline Pipeline

	// UpdateTemplate is the descriptor-update template, or nil when the
	// device does not support templates.
	UpdateTemplate DescriptorUpdateTemplate

	// Info is the shader's resource metadata.
	Info ShaderInfo
}

// rollback releases everything built after the shader module, in reverse
// creation order. The module itself stays: the build path creates it
// before the dependent chain and owns its cleanup on failure.
func (a *Artifact) rollback(dev Device) {
	if a.UpdateTemplate != nil {
		dev.DestroyDescriptorUpdateTemplate(a.UpdateTemplate)
		a.UpdateTemplate = nil
	}
	if a.Pipeline != nil {
		dev.DestroyComputePipeline(a.Pipeline)
		a.Pipeline = nil
	}
	if a.PipelineLayout != nil {
		dev.DestroyPipelineLayout(a.PipelineLayout)
		a.PipelineLayout = nil
	}
	if a.DescriptorSetLayout != nil {
		dev.DestroyDescriptorSetLayout(a.DescriptorSetLayout)
		a.DescriptorSetLayout = nil
	}
}

// destroy releases every live handle, the shader module last.
func (a *Artifact) destroy(dev Device) {
	a.rollback(dev)
	if a.ShaderModule != nil {
		dev.DestroyShaderModule(a.ShaderModule)
		a.ShaderModule = nil
	}
}

// buildArtifact constructs the dependent resource chain for a shader
// module: descriptor-set layout, pipeline layout, pipeline with baked
// specializations, and, when the device supports it, a descriptor-update
// template. The specialization count was validated by the caller before
// any resource existed. On failure every resource created here is
// destroyed in reverse creation order before the error returns; the
// shader module belongs to the caller.
func buildArtifact(dev Device, module ShaderModule, info ShaderInfo, label string, specs []SpecValue) (*Artifact, error) {
	a := &Artifact{ShaderModule: module, Info: info}

	dsl, err := dev.CreateDescriptorSetLayout(&DescriptorSetLayoutDescriptor{
		Label:        label,
		BindingTypes: info.BindingTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDescriptorSetLayoutCreation, label, err)
	}
	a.DescriptorSetLayout = dsl

	layout, err := dev.CreatePipelineLayout(&PipelineLayoutDescriptor{
		Label:             label,
		Layout:            dsl,
		PushConstantCount: info.PushConstantCount,
	})
	if err != nil {
		a.rollback(dev)
		return nil, fmt.Errorf("%w: %s: %w", ErrPipelineLayoutCreation, label, err)
	}
	a.PipelineLayout = layout

	pipeline, err := dev.CreateComputePipeline(&ComputePipelineDescriptor{
		Label:           label,
		Module:          module,
		Layout:          layout,
		Specializations: specs,
	})
	if err != nil {
		a.rollback(dev)
		return nil, fmt.Errorf("%w: %s: %w", ErrPipelineCreation, label, err)
	}
	a.Pipeline = pipeline

	if dev.Capabilities().DescriptorUpdateTemplate {
		t, err := dev.CreateDescriptorUpdateTemplate(&DescriptorUpdateTemplateDescriptor{
			Label:          label,
			Layout:         dsl,
			PipelineLayout: layout,
			BindingTypes:   info.BindingTypes,
		})
		if err != nil {
			a.rollback(dev)
			return nil, fmt.Errorf("%w: %s: %w", ErrDescriptorUpdateTemplateCreation, label, err)
		}
		a.UpdateTemplate = t
	}

	return a, nil
}
