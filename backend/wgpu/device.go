// Package wgpu adapts a gogpu/wgpu hal device to the ncnn device
// interface.
//
// WebGPU diverges from the device contract in three places, each
// handled here rather than leaked to callers. Workgroup shapes and
// specialization constants cannot be set at pipeline creation, so both
// are baked by rewriting SPIR-V before the hal sees it. Descriptor
// update templates do not exist, so that capability is never
// advertised. Push constants and combined image samplers cannot be
// expressed, so layouts declaring them are rejected.
package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/types"

	"github.com/renber2019/ncnn"
	"github.com/renber2019/ncnn/internal/spirv"
)

// entryPoint is the conventional compute entry point name produced by
// the WGSL toolchain.
const entryPoint = "main"

var (
	// ErrNilDevice is returned when wrapping a nil hal device.
	ErrNilDevice = errors.New("wgpu: hal device is nil")

	// ErrUnsupportedBinding is returned for binding types this backend
	// cannot express in a bind group layout.
	ErrUnsupportedBinding = errors.New("wgpu: unsupported binding type")

	// ErrPushConstants is returned when a layout declares push
	// constants. Shaders that need per-dispatch parameters pass them
	// through a uniform binding instead.
	ErrPushConstants = errors.New("wgpu: push constants are not supported")

	// ErrUpdateTemplates is returned from template creation. The
	// capability is never advertised, so a correctly driven cache never
	// sees this error.
	ErrUpdateTemplates = errors.New("wgpu: descriptor update templates are not supported")
)

// Device adapts a hal.Device to the ncnn.Device interface.
type Device struct {
	dev  hal.Device
	caps ncnn.Capabilities
}

// New wraps a hal device. The caller asserts the capability flags the
// underlying adapter satisfies; DescriptorUpdateTemplate is forced off
// because WebGPU has no such object.
func New(dev hal.Device, caps ncnn.Capabilities) (*Device, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	return &Device{dev: dev, caps: normalizeCaps(caps)}, nil
}

// normalizeCaps strips capability flags this backend can never satisfy.
func normalizeCaps(caps ncnn.Capabilities) ncnn.Capabilities {
	caps.DescriptorUpdateTemplate = false
	return caps
}

// Capabilities reports the flags fixed at construction.
func (d *Device) Capabilities() ncnn.Capabilities {
	return d.caps
}

// shaderModule retains the workgroup-baked bytecode alongside the hal
// module so pipelines can re-specialize it.
type shaderModule struct {
	module hal.ShaderModule
	code   []uint32
	label  string
}

// CreateShaderModule creates a hal shader module. A nonzero LocalSize is
// baked into the bytecode first; an all-zero LocalSize keeps the shape
// the bytecode already declares.
func (d *Device) CreateShaderModule(desc *ncnn.ShaderModuleDescriptor) (ncnn.ShaderModule, error) {
	code := desc.Code
	if desc.LocalSize != [3]uint32{} {
		baked, err := spirv.SpecializeWorkgroupSize(code, desc.LocalSize[0], desc.LocalSize[1], desc.LocalSize[2])
		if err != nil {
			return nil, fmt.Errorf("wgpu: bake workgroup size: %w", err)
		}
		code = baked
	}

	m, err := d.dev.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: desc.Label,
		Source: hal.ShaderSource{
			SPIRV: code,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create shader module: %w", err)
	}

	return &shaderModule{module: m, code: code, label: desc.Label}, nil
}

// DestroyShaderModule releases a shader module.
func (d *Device) DestroyShaderModule(m ncnn.ShaderModule) {
	sm, ok := m.(*shaderModule)
	if !ok || sm.module == nil {
		return
	}
	d.dev.DestroyShaderModule(sm.module)
	sm.module = nil
}

// CreateDescriptorSetLayout maps the binding types onto a bind group
// layout with compute visibility.
func (d *Device) CreateDescriptorSetLayout(desc *ncnn.DescriptorSetLayoutDescriptor) (ncnn.DescriptorSetLayout, error) {
	entries := make([]types.BindGroupLayoutEntry, len(desc.BindingTypes))
	for i, bt := range desc.BindingTypes {
		entry := types.BindGroupLayoutEntry{
			Binding:    uint32(i),
			Visibility: types.ShaderStageCompute,
		}
		switch bt {
		case ncnn.BindingStorageBuffer:
			entry.Buffer = &types.BufferBindingLayout{
				Type: types.BufferBindingTypeStorage,
			}
		case ncnn.BindingUniformBuffer:
			entry.Buffer = &types.BufferBindingLayout{
				Type: types.BufferBindingTypeUniform,
			}
		case ncnn.BindingStorageImage:
			entry.Storage = &types.StorageTextureBindingLayout{
				Access:        types.StorageTextureAccessReadWrite,
				Format:        types.TextureFormatRGBA8Unorm,
				ViewDimension: types.TextureViewDimension2D,
			}
		default:
			return nil, fmt.Errorf("%w: %v at slot %d", ErrUnsupportedBinding, bt, i)
		}
		entries[i] = entry
	}

	l, err := d.dev.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create bind group layout: %w", err)
	}
	return l, nil
}

// DestroyDescriptorSetLayout releases a descriptor-set layout.
func (d *Device) DestroyDescriptorSetLayout(l ncnn.DescriptorSetLayout) {
	if hl, ok := l.(hal.BindGroupLayout); ok && hl != nil {
		d.dev.DestroyBindGroupLayout(hl)
	}
}

// CreatePipelineLayout creates a pipeline layout over a single bind
// group.
func (d *Device) CreatePipelineLayout(desc *ncnn.PipelineLayoutDescriptor) (ncnn.PipelineLayout, error) {
	if desc.PushConstantCount > 0 {
		return nil, fmt.Errorf("%w: shader declares %d", ErrPushConstants, desc.PushConstantCount)
	}
	dsl, ok := desc.Layout.(hal.BindGroupLayout)
	if !ok {
		return nil, errors.New("wgpu: descriptor-set layout is not a wgpu layout")
	}

	l, err := d.dev.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            desc.Label,
		BindGroupLayouts: []hal.BindGroupLayout{dsl},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}
	return l, nil
}

// DestroyPipelineLayout releases a pipeline layout.
func (d *Device) DestroyPipelineLayout(l ncnn.PipelineLayout) {
	if hl, ok := l.(hal.PipelineLayout); ok && hl != nil {
		d.dev.DestroyPipelineLayout(hl)
	}
}

// computePipeline pairs the hal pipeline with the private module that
// holds its specialized bytecode, when specialization was needed.
type computePipeline struct {
	pipeline   hal.ComputePipeline
	specModule hal.ShaderModule
}

// CreateComputePipeline builds a compute pipeline. WebGPU has no
// pipeline-time specialization, so a non-empty constant buffer is baked
// by rewriting the module's bytecode (value i substitutes spec id i) and
// compiling a private module owned by the pipeline.
func (d *Device) CreateComputePipeline(desc *ncnn.ComputePipelineDescriptor) (ncnn.Pipeline, error) {
	sm, ok := desc.Module.(*shaderModule)
	if !ok || sm.module == nil {
		return nil, errors.New("wgpu: shader module is not a wgpu module")
	}
	layout, ok := desc.Layout.(hal.PipelineLayout)
	if !ok {
		return nil, errors.New("wgpu: pipeline layout is not a wgpu layout")
	}

	module := sm.module
	var private hal.ShaderModule
	if len(desc.Specializations) > 0 {
		ncnn.Logger().Debug("wgpu: baking specializations into module",
			"label", desc.Label, "constants", len(desc.Specializations))
		values := make(map[uint32]uint32, len(desc.Specializations))
		for i, v := range desc.Specializations {
			values[uint32(i)] = uint32(v)
		}
		code, err := spirv.Specialize(sm.code, values)
		if err != nil {
			return nil, fmt.Errorf("wgpu: bake specializations: %w", err)
		}
		private, err = d.dev.CreateShaderModule(&hal.ShaderModuleDescriptor{
			Label: desc.Label,
			Source: hal.ShaderSource{
				SPIRV: code,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("wgpu: create specialized module: %w", err)
		}
		module = private
	}

	p, err := d.dev.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  desc.Label,
		Layout: layout,
		Compute: hal.ComputeState{
			Module:     module,
			EntryPoint: entryPoint,
		},
	})
	if err != nil {
		if private != nil {
			d.dev.DestroyShaderModule(private)
		}
		return nil, fmt.Errorf("wgpu: create compute pipeline: %w", err)
	}

	return &computePipeline{pipeline: p, specModule: private}, nil
}

// DestroyComputePipeline releases a pipeline and, when present, the
// private module holding its specialized bytecode.
func (d *Device) DestroyComputePipeline(p ncnn.Pipeline) {
	cp, ok := p.(*computePipeline)
	if !ok {
		return
	}
	if cp.pipeline != nil {
		d.dev.DestroyComputePipeline(cp.pipeline)
		cp.pipeline = nil
	}
	if cp.specModule != nil {
		d.dev.DestroyShaderModule(cp.specModule)
		cp.specModule = nil
	}
}

// CreateDescriptorUpdateTemplate always fails; the capability is never
// advertised by this backend.
func (d *Device) CreateDescriptorUpdateTemplate(*ncnn.DescriptorUpdateTemplateDescriptor) (ncnn.DescriptorUpdateTemplate, error) {
	return nil, ErrUpdateTemplates
}

// DestroyDescriptorUpdateTemplate is a no-op; no template can exist.
func (d *Device) DestroyDescriptorUpdateTemplate(ncnn.DescriptorUpdateTemplate) {}

var _ ncnn.Device = (*Device)(nil)
