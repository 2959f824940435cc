package wgpu

import (
	"errors"
	"testing"

	"github.com/renber2019/ncnn"
)

func TestNewNilDevice(t *testing.T) {
	if _, err := New(nil, ncnn.Capabilities{}); !errors.Is(err, ErrNilDevice) {
		t.Errorf("New(nil) = %v, want ErrNilDevice", err)
	}
}

func TestNormalizeCapsForcesTemplatesOff(t *testing.T) {
	// The caller may assert whatever it likes; templates stay off.
	caps := normalizeCaps(ncnn.Capabilities{
		FP16Storage:              true,
		DescriptorUpdateTemplate: true,
	})
	if caps.DescriptorUpdateTemplate {
		t.Error("DescriptorUpdateTemplate advertised by wgpu backend")
	}
	if !caps.FP16Storage {
		t.Error("asserted FP16Storage flag was lost")
	}
}

func TestCreateDescriptorUpdateTemplateFails(t *testing.T) {
	d := &Device{}
	if _, err := d.CreateDescriptorUpdateTemplate(&ncnn.DescriptorUpdateTemplateDescriptor{}); !errors.Is(err, ErrUpdateTemplates) {
		t.Errorf("CreateDescriptorUpdateTemplate() = %v, want ErrUpdateTemplates", err)
	}
}

func TestCreatePipelineLayoutRejectsPushConstants(t *testing.T) {
	d := &Device{}
	_, err := d.CreatePipelineLayout(&ncnn.PipelineLayoutDescriptor{
		PushConstantCount: 4,
	})
	if !errors.Is(err, ErrPushConstants) {
		t.Errorf("CreatePipelineLayout() = %v, want ErrPushConstants", err)
	}
}

func TestCreateShaderModuleRejectsBadBytecode(t *testing.T) {
	d := &Device{}
	_, err := d.CreateShaderModule(&ncnn.ShaderModuleDescriptor{
		Code:      []uint32{1, 2, 3},
		LocalSize: [3]uint32{8, 8, 1},
	})
	if err == nil {
		t.Error("expected error for bytecode without a SPIR-V header")
	}
}

func TestCreateComputePipelineRejectsForeignHandles(t *testing.T) {
	d := &Device{}
	_, err := d.CreateComputePipeline(&ncnn.ComputePipelineDescriptor{
		Module: "not a module",
		Layout: "not a layout",
	})
	if err == nil {
		t.Error("expected error for a module created by another backend")
	}
}

func TestDestroyToleratesNilAndForeignHandles(t *testing.T) {
	// Destroy methods must not reach the hal device for handles they do
	// not own; a panic here would mean they did.
	d := &Device{}
	d.DestroyShaderModule(nil)
	d.DestroyShaderModule(42)
	d.DestroyShaderModule(&shaderModule{})
	d.DestroyDescriptorSetLayout(nil)
	d.DestroyPipelineLayout(nil)
	d.DestroyComputePipeline(nil)
	d.DestroyComputePipeline("foreign")
	d.DestroyDescriptorUpdateTemplate(nil)
}
