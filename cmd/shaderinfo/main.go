// Command shaderinfo inspects compute shaders the way the pipeline
// cache sees them: it compiles WGSL (or loads a SPIR-V binary),
// reflects the resource metadata from the bytecode, and reports which
// shader variant a request with the given options would select.
//
// Usage:
//
//	shaderinfo -wgsl convolution.wgsl
//	shaderinfo -spv convolution.spv -fp16-storage -fp16-arithmetic
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gogpu/naga"

	"github.com/renber2019/ncnn"
)

func main() {
	var (
		wgslPath = flag.String("wgsl", "", "WGSL source to compile")
		spvPath  = flag.String("spv", "", "SPIR-V binary to load")

		image = flag.Bool("image", false, "request image-backed storage")
		fp16p = flag.Bool("fp16-packed", false, "request packed fp16 storage")
		fp16s = flag.Bool("fp16-storage", false, "request fp16 storage")
		fp16a = flag.Bool("fp16-arithmetic", false, "request fp16 arithmetic")
		int8s = flag.Bool("int8-storage", false, "request int8 storage")
		int8a = flag.Bool("int8-arithmetic", false, "request int8 arithmetic")
	)
	flag.Parse()

	code, err := loadShader(*wgslPath, *spvPath)
	if err != nil {
		log.Fatalf("Failed to load shader: %v", err)
	}

	info, err := ncnn.ReflectShaderInfo(code)
	if err != nil {
		log.Fatalf("Failed to reflect shader: %v", err)
	}

	fmt.Printf("code:            %d words\n", len(code))
	fmt.Printf("bindings:        %d\n", info.BindingCount)
	for i, bt := range info.BindingTypes {
		fmt.Printf("  %d: %s\n", i, bt)
	}
	fmt.Printf("push constants:  %d\n", info.PushConstantCount)
	fmt.Printf("specializations: %d\n", info.SpecializationCount)

	opt := ncnn.Option{
		UseImageStorage:   *image,
		UseFP16Packed:     *fp16p,
		UseFP16Storage:    *fp16s,
		UseFP16Arithmetic: *fp16a,
		UseInt8Storage:    *int8s,
		UseInt8Arithmetic: *int8a,
	}
	caps := ncnn.Capabilities{
		ImageStorage:   true,
		FP16Packed:     true,
		FP16Storage:    true,
		FP16Arithmetic: true,
	}
	fmt.Printf("variant offset:  +%d of %d (full hardware support assumed)\n",
		ncnn.VariantIndex(0, opt, caps), ncnn.VariantsPerShader)
}

// loadShader reads bytecode from exactly one of the two source flags.
func loadShader(wgslPath, spvPath string) ([]uint32, error) {
	switch {
	case wgslPath != "" && spvPath != "":
		return nil, fmt.Errorf("pass either -wgsl or -spv, not both")
	case wgslPath != "":
		src, err := os.ReadFile(wgslPath)
		if err != nil {
			return nil, err
		}
		raw, err := naga.Compile(string(src))
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", wgslPath, err)
		}
		return bytesToWords(raw)
	case spvPath != "":
		raw, err := os.ReadFile(spvPath)
		if err != nil {
			return nil, err
		}
		return bytesToWords(raw)
	default:
		return nil, fmt.Errorf("pass -wgsl or -spv")
	}
}

// bytesToWords reassembles little-endian bytes into SPIR-V words.
func bytesToWords(raw []byte) ([]uint32, error) {
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("bytecode size %d is not a whole number of words", len(raw))
	}
	words := make([]uint32, len(raw)/4)
	for i := range words {
		words[i] = uint32(raw[i*4]) |
			uint32(raw[i*4+1])<<8 |
			uint32(raw[i*4+2])<<16 |
			uint32(raw[i*4+3])<<24
	}
	return words, nil
}
