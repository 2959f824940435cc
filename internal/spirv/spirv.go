package spirv

import "errors"

// MagicNumber identifies a SPIR-V module in native word order.
const MagicNumber = 0x07230203

// headerWords is the fixed SPIR-V header size: magic, version,
// generator, id bound, schema.
const headerWords = 5

// Opcodes read by this package.
const (
	opExecutionMode     = 16
	opTypeImage         = 25
	opTypeSampler       = 26
	opTypeSampledImage  = 27
	opTypeStruct        = 30
	opTypePointer       = 32
	opSpecConstantTrue  = 48
	opSpecConstantFalse = 49
	opSpecConstant      = 50
	opVariable          = 59
	opDecorate          = 71
)

// Decorations.
const (
	decorationSpecID        = 1
	decorationBufferBlock   = 3
	decorationBinding       = 33
	decorationDescriptorSet = 34
)

// Execution modes.
const executionModeLocalSize = 17

// Storage classes.
const (
	storageClassUniformConstant = 0
	storageClassUniform         = 2
	storageClassPushConstant    = 9
	storageClassStorageBuffer   = 12
)

// Image type Sampled operand values.
const (
	imageSampled   = 1
	imageLoadStore = 2
)

// Reserved specialization ids carrying the workgroup shape. Shaders
// declare their local size with these ids so the shape can be baked at
// module creation; they never count toward a shader's user-facing
// specialization count.
const (
	LocalSizeXID = 233
	LocalSizeYID = 234
	LocalSizeZID = 235
)

// BindingType classifies a reflected descriptor binding.
type BindingType int

// Binding types recovered by Reflect.
const (
	BindingStorageBuffer BindingType = iota + 1
	BindingStorageImage
	BindingCombinedImageSampler
	BindingUniformBuffer
)

var (
	// ErrNotSPIRV is returned when the word stream has no SPIR-V header.
	ErrNotSPIRV = errors.New("spirv: not a SPIR-V module")

	// ErrTruncated is returned when an instruction extends past the end
	// of the word stream.
	ErrTruncated = errors.New("spirv: truncated instruction stream")
)

// validate checks the module header.
func validate(code []uint32) error {
	if len(code) < headerWords || code[0] != MagicNumber {
		return ErrNotSPIRV
	}
	return nil
}

// walk decodes the instruction stream after the header and calls fn for
// each instruction with its absolute position, opcode and operand words.
// The operand slice aliases code, so writes through it land in the
// module. Walking stops early when fn returns false.
func walk(code []uint32, fn func(pos int, op uint32, args []uint32) bool) error {
	pos := headerWords
	for pos < len(code) {
		word := code[pos]
		op := word & 0xffff
		wordCount := int(word >> 16)
		if wordCount == 0 || pos+wordCount > len(code) {
			return ErrTruncated
		}
		if !fn(pos, op, code[pos+1:pos+wordCount]) {
			return nil
		}
		pos += wordCount
	}
	return nil
}
