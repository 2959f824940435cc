package spirv

import "fmt"

// Info is the metadata Reflect recovers from a compute module.
type Info struct {
	// BindingTypes lists each descriptor binding's type, in binding
	// order. Bindings must be contiguous from zero.
	BindingTypes []BindingType

	// PushConstantCount is the member count of the push-constant block,
	// zero when the shader declares none.
	PushConstantCount int

	// SpecializationCount is the number of user specialization
	// constants, excluding the reserved workgroup-size ids.
	SpecializationCount int
}

// pointerType records one OpTypePointer declaration.
type pointerType struct {
	storageClass uint32
	pointee      uint32
}

// typeTable indexes the declarations one pass over a module collects.
type typeTable struct {
	sampledOperand map[uint32]uint32      // OpTypeImage id -> Sampled operand
	sampledImages  map[uint32]bool        // OpTypeSampledImage ids
	samplers       map[uint32]bool        // OpTypeSampler ids
	structMembers  map[uint32]int         // OpTypeStruct id -> member count
	bufferBlocks   map[uint32]bool        // struct ids decorated BufferBlock
	pointers       map[uint32]pointerType // OpTypePointer id -> declaration
	varPointers    map[uint32]uint32      // OpVariable id -> pointer type id
	varClasses     map[uint32]uint32      // OpVariable id -> storage class
	bindings       map[uint32]uint32      // OpVariable id -> binding slot
	specIDs        map[uint32]uint32      // result id -> spec id
}

func newTypeTable() *typeTable {
	return &typeTable{
		sampledOperand: make(map[uint32]uint32),
		sampledImages:  make(map[uint32]bool),
		samplers:       make(map[uint32]bool),
		structMembers:  make(map[uint32]int),
		bufferBlocks:   make(map[uint32]bool),
		pointers:       make(map[uint32]pointerType),
		varPointers:    make(map[uint32]uint32),
		varClasses:     make(map[uint32]uint32),
		bindings:       make(map[uint32]uint32),
		specIDs:        make(map[uint32]uint32),
	}
}

// collect records the type, decoration and variable declarations of a
// validated module. Function bodies are never inspected.
func (tt *typeTable) collect(code []uint32) error {
	return walk(code, func(_ int, op uint32, args []uint32) bool {
		switch op {
		case opTypeImage:
			// Result id, sampled type, dim, depth, arrayed, MS, sampled,
			// format.
			if len(args) >= 7 {
				tt.sampledOperand[args[0]] = args[6]
			}
		case opTypeSampledImage:
			if len(args) >= 2 {
				tt.sampledImages[args[0]] = true
			}
		case opTypeSampler:
			if len(args) >= 1 {
				tt.samplers[args[0]] = true
			}
		case opTypeStruct:
			if len(args) >= 1 {
				tt.structMembers[args[0]] = len(args) - 1
			}
		case opTypePointer:
			if len(args) >= 3 {
				tt.pointers[args[0]] = pointerType{storageClass: args[1], pointee: args[2]}
			}
		case opVariable:
			// Result type (a pointer), result id, storage class.
			if len(args) >= 3 {
				tt.varPointers[args[1]] = args[0]
				tt.varClasses[args[1]] = args[2]
			}
		case opDecorate:
			if len(args) < 2 {
				break
			}
			switch args[1] {
			case decorationBinding:
				if len(args) >= 3 {
					tt.bindings[args[0]] = args[2]
				}
			case decorationSpecID:
				if len(args) >= 3 {
					tt.specIDs[args[0]] = args[2]
				}
			case decorationBufferBlock:
				tt.bufferBlocks[args[0]] = true
			}
		}
		return true
	})
}

// classify maps a binding-decorated variable to its binding type through
// its pointer type and storage class.
func (tt *typeTable) classify(varID uint32) (BindingType, error) {
	ptr, ok := tt.pointers[tt.varPointers[varID]]
	if !ok {
		return 0, fmt.Errorf("spirv: binding variable %d has no pointer type", varID)
	}

	switch tt.varClasses[varID] {
	case storageClassStorageBuffer:
		return BindingStorageBuffer, nil

	case storageClassUniform:
		// Pre-1.3 modules express storage buffers as BufferBlock structs
		// in Uniform storage.
		if tt.bufferBlocks[ptr.pointee] {
			return BindingStorageBuffer, nil
		}
		return BindingUniformBuffer, nil

	case storageClassUniformConstant:
		if tt.sampledImages[ptr.pointee] {
			return BindingCombinedImageSampler, nil
		}
		if sampled, ok := tt.sampledOperand[ptr.pointee]; ok {
			if sampled == imageLoadStore {
				return BindingStorageImage, nil
			}
			return 0, fmt.Errorf("spirv: separate sampled images are not supported")
		}
		if tt.samplers[ptr.pointee] {
			return 0, fmt.Errorf("spirv: separate samplers are not supported")
		}
	}

	return 0, fmt.Errorf("spirv: unsupported binding type")
}

// Reflect recovers binding, push-constant and specialization metadata
// from a module by scanning its declarations.
func Reflect(code []uint32) (Info, error) {
	if err := validate(code); err != nil {
		return Info{}, err
	}

	tt := newTypeTable()
	if err := tt.collect(code); err != nil {
		return Info{}, err
	}

	var info Info

	// Descriptor bindings must form a contiguous slot range from zero.
	if len(tt.bindings) > 0 {
		var maxSlot uint32
		for _, slot := range tt.bindings {
			if slot > maxSlot {
				maxSlot = slot
			}
		}
		types := make([]BindingType, maxSlot+1)
		for varID, slot := range tt.bindings {
			bt, err := tt.classify(varID)
			if err != nil {
				return Info{}, fmt.Errorf("%w (binding %d)", err, slot)
			}
			if types[slot] != 0 {
				return Info{}, fmt.Errorf("spirv: duplicate binding slot %d", slot)
			}
			types[slot] = bt
		}
		for slot, bt := range types {
			if bt == 0 {
				return Info{}, fmt.Errorf("spirv: binding slots are not contiguous, slot %d missing", slot)
			}
		}
		info.BindingTypes = types
	}

	// The push-constant block contributes one constant per struct member.
	for varID, class := range tt.varClasses {
		if class != storageClassPushConstant {
			continue
		}
		ptr, ok := tt.pointers[tt.varPointers[varID]]
		if !ok {
			return Info{}, fmt.Errorf("spirv: push-constant variable %d has no pointer type", varID)
		}
		members, ok := tt.structMembers[ptr.pointee]
		if !ok {
			return Info{}, fmt.Errorf("spirv: push-constant variable %d does not point at a struct", varID)
		}
		info.PushConstantCount = members
		break
	}

	// Count distinct user spec ids; the reserved workgroup ids belong to
	// the module-creation contract, not the caller.
	seen := make(map[uint32]bool)
	for _, sid := range tt.specIDs {
		switch sid {
		case LocalSizeXID, LocalSizeYID, LocalSizeZID:
			continue
		}
		seen[sid] = true
	}
	info.SpecializationCount = len(seen)

	return info, nil
}
