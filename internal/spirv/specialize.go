package spirv

// Specialize returns a copy of code with specialization-constant values
// substituted by spec id: scalar OpSpecConstant literals receive the
// mapped value and OpSpecConstantTrue/False flip opcode on nonzero and
// zero. Ids the module does not declare are ignored, so callers can
// offer the full reserved set without knowing which ids a shader uses.
//
// Backends whose pipeline creation cannot bake specialization constants
// use this to produce equivalent bytecode up front.
func Specialize(code []uint32, values map[uint32]uint32) ([]uint32, error) {
	if err := validate(code); err != nil {
		return nil, err
	}

	// Spec ids decorate result ids; gather the mapping first.
	specIDs := make(map[uint32]uint32)
	err := walk(code, func(_ int, op uint32, args []uint32) bool {
		if op == opDecorate && len(args) >= 3 && args[1] == decorationSpecID {
			specIDs[args[0]] = args[2]
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	out := make([]uint32, len(code))
	copy(out, code)

	_ = walk(out, func(pos int, op uint32, args []uint32) bool {
		switch op {
		case opSpecConstant:
			// Result type, result id, literal words. Only 32-bit scalars
			// carry a single literal; wider constants keep their low word
			// semantics and are not used by compute shaders here.
			if len(args) < 3 {
				return true
			}
			if v, ok := lookupValue(specIDs, values, args[1]); ok {
				args[2] = v
			}
		case opSpecConstantTrue, opSpecConstantFalse:
			if len(args) < 2 {
				return true
			}
			if v, ok := lookupValue(specIDs, values, args[1]); ok {
				newOp := uint32(opSpecConstantFalse)
				if v != 0 {
					newOp = opSpecConstantTrue
				}
				wordCount := out[pos] >> 16
				out[pos] = newOp | wordCount<<16
			}
		}
		return true
	})

	return out, nil
}

// SpecializeWorkgroupSize returns a copy of code with the workgroup
// shape baked in: the reserved spec-id constants receive x, y and z, and
// the literal LocalSize execution mode is rewritten to match.
func SpecializeWorkgroupSize(code []uint32, x, y, z uint32) ([]uint32, error) {
	out, err := Specialize(code, map[uint32]uint32{
		LocalSizeXID: x,
		LocalSizeYID: y,
		LocalSizeZID: z,
	})
	if err != nil {
		return nil, err
	}

	_ = walk(out, func(_ int, op uint32, args []uint32) bool {
		if op == opExecutionMode && len(args) >= 5 && args[1] == executionModeLocalSize {
			args[2], args[3], args[4] = x, y, z
		}
		return true
	})

	return out, nil
}

// lookupValue resolves a result id to its substitute value, when the id
// is spec-decorated and the caller supplied that spec id.
func lookupValue(specIDs, values map[uint32]uint32, resultID uint32) (uint32, bool) {
	sid, ok := specIDs[resultID]
	if !ok {
		return 0, false
	}
	v, ok := values[sid]
	return v, ok
}
