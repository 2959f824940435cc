package ncnn

// VariantsPerShader is the number of consecutive table slots each
// logical shader owns in a resolver: the fp32 baseline, four fp16
// buffer variants, and the five image-backed equivalents.
const VariantsPerShader = 10

// VariantIndex adjusts a logical shader index to the concrete variant
// selected by the requested options and the hardware capabilities.
//
// The ladder is ordered by preference: image-backed storage beats
// buffer-backed storage, and fp16 arithmetic beats fp16 storage alone.
// The first branch whose requested options and matching capabilities
// all hold wins; requests the hardware cannot honor degrade to the next
// rung rather than failing. Image branches are skipped entirely on
// drivers with the layout-binding alias bug.
//
// Int8 options do not participate in selection. They widen the
// fingerprint so int8 and fp32 configurations never share a pipeline,
// but the precision ladder is a float concern.
func VariantIndex(base int, opt Option, caps Capabilities) int {
	image := opt.UseImageStorage && caps.ImageStorage && !caps.BugLayoutBindingAlias
	fp16p := opt.UseFP16Packed && caps.FP16Packed
	fp16s := opt.UseFP16Storage && caps.FP16Storage
	fp16a := opt.UseFP16Arithmetic && caps.FP16Arithmetic

	switch {
	case image && fp16s && fp16a:
		return base + 9
	case image && fp16p && fp16a:
		return base + 7
	case image && fp16s:
		return base + 8
	case image && fp16p:
		return base + 6
	case image:
		return base + 5
	case fp16s && fp16a:
		return base + 4
	case fp16p && fp16a:
		return base + 2
	case fp16s:
		return base + 3
	case fp16p:
		return base + 1
	default:
		return base
	}
}
