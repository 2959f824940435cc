package ncnn

// Option holds the per-request runtime options that select a shader
// variant and key the pipeline cache. The zero value requests the fp32
// baseline variant.
//
// An option only takes effect when the device also reports the matching
// capability; see [VariantIndex].
type Option struct {
	// UseImageStorage prefers image-backed tensor storage over
	// buffer-backed storage.
	UseImageStorage bool

	// UseFP16Packed requests 16-bit floats packed into 32-bit words.
	UseFP16Packed bool

	// UseFP16Storage requests native 16-bit float storage.
	UseFP16Storage bool

	// UseFP16Arithmetic requests 16-bit float arithmetic inside shaders.
	UseFP16Arithmetic bool

	// UseInt8Storage requests 8-bit integer storage.
	UseInt8Storage bool

	// UseInt8Arithmetic requests 8-bit integer arithmetic inside shaders.
	UseInt8Arithmetic bool
}

// packBits encodes the option flags into their fixed bit positions.
// The packed byte is part of the fingerprint contract: image storage,
// fp16 packed, fp16 storage, fp16 arithmetic, int8 storage and int8
// arithmetic occupy bits 7 down to 2; bits 1 and 0 stay zero.
func (o Option) packBits() uint8 {
	var b uint8
	if o.UseImageStorage {
		b |= 1 << 7
	}
	if o.UseFP16Packed {
		b |= 1 << 6
	}
	if o.UseFP16Storage {
		b |= 1 << 5
	}
	if o.UseFP16Arithmetic {
		b |= 1 << 4
	}
	if o.UseInt8Storage {
		b |= 1 << 3
	}
	if o.UseInt8Arithmetic {
		b |= 1 << 2
	}
	return b
}
