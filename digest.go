package ncnn

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	"math/bits"
)

// digest fingerprints one pipeline configuration. The struct is
// comparable, so the store matches entries with plain ==; every field
// must agree for two requests to share a pipeline.
//
// The specialization buffer is folded into two independent 32-bit hashes
// (one word-wise with avalanche finalization, one byte-wise FNV-1a)
// instead of being stored, which keeps the fingerprint fixed-size while
// making an undetected collision require both hashes to collide on the
// same input.
type digest struct {
	shaderIndex uint32
	optionBits  uint8
	localSizeX  uint32
	localSizeY  uint32
	localSizeZ  uint32
	specHashA   uint32
	specHashB   uint32
}

// newDigest fingerprints a pipeline request. shaderIndex is the logical
// index as supplied by the caller, before variant adjustment.
func newDigest(shaderIndex int, opt Option, specs []SpecValue, localSize [3]uint32) digest {
	return digest{
		shaderIndex: uint32(shaderIndex),
		optionBits:  opt.packBits(),
		localSizeX:  localSize[0],
		localSizeY:  localSize[1],
		localSizeZ:  localSize[2],
		specHashA:   specHashWords(specs),
		specHashB:   specHashBytes(specs),
	}
}

// specHashWords mixes the specialization buffer word by word with a
// multiply-rotate-xor round and finishes with a length-dependent
// avalanche, so buffers that differ only by trailing zero words still
// hash apart.
func specHashWords(specs []SpecValue) uint32 {
	var h uint32
	for _, s := range specs {
		k := uint32(s)
		k *= 0xcc9e2d51
		k = bits.RotateLeft32(k, 15)
		k *= 0x1b873593
		h ^= k
		h = bits.RotateLeft32(h, 13)
		h = h*5 + 0xe6546b64
	}
	h ^= uint32(4 * len(specs))
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}

// specHashBytes hashes the buffer as a little-endian byte stream with
// 32-bit FNV-1a.
func specHashBytes(specs []SpecValue) uint32 {
	h := fnv.New32a()
	for _, s := range specs {
		hashWriteUint32(h, uint32(s))
	}
	return h.Sum32()
}

// hashWriteUint32 writes a uint32 to the hash in little-endian byte order.
func hashWriteUint32(h hash.Hash, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, _ = h.Write(buf[:])
}
