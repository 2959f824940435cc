package ncnn

import "testing"

func TestOptionPackBits(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
		want uint8
	}{
		{"zero value", Option{}, 0x00},
		{"image storage", Option{UseImageStorage: true}, 0x80},
		{"fp16 packed", Option{UseFP16Packed: true}, 0x40},
		{"fp16 storage", Option{UseFP16Storage: true}, 0x20},
		{"fp16 arithmetic", Option{UseFP16Arithmetic: true}, 0x10},
		{"int8 storage", Option{UseInt8Storage: true}, 0x08},
		{"int8 arithmetic", Option{UseInt8Arithmetic: true}, 0x04},
		{
			"all flags",
			Option{
				UseImageStorage:   true,
				UseFP16Packed:     true,
				UseFP16Storage:    true,
				UseFP16Arithmetic: true,
				UseInt8Storage:    true,
				UseInt8Arithmetic: true,
			},
			0xfc,
		},
		{
			"typical fp16 request",
			Option{UseFP16Storage: true, UseFP16Arithmetic: true},
			0x30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opt.packBits(); got != tt.want {
				t.Errorf("packBits() = %#02x, want %#02x", got, tt.want)
			}
		})
	}
}

func TestOptionPackBitsLowBitsZero(t *testing.T) {
	all := Option{
		UseImageStorage:   true,
		UseFP16Packed:     true,
		UseFP16Storage:    true,
		UseFP16Arithmetic: true,
		UseInt8Storage:    true,
		UseInt8Arithmetic: true,
	}
	if got := all.packBits() & 0x03; got != 0 {
		t.Errorf("bits 1..0 = %#02x, want 0", got)
	}
}
