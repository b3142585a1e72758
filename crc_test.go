package serialbroker

import (
	"bytes"
	"testing"
)

// Reference data: slave 2, read holding register 177, response value 700.
// Request:  02 03 00 B1 00 01 D4 1E  (8 bytes, func 0x03)
// Response: 02 03 02 02 BC FC 95     (7 bytes, func 0x03 response with byte count 2)
var (
	reqFrame  = []byte{0x02, 0x03, 0x00, 0xB1, 0x00, 0x01, 0xD4, 0x1E}
	respFrame = []byte{0x02, 0x03, 0x02, 0x02, 0xBC, 0xFC, 0x95}
)

func TestCRC16(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want uint16
	}{
		{"request prefix", reqFrame[:len(reqFrame)-2], 0xD41E},
		{"response prefix", respFrame[:len(respFrame)-2], 0xFC95},
		{"empty", nil, 0xFFFF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := crc16(tt.data); got != tt.want {
				t.Errorf("crc16() = %04X, want %04X", got, tt.want)
			}
		})
	}
}

func TestCheckCRC(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
		want  bool
	}{
		{"valid request", reqFrame, true},
		{"valid response", respFrame, true},
		{"corrupted last byte", append(bytes.Clone(reqFrame[:len(reqFrame)-1]), 0x00), false},
		{"too short", []byte{0x01, 0x02, 0x03, 0x04}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkCRC(tt.frame); got != tt.want {
				t.Errorf("checkCRC() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTryDecodeBufferExactFrame(t *testing.T) {
	got := tryDecodeBuffer(reqFrame)
	if !bytes.Equal(got, reqFrame) {
		t.Errorf("tryDecodeBuffer() = %x, want %x", got, reqFrame)
	}
}

func TestTryDecodeBufferPrefixNoise(t *testing.T) {
	noisy := append([]byte{0xAA, 0xBB}, reqFrame...)
	got := tryDecodeBuffer(noisy)
	if got == nil {
		t.Fatal("tryDecodeBuffer() = nil, want a match")
	}
	if !bytes.Equal(got, reqFrame) {
		t.Errorf("tryDecodeBuffer() = %x, want %x", got, reqFrame)
	}
}

func TestTryDecodeBufferSuffixNoise(t *testing.T) {
	noisy := append(bytes.Clone(reqFrame), 0xAA, 0xBB)
	got := tryDecodeBuffer(noisy)
	if got == nil {
		t.Fatal("tryDecodeBuffer() = nil, want a match")
	}
	if !bytes.Equal(got, reqFrame) {
		t.Errorf("tryDecodeBuffer() = %x, want %x", got, reqFrame)
	}
}

func TestTryDecodeBufferGarbage(t *testing.T) {
	garbage := []byte{0xFF, 0xFE, 0xFD, 0xFC, 0xFB, 0xFA}
	if got := tryDecodeBuffer(garbage); got != nil {
		t.Errorf("tryDecodeBuffer() = %x, want nil", got)
	}
}

func TestCloneBytesIsIndependent(t *testing.T) {
	src := []byte{1, 2, 3}
	clone := cloneBytes(src)
	clone[0] = 9
	if src[0] != 1 {
		t.Errorf("cloneBytes mutated the source: src[0] = %d, want 1", src[0])
	}
}
